package questions

import (
	"context"
	"errors"
	"fmt"

	"record-reconciler/core/reconcile"
	"record-reconciler/core/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNoDatabase is returned when a reconciliation needs the database but the
// optional connection was not established at startup.
var ErrNoDatabase = errors.New("database connection is not available")

// Service runs question reconciliations against the configured tables.
type Service struct {
	db     *gorm.DB
	client storage.Client
	bucket string
	cfg    reconcile.Config
	cache  *reconcile.ReportCache
	logger *zap.Logger
}

// NewService creates a service. db may be nil when the database is down;
// reconciliations will then fail at call time with ErrNoDatabase.
func NewService(db *gorm.DB, client storage.Client, bucket string, cfg reconcile.Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		db:     db,
		client: client,
		bucket: bucket,
		cfg:    cfg,
		cache:  reconcile.NewReportCache(),
		logger: logger,
	}
}

// Reconcile joins the question bank table against the model results table.
// With refresh=false and a configured cache TTL, a recent report may be
// served from cache; concurrent callers share a single run.
func (s *Service) Reconcile(ctx context.Context, refresh bool) (*reconcile.Report, error) {
	if s.db == nil {
		return nil, ErrNoDatabase
	}

	engine, err := s.engine()
	if err != nil {
		return nil, err
	}

	srcA := NewDBSource(s.db, s.cfg.SourceTable, s.cfg.AliasesA().Key[0], s.cfg.AliasesA().Value[0], s.cfg.PageSize)
	srcB := NewDBSource(s.db, s.cfg.ResultsTable, s.cfg.AliasesB().Key[0], s.cfg.AliasesB().Value[0], s.cfg.PageSize)

	key := s.cacheKey(srcA, srcB)
	if refresh {
		s.cache.Invalidate(key)
	}

	report := s.cache.GetOrRun(ctx, key, s.cfg.CacheTTL(), func(ctx context.Context) *reconcile.Report {
		return engine.Run(ctx, srcA, srcB)
	})
	return report, nil
}

// ReconcileCSV joins a CSV object (side A) against the model results table.
// CSV runs are never cached: the object may change between uploads.
func (s *Service) ReconcileCSV(ctx context.Context, object string) (*reconcile.Report, error) {
	if s.db == nil {
		return nil, ErrNoDatabase
	}
	if s.client == nil {
		return nil, errors.New("storage client is not available")
	}

	engine, err := s.engine()
	if err != nil {
		return nil, err
	}

	srcA := NewCSVSource(s.client, s.bucket, object, s.cfg.PageSize)
	srcB := NewDBSource(s.db, s.cfg.ResultsTable, s.cfg.AliasesB().Key[0], s.cfg.AliasesB().Value[0], s.cfg.PageSize)

	return engine.Run(ctx, srcA, srcB), nil
}

func (s *Service) engine() (*reconcile.Engine, error) {
	return reconcile.New(s.cfg.AliasesA(), s.cfg.AliasesB(), s.cfg.Options(), s.logger)
}

// cacheKey ties a cached report to everything that shapes it, the alias
// tables included, so no configuration change can be served a stale report.
func (s *Service) cacheKey(srcA, srcB reconcile.Source) string {
	return fmt.Sprintf("%s|%s|ka=%s|va=%s|kb=%s|vb=%s|case=%t|cap=%d|page=%d",
		srcA.Name(), srcB.Name(),
		s.cfg.KeyAliasesA, s.cfg.ValueAliasesA,
		s.cfg.KeyAliasesB, s.cfg.ValueAliasesB,
		s.cfg.CaseSensitive, s.cfg.MaxDetailRecords, s.cfg.PageSize)
}
