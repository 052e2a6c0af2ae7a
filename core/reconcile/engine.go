package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// ErrInvalidConfig is returned when the engine cannot be constructed at all.
// It is the only failure mode that produces no report.
var ErrInvalidConfig = errors.New("invalid reconciliation configuration")

// Engine joins two keyed record sources and classifies every key in their
// union. An engine holds no state across runs; re-running against unchanged
// sources yields an identical report.
type Engine struct {
	aliasesA FieldAliases
	aliasesB FieldAliases
	opts     Options
	logger   *zap.Logger
}

// New validates the alias configuration and creates an engine.
func New(aliasesA, aliasesB FieldAliases, opts Options, logger *zap.Logger) (*Engine, error) {
	if len(aliasesA.Key) == 0 || len(aliasesB.Key) == 0 {
		return nil, fmt.Errorf("%w: key field aliases are required for both sources", ErrInvalidConfig)
	}
	if len(aliasesA.Value) == 0 || len(aliasesB.Value) == 0 {
		return nil, fmt.Errorf("%w: value field aliases are required for both sources", ErrInvalidConfig)
	}
	if opts.MaxRetries < 0 {
		return nil, fmt.Errorf("%w: max retries must not be negative", ErrInvalidConfig)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		aliasesA: aliasesA,
		aliasesB: aliasesB,
		opts:     opts,
		logger:   logger,
	}, nil
}

// Run reconciles the two sources and always returns a report. The sources
// are scanned concurrently and buffered in full before joining. When a scan
// ends early (retry exhaustion or cancellation) the report covers whatever
// was read and is flagged partial.
func (e *Engine) Run(ctx context.Context, srcA, srcB Source) *Report {
	normA := NewNormalizer(e.aliasesA, SourceA)
	normB := NewNormalizer(e.aliasesB, SourceB)

	var (
		resA, resB scanResult
		wg         sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		resA = scanSource(ctx, srcA, normA, SourceA, e.opts)
	}()
	go func() {
		defer wg.Done()
		resB = scanSource(ctx, srcB, normB, SourceB, e.opts)
	}()
	wg.Wait()

	bld := newBuilder(e.opts)
	for _, row := range join(resA.records, resB.records) {
		bld.add(row, row.Classify(e.opts.CaseSensitive))
	}
	bld.addSkipped(resA.skipped)
	bld.addSkipped(resB.skipped)
	if resA.partial || resB.partial {
		bld.markPartial()
	}
	report := bld.build()

	e.logger.Info("reconciliation finished",
		zap.String("source_a", srcA.Name()),
		zap.String("source_b", srcB.Name()),
		zap.Int("matches", report.Matches),
		zap.Int("mismatches", report.Mismatches),
		zap.Int("missing_from_a", len(report.MissingFromA)),
		zap.Int("missing_from_b", len(report.MissingFromB)),
		zap.Int("skipped", len(report.Skipped)),
		zap.Bool("partial", report.Partial),
	)
	return report
}

// join performs a hash outer join with side A as the build side. Rows come
// out in side A's encounter order, then keys seen only in B in B's encounter
// order. Both inputs are already deduplicated by key.
func join(a, b []NormalizedRecord) []JoinRow {
	indexA := make(map[string]int, len(a))
	rows := make([]JoinRow, len(a), len(a)+len(b))

	for i, rec := range a {
		v := rec.Value
		rows[i] = JoinRow{Key: rec.Key, ValueA: &v}
		indexA[rec.Key] = i
	}
	for _, rec := range b {
		v := rec.Value
		if i, ok := indexA[rec.Key]; ok {
			rows[i].ValueB = &v
			continue
		}
		rows = append(rows, JoinRow{Key: rec.Key, ValueB: &v})
	}
	return rows
}
