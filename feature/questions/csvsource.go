package questions

import (
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"sync"

	"record-reconciler/core/reconcile"
	"record-reconciler/core/storage"

	"github.com/minio/minio-go/v7"
)

// CSVSource serves a CSV object from storage as a paged record stream. The
// object is fetched and parsed once on first use; pages are row windows over
// the parsed file. The header row supplies field names, so alias resolution
// in the engine handles whatever casing the upload used.
type CSVSource struct {
	client   storage.Client
	bucket   string
	object   string
	pageSize int

	mu     sync.Mutex
	loaded bool
	header []string
	rows   [][]string
}

// NewCSVSource creates a source over one CSV object.
func NewCSVSource(client storage.Client, bucket, object string, pageSize int) *CSVSource {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &CSVSource{
		client:   client,
		bucket:   bucket,
		object:   object,
		pageSize: pageSize,
	}
}

// Name identifies the source in logs and cache keys.
func (s *CSVSource) Name() string {
	return "csv:" + s.object
}

// FetchPage returns the row window identified by token (a row offset).
// Fetch or parse failures are transient: a later retry re-attempts the
// download.
func (s *CSVSource) FetchPage(ctx context.Context, token string) (*reconcile.Page, error) {
	if err := s.load(ctx); err != nil {
		return nil, &reconcile.TransientError{Err: err}
	}

	offset := 0
	if token != "" {
		var err error
		offset, err = strconv.Atoi(token)
		if err != nil || offset < 0 {
			return nil, fmt.Errorf("invalid page token %q", token)
		}
	}
	if offset >= len(s.rows) {
		return &reconcile.Page{}, nil
	}

	end := offset + s.pageSize
	if end > len(s.rows) {
		end = len(s.rows)
	}

	page := &reconcile.Page{
		Records: make([]reconcile.RawRecord, 0, end-offset),
	}
	for _, row := range s.rows[offset:end] {
		record := make(reconcile.RawRecord, len(s.header))
		for i, name := range s.header {
			if i < len(row) {
				record[name] = row[i]
			}
		}
		page.Records = append(page.Records, record)
	}
	if end < len(s.rows) {
		page.NextToken = strconv.Itoa(end)
	}
	return page, nil
}

// load downloads and parses the object once. A failed load is retried on the
// next call rather than latched.
func (s *CSVSource) load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return nil
	}

	obj, err := s.client.GetObject(ctx, s.bucket, s.object, minio.GetObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", s.object, err)
	}
	defer obj.Close()

	reader := csv.NewReader(obj)
	reader.FieldsPerRecord = -1 // Ragged rows are handled per cell

	all, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", s.object, err)
	}
	if len(all) == 0 {
		return fmt.Errorf("%s has no header row", s.object)
	}

	s.header = all[0]
	s.rows = all[1:]
	s.loaded = true
	return nil
}
