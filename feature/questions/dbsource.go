package questions

import (
	"context"
	"fmt"

	"record-reconciler/core/reconcile"

	"gorm.io/gorm"
)

// defaultPageSize bounds a page when the caller does not configure one.
const defaultPageSize = 500

// DBSource reads one table as a paged stream of raw records using keyset
// pagination on the key column. Rows come out ordered by key, so scans are
// deterministic and safe to resume against eventually-consistent reads.
type DBSource struct {
	db          *gorm.DB
	table       string
	keyColumn   string
	valueColumn string
	pageSize    int
}

// NewDBSource creates a paged source over table, projecting only the key and
// value columns the way the engine needs them.
func NewDBSource(db *gorm.DB, table, keyColumn, valueColumn string, pageSize int) *DBSource {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &DBSource{
		db:          db,
		table:       table,
		keyColumn:   keyColumn,
		valueColumn: valueColumn,
		pageSize:    pageSize,
	}
}

// Name identifies the source in logs and cache keys.
func (s *DBSource) Name() string {
	return "db:" + s.table
}

// FetchPage returns the next window of rows after the token key. Query
// failures are reported as transient so the engine's retry policy applies.
func (s *DBSource) FetchPage(ctx context.Context, token string) (*reconcile.Page, error) {
	type row struct {
		K string `gorm:"column:k"`
		V string `gorm:"column:v"`
	}

	query := s.db.WithContext(ctx).
		Table(s.table).
		Select(fmt.Sprintf("`%s` AS k, `%s` AS v", s.keyColumn, s.valueColumn)).
		Order(fmt.Sprintf("`%s` ASC", s.keyColumn)).
		Limit(s.pageSize)
	if token != "" {
		query = query.Where(fmt.Sprintf("`%s` > ?", s.keyColumn), token)
	}

	var rows []row
	if err := query.Scan(&rows).Error; err != nil {
		return nil, &reconcile.TransientError{Err: err}
	}

	page := &reconcile.Page{
		Records: make([]reconcile.RawRecord, 0, len(rows)),
	}
	for _, r := range rows {
		page.Records = append(page.Records, reconcile.RawRecord{
			s.keyColumn:   r.K,
			s.valueColumn: r.V,
		})
	}
	if len(rows) == s.pageSize {
		page.NextToken = rows[len(rows)-1].K
	}
	return page, nil
}
