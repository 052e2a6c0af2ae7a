package questions

import (
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"record-reconciler/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// importBatchSize is the number of rows inserted per statement.
const importBatchSize = 100

// ImportSummary reports the outcome of a CSV import.
type ImportSummary struct {
	Object   string `json:"object"`
	Rows     int    `json:"rows"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
	Failed   int    `json:"failed"`
}

// Importer loads CSV question banks from storage into the questions table.
type Importer struct {
	db     *gorm.DB
	client storage.Client
	bucket string
	logger *zap.Logger
}

// NewImporter creates an importer.
func NewImporter(db *gorm.DB, client storage.Client, bucket string, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{db: db, client: client, bucket: bucket, logger: logger}
}

// Import reads the CSV object and upserts its rows in batches. Rows without
// a QuestionId are skipped; a failed batch falls back to row-by-row inserts
// so one bad row never aborts the import.
func (im *Importer) Import(ctx context.Context, object string) (*ImportSummary, error) {
	start := time.Now()

	obj, err := im.client.GetObject(ctx, im.bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", object, err)
	}
	defer obj.Close()

	reader := csv.NewReader(obj)
	reader.FieldsPerRecord = -1

	all, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", object, err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("%s has no header row", object)
	}

	columns := headerIndex(all[0])
	summary := &ImportSummary{Object: object, Rows: len(all) - 1}

	var batch []Question
	for _, row := range all[1:] {
		q := rowToQuestion(row, columns)
		if strings.TrimSpace(q.QuestionID) == "" {
			summary.Skipped++
			continue
		}
		batch = append(batch, q)
	}

	for startIdx := 0; startIdx < len(batch); startIdx += importBatchSize {
		endIdx := startIdx + importBatchSize
		if endIdx > len(batch) {
			endIdx = len(batch)
		}
		chunk := batch[startIdx:endIdx]

		if err := im.upsert(ctx, chunk); err != nil {
			// Fall back to one-at-a-time so only the bad rows are lost.
			for i := range chunk {
				if rowErr := im.upsert(ctx, chunk[i:i+1]); rowErr != nil {
					summary.Failed++
					im.logger.Error("failed to import row",
						zap.String("question_id", chunk[i].QuestionID),
						zap.Error(rowErr),
					)
					continue
				}
				summary.Imported++
			}
			continue
		}
		summary.Imported += len(chunk)
	}

	im.logger.Info("import finished",
		zap.String("object", object),
		zap.Int("rows", summary.Rows),
		zap.Int("imported", summary.Imported),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
		zap.Duration("elapsed", time.Since(start)),
	)
	return summary, nil
}

func (im *Importer) upsert(ctx context.Context, rows []Question) error {
	return im.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rows).Error
}

// headerIndex maps lowercased header names to column positions.
func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return index
}

// rowToQuestion maps one CSV row onto the Question model, matching columns
// case-insensitively.
func rowToQuestion(row []string, columns map[string]int) Question {
	cell := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	return Question{
		QuestionID: cell("questionid"),
		Question:   cell("question"),
		ResponseA:  cell("responsea"),
		ResponseB:  cell("responseb"),
		ResponseC:  cell("responsec"),
		ResponseD:  cell("responsed"),
		ResponseE:  cell("responsee"),
		ResponseF:  cell("responsef"),
		Key:        cell("key"),
		Type:       cell("type"),
		Status:     cell("status"),
		Topic:      cell("topic"),
	}
}
