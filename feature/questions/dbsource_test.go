package questions

import (
	"context"
	"errors"
	"testing"

	"record-reconciler/core/reconcile"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// setupMockDB creates a mock GORM DB for testing.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestDBSource_FetchPage(t *testing.T) {
	db, mock := setupMockDB(t)
	src := NewDBSource(db, "questions", "QuestionId", "Key", 10)

	rows := sqlmock.NewRows([]string{"k", "v"}).
		AddRow("q1", "A").
		AddRow("q2", "B")
	mock.ExpectQuery("SELECT `QuestionId` AS k, `Key` AS v FROM `questions`").WillReturnRows(rows)

	page, err := src.FetchPage(context.Background(), "")
	require.NoError(t, err)

	require.Len(t, page.Records, 2)
	assert.Equal(t, "q1", page.Records[0]["QuestionId"])
	assert.Equal(t, "A", page.Records[0]["Key"])
	assert.Equal(t, "q2", page.Records[1]["QuestionId"])

	// Short page means the stream is exhausted.
	assert.Empty(t, page.NextToken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBSource_FetchPage_Pagination(t *testing.T) {
	db, mock := setupMockDB(t)
	src := NewDBSource(db, "questions", "QuestionId", "Key", 2)

	first := sqlmock.NewRows([]string{"k", "v"}).
		AddRow("q1", "A").
		AddRow("q2", "B")
	mock.ExpectQuery("SELECT `QuestionId` AS k, `Key` AS v FROM `questions`").WillReturnRows(first)

	page, err := src.FetchPage(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, page.Records, 2)
	// A full page continues after its last key.
	assert.Equal(t, "q2", page.NextToken)

	second := sqlmock.NewRows([]string{"k", "v"}).
		AddRow("q3", "C")
	// LIMIT is parameterized too, so the token and the page size both bind.
	mock.ExpectQuery("SELECT `QuestionId` AS k, `Key` AS v FROM `questions` WHERE `QuestionId` > \\?").
		WithArgs("q2", 2).
		WillReturnRows(second)

	page, err = src.FetchPage(context.Background(), page.NextToken)
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	assert.Equal(t, "q3", page.Records[0]["QuestionId"])
	assert.Empty(t, page.NextToken)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBSource_FetchPage_QueryErrorIsTransient(t *testing.T) {
	db, mock := setupMockDB(t)
	src := NewDBSource(db, "questions", "QuestionId", "Key", 10)

	mock.ExpectQuery("SELECT .* FROM `questions`").WillReturnError(errors.New("connection refused"))

	_, err := src.FetchPage(context.Background(), "")
	require.Error(t, err)

	var transient *reconcile.TransientError
	assert.True(t, errors.As(err, &transient))
}

func TestDBSource_Name(t *testing.T) {
	src := NewDBSource(nil, "model_results", "QuestionId", "CorrectOption", 0)
	assert.Equal(t, "db:model_results", src.Name())
}
