package questions

import (
	"context"
	"errors"
	"testing"

	"record-reconciler/core/storage/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestImporter_Import(t *testing.T) {
	db, sqlMock := setupMockDB(t)
	mockClient := new(mocks.Client)
	mockClient.On("GetObject", mock.Anything, "test-bucket", "datasets/questions.csv", mock.Anything).
		Return(csvBody("QuestionId,Question,Key,Topic\nq1,What is 2+2?,A,math\n,orphan row,B,math\nq2,Capital of France?,C,geo\n"), nil).Once()

	sqlMock.ExpectBegin()
	sqlMock.ExpectExec("INSERT INTO `questions`").WillReturnResult(sqlmock.NewResult(0, 2))
	sqlMock.ExpectCommit()

	im := NewImporter(db, mockClient, "test-bucket", zap.NewNop())

	summary, err := im.Import(context.Background(), "datasets/questions.csv")
	require.NoError(t, err)

	assert.Equal(t, "datasets/questions.csv", summary.Object)
	assert.Equal(t, 3, summary.Rows)
	assert.Equal(t, 2, summary.Imported)
	// The row without a question id never reaches the database.
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 0, summary.Failed)

	assert.NoError(t, sqlMock.ExpectationsWereMet())
	mockClient.AssertExpectations(t)
}

func TestImporter_Import_HeaderCaseInsensitive(t *testing.T) {
	db, sqlMock := setupMockDB(t)
	mockClient := new(mocks.Client)
	mockClient.On("GetObject", mock.Anything, "test-bucket", "upload.csv", mock.Anything).
		Return(csvBody("QUESTIONID,KEY\nq1,A\n"), nil).Once()

	sqlMock.ExpectBegin()
	sqlMock.ExpectExec("INSERT INTO `questions`").WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.ExpectCommit()

	im := NewImporter(db, mockClient, "test-bucket", zap.NewNop())

	summary, err := im.Import(context.Background(), "upload.csv")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Imported)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestImporter_Import_FetchError(t *testing.T) {
	db, _ := setupMockDB(t)
	mockClient := new(mocks.Client)
	mockClient.On("GetObject", mock.Anything, "test-bucket", "missing.csv", mock.Anything).
		Return(nil, errors.New("object not found")).Once()

	im := NewImporter(db, mockClient, "test-bucket", zap.NewNop())

	_, err := im.Import(context.Background(), "missing.csv")
	assert.Error(t, err)
}

func TestImporter_Import_EmptyObject(t *testing.T) {
	db, _ := setupMockDB(t)
	mockClient := new(mocks.Client)
	mockClient.On("GetObject", mock.Anything, "test-bucket", "empty.csv", mock.Anything).
		Return(csvBody(""), nil).Once()

	im := NewImporter(db, mockClient, "test-bucket", zap.NewNop())

	_, err := im.Import(context.Background(), "empty.csv")
	assert.Error(t, err)
}

func TestImporter_Import_BatchFallback(t *testing.T) {
	db, sqlMock := setupMockDB(t)
	mockClient := new(mocks.Client)
	mockClient.On("GetObject", mock.Anything, "test-bucket", "upload.csv", mock.Anything).
		Return(csvBody("QuestionId,Key\nq1,A\nq2,B\n"), nil).Once()

	// The batch insert fails, so rows are retried one by one and only the
	// bad row is reported as failed.
	sqlMock.ExpectBegin()
	sqlMock.ExpectExec("INSERT INTO `questions`").WillReturnError(errors.New("data too long"))
	sqlMock.ExpectRollback()

	sqlMock.ExpectBegin()
	sqlMock.ExpectExec("INSERT INTO `questions`").WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.ExpectCommit()

	sqlMock.ExpectBegin()
	sqlMock.ExpectExec("INSERT INTO `questions`").WillReturnError(errors.New("data too long"))
	sqlMock.ExpectRollback()

	im := NewImporter(db, mockClient, "test-bucket", zap.NewNop())

	summary, err := im.Import(context.Background(), "upload.csv")
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Imported)
	assert.Equal(t, 1, summary.Failed)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}
