package reconcile

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingSource tracks attempts and fails a fixed number of times.
type countingSource struct {
	mu       sync.Mutex
	attempts int
	failures int
	err      error
	page     Page
}

func (s *countingSource) Name() string {
	return "counting"
}

func (s *countingSource) FetchPage(ctx context.Context, token string) (*Page, error) {
	s.mu.Lock()
	s.attempts++
	attempt := s.attempts
	s.mu.Unlock()

	if attempt <= s.failures {
		return nil, s.err
	}
	page := s.page
	return &page, nil
}

func scanOptions() Options {
	opts := DefaultOptions()
	opts.PageBackoff = time.Millisecond
	return opts
}

func testNormalizer(tag SourceTag) *Normalizer {
	return NewNormalizer(FieldAliases{
		Key:   []string{"QuestionId"},
		Value: []string{"Key"},
	}, tag)
}

func TestFetchPageWithRetry_TransientRecovers(t *testing.T) {
	src := &countingSource{
		failures: 2,
		err:      &TransientError{Err: errors.New("timeout")},
		page:     Page{Records: []RawRecord{{"QuestionId": "q1", "Key": "A"}}},
	}

	opts := scanOptions()
	opts.MaxRetries = 3

	page, err := fetchPageWithRetry(context.Background(), src, "", opts)
	require.NoError(t, err)
	assert.Len(t, page.Records, 1)
	assert.Equal(t, 3, src.attempts)
}

func TestFetchPageWithRetry_Exhaustion(t *testing.T) {
	readErr := &TransientError{Err: errors.New("throttled")}
	src := &countingSource{failures: 100, err: readErr}

	opts := scanOptions()
	opts.MaxRetries = 2

	_, err := fetchPageWithRetry(context.Background(), src, "", opts)
	assert.Error(t, err)
	// Initial attempt plus two retries.
	assert.Equal(t, 3, src.attempts)
}

func TestFetchPageWithRetry_NonRetryableStopsImmediately(t *testing.T) {
	readErr := errors.New("table does not exist")
	src := &countingSource{failures: 100, err: readErr}

	opts := scanOptions()
	opts.MaxRetries = 3

	_, err := fetchPageWithRetry(context.Background(), src, "", opts)
	assert.ErrorIs(t, err, readErr)
	assert.Equal(t, 1, src.attempts)
}

func TestFetchPageWithRetry_DeadlineIsRetried(t *testing.T) {
	src := &countingSource{
		failures: 1,
		err:      context.DeadlineExceeded,
		page:     Page{},
	}

	opts := scanOptions()
	opts.MaxRetries = 2

	_, err := fetchPageWithRetry(context.Background(), src, "", opts)
	assert.NoError(t, err)
	assert.Equal(t, 2, src.attempts)
}

func TestScanSource_DuplicateKeyLastWriteWins(t *testing.T) {
	src := pagedRecords("dup", 2,
		RawRecord{"QuestionId": "q1", "Key": "A"},
		RawRecord{"QuestionId": "q2", "Key": "B"},
		RawRecord{"QuestionId": "q1", "Key": "C"},
	)

	res := scanSource(context.Background(), src, testNormalizer(SourceA), SourceA, scanOptions())

	require.Len(t, res.records, 2)
	// q1 keeps its first-encounter position with the later value.
	assert.Equal(t, "q1", res.records[0].Key)
	assert.Equal(t, "C", res.records[0].Value)
	assert.Equal(t, "q2", res.records[1].Key)

	require.Len(t, res.skipped, 1)
	assert.Equal(t, SkipDuplicateKey, res.skipped[0].Reason)
	assert.Equal(t, "q1", res.skipped[0].Key)
	assert.False(t, res.partial)
}

func TestScanSource_PartialKeepsEarlierPages(t *testing.T) {
	src := &flakySource{
		inner: pagedRecords("flaky", 1,
			RawRecord{"QuestionId": "q1", "Key": "A"},
			RawRecord{"QuestionId": "q2", "Key": "B"},
		),
		failures: map[string]int{"1": 100},
		err:      &TransientError{Err: errors.New("read reset")},
	}

	opts := scanOptions()
	opts.MaxRetries = 1

	res := scanSource(context.Background(), src, testNormalizer(SourceA), SourceA, opts)

	assert.True(t, res.partial)
	require.Len(t, res.records, 1)
	assert.Equal(t, "q1", res.records[0].Key)
}

func TestScanSource_TrimsKeysAndValues(t *testing.T) {
	src := pagedRecords("trim", 10,
		RawRecord{"QuestionId": "  q1  ", "Key": " A "},
		RawRecord{"QuestionId": "   ", "Key": "B"}, // key empty after trim
	)

	res := scanSource(context.Background(), src, testNormalizer(SourceA), SourceA, scanOptions())

	require.Len(t, res.records, 1)
	assert.Equal(t, "q1", res.records[0].Key)
	assert.Equal(t, "A", res.records[0].Value)

	require.Len(t, res.skipped, 1)
	assert.Equal(t, SkipMissingKeyField, res.skipped[0].Reason)
}
