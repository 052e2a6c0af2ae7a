package reconcile

import (
	"context"
	"errors"
	"time"
)

// Page is one batch of records from a source scan.
type Page struct {
	// Records are the raw records of this page, in source order.
	Records []RawRecord

	// NextToken requests the following page; empty means this was the
	// last page.
	NextToken string
}

// Source is a paged reader over one side's records. Implementations live
// next to the data they read (database tables, CSV objects) and must return
// pages in a stable order so reports stay deterministic across runs.
type Source interface {
	// Name identifies the source in logs and cache keys.
	Name() string

	// FetchPage returns the page identified by token. An empty token
	// requests the first page.
	FetchPage(ctx context.Context, token string) (*Page, error)
}

// TransientError marks a page read failure as retryable. Failures not
// wrapped in TransientError (other than deadline expiry, which is always
// retried) end the scan immediately.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return "transient source read error: " + e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// scanResult is one fully drained side, deduplicated and side-tagged.
type scanResult struct {
	records []NormalizedRecord
	skipped []SkippedRecord
	partial bool
}

// scanSource drains a source through the normalizer. Duplicate keys resolve
// last-write-wins: the record keeps its first-encounter position, the new
// value replaces the old one, and the superseded occurrence is logged as a
// DuplicateKey skip. A page that cannot be read ends the scan early with
// partial=true; everything read so far is kept.
func scanSource(ctx context.Context, src Source, norm *Normalizer, tag SourceTag, opts Options) scanResult {
	var res scanResult
	position := make(map[string]int)

	token := ""
	for {
		page, err := fetchPageWithRetry(ctx, src, token, opts)
		if err != nil {
			res.partial = true
			return res
		}

		for _, raw := range page.Records {
			rec, err := norm.Normalize(raw)
			if err != nil {
				var skip *SkipError
				if errors.As(err, &skip) {
					res.skipped = append(res.skipped, SkippedRecord{
						Source: tag,
						Key:    skip.Key,
						Reason: skip.Reason,
					})
				}
				continue
			}

			if i, ok := position[rec.Key]; ok {
				res.skipped = append(res.skipped, SkippedRecord{
					Source: tag,
					Key:    rec.Key,
					Reason: SkipDuplicateKey,
				})
				res.records[i] = rec
				continue
			}
			position[rec.Key] = len(res.records)
			res.records = append(res.records, rec)
		}

		if page.NextToken == "" {
			return res
		}
		token = page.NextToken
	}
}

// fetchPageWithRetry fetches one page under the per-page timeout, retrying
// transient failures and timeouts up to opts.MaxRetries with doubling
// backoff. Cancellation of the run context stops retrying immediately.
func fetchPageWithRetry(ctx context.Context, src Source, token string, opts Options) (*Page, error) {
	backoff := opts.PageBackoff
	if backoff <= 0 {
		backoff = 250 * time.Millisecond
	}

	var lastErr error
	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		pageCtx := ctx
		cancel := context.CancelFunc(func() {})
		if opts.PageTimeout > 0 {
			pageCtx, cancel = context.WithTimeout(ctx, opts.PageTimeout)
		}
		page, err := src.FetchPage(pageCtx, token)
		cancel()

		if err == nil {
			return page, nil
		}
		lastErr = err

		// Run-level cancellation trumps retrying.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		var transient *TransientError
		if !errors.As(err, &transient) && !errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
	}
	return nil, lastErr
}
