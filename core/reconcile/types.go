package reconcile

import (
	"strings"
	"time"
)

// SourceTag identifies which side of a reconciliation a record came from.
type SourceTag string

const (
	// SourceA is the build side of the join.
	SourceA SourceTag = "A"
	// SourceB is the probe side of the join.
	SourceB SourceTag = "B"
)

// RawRecord is one record as delivered by a source: field name to value.
// Field names arrive in whatever casing the source uses.
type RawRecord map[string]string

// NormalizedRecord is a raw record reduced to its comparison pair.
type NormalizedRecord struct {
	// Key is the trimmed comparison identifier, unique per source after
	// deduplication.
	Key string

	// Value is the trimmed comparison value. An empty string is a real
	// value, distinct from the value field being absent.
	Value string

	// Source tags which side the record came from.
	Source SourceTag
}

// JoinRow pairs the comparison values for one key across both sources.
// At least one side is always present; keys in neither side never materialize.
type JoinRow struct {
	Key    string
	ValueA *string
	ValueB *string
}

// Classification is the outcome for one key of the union.
type Classification string

const (
	Matched      Classification = "matched"
	Mismatched   Classification = "mismatched"
	MissingFromA Classification = "missing_from_a"
	MissingFromB Classification = "missing_from_b"
)

// Classify derives the classification for this row. It is a pure function of
// the row and the comparison policy.
func (r JoinRow) Classify(caseSensitive bool) Classification {
	switch {
	case r.ValueA != nil && r.ValueB != nil:
		if valuesEqual(*r.ValueA, *r.ValueB, caseSensitive) {
			return Matched
		}
		return Mismatched
	case r.ValueA == nil:
		return MissingFromA
	default:
		return MissingFromB
	}
}

func valuesEqual(a, b string, caseSensitive bool) bool {
	if caseSensitive {
		return a == b
	}
	return strings.EqualFold(a, b)
}

// Detail is one entry of the report's comparison_details sequence.
// Matched rows carry only the key and flag to keep output bounded on large
// runs; mismatched rows carry both values so callers can see what disagreed.
type Detail struct {
	Key     string  `json:"key"`
	Matches bool    `json:"matches"`
	ValueA  *string `json:"value_a,omitempty"`
	ValueB  *string `json:"value_b,omitempty"`
}

// SkippedRecord logs a record that was excluded from comparison.
type SkippedRecord struct {
	// Source is the side the record came from.
	Source SourceTag `json:"source"`

	// Key identifies the record when a key could be resolved.
	Key string `json:"key,omitempty"`

	// Reason is the record-level error that caused the skip.
	Reason SkipReason `json:"reason"`
}

// Report is the result of one reconciliation run.
type Report struct {
	// Matches counts keys present on both sides with equal values.
	Matches int `json:"matches"`

	// Mismatches counts keys present on both sides with unequal values.
	Mismatches int `json:"mismatches"`

	// MissingFromA lists keys present only in source B, in B's residual
	// encounter order.
	MissingFromA []string `json:"missing_from_a"`

	// MissingFromB lists keys present only in source A, in A's residual
	// encounter order.
	MissingFromB []string `json:"missing_from_b"`

	// Details holds per-key comparison records for keys present on both
	// sides, in source A's encounter order.
	Details []Detail `json:"comparison_details"`

	// Skipped logs records excluded from comparison, source A first.
	Skipped []SkippedRecord `json:"skipped"`

	// Partial is true when either source scan ended early; counts then
	// cover only what was read and the run should be repeated.
	Partial bool `json:"partial"`
}

// Options controls a single reconciliation run.
type Options struct {
	// CaseSensitive selects exact value comparison instead of the default
	// case-insensitive comparison.
	CaseSensitive bool

	// MaxRetries bounds how often a failed page fetch is retried before
	// the source scan is treated as failed early.
	MaxRetries int

	// PageTimeout is the independent timeout applied to each page fetch.
	// Zero disables the per-page timeout.
	PageTimeout time.Duration

	// PageBackoff is the initial delay between page retries; it doubles
	// per attempt.
	PageBackoff time.Duration

	// MaxDetailRecords caps the length of the report's comparison details.
	// Zero means unbounded. Tallies and missing-key lists are never capped.
	MaxDetailRecords int
}

// DefaultOptions returns the engine defaults: case-insensitive comparison,
// three retries per page, a 30 second page timeout and unbounded details.
func DefaultOptions() Options {
	return Options{
		MaxRetries:  3,
		PageTimeout: 30 * time.Second,
		PageBackoff: 250 * time.Millisecond,
	}
}
