package reconcile

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_DetailCap(t *testing.T) {
	opts := fastOptions()
	opts.MaxDetailRecords = 2
	engine := newTestEngine(t, opts)

	srcA := pagedRecords("a", 10,
		recA("q1", "A"), recA("q2", "B"), recA("q3", "C"), recA("q4", "D"))
	srcB := pagedRecords("b", 10,
		recB("q1", "A"), recB("q2", "X"), recB("q3", "C"), recB("q4", "Y"))

	report := engine.Run(context.Background(), srcA, srcB)

	// Tallies are never capped, only the details sequence.
	assert.Equal(t, 2, report.Matches)
	assert.Equal(t, 2, report.Mismatches)
	assert.Len(t, report.Details, 2)
}

func TestReport_JSONShape(t *testing.T) {
	engine := newTestEngine(t, fastOptions())

	srcA := pagedRecords("a", 10, recA("q1", "A"), recA("q2", "B"))
	srcB := pagedRecords("b", 10, recB("q1", "A"), recB("q2", "C"), recB("q3", "D"))

	raw, err := json.Marshal(engine.Run(context.Background(), srcA, srcB))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	for _, field := range []string{
		"matches", "mismatches", "missing_from_a", "missing_from_b",
		"comparison_details", "skipped", "partial",
	} {
		assert.Contains(t, decoded, field)
	}

	details := decoded["comparison_details"].([]any)
	require.Len(t, details, 2)

	// Matched rows omit both values.
	matched := details[0].(map[string]any)
	assert.Equal(t, true, matched["matches"])
	assert.NotContains(t, matched, "value_a")
	assert.NotContains(t, matched, "value_b")

	// Mismatched rows carry both.
	mismatched := details[1].(map[string]any)
	assert.Equal(t, false, mismatched["matches"])
	assert.Equal(t, "B", mismatched["value_a"])
	assert.Equal(t, "C", mismatched["value_b"])
}

func TestReport_ZeroReportMarshalsEmptyArrays(t *testing.T) {
	engine := newTestEngine(t, fastOptions())

	raw, err := json.Marshal(engine.Run(context.Background(),
		pagedRecords("a", 10), pagedRecords("b", 10)))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"matches": 0,
		"mismatches": 0,
		"missing_from_a": [],
		"missing_from_b": [],
		"comparison_details": [],
		"skipped": [],
		"partial": false
	}`, string(raw))
}

func TestReport_MismatchedEmptyValueIsRendered(t *testing.T) {
	engine := newTestEngine(t, fastOptions())

	srcA := pagedRecords("a", 10, recA("q1", ""))
	srcB := pagedRecords("b", 10, recB("q1", "B"))

	raw, err := json.Marshal(engine.Run(context.Background(), srcA, srcB))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	detail := decoded["comparison_details"].([]any)[0].(map[string]any)
	// Empty string is a real value and must survive rendering.
	assert.Equal(t, "", detail["value_a"])
	assert.Equal(t, "B", detail["value_b"])
}
