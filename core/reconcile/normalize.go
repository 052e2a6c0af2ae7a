package reconcile

import (
	"fmt"
	"sort"
	"strings"
)

// SkipReason classifies a record-level error.
type SkipReason string

const (
	// SkipMissingKeyField means no configured key alias resolved to a
	// non-empty value.
	SkipMissingKeyField SkipReason = "MissingKeyField"

	// SkipMissingValueField means no configured value alias was present.
	SkipMissingValueField SkipReason = "MissingValueField"

	// SkipDuplicateKey means a later record superseded this one within the
	// same source.
	SkipDuplicateKey SkipReason = "DuplicateKey"
)

// SkipError marks a record as skippable rather than fatal. Callers log it
// into the report's skip list and continue the run.
type SkipError struct {
	Reason SkipReason
	Key    string
}

func (e *SkipError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("record skipped: %s", e.Reason)
	}
	return fmt.Sprintf("record %q skipped: %s", e.Key, e.Reason)
}

// FieldAliases lists acceptable field names for the key and value fields of
// one source, in priority order.
type FieldAliases struct {
	Key   []string
	Value []string
}

// Normalizer maps raw records of one source into normalized comparison pairs.
// It is a pure function holder; all skip accumulation happens in the caller.
type Normalizer struct {
	aliases FieldAliases
	tag     SourceTag
}

// NewNormalizer creates a normalizer for one side.
func NewNormalizer(aliases FieldAliases, tag SourceTag) *Normalizer {
	return &Normalizer{aliases: aliases, tag: tag}
}

// Normalize resolves the key and value fields of a raw record. A missing or
// empty-after-trim key yields SkipMissingKeyField; an absent value field
// yields SkipMissingValueField. A present-but-empty value is kept as the
// empty string.
func (n *Normalizer) Normalize(raw RawRecord) (NormalizedRecord, error) {
	key, ok := resolveField(raw, n.aliases.Key)
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return NormalizedRecord{}, &SkipError{Reason: SkipMissingKeyField}
	}

	value, ok := resolveField(raw, n.aliases.Value)
	if !ok {
		return NormalizedRecord{}, &SkipError{Reason: SkipMissingValueField, Key: key}
	}

	return NormalizedRecord{
		Key:    key,
		Value:  strings.TrimSpace(value),
		Source: n.tag,
	}, nil
}

// resolveField tries the aliases with an exact pass in declared order, then a
// case-insensitive pass in declared order. Declared order is the source of
// truth when a record carries several casings of the same field.
func resolveField(raw RawRecord, aliases []string) (string, bool) {
	for _, alias := range aliases {
		if v, ok := raw[alias]; ok {
			return v, true
		}
	}

	// Field names are sorted so the fallback stays deterministic when two
	// record fields fold to the same alias.
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, alias := range aliases {
		for _, name := range names {
			if strings.EqualFold(name, alias) {
				return raw[name], true
			}
		}
	}
	return "", false
}
