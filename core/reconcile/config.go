package reconcile

import (
	"strings"
	"time"
)

// Config holds reconciliation settings loaded from the environment.
type Config struct {
	// SourceTable is the table serving as side A.
	SourceTable string `mapstructure:"source_table" default:"questions"`
	// ResultsTable is the table serving as side B.
	ResultsTable string `mapstructure:"results_table" default:"model_results"`
	// KeyAliasesA is the comma-separated key field alias list for side A.
	KeyAliasesA string `mapstructure:"key_aliases_a" default:"QuestionId,questionid"`
	// ValueAliasesA is the comma-separated value field alias list for side A.
	ValueAliasesA string `mapstructure:"value_aliases_a" default:"Key,key"`
	// KeyAliasesB is the comma-separated key field alias list for side B.
	KeyAliasesB string `mapstructure:"key_aliases_b" default:"QuestionId,questionid"`
	// ValueAliasesB is the comma-separated value field alias list for side B.
	ValueAliasesB string `mapstructure:"value_aliases_b" default:"CorrectOption,correctoption"`
	// CaseSensitive compares values exactly instead of case-insensitively.
	CaseSensitive bool `mapstructure:"case_sensitive" default:"false"`
	// MaxRetries bounds page fetch retries.
	MaxRetries int `mapstructure:"max_retries" default:"3"`
	// PageTimeoutMs is the per-page fetch timeout in milliseconds.
	PageTimeoutMs int `mapstructure:"page_timeout_ms" default:"30000"`
	// PageSize is the number of records requested per page.
	PageSize int `mapstructure:"page_size" default:"500"`
	// MaxDetailRecords caps comparison detail output. Zero is unbounded.
	MaxDetailRecords int `mapstructure:"max_detail_records" default:"0"`
	// CacheTTLSeconds keeps finished reports this long. Zero disables caching.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" default:"0"`
}

// AliasesA returns the parsed field aliases for side A.
func (c Config) AliasesA() FieldAliases {
	return FieldAliases{
		Key:   splitAliases(c.KeyAliasesA),
		Value: splitAliases(c.ValueAliasesA),
	}
}

// AliasesB returns the parsed field aliases for side B.
func (c Config) AliasesB() FieldAliases {
	return FieldAliases{
		Key:   splitAliases(c.KeyAliasesB),
		Value: splitAliases(c.ValueAliasesB),
	}
}

// Options converts the loaded configuration into engine options.
func (c Config) Options() Options {
	opts := DefaultOptions()
	opts.CaseSensitive = c.CaseSensitive
	opts.MaxRetries = c.MaxRetries
	opts.PageTimeout = time.Duration(c.PageTimeoutMs) * time.Millisecond
	opts.MaxDetailRecords = c.MaxDetailRecords
	return opts
}

// CacheTTL returns the configured report cache TTL.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// splitAliases parses a comma-separated alias list, trimming entries and
// dropping empty ones.
func splitAliases(s string) []string {
	parts := strings.Split(s, ",")
	aliases := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			aliases = append(aliases, p)
		}
	}
	return aliases
}
