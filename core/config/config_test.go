package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "questions", cfg.Reconcile.SourceTable)
	assert.Equal(t, "model_results", cfg.Reconcile.ResultsTable)
	assert.False(t, cfg.Reconcile.CaseSensitive)
	assert.Equal(t, 3, cfg.Reconcile.MaxRetries)
	assert.Equal(t, 500, cfg.Reconcile.PageSize)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("RECONCILE_CASE_SENSITIVE", "true")
	t.Setenv("RECONCILE_MAX_DETAIL_RECORDS", "250")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.Reconcile.CaseSensitive)
	assert.Equal(t, 250, cfg.Reconcile.MaxDetailRecords)
}
