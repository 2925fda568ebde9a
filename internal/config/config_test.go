package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.JSON)
	assert.Equal(t, 8, cfg.Workers.SearchWorkers)
	assert.Equal(t, 8, cfg.Workers.SortWorkers)
}

func TestLoad_envOverride(t *testing.T) {
	t.Setenv("JSONLVIEWER_LOG_LEVEL", "debug")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}
