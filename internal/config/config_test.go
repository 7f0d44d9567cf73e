package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServerConfigDefaults(t *testing.T) {
	cfg, err := LoadServerConfig()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8080", cfg.Address)
	assert.EqualValues(t, 512, cfg.Capacity)
	assert.Equal(t, 30*time.Second, cfg.StatsInterval)
}

func TestLoadServerConfigFromEnvironment(t *testing.T) {
	t.Setenv("BOUNDEDCACHE_ADDRESS", ":9999")
	t.Setenv("BOUNDEDCACHE_CAPACITY", "2048")
	t.Setenv("BOUNDEDCACHE_STATS_INTERVAL", "5m")

	cfg, err := LoadServerConfig()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Address)
	assert.EqualValues(t, 2048, cfg.Capacity)
	assert.Equal(t, 5*time.Minute, cfg.StatsInterval)
}

func TestLoadClientConfigDefaults(t *testing.T) {
	cfg, err := LoadClientConfig()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.Address)
}

func TestLoadServerConfigRejectsMalformedCapacity(t *testing.T) {
	t.Setenv("BOUNDEDCACHE_CAPACITY", "not-a-number")
	_, err := LoadServerConfig()
	assert.Error(t, err)
}
