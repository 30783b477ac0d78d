package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig(t *testing.T) *Config {
	t.Helper()
	v := viper.New()
	setDefaults(v)
	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))
	cfg.normalize()
	return &cfg
}

func TestDefaultsAreValid(t *testing.T) {
	cfg := defaultConfig(t)

	assert.NoError(t, cfg.Validate())
	assert.NoError(t, cfg.ValidateServe())
	assert.Equal(t, BackendFile, cfg.Store.Backend)
	assert.Equal(t, "USD", cfg.Updater.Sentinel)
	assert.Equal(t, "postgres://postgres:postgres@db:5432/fxdesk?sslmode=disable", cfg.Database.DSN)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Store.Backend = "s3" },
			wantErr: "store.backend must be one of",
		},
		{
			name:    "file backend without dir",
			mutate:  func(c *Config) { c.Store.Dir = "" },
			wantErr: "store.dir is required",
		},
		{
			name: "redis backend without cache addr",
			mutate: func(c *Config) {
				c.Store.Backend = BackendRedis
				c.Redis.CacheAddr = ""
			},
			wantErr: "redis.cache_addr is required",
		},
		{
			name: "postgres backend without host",
			mutate: func(c *Config) {
				c.Store.Backend = BackendPostgres
				c.Database.Host = ""
			},
			wantErr: "database.host is required",
		},
		{
			name:    "bad sentinel",
			mutate:  func(c *Config) { c.Updater.Sentinel = "DOLLAR" },
			wantErr: "updater.sentinel",
		},
		{
			name:    "non-positive ttl",
			mutate:  func(c *Config) { c.Cache.RateTTLSec = 0 },
			wantErr: "cache.rate_ttl_sec must be positive",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig(t)
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestValidateServe_RequiresAsynqAddr(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Redis.AsynqAddr = ""
	assert.Error(t, cfg.ValidateServe())
}

func TestNormalize_FetchConcurrencyFloor(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Updater.FetchConcurrency = 0
	cfg.normalize()
	assert.Equal(t, 1, cfg.Updater.FetchConcurrency)
}
