// Package config provides application configuration loading and validation.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store backends.
const (
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config holds the complete application configuration.
type Config struct {
	Server      ServerConfig
	Store       StoreConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	ERAPI       ERAPIConfig       `mapstructure:"erapi"`
	Frankfurter FrankfurterConfig `mapstructure:"frankfurter"`
	News        NewsConfig
	History     HistoryConfig
	Static      StaticConfig
	Worker      WorkerConfig
	Updater     UpdaterConfig
	Cache       CacheConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port          int  `mapstructure:"port"`
	ServeSwagger  bool `mapstructure:"serve_swagger"`
	ServeAsynqmon bool `mapstructure:"serve_asynqmon"`
}

// StoreConfig selects where the two rate generations and the comparison document live.
type StoreConfig struct {
	Backend   string `mapstructure:"backend"`
	Dir       string `mapstructure:"dir"`        // file backend root
	KeyPrefix string `mapstructure:"key_prefix"` // redis backend key namespace
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host               string `mapstructure:"host"`
	Port               int    `mapstructure:"port"`
	User               string `mapstructure:"user"`
	Password           string `mapstructure:"password"`
	Name               string `mapstructure:"name"`
	SSLMode            string `mapstructure:"sslmode"`
	MaxOpenConns       int    `mapstructure:"max_open_conns"`
	MaxIdleConns       int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSec int    `mapstructure:"conn_max_lifetime_sec"`
	DSN                string
}

// RedisConfig holds connection settings for both Redis instances.
type RedisConfig struct {
	AsynqAddr string `mapstructure:"asynq_addr"` // task queue; required by serve.
	CacheAddr string `mapstructure:"cache_addr"` // rate cache and redis store; optional for the file backend.
}

// ERAPIConfig holds settings for the open.er-api.com rate API.
type ERAPIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout_sec"`
}

// FrankfurterConfig holds settings for the frankfurter fallback provider.
type FrankfurterConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout_sec"`
}

// NewsConfig holds settings for the NewsAPI client.
type NewsConfig struct {
	BaseURL  string `mapstructure:"base_url"`
	APIKey   string `mapstructure:"api_key"`
	PageSize int    `mapstructure:"page_size"`
	Timeout  int    `mapstructure:"timeout_sec"`
}

// HistoryConfig holds settings for the APILayer timeseries client.
type HistoryConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Timeout int    `mapstructure:"timeout_sec"`
}

// StaticConfig points at externally maintained JSON documents.
type StaticConfig struct {
	MetaPath string `mapstructure:"meta_path"`
}

// WorkerConfig holds background worker and task queue settings.
type WorkerConfig struct {
	Concurrency      int `mapstructure:"concurrency"`
	TimeoutSec       int `mapstructure:"timeout_sec"`
	CheckIntervalSec int `mapstructure:"check_interval_sec"`
}

// UpdaterConfig holds settings of the daily refresh cycle.
type UpdaterConfig struct {
	Sentinel         string `mapstructure:"sentinel"`
	Cron             string `mapstructure:"cron"`
	FetchConcurrency int    `mapstructure:"fetch_concurrency"`
}

// CacheConfig holds caching settings for live conversion rates.
type CacheConfig struct {
	RateTTLSec int `mapstructure:"rate_ttl_sec"`
}

// LoadConfig reads configuration from config files, environment variables, and defaults.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("No .env file found or error loading it: %v\n", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./internal/config")

	v.SetEnvPrefix("FXDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// defaults and env are enough to run
		fmt.Printf("Config file not found: %v\n", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.serve_swagger", true)
	v.SetDefault("server.serve_asynqmon", true)
	v.SetDefault("store.backend", BackendFile)
	v.SetDefault("store.dir", "cache")
	v.SetDefault("store.key_prefix", "fxdesk")
	v.SetDefault("database.host", "db")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "fxdesk")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime_sec", 300)
	v.SetDefault("redis.asynq_addr", "redis_asynq:6380")
	v.SetDefault("redis.cache_addr", "redis_cache:6381")
	v.SetDefault("erapi.base_url", "https://open.er-api.com/v6")
	v.SetDefault("erapi.timeout_sec", 10)
	v.SetDefault("frankfurter.base_url", "https://api.frankfurter.dev/v1")
	v.SetDefault("frankfurter.timeout_sec", 5)
	v.SetDefault("news.base_url", "https://newsapi.org/v2")
	v.SetDefault("news.api_key", "")
	v.SetDefault("news.page_size", 10)
	v.SetDefault("news.timeout_sec", 5)
	v.SetDefault("history.base_url", "https://api.apilayer.com/exchangerates_data")
	v.SetDefault("history.api_key", "")
	v.SetDefault("history.timeout_sec", 10)
	v.SetDefault("static.meta_path", "currency_meta.json")
	v.SetDefault("worker.concurrency", 1)
	v.SetDefault("worker.timeout_sec", 900)
	v.SetDefault("worker.check_interval_sec", 5)
	v.SetDefault("updater.sentinel", "USD")
	v.SetDefault("updater.cron", "0 1 * * *")
	v.SetDefault("updater.fetch_concurrency", 1)
	v.SetDefault("cache.rate_ttl_sec", 300)
}

func (c *Config) normalize() {
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	c.Updater.Sentinel = strings.ToUpper(c.Updater.Sentinel)

	if c.Database.MaxOpenConns <= 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns <= 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetimeSec <= 0 {
		c.Database.ConnMaxLifetimeSec = 300
	}
	if c.Updater.FetchConcurrency <= 0 {
		c.Updater.FetchConcurrency = 1
	}

	c.Database.DSN = fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User, c.Database.Password,
		c.Database.Host, c.Database.Port,
		c.Database.Name, c.Database.SSLMode)
}

// Validate checks that all required configuration fields are set and valid.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 {
		errs = append(errs, fmt.Errorf("server.port must be positive, got %d", c.Server.Port))
	}

	switch c.Store.Backend {
	case BackendFile:
		if c.Store.Dir == "" {
			errs = append(errs, errors.New("store.dir is required for the file backend"))
		}
	case BackendRedis:
		if c.Redis.CacheAddr == "" {
			errs = append(errs, errors.New("redis.cache_addr is required for the redis backend (set FXDESK_REDIS_CACHE_ADDR)"))
		}
		if c.Store.KeyPrefix == "" {
			errs = append(errs, errors.New("store.key_prefix is required for the redis backend"))
		}
	case BackendPostgres:
		if c.Database.Host == "" {
			errs = append(errs, errors.New("database.host is required"))
		}
		if c.Database.Port <= 0 {
			errs = append(errs, fmt.Errorf("database.port must be positive, got %d", c.Database.Port))
		}
		if c.Database.User == "" {
			errs = append(errs, errors.New("database.user is required"))
		}
		if c.Database.Name == "" {
			errs = append(errs, errors.New("database.name is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.backend must be one of file, redis, postgres; got %q", c.Store.Backend))
	}

	if c.ERAPI.BaseURL == "" {
		errs = append(errs, errors.New("erapi.base_url is required"))
	}
	if c.Static.MetaPath == "" {
		errs = append(errs, errors.New("static.meta_path is required"))
	}

	if c.Worker.Concurrency <= 0 {
		errs = append(errs, fmt.Errorf("worker.concurrency must be positive, got %d", c.Worker.Concurrency))
	}
	if c.Worker.TimeoutSec <= 0 {
		errs = append(errs, fmt.Errorf("worker.timeout_sec must be positive, got %d", c.Worker.TimeoutSec))
	}
	if c.Worker.CheckIntervalSec <= 0 {
		errs = append(errs, fmt.Errorf("worker.check_interval_sec must be positive, got %d", c.Worker.CheckIntervalSec))
	}

	if len(c.Updater.Sentinel) != 3 {
		errs = append(errs, fmt.Errorf("updater.sentinel must be a 3-letter currency code, got %q", c.Updater.Sentinel))
	}
	if c.Updater.Cron == "" {
		errs = append(errs, errors.New("updater.cron is required"))
	}

	if c.Cache.RateTTLSec <= 0 {
		errs = append(errs, fmt.Errorf("cache.rate_ttl_sec must be positive, got %d", c.Cache.RateTTLSec))
	}

	return errors.Join(errs...)
}

// ValidateServe checks the settings only the long-running server needs.
func (c *Config) ValidateServe() error {
	if c.Redis.AsynqAddr == "" {
		return errors.New("redis.asynq_addr is required (set FXDESK_REDIS_ASYNQ_ADDR)")
	}
	return nil
}
