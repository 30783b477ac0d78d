// Package testkit starts the Postgres and Redis instances integration tests run against.
package testkit

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config selects the images to start, or existing instances to reuse.
type Config struct {
	PGImage        string
	RedisImage     string
	PGDSN          string        // If set, skip Postgres container.
	RedisAddr      string        // If set, skip Redis container.
	StartupTimeout time.Duration // Max time to wait for containers to become ready.
	KeepContainers bool          // If true, do not terminate containers on shutdown.
}

// LoadConfig reads FXDESK_TEST_* environment variables.
func LoadConfig() Config {
	v := viper.New()
	v.SetEnvPrefix("FXDESK_TEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("pg_image", "postgres:18.1-alpine")
	v.SetDefault("redis_image", "redis:8.4.0-alpine")
	v.SetDefault("pg_dsn", "")
	v.SetDefault("redis_addr", "")
	v.SetDefault("startup_timeout", "90s")
	v.SetDefault("keep_containers", "false")

	return Config{
		PGImage:        v.GetString("pg_image"),
		RedisImage:     v.GetString("redis_image"),
		PGDSN:          v.GetString("pg_dsn"),
		RedisAddr:      v.GetString("redis_addr"),
		StartupTimeout: parseTimeout(v.GetString("startup_timeout"), 90*time.Second),
		KeepContainers: parseBool(v.GetString("keep_containers")),
	}
}

// parseTimeout accepts a Go duration or a plain number of seconds.
func parseTimeout(s string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second
	}
	fmt.Fprintf(os.Stderr, "testkit: invalid startup timeout %q, using %v\n", s, def)
	return def
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "testkit: invalid keep_containers %q, using false\n", s)
		return false
	}
	return b
}
