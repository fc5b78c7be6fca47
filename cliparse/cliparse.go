package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/danielhkuo/quickly-survey/cache"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	AdminKeySalt string

	CacheType    cache.Kind
	RedisURL     string
	DisableCache bool
	SingleFlight bool
}

// CacheConfig returns the settings the cache is constructed with
func (c Config) CacheConfig() cache.Config {
	return cache.Config{
		Kind:         c.CacheType,
		Disabled:     c.DisableCache,
		SingleFlight: c.SingleFlight,
	}
}

// ParseFlags validates flags and sets port number
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var cacheType string

	fs := flag.NewFlagSet("quickly-survey", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Cache
	fs.StringVar(&cacheType, "cache", "", "Cache type (local or redis)")
	fs.StringVar(&cfg.RedisURL, "redis", "", "Redis URL for the redis cache")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminKeySalt, "admin-salt", "", "Admin key salt (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 4020 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	if cacheType == "" {
		cacheType = os.Getenv("CACHE_TYPE")
	}
	cfg.CacheType = cache.ParseKind(cacheType)

	if cfg.RedisURL == "" {
		cfg.RedisURL = os.Getenv("REDIS_URL")
	}
	if cfg.CacheType == cache.KindRedis && cfg.RedisURL == "" {
		return Config{}, errors.New("REDIS_URL required when CACHE_TYPE is not local")
	}

	var err error
	if cfg.DisableCache, err = envBool("DISABLE_CACHE"); err != nil {
		return Config{}, err
	}
	if cfg.SingleFlight, err = envBool("CACHE_SINGLE_FLIGHT"); err != nil {
		return Config{}, err
	}

	// Secrets - MUST be provided
	if cfg.AdminKeySalt == "" {
		cfg.AdminKeySalt = os.Getenv("ADMIN_KEY_SALT")
	}
	if cfg.AdminKeySalt == "" {
		return Config{}, errors.New("ADMIN_KEY_SALT required")
	}

	return cfg, nil
}

// envBool reads a boolean switch; unset means false
func envBool(name string) (bool, error) {
	v := os.Getenv(name)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s env variable: %w", name, err)
	}
	return b, nil
}
