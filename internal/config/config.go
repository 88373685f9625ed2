package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Records  RecordsConfig
	Cache    CacheConfig
	CORS     CORSConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds the replicated Postgres store configuration, including
// the store's batching ceilings. The replica is optional: with no DB_HOST the
// service runs fallback-only against the authoritative record store.
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	PoolMin  int
	PoolMax  int

	// MaxParamsPerStmt and MaxStmtsPerBatch vary by deployment and bound how
	// location lists are chunked; they are never hardcoded at query sites.
	MaxParamsPerStmt int
	MaxStmtsPerBatch int
	QueryConcurrency int
	QueryTimeout     time.Duration
}

// Enabled reports whether a replica store is configured at all.
func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

// RecordsConfig holds the authoritative record store client configuration.
type RecordsConfig struct {
	BaseURL  string
	APIToken string
	Timeout  time.Duration
}

// CacheConfig holds portfolio cache tuning.
type CacheConfig struct {
	PortfolioTTL time.Duration
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Origins []string
}

// Load reads configuration from environment variables.
// It uses viper to read values and provides sensible defaults for development.
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults for development
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_HOST", "")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "mineralwatch")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_POOL_MIN", 2)
	v.SetDefault("DB_POOL_MAX", 10)
	v.SetDefault("DB_MAX_PARAMS_PER_STMT", 1000)
	v.SetDefault("DB_MAX_STMTS_PER_BATCH", 50)
	v.SetDefault("QUERY_CONCURRENCY", 8)
	v.SetDefault("QUERY_TIMEOUT_MS", 10000)
	v.SetDefault("RECORDS_BASE_URL", "")
	v.SetDefault("RECORDS_TIMEOUT_MS", 30000)
	v.SetDefault("PORTFOLIO_CACHE_TTL_MIN", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:3001")

	// Bind environment variables
	v.AutomaticEnv()

	// Build configuration
	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString("PORT"),
			Env:  v.GetString("ENV"),
		},
		Database: DatabaseConfig{
			Host:             v.GetString("DB_HOST"),
			Port:             v.GetString("DB_PORT"),
			Name:             v.GetString("DB_NAME"),
			User:             v.GetString("DB_USER"),
			Password:         v.GetString("DB_PASSWORD"),
			PoolMin:          v.GetInt("DB_POOL_MIN"),
			PoolMax:          v.GetInt("DB_POOL_MAX"),
			MaxParamsPerStmt: v.GetInt("DB_MAX_PARAMS_PER_STMT"),
			MaxStmtsPerBatch: v.GetInt("DB_MAX_STMTS_PER_BATCH"),
			QueryConcurrency: v.GetInt("QUERY_CONCURRENCY"),
			QueryTimeout:     time.Duration(v.GetInt("QUERY_TIMEOUT_MS")) * time.Millisecond,
		},
		Records: RecordsConfig{
			BaseURL:  v.GetString("RECORDS_BASE_URL"),
			APIToken: v.GetString("RECORDS_API_TOKEN"),
			Timeout:  time.Duration(v.GetInt("RECORDS_TIMEOUT_MS")) * time.Millisecond,
		},
		Cache: CacheConfig{
			PortfolioTTL: time.Duration(v.GetInt("PORTFOLIO_CACHE_TTL_MIN")) * time.Minute,
		},
		CORS: CORSConfig{
			Origins: parseOrigins(v.GetString("CORS_ORIGINS")),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	// Validate server config
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	// The authoritative record store is the source of truth and is always
	// required; the replica is not.
	if c.Records.BaseURL == "" {
		return fmt.Errorf("RECORDS_BASE_URL is required")
	}
	if c.Records.Timeout <= 0 {
		return fmt.Errorf("RECORDS_TIMEOUT_MS must be positive")
	}

	if c.Cache.PortfolioTTL <= 0 {
		return fmt.Errorf("PORTFOLIO_CACHE_TTL_MIN must be positive")
	}

	// Validate replica config only when a replica is configured
	if c.Database.Enabled() {
		if c.Database.Port == "" {
			return fmt.Errorf("DB_PORT is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("DB_NAME is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("DB_USER is required")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
		if c.Database.PoolMin < 0 {
			return fmt.Errorf("DB_POOL_MIN must be non-negative")
		}
		if c.Database.PoolMax < 1 {
			return fmt.Errorf("DB_POOL_MAX must be at least 1")
		}
		if c.Database.PoolMin > c.Database.PoolMax {
			return fmt.Errorf("DB_POOL_MIN must be less than or equal to DB_POOL_MAX")
		}
		// Location predicates bind four parameters per location, so anything
		// below that can never fit a single location in a statement.
		if c.Database.MaxParamsPerStmt < 4 {
			return fmt.Errorf("DB_MAX_PARAMS_PER_STMT must be at least 4")
		}
		if c.Database.MaxStmtsPerBatch < 1 {
			return fmt.Errorf("DB_MAX_STMTS_PER_BATCH must be at least 1")
		}
		if c.Database.QueryConcurrency < 1 {
			return fmt.Errorf("QUERY_CONCURRENCY must be at least 1")
		}
		if c.Database.QueryTimeout <= 0 {
			return fmt.Errorf("QUERY_TIMEOUT_MS must be positive")
		}
	}

	// Validate CORS config
	if len(c.CORS.Origins) == 0 {
		return fmt.Errorf("CORS_ORIGINS is required")
	}

	return nil
}

// parseOrigins splits a comma-separated string of origins into a slice.
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
