package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_WithDefaults(t *testing.T) {
	// Clear all environment variables
	clearConfigEnvVars()

	// Set only required env var (the record store URL has no default)
	os.Setenv("RECORDS_BASE_URL", "https://records.example.com")
	defer os.Unsetenv("RECORDS_BASE_URL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Verify defaults
	if cfg.Server.Port != "8080" {
		t.Errorf("Expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.Env != "development" {
		t.Errorf("Expected env development, got %s", cfg.Server.Env)
	}
	if cfg.Database.Enabled() {
		t.Error("Expected replica to be disabled by default")
	}
	if cfg.Database.MaxParamsPerStmt != 1000 {
		t.Errorf("Expected max params per stmt 1000, got %d", cfg.Database.MaxParamsPerStmt)
	}
	if cfg.Database.MaxStmtsPerBatch != 50 {
		t.Errorf("Expected max stmts per batch 50, got %d", cfg.Database.MaxStmtsPerBatch)
	}
	if cfg.Database.QueryConcurrency != 8 {
		t.Errorf("Expected query concurrency 8, got %d", cfg.Database.QueryConcurrency)
	}
	if cfg.Database.QueryTimeout != 10*time.Second {
		t.Errorf("Expected query timeout 10s, got %s", cfg.Database.QueryTimeout)
	}
	if cfg.Records.Timeout != 30*time.Second {
		t.Errorf("Expected records timeout 30s, got %s", cfg.Records.Timeout)
	}
	if cfg.Cache.PortfolioTTL != 5*time.Minute {
		t.Errorf("Expected portfolio TTL 5m, got %s", cfg.Cache.PortfolioTTL)
	}
	if len(cfg.CORS.Origins) != 2 {
		t.Errorf("Expected 2 CORS origins, got %d", len(cfg.CORS.Origins))
	}
}

func TestLoad_WithEnvironmentVariables(t *testing.T) {
	// Set all environment variables
	os.Setenv("PORT", "9090")
	os.Setenv("ENV", "production")
	os.Setenv("DB_HOST", "localhost")
	os.Setenv("DB_PORT", "5433")
	os.Setenv("DB_NAME", "testdb")
	os.Setenv("DB_USER", "testuser")
	os.Setenv("DB_PASSWORD", "testpass")
	os.Setenv("DB_POOL_MIN", "5")
	os.Setenv("DB_POOL_MAX", "20")
	os.Setenv("DB_MAX_PARAMS_PER_STMT", "200")
	os.Setenv("DB_MAX_STMTS_PER_BATCH", "25")
	os.Setenv("QUERY_CONCURRENCY", "4")
	os.Setenv("QUERY_TIMEOUT_MS", "5000")
	os.Setenv("RECORDS_BASE_URL", "https://records.example.com")
	os.Setenv("RECORDS_API_TOKEN", "secret")
	os.Setenv("RECORDS_TIMEOUT_MS", "15000")
	os.Setenv("PORTFOLIO_CACHE_TTL_MIN", "10")
	os.Setenv("CORS_ORIGINS", "http://example.com,https://app.example.com")
	defer clearConfigEnvVars()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Verify all values from environment
	if cfg.Server.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Server.Env != "production" {
		t.Errorf("Expected env production, got %s", cfg.Server.Env)
	}
	if !cfg.Database.Enabled() {
		t.Error("Expected replica to be enabled")
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("Expected host localhost, got %s", cfg.Database.Host)
	}
	if cfg.Database.Port != "5433" {
		t.Errorf("Expected port 5433, got %s", cfg.Database.Port)
	}
	if cfg.Database.Name != "testdb" {
		t.Errorf("Expected db name testdb, got %s", cfg.Database.Name)
	}
	if cfg.Database.User != "testuser" {
		t.Errorf("Expected user testuser, got %s", cfg.Database.User)
	}
	if cfg.Database.Password != "testpass" {
		t.Errorf("Expected password testpass, got %s", cfg.Database.Password)
	}
	if cfg.Database.PoolMin != 5 {
		t.Errorf("Expected pool min 5, got %d", cfg.Database.PoolMin)
	}
	if cfg.Database.PoolMax != 20 {
		t.Errorf("Expected pool max 20, got %d", cfg.Database.PoolMax)
	}
	if cfg.Database.MaxParamsPerStmt != 200 {
		t.Errorf("Expected max params per stmt 200, got %d", cfg.Database.MaxParamsPerStmt)
	}
	if cfg.Database.MaxStmtsPerBatch != 25 {
		t.Errorf("Expected max stmts per batch 25, got %d", cfg.Database.MaxStmtsPerBatch)
	}
	if cfg.Database.QueryConcurrency != 4 {
		t.Errorf("Expected query concurrency 4, got %d", cfg.Database.QueryConcurrency)
	}
	if cfg.Database.QueryTimeout != 5*time.Second {
		t.Errorf("Expected query timeout 5s, got %s", cfg.Database.QueryTimeout)
	}
	if cfg.Records.BaseURL != "https://records.example.com" {
		t.Errorf("Expected records base URL, got %s", cfg.Records.BaseURL)
	}
	if cfg.Records.APIToken != "secret" {
		t.Errorf("Expected records token secret, got %s", cfg.Records.APIToken)
	}
	if cfg.Cache.PortfolioTTL != 10*time.Minute {
		t.Errorf("Expected portfolio TTL 10m, got %s", cfg.Cache.PortfolioTTL)
	}
	if len(cfg.CORS.Origins) != 2 {
		t.Errorf("Expected 2 CORS origins, got %d", len(cfg.CORS.Origins))
	}
	if cfg.CORS.Origins[0] != "http://example.com" {
		t.Errorf("Expected first origin http://example.com, got %s", cfg.CORS.Origins[0])
	}
}

func TestLoad_MissingRecordsBaseURL(t *testing.T) {
	// Clear all environment variables (the record store URL has no default)
	clearConfigEnvVars()

	_, err := Load()
	if err == nil {
		t.Error("Expected error when RECORDS_BASE_URL is missing")
	}
}

func TestLoad_ReplicaEnabledRequiresPassword(t *testing.T) {
	clearConfigEnvVars()

	os.Setenv("RECORDS_BASE_URL", "https://records.example.com")
	os.Setenv("DB_HOST", "localhost")
	defer clearConfigEnvVars()

	_, err := Load()
	if err == nil {
		t.Error("Expected error when replica is enabled without DB_PASSWORD")
	}
}

func TestValidate_InvalidBatchLimits(t *testing.T) {
	tests := []struct {
		name        string
		maxParams   int
		maxStmts    int
		concurrency int
		timeout     time.Duration
		wantErr     bool
	}{
		{
			name:        "params below single location",
			maxParams:   3,
			maxStmts:    50,
			concurrency: 8,
			timeout:     time.Second,
			wantErr:     true,
		},
		{
			name:        "zero statements per batch",
			maxParams:   1000,
			maxStmts:    0,
			concurrency: 8,
			timeout:     time.Second,
			wantErr:     true,
		},
		{
			name:        "zero concurrency",
			maxParams:   1000,
			maxStmts:    50,
			concurrency: 0,
			timeout:     time.Second,
			wantErr:     true,
		},
		{
			name:        "zero timeout",
			maxParams:   1000,
			maxStmts:    50,
			concurrency: 8,
			timeout:     0,
			wantErr:     true,
		},
		{
			name:        "valid limits",
			maxParams:   1000,
			maxStmts:    50,
			concurrency: 8,
			timeout:     time.Second,
			wantErr:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Database.MaxParamsPerStmt = tt.maxParams
			cfg.Database.MaxStmtsPerBatch = tt.maxStmts
			cfg.Database.QueryConcurrency = tt.concurrency
			cfg.Database.QueryTimeout = tt.timeout

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_InvalidPoolSizes(t *testing.T) {
	tests := []struct {
		name    string
		poolMin int
		poolMax int
		wantErr bool
	}{
		{
			name:    "negative pool min",
			poolMin: -1,
			poolMax: 10,
			wantErr: true,
		},
		{
			name:    "zero pool max",
			poolMin: 0,
			poolMax: 0,
			wantErr: true,
		},
		{
			name:    "pool min greater than max",
			poolMin: 15,
			poolMax: 10,
			wantErr: true,
		},
		{
			name:    "valid pool sizes",
			poolMin: 2,
			poolMax: 10,
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Database.PoolMin = tt.poolMin
			cfg.Database.PoolMax = tt.poolMax

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_ReplicaDisabledSkipsDatabaseChecks(t *testing.T) {
	cfg := validConfig()
	cfg.Database = DatabaseConfig{} // no replica configured at all

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() with disabled replica should pass, got: %v", err)
	}
}

func TestValidate_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{
			name:   "missing port",
			mutate: func(c *Config) { c.Server.Port = "" },
		},
		{
			name:   "missing records base URL",
			mutate: func(c *Config) { c.Records.BaseURL = "" },
		},
		{
			name:   "missing db password with replica enabled",
			mutate: func(c *Config) { c.Database.Password = "" },
		},
		{
			name:   "zero cache TTL",
			mutate: func(c *Config) { c.Cache.PortfolioTTL = 0 },
		},
		{
			name:   "missing CORS origins",
			mutate: func(c *Config) { c.CORS.Origins = []string{} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error but got none")
			}
		})
	}
}

func TestParseOrigins(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect []string
	}{
		{
			name:   "single origin",
			input:  "http://localhost:3000",
			expect: []string{"http://localhost:3000"},
		},
		{
			name:   "multiple origins",
			input:  "http://localhost:3000,http://localhost:3001",
			expect: []string{"http://localhost:3000", "http://localhost:3001"},
		},
		{
			name:   "origins with spaces",
			input:  " http://localhost:3000 , http://localhost:3001 ",
			expect: []string{"http://localhost:3000", "http://localhost:3001"},
		},
		{
			name:   "empty string",
			input:  "",
			expect: []string{},
		},
		{
			name:   "only commas",
			input:  ",,,",
			expect: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseOrigins(tt.input)
			if len(result) != len(tt.expect) {
				t.Errorf("Expected %d origins, got %d", len(tt.expect), len(result))
				return
			}
			for i, origin := range result {
				if origin != tt.expect[i] {
					t.Errorf("Expected origin %s at index %d, got %s", tt.expect[i], i, origin)
				}
			}
		})
	}
}

// validConfig returns a fully populated configuration that passes Validate.
func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8080",
			Env:  "development",
		},
		Database: DatabaseConfig{
			Host:             "localhost",
			Port:             "5432",
			Name:             "mineralwatch",
			User:             "postgres",
			Password:         "postgres",
			PoolMin:          2,
			PoolMax:          10,
			MaxParamsPerStmt: 1000,
			MaxStmtsPerBatch: 50,
			QueryConcurrency: 8,
			QueryTimeout:     time.Second,
		},
		Records: RecordsConfig{
			BaseURL: "https://records.example.com",
			Timeout: time.Second,
		},
		Cache: CacheConfig{
			PortfolioTTL: 5 * time.Minute,
		},
		CORS: CORSConfig{
			Origins: []string{"http://localhost:3000"},
		},
	}
}

// Helper function to clear all config-related environment variables
func clearConfigEnvVars() {
	os.Unsetenv("PORT")
	os.Unsetenv("ENV")
	os.Unsetenv("DB_HOST")
	os.Unsetenv("DB_PORT")
	os.Unsetenv("DB_NAME")
	os.Unsetenv("DB_USER")
	os.Unsetenv("DB_PASSWORD")
	os.Unsetenv("DB_POOL_MIN")
	os.Unsetenv("DB_POOL_MAX")
	os.Unsetenv("DB_MAX_PARAMS_PER_STMT")
	os.Unsetenv("DB_MAX_STMTS_PER_BATCH")
	os.Unsetenv("QUERY_CONCURRENCY")
	os.Unsetenv("QUERY_TIMEOUT_MS")
	os.Unsetenv("RECORDS_BASE_URL")
	os.Unsetenv("RECORDS_API_TOKEN")
	os.Unsetenv("RECORDS_TIMEOUT_MS")
	os.Unsetenv("PORTFOLIO_CACHE_TTL_MIN")
	os.Unsetenv("CORS_ORIGINS")
}
