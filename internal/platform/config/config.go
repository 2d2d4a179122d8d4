package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/retail_stt_seeder/internal/apperrors"
	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store backends.
const (
	BackendAuto     = "auto"
	BackendPostgres = "postgres"
	BackendSupabase = "supabase"
	BackendMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	Backend            string
	DatabaseURL        string
	SupabaseURL        string
	SupabaseAnonKey    string
	SupabaseServiceKey string
	EnableDBCheck      bool

	LogLevel  string
	LogFormat string

	Target       int
	Window       domain.DateWindow
	BatchSize    int
	SubBatchSize int
	ProbeFirst   bool
	MaxRetries   int
	Backoff      time.Duration

	Profile           string
	RepairProfile     string
	RepairPasses      int
	FallbackCustomers int
	VerifyFloorRatio  float64
	ReportPath        string
	Seed              uint64
	DryRun            bool

	SupabaseRateLimit string
	SupabasePageSize  int
	HTTPTimeout       time.Duration

	PostHogAPIKey   string
	PostHogEndpoint string
}

// SupabaseKey prefers the service role key, which bypasses row-level security.
func (c *Config) SupabaseKey() string {
	if c.SupabaseServiceKey != "" {
		return c.SupabaseServiceKey
	}
	return c.SupabaseAnonKey
}

// SetDefaults registers every key with its default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("STORE_BACKEND", BackendAuto)
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("VITE_SUPABASE_URL", "")
	v.SetDefault("VITE_SUPABASE_ANON_KEY", "")
	v.SetDefault("SUPABASE_SERVICE_ROLE_KEY", "")
	v.SetDefault("ENABLE_DB_CHECK", true)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SEEDER_TARGET", 15000)
	v.SetDefault("SEEDER_START_DATE", "2025-03-08")
	v.SetDefault("SEEDER_END_DATE", "2025-05-31")
	v.SetDefault("SEEDER_BATCH_SIZE", 500)
	v.SetDefault("SEEDER_SUB_BATCH_SIZE", 10)
	v.SetDefault("SEEDER_PROBE", true)
	v.SetDefault("SEEDER_MAX_RETRIES", 3)
	v.SetDefault("SEEDER_BACKOFF", "500ms")
	v.SetDefault("SEEDER_PROFILE", domain.ProfileFillGaps)
	v.SetDefault("SEEDER_REPAIR_PROFILE", domain.ProfileMinimumItems)
	v.SetDefault("SEEDER_REPAIR_PASSES", 3)
	v.SetDefault("SEEDER_FALLBACK_CUSTOMERS", 0)
	v.SetDefault("SEEDER_VERIFY_FLOOR_RATIO", 0.7)
	v.SetDefault("SEEDER_REPORT_PATH", "")
	v.SetDefault("SEEDER_SEED", 0)
	v.SetDefault("SEEDER_DRY_RUN", false)

	v.SetDefault("SUPABASE_RATE_LIMIT", "20-S")
	v.SetDefault("SUPABASE_PAGE_SIZE", 1000)
	v.SetDefault("HTTP_TIMEOUT", "30s")
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("POSTHOG_ENDPOINT", "")
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	return Load(viper.GetViper())
}

// Load is LoadConfig against a specific viper instance. Flags bound on v take
// precedence over the environment.
func Load(v *viper.Viper) (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	SetDefaults(v)
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper reads and validates a Config from v.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Backend:            strings.ToLower(strings.TrimSpace(v.GetString("STORE_BACKEND"))),
		DatabaseURL:        v.GetString("PGSQL_URL"),
		SupabaseURL:        v.GetString("VITE_SUPABASE_URL"),
		SupabaseAnonKey:    v.GetString("VITE_SUPABASE_ANON_KEY"),
		SupabaseServiceKey: v.GetString("SUPABASE_SERVICE_ROLE_KEY"),
		EnableDBCheck:      v.GetBool("ENABLE_DB_CHECK"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		LogFormat:          v.GetString("LOG_FORMAT"),
		Target:             v.GetInt("SEEDER_TARGET"),
		BatchSize:          v.GetInt("SEEDER_BATCH_SIZE"),
		SubBatchSize:       v.GetInt("SEEDER_SUB_BATCH_SIZE"),
		ProbeFirst:         v.GetBool("SEEDER_PROBE"),
		MaxRetries:         v.GetInt("SEEDER_MAX_RETRIES"),
		Profile:            v.GetString("SEEDER_PROFILE"),
		RepairProfile:      v.GetString("SEEDER_REPAIR_PROFILE"),
		RepairPasses:       v.GetInt("SEEDER_REPAIR_PASSES"),
		FallbackCustomers:  v.GetInt("SEEDER_FALLBACK_CUSTOMERS"),
		VerifyFloorRatio:   v.GetFloat64("SEEDER_VERIFY_FLOOR_RATIO"),
		ReportPath:         v.GetString("SEEDER_REPORT_PATH"),
		Seed:               v.GetUint64("SEEDER_SEED"),
		DryRun:             v.GetBool("SEEDER_DRY_RUN"),
		SupabaseRateLimit:  v.GetString("SUPABASE_RATE_LIMIT"),
		SupabasePageSize:   v.GetInt("SUPABASE_PAGE_SIZE"),
		PostHogAPIKey:      v.GetString("POSTHOG_API_KEY"),
		PostHogEndpoint:    v.GetString("POSTHOG_ENDPOINT"),
	}

	var err error
	if cfg.Backoff, err = parseDuration(v, "SEEDER_BACKOFF"); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = parseDuration(v, "HTTP_TIMEOUT"); err != nil {
		return nil, err
	}
	if cfg.Window.Start, err = parseDate(v, "SEEDER_START_DATE"); err != nil {
		return nil, err
	}
	if cfg.Window.End, err = parseDate(v, "SEEDER_END_DATE"); err != nil {
		return nil, err
	}

	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	if cfg.Target < 0 {
		return nil, fmt.Errorf("%w: SEEDER_TARGET must not be negative", apperrors.ErrValidation)
	}
	if cfg.BatchSize <= 0 || cfg.SubBatchSize <= 0 {
		return nil, fmt.Errorf("%w: batch sizes must be positive", apperrors.ErrValidation)
	}
	return cfg, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s %q", apperrors.ErrValidation, key, raw)
	}
	return d, nil
}

func parseDate(v *viper.Viper, key string) (time.Time, error) {
	raw := v.GetString(key)
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, raw); err != nil {
			return time.Time{}, fmt.Errorf("%w: invalid %s %q, want YYYY-MM-DD", apperrors.ErrValidation, key, raw)
		}
	}
	return t.UTC(), nil
}

// ResolveBackend picks the store backend. Auto prefers a direct Postgres connection,
// then the Supabase REST API. It fails with ErrMissingConfig when the chosen backend
// lacks credentials.
func (c *Config) ResolveBackend() (string, error) {
	backend := c.Backend
	if backend == "" || backend == BackendAuto {
		switch {
		case c.DatabaseURL != "":
			backend = BackendPostgres
		case c.SupabaseURL != "" && c.SupabaseKey() != "":
			backend = BackendSupabase
		default:
			return "", fmt.Errorf("%w: set PGSQL_URL or VITE_SUPABASE_URL and VITE_SUPABASE_ANON_KEY", apperrors.ErrMissingConfig)
		}
	}

	switch backend {
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return "", fmt.Errorf("%w: PGSQL_URL is required for the postgres backend", apperrors.ErrMissingConfig)
		}
	case BackendSupabase:
		if c.SupabaseURL == "" {
			return "", fmt.Errorf("%w: VITE_SUPABASE_URL is required for the supabase backend", apperrors.ErrMissingConfig)
		}
		if c.SupabaseKey() == "" {
			return "", fmt.Errorf("%w: VITE_SUPABASE_ANON_KEY or SUPABASE_SERVICE_ROLE_KEY is required", apperrors.ErrMissingConfig)
		}
	case BackendMemory:
	default:
		return "", fmt.Errorf("%w: unknown STORE_BACKEND %q", apperrors.ErrValidation, backend)
	}
	return backend, nil
}

// LogValue keeps credentials out of logs.
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", c.Backend),
		slog.Bool("database_url_set", c.DatabaseURL != ""),
		slog.String("supabase_url", c.SupabaseURL),
		slog.Bool("service_role_key_set", c.SupabaseServiceKey != ""),
		slog.Int("target", c.Target),
		slog.String("profile", c.Profile),
		slog.Int("batch_size", c.BatchSize),
		slog.Bool("dry_run", c.DryRun),
		slog.Uint64("seed", c.Seed),
	)
}
