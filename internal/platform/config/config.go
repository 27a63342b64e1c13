package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AuthMode string

const (
	AuthModeJWT AuthMode = "jwt"
	AuthModeDev AuthMode = "dev"
)

type StorageBackend string

const (
	StorageMemory   StorageBackend = "memory"
	StoragePostgres StorageBackend = "postgres"
	StorageSupabase StorageBackend = "supabase"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP        HTTPConfig
	Auth        AuthConfig
	Storage     StorageConfig
	Logging     LoggingConfig
	RateLimit   RateLimitConfig
	Idempotency IdempotencyConfig
}

type HTTPConfig struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MetricsEnabled  bool
}

type AuthConfig struct {
	Mode       AuthMode
	JWT        JWTConfig // only populated for AuthModeJWT
	DevSubject string    // fallback subject for AuthModeDev when no X-Debug-Subject header is sent
}

type StorageConfig struct {
	Backend         StorageBackend
	DatabaseURL     string
	SupabaseURL     string
	SupabaseAnonKey string
	SupabaseTimeout time.Duration
}

type LoggingConfig struct {
	Level  string
	Format string // text|json
}

type RateLimitConfig struct {
	RPS   float64 // <= 0 disables limiting
	Burst int
}

type IdempotencyConfig struct {
	TTL time.Duration
}

const (
	defaultPort            = 5176
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultSupabaseTimeout = 15 * time.Second
	defaultIdempotencyTTL  = 24 * time.Hour
	defaultRateLimitBurst  = 10
)

// Load reads an optional .env file (ENV_FILE, default ".env") and then the environment.
// Variables already present in the environment win over the file.
func Load() (Config, error) {
	envFile := valueOrDefault("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (Config, error) {
	cfg := Config{
		HTTP: HTTPConfig{
			MetricsEnabled: parseBoolWithDefault("METRICS_ENABLED", true),
		},
		Logging: LoggingConfig{
			Level:  strings.ToLower(valueOrDefault("LOG_LEVEL", "info")),
			Format: strings.ToLower(valueOrDefault("LOG_FORMAT", "text")),
		},
	}

	port, err := parsePort("PORT", defaultPort)
	if err != nil {
		return Config{}, err
	}
	cfg.HTTP.Port = port

	if cfg.HTTP.ReadTimeout, err = parseDuration("HTTP_READ_TIMEOUT", defaultReadTimeout); err != nil {
		return Config{}, err
	}
	if cfg.HTTP.WriteTimeout, err = parseDuration("HTTP_WRITE_TIMEOUT", defaultWriteTimeout); err != nil {
		return Config{}, err
	}
	if cfg.HTTP.ShutdownTimeout, err = parseDuration("HTTP_SHUTDOWN_TIMEOUT", defaultShutdownTimeout); err != nil {
		return Config{}, err
	}

	switch cfg.Logging.Format {
	case "text", "json":
	default:
		return Config{}, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.Logging.Format)
	}

	if cfg.Auth, err = loadAuth(); err != nil {
		return Config{}, err
	}
	if cfg.Storage, err = loadStorage(); err != nil {
		return Config{}, err
	}

	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
		}
		cfg.RateLimit.RPS = rps
	}
	burst, err := parseIntWithDefault("RATE_LIMIT_BURST", defaultRateLimitBurst)
	if err != nil {
		return Config{}, err
	}
	cfg.RateLimit.Burst = burst

	if cfg.Idempotency.TTL, err = parseDuration("IDEMPOTENCY_TTL", defaultIdempotencyTTL); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadAuth() (AuthConfig, error) {
	ac := AuthConfig{
		Mode:       AuthMode(strings.ToLower(valueOrDefault("AUTH_MODE", string(AuthModeJWT)))),
		DevSubject: os.Getenv("DEV_SUBJECT"),
	}
	switch ac.Mode {
	case AuthModeJWT:
		jwtCfg, err := LoadJWTConfigFromEnv()
		if err != nil {
			return AuthConfig{}, err
		}
		ac.JWT = jwtCfg
	case AuthModeDev:
	default:
		return AuthConfig{}, fmt.Errorf("AUTH_MODE must be jwt or dev, got %q", ac.Mode)
	}
	return ac, nil
}

func loadStorage() (StorageConfig, error) {
	sc := StorageConfig{
		Backend:         StorageBackend(strings.ToLower(valueOrDefault("STORAGE_BACKEND", string(StorageMemory)))),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		SupabaseURL:     os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey: os.Getenv("SUPABASE_ANON_KEY"),
	}
	timeout, err := parseDuration("SUPABASE_TIMEOUT", defaultSupabaseTimeout)
	if err != nil {
		return StorageConfig{}, err
	}
	sc.SupabaseTimeout = timeout

	switch sc.Backend {
	case StorageMemory:
	case StoragePostgres:
		if sc.DatabaseURL == "" {
			return StorageConfig{}, errors.New("DATABASE_URL is required when STORAGE_BACKEND=postgres")
		}
	case StorageSupabase:
		if sc.SupabaseURL == "" || sc.SupabaseAnonKey == "" {
			return StorageConfig{}, errors.New("SUPABASE_URL and SUPABASE_ANON_KEY are required when STORAGE_BACKEND=supabase")
		}
	default:
		return StorageConfig{}, fmt.Errorf("STORAGE_BACKEND must be memory, postgres or supabase, got %q", sc.Backend)
	}
	return sc, nil
}

func valueOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func parseBoolWithDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func parseIntWithDefault(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func parseDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func parsePort(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	p, err := strconv.Atoi(v)
	if err != nil || p <= 0 || p > 65535 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return p, nil
}
