package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StateBackendPostgres = "postgres"
	StateBackendRedis    = "redis"
	StateBackendMemory   = "memory"
)

type Config struct {
	ServerPort              string
	ServerReadHeaderTimeout time.Duration
	ServerWriteTimeout      time.Duration
	ServerIdleTimeout       time.Duration
	RequestTimeout          time.Duration
	JWTSecret               string
	CORSOrigins             []string
	RateLimitRPM            int

	StateBackend   string
	DatabaseURL    string
	DBMaxConns     int32
	DBMinConns     int32
	RedisURL       string
	RedisKeyPrefix string

	BackendURL     string
	BackendTimeout time.Duration

	SweepSchedule       string
	StartupPurgeDelay   time.Duration
	ArchiveDefaultsFile string

	LogLevel  string
	LogFormat string
}

// Load reads the server configuration from the environment and an optional .env file.
func Load() (*Config, error) {
	cfg := fromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadTool reads the configuration for offline tools, which need the state
// backend and the clinic backend but no HTTP settings.
func LoadTool() (*Config, error) {
	cfg := fromEnv()
	if err := cfg.ValidateState(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func fromEnv() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:              getEnv("SERVER_PORT", "8080"),
		ServerReadHeaderTimeout: getDuration("SERVER_READ_HEADER_TIMEOUT", 10*time.Second),
		ServerWriteTimeout:      getDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		ServerIdleTimeout:       getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		RequestTimeout:          getDuration("REQUEST_TIMEOUT", 30*time.Second),
		JWTSecret:               strings.TrimSpace(os.Getenv("JWT_SECRET")),
		CORSOrigins:             splitCSV(getEnv("CORS_ORIGINS", "*")),
		RateLimitRPM:            getInt("RATE_LIMIT_RPM", 300),
		StateBackend:            strings.ToLower(getEnv("STATE_BACKEND", StateBackendPostgres)),
		DatabaseURL:             strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DBMaxConns:              int32(getInt("DB_MAX_CONNS", 10)),
		DBMinConns:              int32(getInt("DB_MIN_CONNS", 1)),
		RedisURL:                strings.TrimSpace(os.Getenv("REDIS_URL")),
		RedisKeyPrefix:          getEnv("REDIS_KEY_PREFIX", "clinic:"),
		BackendURL:              getEnv("BACKEND_URL", "http://localhost:3000"),
		BackendTimeout:          getDuration("BACKEND_TIMEOUT", 10*time.Second),
		SweepSchedule:           strings.TrimSpace(getEnvAllowEmpty("SWEEP_SCHEDULE", "0 3 * * *")),
		StartupPurgeDelay:       getDuration("STARTUP_PURGE_DELAY", 2*time.Second),
		ArchiveDefaultsFile:     strings.TrimSpace(os.Getenv("ARCHIVE_DEFAULTS_FILE")),
		LogLevel:                strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:               strings.ToLower(getEnv("LOG_FORMAT", "pretty")),
	}
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT cannot be empty")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	return c.ValidateState()
}

// ValidateState checks the settings shared by the server and offline tools.
func (c *Config) ValidateState() error {
	switch c.StateBackend {
	case StateBackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for STATE_BACKEND=postgres")
		}
		if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
			return fmt.Errorf("DB_MIN_CONNS/DB_MAX_CONNS are out of range")
		}
	case StateBackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for STATE_BACKEND=redis")
		}
	case StateBackendMemory:
	default:
		return fmt.Errorf("STATE_BACKEND must be one of postgres, redis, memory (got %q)", c.StateBackend)
	}

	if strings.TrimSpace(c.BackendURL) == "" {
		return fmt.Errorf("BACKEND_URL cannot be empty")
	}

	if c.BackendTimeout <= 0 {
		return fmt.Errorf("BACKEND_TIMEOUT must be positive")
	}

	if c.StartupPurgeDelay < 0 {
		return fmt.Errorf("STARTUP_PURGE_DELAY cannot be negative")
	}

	if c.LogFormat != "pretty" && c.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be pretty or json")
	}

	return nil
}

func getEnv(key string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	return v
}

// getEnvAllowEmpty distinguishes an unset variable from one explicitly set to "".
func getEnvAllowEmpty(key string, fallback string) string {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}

	return v
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return v
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}

	return out
}
