// Package config loads the portal configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment names the deployment tier the process runs in.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// Config is the root of all runtime settings, grouped by subsystem.
type Config struct {
	App           AppConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	HTTP          HTTPConfig
	Session       SessionConfig
	Scoring       ScoringConfig
	Scheduler     SchedulerConfig
	Observability ObservabilityConfig
}

// AppConfig carries process-wide settings.
type AppConfig struct {
	Environment Environment

	// Timezone governs when scheduled jobs fire. Location is the parsed
	// form; it falls back to UTC when the name cannot be resolved.
	Timezone string
	Location *time.Location

	ShutdownTimeout time.Duration
}

// DatabaseConfig carries PostgreSQL settings. Pool sizing rides on the
// URL itself via pgx query parameters (pool_max_conns and friends).
type DatabaseConfig struct {
	URL         string
	AutoMigrate bool
}

// RedisConfig carries Redis connection and pool settings.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int

	PoolSize     int
	MinIdleConns int

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// SharedEventBus fans domain events out over Redis Pub/Sub so that
	// multiple portal instances see each other's events.
	SharedEventBus bool
}

// HTTPConfig carries listener and per-request settings.
type HTTPConfig struct {
	Host string
	Port int

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	EnableCORS     bool
	AllowedOrigins []string

	// RateLimitPerMinute caps requests per client IP. Zero disables it.
	RateLimitPerMinute int

	SecureCookies bool
}

// SessionConfig carries login session settings.
type SessionConfig struct {
	TTL        time.Duration
	CookieName string
}

// ScoringConfig carries the weights of the total score formula plus
// password hashing cost. Weights are decimal strings validated at
// service construction; they must be non-negative and sum to 1.
type ScoringConfig struct {
	AcademicComprehensiveWeight    string
	AcademicExpertiseWeight        string
	ComprehensivePerformanceWeight string

	// BcryptCost of zero means the library default.
	BcryptCost int
}

// SchedulerConfig carries background job settings.
type SchedulerConfig struct {
	Enabled bool

	// Daily digest fire time, in the configured timezone.
	DigestHour   int
	DigestMinute int

	DeadLetterRetryInterval time.Duration
}

// ObservabilityConfig carries logging settings.
type ObservabilityConfig struct {
	LogLevel  string
	LogCaller bool
}

// Load reads every setting from the environment and validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		App:           loadAppConfig(),
		Database:      loadDatabaseConfig(),
		Redis:         loadRedisConfig(),
		HTTP:          loadHTTPConfig(),
		Session:       loadSessionConfig(),
		Scoring:       loadScoringConfig(),
		Scheduler:     loadSchedulerConfig(),
		Observability: loadObservabilityConfig(),
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func loadAppConfig() AppConfig {
	tz := envString("APP_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}

	return AppConfig{
		Environment:     Environment(envString("APP_ENV", "development")),
		Timezone:        tz,
		Location:        loc,
		ShutdownTimeout: envDuration("APP_SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		URL:         envString("DATABASE_URL", databaseURLFromParts()),
		AutoMigrate: envBool("DB_AUTO_MIGRATE", true),
	}
}

// databaseURLFromParts assembles a connection URL from the split DB_*
// variables, for deployments that do not hand over a full DATABASE_URL.
func databaseURLFromParts() string {
	host := os.Getenv("DB_HOST")
	user := os.Getenv("DB_USER")
	if host == "" || user == "" {
		return ""
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		user,
		os.Getenv("DB_PASSWORD"),
		host,
		envString("DB_PORT", "5432"),
		envString("DB_NAME", "merit_portal"),
		envString("DB_SSLMODE", "require"),
	)
}

func loadRedisConfig() RedisConfig {
	return RedisConfig{
		Host:           envString("REDIS_HOST", "localhost"),
		Port:           envInt("REDIS_PORT", 6379),
		Password:       os.Getenv("REDIS_PASSWORD"),
		DB:             envInt("REDIS_DB", 0),
		PoolSize:       envInt("REDIS_POOL_SIZE", 10),
		MinIdleConns:   envInt("REDIS_MIN_IDLE_CONNS", 2),
		DialTimeout:    envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		ReadTimeout:    envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		WriteTimeout:   envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		SharedEventBus: envBool("REDIS_SHARED_EVENT_BUS", false),
	}
}

func loadHTTPConfig() HTTPConfig {
	return HTTPConfig{
		Host:               envString("HTTP_HOST", "0.0.0.0"),
		Port:               envInt("HTTP_PORT", 8080),
		ReadTimeout:        envDuration("HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:       envDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:        envDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		EnableCORS:         envBool("HTTP_ENABLE_CORS", false),
		AllowedOrigins:     envCSV("HTTP_ALLOWED_ORIGINS"),
		RateLimitPerMinute: envInt("HTTP_RATE_LIMIT_PER_MINUTE", 300),
		SecureCookies:      envBool("HTTP_SECURE_COOKIES", false),
	}
}

func loadSessionConfig() SessionConfig {
	return SessionConfig{
		TTL:        envDuration("SESSION_TTL", 12*time.Hour),
		CookieName: envString("SESSION_COOKIE_NAME", "merit_session"),
	}
}

func loadScoringConfig() ScoringConfig {
	return ScoringConfig{
		AcademicComprehensiveWeight:    envString("SCORE_WEIGHT_ACADEMIC_COMPREHENSIVE", "0.6"),
		AcademicExpertiseWeight:        envString("SCORE_WEIGHT_ACADEMIC_EXPERTISE", "0.2"),
		ComprehensivePerformanceWeight: envString("SCORE_WEIGHT_COMPREHENSIVE_PERFORMANCE", "0.2"),
		BcryptCost:                     envInt("BCRYPT_COST", 0),
	}
}

func loadSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Enabled:                 envBool("SCHEDULER_ENABLED", true),
		DigestHour:              envInt("SCHEDULER_DIGEST_HOUR", 8),
		DigestMinute:            envInt("SCHEDULER_DIGEST_MINUTE", 0),
		DeadLetterRetryInterval: envDuration("SCHEDULER_DLQ_RETRY_INTERVAL", 10*time.Minute),
	}
}

func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:  envString("LOG_LEVEL", "info"),
		LogCaller: envBool("LOG_CALLER", true),
	}
}

// Validate reports every invalid setting at once, named by its
// environment variable so the operator can fix the deployment directly.
func (c *Config) Validate() error {
	var problems []string
	fail := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if c.App.Environment == EnvProduction && c.Database.URL == "" {
		fail("DATABASE_URL is required in production")
	}
	if c.HTTP.Port < 1 || c.HTTP.Port > 65535 {
		fail("HTTP_PORT %d is outside 1-65535", c.HTTP.Port)
	}
	if c.Session.TTL <= 0 {
		fail("SESSION_TTL must be positive")
	}
	if h := c.Scheduler.DigestHour; h < 0 || h > 23 {
		fail("SCHEDULER_DIGEST_HOUR %d is outside 0-23", h)
	}
	if m := c.Scheduler.DigestMinute; m < 0 || m > 59 {
		fail("SCHEDULER_DIGEST_MINUTE %d is outside 0-59", m)
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

// IsProduction reports whether the process runs in the production tier.
func (c *Config) IsProduction() bool {
	return c.App.Environment == EnvProduction
}

// Unset or malformed variables fall back to the given default; a typo in
// an optional variable must not take the portal down.

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return fallback
}

// envCSV splits a comma-separated variable into trimmed, non-empty parts.
func envCSV(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
