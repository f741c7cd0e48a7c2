package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	RateLimit    RateLimitConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret        string
	TokenTTLMinutes  int
	BcryptCost       int
	LockoutThreshold int
	LockoutMinutes   int
	TOTPIssuer       string
	TOTPSkewSteps    int
	BackupCodeCount  int
}

// RateLimitConfig bounds request volume per client IP. The login limiter and
// the general API limiter are independent throttles.
type RateLimitConfig struct {
	LoginLimit         int
	LoginWindowMinutes int
	APILimit           int
	APIWindowMinutes   int
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "salon-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:        getEnv("AUTH_JWT_SECRET", "dev-secret"),
			TokenTTLMinutes:  getEnvAsInt("AUTH_TOKEN_TTL_MINUTES", 480),
			BcryptCost:       getEnvAsInt("AUTH_BCRYPT_COST", 12),
			LockoutThreshold: getEnvAsInt("AUTH_LOCKOUT_THRESHOLD", 5),
			LockoutMinutes:   getEnvAsInt("AUTH_LOCKOUT_MINUTES", 15),
			TOTPIssuer:       getEnv("AUTH_TOTP_ISSUER", "SalonKit"),
			TOTPSkewSteps:    getEnvAsInt("AUTH_TOTP_SKEW_STEPS", 2),
			BackupCodeCount:  getEnvAsInt("AUTH_BACKUP_CODE_COUNT", 10),
		},
		RateLimit: RateLimitConfig{
			LoginLimit:         getEnvAsInt("RATE_LIMIT_LOGIN", 5),
			LoginWindowMinutes: getEnvAsInt("RATE_LIMIT_LOGIN_WINDOW_MINUTES", 15),
			APILimit:           getEnvAsInt("RATE_LIMIT_API", 100),
			APIWindowMinutes:   getEnvAsInt("RATE_LIMIT_API_WINDOW_MINUTES", 15),
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// TokenTTL returns the session token lifetime.
func (a AuthConfig) TokenTTL() time.Duration {
	if a.TokenTTLMinutes <= 0 {
		return 8 * time.Hour
	}
	return time.Duration(a.TokenTTLMinutes) * time.Minute
}

// LockoutDuration returns the per-account lockout window.
func (a AuthConfig) LockoutDuration() time.Duration {
	if a.LockoutMinutes <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(a.LockoutMinutes) * time.Minute
}

// LoginWindow returns the sliding window for login attempts per IP.
func (r RateLimitConfig) LoginWindow() time.Duration {
	return time.Duration(r.LoginWindowMinutes) * time.Minute
}

// APIWindow returns the sliding window for general API calls per IP.
func (r RateLimitConfig) APIWindow() time.Duration {
	return time.Duration(r.APIWindowMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
