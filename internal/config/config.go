package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAppName        = "ArabiRentHome"
	defaultEnv            = "development"
	defaultPort           = "8080"
	defaultLogLevel       = "info"
	defaultShutdownDelay  = 10 * time.Second
	defaultIdempotencyTTL = 24 * time.Hour
	defaultAccessTTL      = 15 * time.Minute
	defaultRefreshTTL     = 720 * time.Hour

	defaultCommissionRate        = 0.025
	defaultSuspensionThreshold   = -100
	defaultReactivationThreshold = 0
	defaultHistoryLimit          = 50
)

// WalletPolicy holds the commission and suspension knobs applied by the ledger.
type WalletPolicy struct {
	// CommissionRate is the fraction of the monthly rent charged to the
	// landlord when a booking is accepted.
	CommissionRate float64
	// SuspensionThreshold suspends the account once the balance falls to or
	// below it.
	SuspensionThreshold int64
	// ReactivationThreshold reactivates the account once a recharge lifts the
	// balance strictly above it.
	ReactivationThreshold int64
	// HistoryLimit caps the number of transactions returned to clients.
	HistoryLimit int
}

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName         string
	Env             string
	Port            string
	LogLevel        string
	DatabaseURL     string
	RedisURL        string
	JWTSecret       string
	RefreshSecret   string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	ShutdownPeriod  time.Duration
	IdempotencyTTL  time.Duration
	Wallet          WalletPolicy
}

// Load reads configuration values from the environment and populates a Config instance.
func Load() (Config, error) {
	cfg := Config{
		AppName:         getEnv("APP_NAME", defaultAppName),
		Env:             strings.ToLower(getEnv("APP_ENV", defaultEnv)),
		Port:            getEnv("PORT", defaultPort),
		LogLevel:        strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisURL:        os.Getenv("REDIS_URL"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		RefreshSecret:   os.Getenv("REFRESH_SECRET"),
		AccessTokenTTL:  defaultAccessTTL,
		RefreshTokenTTL: defaultRefreshTTL,
		ShutdownPeriod:  defaultShutdownDelay,
		IdempotencyTTL:  defaultIdempotencyTTL,
		Wallet: WalletPolicy{
			CommissionRate:        defaultCommissionRate,
			SuspensionThreshold:   defaultSuspensionThreshold,
			ReactivationThreshold: defaultReactivationThreshold,
			HistoryLimit:          defaultHistoryLimit,
		},
	}

	var err error
	if cfg.ShutdownPeriod, err = durationEnv("SHUTDOWN_TIMEOUT", cfg.ShutdownPeriod); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = durationEnv("IDEMPOTENCY_TTL", cfg.IdempotencyTTL); err != nil {
		return Config{}, err
	}
	if cfg.AccessTokenTTL, err = durationEnv("ACCESS_TOKEN_TTL", cfg.AccessTokenTTL); err != nil {
		return Config{}, err
	}
	if cfg.RefreshTokenTTL, err = durationEnv("REFRESH_TOKEN_TTL", cfg.RefreshTokenTTL); err != nil {
		return Config{}, err
	}

	if v := os.Getenv("COMMISSION_RATE"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid COMMISSION_RATE: %w", err)
		}
		if rate < 0 || rate >= 1 {
			return Config{}, fmt.Errorf("COMMISSION_RATE must be in [0, 1), got %v", rate)
		}
		cfg.Wallet.CommissionRate = rate
	}
	if cfg.Wallet.SuspensionThreshold, err = int64Env("SUSPENSION_THRESHOLD", cfg.Wallet.SuspensionThreshold); err != nil {
		return Config{}, err
	}
	if cfg.Wallet.ReactivationThreshold, err = int64Env("REACTIVATION_THRESHOLD", cfg.Wallet.ReactivationThreshold); err != nil {
		return Config{}, err
	}
	if v := os.Getenv("TX_HISTORY_LIMIT"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			return Config{}, fmt.Errorf("invalid TX_HISTORY_LIMIT: %q", v)
		}
		cfg.Wallet.HistoryLimit = limit
	}

	if cfg.Wallet.SuspensionThreshold > cfg.Wallet.ReactivationThreshold {
		return Config{}, fmt.Errorf("SUSPENSION_THRESHOLD (%d) must not exceed REACTIVATION_THRESHOLD (%d)",
			cfg.Wallet.SuspensionThreshold, cfg.Wallet.ReactivationThreshold)
	}

	if !cfg.IsDev() {
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL must be set when APP_ENV=%s", cfg.Env)
		}
		if cfg.RedisURL == "" {
			return Config{}, fmt.Errorf("REDIS_URL must be set when APP_ENV=%s", cfg.Env)
		}
		if cfg.JWTSecret == "" {
			return Config{}, fmt.Errorf("JWT_SECRET must be set when APP_ENV=%s", cfg.Env)
		}
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-secret"
	}
	if cfg.RefreshSecret == "" {
		cfg.RefreshSecret = cfg.JWTSecret
	}

	return cfg, nil
}

// IsDev reports whether the app runs in a development-like environment, where
// Postgres and Redis may be absent and in-memory stores are substituted.
func (c Config) IsDev() bool {
	switch c.Env {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	if v := os.Getenv(key + "_SECONDS"); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s_SECONDS: %w", key, err)
		}
		return time.Duration(seconds) * time.Second, nil
	}
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", key, err)
		}
		return d, nil
	}
	return fallback, nil
}

func int64Env(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
