package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

const (
	defaultAppName          = "Item Service"
	defaultAppEnv           = "development"
	defaultAppURL           = "http://127.0.0.1:8080"
	defaultHTTPAddr         = ":8080"
	defaultShutdownTimeout  = 5 * time.Second
	defaultLogLevel         = "info"
	defaultLogFormat        = "json"
	defaultStoreDriver      = StoreMemory
	defaultFormRateRequests = 30
	defaultFormRateWindow   = time.Minute
	defaultAPIRateRequests  = 100
	defaultAPIRateWindow    = time.Minute
	defaultDBMaxConns       = int32(4)
	defaultDBConnLifetime   = 30 * time.Minute
	defaultDBConnIdleTime   = 5 * time.Minute
)

type Config struct {
	AppName         string
	AppEnv          string
	AppURL          string
	HTTPAddr        string
	ShutdownTimeout time.Duration
	MessagesPath    string
	Log             LogConfig
	Store           StoreConfig
	RateLimit       RateLimitConfig
	Database        DatabaseConfig
}

type LogConfig struct {
	Level  string
	Format string
}

type StoreConfig struct {
	Driver string
}

type RateLimitConfig struct {
	FormRequests int
	FormWindow   time.Duration
	APIRequests  int
	APIWindow    time.Duration
}

type DatabaseConfig struct {
	URL             string
	MaxConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

func Load() (Config, error) {
	cfg := Config{
		AppName:         defaultAppName,
		AppEnv:          defaultAppEnv,
		AppURL:          defaultAppURL,
		HTTPAddr:        defaultHTTPAddr,
		ShutdownTimeout: defaultShutdownTimeout,
		Log: LogConfig{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		Store: StoreConfig{Driver: defaultStoreDriver},
		RateLimit: RateLimitConfig{
			FormRequests: defaultFormRateRequests,
			FormWindow:   defaultFormRateWindow,
			APIRequests:  defaultAPIRateRequests,
			APIWindow:    defaultAPIRateWindow,
		},
		Database: DatabaseConfig{
			MaxConns:        defaultDBMaxConns,
			MaxConnLifetime: defaultDBConnLifetime,
			MaxConnIdleTime: defaultDBConnIdleTime,
		},
	}

	if v := env("APP_NAME"); v != "" {
		cfg.AppName = v
	}
	if v := env("APP_ENV"); v != "" {
		cfg.AppEnv = v
	}
	if v := env("APP_URL"); v != "" {
		cfg.AppURL = v
	}
	if v := env("HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := env("SHUTDOWN_TIMEOUT"); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse SHUTDOWN_TIMEOUT: %w", err)
		}
		cfg.ShutdownTimeout = d
	}
	cfg.MessagesPath = env("MESSAGES_PATH")
	if v := env("LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v := env("LOG_FORMAT"); v != "" {
		cfg.Log.Format = strings.ToLower(v)
	}
	if cfg.Log.Format != "json" && cfg.Log.Format != "console" {
		return Config{}, errors.New("LOG_FORMAT must be json or console")
	}

	if v := env("STORE_DRIVER"); v != "" {
		cfg.Store.Driver = strings.ToLower(v)
	}
	switch cfg.Store.Driver {
	case StoreMemory, StorePostgres:
	default:
		return Config{}, fmt.Errorf("STORE_DRIVER must be %s or %s", StoreMemory, StorePostgres)
	}

	var err error
	if cfg.RateLimit.FormRequests, err = positiveInt("FORM_RATE_LIMIT_REQUESTS", cfg.RateLimit.FormRequests); err != nil {
		return Config{}, err
	}
	if cfg.RateLimit.FormWindow, err = positiveDuration("FORM_RATE_LIMIT_WINDOW", cfg.RateLimit.FormWindow); err != nil {
		return Config{}, err
	}
	if cfg.RateLimit.APIRequests, err = positiveInt("API_RATE_LIMIT_REQUESTS", cfg.RateLimit.APIRequests); err != nil {
		return Config{}, err
	}
	if cfg.RateLimit.APIWindow, err = positiveDuration("API_RATE_LIMIT_WINDOW", cfg.RateLimit.APIWindow); err != nil {
		return Config{}, err
	}

	appURL, err := url.Parse(strings.TrimSpace(cfg.AppURL))
	if err != nil || appURL.Scheme == "" || appURL.Host == "" {
		return Config{}, errors.New("APP_URL must be a valid absolute URL")
	}
	if strings.EqualFold(cfg.AppEnv, "production") && !strings.EqualFold(appURL.Scheme, "https") {
		return Config{}, errors.New("APP_URL must use https in production")
	}
	cfg.AppURL = appURL.String()

	cfg.Database.URL = env("DATABASE_URL")
	if cfg.Store.Driver == StorePostgres && cfg.Database.URL == "" {
		return Config{}, errors.New("DATABASE_URL is required when STORE_DRIVER is postgres")
	}
	if v := env("DATABASE_MAX_CONNS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, errors.New("DATABASE_MAX_CONNS must be a positive integer")
		}
		cfg.Database.MaxConns = int32(n)
	}
	if v := env("DATABASE_MAX_CONN_LIFETIME"); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse DATABASE_MAX_CONN_LIFETIME: %w", err)
		}
		cfg.Database.MaxConnLifetime = d
	}
	if v := env("DATABASE_MAX_CONN_IDLE_TIME"); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse DATABASE_MAX_CONN_IDLE_TIME: %w", err)
		}
		cfg.Database.MaxConnIdleTime = d
	}

	return cfg, nil
}

// RequireDatabase reports an error when no database URL is configured. Used
// by tooling that always talks to Postgres.
func (c Config) RequireDatabase() error {
	if strings.TrimSpace(c.Database.URL) == "" {
		return errors.New("DATABASE_URL is required")
	}
	return nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func positiveInt(key string, fallback int) (int, error) {
	v := env(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return n, nil
}

func positiveDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := env(key)
	if v == "" {
		return fallback, nil
	}
	d, err := parseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}

func parseDuration(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, errors.New("empty duration")
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d, nil
	}
	seconds, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	return time.Duration(seconds) * time.Second, nil
}
