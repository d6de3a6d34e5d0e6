package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shifttrack/timecard-backend-go/internal/domain/timecard"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config is read from the environment. Keys are section prefix plus field,
// e.g. DB_HOST, APP_PORT, TIMECARD_PAY_PERIOD_ANCHOR.
type Config struct {
	App      AppConfig      `envconfig:"APP"`
	Log      LogConfig      `envconfig:"LOG"`
	Store    StoreConfig    `envconfig:"STORE"`
	Database DatabaseConfig `envconfig:"DB"`
	JWT      JWTConfig      `envconfig:"JWT"`
	Timecard TimecardConfig `envconfig:"TIMECARD"`
	CORS     CORSConfig     `envconfig:"CORS"`
}

// AppConfig holds application configuration
type AppConfig struct {
	Port            int           `default:"8080"`
	Env             string        `default:"development"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	PunchRateLimit  int           `envconfig:"PUNCH_RATE_LIMIT" default:"30"` // per IP per minute
}

type LogConfig struct {
	Level  string `default:"info"`
	Format string `default:"text"` // text or json
}

type StoreConfig struct {
	Driver string `default:"postgres"`
}

type DatabaseConfig struct {
	Host     string `default:"localhost"`
	Port     int    `default:"5432"`
	User     string `default:"postgres"`
	Password string
	Name     string `default:"timecard"`
	SSLMode  string `envconfig:"SSL_MODE" default:"disable"`
	MaxConns int32  `envconfig:"MAX_CONNS" default:"25"`
	MinConns int32  `envconfig:"MIN_CONNS" default:"5"`
}

// JWTConfig holds the key used to verify bearer tokens issued by the auth service
type JWTConfig struct {
	Secret string `envconfig:"SECRET_KEY"`
}

// TimecardConfig holds the payroll rules
type TimecardConfig struct {
	Timezone               string        `default:"America/New_York"`
	PayPeriodAnchor        string        `envconfig:"PAY_PERIOD_ANCHOR" default:"2024-01-07"`
	OvertimeThresholdHours float64       `envconfig:"OVERTIME_THRESHOLD_HOURS" default:"40"`
	WeekWindowCount        int           `envconfig:"WEEK_WINDOW_COUNT" default:"30"`
	AutoClockOutAfter      time.Duration `envconfig:"AUTO_CLOCK_OUT_AFTER" default:"12h"`
	AutoClockOutInterval   time.Duration `envconfig:"AUTO_CLOCK_OUT_INTERVAL" default:"15m"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
		slog.Debug("No .env file found, reading configuration from the environment")
	}

	config := &Config{}
	if err := envconfig.Process("", config); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreDriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreDriverPostgres, StoreDriverMemory, c.Store.Driver)
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.Anchor(); err != nil {
		return err
	}
	if c.App.PunchRateLimit <= 0 {
		return fmt.Errorf("APP_PUNCH_RATE_LIMIT must be positive")
	}
	if c.Timecard.OvertimeThresholdHours <= 0 {
		return fmt.Errorf("TIMECARD_OVERTIME_THRESHOLD_HOURS must be positive")
	}
	if c.Timecard.WeekWindowCount <= 0 || c.Timecard.WeekWindowCount > 104 {
		return fmt.Errorf("TIMECARD_WEEK_WINDOW_COUNT must be between 1 and 104")
	}
	if c.Timecard.AutoClockOutAfter <= 0 {
		return fmt.Errorf("TIMECARD_AUTO_CLOCK_OUT_AFTER must be positive")
	}
	if c.Timecard.AutoClockOutInterval <= 0 {
		return fmt.Errorf("TIMECARD_AUTO_CLOCK_OUT_INTERVAL must be positive")
	}
	return nil
}

// IsProduction reports whether the app runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.App.Env == "production"
}

// Location returns the time zone used to assign punches to calendar days.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timecard.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMECARD_TIMEZONE %q: %w", c.Timecard.Timezone, err)
	}
	return loc, nil
}

// Anchor returns the pay period anchor as local midnight. It must be a Sunday.
func (c *Config) Anchor() (time.Time, error) {
	loc, err := c.Location()
	if err != nil {
		return time.Time{}, err
	}
	anchor, err := timecard.ParseAnchor(c.Timecard.PayPeriodAnchor, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("TIMECARD_PAY_PERIOD_ANCHOR: %w", err)
	}
	return anchor, nil
}

// OvertimeThreshold returns the weekly regular-hours cap.
func (c *Config) OvertimeThreshold() time.Duration {
	return time.Duration(c.Timecard.OvertimeThresholdHours * float64(time.Hour))
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
