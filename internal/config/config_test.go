package config

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/shifttrack/timecard-backend-go/internal/domain/timecard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET_KEY", "test-secret-key-for-jwt")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, 30, cfg.App.PunchRateLimit)
	assert.Equal(t, StoreDriverPostgres, cfg.Store.Driver)
	assert.Equal(t, int32(25), cfg.Database.MaxConns)
	assert.Equal(t, "America/New_York", cfg.Timecard.Timezone)
	assert.Equal(t, 40*time.Hour, cfg.OvertimeThreshold())
	assert.Equal(t, 30, cfg.Timecard.WeekWindowCount)
	assert.Equal(t, 12*time.Hour, cfg.Timecard.AutoClockOutAfter)
	assert.Equal(t, 15*time.Minute, cfg.Timecard.AutoClockOutInterval)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)

	anchor, err := cfg.Anchor()
	require.NoError(t, err)
	assert.Equal(t, "2024-01-07", anchor.Format(timecard.DateLayout))
	assert.Equal(t, "America/New_York", anchor.Location().String())
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_PORT", "9090")
	t.Setenv("TIMECARD_TIMEZONE", "America/Chicago")
	t.Setenv("TIMECARD_OVERTIME_THRESHOLD_HOURS", "37.5")
	t.Setenv("TIMECARD_AUTO_CLOCK_OUT_AFTER", "10h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, 37*time.Hour+30*time.Minute, cfg.OvertimeThreshold())
	assert.Equal(t, 10*time.Hour, cfg.Timecard.AutoClockOutAfter)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/Chicago", loc.String())
}

func TestLoad_MemoryStoreNeedsNoDatabasePassword(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret-key-for-jwt")
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("STORE_DRIVER", StoreDriverMemory)

	_, err := Load()
	assert.NoError(t, err)
}

func TestValidate_Errors(t *testing.T) {
	cases := map[string]map[string]string{
		"missing jwt secret":   {"JWT_SECRET_KEY": ""},
		"unknown store driver": {"STORE_DRIVER": "mongo"},
		"anchor not a sunday":  {"TIMECARD_PAY_PERIOD_ANCHOR": "2024-01-08"},
		"bad anchor format":    {"TIMECARD_PAY_PERIOD_ANCHOR": "01/07/2024"},
		"bad timezone":         {"TIMECARD_TIMEZONE": "Mars/Olympus"},
		"zero threshold":       {"TIMECARD_OVERTIME_THRESHOLD_HOURS": "0"},
		"too many windows":     {"TIMECARD_WEEK_WINDOW_COUNT": "500"},
		"zero rate limit":      {"APP_PUNCH_RATE_LIMIT": "0"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			setRequiredEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestAnchor_WrapsDomainError(t *testing.T) {
	cfg := &Config{Timecard: TimecardConfig{Timezone: "UTC", PayPeriodAnchor: "2024-01-09"}}

	_, err := cfg.Anchor()

	assert.ErrorIs(t, err, timecard.ErrInvalidAnchor)
}

func TestDatabaseURL(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{User: "u", Password: "p", Host: "db", Port: 5432, Name: "timecard", SSLMode: "disable"}}
	assert.Equal(t, "postgres://u:p@db:5432/timecard?sslmode=disable", cfg.DatabaseURL())
}
