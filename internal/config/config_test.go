package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[server]
http_port = 8081

[database]
host = "localhost"
port = 5432
user = "booking"
password = "secret"
dbname = "table_booking"

[booking]
timezone = "Europe/Moscow"
guest_default_status = "pending"
user_default_status = "confirmed"

[redis]
enabled = true
availability_ttl = 15
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_DefaultsAndValues(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.HTTPPort)
	assert.Equal(t, 15, cfg.Server.ReadTimeout)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 3, cfg.Database.TxMaxRetries)
	assert.Equal(t, "confirmed", cfg.Booking.OperatorDefaultStatus)
	assert.Equal(t, 60, cfg.Booking.LastBookingCutoffMinutes)
	assert.Equal(t, 14, cfg.Materializer.RollingDays)
	assert.Equal(t, time.Hour, cfg.Materializer.Interval())
	assert.Equal(t, 15*time.Second, cfg.Redis.AvailabilityTTLDuration())
	assert.Equal(t, "Europe/Moscow", cfg.Booking.Location().String())
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoad_EnvOverridesSecrets(t *testing.T) {
	t.Setenv("DB_PASSWORD", "from-env")
	t.Setenv("REDIS_ADDR", "redis:6380")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, "redis:6380", cfg.Redis.Addr)
	assert.Contains(t, cfg.Database.DSN(), "password=from-env")
}

func TestLoad_InvalidDefaultStatus(t *testing.T) {
	path := writeConfig(t, `
[database]
host = "localhost"
port = 5432
dbname = "table_booking"

[booking]
guest_default_status = "arrived"
`)

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_UnknownTimezone(t *testing.T) {
	path := writeConfig(t, `
[database]
host = "localhost"
port = 5432
dbname = "table_booking"

[booking]
timezone = "Mars/Olympus"
`)

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("TABLE_BOOKING_TEST_VAR=loaded\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("TABLE_BOOKING_TEST_VAR") })

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env"), envPath))
	assert.Equal(t, "loaded", os.Getenv("TABLE_BOOKING_TEST_VAR"))
}
