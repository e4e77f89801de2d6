package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Статусы, которые допустимы как статус нового бронирования
const (
	statusPending   = "pending"
	statusConfirmed = "confirmed"
)

var (
	// ErrInvalidConfig возвращается, когда конфигурация не прошла валидацию
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Server       ServerConfig       `toml:"server"`
	Database     DatabaseConfig     `toml:"database"`
	Logs         LogsConfig         `toml:"logs"`
	Metrics      MetricsConfig      `toml:"metrics"`
	Redis        RedisConfig        `toml:"redis"`
	Booking      BookingConfig      `toml:"booking"`
	Materializer MaterializerConfig `toml:"materializer"`
	RateLimit    RateLimitConfig    `toml:"rate_limit"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
	TxMaxRetries    int    `toml:"tx_max_retries"`
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// RedisConfig настройки кэша доступности
type RedisConfig struct {
	Enabled         bool   `toml:"enabled"`
	Addr            string `toml:"addr"`
	Password        string `toml:"password"`
	DB              int    `toml:"db"`
	AvailabilityTTL int    `toml:"availability_ttl"` // секунды
}

// BookingConfig бизнес-настройки бронирования
type BookingConfig struct {
	Timezone                 string `toml:"timezone"`
	GuestDefaultStatus       string `toml:"guest_default_status"`
	UserDefaultStatus        string `toml:"user_default_status"`
	OperatorDefaultStatus    string `toml:"operator_default_status"`
	LastBookingCutoffMinutes int    `toml:"last_booking_cutoff_minutes"`
}

// MaterializerConfig настройки фоновой материализации слотов
type MaterializerConfig struct {
	Enabled         bool `toml:"enabled"`
	IntervalMinutes int  `toml:"interval_minutes"`
	RollingDays     int  `toml:"rolling_days"`
}

// RateLimitConfig настройки ограничения частоты запросов
type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// LoadDotEnv подгружает переменные окружения из .env файлов, если они есть.
// Уже заданные переменные не перезаписываются.
func LoadDotEnv(paths ...string) error {
	existing := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// Load читает TOML файл, применяет переопределения из окружения и значения по умолчанию
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DB_HOST"); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Database.Port = port
		}
	}
	if v := os.Getenv("DB_USER"); v != "" {
		c.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		c.Database.DBName = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("HTTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.HTTPPort = port
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}

	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}
	if c.Database.TxMaxRetries == 0 {
		c.Database.TxMaxRetries = 3
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "table-booking-service"
	}

	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Redis.AvailabilityTTL == 0 {
		c.Redis.AvailabilityTTL = 30
	}

	if c.Booking.Timezone == "" {
		c.Booking.Timezone = "UTC"
	}
	if c.Booking.GuestDefaultStatus == "" {
		c.Booking.GuestDefaultStatus = statusPending
	}
	if c.Booking.UserDefaultStatus == "" {
		c.Booking.UserDefaultStatus = statusConfirmed
	}
	if c.Booking.OperatorDefaultStatus == "" {
		c.Booking.OperatorDefaultStatus = statusConfirmed
	}
	if c.Booking.LastBookingCutoffMinutes == 0 {
		c.Booking.LastBookingCutoffMinutes = 60
	}

	if c.Materializer.IntervalMinutes == 0 {
		c.Materializer.IntervalMinutes = 60
	}
	if c.Materializer.RollingDays == 0 {
		c.Materializer.RollingDays = 14
	}

	if c.RateLimit.RequestsPerSecond == 0 {
		c.RateLimit.RequestsPerSecond = 10
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 20
	}
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port=%d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		return fmt.Errorf("%w: database.port=%d", ErrInvalidConfig, c.Database.Port)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	}
	if c.Database.TxMaxRetries < 0 {
		return fmt.Errorf("%w: database.tx_max_retries=%d", ErrInvalidConfig, c.Database.TxMaxRetries)
	}

	if _, err := time.LoadLocation(c.Booking.Timezone); err != nil {
		return fmt.Errorf("%w: booking.timezone=%q: %v", ErrInvalidConfig, c.Booking.Timezone, err)
	}
	for name, status := range map[string]string{
		"booking.guest_default_status":    c.Booking.GuestDefaultStatus,
		"booking.user_default_status":     c.Booking.UserDefaultStatus,
		"booking.operator_default_status": c.Booking.OperatorDefaultStatus,
	} {
		if status != statusPending && status != statusConfirmed {
			return fmt.Errorf("%w: %s=%q, expected pending or confirmed", ErrInvalidConfig, name, status)
		}
	}
	if c.Booking.LastBookingCutoffMinutes < 0 {
		return fmt.Errorf("%w: booking.last_booking_cutoff_minutes=%d", ErrInvalidConfig, c.Booking.LastBookingCutoffMinutes)
	}

	if c.Materializer.IntervalMinutes < 0 || c.Materializer.RollingDays < 0 {
		return fmt.Errorf("%w: materializer interval and rolling_days must be non-negative", ErrInvalidConfig)
	}
	if c.RateLimit.RequestsPerSecond < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("%w: rate_limit values must be non-negative", ErrInvalidConfig)
	}

	return nil
}

// DSN строка подключения к PostgreSQL
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// Location таймзона сервиса. Валидность проверяется в Validate.
func (b BookingConfig) Location() *time.Location {
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// AvailabilityTTLDuration TTL кэша доступности
func (r RedisConfig) AvailabilityTTLDuration() time.Duration {
	return time.Duration(r.AvailabilityTTL) * time.Second
}

// Interval период запуска материализатора
func (m MaterializerConfig) Interval() time.Duration {
	return time.Duration(m.IntervalMinutes) * time.Minute
}
