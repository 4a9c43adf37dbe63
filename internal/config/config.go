package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса
type Config struct {
	Server        ServerConfig     `toml:"server"`
	Database      DatabaseConfig   `toml:"database"`
	Logs          LogsConfig       `toml:"logs"`
	Metrics       MetricsConfig    `toml:"metrics"`
	UserService   ServiceConfig    `toml:"user_service"`
	NotifyService ServiceConfig    `toml:"notify_service"`
	Scheduling    SchedulingConfig `toml:"scheduling"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
	Migrate         bool   `toml:"migrate"`
	MigrationsDir   string `toml:"migrations_dir"`
}

// DSN возвращает строку подключения к PostgreSQL
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки метрик Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// ServiceConfig настройки интеграционного клиента
type ServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// SchedulingConfig настройки планирования сессий
type SchedulingConfig struct {
	// CanonicalTimezone каноническая таймзона хранения времен
	CanonicalTimezone string `toml:"canonical_timezone"`
	// DefaultTimezone таймзона клиента, когда определить её невозможно
	DefaultTimezone string `toml:"default_timezone"`
	// MinLeadTimeMinutes минимальное упреждение бронирования
	MinLeadTimeMinutes int `toml:"min_lead_time_minutes"`
	// DefaultDurationMinutes длительность сессии по умолчанию
	DefaultDurationMinutes int `toml:"default_duration_minutes"`
	// AdmitWindowMinutes за сколько минут до начала открывается допуск
	AdmitWindowMinutes int `toml:"admit_window_minutes"`
	// CountdownWindowMinutes окно косметического отсчета перед допуском
	CountdownWindowMinutes int `toml:"countdown_window_minutes"`
}

// Load загружает конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.HTTPPort <= 0 {
		return fmt.Errorf("config: server.http_port must be positive")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if c.Scheduling.CanonicalTimezone == "" {
		return fmt.Errorf("config: scheduling.canonical_timezone is required")
	}
	return nil
}
