package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config конфигурация сервиса
// Значения читаются из TOML файла, затем переопределяются переменными окружения
// (в том числе из .env файла, если он есть)
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Auth     AuthConfig     `toml:"auth"`
	CSRF     CSRFConfig     `toml:"csrf"`
	Uploads  UploadsConfig  `toml:"uploads"`
	Broker   BrokerConfig   `toml:"broker"`
}

type ServerConfig struct {
	HTTPPort        int    `toml:"http_port" env:"SERVER_HTTP_PORT"`
	ReadTimeout     int    `toml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
	WriteTimeout    int    `toml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	IdleTimeout     int    `toml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT"`
	ShutdownTimeout int    `toml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
	Environment     string `toml:"environment" env:"ENV"`
}

// IsProduction сообщает, что сервис запущен в production окружении
func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

type DatabaseConfig struct {
	Host            string `toml:"host" env:"DB_HOST"`
	Port            int    `toml:"port" env:"DB_PORT"`
	User            string `toml:"user" env:"DB_USER"`
	Password        string `toml:"password" env:"DB_PASSWORD"`
	DBName          string `toml:"dbname" env:"DB_NAME"`
	SSLMode         string `toml:"sslmode" env:"DB_SSLMODE"`
	MaxOpenConns    int    `toml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns    int    `toml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	TxMaxRetries    int    `toml:"tx_max_retries" env:"DB_TX_MAX_RETRIES"`
	AutoMigrate     bool   `toml:"auto_migrate" env:"DB_AUTO_MIGRATE"`
}

// DSN возвращает строку подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	File  string `toml:"file" env:"LOG_FILE"`
	Level string `toml:"level" env:"LOG_LEVEL"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" env:"METRICS_ENABLED"`
	Path        string `toml:"path" env:"METRICS_PATH"`
	ServiceName string `toml:"service_name" env:"METRICS_SERVICE_NAME"`
}

type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret" env:"JWT_SECRET"`
	Issuer    string `toml:"issuer" env:"JWT_ISSUER"`
}

type CSRFConfig struct {
	Enabled    bool   `toml:"enabled" env:"CSRF_ENABLED"`
	HashKey    string `toml:"hash_key" env:"CSRF_HASH_KEY"`
	CookieName string `toml:"cookie_name" env:"CSRF_COOKIE_NAME"`
	HeaderName string `toml:"header_name" env:"CSRF_HEADER_NAME"`
	Secure     bool   `toml:"secure" env:"CSRF_COOKIE_SECURE"`
	MaxAge     int    `toml:"max_age" env:"CSRF_MAX_AGE"`
}

type UploadsConfig struct {
	Dir              string `toml:"dir" env:"UPLOADS_DIR"`
	MaxFileSizeBytes int64  `toml:"max_file_size_bytes" env:"UPLOADS_MAX_FILE_SIZE"`
	MaxFormMemory    int64  `toml:"max_form_memory" env:"UPLOADS_MAX_FORM_MEMORY"`
	MaxRequestBytes  int64  `toml:"max_request_bytes" env:"UPLOADS_MAX_REQUEST_BYTES"`
	ParseTimeout     int    `toml:"parse_timeout" env:"UPLOADS_PARSE_TIMEOUT"`
}

type BrokerConfig struct {
	Enabled  bool   `toml:"enabled" env:"BROKER_ENABLED"`
	URL      string `toml:"url" env:"RABBIT_URL"`
	Exchange string `toml:"exchange" env:"BROKER_EXCHANGE"`
	Timeout  int    `toml:"timeout" env:"BROKER_TIMEOUT"`
}

// ParseTimeoutDuration таймаут разбора multipart формы
func (u UploadsConfig) ParseTimeoutDuration() time.Duration {
	return time.Duration(u.ParseTimeout) * time.Second
}

// Load загружает конфигурацию из TOML файла и переменных окружения
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("decode config file %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("stat config file %s: %w", path, err)
	}

	// .env необязателен, переменные могут прийти из окружения
	_ = godotenv.Load(".env")

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default возвращает конфигурацию со значениями по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    30,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
			Environment:     "development",
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			TxMaxRetries:    3,
			AutoMigrate:     true,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "smc-sporthub",
		},
		CSRF: CSRFConfig{
			Enabled:    true,
			CookieName: "csrf_token",
			HeaderName: "X-CSRF-Token",
			MaxAge:     86400,
		},
		Uploads: UploadsConfig{
			Dir:              "uploads",
			MaxFileSizeBytes: 5 << 20,
			MaxFormMemory:    10 << 20,
			MaxRequestBytes:  64 << 20,
			ParseTimeout:     30,
		},
		Broker: BrokerConfig{
			Exchange: "sporthub.notifications",
			Timeout:  5,
		},
	}
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	var errs []error

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("server.http_port must be in 1..65535, got %d", c.Server.HTTPPort))
	}
	if c.Database.DBName == "" {
		errs = append(errs, errors.New("database.dbname is required"))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required"))
	}
	if c.CSRF.Enabled && len(c.CSRF.HashKey) < 32 {
		errs = append(errs, errors.New("csrf.hash_key must be at least 32 bytes"))
	}
	if c.Uploads.MaxFileSizeBytes <= 0 {
		errs = append(errs, errors.New("uploads.max_file_size_bytes must be positive"))
	}
	if c.Uploads.MaxRequestBytes < c.Uploads.MaxFileSizeBytes {
		errs = append(errs, errors.New("uploads.max_request_bytes must not be less than max_file_size_bytes"))
	}
	if c.Uploads.ParseTimeout <= 0 {
		errs = append(errs, errors.New("uploads.parse_timeout must be positive"))
	}
	if c.Broker.Enabled && c.Broker.URL == "" {
		errs = append(errs, errors.New("broker.url is required when broker is enabled"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
