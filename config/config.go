package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	API      APIConfig
	View     ViewConfig
	Log      LogConfig
	Audit    AuditConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type ServerConfig struct {
	Port string
}

// APIConfig описывает удалённый API регистраций
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type ViewConfig struct {
	PageSize int
}

type LogConfig struct {
	Level  string
	Format string
}

type AuditConfig struct {
	Enabled bool
}

const DefaultAPIBaseURL = "https://kings-backend-4diu.onrender.com"

// Load читает .env (если он есть) и переменные окружения
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("ошибка загрузки .env файла: %w", err)
	}
	return FromEnv()
}

// FromEnv собирает конфигурацию только из окружения процесса
func FromEnv() (*Config, error) {
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("неверный формат DB_PORT: %w", err)
	}

	pageSize, err := strconv.Atoi(getEnv("PAGE_SIZE", "5"))
	if err != nil {
		return nil, fmt.Errorf("неверный формат PAGE_SIZE: %w", err)
	}
	if pageSize <= 0 {
		return nil, fmt.Errorf("PAGE_SIZE должен быть положительным, получено %d", pageSize)
	}

	timeout, err := time.ParseDuration(getEnv("API_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("неверный формат API_TIMEOUT: %w", err)
	}
	if timeout < 0 {
		return nil, fmt.Errorf("API_TIMEOUT не может быть отрицательным: %s", timeout)
	}

	auditEnabled, err := strconv.ParseBool(getEnv("AUDIT_ENABLED", "false"))
	if err != nil {
		return nil, fmt.Errorf("неверный формат AUDIT_ENABLED: %w", err)
	}

	config := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "kings_admin"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
		},
		API: APIConfig{
			BaseURL: strings.TrimRight(getEnv("API_BASE_URL", DefaultAPIBaseURL), "/"),
			Timeout: timeout,
		},
		View: ViewConfig{
			PageSize: pageSize,
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		Audit: AuditConfig{
			Enabled: auditEnabled,
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}
