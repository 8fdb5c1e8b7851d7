package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Storage    StorageConfig
	Attendance AttendanceConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string
	Timezone    string
}

type StorageConfig struct {
	Type     string
	BasePath string
	BaseURL  string
}

// AttendanceConfig holds the tunable business rules of the attendance core.
type AttendanceConfig struct {
	// CompOffValidityMonths is how long an approved comp-off credit stays
	// usable, counted from the worked date.
	CompOffValidityMonths int

	// FullDayCompOffHours is the minimum hours worked that earns a full
	// day of comp-off credit; anything below earns half a day.
	FullDayCompOffHours float64

	// AllowMultipleCheckIn permits more than one check-in/check-out pair
	// per day when enabled.
	AllowMultipleCheckIn bool

	// BreakSystemEnabled registers the break-tracking capability at boot.
	BreakSystemEnabled bool
}

func Load() (*Config, error) {
	// .env is optional; deployments may set env vars directly.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		Timezone:    getEnv("APP_TIMEZONE", "UTC"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Storage configuration
	config.Storage = StorageConfig{
		Type:     getEnv("STORAGE_TYPE", "local"),
		BasePath: getEnv("STORAGE_BASE_PATH", "./storage"),
		BaseURL:  getEnv("STORAGE_BASE_URL", "http://localhost:8080/storage"),
	}

	// Attendance business rules
	validityMonths, err := strconv.Atoi(getEnv("COMP_OFF_VALIDITY_MONTHS", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid COMP_OFF_VALIDITY_MONTHS: %w", err)
	}

	fullDayHours, err := strconv.ParseFloat(getEnv("COMP_OFF_FULL_DAY_HOURS", "8"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid COMP_OFF_FULL_DAY_HOURS: %w", err)
	}

	config.Attendance = AttendanceConfig{
		CompOffValidityMonths: validityMonths,
		FullDayCompOffHours:   fullDayHours,
		AllowMultipleCheckIn:  getEnvBool("ATTENDANCE_MULTIPLE_CHECK_IN", false),
		BreakSystemEnabled:    getEnvBool("BREAK_SYSTEM_ENABLED", false),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Attendance.CompOffValidityMonths <= 0 {
		return fmt.Errorf("COMP_OFF_VALIDITY_MONTHS must be positive")
	}
	if c.Attendance.FullDayCompOffHours <= 0 {
		return fmt.Errorf("COMP_OFF_FULL_DAY_HOURS must be positive")
	}
	return nil
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

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(getEnv(key, ""))
	if value == "" {
		return fallback
	}
	return value == "true" || value == "1"
}
