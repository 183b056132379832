package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all application configuration
type Config struct {
	NodeEnv        string
	Port           string
	CORSOrigin     string
	MaxUploadBytes int64
	Database       DatabaseConfig
	Storage        StorageConfig
	Redis          RedisConfig
	Log            LogConfig
	Report         ReportConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver     string
	URL        string // DATABASE_URL, takes precedence over host params
	Host       string
	Port       string
	Username   string
	Password   string
	Database   string
	SQLitePath string
	Alter      bool
}

// StorageConfig holds file storage configuration
type StorageConfig struct {
	UploadDir string // IFC binaries go to <UploadDir>/ifc
}

// RedisConfig holds the optional Redis connection used for the ingestion lock.
// An empty Addr keeps the lock in process.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string
	Format string
}

// ReportConfig holds report rendering settings
type ReportConfig struct {
	ProjectName  string
	DashboardURL string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	maxUpload, err := strconv.ParseInt(getEnv("MAX_UPLOAD_BYTES", "524288000"), 10, 64)
	if err != nil || maxUpload <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_BYTES must be a positive integer")
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("REDIS_DB must be an integer: %w", err)
	}

	db := DatabaseConfig{
		Driver:     strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
		URL:        os.Getenv("DATABASE_URL"),
		Host:       getEnv("PG_HOST", "localhost"),
		Port:       getEnv("PG_PORT", "5432"),
		Username:   getEnv("PG_USERNAME", "postgres"),
		Password:   os.Getenv("PG_PASSWORD"),
		Database:   getEnv("PG_DATABASE", "asbuilt"),
		SQLitePath: getEnv("SQLITE_PATH", "sqlite.db"),
		Alter:      getEnv("DB_ALTER", "false") == "true",
	}
	if db.Driver != DriverPostgres && db.Driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", db.Driver)
	}

	return &Config{
		NodeEnv:        getEnv("NODE_ENV", "development"),
		Port:           getEnv("PORT", "3000"),
		CORSOrigin:     getEnv("CORS_ORIGIN", "*"),
		MaxUploadBytes: maxUpload,
		Database:       db,
		Storage: StorageConfig{
			UploadDir: getEnv("UPLOAD_DIR", "uploads"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
		Report: ReportConfig{
			ProjectName:  getEnv("PROJECT_NAME", "Neodent"),
			DashboardURL: os.Getenv("DASHBOARD_URL"),
		},
	}, nil
}

// IsProduction reports whether NODE_ENV is production
func (c *Config) IsProduction() bool {
	return c.NodeEnv == "production"
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
