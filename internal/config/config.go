package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode  string
	Port     string
	Database DatabaseConfig
	JWT      JWTConfig
	Auth     AuthConfig
	Export   ExportConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string // "mysql" or "sqlite"
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	Path     string // sqlite file path, ":memory:" for tests
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessTokenHours int
}

// AuthConfig holds registration policy configuration
type AuthConfig struct {
	// AllowedEmailDomain restricts registration to one email domain
	// when non-empty (e.g. "bt.com").
	AllowedEmailDomain string
}

// ExportConfig holds export pipeline configuration
type ExportConfig struct {
	Dir        string // process-wide output directory, created if absent
	PublicPath string // public mount point returned in export URLs
	// RendererURL is an HTML-to-PDF renderer endpoint (Gotenberg).
	// When empty the PDF path falls back to HTML with an explicit note.
	RendererURL string
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	accessHours, _ := strconv.Atoi(getEnv("ACCESS_TOKEN_HOURS", "24"))

	config := &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "3000"),
		Database: loadDatabaseConfig(appMode),
		JWT: JWTConfig{
			Secret:           getEnv(prefixFor(appMode)+"JWT_SECRET", "default_secret"),
			AccessTokenHours: accessHours,
		},
		Auth: AuthConfig{
			AllowedEmailDomain: getEnv("ALLOWED_EMAIL_DOMAIN", ""),
		},
		Export: ExportConfig{
			Dir:         getEnv("EXPORT_DIR", "./exports"),
			PublicPath:  getEnv("EXPORT_PUBLIC_PATH", "/downloads"),
			RendererURL: getEnv("PDF_RENDERER_URL", ""),
		},
	}

	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", appMode)
	return config, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := prefixFor(mode)

	return DatabaseConfig{
		Driver:   getEnv("DB_DRIVER", "mysql"),
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", "3306"),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "opspulse"),
		Path:     getEnv("DB_SQLITE_PATH", "opspulse.db"),
	}
}

// prefixFor returns the env var prefix for the mode
func prefixFor(mode string) string {
	if mode == "prod" {
		return "PROD_"
	}
	return "DEV_"
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" && c.IsDev() {
		return "*"
	}
	return origins
}
