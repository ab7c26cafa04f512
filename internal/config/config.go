package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig `yaml:"server"`

	// Operator authentication
	Auth AuthConfig `yaml:"auth"`

	// Persistence backend selection
	Store StoreConfig `yaml:"store"`

	// PostgreSQL connection, used when Store.Driver is "postgres"
	Database DatabaseConfig `yaml:"database"`

	// Gemini models
	GenAI GenAIConfig `yaml:"genai"`

	// Upload limits
	Upload UploadConfig `yaml:"upload"`

	// Logging configuration
	Log LogConfig `yaml:"log"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	StaticDir       string        `yaml:"static_dir"`
}

// AuthConfig holds the shared operator password and session settings
type AuthConfig struct {
	AdminPassword  string        `yaml:"admin_password"`
	SessionTTL     time.Duration `yaml:"session_ttl"`
	CookieSecure   bool          `yaml:"cookie_secure"`
	LoginRateLimit int           `yaml:"login_rate_limit"` // attempts per minute per client IP
}

// StoreConfig selects where application state lives
type StoreConfig struct {
	Driver         string `yaml:"driver"` // "file", "sqlite" or "postgres"
	DataFile       string `yaml:"data_file"`
	SQLitePath     string `yaml:"sqlite_path"`
	MigrationsPath string `yaml:"migrations_path"` // empty uses the embedded migrations
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host         string        `yaml:"host"`
	Port         string        `yaml:"port"`
	User         string        `yaml:"user"`
	Password     string        `yaml:"password"`
	Name         string        `yaml:"name"`
	SSLMode      string        `yaml:"sslmode"`
	MaxOpenConns int           `yaml:"max_open_conns"`
	MaxIdleConns int           `yaml:"max_idle_conns"`
	MaxLifetime  time.Duration `yaml:"max_lifetime"`
}

// GenAIConfig holds Gemini API settings
type GenAIConfig struct {
	APIKey      string        `yaml:"api_key"`
	TextModel   string        `yaml:"text_model"`
	VisionModel string        `yaml:"vision_model"`
	ImageModel  string        `yaml:"image_model"`
	Timeout     time.Duration `yaml:"timeout"`
}

// UploadConfig holds multipart upload limits
type UploadConfig struct {
	MaxUploadSize    int64 `yaml:"max_upload_size"` // in bytes
	MaxInsightImages int   `yaml:"max_insight_images"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "pretty"
}

const (
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Default returns the configuration used before the config file and
// environment are applied
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    300 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			StaticDir:       "./static",
		},
		Auth: AuthConfig{
			SessionTTL:     30 * time.Minute,
			CookieSecure:   true,
			LoginRateLimit: 10,
		},
		Store: StoreConfig{
			Driver:     DriverFile,
			DataFile:   "data.json",
			SQLitePath: "calendar.db",
		},
		Database: DatabaseConfig{
			Host:         "localhost",
			Port:         "5432",
			User:         "postgres",
			Password:     "postgres",
			Name:         "content_calendar",
			SSLMode:      "disable",
			MaxOpenConns: 25,
			MaxIdleConns: 5,
			MaxLifetime:  5 * time.Minute,
		},
		GenAI: GenAIConfig{
			TextModel:   "gemini-2.0-flash",
			VisionModel: "gemini-2.0-flash",
			ImageModel:  "gemini-2.0-flash-preview-image-generation",
			Timeout:     2 * time.Minute,
		},
		Upload: UploadConfig{
			MaxUploadSize:    32 * 1024 * 1024, // 32MB
			MaxInsightImages: 5,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration from an optional YAML file (CONFIG_PATH) and then
// environment variables, which take precedence
func Load() (*Config, error) {
	cfg, err := Read()
	if err != nil {
		return nil, err
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Read is Load without validation, for tools that only touch part of the config
func Read() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
	cfg.Server.ReadTimeout = getDurationEnv("SERVER_READ_TIMEOUT", cfg.Server.ReadTimeout)
	cfg.Server.WriteTimeout = getDurationEnv("SERVER_WRITE_TIMEOUT", cfg.Server.WriteTimeout)
	cfg.Server.ShutdownTimeout = getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout)
	cfg.Server.StaticDir = getEnv("STATIC_DIR", cfg.Server.StaticDir)

	cfg.Auth.AdminPassword = getEnv("ADMIN_PASSWORD", cfg.Auth.AdminPassword)
	cfg.Auth.SessionTTL = getDurationEnv("SESSION_TTL", cfg.Auth.SessionTTL)
	cfg.Auth.CookieSecure = getBoolEnv("SESSION_COOKIE_SECURE", cfg.Auth.CookieSecure)
	cfg.Auth.LoginRateLimit = getIntEnv("LOGIN_RATE_LIMIT", cfg.Auth.LoginRateLimit)

	cfg.Store.Driver = getEnv("STORE_DRIVER", cfg.Store.Driver)
	cfg.Store.DataFile = getEnv("DATA_FILE", cfg.Store.DataFile)
	cfg.Store.SQLitePath = getEnv("SQLITE_PATH", cfg.Store.SQLitePath)
	cfg.Store.MigrationsPath = getEnv("MIGRATIONS_PATH", cfg.Store.MigrationsPath)

	cfg.Database.Host = getEnv("DB_HOST", cfg.Database.Host)
	cfg.Database.Port = getEnv("DB_PORT", cfg.Database.Port)
	cfg.Database.User = getEnv("DB_USER", cfg.Database.User)
	cfg.Database.Password = getEnv("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.Name = getEnv("DB_NAME", cfg.Database.Name)
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", cfg.Database.SSLMode)
	cfg.Database.MaxOpenConns = getIntEnv("DB_MAX_OPEN_CONNS", cfg.Database.MaxOpenConns)
	cfg.Database.MaxIdleConns = getIntEnv("DB_MAX_IDLE_CONNS", cfg.Database.MaxIdleConns)
	cfg.Database.MaxLifetime = getDurationEnv("DB_MAX_LIFETIME", cfg.Database.MaxLifetime)

	cfg.GenAI.APIKey = getEnv("GOOGLE_API_KEY", cfg.GenAI.APIKey)
	cfg.GenAI.TextModel = getEnv("GENAI_TEXT_MODEL", cfg.GenAI.TextModel)
	cfg.GenAI.VisionModel = getEnv("GENAI_VISION_MODEL", cfg.GenAI.VisionModel)
	cfg.GenAI.ImageModel = getEnv("GENAI_IMAGE_MODEL", cfg.GenAI.ImageModel)
	cfg.GenAI.Timeout = getDurationEnv("GENAI_TIMEOUT", cfg.GenAI.Timeout)

	cfg.Upload.MaxUploadSize = getInt64Env("MAX_UPLOAD_SIZE", cfg.Upload.MaxUploadSize)
	cfg.Upload.MaxInsightImages = getIntEnv("MAX_INSIGHT_IMAGES", cfg.Upload.MaxInsightImages)

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Auth.AdminPassword == "" {
		return fmt.Errorf("ADMIN_PASSWORD is required")
	}
	if c.GenAI.APIKey == "" {
		return fmt.Errorf("GOOGLE_API_KEY is required")
	}
	if err := c.ValidateStore(); err != nil {
		return err
	}

	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}

// ValidateStore checks the settings of the selected storage driver
func (c *Config) ValidateStore() error {
	switch c.Store.Driver {
	case DriverFile:
		if c.Store.DataFile == "" {
			return fmt.Errorf("DATA_FILE is required for the file store")
		}
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite store")
		}
	case DriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("DB_NAME is required")
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q (file, sqlite, postgres)", c.Store.Driver)
	}
	return nil
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
