// Package config loads the application configuration.
//
// Values are resolved in three layers: built-in defaults, then an optional
// YAML file named by CONFIG_FILE, then environment variables. A .env file
// in the working directory is loaded into the environment first.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongodb"
)

// AdminConfig seeds an admin account at startup when Email and Password
// are set.
type AdminConfig struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// Config holds the application configuration.
type Config struct {
	Env           string        `yaml:"env"`
	ServerPort    int           `yaml:"port"`
	LogLevel      string        `yaml:"log_level"`
	LogFormat     string        `yaml:"log_format"`
	JWTSecret     string        `yaml:"jwt_secret"`
	JWTExpiresIn  time.Duration `yaml:"jwt_expires_in"`
	BcryptCost    int           `yaml:"bcrypt_cost"`
	StoreDriver   string        `yaml:"store_driver"`
	DatabasePath  string        `yaml:"database_path"`
	DatabaseURL   string        `yaml:"database_url"`
	MongoURI      string        `yaml:"mongo_uri"`
	MongoDB       string        `yaml:"mongo_db"`
	CORSOrigins   []string      `yaml:"cors_origins"`
	StatsSchedule string        `yaml:"stats_schedule"`
	Admin         AdminConfig   `yaml:"admin"`
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func defaults() *Config {
	return &Config{
		Env:           "development",
		ServerPort:    8080,
		LogLevel:      "info",
		LogFormat:     "console",
		JWTExpiresIn:  24 * time.Hour,
		StoreDriver:   DriverSQLite,
		DatabasePath:  "./tasks.db",
		MongoURI:      "mongodb://localhost:27017",
		MongoDB:       "task_manager",
		CORSOrigins:   []string{"http://localhost:3000", "http://localhost:8080"},
		StatsSchedule: "@every 1m",
	}
}

// Load loads configuration from the .env file, the optional YAML file and
// environment variables.
func Load() (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	var err error

	cfg.Env = getEnv("APP_ENV", cfg.Env)
	if cfg.ServerPort, err = getEnvAsInt("PORT", cfg.ServerPort); err != nil {
		return err
	}
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	if v, ok := os.LookupEnv("JWT_EXPIRES_IN"); ok {
		if cfg.JWTExpiresIn, err = parseDuration(v); err != nil {
			return fmt.Errorf("JWT_EXPIRES_IN: %w", err)
		}
	}
	if cfg.BcryptCost, err = getEnvAsInt("BCRYPT_COST", cfg.BcryptCost); err != nil {
		return err
	}
	cfg.StoreDriver = getEnv("STORE_DRIVER", cfg.StoreDriver)
	cfg.DatabasePath = getEnv("DATABASE_PATH", cfg.DatabasePath)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.MongoURI = getEnv("MONGO_URI", cfg.MongoURI)
	cfg.MongoDB = getEnv("MONGO_DB", cfg.MongoDB)
	if v, ok := os.LookupEnv("CORS_ORIGINS"); ok {
		cfg.CORSOrigins = splitList(v)
	}
	cfg.StatsSchedule = getEnv("STATS_SCHEDULE", cfg.StatsSchedule)
	cfg.Admin.Username = getEnv("ADMIN_USERNAME", cfg.Admin.Username)
	cfg.Admin.Email = getEnv("ADMIN_EMAIL", cfg.Admin.Email)
	cfg.Admin.Password = getEnv("ADMIN_PASSWORD", cfg.Admin.Password)
	return nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.JWTExpiresIn <= 0 {
		return errors.New("JWT_EXPIRES_IN must be positive")
	}
	switch c.StoreDriver {
	case DriverSQLite:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	case DriverMongo:
		if c.MongoURI == "" || c.MongoDB == "" {
			return errors.New("MONGO_URI and MONGO_DB are required for the mongodb driver")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	return nil
}

// parseDuration accepts Go durations and a day suffix such as "7d".
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	return time.ParseDuration(s)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
