package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPort       = "8080"
	DefaultDBPort     = "5432"
	DefaultSSLMode    = "disable"
	DefaultSessionTTL = 24 * time.Hour
	DefaultSweepEvery = 10 * time.Minute
)

type Config struct {
	Port string

	// DatabaseURL wins over the individual DB_* settings when set.
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string

	JWTSecret   string
	SessionTTL  time.Duration
	SweepEvery  time.Duration
	CORSOrigins []string
	GinMode     string
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function, applying defaults.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Port:        valueOr(getenv("PORT"), DefaultPort),
		DatabaseURL: getenv("DATABASE_URL"),
		DBHost:      getenv("DB_HOST"),
		DBPort:      valueOr(getenv("DB_PORT"), DefaultDBPort),
		DBUser:      getenv("DB_USER"),
		DBPassword:  getenv("DB_PASSWORD"),
		DBName:      getenv("DB_NAME"),
		DBSSLMode:   valueOr(getenv("DB_SSLMODE"), DefaultSSLMode),
		JWTSecret:   getenv("JWT_SECRET"),
		SessionTTL:  DefaultSessionTTL,
		SweepEvery:  DefaultSweepEvery,
		CORSOrigins: []string{"*"},
		GinMode:     getenv("GIN_MODE"),
	}

	if v := getenv("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_TTL %q: %w", v, err)
		}
		cfg.SessionTTL = d
	}
	if v := getenv("SESSION_SWEEP_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_SWEEP_INTERVAL %q: %w", v, err)
		}
		cfg.SweepEvery = d
	}
	if v := getenv("CORS_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.CORSOrigins = origins
	}
	return cfg, nil
}

// DSN returns the connection string for the PostgreSQL driver.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)
}

// ValidateDatabase checks the settings needed to reach the database.
func (c *Config) ValidateDatabase() error {
	if c.DatabaseURL != "" {
		return nil
	}
	var missing []string
	if c.DBHost == "" {
		missing = append(missing, "DB_HOST")
	}
	if c.DBUser == "" {
		missing = append(missing, "DB_USER")
	}
	if c.DBName == "" {
		missing = append(missing, "DB_NAME")
	}
	if len(missing) > 0 {
		return fmt.Errorf("database settings missing: %s (or set DATABASE_URL)", strings.Join(missing, ", "))
	}
	return nil
}

// Validate checks everything the HTTP server needs.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.SweepEvery <= 0 {
		return errors.New("SESSION_SWEEP_INTERVAL must be positive")
	}
	return nil
}

func valueOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
