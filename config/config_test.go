package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(values map[string]string) func(string) string {
	return func(k string) string { return values[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(env(nil))
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultDBPort, cfg.DBPort)
	assert.Equal(t, DefaultSSLMode, cfg.DBSSLMode)
	assert.Equal(t, DefaultSessionTTL, cfg.SessionTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"PORT":         "9000",
		"SESSION_TTL":  "30m",
		"CORS_ORIGINS": "https://shop.example, https://admin.example ,",
		"JWT_SECRET":   "s3cret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, []string{"https://shop.example", "https://admin.example"}, cfg.CORSOrigins)
	assert.NoError(t, cfg.Validate())
}

func TestFromEnvBadDuration(t *testing.T) {
	_, err := FromEnv(env(map[string]string{"SESSION_TTL": "forever"}))
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"DB_HOST":     "db",
		"DB_USER":     "shop",
		"DB_PASSWORD": "pw",
		"DB_NAME":     "shopdb",
	}))
	require.NoError(t, err)

	assert.Equal(t, "host=db user=shop password=pw dbname=shopdb port=5432 sslmode=disable", cfg.DSN())
	assert.NoError(t, cfg.ValidateDatabase())

	cfg.DatabaseURL = "postgres://u:p@h/db"
	assert.Equal(t, "postgres://u:p@h/db", cfg.DSN())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"missing secret", func(c *Config) { c.JWTSecret = "" }, true},
		{"zero ttl", func(c *Config) { c.SessionTTL = 0 }, true},
		{"zero sweep", func(c *Config) { c.SweepEvery = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := FromEnv(env(map[string]string{"JWT_SECRET": "x"}))
			require.NoError(t, err)
			tt.mutate(cfg)
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}

	cfg, err := FromEnv(env(nil))
	require.NoError(t, err)
	assert.ErrorContains(t, cfg.ValidateDatabase(), "DB_HOST")
}
