package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgconfig "github.com/avelasko/todoapp/pkg/config"
)

func TestLoadDefaults(t *testing.T) {
	var cfg Config
	require.NoError(t, pkgconfig.Load(&cfg))

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, "localhost", cfg.Postgres.Host)
}

func TestValidate_GeneratesSecretInDevelopment(t *testing.T) {
	cfg := Config{Environment: "development", HTTPPort: 8080}
	require.NoError(t, cfg.Validate())
	assert.GreaterOrEqual(t, len(cfg.JWTSecret), 32)

	other := Config{Environment: "development", HTTPPort: 8080}
	require.NoError(t, other.Validate())
	assert.NotEqual(t, cfg.JWTSecret, other.JWTSecret)
}

func TestValidate_RequiresSecretInProduction(t *testing.T) {
	cfg := Config{Environment: "production", HTTPPort: 8080}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestValidate_RejectsShortSecret(t *testing.T) {
	cfg := Config{
		Environment: "production",
		HTTPPort:    8080,
		JWTSecret:   "too-short",
	}
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsBadPort(t *testing.T) {
	cfg := Config{
		Environment: "development",
		HTTPPort:    0,
	}
	assert.Error(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("JWT_SECRET", "a-sufficiently-long-production-secret")
	t.Setenv("DB_HOST", "pg.internal")
	t.Setenv("KAFKA_ENABLED", "true")

	var cfg Config
	require.NoError(t, pkgconfig.Load(&cfg))
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, "pg.internal", cfg.Postgres.Host)
	assert.True(t, cfg.KafkaEnabled)
}
