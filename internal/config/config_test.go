package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvList(t *testing.T) {
	def := []string{"CF-Connecting-IP"}

	t.Setenv("IP_ADDRESS_HEADERS", "")
	assert.Equal(t, def, envList("IP_ADDRESS_HEADERS", def))

	t.Setenv("IP_ADDRESS_HEADERS", " X-Real-IP , ,X-Forwarded-For ")
	assert.Equal(t, []string{"X-Real-IP", "X-Forwarded-For"}, envList("IP_ADDRESS_HEADERS", def))
}

func TestEnvDurationFallsBackOnGarbage(t *testing.T) {
	t.Setenv("SESSION_EXPIRY", "a week")
	assert.Equal(t, 168*time.Hour, envDuration("SESSION_EXPIRY", 168*time.Hour))

	t.Setenv("SESSION_EXPIRY", "2h")
	assert.Equal(t, 2*time.Hour, envDuration("SESSION_EXPIRY", 168*time.Hour))
}

func TestEnvBool(t *testing.T) {
	t.Setenv("SIGNUP_DISABLED", "true")
	assert.True(t, envBool("SIGNUP_DISABLED", false))

	t.Setenv("SIGNUP_DISABLED", "nope")
	assert.False(t, envBool("SIGNUP_DISABLED", false))
}

func TestSanitizedDropsSecrets(t *testing.T) {
	cfg := &Config{
		AppName:     "Picture Gallery",
		AppEnv:      "production",
		AuthSecret:  "super-secret",
		S3SecretKey: "s3-secret",
		S3AccessKey: "s3-access",
	}

	safe := cfg.Sanitized()

	assert.Equal(t, "Picture Gallery", safe.AppName)
	assert.True(t, safe.IsProduction())
	assert.Empty(t, safe.AuthSecret)
	assert.Empty(t, safe.S3SecretKey)
	assert.Empty(t, safe.S3AccessKey)
}

func TestLoadDatabase(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_CONNECTION", "")
	driver, connection := LoadDatabase()
	assert.Equal(t, "sqlite", driver)
	assert.Contains(t, connection, "_time_format=sqlite")

	t.Setenv("DB_DRIVER", "pgx")
	t.Setenv("DB_CONNECTION", "postgres://gallery@localhost/gallery")
	driver, connection = LoadDatabase()
	assert.Equal(t, "pgx", driver)
	assert.Equal(t, "postgres://gallery@localhost/gallery", connection)
}
