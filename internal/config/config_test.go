package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", c.Env)
	assert.Equal(t, "postgres", c.Store)
	assert.Equal(t, 168*time.Hour, c.TokenTTL)
	assert.Equal(t, 10, c.MaxSessions)
	assert.Equal(t, 8, c.BcryptCost)
	assert.Equal(t, int64(1000000), c.AvatarMaxBytes)
	assert.Equal(t, []string{"*"}, c.CORSAllowedOrigins)
	assert.True(t, c.Migrate)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_STORE", "sqlite")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("MAX_SESSIONS", "3")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("APP_MIGRATE", "false")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", c.Store)
	assert.Equal(t, 30*time.Minute, c.TokenTTL)
	assert.Equal(t, 3, c.MaxSessions)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, c.CORSAllowedOrigins)
	assert.False(t, c.Migrate)
}

func TestLoad_PortFallback(t *testing.T) {
	t.Setenv("PORT", "3000")
	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "3000", c.HTTPPort)

	t.Setenv("HTTP_PORT", "9090")
	c, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", c.HTTPPort)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown store", "APP_STORE", "mongo"},
		{"zero ttl", "TOKEN_TTL", "0s"},
		{"no sessions", "MAX_SESSIONS", "0"},
		{"bcrypt too low", "BCRYPT_COST", "2"},
		{"bad duration", "TOKEN_TTL", "soon"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestValidate_ProdNeedsSecret(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	t.Setenv("JWT_SECRET", "a-real-secret")
	_, err = Load()
	assert.NoError(t, err)
}
