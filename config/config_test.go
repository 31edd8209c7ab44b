package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MEDIA_BACKEND", "")
	t.Setenv("REDIS_ENABLED", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Media.Backend)
	assert.Equal(t, "./protected", cfg.Media.ProtectedRoot)
	assert.Equal(t, int64(50<<20), cfg.Media.MaxUploadBytes)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiry)
	assert.Equal(t, "@every 10m", cfg.Analytics.RefreshSchedule)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("MEDIA_BACKEND", "S3")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("DOWNLOAD_RATE_PERIOD", "30s")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "s3", cfg.Media.Backend)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost:6380", cfg.Redis.Addr())
	assert.Equal(t, 30*time.Second, cfg.Download.RatePeriod)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_InvalidMediaBackend(t *testing.T) {
	t.Setenv("MEDIA_BACKEND", "ftp")

	cfg, err := Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestParseDuration_Fallback(t *testing.T) {
	assert.Equal(t, 5*time.Second, parseDuration("not-a-duration", 5*time.Second))
	assert.Equal(t, time.Hour, parseDuration("1h", 5*time.Second))
}
