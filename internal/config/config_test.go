package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := newConfig(viper.New())

	assert.Equal(t, int32(8190), cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, "", cfg.HTTP.PublicOrigin)
	assert.Equal(t, "", cfg.API.BaseURL)
	assert.False(t, cfg.API.BaseURLSet)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, "en", cfg.UI.Locale)
	assert.Equal(t, DefaultSessionDBPath, cfg.Session.DBPath)
	assert.True(t, cfg.Session.SecureCookies)
	assert.Equal(t, 720*time.Hour, cfg.Covers.MaxAge)
	assert.Equal(t, "0 3 * * *", cfg.Covers.PruneSchedule)
	assert.True(t, cfg.Tasks.Enabled)
	assert.Equal(t, 2, cfg.Tasks.Workers)
}

func TestNewConfig_APIURLFromEnvironment(t *testing.T) {
	t.Setenv("API_URL", "https://api.example.com")
	t.Setenv("PORT", "9000")

	cfg := newConfig(viper.New())

	assert.Equal(t, "https://api.example.com", cfg.API.BaseURL)
	assert.True(t, cfg.API.BaseURLSet)
	assert.Equal(t, int32(9000), cfg.HTTP.Port)
}

func TestNewConfig_PublicOriginFromEnvironment(t *testing.T) {
	t.Setenv("PUBLIC_ORIGIN", "https://books.example.com")

	cfg := newConfig(viper.New())

	assert.Equal(t, "https://books.example.com", cfg.HTTP.PublicOrigin)
}
