package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHours(t *testing.T) {
	assert.Equal(t, []int{6, 8, 10}, parseHours("6, 8,10"))
	assert.Equal(t, []int{0, 23}, parseHours("0,23,24,-1,x,"))
	assert.Empty(t, parseHours(""))
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("API_BASE_URL", "https://api.zerostour.test/")
	t.Setenv("API_TOKEN", " secret ")
	t.Setenv("DASHBOARD_PAGE_SIZE", "5")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("TRIPS_START_HOURS", "7,9")

	cfg := Load()

	require.Equal(t, "https://api.zerostour.test", cfg.API.BaseURL)
	assert.Equal(t, "secret", cfg.API.Token)
	assert.Equal(t, 30, cfg.API.TimeoutSec)
	assert.Equal(t, 5, cfg.Dashboard.DefaultPageSize)
	assert.Equal(t, "fecha", cfg.Dashboard.SortBy)
	assert.True(t, cfg.Dashboard.SortDescending)
	assert.Equal(t, 30*time.Minute, cfg.Redis.SessionTTL)
	assert.Equal(t, []int{7, 9}, cfg.Trips.StartHours)
	assert.Equal(t, "admin", cfg.Roles.Current)
	assert.Contains(t, cfg.Roles.Menu["/reservas"], "cliente")
}
