package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STOCKWISE_DATA_DIR", filepath.Join(dir, "data"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(cfg.DataDir))
	assert.DirExists(t, cfg.DataDir)
	assert.Equal(t, 8001, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ProviderLive, cfg.PriceProvider)
	assert.Equal(t, 4*time.Second, cfg.PriceCacheTTL)
	assert.Equal(t, 4*time.Second, cfg.PriceFetchTimeout)
	assert.Equal(t, 4, cfg.PriceConcurrency)
	assert.Equal(t, 5.0, cfg.PriceRateLimitRPS)
	assert.Equal(t, ".NS", cfg.SymbolSuffix)
	assert.False(t, cfg.LastKnownGood)
	assert.True(t, cfg.SeedSamplePortfolio)
	assert.Empty(t, cfg.ReportSchedule)
	assert.Equal(t, filepath.Join(cfg.DataDir, "portfolio.db"), cfg.Path("portfolio.db"))
}

func TestLoad_Overrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STOCKWISE_DATA_DIR", dir)
	t.Setenv("GO_PORT", "9090")
	t.Setenv("PRICE_PROVIDER", "Simulated")
	t.Setenv("PRICE_CACHE_TTL", "10")
	t.Setenv("PRICE_FETCH_TIMEOUT", "1500ms")
	t.Setenv("PRICE_LAST_KNOWN_GOOD", "true")
	t.Setenv("SEED_SAMPLE_PORTFOLIO", "false")
	t.Setenv("REPORT_SCHEDULE", "0 18 * * 1-5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, ProviderSimulated, cfg.PriceProvider)
	assert.Equal(t, 10*time.Second, cfg.PriceCacheTTL)
	assert.Equal(t, 1500*time.Millisecond, cfg.PriceFetchTimeout)
	assert.True(t, cfg.LastKnownGood)
	assert.False(t, cfg.SeedSamplePortfolio)
	assert.Equal(t, "0 18 * * 1-5", cfg.ReportSchedule)
}

func TestLoad_Invalid(t *testing.T) {
	testCases := []struct {
		key   string
		value string
	}{
		{"PRICE_PROVIDER", "bloomberg"},
		{"PRICE_CACHE_TTL", "soon"},
		{"PRICE_CACHE_TTL", "0s"},
		{"PRICE_FETCH_TIMEOUT", "-3s"},
		{"PRICE_FETCH_CONCURRENCY", "0"},
		{"PRICE_RATE_LIMIT_RPS", "-1"},
	}
	for _, tc := range testCases {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			dir := t.TempDir()
			t.Setenv("STOCKWISE_DATA_DIR", dir)
			t.Setenv(tc.key, tc.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
