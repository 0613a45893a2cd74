package di

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/stockwise/internal/clients/yahoo"
	"github.com/aristath/stockwise/internal/config"
	"github.com/aristath/stockwise/internal/domain"
	"github.com/aristath/stockwise/internal/modules/market"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DataDir:             t.TempDir(),
		Port:                8001,
		PriceProvider:       config.ProviderSimulated,
		PriceCacheTTL:       4 * time.Second,
		PriceFetchTimeout:   4 * time.Second,
		PriceConcurrency:    4,
		SymbolSuffix:        ".NS",
		SeedSamplePortfolio: true,
	}
}

func wire(t *testing.T, cfg *config.Config) (*Container, *JobInstances) {
	t.Helper()
	container, jobs, err := Wire(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { container.Close(zerolog.Nop()) })
	return container, jobs
}

func TestWire(t *testing.T) {
	cfg := testConfig(t)
	container, jobs := wire(t, cfg)

	assert.NotNil(t, container.PortfolioDB)
	assert.NotNil(t, container.CacheDB)
	assert.NotNil(t, container.PortfolioService)
	assert.NotNil(t, container.PriceFetcher)
	assert.NotNil(t, container.Metrics)
	assert.Equal(t, "simulated", container.PriceFetcher.Provider())

	assert.FileExists(t, filepath.Join(cfg.DataDir, "portfolio.db"))
	assert.FileExists(t, filepath.Join(cfg.DataDir, "cache.db"))

	assert.NotNil(t, jobs.ClientDataCleanup)
	assert.NotNil(t, jobs.CheckWAL)
	assert.NotNil(t, jobs.CheckDatabases)
	assert.Nil(t, jobs.ReportExport)
	assert.Equal(t, 3, container.Scheduler.Jobs())

	assert.NoError(t, jobs.ClientDataCleanup.Run())
	assert.NoError(t, jobs.CheckWAL.Run())
	assert.NoError(t, jobs.CheckDatabases.Run())
}

func TestWire_SeedsSamplePortfolio(t *testing.T) {
	container, _ := wire(t, testConfig(t))

	a := container.PortfolioService.Analyze(context.Background())
	require.Len(t, a.Snapshot.Holdings, 8)
	assert.Empty(t, a.Warnings)
	for _, h := range a.Snapshot.Holdings {
		assert.Positive(t, h.CurrentPrice, h.Symbol)
	}
	assert.Equal(t, 8, container.PriceCache.Len())
}

func TestWire_RemoveHoldingDropsRetainedQuote(t *testing.T) {
	container, _ := wire(t, testConfig(t))

	holdings, _ := container.PortfolioService.Holdings()
	require.NotEmpty(t, holdings)
	symbol := holdings[0].Symbol

	require.NoError(t, container.QuoteStore.Remember(domain.Quote{Symbol: symbol, Price: 100, CapturedAt: time.Now()}))
	require.NoError(t, container.PortfolioService.RemoveHolding(symbol))

	_, ok, err := container.QuoteStore.Recall(symbol)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWire_NoSeed(t *testing.T) {
	cfg := testConfig(t)
	cfg.SeedSamplePortfolio = false
	container, _ := wire(t, cfg)

	holdings, _ := container.PortfolioService.Holdings()
	assert.Empty(t, holdings)
}

func TestWire_ReportJob(t *testing.T) {
	cfg := testConfig(t)
	cfg.ReportSchedule = "0 18 * * 1-5"
	container, jobs := wire(t, cfg)

	require.NotNil(t, jobs.ReportExport)
	assert.Equal(t, 4, container.Scheduler.Jobs())

	path, err := jobs.ReportExport.Export()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.DataDir, "reports"), filepath.Dir(path))
}

func TestWire_InvalidReportSchedule(t *testing.T) {
	cfg := testConfig(t)
	cfg.ReportSchedule = "whenever"

	_, _, err := Wire(cfg, zerolog.Nop())
	assert.ErrorContains(t, err, "REPORT_SCHEDULE")
}

func TestWire_AliasFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.SymbolAliasesFile = filepath.Join(cfg.DataDir, "aliases.yaml")
	require.NoError(t, os.WriteFile(cfg.SymbolAliasesFile, []byte("aliases:\n  GOOGL: GOOGL\n"), 0644))

	container, _ := wire(t, cfg)
	assert.Equal(t, "GOOGL", container.SymbolMapper.Map("googl"))

	cfg = testConfig(t)
	cfg.SymbolAliasesFile = filepath.Join(cfg.DataDir, "missing.yaml")
	_, _, err := Wire(cfg, zerolog.Nop())
	assert.Error(t, err)
}

func TestNewPriceProvider(t *testing.T) {
	cfg := testConfig(t)

	p, err := NewPriceProvider(cfg, nil, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &market.SimulatedProvider{}, p)

	cfg.PriceProvider = config.ProviderLive
	p, err = NewPriceProvider(cfg, nil, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &yahoo.Client{}, p)

	cfg.PriceProvider = "carrier-pigeon"
	_, err = NewPriceProvider(cfg, nil, zerolog.Nop())
	assert.Error(t, err)
}

func TestEmbeddedSample(t *testing.T) {
	holdings, err := EmbeddedSample()
	require.NoError(t, err)
	assert.Len(t, holdings, 8)
}
