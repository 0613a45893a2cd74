// Package di provides dependency injection wiring and initialization.
//
// The Container holds every long-lived application dependency and is the
// single source of truth handed to the HTTP server and the CLI.
package di

import (
	"github.com/rs/zerolog"

	"github.com/aristath/stockwise/internal/clientdata"
	"github.com/aristath/stockwise/internal/database"
	"github.com/aristath/stockwise/internal/domain"
	"github.com/aristath/stockwise/internal/metrics"
	"github.com/aristath/stockwise/internal/modules/market"
	"github.com/aristath/stockwise/internal/modules/portfolio"
	"github.com/aristath/stockwise/internal/modules/suggestions"
	"github.com/aristath/stockwise/internal/scheduler"
	"github.com/aristath/stockwise/internal/symbols"
)

// Container holds all application dependencies
type Container struct {
	// Databases
	PortfolioDB *database.DB // holdings
	CacheDB     *database.DB // last-known-good quotes

	// Repositories
	PortfolioRepo  *portfolio.Repository
	ClientDataRepo *clientdata.Repository
	QuoteStore     *clientdata.QuoteStore

	// Pricing
	Metrics       *metrics.Metrics
	SymbolMapper  *symbols.Mapper
	PriceProvider domain.PriceProvider
	PriceCache    *market.Cache
	PriceFetcher  *market.Fetcher

	// Services
	SuggestionEngine *suggestions.Engine
	PortfolioService *portfolio.Service

	Scheduler *scheduler.Scheduler
}

// JobInstances holds references to registered jobs for manual triggering
type JobInstances struct {
	ClientDataCleanup scheduler.Job
	CheckWAL          scheduler.Job
	CheckDatabases    scheduler.Job
	ReportExport      *scheduler.ReportExportJob // nil when no schedule is configured
}

// Close releases the databases. Safe on a partially built container.
func (c *Container) Close(log zerolog.Logger) {
	for name, db := range map[string]*database.DB{
		database.NamePortfolio: c.PortfolioDB,
		database.NameCache:     c.CacheDB,
	} {
		if db == nil {
			continue
		}
		if err := db.Close(); err != nil {
			log.Error().Err(err).Str("database", name).Msg("Failed to close database")
		}
	}
}
