package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/stockwise/internal/clientdata"
	"github.com/aristath/stockwise/internal/clients/yahoo"
	"github.com/aristath/stockwise/internal/config"
	"github.com/aristath/stockwise/internal/domain"
	"github.com/aristath/stockwise/internal/metrics"
	"github.com/aristath/stockwise/internal/modules/csvio"
	"github.com/aristath/stockwise/internal/modules/market"
	"github.com/aristath/stockwise/internal/modules/portfolio"
	"github.com/aristath/stockwise/internal/modules/suggestions"
	"github.com/aristath/stockwise/internal/symbols"
	"github.com/aristath/stockwise/pkg/embedded"
)

// InitializeServices builds repositories, the pricing pipeline and the portfolio service
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	container.PortfolioRepo = portfolio.NewRepository(container.PortfolioDB.Conn(), log)
	container.ClientDataRepo = clientdata.NewRepository(container.CacheDB.Conn())
	container.QuoteStore = clientdata.NewQuoteStore(container.ClientDataRepo)

	aliases, err := symbols.LoadAliases(cfg.SymbolAliasesFile)
	if err != nil {
		return err
	}
	container.SymbolMapper = symbols.NewMapper(cfg.SymbolSuffix, aliases)

	container.PriceProvider, err = NewPriceProvider(cfg, container.SymbolMapper, log)
	if err != nil {
		return err
	}

	container.Metrics = metrics.New()
	container.PriceCache = market.NewCache()

	opts := []market.Option{
		market.WithTTL(cfg.PriceCacheTTL),
		market.WithConcurrency(cfg.PriceConcurrency),
		market.WithLogger(log),
		market.WithMetrics(container.Metrics),
	}
	if cfg.LastKnownGood {
		opts = append(opts, market.WithLastKnownGood(container.QuoteStore))
	}
	container.PriceFetcher = market.NewFetcher(container.PriceProvider, container.PriceCache, opts...)

	var sample portfolio.SampleSource
	if cfg.SeedSamplePortfolio {
		sample = EmbeddedSample
	}

	container.SuggestionEngine = suggestions.NewEngine(suggestions.DefaultThresholds())
	container.PortfolioService = portfolio.NewService(
		container.PortfolioRepo,
		container.PriceFetcher,
		container.SuggestionEngine,
		sample,
		log,
	)
	container.PortfolioService.SetQuoteEvictor(container.QuoteStore)

	log.Info().
		Str("provider", container.PriceProvider.Name()).
		Bool("last_known_good", cfg.LastKnownGood).
		Bool("seed_sample", cfg.SeedSamplePortfolio).
		Msg("Services initialized")

	return nil
}

// NewPriceProvider selects the live or simulated provider
func NewPriceProvider(cfg *config.Config, mapper *symbols.Mapper, log zerolog.Logger) (domain.PriceProvider, error) {
	switch cfg.PriceProvider {
	case config.ProviderSimulated:
		return market.NewSimulatedProvider(nil), nil
	case config.ProviderLive:
		return yahoo.NewClient(yahoo.Config{
			BaseURL:      cfg.YahooBaseURL,
			Timeout:      cfg.PriceFetchTimeout,
			RateLimitRPS: cfg.PriceRateLimitRPS,
			Concurrency:  cfg.PriceConcurrency,
		}, mapper, log), nil
	default:
		return nil, fmt.Errorf("unknown price provider %q", cfg.PriceProvider)
	}
}

// EmbeddedSample parses the sample portfolio compiled into the binary
func EmbeddedSample() ([]domain.Holding, error) {
	f, err := embedded.SamplePortfolio()
	if err != nil {
		return nil, fmt.Errorf("failed to open sample portfolio: %w", err)
	}
	defer f.Close()

	return csvio.ParseHoldings(f)
}
