// Command stockctl is the command-line client for the StockWise portfolio tracker.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aristath/stockwise/internal/config"
	"github.com/aristath/stockwise/internal/di"
	"github.com/aristath/stockwise/pkg/logger"
)

// cli carries the persistent flags shared by every subcommand
type cli struct {
	provider string
	dataDir  string
	verbose  bool
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "stockctl",
		Short: "StockWise portfolio tracker CLI",
		Long: `stockctl prices, reports on and imports the StockWise portfolio.

It reads the same environment (.env supported) and data directory as the
server, so both share holdings and the last-known-good quote cache.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&c.provider, "provider", "", "Price provider: live or simulated (default from PRICE_PROVIDER)")
	root.PersistentFlags().StringVar(&c.dataDir, "data-dir", "", "Data directory (default from STOCKWISE_DATA_DIR)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Log at info level to stderr")

	root.AddCommand(
		newQuoteCmd(c),
		newReportCmd(c),
		newImportCmd(c),
	)

	return root
}

// app is an opened container plus the settings it was built from
type app struct {
	cfg       *config.Config
	container *di.Container
	log       zerolog.Logger
}

func (a *app) Close() {
	a.container.Close(a.log)
}

// fetchContext bounds one pricing pass
func (a *app) fetchContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 2*a.cfg.PriceFetchTimeout+time.Second)
}

func (c *cli) open(errOut io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if c.provider != "" {
		cfg.PriceProvider = c.provider
	}
	if c.dataDir != "" {
		dir, err := config.ResolveDataDir(c.dataDir)
		if err != nil {
			return nil, err
		}
		cfg.DataDir = dir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level := "warn"
	if c.verbose {
		level = "info"
	}
	log := logger.New(logger.Config{
		Level:  level,
		Pretty: true,
		Output: errOut,
	})

	container, _, err := di.Wire(cfg, log)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, container: container, log: log}, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
