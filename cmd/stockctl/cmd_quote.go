package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aristath/stockwise/internal/domain"
)

func newQuoteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "quote SYMBOL...",
		Short: "Print current prices",
		Long: `Print current prices through the caching fetcher.
Symbols that cannot be priced show n/a.`,
		Example: `  stockctl quote TCS INFY
  stockctl quote --provider simulated RELIANCE`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := a.fetchContext()
			defer cancel()

			prices := a.container.PortfolioService.Prices(ctx, args)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SYMBOL\tPRICE")

			seen := make(map[string]bool, len(args))
			for _, raw := range args {
				symbol := domain.NormalizeSymbol(raw)
				if symbol == "" || seen[symbol] {
					continue
				}
				seen[symbol] = true

				if price := prices[symbol]; price > 0 {
					fmt.Fprintf(w, "%s\t%.2f\n", symbol, price)
				} else {
					fmt.Fprintf(w, "%s\tn/a\n", symbol)
				}
			}
			return w.Flush()
		},
	}
}
