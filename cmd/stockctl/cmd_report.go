package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aristath/stockwise/internal/domain"
	"github.com/aristath/stockwise/internal/modules/csvio"
	"github.com/aristath/stockwise/internal/modules/portfolio"
	"github.com/aristath/stockwise/internal/modules/report"
)

func newReportCmd(c *cli) *cobra.Command {
	var (
		csvPath    string
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the portfolio text report",
		Long: `Print the plain-text report of the stored portfolio, or of a CSV file
given with --csv. A CSV report never touches the stored holdings.`,
		Example: `  stockctl report
  stockctl report --csv holdings.csv --output report.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := a.fetchContext()
			defer cancel()

			var analysis portfolio.Analysis
			if csvPath != "" {
				holdings, err := readHoldings(csvPath)
				if err != nil {
					return err
				}
				analysis = a.container.PortfolioService.AnalyzeHoldings(ctx, holdings)
			} else {
				analysis = a.container.PortfolioService.Analyze(ctx)
			}

			for _, w := range analysis.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
			}

			rep := report.Generate(analysis.Result, analysis.Suggestions, time.Now())
			if outputPath == "" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), rep.Body)
				return err
			}

			if err := os.WriteFile(outputPath, []byte(rep.Body), 0644); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report %s written to %s\n", rep.ID, outputPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "Report on holdings from this CSV instead of the store")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the report to a file")

	return cmd
}

func readHoldings(path string) ([]domain.Holding, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return csvio.ParseHoldings(f)
}
