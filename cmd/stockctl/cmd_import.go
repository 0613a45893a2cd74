package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newImportCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the stored holdings with a CSV file",
		Long: `Replace every stored holding with the rows of a CSV file.
Required column: symbol. Optional: quantity, buy_price, buy_date, sector.
The store is left untouched when the file fails to parse.`,
		Example: `  stockctl import holdings.csv`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			holdings, err := readHoldings(args[0])
			if err != nil {
				return err
			}
			if len(holdings) == 0 {
				return errors.New("file contains no holdings")
			}

			a, err := c.open(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.container.PortfolioService.Import(holdings); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d holdings\n", len(holdings))
			return nil
		},
	}
}
