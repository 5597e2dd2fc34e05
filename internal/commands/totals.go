package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTotalsCommand(p *project) *cobra.Command {
	var stock bool

	cmd := &cobra.Command{
		Use:   "totals",
		Short: "Show sales, purchase and inventory value for the active year",
		Args:  cobra.NoArgs,
		RunE: p.run(func(cmd *cobra.Command, _ []string, s *session) error {
			cur := s.cfg.Business.Currency
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "sales      %s\npurchases  %s\ninventory  %s\n",
				formatMoney(s.books.TotalSalesValue(), cur),
				formatMoney(s.books.TotalPurchaseValue(), cur),
				formatMoney(s.books.TotalInventoryValue(), cur))
			if !stock {
				return nil
			}

			fmt.Fprintln(out)
			tw := newTable(out)
			fmt.Fprintln(tw, "LOT\tLOCATION\tIN\tSOLD\tREMAINING\tRATE\tVALUE")
			for _, l := range s.books.Stock() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					l.LotNumber, l.Location, l.Inbound, l.Sold, l.Remaining,
					formatMoney(l.Rate, cur), formatMoney(l.Value, cur))
			}
			return tw.Flush()
		}),
	}

	cmd.Flags().BoolVar(&stock, "stock", false, "also list each stock lot")
	return cmd
}
