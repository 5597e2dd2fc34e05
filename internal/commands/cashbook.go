package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerbook/internal/cashbook"
)

func newCashbookCommand(p *project) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "cashbook",
		Short: "Show the cash book with opening and closing balances",
		Args:  cobra.NoArgs,
		RunE: p.run(func(cmd *cobra.Command, _ []string, s *session) error {
			var r *cashbook.Range
			if from != "" || to != "" {
				r = &cashbook.Range{}
				if from != "" {
					d, err := parseDay(from)
					if err != nil {
						return fmt.Errorf("--from: %w", err)
					}
					r.Start = d
				}
				if to != "" {
					d, err := parseDay(to)
					if err != nil {
						return fmt.Errorf("--to: %w", err)
					}
					r.End = d
				}
			}

			book := s.books.CashBook(r)
			cur := s.cfg.Business.Currency
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Opening %s\n", formatBalance(book.Opening, book.OpeningType, cur))
			if err := writeEntries(out, book.Entries, cur); err != nil {
				return err
			}
			fmt.Fprintf(out, "Closing %s\n", formatBalance(book.Closing, book.ClosingType, cur))
			return nil
		}),
	}

	cmd.Flags().StringVar(&from, "from", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last day, YYYY-MM-DD")
	return cmd
}

func newTodayCommand(p *project) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's cash in and cash out",
		Args:  cobra.NoArgs,
		RunE: p.run(func(cmd *cobra.Command, _ []string, s *session) error {
			t := s.books.TodayCashTransactions()
			cur := s.cfg.Business.Currency
			fmt.Fprintf(cmd.OutOrStdout(), "%s\ncash in   %s\ncash out  %s\nnet       %s\n",
				formatDay(s.books.Today()),
				formatMoney(t.CashIn, cur), formatMoney(t.CashOut, cur), formatMoney(t.Net(), cur))
			return nil
		}),
	}
}
