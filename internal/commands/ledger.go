package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerbook/internal/ledger"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

func newLedgerCommand(p *project) *cobra.Command {
	var asCSV, check bool

	cmd := &cobra.Command{
		Use:   "ledger <account>",
		Short: "Show an account's ledger with running balances",
		Args:  cobra.ExactArgs(1),
		RunE: p.run(func(cmd *cobra.Command, args []string, s *session) error {
			acct, ok := s.books.Accounts().Get(args[0])
			if !ok {
				return fmt.Errorf("unknown account %q", args[0])
			}
			entries := s.books.AccountLedger(acct.ID)

			out := cmd.OutOrStdout()
			if check {
				errs := ledger.Validate(entries)
				for _, e := range errs {
					fmt.Fprintln(out, e.Error())
				}
				if len(errs) > 0 {
					return fmt.Errorf("%d ledger problems in %s", len(errs), acct.ID)
				}
				fmt.Fprintf(out, "%s: %d entries, no problems\n", acct.ID, len(entries))
				return nil
			}
			if asCSV {
				return ledger.WriteEntries(out, entries)
			}

			fmt.Fprintf(out, "%s (%s)\n", acct.Name, acct.Type)
			if err := writeEntries(out, entries, s.cfg.Business.Currency); err != nil {
				return err
			}
			dr, cr := ledger.Totals(entries)
			bal, bt := ledger.Closing(entries, acct.Type.NaturalBalance())
			fmt.Fprintf(out, "Total debit %s, total credit %s, closing %s\n",
				formatMoney(dr, s.cfg.Business.Currency),
				formatMoney(cr, s.cfg.Business.Currency),
				formatBalance(bal, bt, s.cfg.Business.Currency))
			return nil
		}),
	}

	cmd.Flags().BoolVar(&asCSV, "csv", false, "write CSV instead of a table")
	cmd.Flags().BoolVar(&check, "check", false, "check the ledger's invariants instead of printing it")
	return cmd
}

func writeEntries(w io.Writer, entries []model.LedgerEntry, currency string) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "DATE\tREF\tNARRATION\tDEBIT\tCREDIT\tBALANCE")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			formatDay(e.Date), e.Reference, e.Narration,
			column(e.Debit, currency), column(e.Credit, currency),
			formatBalance(e.Balance, e.BalanceType, currency))
	}
	return tw.Flush()
}
