package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerbook/internal/model"
	"github.com/cleared-dev/ledgerbook/internal/party"
)

func newPartyCommand(p *project) *cobra.Command {
	var partyType string

	cmd := &cobra.Command{
		Use:   "party",
		Short: "Party statements",
	}
	cmd.PersistentFlags().StringVar(&partyType, "type", "", "role the party acts in: customer, supplier, agent, broker or transporter (default: the account's type)")

	show := &cobra.Command{
		Use:   "show <party>",
		Short: "Show a party's signed statement",
		Args:  cobra.ExactArgs(1),
		RunE: p.run(func(cmd *cobra.Command, args []string, s *session) error {
			role, err := resolveRole(s, args[0], partyType)
			if err != nil {
				return err
			}
			return writeStatement(cmd.OutOrStdout(), s.books.PartyLedger(args[0], role), args[0], role, s.cfg.Business.Currency)
		}),
	}

	del := &cobra.Command{
		Use:   "delete <party> <kind> <record>",
		Short: "Delete one transaction from a party statement and show the result",
		Args:  cobra.ExactArgs(3),
		RunE: p.run(func(cmd *cobra.Command, args []string, s *session) error {
			role, err := resolveRole(s, args[0], partyType)
			if err != nil {
				return err
			}
			kind, err := parseSourceType(args[1])
			if err != nil {
				return err
			}
			rows, err := s.books.DeletePartyTransaction(args[0], role, kind, args[2])
			if err != nil {
				return err
			}
			return writeStatement(cmd.OutOrStdout(), rows, args[0], role, s.cfg.Business.Currency)
		}),
	}

	cmd.AddCommand(show, del)
	return cmd
}

// resolveRole returns the explicit --type, or the registered account's type.
func resolveRole(s *session, partyID, flag string) (model.AccountType, error) {
	if flag != "" {
		return parsePartyType(flag)
	}
	acct, ok := s.books.Accounts().Get(partyID)
	if !ok || !acct.Type.IsParty() {
		return "", fmt.Errorf("%s is not a registered party; pass --type", partyID)
	}
	return acct.Type, nil
}

func writeStatement(w io.Writer, rows []party.Row, partyID string, role model.AccountType, currency string) error {
	fmt.Fprintf(w, "%s as %s\n", partyID, role)
	tw := newTable(w)
	fmt.Fprintln(tw, "DATE\tKIND\tID\tREF\tAMOUNT\tBALANCE")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			formatDay(r.Date), r.SourceType, r.SourceID, r.Reference,
			formatMoney(r.Amount, currency), formatBalance(r.Balance, r.BalanceType, currency))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	bal, bt := party.Closing(rows, role)
	fmt.Fprintf(w, "Closing %s\n", formatBalance(bal, bt, currency))
	return nil
}
