package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerbook/internal/accounts"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

func newAccountsCommand(p *project) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage the account registry",
	}
	cmd.AddCommand(
		newAccountsListCommand(p),
		newAccountsAddCommand(p),
		newAccountsOpeningCommand(p),
		newAccountsImportCommand(p),
		newAccountsExportCommand(p),
	)
	return cmd
}

func newAccountsListCommand(p *project) *cobra.Command {
	var accountType string
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: p.run(func(cmd *cobra.Command, _ []string, s *session) error {
			f := accounts.Filter{Type: model.AccountType(accountType), IncludeSystem: true, IncludeDeleted: all}
			if f.Type != "" && !f.Type.Valid() {
				return fmt.Errorf("unknown account type %q", accountType)
			}

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tNAME\tTYPE\tOPENING")
			for _, a := range s.books.Accounts().List(f) {
				name := a.Name
				if a.IsDeleted {
					name += " (deleted)"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.ID, name, a.Type,
					formatBalance(a.OpeningBalance, a.OpeningBalanceType, s.cfg.Business.Currency))
			}
			return tw.Flush()
		}),
	}

	cmd.Flags().StringVar(&accountType, "type", "", "only accounts of this type")
	cmd.Flags().BoolVar(&all, "all", false, "include deleted accounts")
	return cmd
}

func newAccountsAddCommand(p *project) *cobra.Command {
	var id, name, accountType, opening, side string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add or replace an account",
		Args:  cobra.NoArgs,
		RunE: p.run(func(cmd *cobra.Command, _ []string, s *session) error {
			amount, err := parseAmount("opening balance", opening)
			if err != nil {
				return err
			}
			bt, err := parseBalanceType(side)
			if err != nil {
				return err
			}

			acct, err := s.books.UpsertAccount(model.Account{
				ID:                 id,
				Name:               name,
				Type:               model.AccountType(accountType),
				OpeningBalance:     amount,
				OpeningBalanceType: bt,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved account %s (%s, %s)\n", acct.ID, acct.Name, acct.Type)
			return nil
		}),
	}

	cmd.Flags().StringVar(&id, "id", "", "account ID (generated when empty)")
	cmd.Flags().StringVar(&name, "name", "", "account name (required)")
	cmd.Flags().StringVar(&accountType, "type", "", "customer, supplier, agent, broker, transporter, cash or system (required)")
	cmd.Flags().StringVar(&opening, "opening", "", "opening balance")
	cmd.Flags().StringVar(&side, "side", "", "opening balance side, debit or credit (default: natural side)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func newAccountsOpeningCommand(p *project) *cobra.Command {
	var side string

	cmd := &cobra.Command{
		Use:   "opening <account> <amount>",
		Short: "Set an account's own opening balance",
		Args:  cobra.ExactArgs(2),
		RunE: p.run(func(cmd *cobra.Command, args []string, s *session) error {
			acct, ok := s.books.Accounts().Get(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", accounts.ErrNotFound, args[0])
			}
			amount, err := parseAmount("amount", args[1])
			if err != nil {
				return err
			}
			bt, err := parseBalanceType(side)
			if err != nil {
				return err
			}
			if bt == "" {
				bt = acct.Type.NaturalBalance()
			}
			if amount.IsNegative() {
				amount, bt = amount.Neg(), bt.Opposite()
			}

			if err := s.books.SetAccountOpening(acct.ID, amount, bt); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Opening balance of %s set to %s\n", acct.ID,
				formatBalance(amount, bt, s.cfg.Business.Currency))
			return nil
		}),
	}

	cmd.Flags().StringVar(&side, "side", "", "debit or credit (default: natural side)")
	return cmd
}

func newAccountsImportCommand(p *project) *cobra.Command {
	return &cobra.Command{
		Use:   "import <accounts.csv>",
		Short: "Add or replace accounts from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: p.run(func(cmd *cobra.Command, args []string, s *session) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening accounts file: %w", err)
			}
			defer f.Close()

			accts, err := accounts.ReadAccounts(f)
			if err != nil {
				return err
			}
			for _, a := range accts {
				if _, err := s.books.UpsertAccount(a); err != nil {
					return fmt.Errorf("account %s: %w", a.ID, err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d accounts\n", len(accts))
			return nil
		}),
	}
}

func newAccountsExportCommand(p *project) *cobra.Command {
	return &cobra.Command{
		Use:   "export [accounts.csv]",
		Short: "Write every account as CSV, to a file or stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE: p.run(func(cmd *cobra.Command, args []string, s *session) error {
			all := s.books.Accounts().All()
			if len(args) == 0 {
				return accounts.WriteAccounts(cmd.OutOrStdout(), all)
			}

			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("creating accounts file: %w", err)
			}
			if err := accounts.WriteAccounts(f, all); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		}),
	}
}
