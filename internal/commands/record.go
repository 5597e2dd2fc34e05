package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

// recordFlags are the flags shared by every record-entry command.
type recordFlags struct {
	id, date, narration string
}

func (f *recordFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.id, "id", "", "record ID (generated when empty)")
	fs.StringVar(&f.date, "date", "", "transaction date, YYYY-MM-DD (default today)")
	fs.StringVar(&f.narration, "narration", "", "free-text narration")
}

// day returns the --date value, or today in the configured time zone.
func (f *recordFlags) day(s *session) (string, error) {
	if f.date == "" {
		return model.FormatDate(s.books.Today()), nil
	}
	d, err := parseDay(f.date)
	if err != nil {
		return "", err
	}
	return model.FormatDate(d), nil
}

// amounts parses each raw flag value into its field, stopping at the first invalid one.
func amounts(pairs ...*amountFlag) error {
	for _, a := range pairs {
		d, err := parseAmount(a.name, a.raw)
		if err != nil {
			return err
		}
		*a.dst = d
	}
	return nil
}

func newRecordCommand(p *project) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a sale, purchase, payment or receipt",
	}
	cmd.AddCommand(
		newRecordSaleCommand(p),
		newRecordPurchaseCommand(p),
		newRecordMoneyCommand(p, model.SourcePayment),
		newRecordMoneyCommand(p, model.SourceReceipt),
	)
	return cmd
}

func newRecordSaleCommand(p *project) *cobra.Command {
	var rf recordFlags
	var sale model.Sale
	var qty, rate, amount string

	cmd := &cobra.Command{
		Use:   "sale",
		Short: "Record goods sold to a customer",
		Args:  cobra.NoArgs,
		RunE: p.run(func(cmd *cobra.Command, _ []string, s *session) error {
			day, err := rf.day(s)
			if err != nil {
				return err
			}
			sale.ID, sale.Date, sale.Narration = rf.id, day, rf.narration
			if err := amounts(
				&amountFlag{"quantity", qty, &sale.Quantity},
				&amountFlag{"rate", rate, &sale.Rate},
				&amountFlag{"amount", amount, &sale.Amount},
			); err != nil {
				return err
			}
			return save(cmd, s, sale)
		}),
	}

	rf.register(cmd.Flags())
	cmd.Flags().StringVar(&sale.BillNumber, "bill", "", "bill number")
	cmd.Flags().StringVar(&sale.CustomerID, "customer", "", "customer account ID (required)")
	cmd.Flags().StringVar(&sale.BrokerID, "broker", "", "broker account ID")
	cmd.Flags().StringVar(&sale.LotNumber, "lot", "", "stock lot sold from")
	cmd.Flags().StringVar(&qty, "qty", "", "quantity")
	cmd.Flags().StringVar(&rate, "rate", "", "rate per unit")
	cmd.Flags().StringVar(&amount, "amount", "", "total value (default qty × rate)")
	_ = cmd.MarkFlagRequired("customer")
	return cmd
}

func newRecordPurchaseCommand(p *project) *cobra.Command {
	var rf recordFlags
	var pur model.Purchase
	var qty, rate, amount, freight string

	cmd := &cobra.Command{
		Use:   "purchase",
		Short: "Record goods bought from a supplier",
		Args:  cobra.NoArgs,
		RunE: p.run(func(cmd *cobra.Command, _ []string, s *session) error {
			day, err := rf.day(s)
			if err != nil {
				return err
			}
			pur.ID, pur.Date, pur.Narration = rf.id, day, rf.narration
			if err := amounts(
				&amountFlag{"quantity", qty, &pur.Quantity},
				&amountFlag{"rate", rate, &pur.Rate},
				&amountFlag{"amount", amount, &pur.Amount},
				&amountFlag{"freight", freight, &pur.Freight},
			); err != nil {
				return err
			}
			return save(cmd, s, pur)
		}),
	}

	rf.register(cmd.Flags())
	cmd.Flags().StringVar(&pur.SupplierID, "supplier", "", "supplier account ID (required)")
	cmd.Flags().StringVar(&pur.AgentID, "agent", "", "agent account ID")
	cmd.Flags().StringVar(&pur.BrokerID, "broker", "", "broker account ID")
	cmd.Flags().StringVar(&pur.TransporterID, "transporter", "", "transporter account ID")
	cmd.Flags().StringVar(&pur.LotNumber, "lot", "", "stock lot received into")
	cmd.Flags().StringVar(&pur.Location, "location", "", "where the lot is stored")
	cmd.Flags().StringVar(&qty, "qty", "", "quantity")
	cmd.Flags().StringVar(&rate, "rate", "", "rate per unit")
	cmd.Flags().StringVar(&amount, "amount", "", "total value (default qty × rate)")
	cmd.Flags().StringVar(&freight, "freight", "", "freight owed to the transporter")
	_ = cmd.MarkFlagRequired("supplier")
	return cmd
}

// newRecordMoneyCommand builds `record payment` and `record receipt`, which share their flags.
func newRecordMoneyCommand(p *project, kind model.SourceType) *cobra.Command {
	var rf recordFlags
	var partyID, partyType, amount, mode, reference string

	short := "Record money paid to a party"
	if kind == model.SourceReceipt {
		short = "Record money received from a party"
	}

	cmd := &cobra.Command{
		Use:   string(kind),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: p.run(func(cmd *cobra.Command, _ []string, s *session) error {
			day, err := rf.day(s)
			if err != nil {
				return err
			}
			amt, err := parseAmount("amount", amount)
			if err != nil {
				return err
			}
			m, err := parseMode(mode)
			if err != nil {
				return err
			}
			var role model.AccountType
			if partyType != "" {
				if role, err = parsePartyType(partyType); err != nil {
					return err
				}
			}

			var src model.Source
			if kind == model.SourceReceipt {
				src = model.Receipt{ID: rf.id, Date: day, PartyID: partyID, PartyType: role, Amount: amt, Mode: m, Reference: reference, Narration: rf.narration}
			} else {
				src = model.Payment{ID: rf.id, Date: day, PartyID: partyID, PartyType: role, Amount: amt, Mode: m, Reference: reference, Narration: rf.narration}
			}
			return save(cmd, s, src)
		}),
	}

	rf.register(cmd.Flags())
	cmd.Flags().StringVar(&partyID, "party", "", "party account ID (required)")
	cmd.Flags().StringVar(&partyType, "party-type", "", "role the party acts in (default: any)")
	cmd.Flags().StringVar(&amount, "amount", "", "amount (required)")
	cmd.Flags().StringVar(&mode, "mode", "", "cash or bank (default cash)")
	cmd.Flags().StringVar(&reference, "ref", "", "cheque or transfer reference")
	_ = cmd.MarkFlagRequired("party")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newExpenseCommand(p *project) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expense",
		Short: "Manual expenses",
	}

	var rf recordFlags
	var accountID, category, amount, mode string

	add := &cobra.Command{
		Use:   "add",
		Short: "Record a manual expense (charged to the expenses account by default)",
		Args:  cobra.NoArgs,
		RunE: p.run(func(cmd *cobra.Command, _ []string, s *session) error {
			day, err := rf.day(s)
			if err != nil {
				return err
			}
			amt, err := parseAmount("amount", amount)
			if err != nil {
				return err
			}
			m, err := parseMode(mode)
			if err != nil {
				return err
			}
			e, err := s.books.AddManualExpense(model.ManualExpense{
				ID:        rf.id,
				Date:      day,
				AccountID: accountID,
				Category:  category,
				Amount:    amt,
				Mode:      m,
				Narration: rf.narration,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded expense %s (%s, %s)\n", e.ID, e.AccountID, formatMoney(e.Amount, s.cfg.Business.Currency))
			return nil
		}),
	}

	rf.register(add.Flags())
	add.Flags().StringVar(&accountID, "account", "", "account charged (default expenses)")
	add.Flags().StringVar(&category, "category", "", "expense category")
	add.Flags().StringVar(&amount, "amount", "", "amount (required)")
	add.Flags().StringVar(&mode, "mode", "", "cash or bank (default cash)")
	_ = add.MarkFlagRequired("amount")

	cmd.AddCommand(add)
	return cmd
}

func newDeleteCommand(p *project) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <kind> <record>",
		Short: "Soft-delete a sale, purchase, payment, receipt or expense",
		Args:  cobra.ExactArgs(2),
		RunE: p.run(func(cmd *cobra.Command, args []string, s *session) error {
			kind, err := parseSourceType(args[0])
			if err != nil {
				return err
			}
			found, err := s.books.DeleteTransaction(kind, args[1])
			if err != nil {
				return err
			}
			if !found {
				fmt.Fprintf(cmd.OutOrStdout(), "No %s %s; nothing deleted\n", kind, args[1])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", kind, args[1])
			return nil
		}),
	}
}

// amountFlag ties a raw flag value to the decimal field it fills.
type amountFlag struct {
	name string
	raw  string
	dst  *decimal.Decimal
}

func save(cmd *cobra.Command, s *session, src model.Source) error {
	out, err := s.books.Record(src)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s %s\n", out.Kind(), out.SourceID())
	return nil
}
