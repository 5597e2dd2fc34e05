package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

func newOpeningCommand(p *project) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "opening",
		Short: "Show or replace a financial year's opening balances",
	}
	cmd.AddCommand(newOpeningShowCommand(p), newOpeningSaveCommand(p))
	return cmd
}

func newOpeningShowCommand(p *project) *cobra.Command {
	return &cobra.Command{
		Use:   "show [year]",
		Short: "Print opening balances as YAML (default: active year)",
		Args:  cobra.MaximumNArgs(1),
		RunE: p.run(func(cmd *cobra.Command, args []string, s *session) error {
			yearID, err := yearArg(s, args)
			if err != nil {
				return err
			}
			ob, ok := s.books.OpeningBalances(yearID)
			if !ok {
				ob = model.OpeningBalance{YearID: yearID}
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(ob); err != nil {
				return fmt.Errorf("encoding opening balances: %w", err)
			}
			return enc.Close()
		}),
	}
}

func newOpeningSaveCommand(p *project) *cobra.Command {
	return &cobra.Command{
		Use:   "save <opening.yaml>",
		Short: "Replace a year's opening balances from a YAML file",
		Long: "Replace a year's opening balances. The file has the layout printed by `opening show`;\n" +
			"year_id defaults to the active year.",
		Args: cobra.ExactArgs(1),
		RunE: p.run(func(cmd *cobra.Command, args []string, s *session) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading opening balances: %w", err)
			}
			var ob model.OpeningBalance
			if err := yaml.Unmarshal(data, &ob); err != nil {
				return fmt.Errorf("parsing opening balances: %w", err)
			}
			if ob.YearID == "" {
				if ob.YearID, err = yearArg(s, nil); err != nil {
					return err
				}
			}

			if !s.books.SaveOpeningBalances(ob) {
				return fmt.Errorf("opening balances for %s were not saved; the previous snapshot is unchanged", ob.YearID)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved opening balances for %s: cash %s, %d lots, %d parties\n",
				ob.YearID, formatMoney(ob.Cash, s.cfg.Business.Currency), len(ob.Stock), len(ob.Parties))
			return nil
		}),
	}
}

// yearArg returns args[0], or the active year's ID when no year was given.
func yearArg(s *session, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	fy, ok := s.books.Years().ActiveYear()
	if !ok {
		return "", errors.New("no active financial year (run `ledgerbook year add`)")
	}
	return fy.ID, nil
}
