package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerbook/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	p := &project{}

	rootCmd := &cobra.Command{
		Use:     "ledgerbook",
		Short:   "Ledger books for a trading business",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&p.dir, "dir", "C", ".", "project directory")

	rootCmd.AddCommand(
		newInitCommand(p),
		newAccountsCommand(p),
		newYearCommand(p),
		newOpeningCommand(p),
		newLedgerCommand(p),
		newPartyCommand(p),
		newCashbookCommand(p),
		newTodayCommand(p),
		newExpenseCommand(p),
		newRecordCommand(p),
		newDeleteCommand(p),
		newImportCommand(p),
		newTotalsCommand(p),
		newLogCommand(p),
	)

	return rootCmd
}
