package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cleared-dev/ledgerbook/internal/activity"
	"github.com/cleared-dev/ledgerbook/internal/importer"
)

func newImportCommand(p *project) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Import CSV files from the import/ directory",
		Long: "Import every CSV in import/. Files are matched to a record kind by name\n" +
			"(sales*.csv, purchases*.csv, payments*.csv, receipts*.csv, expenses*.csv) and moved to\n" +
			"import/processed/ once all their rows are stored.",
		Args: cobra.NoArgs,
		RunE: p.run(func(cmd *cobra.Command, _ []string, s *session) error {
			results, err := importer.Run(s.root, importer.DefaultRegistry(), s.books.Record, s.books.Records().Live(), s.log.Named("importer"))

			out := cmd.OutOrStdout()
			for _, r := range results {
				if r.Skipped {
					fmt.Fprintf(out, "%s: skipped (no parser for this file name)\n", r.File)
					continue
				}
				fmt.Fprintf(out, "%s: %d %s records", r.File, len(r.Records), r.Kind)
				if r.Duplicates > 0 {
					fmt.Fprintf(out, ", %d already recorded", r.Duplicates)
				}
				fmt.Fprintln(out)
				if logErr := s.activity.Record(activity.Entry{
					Action:  activity.ActionImport,
					Kind:    string(r.Kind),
					Details: fmt.Sprintf("%s, %d records", r.File, len(r.Records)),
				}); logErr != nil {
					s.log.Warn("writing activity log", zap.String("action", activity.ActionImport), zap.Error(logErr))
				}
			}
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Fprintln(out, "Nothing to import")
			}
			return nil
		}),
	}
}
