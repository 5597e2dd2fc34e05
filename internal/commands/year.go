package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

func newYearCommand(p *project) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "year",
		Short: "Manage financial years",
	}
	cmd.AddCommand(newYearAddCommand(p), newYearListCommand(p))
	return cmd
}

func newYearAddCommand(p *project) *cobra.Command {
	var id, start, end string
	var inactive bool

	cmd := &cobra.Command{
		Use:   "add [date]",
		Short: "Add a financial year and make it active",
		Long: "Add a financial year. With --start and --end the bounds are explicit; otherwise the\n" +
			"year containing date (default today) is derived from fiscal.year_start.",
		Args: cobra.MaximumNArgs(1),
		RunE: p.run(func(cmd *cobra.Command, args []string, s *session) error {
			var fy model.FinancialYear
			if start != "" || end != "" {
				if _, err := parseDay(start); err != nil {
					return fmt.Errorf("--start: %w", err)
				}
				if _, err := parseDay(end); err != nil {
					return fmt.Errorf("--end: %w", err)
				}
				fy = model.FinancialYear{ID: id, StartDate: start, EndDate: end}
				if fy.ID == "" {
					fy.ID = "FY" + start[:4]
				}
			} else {
				day := s.books.Today()
				if len(args) > 0 {
					d, err := parseDay(args[0])
					if err != nil {
						return err
					}
					day = d
				}
				derived, err := s.cfg.YearContaining(day)
				if err != nil {
					return err
				}
				fy = derived
				if id != "" {
					fy.ID = id
				}
			}
			fy.IsActive = !inactive

			if err := s.books.AddYear(fy); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added financial year %s (%s to %s)\n", fy.ID, fy.StartDate, fy.EndDate)
			return nil
		}),
	}

	cmd.Flags().StringVar(&id, "id", "", "year ID (default FY<start year>)")
	cmd.Flags().StringVar(&start, "start", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "last day, YYYY-MM-DD")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "keep the current active year")
	return cmd
}

func newYearListCommand(p *project) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List financial years",
		Args:  cobra.NoArgs,
		RunE: p.run(func(cmd *cobra.Command, _ []string, s *session) error {
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tSTART\tEND\tACTIVE")
			for _, y := range s.books.Years().Years() {
				active := ""
				if y.IsActive {
					active = "*"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", y.ID, y.StartDate, y.EndDate, active)
			}
			return tw.Flush()
		}),
	}
}
