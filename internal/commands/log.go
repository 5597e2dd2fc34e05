package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newLogCommand(p *project) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the activity log, newest last",
		Args:  cobra.NoArgs,
		RunE: p.run(func(cmd *cobra.Command, _ []string, s *session) error {
			entries, err := s.activity.Entries()
			if err != nil {
				return err
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[len(entries)-limit:]
			}

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "TIME\tACTOR\tACTION\tKIND\tRECORD\tDETAILS")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					e.Timestamp.Format(time.RFC3339), e.Actor, e.Action, e.Kind, e.RecordID, e.Details)
			}
			return tw.Flush()
		}),
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "show at most this many entries (0 for all)")
	return cmd
}
