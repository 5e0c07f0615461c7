package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/penwise/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent practice sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		verbose, _ := cmd.Flags().GetBool("verbose")

		s, err := openAuditStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		records, err := s.EventRepo().QuerySessionEvents(cmd.Context(), store.QueryOpts{Limit: 1000})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		out := cmd.OutOrStdout()
		sessions := store.SummarizeSessions(records)
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No practice sessions recorded yet.")
			return nil
		}
		if limit > 0 && len(sessions) > limit {
			sessions = sessions[:limit]
		}

		fmt.Fprintf(out, "%-16s  %-6s  %-20s  %-8s  %-5s  %-5s  %s\n",
			"Started", "Exam", "Task", "Attempts", "Best", "Last", "Outcome")
		fmt.Fprintln(out, strings.Repeat("─", 84))

		for _, ss := range sessions {
			fmt.Fprintf(out, "%-16s  %-6s  %-20s  %-8d  %-5s  %-5s  %s\n",
				ss.StartedAt.Local().Format("2006-01-02 15:04"),
				ss.Exam,
				truncate(ss.Task, 20),
				ss.Attempts,
				formatBand(ss.BestScore, ss.Evaluations),
				formatBand(ss.LastScore, ss.Evaluations),
				ss.Outcome,
			)
			if !verbose {
				continue
			}
			for _, e := range ss.Events {
				fmt.Fprintf(out, "    %s  %-9s  %4d words  %4ds left\n",
					e.Timestamp.Local().Format("15:04:05"), e.Action, e.WordCount, e.RemainingSecs)
			}
		}
		return nil
	},
}

func formatBand(score float64, evaluations int) string {
	if evaluations == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f", score)
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of sessions to show")
	historyCmd.Flags().BoolP("verbose", "v", false, "Show every event of each session")
}
