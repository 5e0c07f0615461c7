package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/penwise/internal/exam"
)

var examsCmd = &cobra.Command{
	Use:   "exams",
	Short: "List the exams and writing tasks available for practice",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for i, e := range exam.DefaultCatalog().Exams() {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "%s (%s)\n", e.Label, e.Key)
			if e.Info != "" {
				fmt.Fprintf(out, "  %s\n", e.Info)
			}
			fmt.Fprintln(out, strings.Repeat("─", 72))

			for _, t := range e.Tasks {
				status := ""
				if t.Disabled {
					status = "  (coming soon)"
				}
				fmt.Fprintf(out, "  %-20s  %-26s  %-12s  %s%s\n",
					t.Key, truncate(t.Name, 26), t.Time, t.Words, status)
			}
		}
		return nil
	},
}
