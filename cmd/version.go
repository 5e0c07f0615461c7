package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/penwise/internal/selfupdate"
)

// version is set via -ldflags at build time.
var version = selfupdate.DevVersion

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "penwise", version)

		if check, _ := cmd.Flags().GetBool("check"); !check {
			return nil
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		rel, err := selfupdate.New().Latest(ctx, version)
		if err != nil {
			return fmt.Errorf("check for updates: %w", err)
		}
		if rel.Newer {
			fmt.Fprintf(out, "A newer release is available: %s (%s)\nRun 'penwise update' to install it.\n", rel.Tag, rel.URL)
		} else {
			fmt.Fprintln(out, "You are running the latest release.")
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().Bool("check", false, "Also check GitHub for a newer release")
}
