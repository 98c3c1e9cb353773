package cli

import (
	"github.com/spf13/cobra"

	"github.com/VandeeFeng/GitNano/internal/output"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the repository status",
	Long:  `Prints the current branch, HEAD, and a count of files changed since the last commit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, cfg, err := openRepo()
		if err != nil {
			return err
		}
		defer r.Close()
		configureOutput(cfg)

		s, err := r.BuildStatus()
		if err != nil {
			return err
		}
		output.PrintStatus(s)
		return nil
	},
}
