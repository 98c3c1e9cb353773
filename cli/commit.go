package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VandeeFeng/GitNano/internal/gnerrors"
	"github.com/VandeeFeng/GitNano/internal/output"
	"github.com/VandeeFeng/GitNano/internal/repo"
)

var commitSpinner bool

var commitCmd = &cobra.Command{
	Use:   "commit <message>",
	Short: "Create a snapshot of the working directory",
	Long:  `Builds a tree from the working directory and records a commit against it. message is required.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		message := args[0]
		if message == "" {
			return gnerrors.New(gnerrors.InvalidArgument, "empty commit message")
		}

		r, cfg, err := openRepo()
		if err != nil {
			return err
		}
		defer r.Close()
		configureOutput(cfg)

		spinner := output.NewSnapshotSpinner(commitSpinner)
		h, err := r.Snapshot(repo.SnapshotParams{Message: message, Cfg: cfg})
		if err != nil {
			output.StopSpinner(spinner, false, "snapshot failed")
			return err
		}
		output.StopSpinner(spinner, true, "snapshot complete")

		fmt.Printf("[%s] %s\n", h.String()[:8], message)
		return nil
	},
}

func init() {
	commitCmd.Flags().BoolVar(&commitSpinner, "progress", false, "show a progress spinner while snapshotting")
}
