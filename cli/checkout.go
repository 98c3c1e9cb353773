package cli

import (
	"github.com/spf13/cobra"

	"github.com/VandeeFeng/GitNano/internal/output"
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout <ref> [path]",
	Short: "Restore the working directory to a previous snapshot",
	Long: `With one argument, restores the full tree named by ref and deletes files not present in it.
With two arguments, restores only the named path and performs no cleanup.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, cfg, err := openRepo()
		if err != nil {
			return err
		}
		defer r.Close()
		configureOutput(cfg)

		if len(args) == 2 {
			return r.RestorePath(args[0], args[1])
		}

		result, err := r.Restore(args[0])
		if err != nil {
			return err
		}
		output.PrintRestoreResult(result)
		return nil
	},
}
