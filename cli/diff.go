package cli

import (
	"github.com/spf13/cobra"

	"github.com/VandeeFeng/GitNano/internal/output"
)

var diffCmd = &cobra.Command{
	Use:   "diff [ref1] [ref2]",
	Short: "Show differences between snapshots",
	Long: `With no arguments, compares the working directory against HEAD.
With one argument, compares ref1 against HEAD.
With two arguments, compares ref1 against ref2.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, cfg, err := openRepo()
		if err != nil {
			return err
		}
		defer r.Close()
		configureOutput(cfg)

		var ref1, ref2 string
		switch len(args) {
		case 1:
			ref1 = args[0]
		case 2:
			ref1, ref2 = args[0], args[1]
		}

		result, err := r.DiffRefs(ref1, ref2)
		if err != nil {
			return err
		}
		output.PrintDiff(result)
		return nil
	},
}
