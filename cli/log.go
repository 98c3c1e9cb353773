package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VandeeFeng/GitNano/internal/output"
)

var (
	logOneline bool
	logLimit   int
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show commit history",
	Long:  `Walks the first-parent chain starting at HEAD, newest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, cfg, err := openRepo()
		if err != nil {
			return err
		}
		defer r.Close()
		configureOutput(cfg)

		entries, err := r.Log("", logLimit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No commits yet")
			return nil
		}

		for _, e := range entries {
			if logOneline {
				output.PrintCommitOneline(e)
			} else {
				output.PrintCommit(e)
			}
		}
		return nil
	},
}

func init() {
	logCmd.Flags().BoolVar(&logOneline, "oneline", false, "show one line per commit")
	logCmd.Flags().IntVar(&logLimit, "limit", 0, "limit the number of commits shown")
}
