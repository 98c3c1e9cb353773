package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Record a path into the optional index",
	Long:  `Appends path to the repository's informational index file. The index is never read back when building a snapshot.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, _, err := openRepo()
		if err != nil {
			return err
		}
		defer r.Close()

		if err := r.Add(args[0]); err != nil {
			return err
		}
		fmt.Printf("added %s\n", args[0])
		return nil
	},
}
