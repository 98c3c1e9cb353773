package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/VandeeFeng/GitNano/internal/repo"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new gitnano repository",
	Long:  `Creates a .gitnano directory in the current working directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		workDir, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}

		loc := repo.Locator{WorkDir: workDir, GitnanoDir: filepath.Join(workDir, repo.MetaDirName)}
		r, err := repo.Init(loc)
		if err != nil {
			return err
		}
		defer r.Close()

		fmt.Println("Initialized empty gitnano repository")
		return nil
	},
}
