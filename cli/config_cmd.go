package cli

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/VandeeFeng/GitNano/internal/config"
	"github.com/VandeeFeng/GitNano/internal/gnerrors"
	"github.com/VandeeFeng/GitNano/internal/repo"
)

var configGlobal bool
var configList bool

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get and set configuration options",
	Long: `Reads and writes gitnano configuration.

Configuration is layered from two files:
  - Global (~/.gitnanoconfig) - applies to every repository
  - Repository (.gitnano/config) - overrides the global file

Examples:
  gitnano config --list
  gitnano config user.name
  gitnano config user.name "Your Name"
  gitnano config --global user.email "you@example.com"`,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&configGlobal, "global", false, "operate on the global config file")
	configCmd.Flags().BoolVar(&configList, "list", false, "list all configuration values")
}

func repoConfigDir() string {
	workDir, err := os.Getwd()
	if err != nil {
		return ""
	}
	loc, err := repo.DiscoverLocator(workDir)
	if err != nil {
		return ""
	}
	return loc.GitnanoDir
}

func runConfig(cmd *cobra.Command, args []string) error {
	if configList {
		return listConfig()
	}
	switch len(args) {
	case 0:
		return cmd.Help()
	case 1:
		return getConfigValue(args[0])
	case 2:
		return setConfigValue(args[0], args[1], configGlobal)
	default:
		return fmt.Errorf("invalid usage; see gitnano config --help")
	}
}

func listConfig() error {
	cfg, err := config.Load(repoConfigDir())
	if err != nil {
		return err
	}

	pterm.DefaultSection.Println("User")
	printKV("user.name", cfg.User.Name)
	printKV("user.email", cfg.User.Email)

	pterm.DefaultSection.Println("Core")
	printKV("core.editor", cfg.Core.Editor)
	printKV("core.pager", cfg.Core.Pager)

	pterm.DefaultSection.Println("Color")
	fmt.Printf("  color.ui = %t\n", cfg.Color.UI)
	fmt.Printf("  color.status = %t\n", cfg.Color.Status)
	fmt.Printf("  color.diff = %t\n", cfg.Color.Diff)

	return nil
}

func printKV(key, value string) {
	if value == "" {
		fmt.Printf("  %s = %s\n", key, pterm.Gray("(not set)"))
		return
	}
	fmt.Printf("  %s = %s\n", key, value)
}

func getConfigValue(key string) error {
	cfg, err := config.Load(repoConfigDir())
	if err != nil {
		return err
	}
	value, err := config.Get(cfg, key)
	if err != nil {
		return err
	}
	if value == "" {
		fmt.Printf("%s is (not set)\n", key)
		return nil
	}
	fmt.Println(value)
	return nil
}

func setConfigValue(key, value string, global bool) error {
	gitnanoDir := repoConfigDir()
	if !global && gitnanoDir == "" {
		return gnerrors.New(gnerrors.NotARepository, "")
	}

	var cfg *config.Config
	var err error
	if global {
		cfg, err = config.Load("")
	} else {
		cfg, err = config.Load(gitnanoDir)
	}
	if err != nil {
		return err
	}

	if err := config.Set(cfg, key, value); err != nil {
		return err
	}

	if global {
		err = config.SaveGlobal(cfg)
	} else {
		err = config.SaveRepo(gitnanoDir, cfg)
	}
	if err != nil {
		return err
	}

	scope := "repository"
	if global {
		scope = "global"
	}
	fmt.Printf("set %s config: %s = %s\n", scope, key, value)
	return nil
}
