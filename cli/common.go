package cli

import (
	"fmt"
	"os"

	"github.com/VandeeFeng/GitNano/internal/config"
	"github.com/VandeeFeng/GitNano/internal/output"
	"github.com/VandeeFeng/GitNano/internal/repo"
)

// openRepo discovers the nearest repository from the process's current
// directory and opens it, loading its merged configuration alongside.
func openRepo() (*repo.Repo, *config.Config, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, nil, fmt.Errorf("getting working directory: %w", err)
	}
	loc, err := repo.DiscoverLocator(workDir)
	if err != nil {
		return nil, nil, err
	}
	r, err := repo.Open(loc)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(loc.GitnanoDir)
	if err != nil {
		r.Close()
		return nil, nil, err
	}
	return r, cfg, nil
}

// configureOutput applies the configured color preference against the
// current terminal's capabilities.
func configureOutput(cfg *config.Config) {
	output.Configure(cfg.Color.UI && output.ShouldColorize(os.Stdout))
}
