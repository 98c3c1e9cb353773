// Package config reads and writes the JSON identity/core/color settings
// used by commit creation and terminal output. Grounded directly on the
// teacher's internal/config.Config (user/core/color sections, global +
// repo-local files merged repo-over-global), adapted from package-level
// functions hardcoded to ".ivaldi" into a Config value parameterized by
// repository directory, so a process can hold more than one repository
// open without touching global state.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the parsed union of global and repository-local settings.
type Config struct {
	User  UserConfig  `json:"user"`
	Core  CoreConfig  `json:"core"`
	Color ColorConfig `json:"color"`
}

// UserConfig holds commit identity (§1's "name <email>" assumption).
type UserConfig struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CoreConfig holds miscellaneous process-wide settings.
type CoreConfig struct {
	Editor string `json:"editor,omitempty"`
	Pager  string `json:"pager,omitempty"`
}

// ColorConfig toggles colored terminal output per surface.
type ColorConfig struct {
	UI     bool `json:"ui"`
	Status bool `json:"status"`
	Diff   bool `json:"diff"`
}

// UserName satisfies identity.Config.
func (c *Config) UserName() string { return c.User.Name }

// UserEmail satisfies identity.Config.
func (c *Config) UserEmail() string { return c.User.Email }

// Default returns a Config with sensible defaults, picking up $EDITOR
// and $PAGER the way a freshly initialized repository would.
func Default() *Config {
	return &Config{
		Core: CoreConfig{
			Editor: os.Getenv("EDITOR"),
			Pager:  os.Getenv("PAGER"),
		},
		Color: ColorConfig{
			UI:     true,
			Status: true,
			Diff:   true,
		},
	}
}

// globalPath returns the path to the user-wide config file.
func globalPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".gitnanoconfig"), nil
}

// repoPath returns the path to the repository-local config file, given
// the repository's metadata directory (e.g. ".gitnano").
func repoPath(gitnanoDir string) string {
	return filepath.Join(gitnanoDir, "config")
}

// Load reads the global config, then layers the repository-local config
// over it (repo values win). String fields neither file sets keep their
// defaults; the color booleans are taken from the last file read, so a
// file that omits them turns them off (see merge). gitnanoDir may be
// empty to load only the global config.
func Load(gitnanoDir string) (*Config, error) {
	cfg := Default()

	if gp, err := globalPath(); err == nil {
		if data, err := os.ReadFile(gp); err == nil {
			var global Config
			if err := json.Unmarshal(data, &global); err == nil {
				merge(cfg, &global)
			}
		}
	}

	if gitnanoDir != "" {
		if data, err := os.ReadFile(repoPath(gitnanoDir)); err == nil {
			var repo Config
			if err := json.Unmarshal(data, &repo); err == nil {
				merge(cfg, &repo)
			}
		}
	}

	return cfg, nil
}

// SaveGlobal writes cfg to the user-wide config file.
func SaveGlobal(cfg *Config) error {
	gp, err := globalPath()
	if err != nil {
		return err
	}
	return writeJSON(gp, cfg)
}

// SaveRepo writes cfg to gitnanoDir's local config file.
func SaveRepo(gitnanoDir string, cfg *Config) error {
	if err := os.MkdirAll(gitnanoDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", gitnanoDir, err)
	}
	return writeJSON(repoPath(gitnanoDir), cfg)
}

func writeJSON(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Get retrieves a "section.field" value as a display string.
func Get(cfg *Config, key string) (string, error) {
	section, field, err := splitKey(key)
	if err != nil {
		return "", err
	}
	switch section {
	case "user":
		switch field {
		case "name":
			return cfg.User.Name, nil
		case "email":
			return cfg.User.Email, nil
		}
	case "core":
		switch field {
		case "editor":
			return cfg.Core.Editor, nil
		case "pager":
			return cfg.Core.Pager, nil
		}
	case "color":
		switch field {
		case "ui":
			return fmt.Sprintf("%t", cfg.Color.UI), nil
		case "status":
			return fmt.Sprintf("%t", cfg.Color.Status), nil
		case "diff":
			return fmt.Sprintf("%t", cfg.Color.Diff), nil
		}
	}
	return "", fmt.Errorf("unknown config key: %s", key)
}

// Set assigns a "section.field" value on cfg in place.
func Set(cfg *Config, key, value string) error {
	section, field, err := splitKey(key)
	if err != nil {
		return err
	}
	switch section {
	case "user":
		switch field {
		case "name":
			cfg.User.Name = value
			return nil
		case "email":
			cfg.User.Email = value
			return nil
		}
	case "core":
		switch field {
		case "editor":
			cfg.Core.Editor = value
			return nil
		case "pager":
			cfg.Core.Pager = value
			return nil
		}
	case "color":
		switch field {
		case "ui":
			cfg.Color.UI = value == "true"
			return nil
		case "status":
			cfg.Color.Status = value == "true"
			return nil
		case "diff":
			cfg.Color.Diff = value == "true"
			return nil
		}
	}
	return fmt.Errorf("unknown config key: %s", key)
}

func splitKey(key string) (section, field string, err error) {
	i := -1
	for idx, r := range key {
		if r == '.' {
			i = idx
			break
		}
	}
	if i < 0 || i == len(key)-1 {
		return "", "", fmt.Errorf("invalid config key %q (expected section.field)", key)
	}
	return key[:i], key[i+1:], nil
}

// merge overlays non-zero fields of src onto dst; booleans always win
// from src since a freshly-unmarshaled Config's zero value for "not set"
// is indistinguishable from an intentional false.
func merge(dst, src *Config) {
	if src.User.Name != "" {
		dst.User.Name = src.User.Name
	}
	if src.User.Email != "" {
		dst.User.Email = src.User.Email
	}
	if src.Core.Editor != "" {
		dst.Core.Editor = src.Core.Editor
	}
	if src.Core.Pager != "" {
		dst.Core.Pager = src.Core.Pager
	}
	dst.Color.UI = src.Color.UI
	dst.Color.Status = src.Color.Status
	dst.Color.Diff = src.Color.Diff
}
