// Package identity resolves the "name <email>" author/committer string
// commit creation needs. Out of scope per spec §1 ("a single call
// returning 'name <email>' is assumed"); this is that call, grounded on
// the teacher's get_current_user fallback chain from the C reference and
// internal/config.UserConfig.
package identity

import (
	"fmt"
	"os"
)

// Config is the subset of configuration identity cares about; satisfied
// by *config.Config without this package importing config directly, so
// the dependency only runs one way.
type Config interface {
	UserName() string
	UserEmail() string
}

// Current returns "name <email>", preferring configured values, then
// falling back to USER/LOGNAME plus the local hostname for the email.
func Current(cfg Config) string {
	name, email := "", ""
	if cfg != nil {
		name = cfg.UserName()
		email = cfg.UserEmail()
	}
	if name == "" {
		name = envUser()
	}
	if email == "" {
		email = fmt.Sprintf("%s@%s", envUser(), hostnameOrLocal())
	}
	return fmt.Sprintf("%s <%s>", name, email)
}

func envUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	if u := os.Getenv("LOGNAME"); u != "" {
		return u
	}
	return "unknown"
}

func hostnameOrLocal() string {
	if h, err := os.Hostname(); err == nil && h != "" {
		return h
	}
	return "localhost"
}
