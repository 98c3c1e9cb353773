// Package output renders log, status, and diff results to the
// terminal. Grounded on two pack repos: TTY/NO_COLOR detection follows
// rybkr-gitvista's internal/termcolor (golang.org/x/term.IsTerminal,
// NO_COLOR honored), and colored section rendering follows the shape of
// the teacher's internal/colors package, reimplemented on top of pterm
// instead of hand-rolled ANSI escapes.
package output

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"golang.org/x/term"

	"github.com/VandeeFeng/GitNano/internal/diffcore"
	"github.com/VandeeFeng/GitNano/internal/repo"
)

// ShouldColorize reports whether f is a terminal and the user hasn't
// opted out via NO_COLOR (https://no-color.org/).
func ShouldColorize(f *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Configure enables or disables pterm's color output for the process,
// honoring the caller's preference (typically ColorConfig.UI combined
// with ShouldColorize).
func Configure(enabled bool) {
	if enabled {
		pterm.EnableColor()
	} else {
		pterm.DisableColor()
	}
}

// PrintCommit renders one log entry in the teacher's multi-line format.
func PrintCommit(e repo.LogEntry) {
	pterm.FgYellow.Printf("commit %s\n", e.Hash)
	pterm.Printf("Author:  %s\n", e.Commit.Author)
	pterm.Printf("Date:    %s\n", e.Commit.Timestamp)
	pterm.Println()
	for _, line := range splitLines(e.Commit.Message) {
		pterm.Printf("    %s\n", line)
	}
	pterm.Println()
}

// PrintCommitOneline renders a log entry as a single short-hash + subject
// line, the --oneline mode of `log`.
func PrintCommitOneline(e repo.LogEntry) {
	subject := e.Commit.Message
	if lines := splitLines(subject); len(lines) > 0 {
		subject = lines[0]
	}
	pterm.FgYellow.Printf("%s ", e.Hash.String()[:8])
	pterm.Printf("%s\n", subject)
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

// PrintDiff renders a diff Result as the `diff` command's file list:
// additions in green, modifications in yellow, deletions in red.
func PrintDiff(r diffcore.Result) {
	for _, p := range r.Added {
		pterm.FgGreen.Printf("added:    %s\n", p)
	}
	for _, p := range r.Modified {
		pterm.FgYellow.Printf("modified: %s\n", p)
	}
	for _, p := range r.Deleted {
		pterm.FgRed.Printf("deleted:  %s\n", p)
	}
	if len(r.Added) == 0 && len(r.Modified) == 0 && len(r.Deleted) == 0 {
		pterm.FgGreen.Println("no differences")
	}
}

// PrintStatus renders the `status` command's repository summary (§6),
// grounded on the C reference's gitnano_status_info fields.
func PrintStatus(s repo.Status) {
	if s.Detached {
		pterm.Printf("HEAD detached at %s\n", shortOrNone(s.Head))
	} else {
		pterm.Printf("On branch %s\n", pterm.Bold.Sprint(s.Branch))
	}
	if !s.HasCommit {
		pterm.FgYellow.Println("No commits yet")
	} else {
		pterm.Printf("HEAD: %s\n", shortOrNone(s.Head))
	}
	if s.ChangedFiles == 0 {
		pterm.FgGreen.Println("Working directory clean")
	} else {
		pterm.FgYellow.Printf("%d file(s) changed since last commit\n", s.ChangedFiles)
	}
}

func shortOrNone(h interface{ String() string }) string {
	s := h.String()
	if len(s) >= 8 {
		return s[:8]
	}
	return s
}

// PrintRestoreResult renders the added/modified/deleted/failed counts a
// checkout produces (§4.9 step 4, §9's "statistics accurate or
// omitted, never partial" resolution).
func PrintRestoreResult(r repo.RestoreResult) {
	pterm.Printf(
		"%s added, %s modified, %s deleted\n",
		pterm.FgGreen.Sprintf("%d", r.Stats.Added),
		pterm.FgYellow.Sprintf("%d", r.Stats.Modified),
		pterm.FgRed.Sprintf("%d", r.Stats.Deleted),
	)
	if r.Stats.Failed > 0 {
		pterm.FgRed.Printf("%d file(s) failed:\n", r.Stats.Failed)
		for _, f := range r.Errors {
			pterm.Printf("  %s: %v\n", f.Path, f.Err)
		}
	}
}

// NewSnapshotSpinner starts a spinner used while building large trees,
// stopped by the caller once the snapshot completes.
func NewSnapshotSpinner(enabled bool) *pterm.SpinnerPrinter {
	if !enabled {
		return nil
	}
	s, _ := pterm.DefaultSpinner.Start("building snapshot...")
	return s
}

// StopSpinner finalizes a spinner started by NewSnapshotSpinner,
// tolerating a nil spinner when output was non-interactive.
func StopSpinner(s *pterm.SpinnerPrinter, success bool, msg string) {
	if s == nil {
		return
	}
	if success {
		s.Success(msg)
	} else {
		s.Fail(msg)
	}
}

// ErrorLine prints the single-line error-kind + operand format §7
// requires the driver to produce.
func ErrorLine(kind, operand string) {
	if operand == "" {
		fmt.Fprintf(os.Stderr, "error: %s\n", kind)
		return
	}
	fmt.Fprintf(os.Stderr, "error: %s: %s\n", kind, operand)
}
