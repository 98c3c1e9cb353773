// Package cli is the cobra command tree the driver dispatches through
// (§6's "CLI surface", specified only as the set of operations it
// invokes). Grounded on the teacher's cli package: one file per
// command, a package-level rootCmd built in init, RunE returning an
// error cobra prints. Exit-code mapping (§7) lives in Execute.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/VandeeFeng/GitNano/internal/gnerrors"
	"github.com/VandeeFeng/GitNano/internal/output"
)

// Version is the gitnano binary's reported version string.
const Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "gitnano",
	Short: "gitnano is a minimal content-addressed version-control engine",
	Long:  `gitnano tracks snapshots of a directory in a deduplicating, content-addressed object store.`,
	// Execute prints the single diagnostic line itself.
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if version {
			fmt.Printf("gitnano version %s\n", Version)
			return nil
		}
		return cmd.Help()
	},
}

var version bool

func init() {
	rootCmd.Flags().BoolVar(&version, "version", false, "print the gitnano version")
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(commitCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(checkoutCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(configCmd)
}

// Execute runs the command tree and maps a returned error's kind to the
// exit codes §6 specifies: 0 success, 1 user error, non-zero on I/O or
// integrity failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		kind := gnerrors.KindOf(err)
		operand := ""
		if ge, ok := asGNError(err); ok {
			operand = ge.Operand
		}
		if kind != "" {
			output.ErrorLine(string(kind), operand)
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(exitCodeFor(kind))
	}
}

func asGNError(err error) (*gnerrors.Error, bool) {
	type unwrapper interface{ Unwrap() error }
	for e := err; e != nil; {
		if ge, ok := e.(*gnerrors.Error); ok {
			return ge, true
		}
		u, ok := e.(unwrapper)
		if !ok {
			break
		}
		e = u.Unwrap()
	}
	return nil, false
}

func exitCodeFor(kind gnerrors.Kind) int {
	switch kind {
	case gnerrors.NotARepository, gnerrors.NotFound, gnerrors.Ambiguous,
		gnerrors.InvalidArgument, gnerrors.NoParent, gnerrors.OutOfHistory,
		gnerrors.TypeMismatch:
		return 1
	case gnerrors.CorruptObject, gnerrors.IntegrityError, gnerrors.IOError:
		return 2
	default:
		return 1
	}
}
