// Package cli implements the seqdist command-line interface.
//
// This package provides commands for measuring Kendall tau distances between
// sequences given on the command line, in JSON pair files or in TOML batch
// files, for rendering the correspondence between two sequences, and for
// serving the HTTP API. The CLI is built using cobra and supports verbose
// logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - distance: Measure one pair of sequences
//   - batch: Measure every pair of a TOML job file concurrently
//   - perm: Kendall tau distance between permutations, optionally weighted
//   - visualize: Render the correspondence of a pair as SVG, PNG or DOT
//   - serve: Run the HTTP API
//   - cache, config: Inspect and manage local state
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
//
// # Example
//
//	import "github.com/matzehuels/seqdist/internal/cli"
//
//	func main() {
//	    os.Exit(cli.ExitCode(cli.Execute(context.Background(), os.Args[1:])))
//	}
package cli

import (
	"context"
	"errors"
	"os"

	apperrors "github.com/matzehuels/seqdist/pkg/errors"
)

// Exit statuses returned by [ExitCode].
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitInvalidData = 2
	ExitInterrupted = 130
)

// Execute runs the seqdist CLI with args and returns an error if the
// command fails. Logs go to stderr.
func Execute(ctx context.Context, args []string) error {
	root := New(os.Stderr, LogInfo).RootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// ExitCode maps an error returned by [Execute] to a process exit status.
// Rejected input exits with 2 so scripts can tell it from other failures.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case apperrors.IsValidation(err):
		return ExitInvalidData
	default:
		return ExitFailure
	}
}
