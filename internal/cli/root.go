// Package cli is the recall command surface. Exit codes: 0 success or
// validation pass, 1 validation failure or runtime misconfiguration,
// 2 missing credential or argument.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jaredtewodros/recallBridge/internal/domain"
)

const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

var errUsage = errors.New("usage error")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "recall",
		Short:         "Outbound SMS recall campaigns from CSV patient lists",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd())
	root.AddCommand(newValidateCmd())
	return root
}

// Execute runs the CLI and maps errors onto the exit-code contract.
func Execute() int {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		return exitCode(err)
	}
	return ExitOK
}

func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, errUsage) || errors.Is(err, domain.ErrConfiguration) {
		return ExitUsage
	}
	return ExitFailure
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return fmt.Errorf("%w: expected %d positional argument(s), got %d", errUsage, n, len(args))
		}
		return nil
	}
}
