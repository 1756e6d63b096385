package cmd

import "github.com/spf13/cobra"

// exactArgs wraps cobra.ExactArgs(n) so a wrong argument count surfaces
// as a *UsageError instead of a bare cobra error, letting ExitCode map
// it to exit code 2 (§6) instead of falling through to the generic
// exit code 1.
func exactArgs(n int) cobra.PositionalArgs {
	validate := cobra.ExactArgs(n)
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &UsageError{Message: err.Error()}
		}
		return nil
	}
}

// flagUsageError wraps a pflag parse failure (unknown flag, malformed
// value) as a *UsageError, for the same reason: ExitCode needs to tell
// it apart from an engine-level error.
func flagUsageError(cmd *cobra.Command, err error) error {
	return &UsageError{Message: err.Error()}
}
