// Package cmd contains the nashrctl commands.
package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"nashr/internal/observability/logging"
)

var version = "dev"

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	version = v
}

// NewRootCmd builds the nashrctl command tree. Configuration comes from the
// same environment variables as the API server.
func NewRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "nashrctl",
		Short: "Nashr command line",
		Long: `nashrctl generates posts and inspects a Nashr deployment from the shell.

It reads the same environment as the API server (COMPLETION_PROVIDER,
OPENAI_API_KEY, USAGE_STORE, ...).

Example usage:
  nashrctl generate "Hiring our first engineer" --platform linkedin
  nashrctl prompt "Hiring our first engineer" --mode series --lang en
  nashrctl usage show 203.0.113.7
  nashrctl usage purge`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := "warn"
			if verbose {
				level = "debug"
			}
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), "text", level))
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	root.AddCommand(
		newGenerateCmd(),
		newPromptCmd(),
		newUsageCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
