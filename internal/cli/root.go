// Package cli implements the cobra-based CLI for portwho.
//
// portwho is a single-command tool: the root command runs the report
// directly and there are no subcommands. This file defines the root
// command, flag registration, logging setup, and the error handling in
// Execute; report.go holds the pipeline orchestration.
package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/portwho/internal/model"
)

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
// This is the entry point for the entire CLI application.
func NewRootCommand() *cobra.Command {
	flags := &reportFlags{}

	rootCmd := &cobra.Command{
		// Use is the one-line usage pattern shown in help output.
		Use:   "portwho",
		Short: "Report which process or container owns each listening TCP port",
		Long: `portwho lists every listening TCP port on this host and names its owner.

System processes are reported as-is. Ports published by Docker show the
owning container name instead of the docker-proxy helper process, along
with the container-side port when it differs from the host port.

Socket owners are only visible to root, so portwho re-runs netstat under
sudo when started as a regular user.`,

		// SilenceUsage prevents cobra from printing usage on every error.
		// A refused sudo prompt is a runtime failure, not a usage mistake.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// Execute formats them itself.
		SilenceErrors: true,

		// Version is displayed when --version flag is used.
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		// The report covers the whole host; there is nothing to select.
		Args: cobra.NoArgs,

		// Logging is configured before RunE so debug lines from the
		// pipeline respect --verbose.
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogging(flags.verbose)
		},

		// RunE is used instead of Run so errors flow to the Execute
		// error handler below.
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd.Context(), flags, cmd.OutOrStdout())
		},
	}

	rootCmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "Show diagnostics for degraded container lookups")
	rootCmd.Flags().BoolVar(&flags.dockerAPI, "docker-api", false, "Query the Docker Engine API instead of the docker CLI")

	return rootCmd
}

// configureLogging routes all diagnostics to stderr so stdout carries
// the report alone. Warnings and above are always shown; --verbose
// opens the debug stream that records every skipped or degraded lookup.
func configureLogging(verbose bool) {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
//
// Every failure exits with code 1. CLIError values carry a message and
// an underlying cause that are printed separately.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		// The pipeline returns *model.CLIError directly, so a type
		// assertion is enough here.
		if cliErr, ok := err.(*model.CLIError); ok {
			printError(cliErr.Message, cliErr.Err)
			os.Exit(int(model.ExitFailure))
		}

		// Generic error — exit with code 1.
		printError(err.Error(), nil)
		os.Exit(int(model.ExitFailure))
	}
}

// printError outputs an error message to stderr in the form
// "Error: <message>" with the underlying cause appended when present.
// stdout stays reserved for the report.
func printError(message string, underlying error) {
	if underlying != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, underlying)
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", message)
}
