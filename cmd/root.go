package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ranfeat/internal/cli"
	"ranfeat/internal/feature"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error.
	ExitCodeError = 1
	// ExitCodeConflict indicates that validated features conflict.
	ExitCodeConflict = 2
	// ExitCodeWarnings indicates warnings reported under --strict.
	ExitCodeWarnings = 3
	// ExitCodeSnapshotMissing indicates that no feature index was found.
	ExitCodeSnapshotMissing = 4
	// ExitCodeUsage indicates invalid arguments or flags.
	ExitCodeUsage = 5
)

// rootCmd is the entry point when ranfeat is called without a subcommand.
var rootCmd = newRootCmd()

// newRootCmd assembles the command tree with fresh flag state.
func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:   "ranfeat",
		Short: "Query RAN feature dependencies and generate activation scripts",
		Long: `ranfeat answers questions about RAN software features from a local
feature index: which prerequisites a feature needs, in which order a set of
features must be activated, whether features can be active together and what
is affected when a feature changes. It builds the index from feature
documentation and generates cmedit scripts for activation.`,
		// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
		SilenceUsage:      true,
		PersistentPreRunE: opts.setup,
	}
	cli.RegisterCommonFlags(root, &opts.flags)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &cli.UsageError{Message: err.Error()}
	})

	root.AddCommand(
		newBuildCmd(opts),
		newDepsCmd(opts),
		newOrderCmd(opts),
		newValidateCmd(opts),
		newConflictsCmd(opts),
		newCyclesCmd(opts),
		newImpactCmd(opts),
		newStatsCmd(opts),
		newSearchCmd(opts),
		newCompareCmd(opts),
		newAuditCmd(opts),
		newCmeditCmd(opts),
		newShellCmd(opts),
		newVersionCmd(),
	)
	return root
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// It is called by main.main() and exits with a code describing the outcome.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "ranfeat version %s\n" .Version}}`)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	var usage *cli.UsageError
	if errors.As(err, &usage) {
		return ExitCodeUsage
	}

	var conflict *cli.ConflictError
	if errors.As(err, &conflict) {
		return ExitCodeConflict
	}

	var warnings *cli.WarningsError
	if errors.As(err, &warnings) {
		return ExitCodeWarnings
	}

	var missing *cli.SnapshotMissingError
	if errors.As(err, &missing) || feature.IsNotFoundErr(err) {
		return ExitCodeSnapshotMissing
	}

	return ExitCodeError
}
