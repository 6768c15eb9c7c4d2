package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"mediator/internal/app"
	"mediator/internal/config"
	"mediator/internal/statuserr"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, no match, invalid arguments).
	ExitCodeError = 1
	// ExitCodeInvalidPath indicates a path that could not be parsed or resolved.
	ExitCodeInvalidPath = 2
	// ExitCodeIO indicates the status document could not be loaded, parsed or persisted.
	ExitCodeIO = 3
)

var (
	// rootConfigPath is the configuration directory or file.
	rootConfigPath string
	// rootStatusFile overrides the status document location and forces the fs driver.
	rootStatusFile string
	// rootDebug enables debug logging.
	rootDebug bool
)

// rootCmd represents the base command for the mediator application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "mediator",
	Short: "Serve and edit the status document of a managed network element",
	Long: `mediator owns the XML status document of a managed network element.

It keeps the document fresh from its backing store, reads and writes
fragments of it by structural path, and builds the canonical paths of
nodes in a schema-typed value tree.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage: true,
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
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "mediator version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}

	var noMatch *NoMatchError
	if errors.As(err, &noMatch) {
		return ExitCodeError
	}

	if statuserr.IsQuery(err) || statuserr.IsResolution(err) {
		return ExitCodeInvalidPath
	}

	if statuserr.IsIO(err) {
		return ExitCodeIO
	}

	return ExitCodeError
}

// newApplication bootstraps the application from the persistent flags.
func newApplication(cmd *cobra.Command) (*app.Application, error) {
	cfg := app.NewConfig(rootDebug, rootConfigPath, rootStatusFile)
	cfg.LogOutput = cmd.ErrOrStderr()

	application, err := app.NewApplication(commandContext(cmd), cfg)
	if err != nil {
		if report, ok := config.Report(err); ok {
			fmt.Fprint(cmd.ErrOrStderr(), report)
		}
		return nil, fmt.Errorf("failed to initialize application: %w", err)
	}
	return application, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func init() {
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config", "", "Configuration directory or file (default is $HOME/.config/mediator/mediator.yaml)")
	rootCmd.PersistentFlags().StringVar(&rootStatusFile, "status-file", "", "Status document to use instead of the configured backend")
	rootCmd.PersistentFlags().BoolVar(&rootDebug, "debug", false, "Enable debug logging")
}
