// Package commands implements the CLI commands for envseed.
package commands

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/envseed/cmd"
	"github.com/thoreinstein/envseed/internal/config"
	"github.com/thoreinstein/envseed/internal/errors"
	"github.com/thoreinstein/envseed/internal/logging"
)

// configPath holds the value of the --config flag.
var configPath string

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// colorFlag holds the value of the --color flag.
var colorFlag string

// closeLog releases the log file opened by setupLogging.
var closeLog = func() error { return nil }

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"plan file (default: ./envseed.yaml or "+config.ConfigDir()+"/envseed.yaml)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.Version = cmd.Info().String()
	rootCmd.SetVersionTemplate("envseed version {{.Version}}\n")

	// Errors are printed by main together with their suggestion
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

var rootCmd = &cobra.Command{
	Use:   "envseed",
	Short: "Provision a workstation environment from a declarative plan",
	Long: `envseed provisions directories, files and symbolic links described in a
plan file, in ordered batches.

Tasks of one batch run concurrently; batches run one after another. Every
task is validated first: tasks that do not apply to the host platform or
whose resources already exist are skipped. A task that aborts or fails
stops the run after its batch completes.`,
	Example: `  # Show what a run would do
  envseed plan

  # Provision from a specific plan and keep a JSON report
  envseed run --config ./envseed.yaml --report run.json

  # Pick tasks interactively
  envseed run --select`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setupLogging(cmd)
	},
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		return closeLog()
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger from the logging flags and
// stores it in the command context.
func setupLogging(cmd *cobra.Command) error {
	logger, closeFn, err := logging.Setup(logging.Options{
		Verbosity: verbosity,
		Quiet:     quiet,
		Format:    logging.Format(logFormat),
		LogFile:   logFile,
		Output:    cmd.ErrOrStderr(),
		Color:     colorFlag,
	})
	if err != nil {
		return err
	}
	closeLog = closeFn

	// Setup has validated the flag
	mode, _ := logging.ParseColorMode(colorFlag)
	logging.ConfigureColor(cmd.OutOrStdout(), mode)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	return errors.NewUserError(err, "Run 'envseed --help' for usage")
}
