package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/timelog/internal/config"
	"github.com/Tiliavir/timelog/internal/ledger"
	"github.com/Tiliavir/timelog/internal/logging"
	"github.com/Tiliavir/timelog/internal/storage"
)

var (
	flagFile    string
	flagVerbose bool
)

// now is the clock used by every command.
var now = time.Now

// app holds what PersistentPreRunE wires up for the selected command.
var app struct {
	cfg    config.Config
	log    *slog.Logger
	ledger *ledger.Ledger
}

var rootCmd = &cobra.Command{
	Use:   "timelog",
	Short: "timelog – track time spent on projects",
	Long: `timelog is a single-binary, file-based command-line time tracker.
Projects and entries are stored in one human-readable YAML file,
.timelog.yaml in the working directory unless configured otherwise.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode returns 2 for storage failures and 1 for everything else.
func exitCode(err error) int {
	if errors.Is(err, storage.ErrIO) || errors.Is(err, storage.ErrDecode) {
		return 2
	}
	return 1
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagFile, "file", "", "Path of the timelog file (default from config, "+config.DefaultFile+")")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Write debug logs to stderr")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(projectCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	stderr := cmd.ErrOrStderr()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Warning: %v\n", err)
	}
	if flagFile != "" {
		cfg.File = flagFile
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "Warning: %v\n", err)
	}
	if flagVerbose {
		level = slog.LevelDebug
	}
	log := logging.New(stderr, level).With("file", cfg.File)

	app.cfg = cfg
	app.log = log
	app.ledger = ledger.New(storage.New(cfg.File), ledger.WithLogger(log))
	return nil
}
