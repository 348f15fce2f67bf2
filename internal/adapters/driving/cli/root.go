// Package cli provides the lifeops command line interface.
//
// Commands talk to the core only through the driving ports held in the
// package level service variables. PersistentPreRunE wires them from the
// config file unless they were already set, which is how tests inject
// in-memory services.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lifeops/internal/adapters/driven/metrics/prometheus"
	"github.com/custodia-labs/lifeops/internal/adapters/driven/storage/jsonfile"
	"github.com/custodia-labs/lifeops/internal/core/ports/driving"
	"github.com/custodia-labs/lifeops/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Global flags.
var (
	configDir   string
	verbose     bool
	logLevel    string
	logFile     string
	backendName string
	jsonOutput  bool
)

// Services used by the commands.
var (
	itemService     driving.ItemService
	bulkService     driving.BulkService
	programService  driving.ProgramService
	routineService  driving.RoutineService
	syncService     driving.SyncService
	settingsService driving.SettingsService

	// metricsRecorder backs /metrics for mcp serve.
	metricsRecorder *prometheus.Recorder

	// slotFile is set when the file backend is active; watch needs it.
	slotFile *jsonfile.Store
	slotKey  string
)

// cleanups run after the command finishes, newest first.
var cleanups []func()

// annotationNoEngine marks commands that only need settings.
const annotationNoEngine = "lifeops/no-engine"

var rootCmd = &cobra.Command{
	Use:   "lifeops",
	Short: "Batch item engine for todos, goals, events and routines",
	Long: `lifeops keeps a personal collection of todos, goals, events, notes and
routines, and applies batch mutations to it atomically.

Bulk commands select items with natural phrases ("overdue todos",
"delete 3 completed tasks") and either commit as a whole or roll back.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		teardown()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.lifeops)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write JSON logs to this file")
	rootCmd.PersistentFlags().StringVar(&backendName, "backend", "",
		"storage backend override: memory, file, sqlite, postgres, s3")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output results as JSON")
}

// Execute runs the root command. This is called by main.main().
// Interrupts cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	teardown()
	if err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	closeLog, err := logger.Init(logLevel, logFile)
	if err != nil {
		return err
	}
	cleanups = append(cleanups, closeLog)

	if settingsService == nil {
		if err := wireSettings(); err != nil {
			return err
		}
	}
	if cmd.Annotations[annotationNoEngine] != "" || itemService != nil {
		return nil
	}
	return wireServices(cmd.Context())
}

func teardown() {
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
	cleanups = nil
}

func requireService(svc any, name string) error {
	if svc == nil {
		return fmt.Errorf("%s service not configured", name)
	}
	return nil
}
