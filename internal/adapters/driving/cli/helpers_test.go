package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lifeops/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/lifeops/internal/core/domain"
	"github.com/custodia-labs/lifeops/internal/core/services"
	"github.com/custodia-labs/lifeops/internal/routine"
)

// setupTestServices wires real services over in-memory storage.
// The returned func restores the package state.
func setupTestServices() func() {
	resetFlags(rootCmd)

	settings := domain.DefaultSettings()
	engine := services.NewEngine(services.NewItemStore(memory.NewSlotStore(), ""), settings)
	rules, err := routine.DefaultRules()
	if err != nil {
		panic(err)
	}

	bulk := services.NewBulkService(engine)
	itemService = services.NewItemService(engine)
	bulkService = bulk
	programService = services.NewProgramService(engine)
	routineService = services.NewRoutineService(engine, routine.NewParser(rules), nil, settings.Routine.DefaultDays)
	syncService = services.NewSyncService(engine, bulk, nil, nil)
	settingsService = services.NewSettingsService(memory.NewConfigStore())

	return resetServices
}

func resetServices() {
	itemService = nil
	bulkService = nil
	programService = nil
	routineService = nil
	syncService = nil
	settingsService = nil
	metricsRecorder = nil
	slotFile = nil
	slotKey = ""

	resetFlags(rootCmd)
	rootCmd.SetArgs(nil)
	rootCmd.SetOut(nil)
	rootCmd.SetErr(nil)
	rootCmd.SetIn(nil)
}

// resetFlags restores every flag to its default; cobra keeps parsed values
// between Execute calls.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// run executes the root command with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
