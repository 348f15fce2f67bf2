package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lifeops/internal/core/services"
)

var configCmd = &cobra.Command{
	Use:         "config",
	Short:       "View and change configuration",
	Long:        `View and change values in ~/.lifeops/config.toml.`,
	Annotations: map[string]string{annotationNoEngine: "true"},
	RunE:        runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Show current settings",
	Annotations: map[string]string{annotationNoEngine: "true"},
	RunE:        runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:         "get <key>",
	Short:       "Print one config value",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{annotationNoEngine: "true"},
	RunE:        runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one config value",
	Long: `Set one config value. Lists such as items.categories take a comma
separated value.

Examples:
  lifeops config set storage.backend file
  lifeops config set items.categories personal,work,study`,
	Args:        cobra.ExactArgs(2),
	Annotations: map[string]string{annotationNoEngine: "true"},
	RunE:        runConfigSet,
}

var configKeysCmd = &cobra.Command{
	Use:         "keys",
	Short:       "List supported config keys",
	Annotations: map[string]string{annotationNoEngine: "true"},
	Run: func(cmd *cobra.Command, _ []string) {
		for _, k := range services.SettingKeys() {
			cmd.Println(k)
		}
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configGetCmd, configSetCmd, configKeysCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if jsonOutput {
		return writeJSON(cmd, settings)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Backend: %s\n", settings.Storage.Backend.Description())
	cmd.Printf("  Slot: %s\n", settings.Storage.SlotKey)
	if settings.Storage.DataDir != "" {
		cmd.Printf("  Data dir: %s\n", settings.Storage.DataDir)
	}
	if settings.Storage.PostgresDSN != "" {
		cmd.Printf("  Postgres DSN: %s\n", maskSecret(settings.Storage.PostgresDSN))
	}
	if settings.Storage.S3Bucket != "" {
		cmd.Printf("  S3 bucket: %s (%s)\n", settings.Storage.S3Bucket, settings.Storage.S3Region)
	}
	cmd.Println()

	cmd.Println("[Items]")
	cmd.Printf("  Categories: %s\n", strings.Join(settings.Items.Categories, ", "))
	cmd.Printf("  Default category: %s\n", settings.Items.DefaultCategory)
	cmd.Printf("  Commit policy: %s\n", settings.Engine.CommitPolicy)
	cmd.Println()

	cmd.Println("[Routine]")
	cmd.Printf("  Default days: %d\n", settings.Routine.DefaultDays)
	if settings.Routine.TemplatesFile != "" {
		cmd.Printf("  Templates file: %s\n", settings.Routine.TemplatesFile)
	}
	cmd.Println()

	cmd.Println("[Integrations]")
	cmd.Printf("  Google Calendar: %s\n", configured(settings.Calendar.IsConfigured(), settings.Calendar.GoogleToken))
	cmd.Printf("  GitHub: %s\n", configured(settings.GitHub.IsConfigured(), settings.GitHub.Token))

	if err := settingsService.Validate(); err != nil {
		cmd.Println()
		cmd.Printf("Warning: %v\n", err)
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	value, ok := settingsService.GetValue(args[0])
	if !ok {
		return fmt.Errorf("%s is not set", args[0])
	}
	if list, isList := value.([]string); isList {
		value = strings.Join(list, ",")
	}
	cmd.Println(value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := settingsService.SetValue(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	cmd.Printf("%s updated\n", args[0])
	return nil
}

func configured(ok bool, secret string) string {
	if !ok {
		return "not configured"
	}
	return "configured (" + maskSecret(secret) + ")"
}

// maskSecret masks a secret for display, showing only the last 4 characters.
func maskSecret(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}
