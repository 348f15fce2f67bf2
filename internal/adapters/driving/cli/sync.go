package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	syncCategory string
	syncLimit    int
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Import from and publish to external services",
}

var syncGitHubCmd = &cobra.Command{
	Use:   "github",
	Short: "Import open GitHub issues assigned to you as todos",
	Long: `Import open issues assigned to the user of github.token as todos.
Issues imported before are recognised by their URL and skipped.`,
	Args: cobra.NoArgs,
	RunE: runSyncGitHub,
}

var syncPublishCmd = &cobra.Command{
	Use:   "publish <item-id>...",
	Short: "Publish event items to Google Calendar",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSyncPublish,
}

func init() {
	syncGitHubCmd.Flags().StringVar(&syncCategory, "category", "work", "category for imported todos")
	syncGitHubCmd.Flags().IntVarP(&syncLimit, "limit", "n", 50, "maximum number of issues")

	syncCmd.AddCommand(syncGitHubCmd, syncPublishCmd)
	rootCmd.AddCommand(syncCmd)
}

func runSyncGitHub(cmd *cobra.Command, _ []string) error {
	if err := requireService(syncService, "sync"); err != nil {
		return err
	}
	result, err := syncService.ImportGitHubIssues(cmd.Context(), syncCategory, syncLimit)
	if err != nil {
		return fmt.Errorf("github import failed: %w", err)
	}
	return printResult(cmd, result)
}

func runSyncPublish(cmd *cobra.Command, args []string) error {
	if err := requireService(syncService, "sync"); err != nil {
		return err
	}
	ids, err := syncService.PublishEvents(cmd.Context(), args)
	if err != nil {
		return fmt.Errorf("publish failed: %w", err)
	}
	if jsonOutput {
		return writeJSON(cmd, ids)
	}
	// The publisher returns one id per item, in order.
	for i := 0; i < len(ids) && i < len(args); i++ {
		cmd.Printf("%s -> %s\n", args[i], ids[i])
	}
	return nil
}
