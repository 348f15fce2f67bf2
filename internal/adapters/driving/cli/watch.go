package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lifeops/internal/core/domain"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Report external changes to the item file",
	Long: `Watch the item slot file for writes made by other processes, such as
a sync tool or a manual edit, and print the item count after each change.

Requires the file backend (storage.backend = file, or --backend file).
Press Ctrl+C to stop.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if slotFile == nil {
		return errors.New("watch requires the file backend (use --backend file)")
	}
	if err := requireService(itemService, "item"); err != nil {
		return err
	}

	ctx := cmd.Context()
	events, err := slotFile.Watch(ctx, slotKey)
	if err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}

	cmd.Printf("Watching %s\n", slotFile.Path(slotKey))
	for ev := range events {
		items, err := itemService.SearchItems(ctx, domain.SearchQuery{})
		if err != nil {
			cmd.PrintErrf("%s reload failed: %v\n", ev.Time.Format("15:04:05"), err)
			continue
		}
		cmd.Printf("%s %s changed, %d items\n", ev.Time.Format("15:04:05"), ev.Key, len(items))
	}
	return nil
}
