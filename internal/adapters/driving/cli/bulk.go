package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lifeops/internal/core/domain"
)

var (
	bulkType     string
	bulkCategory string
	bulkConfirm  bool
	bulkSets     []string
)

var bulkCmd = &cobra.Command{
	Use:   "bulk",
	Short: "Apply one mutation to many items atomically",
	Long: `Bulk commands run as a single transaction: the batch is saved when
more operations succeed than fail, and rolled back otherwise.

Selections understand phrases such as "overdue todos", "completed tasks",
"high priority", "this week", quantities ("3", "half", "25%") and "random".
Selections of more than 50 items require --confirm.`,
}

var bulkCreateCmd = &cobra.Command{
	Use:   "create <file.json>",
	Short: "Create items from a JSON array of drafts",
	Long: `Create up to 100 items from a JSON array of item drafts. Use - to
read the array from stdin.

Example:
  echo '[{"title":"Read","type":"todo","categoryId":"learning"}]' | lifeops bulk create -`,
	Args: cobra.ExactArgs(1),
	RunE: runBulkCreate,
}

var bulkUpdateCmd = &cobra.Command{
	Use:   "update <search-query>",
	Short: "Update every selected item",
	Long: `Update every item selected by the search query.

Example:
  lifeops bulk update "overdue todos" --set priority=high`,
	Args: cobra.ExactArgs(1),
	RunE: runBulkUpdate,
}

var bulkDeleteCmd = &cobra.Command{
	Use:   "delete <search-query>",
	Short: "Delete every selected item",
	Long: `Delete every item selected by the search query.

Example:
  lifeops bulk delete "completed todos"
  lifeops bulk delete "all notes" --confirm`,
	Args: cobra.ExactArgs(1),
	RunE: runBulkDelete,
}

func init() {
	for _, c := range []*cobra.Command{bulkUpdateCmd, bulkDeleteCmd} {
		c.Flags().StringVar(&bulkType, "type", "", "restrict to one item type")
		c.Flags().StringVar(&bulkCategory, "category", "", "restrict to one category")
		c.Flags().BoolVar(&bulkConfirm, "confirm", false, "allow selections above the safety threshold")
	}
	bulkUpdateCmd.Flags().StringArrayVar(&bulkSets, "set", nil, "field=value to change (repeatable)")
	_ = bulkUpdateCmd.MarkFlagRequired("set")

	bulkCmd.AddCommand(bulkCreateCmd, bulkUpdateCmd, bulkDeleteCmd)
	rootCmd.AddCommand(bulkCmd)
}

func runBulkCreate(cmd *cobra.Command, args []string) error {
	if err := requireService(bulkService, "bulk"); err != nil {
		return err
	}
	var drafts []domain.ItemDraft
	if err := readJSONArg(cmd, args[0], &drafts); err != nil {
		return err
	}
	result, err := bulkService.BulkCreateItems(cmd.Context(), drafts)
	if err != nil {
		return fmt.Errorf("bulk create failed: %w", err)
	}
	return printResult(cmd, result)
}

func runBulkUpdate(cmd *cobra.Command, args []string) error {
	if err := requireService(bulkService, "bulk"); err != nil {
		return err
	}
	updates, err := parseAssignments(bulkSets)
	if err != nil {
		return err
	}
	result, err := bulkService.BulkUpdateItems(cmd.Context(), bulkRequest(args[0]), updates)
	if err != nil {
		return fmt.Errorf("bulk update failed: %w", err)
	}
	return printResult(cmd, result)
}

func runBulkDelete(cmd *cobra.Command, args []string) error {
	if err := requireService(bulkService, "bulk"); err != nil {
		return err
	}
	result, err := bulkService.BulkDeleteItems(cmd.Context(), bulkRequest(args[0]))
	if err != nil {
		return fmt.Errorf("bulk delete failed: %w", err)
	}
	return printResult(cmd, result)
}

func bulkRequest(query string) domain.BulkRequest {
	return domain.BulkRequest{
		SearchQuery: query,
		Type:        domain.ItemType(bulkType),
		CategoryID:  bulkCategory,
		Confirm:     bulkConfirm,
	}
}

// readJSONArg decodes the file at path, or stdin when path is "-".
func readJSONArg(cmd *cobra.Command, path string, v any) error {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("%w: decode %s: %v", domain.ErrInvalidInput, path, err)
	}
	return nil
}
