package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lifeops/internal/core/domain"
)

var (
	itemDraft domain.ItemDraft

	itemSets []string

	itemFilterType     string
	itemFilterCategory string
	itemFilterDone     bool
	itemFilterOpen     bool
	itemPattern        string
	itemLimit          int
)

var itemCmd = &cobra.Command{
	Use:   "item",
	Short: "Create, change and find single items",
}

var itemCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an item",
	Long: `Create one item. A title that already exists is renamed with a
numeric suffix, e.g. "Study" becomes "Study (1)".

Examples:
  lifeops item create --title "Buy milk" --type todo --category home --due 2026-10-21
  lifeops item create --title "Dentist" --type event --category health --at "2026-10-22 15:00"`,
	Args: cobra.NoArgs,
	RunE: runItemCreate,
}

var itemUpdateCmd = &cobra.Command{
	Use:   "update <item-id>",
	Short: "Update fields of an item",
	Long: `Apply a partial update. Each --set takes field=value; the values true,
false and null are decoded, JSON arrays and objects are accepted.

Example:
  lifeops item update 3f2a... --set completed=true --set priority=high`,
	Args: cobra.ExactArgs(1),
	RunE: runItemUpdate,
}

var itemDeleteCmd = &cobra.Command{
	Use:   "delete <item-id>",
	Short: "Delete an item",
	Args:  cobra.ExactArgs(1),
	RunE:  runItemDelete,
}

var itemSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search items",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runItemSearch,
}

var itemFindCmd = &cobra.Command{
	Use:   "find <query>",
	Short: "Find the single best matching item",
	Args:  cobra.ExactArgs(1),
	RunE:  runItemFind,
}

var itemDescribeCmd = &cobra.Command{
	Use:   "describe <description>",
	Short: "Find the item that best fits a description",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runItemDescribe,
}

func init() {
	f := itemCreateCmd.Flags()
	f.StringVar(&itemDraft.Title, "title", "", "item title (required)")
	f.StringVar(&itemDraft.Type, "type", "", "todo, goal, event, note, routine or voiceNote (required)")
	f.StringVar(&itemDraft.CategoryID, "category", "", "category id (required)")
	f.StringVar(&itemDraft.Description, "description", "", "body text")
	f.StringVar(&itemDraft.Priority, "priority", "", "low, medium or high")
	f.StringVar(&itemDraft.DueDate, "due", "", "due date")
	f.StringVar(&itemDraft.DateTime, "at", "", "event date and time")
	f.StringVar(&itemDraft.Frequency, "frequency", "", "routine or goal frequency")
	f.StringVar(&itemDraft.Location, "location", "", "event location")
	_ = itemCreateCmd.MarkFlagRequired("title")
	_ = itemCreateCmd.MarkFlagRequired("type")
	_ = itemCreateCmd.MarkFlagRequired("category")

	itemUpdateCmd.Flags().StringArrayVar(&itemSets, "set", nil, "field=value to change (repeatable)")
	_ = itemUpdateCmd.MarkFlagRequired("set")

	for _, c := range []*cobra.Command{itemSearchCmd, itemFindCmd, itemDescribeCmd} {
		c.Flags().StringVar(&itemFilterType, "type", "", "restrict to one item type")
		c.Flags().StringVar(&itemFilterCategory, "category", "", "restrict to one category")
	}
	for _, c := range []*cobra.Command{itemSearchCmd, itemFindCmd} {
		c.Flags().BoolVar(&itemFilterDone, "completed", false, "only completed items")
		c.Flags().BoolVar(&itemFilterOpen, "open", false, "only open items")
		c.MarkFlagsMutuallyExclusive("completed", "open")
	}
	itemSearchCmd.Flags().StringVar(&itemPattern, "pattern", "", "glob matched against titles")
	itemSearchCmd.Flags().IntVarP(&itemLimit, "limit", "n", 0, "maximum number of results")

	itemCmd.AddCommand(itemCreateCmd, itemUpdateCmd, itemDeleteCmd, itemSearchCmd, itemFindCmd, itemDescribeCmd)
	rootCmd.AddCommand(itemCmd)
}

func runItemCreate(cmd *cobra.Command, _ []string) error {
	if err := requireService(itemService, "item"); err != nil {
		return err
	}
	item, err := itemService.CreateItem(cmd.Context(), itemDraft)
	if err != nil {
		return fmt.Errorf("create failed: %w", err)
	}
	return printItem(cmd, item)
}

func runItemUpdate(cmd *cobra.Command, args []string) error {
	if err := requireService(itemService, "item"); err != nil {
		return err
	}
	updates, err := parseAssignments(itemSets)
	if err != nil {
		return err
	}
	item, warnings, err := itemService.UpdateItem(cmd.Context(), args[0], updates)
	if err != nil {
		return fmt.Errorf("update failed: %w", err)
	}
	if err := printItem(cmd, item); err != nil {
		return err
	}
	for _, w := range warnings {
		cmd.PrintErrln("warning:", w)
	}
	return nil
}

func runItemDelete(cmd *cobra.Command, args []string) error {
	if err := requireService(itemService, "item"); err != nil {
		return err
	}
	if _, err := itemService.DeleteItem(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	cmd.Printf("Deleted %s\n", args[0])
	return nil
}

func runItemSearch(cmd *cobra.Command, args []string) error {
	if err := requireService(itemService, "item"); err != nil {
		return err
	}
	query := domain.SearchQuery{
		Type:         domain.ItemType(itemFilterType),
		CategoryID:   itemFilterCategory,
		Completed:    completedFilter(),
		TitlePattern: itemPattern,
		Limit:        itemLimit,
	}
	if len(args) == 1 {
		query.Text = args[0]
	}
	items, err := itemService.SearchItems(cmd.Context(), query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	return printItems(cmd, items)
}

func runItemFind(cmd *cobra.Command, args []string) error {
	if err := requireService(itemService, "item"); err != nil {
		return err
	}
	item, err := itemService.FindSingleItem(cmd.Context(), args[0], itemFilter())
	if err != nil {
		return fmt.Errorf("find failed: %w", err)
	}
	return printItem(cmd, item)
}

func runItemDescribe(cmd *cobra.Command, args []string) error {
	if err := requireService(itemService, "item"); err != nil {
		return err
	}
	filter := domain.ItemFilter{Type: domain.ItemType(itemFilterType), CategoryID: itemFilterCategory}
	match, err := itemService.FindItemByDescription(cmd.Context(), strings.Join(args, " "), filter)
	if err != nil {
		return fmt.Errorf("find failed: %w", err)
	}
	if jsonOutput {
		return writeJSON(cmd, map[string]any{"item": match.Item, "score": match.Score})
	}
	if err := printItem(cmd, &match.Item); err != nil {
		return err
	}
	cmd.Printf("score %.2f\n", match.Score)
	return nil
}

func itemFilter() domain.ItemFilter {
	return domain.ItemFilter{
		Type:       domain.ItemType(itemFilterType),
		CategoryID: itemFilterCategory,
		Completed:  completedFilter(),
	}
}

func completedFilter() *bool {
	switch {
	case itemFilterDone:
		v := true
		return &v
	case itemFilterOpen:
		v := false
		return &v
	default:
		return nil
	}
}

// parseAssignments turns field=value pairs into an updates map.
func parseAssignments(pairs []string) (map[string]any, error) {
	updates := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: expected field=value, got %q", domain.ErrInvalidInput, pair)
		}
		updates[key] = decodeValue(raw)
	}
	return updates, nil
}

func decodeValue(raw string) any {
	switch strings.TrimSpace(raw) {
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	}
	if t := strings.TrimSpace(raw); strings.HasPrefix(t, "[") || strings.HasPrefix(t, "{") {
		var v any
		if err := json.Unmarshal([]byte(t), &v); err == nil {
			return v
		}
	}
	return raw
}
