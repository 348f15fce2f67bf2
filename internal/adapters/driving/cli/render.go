package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/lifeops/internal/core/domain"
)

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4672")).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F2A900"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#767676"))
	titleStyle = lipgloss.NewStyle().Bold(true)
)

// styled reports whether output goes to a terminal.
func styled(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

type printer struct {
	w      io.Writer
	styled bool
}

func newPrinter(cmd *cobra.Command) *printer {
	w := cmd.OutOrStdout()
	return &printer{w: w, styled: styled(w)}
}

func (p *printer) paint(s lipgloss.Style, text string) string {
	if !p.styled {
		return text
	}
	return s.Render(text)
}

func (p *printer) line(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

func writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func printItem(cmd *cobra.Command, item *domain.Item) error {
	if jsonOutput {
		return writeJSON(cmd, item)
	}
	p := newPrinter(cmd)
	p.itemLine(*item)
	return nil
}

func printItems(cmd *cobra.Command, items []domain.Item) error {
	if jsonOutput {
		if items == nil {
			items = []domain.Item{}
		}
		return writeJSON(cmd, items)
	}
	p := newPrinter(cmd)
	if len(items) == 0 {
		p.line("No items found.")
		return nil
	}
	for i := range items {
		p.itemLine(items[i])
	}
	p.line("%s", p.paint(dimStyle, fmt.Sprintf("%d item(s)", len(items))))
	return nil
}

func (p *printer) itemLine(item domain.Item) {
	check := "[ ]"
	if item.Completed {
		check = "[x]"
	}

	var extra []string
	if pr := item.Priority(); pr != "" {
		extra = append(extra, string(pr))
	}
	if item.DueDate != nil {
		extra = append(extra, "due "+item.DueDate.Local().Format("2006-01-02"))
	}
	if item.DateTime != nil {
		extra = append(extra, "at "+item.DateTime.Local().Format("2006-01-02 15:04"))
	}

	details := fmt.Sprintf("%s/%s", item.Type, item.CategoryID)
	if len(extra) > 0 {
		details += ", " + strings.Join(extra, ", ")
	}
	p.line("%s %s %s  %s", check, p.paint(titleStyle, item.Title),
		p.paint(dimStyle, "("+details+")"), p.paint(dimStyle, item.ID))
}

// printResult renders a batch result. Refusals and rollbacks are reported
// through the result itself, not as command errors.
func printResult(cmd *cobra.Command, result *domain.BulkOperationResult) error {
	if jsonOutput {
		return writeJSON(cmd, result)
	}

	p := newPrinter(cmd)
	status := p.paint(okStyle, "committed")
	switch {
	case result.Error != "":
		status = p.paint(failStyle, "refused ("+result.Error+")")
	case result.RolledBack:
		status = p.paint(failStyle, "rolled back")
	case !result.Committed:
		status = p.paint(warnStyle, "nothing committed")
	}
	p.line("%s: %d processed, %d succeeded, %d failed", status,
		result.TotalProcessed, result.SuccessCount, result.FailureCount)

	p.refs("created", result.Created)
	p.refs("updated", result.Updated)
	p.refs("deleted", result.Deleted)

	for _, f := range result.Failures {
		target := fmt.Sprintf("#%d", f.Index)
		if f.ItemID != "" {
			target += " " + f.ItemID
		}
		p.line("  %s %s: %s", p.paint(failStyle, "x"), target, f.Error)
	}
	for _, w := range result.Warnings {
		p.line("  %s %s", p.paint(warnStyle, "!"), w)
	}
	return nil
}

func (p *printer) refs(label string, refs []domain.ItemRef) {
	for _, ref := range refs {
		p.line("  %s %s %s", p.paint(okStyle, label), ref.Title, p.paint(dimStyle, ref.ID))
	}
}
