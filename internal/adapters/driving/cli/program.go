package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lifeops/internal/adapters/driving/mcp"
	"github.com/custodia-labs/lifeops/internal/core/domain"
)

var programCmd = &cobra.Command{
	Use:   "program",
	Short: "Run dependent operations as one transaction",
}

var programRunCmd = &cobra.Command{
	Use:   "run <file.json>",
	Short: "Run a multi-operation program",
	Long: `Run a JSON array of operations. Operations are ordered by their
dependencies and may reference earlier results as ${index.field}.

Example program:
  [
    {"type": "create", "payload": {"title": "Laundry", "type": "todo", "categoryId": "home"}},
    {"type": "update", "itemId": "${0.id}", "updates": {"completed": true}}
  ]

A program whose references form a cycle is rejected before anything runs.`,
	Args: cobra.ExactArgs(1),
	RunE: runProgram,
}

func init() {
	programCmd.AddCommand(programRunCmd)
	rootCmd.AddCommand(programCmd)
}

func runProgram(cmd *cobra.Command, args []string) error {
	if err := requireService(programService, "program"); err != nil {
		return err
	}
	var inputs []mcp.OperationInput
	if err := readJSONArg(cmd, args[0], &inputs); err != nil {
		return err
	}
	ops, err := mcp.ToOperations(inputs)
	if err != nil {
		return err
	}

	result, err := programService.ExecuteMultiOperation(cmd.Context(), ops)
	if err != nil {
		return fmt.Errorf("program failed: %w", err)
	}
	if jsonOutput {
		return writeJSON(cmd, result)
	}

	p := newPrinter(cmd)
	for _, step := range result.Steps {
		p.line("%s", formatStep(p, step))
	}
	return printResult(cmd, &result.BulkOperationResult)
}

func formatStep(p *printer, step domain.StepResult) string {
	status := string(step.Status)
	switch step.Status {
	case domain.StepSucceeded:
		status = p.paint(okStyle, status)
	case domain.StepFailed, domain.StepSkipped:
		status = p.paint(failStyle, status)
	}
	line := fmt.Sprintf("#%d %-6s %s", step.Index, step.Kind, status)
	switch {
	case step.Item != nil:
		line += " " + step.Item.Title
	case step.Kind == domain.OpSearch:
		line += fmt.Sprintf(" %d match(es)", step.Count)
	}
	if step.Error != "" {
		line += p.paint(dimStyle, " ("+step.Error+")")
	}
	return line
}
