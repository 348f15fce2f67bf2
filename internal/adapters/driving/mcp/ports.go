package mcp

import (
	"github.com/custodia-labs/lifeops/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Items provides single-item mutations and the read paths.
	Items driving.ItemService

	// Bulk provides selection driven batches.
	Bulk driving.BulkService

	// Program runs dependency programs.
	Program driving.ProgramService

	// Routine turns routine descriptions into events. Optional.
	Routine driving.RoutineService

	// Sync imports and publishes items. Optional.
	Sync driving.SyncService

	// Settings backs the categories resource. Optional.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	switch {
	case p.Items == nil:
		return ErrMissingItemService
	case p.Bulk == nil:
		return ErrMissingBulkService
	case p.Program == nil:
		return ErrMissingProgramService
	}
	return nil
}
