// Package mcp provides an MCP (Model Context Protocol) server adapter for lifeops.
// It exposes the item engine as typed tools for AI assistants.
package mcp

import "errors"

var (
	// ErrMissingItemService is returned when the item service is not provided.
	ErrMissingItemService = errors.New("mcp: item service is required")

	// ErrMissingBulkService is returned when the bulk service is not provided.
	ErrMissingBulkService = errors.New("mcp: bulk service is required")

	// ErrMissingProgramService is returned when the program service is not provided.
	ErrMissingProgramService = errors.New("mcp: program service is required")
)
