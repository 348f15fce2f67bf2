package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/lifeops/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for lifeops resources.
	uriScheme = "lifeops://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "items",
		Name:        "items",
		Description: "All items in the collection",
		MIMEType:    "application/json",
	}, s.handleItemsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "items/{itemId}",
		Name:        "item",
		Description: "A single item",
		MIMEType:    "application/json",
	}, s.handleItemResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "categories",
		Name:        "categories",
		Description: "Configured item categories",
		MIMEType:    "application/json",
	}, s.handleCategoriesResource)
}

// handleItemsResource returns every item.
func (s *Server) handleItemsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	items, err := s.ports.Items.SearchItems(ctx, domain.SearchQuery{})
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}

	out := make([]ItemOutput, len(items))
	for i := range items {
		out[i] = toItemOutput(items[i])
	}
	return jsonResource(req.Params.URI, out)
}

// handleItemResource returns one item by id.
func (s *Server) handleItemResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract itemId from URI: lifeops://items/{itemId}
	itemID := extractItemID(req.Params.URI)
	if itemID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	items, err := s.ports.Items.SearchItems(ctx, domain.SearchQuery{Text: itemID})
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	for i := range items {
		if items[i].ID == itemID {
			return jsonResource(req.Params.URI, toItemOutput(items[i]))
		}
	}
	return nil, mcp.ResourceNotFoundError(req.Params.URI)
}

// handleCategoriesResource returns the configured category set.
func (s *Server) handleCategoriesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	categories := domain.DefaultCategories
	if s.ports.Settings != nil {
		settings, err := s.ports.Settings.Get()
		if err != nil {
			return nil, fmt.Errorf("loading settings: %w", err)
		}
		categories = settings.Items.Categories
	}
	if categories == nil {
		categories = []string{}
	}
	return jsonResource(req.Params.URI, categories)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractItemID extracts the item ID from a URI like lifeops://items/{itemId}.
func extractItemID(uri string) string {
	const prefix = uriScheme + "items/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
