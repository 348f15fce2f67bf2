package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lifeops/internal/core/domain"
)

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}}
}

func TestHandleItemsResource(t *testing.T) {
	ports := requiredPorts()
	ports.Items = &mockItemService{items: []domain.Item{sampleItem()}}
	server := newTestServer(t, ports)

	res, err := server.handleItemsResource(context.Background(), readRequest("lifeops://items"))
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	assert.Equal(t, "application/json", res.Contents[0].MIMEType)

	var items []ItemOutput
	require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Buy milk", items[0].Title)
}

func TestHandleItemResource(t *testing.T) {
	items := &mockItemService{items: []domain.Item{sampleItem()}}
	ports := requiredPorts()
	ports.Items = items
	server := newTestServer(t, ports)

	t.Run("found", func(t *testing.T) {
		res, err := server.handleItemResource(context.Background(), readRequest("lifeops://items/item-1"))
		require.NoError(t, err)
		assert.Contains(t, res.Contents[0].Text, `"id": "item-1"`)
		assert.Equal(t, "item-1", items.lastQuery.Text)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := server.handleItemResource(context.Background(), readRequest("lifeops://items/item-9"))
		assert.Error(t, err)
	})

	t.Run("malformed uri", func(t *testing.T) {
		_, err := server.handleItemResource(context.Background(), readRequest("lifeops://other/item-1"))
		assert.Error(t, err)
	})
}

func TestHandleCategoriesResource(t *testing.T) {
	t.Run("defaults without settings", func(t *testing.T) {
		server := newTestServer(t, requiredPorts())
		res, err := server.handleCategoriesResource(context.Background(), readRequest("lifeops://categories"))
		require.NoError(t, err)

		var got []string
		require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &got))
		assert.Equal(t, domain.DefaultCategories, got)
	})

	t.Run("configured categories", func(t *testing.T) {
		settings := domain.DefaultSettings()
		settings.Items.Categories = []string{"study"}
		ports := requiredPorts()
		ports.Settings = &mockSettingsService{settings: &settings}
		server := newTestServer(t, ports)

		res, err := server.handleCategoriesResource(context.Background(), readRequest("lifeops://categories"))
		require.NoError(t, err)
		assert.Contains(t, res.Contents[0].Text, "study")
	})
}

func TestExtractItemID(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"lifeops://items/abc", "abc"},
		{"lifeops://items/", ""},
		{"lifeops://items/abc/extra", ""},
		{"other://items/abc", ""},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			assert.Equal(t, tt.want, extractItemID(tt.uri))
		})
	}
}
