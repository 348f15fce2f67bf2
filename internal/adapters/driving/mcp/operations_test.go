package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lifeops/internal/core/domain"
)

func TestToOperations(t *testing.T) {
	done := true
	inputs := []OperationInput{
		{Type: "create", Payload: &ItemInput{Title: "Plan trip", Type: "goal", CategoryID: "personal"}},
		{Type: "Search", Query: &SearchItemsInput{Query: "trip", Completed: &done, Limit: 1}},
		{Type: "update", ItemID: "${1.first.id}", Updates: map[string]any{"title": "Trip"}, DependsOn: []int{1}},
		{Type: " delete ", ItemID: "${0.id}"},
		{Type: "search"},
	}

	ops, err := ToOperations(inputs)
	require.NoError(t, err)
	require.Len(t, ops, 5)

	create, ok := ops[0].(domain.CreateOp)
	require.True(t, ok)
	assert.Equal(t, "Plan trip", create.Draft.Title)

	search, ok := ops[1].(domain.SearchOp)
	require.True(t, ok)
	assert.Equal(t, "trip", search.Query.Text)
	assert.Equal(t, 1, search.Query.Limit)
	assert.Equal(t, &done, search.Query.Completed)

	update, ok := ops[2].(domain.UpdateOp)
	require.True(t, ok)
	assert.Equal(t, []int{1}, update.Dependencies())

	assert.Equal(t, domain.OpDelete, ops[3].Kind())
	assert.Equal(t, domain.SearchQuery{}, ops[4].(domain.SearchOp).Query)
}

func TestToOperations_Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   OperationInput
	}{
		{"create without payload", OperationInput{Type: "create"}},
		{"update without id", OperationInput{Type: "update", Updates: map[string]any{"title": "x"}}},
		{"update without updates", OperationInput{Type: "update", ItemID: "a"}},
		{"delete without id", OperationInput{Type: "delete"}},
		{"unknown type", OperationInput{Type: "archive"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops, err := ToOperations([]OperationInput{{Type: "search"}, tt.in})
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Contains(t, err.Error(), "operation 1")
			assert.Nil(t, ops)
		})
	}
}
