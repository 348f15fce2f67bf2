package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItemFilter_Matches(t *testing.T) {
	done := true
	item := Item{Type: ItemTypeTodo, CategoryID: "work", Completed: true}

	tests := []struct {
		name   string
		filter ItemFilter
		want   bool
	}{
		{"empty", ItemFilter{}, true},
		{"type", ItemFilter{Type: ItemTypeTodo}, true},
		{"other type", ItemFilter{Type: ItemTypeNote}, false},
		{"category", ItemFilter{CategoryID: "work"}, true},
		{"other category", ItemFilter{CategoryID: "home"}, false},
		{"completed", ItemFilter{Completed: &done}, true},
		{"all", ItemFilter{Type: ItemTypeTodo, CategoryID: "home", Completed: &done}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(item))
		})
	}
}

func TestItemFilter_IsEmpty(t *testing.T) {
	assert.True(t, ItemFilter{}.IsEmpty())
	assert.False(t, ItemFilter{CategoryID: "work"}.IsEmpty())
}

func TestParseTypeFilter(t *testing.T) {
	tests := []struct {
		in   ItemType
		want ItemType
	}{
		{"", ""},
		{"todo", ItemTypeTodo},
		{"Todos", ItemTypeTodo},
		{"voice notes", ItemTypeVoiceNote},
	}
	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			got, err := ParseTypeFilter(tt.in)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseTypeFilter("bogus")
	assert.ErrorIs(t, err, ErrInvalidType)
	assert.Equal(t, "InvalidType", ErrorCode(err))
}
