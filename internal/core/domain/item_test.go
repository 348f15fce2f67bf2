package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseItemType(t *testing.T) {
	tests := []struct {
		in   string
		want ItemType
		ok   bool
	}{
		{"todo", ItemTypeTodo, true},
		{"Todos", ItemTypeTodo, true},
		{" event ", ItemTypeEvent, true},
		{"voice notes", ItemTypeVoiceNote, true},
		{"voice_note", ItemTypeVoiceNote, true},
		{"task", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseItemType(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestItem_CloneIsDeep(t *testing.T) {
	due := time.Date(2026, 10, 31, 0, 0, 0, 0, time.UTC)
	item := Item{
		ID:      "a",
		DueDate: &due,
		Metadata: map[string]any{
			MetaCompletedDates: []string{"2026-10-18"},
			"nested":           map[string]any{"k": []any{"v"}},
		},
	}

	clone := item.Clone()
	*clone.DueDate = clone.DueDate.AddDate(0, 0, 1)
	clone.Metadata[MetaCompletedDates].([]string)[0] = "changed"
	clone.Metadata["nested"].(map[string]any)["k"] = "changed"

	assert.Equal(t, 31, item.DueDate.Day())
	assert.Equal(t, "2026-10-18", item.Metadata[MetaCompletedDates].([]string)[0])
	assert.Equal(t, []any{"v"}, item.Metadata["nested"].(map[string]any)["k"])
}

func TestItem_CloneKeepsEmptySlices(t *testing.T) {
	item := Item{ID: "a", Metadata: map[string]any{MetaCompletedDates: []string{}}}

	clone := item.Clone()

	dates, ok := clone.Metadata[MetaCompletedDates].([]string)
	require.True(t, ok)
	assert.NotNil(t, dates)
	assert.Empty(t, dates)
}

func TestNormalizeMetadata(t *testing.T) {
	got := NormalizeMetadata(map[string]any{
		MetaStreak:         0,
		MetaCompletedDates: []string{},
		"labels":           []string{"bug"},
		"nested":           map[string]any{"n": int64(2)},
		MetaLocation:       "Main St",
	})

	assert.Equal(t, map[string]any{
		MetaStreak:         float64(0),
		MetaCompletedDates: []any{},
		"labels":           []any{"bug"},
		"nested":           map[string]any{"n": float64(2)},
		MetaLocation:       "Main St",
	}, got)

	assert.Nil(t, NormalizeMetadata(nil))
	assert.Nil(t, NormalizeMetadata(map[string]any{}))
}

func TestItem_Field(t *testing.T) {
	created := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	item := Item{
		ID:        "a",
		Title:     "Dentist",
		Type:      ItemTypeEvent,
		CreatedAt: created,
		DateTime:  &created,
		Metadata:  map[string]any{MetaLocation: "Main St", "tags": []any{"health"}},
	}

	v, ok := item.Field("title")
	require.True(t, ok)
	assert.Equal(t, "Dentist", v)

	v, ok = item.Field("dateTime")
	require.True(t, ok)
	assert.Equal(t, "2026-10-19T10:00:00.000000000Z", v)

	v, ok = item.Field("metadata.location")
	require.True(t, ok)
	assert.Equal(t, "Main St", v)

	v, ok = item.Field("metadata.tags.0")
	require.True(t, ok)
	assert.Equal(t, "health", v)

	_, ok = item.Field("dueDate")
	assert.False(t, ok)
	_, ok = item.Field("title.length")
	assert.False(t, ok)
	_, ok = item.Field("colour")
	assert.False(t, ok)
}

func TestItemPatch_Apply(t *testing.T) {
	now := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	due := now.Add(48 * time.Hour)
	item := Item{
		ID:       "a",
		Title:    "Pay rent",
		DueDate:  &due,
		Metadata: map[string]any{MetaLocation: "Bank", "keep": 1},
	}
	title := "Pay October rent"
	high := PriorityHigh

	out := ItemPatch{
		Title:    &title,
		Priority: &high,
		DueDate:  &TimePatch{},
		Metadata: map[string]any{MetaLocation: nil},
	}.Apply(item, now)

	assert.Equal(t, "Pay October rent", out.Title)
	assert.Equal(t, PriorityHigh, out.Priority())
	assert.Nil(t, out.DueDate)
	assert.NotContains(t, out.Metadata, MetaLocation)
	assert.Equal(t, float64(1), out.Metadata["keep"])
	assert.True(t, out.UpdatedAt.Equal(now))

	assert.Equal(t, "Pay rent", item.Title)
	assert.NotNil(t, item.DueDate)
	assert.Contains(t, item.Metadata, MetaLocation)
}

func TestItemPatch_IsEmpty(t *testing.T) {
	assert.True(t, ItemPatch{}.IsEmpty())
	assert.True(t, ItemPatch{Metadata: map[string]any{}}.IsEmpty())
	done := true
	assert.False(t, ItemPatch{Completed: &done}.IsEmpty())
}

func TestCollection_IndexOfAndTitles(t *testing.T) {
	c := Collection{{ID: "a", Title: "One"}, {ID: "b", Title: "Two"}}

	assert.Equal(t, 1, c.IndexOf("b"))
	assert.Equal(t, -1, c.IndexOf("z"))
	assert.Equal(t, []string{"One", "Two"}, c.Titles())
}
