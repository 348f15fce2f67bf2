package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// ItemType classifies an item. The set is closed.
type ItemType string

// Available item types.
const (
	ItemTypeTodo      ItemType = "todo"
	ItemTypeGoal      ItemType = "goal"
	ItemTypeEvent     ItemType = "event"
	ItemTypeNote      ItemType = "note"
	ItemTypeRoutine   ItemType = "routine"
	ItemTypeVoiceNote ItemType = "voiceNote"
)

// ItemTypes lists every valid item type in display order.
var ItemTypes = []ItemType{
	ItemTypeTodo, ItemTypeGoal, ItemTypeEvent, ItemTypeNote, ItemTypeRoutine, ItemTypeVoiceNote,
}

// IsValid returns true if the item type is recognised.
func (t ItemType) IsValid() bool {
	switch t {
	case ItemTypeTodo, ItemTypeGoal, ItemTypeEvent, ItemTypeNote, ItemTypeRoutine, ItemTypeVoiceNote:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t ItemType) String() string {
	return string(t)
}

// ParseItemType resolves a type name case-insensitively, accepting plurals
// such as "todos" or "voice notes".
func ParseItemType(s string) (ItemType, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, " ", "")
	norm = strings.ReplaceAll(norm, "-", "")
	norm = strings.ReplaceAll(norm, "_", "")
	for _, t := range ItemTypes {
		name := strings.ToLower(string(t))
		if norm == name || norm == name+"s" {
			return t, true
		}
	}
	return "", false
}

// Priority ranks todos and goals.
type Priority string

// Available priorities.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValid returns true if the priority is recognised.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Metadata keys used by the engine. Other keys pass through untouched.
const (
	MetaPriority            = "priority"
	MetaLocation            = "location"
	MetaFrequency           = "frequency"
	MetaPurpose             = "purpose"
	MetaStreak              = "streak"
	MetaBestStreak          = "bestStreak"
	MetaCompletedDates      = "completedDates"
	MetaCreatedByAutomation = "createdByAutomation"
	MetaCreatedInBatch      = "createdInBatch"
	MetaBatchID             = "batchId"
	MetaRoutineSource       = "routineSource"
	MetaSource              = "source"
	MetaURL                 = "url"
)

// Item is the universal record type.
type Item struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Text       string         `json:"text"`
	Type       ItemType       `json:"type"`
	CategoryID string         `json:"categoryId"`
	Completed  bool           `json:"completed"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	DueDate    *time.Time     `json:"dueDate,omitempty"`
	DateTime   *time.Time     `json:"dateTime,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// Clone returns a copy whose metadata and time pointers are not shared.
func (i Item) Clone() Item {
	out := i
	if i.DueDate != nil {
		d := *i.DueDate
		out.DueDate = &d
	}
	if i.DateTime != nil {
		d := *i.DateTime
		out.DateTime = &d
	}
	if i.Metadata != nil {
		out.Metadata = make(map[string]any, len(i.Metadata))
		for k, v := range i.Metadata {
			out.Metadata[k] = cloneValue(v)
		}
	}
	return out
}

// NormalizeMetadata returns metadata in the shape it has after a trip
// through the item store: numbers as float64, slices as []any, nested maps
// as map[string]any. An empty map becomes nil. Values that cannot be
// encoded are left as a plain copy.
func NormalizeMetadata(m map[string]any) map[string]any {
	if len(m) == 0 {
		return nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return cloneValue(m).(map[string]any)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return cloneValue(m).(map[string]any)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case []string:
		out := make([]string, len(t))
		copy(out, t)
		return out
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = cloneValue(t[i])
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = cloneValue(val)
		}
		return out
	default:
		return v
	}
}

// Priority returns the metadata priority, or empty if unset.
func (i Item) Priority() Priority {
	if p, ok := i.Metadata[MetaPriority].(string); ok {
		return Priority(p)
	}
	if p, ok := i.Metadata[MetaPriority].(Priority); ok {
		return p
	}
	return ""
}

// SetMeta sets a metadata key, allocating the map if needed.
func (i *Item) SetMeta(key string, value any) {
	if i.Metadata == nil {
		i.Metadata = make(map[string]any)
	}
	i.Metadata[key] = value
}

// Field resolves a field path such as "id", "dueDate" or "metadata.location".
// Timestamps resolve to their sortable string form.
func (i Item) Field(path string) (any, bool) {
	head, rest, _ := strings.Cut(path, ".")
	switch head {
	case "id":
		return i.ID, rest == ""
	case "title":
		return i.Title, rest == ""
	case "text", "description":
		return i.Text, rest == ""
	case "type":
		return string(i.Type), rest == ""
	case "categoryId":
		return i.CategoryID, rest == ""
	case "completed":
		return i.Completed, rest == ""
	case "createdAt":
		return FormatTimestamp(i.CreatedAt), rest == ""
	case "updatedAt":
		return FormatTimestamp(i.UpdatedAt), rest == ""
	case "dueDate":
		if i.DueDate == nil {
			return nil, false
		}
		return FormatTimestamp(*i.DueDate), rest == ""
	case "dateTime":
		if i.DateTime == nil {
			return nil, false
		}
		return FormatTimestamp(*i.DateTime), rest == ""
	case "metadata":
		if rest == "" {
			return i.Metadata, true
		}
		return lookupValue(i.Metadata, rest)
	default:
		return nil, false
	}
}

// Collection is the full set of items held in the store.
type Collection []Item

// Clone returns a deep copy of the collection.
func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	for i := range c {
		out[i] = c[i].Clone()
	}
	return out
}

// IndexOf returns the position of the item with id, or -1.
func (c Collection) IndexOf(id string) int {
	for i := range c {
		if c[i].ID == id {
			return i
		}
	}
	return -1
}

// Titles returns every title in the collection.
func (c Collection) Titles() []string {
	out := make([]string, len(c))
	for i := range c {
		out[i] = c[i].Title
	}
	return out
}
