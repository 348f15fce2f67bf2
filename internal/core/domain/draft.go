package domain

import "time"

// ItemDraft is the unvalidated input for creating an item.
// Date fields hold caller strings and are parsed during validation.
type ItemDraft struct {
	Title       string         `json:"title"`
	Text        string         `json:"text,omitempty"`
	Description string         `json:"description,omitempty"`
	Type        string         `json:"type"`
	CategoryID  string         `json:"categoryId"`
	Completed   bool           `json:"completed,omitempty"`
	Priority    string         `json:"priority,omitempty"`
	DueDate     string         `json:"dueDate,omitempty"`
	DateTime    string         `json:"dateTime,omitempty"`
	Frequency   string         `json:"frequency,omitempty"`
	Location    string         `json:"location,omitempty"`
	Steps       string         `json:"steps,omitempty"`
	Purpose     string         `json:"purpose,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// StringFields returns pointers to every string field of the draft so that
// references can be substituted in place.
func (d *ItemDraft) StringFields() map[string]*string {
	return map[string]*string{
		"title":       &d.Title,
		"text":        &d.Text,
		"description": &d.Description,
		"type":        &d.Type,
		"categoryId":  &d.CategoryID,
		"priority":    &d.Priority,
		"dueDate":     &d.DueDate,
		"dateTime":    &d.DateTime,
		"frequency":   &d.Frequency,
		"location":    &d.Location,
		"steps":       &d.Steps,
		"purpose":     &d.Purpose,
	}
}

// TimePatch sets or clears an optional timestamp. A nil Value clears it.
type TimePatch struct {
	Value *time.Time
}

// ItemPatch is a validated partial update. Nil fields are left untouched.
type ItemPatch struct {
	Title      *string
	Text       *string
	Type       *ItemType
	CategoryID *string
	Completed  *bool
	Priority   *Priority
	DueDate    *TimePatch
	DateTime   *TimePatch
	// Metadata is merged key by key; a nil value removes the key.
	Metadata map[string]any
}

// IsEmpty reports whether the patch changes nothing.
func (p ItemPatch) IsEmpty() bool {
	return p.Title == nil && p.Text == nil && p.Type == nil && p.CategoryID == nil &&
		p.Completed == nil && p.Priority == nil && p.DueDate == nil && p.DateTime == nil &&
		len(p.Metadata) == 0
}

// Apply returns a copy of item with the patch applied and UpdatedAt set to now.
func (p ItemPatch) Apply(item Item, now time.Time) Item {
	out := item.Clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Text != nil {
		out.Text = *p.Text
	}
	if p.Type != nil {
		out.Type = *p.Type
	}
	if p.CategoryID != nil {
		out.CategoryID = *p.CategoryID
	}
	if p.Completed != nil {
		out.Completed = *p.Completed
	}
	if p.Priority != nil {
		out.SetMeta(MetaPriority, string(*p.Priority))
	}
	if p.DueDate != nil {
		out.DueDate = copyTime(p.DueDate.Value)
	}
	if p.DateTime != nil {
		out.DateTime = copyTime(p.DateTime.Value)
	}
	for k, v := range p.Metadata {
		if v == nil {
			delete(out.Metadata, k)
			continue
		}
		out.SetMeta(k, cloneValue(v))
	}
	out.Metadata = NormalizeMetadata(out.Metadata)
	out.UpdatedAt = now
	return out
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
