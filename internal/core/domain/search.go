package domain

import "fmt"

// SearchResult is an item with its match score.
type SearchResult struct {
	// Item is the matched item.
	Item Item

	// Score is the relevance score in [0, 1].
	Score float64
}

// ItemFilter narrows a selection. Zero values match everything.
type ItemFilter struct {
	Type       ItemType
	CategoryID string
	Completed  *bool
}

// IsEmpty reports whether the filter constrains nothing.
func (f ItemFilter) IsEmpty() bool {
	return f.Type == "" && f.CategoryID == "" && f.Completed == nil
}

// ParseTypeFilter resolves a caller supplied type filter the way item
// creation resolves types, so "Todos" filters todos. Empty stays empty.
func ParseTypeFilter(t ItemType) (ItemType, error) {
	if t == "" {
		return "", nil
	}
	parsed, ok := ParseItemType(string(t))
	if !ok {
		return "", NewValidationError("type", fmt.Errorf("%w: %q", ErrInvalidType, string(t)))
	}
	return parsed, nil
}

// Normalize returns the filter with its type resolved by ParseTypeFilter.
func (f ItemFilter) Normalize() (ItemFilter, error) {
	typ, err := ParseTypeFilter(f.Type)
	if err != nil {
		return f, err
	}
	f.Type = typ
	return f, nil
}

// Matches reports whether item passes every set constraint.
func (f ItemFilter) Matches(item Item) bool {
	if f.Type != "" && item.Type != f.Type {
		return false
	}
	if f.CategoryID != "" && item.CategoryID != f.CategoryID {
		return false
	}
	if f.Completed != nil && item.Completed != *f.Completed {
		return false
	}
	return true
}

// BulkRequest scopes a bulk update or delete.
type BulkRequest struct {
	// SearchQuery is the free text query, possibly carrying quantity
	// qualifiers ("3", "half", "25%", "all todos") and the word "confirm".
	SearchQuery string
	Type        ItemType
	CategoryID  string
	// Confirm acknowledges selections above the safety threshold.
	Confirm bool
}
