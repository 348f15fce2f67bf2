package domain

import "sort"

// CategorySet is the externally owned set of valid category ids.
type CategorySet map[string]struct{}

// NewCategorySet builds a set from ids. Empty ids are ignored.
func NewCategorySet(ids ...string) CategorySet {
	set := make(CategorySet, len(ids))
	for _, id := range ids {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}

// Contains reports whether id is a member.
func (s CategorySet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the members in sorted order.
func (s CategorySet) IDs() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
