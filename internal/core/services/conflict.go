package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/lifeops/internal/core/domain"
)

// maxRenameAttempts bounds the " (n)" suffixes tried for one title.
const maxRenameAttempts = 100

// TitleResolver renames duplicate titles deterministically. Titles are
// compared case-insensitively; every accepted title is registered so later
// candidates in the same batch see it.
type TitleResolver struct {
	taken map[string]struct{}
}

// NewTitleResolver creates a resolver seeded with existing titles.
func NewTitleResolver(existing []string) *TitleResolver {
	r := &TitleResolver{taken: make(map[string]struct{}, len(existing))}
	for _, t := range existing {
		r.taken[titleKey(t)] = struct{}{}
	}
	return r
}

// Resolve returns a unique title for candidate and whether it was renamed.
// It fails with domain.ErrTitleConflict after maxRenameAttempts suffixes.
func (r *TitleResolver) Resolve(candidate string) (string, bool, error) {
	candidate = strings.TrimSpace(candidate)
	if !r.isTaken(candidate) {
		r.taken[titleKey(candidate)] = struct{}{}
		return candidate, false, nil
	}
	for n := 1; n <= maxRenameAttempts; n++ {
		next := fmt.Sprintf("%s (%d)", candidate, n)
		if !r.isTaken(next) {
			r.taken[titleKey(next)] = struct{}{}
			return next, true, nil
		}
	}
	return "", false, fmt.Errorf("%w: %q", domain.ErrTitleConflict, candidate)
}

func (r *TitleResolver) isTaken(title string) bool {
	_, ok := r.taken[titleKey(title)]
	return ok
}

func titleKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
