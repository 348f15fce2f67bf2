package services

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/custodia-labs/lifeops/internal/core/domain"
)

// stopWords are ignored when matching query words against items.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "of": true, "my": true, "all": true, "any": true,
	"item": true, "items": true, "thing": true, "things": true, "entry": true, "entries": true,
	"that": true, "are": true, "is": true, "with": true, "for": true, "to": true, "from": true,
	"in": true, "on": true, "and": true, "or": true, "me": true, "please": true, "them": true,
	"those": true, "these": true, "about": true, "called": true, "named": true, "every": true,
}

// commandWords are verbs callers put in front of a bulk query.
var commandWords = map[string]bool{
	"delete": true, "remove": true, "clear": true, "erase": true, "drop": true, "purge": true,
	"update": true, "change": true, "set": true, "mark": true, "move": true, "edit": true,
	"find": true, "show": true, "get": true, "rid": true,
}

// tokenize lower-cases s and splits it into words, trimming punctuation but
// keeping '%' and '/' so qualifiers such as "25%" and "1/3" survive.
func tokenize(s string) []string {
	fields := strings.Fields(strings.ToLower(s))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '%' && r != '/'
		})
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// significantWords drops stop words, command verbs and short words.
func significantWords(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) > 2 && !stopWords[w] && !commandWords[w] {
			out = append(out, w)
		}
	}
	return out
}

// textMatches reports whether the query text is a substring of the item's
// title or body, or whether any significant word appears in either.
func textMatches(item domain.Item, text string, words []string) bool {
	title := strings.ToLower(item.Title)
	body := strings.ToLower(item.Text)
	if text != "" && (strings.Contains(title, text) || strings.Contains(body, text)) {
		return true
	}
	for _, w := range words {
		if len(w) > 2 && (strings.Contains(title, w) || strings.Contains(body, w)) {
			return true
		}
	}
	return false
}

// relevance scores item against a query in [0, 1]. An exact title scores
// 1, a title containing the whole query 0.9, otherwise the share of query
// words found in the title or body.
func relevance(item domain.Item, query string) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return 0
	}
	title := strings.ToLower(item.Title)
	if title == q {
		return 1
	}
	if strings.Contains(title, q) {
		return 0.9
	}

	words := significantWords(tokenize(q))
	if len(words) == 0 {
		if strings.Contains(strings.ToLower(item.Text), q) {
			return 0.5
		}
		return 0
	}

	haystack := map[string]bool{}
	for _, w := range tokenize(item.Title + " " + item.Text) {
		haystack[w] = true
	}
	hits := 0
	for _, w := range words {
		if haystack[w] {
			hits++
		}
	}
	score := float64(hits) / float64(len(words))
	if strings.Contains(strings.ToLower(item.Text), q) && score < 0.5 {
		score = 0.5
	}
	return score
}

// searchCollection returns the items matching q, best match first.
// A query equal to an item id returns that item alone.
func searchCollection(items domain.Collection, q domain.SearchQuery) ([]domain.Item, error) {
	text := strings.TrimSpace(q.Text)
	if text != "" {
		if idx := items.IndexOf(text); idx >= 0 {
			return []domain.Item{items[idx].Clone()}, nil
		}
	}

	pattern := strings.ToLower(strings.TrimSpace(q.TitlePattern))
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: bad title pattern %q", domain.ErrInvalidInput, q.TitlePattern)
	}

	filter, err := domain.ItemFilter{Type: q.Type, CategoryID: q.CategoryID, Completed: q.Completed}.Normalize()
	if err != nil {
		return nil, err
	}
	lowered := strings.ToLower(text)
	words := significantWords(tokenize(text))

	type scored struct {
		item  domain.Item
		score float64
	}
	var matches []scored
	for _, item := range items {
		if !filter.Matches(item) {
			continue
		}
		if pattern != "" {
			ok, _ := doublestar.Match(pattern, strings.ToLower(item.Title))
			if !ok {
				continue
			}
		}
		if text != "" && !textMatches(item, lowered, words) {
			continue
		}
		matches = append(matches, scored{item: item, score: relevance(item, text)})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return lessByCreation(matches[i].item, matches[j].item)
	})

	out := make([]domain.Item, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.item.Clone())
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

// lessByCreation orders by createdAt, then id.
func lessByCreation(a, b domain.Item) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}
