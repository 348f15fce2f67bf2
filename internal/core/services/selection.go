package services

import (
	"fmt"
	"math"
	"math/rand/v2"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/lifeops/internal/core/domain"
)

const (
	// maxSelectCount caps explicit counts such as "delete 5000 notes".
	maxSelectCount = 1000

	// safetyThreshold is the largest selection allowed without confirmation.
	safetyThreshold = 50
)

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6, "seven": 7,
	"eight": 8, "nine": 9, "ten": 10, "eleven": 11, "twelve": 12, "thirteen": 13,
	"fourteen": 14, "fifteen": 15, "sixteen": 16, "seventeen": 17, "eighteen": 18,
	"nineteen": 19, "twenty": 20, "couple": 2, "few": 3, "dozen": 12,
}

var fractionWords = map[string]float64{
	"half":    50,
	"third":   100.0 / 3,
	"quarter": 25,
}

// typeAliases maps extra plural nouns to item types.
var typeAliases = map[string]domain.ItemType{
	"tasks":        domain.ItemTypeTodo,
	"appointments": domain.ItemTypeEvent,
	"meetings":     domain.ItemTypeEvent,
	"habits":       domain.ItemTypeRoutine,
}

var (
	digitsPattern   = regexp.MustCompile(`^\d+$`)
	fractionPattern = regexp.MustCompile(`^(\d+)/(\d+)$`)
	percentPattern  = regexp.MustCompile(`^(\d+(?:\.\d+)?)%$`)
)

// phraseRule is a recognised phrase that selects items by state rather
// than by text.
type phraseRule struct {
	name    string
	pattern *regexp.Regexp
	match   func(item domain.Item, now time.Time) bool
}

// phraseRules are tried in order; matched text is removed before the next
// rule so "not completed" does not also read as "completed".
var phraseRules = []phraseRule{
	{
		name:    "incomplete",
		pattern: regexp.MustCompile(`\b(?:incomplete|pending|unfinished|not done|not completed|uncompleted)\b`),
		match:   func(item domain.Item, _ time.Time) bool { return !item.Completed },
	},
	{
		name:    "completed",
		pattern: regexp.MustCompile(`\b(?:completed|done|finished)\b`),
		match:   func(item domain.Item, _ time.Time) bool { return item.Completed },
	},
	{
		name:    "overdue",
		pattern: regexp.MustCompile(`\boverdue\b`),
		match: func(item domain.Item, now time.Time) bool {
			return !item.Completed && item.DueDate != nil && item.DueDate.Before(now)
		},
	},
	{
		name:    "today",
		pattern: regexp.MustCompile(`\btoday(?:'s)?\b`),
		match: func(item domain.Item, now time.Time) bool {
			return scheduledWithin(item, startOfDay(now), startOfDay(now).AddDate(0, 0, 1))
		},
	},
	{
		name:    "tomorrow",
		pattern: regexp.MustCompile(`\btomorrow(?:'s)?\b`),
		match: func(item domain.Item, now time.Time) bool {
			from := startOfDay(now).AddDate(0, 0, 1)
			return scheduledWithin(item, from, from.AddDate(0, 0, 1))
		},
	},
	{
		name:    "this week",
		pattern: regexp.MustCompile(`\bthis week(?:'s)?\b`),
		match: func(item domain.Item, now time.Time) bool {
			day := startOfDay(now)
			from := day.AddDate(0, 0, -int(day.Weekday()))
			return scheduledWithin(item, from, from.AddDate(0, 0, 7))
		},
	},
	priorityRule(domain.PriorityHigh),
	priorityRule(domain.PriorityMedium),
	priorityRule(domain.PriorityLow),
}

func priorityRule(p domain.Priority) phraseRule {
	return phraseRule{
		name:    string(p) + " priority",
		pattern: regexp.MustCompile(`\b` + string(p) + `[ -]priority\b`),
		match:   func(item domain.Item, _ time.Time) bool { return item.Priority() == p },
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// scheduledWithin reports whether the item's dateTime, or its due date when
// it has no dateTime, falls in [from, to).
func scheduledWithin(item domain.Item, from, to time.Time) bool {
	at := item.DateTime
	if at == nil {
		at = item.DueDate
	}
	if at == nil {
		return false
	}
	local := at.In(from.Location())
	return !local.Before(from) && local.Before(to)
}

// selector is a parsed bulk query.
type selector struct {
	text      string
	words     []string
	phrases   []phraseRule
	typ       domain.ItemType
	count     int
	percent   float64
	random    bool
	confirmed bool
	warnings  []string
}

// parseSelection extracts qualifiers, phrases and the words left to match.
func parseSelection(query string) selector {
	var sel selector

	lowered := strings.ToLower(query)
	for _, rule := range phraseRules {
		if rule.pattern.MatchString(lowered) {
			sel.phrases = append(sel.phrases, rule)
			lowered = rule.pattern.ReplaceAllString(lowered, " ")
		}
	}

	tokens := tokenize(lowered)
	quantified := false
	rest := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch {
		case tok == "confirm" || tok == "confirmed":
			sel.confirmed = true
		case tok == "random" || tok == "randomly":
			sel.random = true
		case tok == "all":
			if i+1 < len(tokens) {
				if t, ok := itemTypeWord(tokens[i+1], true); ok {
					sel.typ = t
					i++
				}
			}
		case pluralType(tok, &sel):
		case !quantified && sel.quantity(tok):
			quantified = true
		default:
			rest = append(rest, tok)
		}
	}

	sel.words = significantWords(rest)
	sel.text = strings.Join(sel.words, " ")
	return sel
}

// pluralType records a plural type noun such as "todos" as the type filter.
func pluralType(tok string, sel *selector) bool {
	t, ok := itemTypeWord(tok, false)
	if !ok {
		return false
	}
	if sel.typ == "" {
		sel.typ = t
	}
	return true
}

// itemTypeWord resolves a type noun. Singular forms are only accepted when
// singular is true, since words like "note" are common in titles.
func itemTypeWord(tok string, singular bool) (domain.ItemType, bool) {
	if t, ok := typeAliases[tok]; ok {
		return t, true
	}
	t, ok := domain.ParseItemType(tok)
	if !ok {
		return "", false
	}
	if !singular && strings.EqualFold(tok, string(t)) {
		return "", false
	}
	return t, true
}

// quantity parses one quantity qualifier and clamps it.
func (s *selector) quantity(tok string) bool {
	switch {
	case digitsPattern.MatchString(tok):
		n, err := strconv.Atoi(tok)
		if err != nil || n > maxSelectCount {
			s.warnings = append(s.warnings, fmt.Sprintf("count %s clamped to %d", tok, maxSelectCount))
			n = maxSelectCount
		}
		if n < 1 {
			s.warnings = append(s.warnings, fmt.Sprintf("count %s clamped to 1", tok))
			n = 1
		}
		s.count = n
		return true
	case numberWords[tok] > 0:
		s.count = numberWords[tok]
		return true
	case fractionWords[tok] > 0:
		s.percent = fractionWords[tok]
		return true
	}

	if m := fractionPattern.FindStringSubmatch(tok); m != nil {
		num, _ := strconv.ParseFloat(m[1], 64)
		den, _ := strconv.ParseFloat(m[2], 64)
		if den == 0 {
			return false
		}
		s.setPercent(tok, num/den*100)
		return true
	}
	if m := percentPattern.FindStringSubmatch(tok); m != nil {
		p, _ := strconv.ParseFloat(m[1], 64)
		s.setPercent(tok, p)
		return true
	}
	return false
}

func (s *selector) setPercent(tok string, p float64) {
	switch {
	case p < 1:
		s.warnings = append(s.warnings, fmt.Sprintf("fraction %s clamped to 1%%", tok))
		p = 1
	case p > 100:
		s.warnings = append(s.warnings, fmt.Sprintf("fraction %s clamped to 100%%", tok))
		p = 100
	}
	s.percent = p
}

// matches applies phrases and text. Phrases and text are alternatives;
// with neither present the filters alone select.
func (s selector) matches(item domain.Item, now time.Time) bool {
	hasText := len(s.words) > 0
	hasPhrase := len(s.phrases) > 0
	if !hasText && !hasPhrase {
		return true
	}
	if hasText && textMatches(item, s.text, s.words) {
		return true
	}
	if hasPhrase {
		for _, p := range s.phrases {
			if !p.match(item, now) {
				return false
			}
		}
		return true
	}
	return false
}

// limit truncates matches to the quantity qualifier.
func (s selector) limit(n int) int {
	switch {
	case s.count > 0:
		return min(s.count, n)
	case s.percent > 0:
		return min(int(math.Ceil(float64(n)*s.percent/100)), n)
	default:
		return n
	}
}

// selectItems resolves a bulk request against items. It refuses an empty
// scope and, unless confirmed, any selection above safetyThreshold.
func selectItems(
	items domain.Collection,
	req domain.BulkRequest,
	now time.Time,
	rng *rand.Rand,
) ([]domain.Item, []string, error) {
	sel := parseSelection(req.SearchQuery)
	warnings := append([]string{}, sel.warnings...)

	filter, err := domain.ItemFilter{Type: req.Type, CategoryID: req.CategoryID}.Normalize()
	if err != nil {
		return nil, warnings, err
	}
	if filter.Type == "" {
		filter.Type = sel.typ
	}
	if filter.IsEmpty() && len(sel.words) == 0 && len(sel.phrases) == 0 {
		return nil, warnings, domain.ErrEmptyScope
	}

	matched := make([]domain.Item, 0)
	for _, item := range items {
		if filter.Matches(item) && sel.matches(item, now) {
			matched = append(matched, item)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool { return lessByCreation(matched[i], matched[j]) })
	if sel.random && rng != nil {
		rng.Shuffle(len(matched), func(i, j int) { matched[i], matched[j] = matched[j], matched[i] })
	}
	matched = matched[:sel.limit(len(matched))]

	if len(matched) > safetyThreshold && !sel.confirmed && !req.Confirm {
		return nil, warnings, fmt.Errorf("%w: %d items matched, re-issue the request with \"confirm\" to proceed",
			domain.ErrSafetyThreshold, len(matched))
	}
	return matched, warnings, nil
}
