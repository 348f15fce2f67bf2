package routine

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/custodia-labs/lifeops/internal/core/domain"
)

// Default time for activities without a recognised time expression.
const (
	DefaultHour   = 9
	DefaultMinute = 0
)

// maxFallbackTitle bounds the title of a single-activity fallback.
const maxFallbackTitle = 80

var (
	// clockPattern matches "9am", "9:30 pm", "14:00" and "7 a.m.".
	clockPattern = regexp.MustCompile(`\b(\d{1,2})(?::(\d{2}))?\s*(am\b|pm\b|a\.m\.|p\.m\.)|\b(\d{1,2}):(\d{2})\b`)

	// namedTimePattern matches words that stand for a time of day.
	namedTimePattern = regexp.MustCompile(`\b(noon|midday|midnight)\b`)

	wordPattern = regexp.MustCompile(`[a-z]+`)
)

// Options tune Parse.
type Options struct {
	// Frequency overrides the inferred frequency when set.
	Frequency domain.Frequency
}

// Parser turns routine descriptions into activity plans.
type Parser struct {
	rules *Rules
}

// NewParser creates a parser over rules.
func NewParser(rules *Rules) *Parser {
	return &Parser{rules: rules}
}

// Parse extracts a plan from desc. It tries templates, then the generic
// extractor, then falls back to a single activity; the plan never has
// zero activities.
func (p *Parser) Parse(desc string, opts Options) domain.RoutinePlan {
	plan := domain.RoutinePlan{Frequency: InferFrequency(desc)}

	if tpl, ok := p.rules.Match(desc); ok {
		plan.Template = tpl.Name
		plan.Activities = append([]domain.Activity(nil), tpl.Activities...)
		if tpl.Frequency != "" && !mentionsFrequency(desc) {
			plan.Frequency = tpl.Frequency
		}
	} else if acts := p.extract(desc); len(acts) > 0 {
		plan.Activities = acts
	} else {
		plan.Activities = []domain.Activity{fallbackActivity(desc)}
		plan.Fallback = true
	}

	if opts.Frequency.IsValid() {
		plan.Frequency = opts.Frequency
	}
	return plan
}

// InferFrequency reads frequency keywords from desc, defaulting to daily.
func InferFrequency(desc string) domain.Frequency {
	lowered := strings.ToLower(desc)
	switch {
	case strings.Contains(lowered, "weekend") || strings.Contains(lowered, "saturday and sunday"):
		return domain.FrequencyWeekends
	case strings.Contains(lowered, "weekday") || strings.Contains(lowered, "monday to friday") ||
		strings.Contains(lowered, "mon-fri") || strings.Contains(lowered, "workday"):
		return domain.FrequencyWeekdays
	case strings.Contains(lowered, "weekly") || strings.Contains(lowered, "every week") ||
		strings.Contains(lowered, "once a week"):
		return domain.FrequencyWeekly
	default:
		return domain.FrequencyDaily
	}
}

func mentionsFrequency(desc string) bool {
	lowered := strings.ToLower(desc)
	for _, kw := range []string{"daily", "every day", "weekday", "weekend", "weekly", "every week"} {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

type clockTime struct {
	pos          int
	hour, minute int
}

type verbHit struct {
	pos  int
	verb *Verb
}

// extract pairs recognised times with activity verbs by position. Each
// time takes the closest verb before it, or the first verb after it. With
// verbs but no times, verbs are spaced an hour apart from the default time.
func (p *Parser) extract(desc string) []domain.Activity {
	lowered := strings.ToLower(desc)
	times := findTimes(lowered)
	verbs := p.findVerbs(lowered)

	switch {
	case len(verbs) == 0 && len(times) == 0:
		return nil
	case len(verbs) == 0:
		title := fallbackTitle(desc)
		acts := make([]domain.Activity, 0, len(times))
		for _, t := range times {
			acts = append(acts, domain.Activity{Title: title, Hour: t.hour, Minute: t.minute})
		}
		return dedupe(acts)
	case len(times) == 0:
		acts := make([]domain.Activity, 0, len(verbs))
		for i, v := range uniqueVerbs(verbs) {
			acts = append(acts, activityFor(v.verb, (DefaultHour+i)%24, DefaultMinute))
		}
		return acts
	}

	acts := make([]domain.Activity, 0, len(times))
	for _, t := range times {
		v := verbs[0]
		for _, cand := range verbs {
			if cand.pos < t.pos {
				v = cand
			}
		}
		acts = append(acts, activityFor(v.verb, t.hour, t.minute))
	}
	return dedupe(acts)
}

func activityFor(v *Verb, hour, minute int) domain.Activity {
	return domain.Activity{Title: v.Title, Hour: hour, Minute: minute, Category: v.Category}
}

func (p *Parser) findVerbs(lowered string) []verbHit {
	var hits []verbHit
	for _, loc := range wordPattern.FindAllStringIndex(lowered, -1) {
		if v, ok := p.rules.verbFor(lowered[loc[0]:loc[1]]); ok {
			hits = append(hits, verbHit{pos: loc[0], verb: v})
		}
	}
	return hits
}

func uniqueVerbs(hits []verbHit) []verbHit {
	seen := map[*Verb]bool{}
	out := hits[:0:0]
	for _, h := range hits {
		if !seen[h.verb] {
			seen[h.verb] = true
			out = append(out, h)
		}
	}
	return out
}

// findTimes returns the time expressions in lowered in order of position.
func findTimes(lowered string) []clockTime {
	var out []clockTime
	for _, m := range clockPattern.FindAllStringSubmatchIndex(lowered, -1) {
		var hour, minute int
		if m[2] >= 0 {
			hour, _ = strconv.Atoi(lowered[m[2]:m[3]])
			if m[4] >= 0 {
				minute, _ = strconv.Atoi(lowered[m[4]:m[5]])
			}
			suffix := lowered[m[6]:m[7]]
			if hour < 1 || hour > 12 {
				continue
			}
			switch {
			case strings.HasPrefix(suffix, "p") && hour != 12:
				hour += 12
			case strings.HasPrefix(suffix, "a") && hour == 12:
				hour = 0
			}
		} else {
			hour, _ = strconv.Atoi(lowered[m[8]:m[9]])
			minute, _ = strconv.Atoi(lowered[m[10]:m[11]])
		}
		if hour > 23 || minute > 59 {
			continue
		}
		out = append(out, clockTime{pos: m[0], hour: hour, minute: minute})
	}
	for _, m := range namedTimePattern.FindAllStringSubmatchIndex(lowered, -1) {
		hour := 12
		if lowered[m[2]:m[3]] == "midnight" {
			hour = 0
		}
		out = append(out, clockTime{pos: m[0], hour: hour})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].pos < out[j].pos })
	return out
}

// dedupe drops activities repeated at the same time with the same title.
func dedupe(acts []domain.Activity) []domain.Activity {
	type key struct {
		title        string
		hour, minute int
	}
	seen := map[key]bool{}
	out := acts[:0]
	for _, a := range acts {
		k := key{a.Title, a.Hour, a.Minute}
		if !seen[k] {
			seen[k] = true
			out = append(out, a)
		}
	}
	return out
}

func fallbackActivity(desc string) domain.Activity {
	return domain.Activity{
		Title:  fallbackTitle(desc),
		Body:   strings.TrimSpace(desc),
		Hour:   DefaultHour,
		Minute: DefaultMinute,
	}
}

// fallbackTitle capitalises the trimmed description and bounds its length.
func fallbackTitle(desc string) string {
	title := strings.Join(strings.Fields(desc), " ")
	if title == "" {
		return "Routine"
	}
	if r := []rune(title); len(r) > maxFallbackTitle {
		title = strings.TrimSpace(string(r[:maxFallbackTitle]))
	}
	r := []rune(title)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
