package routine

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/lifeops/internal/core/domain"
)

//go:embed rules.yaml
var defaultRules []byte

// Template is a named routine matched by keyword presence.
type Template struct {
	Name       string            `yaml:"name"`
	Keywords   []string          `yaml:"keywords"`
	Frequency  domain.Frequency  `yaml:"frequency"`
	Activities []domain.Activity `yaml:"activities"`
}

// Verb maps activity words to the activity the generic extractor emits.
type Verb struct {
	Words    []string `yaml:"words"`
	Title    string   `yaml:"title"`
	Category string   `yaml:"category"`
}

// Rules is the rule table driving the parser.
type Rules struct {
	Templates []Template `yaml:"templates"`
	Verbs     []Verb     `yaml:"verbs"`
}

// DefaultRules returns the built in rule table.
func DefaultRules() (*Rules, error) {
	return ParseRules(bytes.NewReader(defaultRules))
}

// LoadRules reads a rule table from path. Templates and verbs from the
// file are tried before the built in ones.
func LoadRules(path string) (*Rules, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open routine rules: %w", err)
	}
	defer f.Close()

	custom, err := ParseRules(f)
	if err != nil {
		return nil, err
	}
	defaults, err := DefaultRules()
	if err != nil {
		return nil, err
	}
	return &Rules{
		Templates: append(custom.Templates, defaults.Templates...),
		Verbs:     append(custom.Verbs, defaults.Verbs...),
	}, nil
}

// ParseRules decodes and validates a YAML rule table.
func ParseRules(r io.Reader) (*Rules, error) {
	var rules Rules
	if err := yaml.NewDecoder(r).Decode(&rules); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode routine rules: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return &rules, nil
}

// Validate checks every template and verb.
func (r *Rules) Validate() error {
	for _, t := range r.Templates {
		if t.Name == "" {
			return fmt.Errorf("%w: template without name", domain.ErrInvalidInput)
		}
		if len(t.Keywords) == 0 || len(t.Activities) == 0 {
			return fmt.Errorf("%w: template %q needs keywords and activities", domain.ErrInvalidInput, t.Name)
		}
		if t.Frequency != "" && !t.Frequency.IsValid() {
			return fmt.Errorf("%w: template %q has frequency %q", domain.ErrInvalidInput, t.Name, t.Frequency)
		}
		for _, a := range t.Activities {
			if err := validateActivity(a); err != nil {
				return fmt.Errorf("template %q: %w", t.Name, err)
			}
		}
	}
	for _, v := range r.Verbs {
		if len(v.Words) == 0 || v.Title == "" {
			return fmt.Errorf("%w: verb entries need words and a title", domain.ErrInvalidInput)
		}
	}
	return nil
}

func validateActivity(a domain.Activity) error {
	switch {
	case a.Title == "":
		return fmt.Errorf("%w: activity without title", domain.ErrInvalidInput)
	case a.Hour < 0 || a.Hour > 23 || a.Minute < 0 || a.Minute > 59:
		return fmt.Errorf("%w: activity %q at %02d:%02d", domain.ErrInvalidInput, a.Title, a.Hour, a.Minute)
	case a.Priority != "" && !a.Priority.IsValid():
		return fmt.Errorf("%w: activity %q priority %q", domain.ErrInvalidPriority, a.Title, a.Priority)
	}
	return nil
}

// Match returns the first template with a keyword contained in desc.
func (r *Rules) Match(desc string) (*Template, bool) {
	lowered := strings.ToLower(desc)
	for i := range r.Templates {
		for _, kw := range r.Templates[i].Keywords {
			if strings.Contains(lowered, strings.ToLower(kw)) {
				return &r.Templates[i], true
			}
		}
	}
	return nil, false
}

// verbFor returns the verb entry owning word.
func (r *Rules) verbFor(word string) (*Verb, bool) {
	for i := range r.Verbs {
		for _, w := range r.Verbs[i].Words {
			if strings.EqualFold(w, word) {
				return &r.Verbs[i], true
			}
		}
	}
	return nil, false
}
