package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/lifeops/internal/core/domain"
)

// BuildItem validates a draft and returns the item it describes, without
// id or timestamps. Checks run in a fixed order: required fields, type,
// category, date parsing, event time, priority.
func BuildItem(d domain.ItemDraft, categories domain.CategorySet) (domain.Item, error) {
	title := strings.TrimSpace(d.Title)
	switch {
	case title == "":
		return domain.Item{}, domain.NewValidationError("title", domain.ErrMissingField)
	case strings.TrimSpace(d.Type) == "":
		return domain.Item{}, domain.NewValidationError("type", domain.ErrMissingField)
	case strings.TrimSpace(d.CategoryID) == "":
		return domain.Item{}, domain.NewValidationError("categoryId", domain.ErrMissingField)
	}

	itemType, ok := domain.ParseItemType(d.Type)
	if !ok {
		return domain.Item{}, domain.NewValidationError("type", fmt.Errorf("%w: %q", domain.ErrInvalidType, d.Type))
	}

	categoryID := strings.TrimSpace(d.CategoryID)
	if !categories.Contains(categoryID) {
		return domain.Item{}, domain.NewValidationError("categoryId",
			fmt.Errorf("%w: %q", domain.ErrInvalidCategory, categoryID))
	}

	dueDate, err := parseOptionalDate("dueDate", d.DueDate)
	if err != nil {
		return domain.Item{}, err
	}
	dateTime, err := parseOptionalDate("dateTime", d.DateTime)
	if err != nil {
		return domain.Item{}, err
	}
	if itemType == domain.ItemTypeEvent && dateTime == nil {
		return domain.Item{}, domain.NewValidationError("dateTime", domain.ErrMissingEventTime)
	}

	priority, err := parsePriority(d.Priority)
	if err != nil {
		return domain.Item{}, err
	}

	item := domain.Item{
		Title:      title,
		Text:       d.Text,
		Type:       itemType,
		CategoryID: categoryID,
		Completed:  d.Completed,
		DueDate:    dueDate,
		DateTime:   dateTime,
	}
	if item.Text == "" {
		item.Text = d.Description
	}
	for k, v := range d.Metadata {
		item.SetMeta(k, v)
	}
	if priority != "" {
		item.SetMeta(domain.MetaPriority, string(priority))
	}
	if d.Location != "" {
		item.SetMeta(domain.MetaLocation, d.Location)
	}
	if d.Frequency != "" {
		item.SetMeta(domain.MetaFrequency, strings.ToLower(d.Frequency))
	}

	if itemType == domain.ItemTypeRoutine {
		// Steps are the routine body; purpose is kept apart from them.
		if d.Steps != "" {
			item.Text = d.Steps
		}
		if d.Purpose != "" {
			item.SetMeta(domain.MetaPurpose, d.Purpose)
		}
		if _, ok := item.Metadata[domain.MetaStreak]; !ok {
			item.SetMeta(domain.MetaStreak, 0)
		}
		if _, ok := item.Metadata[domain.MetaBestStreak]; !ok {
			item.SetMeta(domain.MetaBestStreak, 0)
		}
		if _, ok := item.Metadata[domain.MetaCompletedDates]; !ok {
			item.SetMeta(domain.MetaCompletedDates, []string{})
		}
	} else if item.Text == "" && d.Steps != "" {
		item.Text = d.Steps
	}

	item.Metadata = domain.NormalizeMetadata(item.Metadata)
	return item, nil
}

// ValidateDraft checks a draft without building the item.
func ValidateDraft(d domain.ItemDraft, categories domain.CategorySet) error {
	_, err := BuildItem(d, categories)
	return err
}

// ValidateItem checks an item after a patch was applied to it.
func ValidateItem(item domain.Item, categories domain.CategorySet) error {
	switch {
	case strings.TrimSpace(item.Title) == "":
		return domain.NewValidationError("title", domain.ErrMissingField)
	case item.Type == "":
		return domain.NewValidationError("type", domain.ErrMissingField)
	case item.CategoryID == "":
		return domain.NewValidationError("categoryId", domain.ErrMissingField)
	case !item.Type.IsValid():
		return domain.NewValidationError("type", fmt.Errorf("%w: %q", domain.ErrInvalidType, item.Type))
	case !categories.Contains(item.CategoryID):
		return domain.NewValidationError("categoryId",
			fmt.Errorf("%w: %q", domain.ErrInvalidCategory, item.CategoryID))
	case item.Type == domain.ItemTypeEvent && item.DateTime == nil:
		return domain.NewValidationError("dateTime", domain.ErrMissingEventTime)
	}
	if p := item.Priority(); p != "" && !p.IsValid() {
		return domain.NewValidationError("priority", fmt.Errorf("%w: %q", domain.ErrInvalidPriority, p))
	}
	return nil
}

// patchFields lists the update keys understood by ParsePatch.
var patchFields = map[string]bool{
	"title": true, "text": true, "description": true, "steps": true, "type": true,
	"categoryId": true, "completed": true, "priority": true, "dueDate": true,
	"dateTime": true, "location": true, "frequency": true, "purpose": true, "metadata": true,
}

// ParsePatch converts raw updates into a typed patch. Unknown keys are
// skipped and reported as warnings; the first invalid known key fails the
// whole patch.
func ParsePatch(updates map[string]any) (domain.ItemPatch, []string, error) {
	var patch domain.ItemPatch
	warnings := []string{}

	keys := make([]string, 0, len(updates))
	for k := range updates {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		raw := updates[key]
		if !patchFields[key] {
			warnings = append(warnings, fmt.Sprintf("unknown update field %q ignored", key))
			continue
		}

		switch key {
		case "title":
			s, err := patchString(key, raw)
			if err != nil {
				return patch, warnings, err
			}
			s = strings.TrimSpace(s)
			if s == "" {
				return patch, warnings, domain.NewValidationError(key, domain.ErrMissingField)
			}
			patch.Title = &s
		case "text", "description", "steps":
			s, err := patchString(key, raw)
			if err != nil {
				return patch, warnings, err
			}
			patch.Text = &s
		case "type":
			s, err := patchString(key, raw)
			if err != nil {
				return patch, warnings, err
			}
			t, ok := domain.ParseItemType(s)
			if !ok {
				return patch, warnings, domain.NewValidationError(key, fmt.Errorf("%w: %q", domain.ErrInvalidType, s))
			}
			patch.Type = &t
		case "categoryId":
			s, err := patchString(key, raw)
			if err != nil {
				return patch, warnings, err
			}
			s = strings.TrimSpace(s)
			if s == "" {
				return patch, warnings, domain.NewValidationError(key, domain.ErrMissingField)
			}
			patch.CategoryID = &s
		case "completed":
			b, err := patchBool(key, raw)
			if err != nil {
				return patch, warnings, err
			}
			patch.Completed = &b
		case "priority":
			s, err := patchString(key, raw)
			if err != nil {
				return patch, warnings, err
			}
			p, err := parsePriority(s)
			if err != nil {
				return patch, warnings, err
			}
			if p == "" {
				return patch, warnings, domain.NewValidationError(key, fmt.Errorf("%w: empty", domain.ErrInvalidPriority))
			}
			patch.Priority = &p
		case "dueDate", "dateTime":
			tp, err := patchTime(key, raw)
			if err != nil {
				return patch, warnings, err
			}
			if key == "dueDate" {
				patch.DueDate = tp
			} else {
				patch.DateTime = tp
			}
		case "location", "frequency", "purpose":
			s, err := patchString(key, raw)
			if err != nil {
				return patch, warnings, err
			}
			if patch.Metadata == nil {
				patch.Metadata = make(map[string]any)
			}
			if key == "frequency" {
				s = strings.ToLower(s)
			}
			patch.Metadata[key] = s
		case "metadata":
			m, ok := raw.(map[string]any)
			if !ok {
				return patch, warnings, domain.NewValidationError(key, fmt.Errorf("%w: expected object", domain.ErrInvalidInput))
			}
			if patch.Metadata == nil {
				patch.Metadata = make(map[string]any, len(m))
			}
			for k, v := range m {
				patch.Metadata[k] = v
			}
		}
	}

	return patch, warnings, nil
}

func parseOptionalDate(field, value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := domain.ParseDate(value)
	if err != nil {
		return nil, domain.NewValidationError(field, err)
	}
	t = t.UTC()
	return &t, nil
}

func parsePriority(value string) (domain.Priority, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return "", nil
	}
	p := domain.Priority(value)
	if !p.IsValid() {
		return "", domain.NewValidationError("priority", fmt.Errorf("%w: %q", domain.ErrInvalidPriority, value))
	}
	return p, nil
}

func patchString(field string, raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return "", domain.NewValidationError(field, fmt.Errorf("%w: expected string, got %T", domain.ErrInvalidInput, raw))
	}
}

func patchBool(field string, raw any) (bool, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "1":
			return true, nil
		case "false", "no", "0":
			return false, nil
		}
	}
	return false, domain.NewValidationError(field, fmt.Errorf("%w: expected boolean, got %v", domain.ErrInvalidInput, raw))
}

// patchTime parses a date update. Nil or an empty string clears the field.
func patchTime(field string, raw any) (*domain.TimePatch, error) {
	switch v := raw.(type) {
	case nil:
		return &domain.TimePatch{}, nil
	case time.Time:
		v = v.UTC()
		return &domain.TimePatch{Value: &v}, nil
	case string:
		t, err := parseOptionalDate(field, v)
		if err != nil {
			return nil, err
		}
		return &domain.TimePatch{Value: t}, nil
	default:
		return nil, domain.NewValidationError(field, fmt.Errorf("%w: expected date string, got %T", domain.ErrInvalidDate, raw))
	}
}
