package domain

import "time"

// Frequency controls which days of a range a routine lands on.
type Frequency string

// Available frequencies.
const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyWeekdays Frequency = "weekdays"
	FrequencyWeekends Frequency = "weekends"
)

// IsValid returns true if the frequency is recognised.
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyWeekdays, FrequencyWeekends:
		return true
	default:
		return false
	}
}

// Includes reports whether day is part of the schedule. Weekly schedules
// land on the anchor's weekday.
func (f Frequency) Includes(day, anchor time.Time) bool {
	switch f {
	case FrequencyWeekly:
		return day.Weekday() == anchor.Weekday()
	case FrequencyWeekdays:
		wd := day.Weekday()
		return wd != time.Saturday && wd != time.Sunday
	case FrequencyWeekends:
		wd := day.Weekday()
		return wd == time.Saturday || wd == time.Sunday
	default:
		return true
	}
}

// Activity is one timed step of a routine.
type Activity struct {
	Title    string   `json:"title" yaml:"title"`
	Body     string   `json:"body,omitempty" yaml:"body"`
	Hour     int      `json:"hour" yaml:"hour"`
	Minute   int      `json:"minute" yaml:"minute"`
	Category string   `json:"category,omitempty" yaml:"category"`
	Priority Priority `json:"priority,omitempty" yaml:"priority"`
	Location string   `json:"location,omitempty" yaml:"location"`
}

// ScheduledActivity is an activity pinned to a concrete instant.
type ScheduledActivity struct {
	Activity
	At time.Time `json:"at"`
}

// RoutineRequest is the input to parseRoutineToCalendar.
type RoutineRequest struct {
	Description string
	// Start is the first day of the range. Zero means today.
	Start time.Time
	// Days is the range length. Zero means the configured default.
	Days int
	// Frequency overrides the inferred frequency when set.
	Frequency Frequency
	// CategoryID replaces activity categories outside the category set.
	CategoryID string
	// DryRun previews the events without persisting them.
	DryRun bool
	// Publish also pushes created events to the calendar publisher.
	Publish bool
}

// RoutinePlan is what the parser extracted, before persistence.
type RoutinePlan struct {
	Template   string              `json:"template,omitempty"`
	Frequency  Frequency           `json:"frequency"`
	Activities []Activity          `json:"activities"`
	Schedule   []ScheduledActivity `json:"schedule"`
	Fallback   bool                `json:"fallback"`
}

// RoutineResult is the outcome of parseRoutineToCalendar.
type RoutineResult struct {
	BulkOperationResult
	Plan RoutinePlan `json:"plan"`
	// Published holds external calendar event ids when publishing was requested.
	Published []string `json:"published"`
}
