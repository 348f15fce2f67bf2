package routine

import (
	"sort"
	"time"

	"github.com/custodia-labs/lifeops/internal/core/domain"
)

// Range limits in days.
const (
	MinDays = 1
	MaxDays = 90
)

// ClampDays bounds days to [MinDays, MaxDays].
func ClampDays(days int) int {
	return min(max(days, MinDays), MaxDays)
}

// Expand schedules every activity on each day of [start, start+days) that
// the plan's frequency includes. Weekly plans land on start's weekday.
// Times are wall clock times in start's location.
func Expand(plan domain.RoutinePlan, start time.Time, days int) []domain.ScheduledActivity {
	days = ClampDays(days)
	y, m, d := start.Date()
	anchor := time.Date(y, m, d, 0, 0, 0, 0, start.Location())

	out := make([]domain.ScheduledActivity, 0, days*len(plan.Activities))
	for i := 0; i < days; i++ {
		day := anchor.AddDate(0, 0, i)
		if !plan.Frequency.Includes(day, anchor) {
			continue
		}
		for _, a := range plan.Activities {
			at := time.Date(day.Year(), day.Month(), day.Day(), a.Hour, a.Minute, 0, 0, day.Location())
			out = append(out, domain.ScheduledActivity{Activity: a, At: at})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out
}
