package routine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lifeops/internal/core/domain"
)

// monday is 2026-10-19.
var monday = time.Date(2026, 10, 19, 15, 45, 0, 0, time.UTC)

func TestExpand_Daily(t *testing.T) {
	plan := domain.RoutinePlan{
		Frequency: domain.FrequencyDaily,
		Activities: []domain.Activity{
			{Title: "Read", Hour: 21},
			{Title: "Run", Hour: 6, Minute: 30, Location: "Park"},
		},
	}

	got := Expand(plan, monday, 2)

	require.Len(t, got, 4)
	assert.Equal(t, "Run", got[0].Title)
	assert.Equal(t, time.Date(2026, 10, 19, 6, 30, 0, 0, time.UTC), got[0].At)
	assert.Equal(t, "Park", got[0].Location)
	assert.Equal(t, "Read", got[1].Title)
	assert.Equal(t, time.Date(2026, 10, 20, 21, 0, 0, 0, time.UTC), got[3].At)
}

func TestExpand_Frequencies(t *testing.T) {
	acts := []domain.Activity{{Title: "X", Hour: 8}}
	tests := []struct {
		freq domain.Frequency
		want int
	}{
		{domain.FrequencyDaily, 14},
		{domain.FrequencyWeekdays, 10},
		{domain.FrequencyWeekends, 4},
		{domain.FrequencyWeekly, 2},
	}

	for _, tt := range tests {
		t.Run(string(tt.freq), func(t *testing.T) {
			got := Expand(domain.RoutinePlan{Frequency: tt.freq, Activities: acts}, monday, 14)
			assert.Len(t, got, tt.want)
			for _, sa := range got {
				if tt.freq == domain.FrequencyWeekly {
					assert.Equal(t, time.Monday, sa.At.Weekday())
				}
			}
		})
	}
}

func TestExpand_KeepsLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	start := time.Date(2026, 10, 19, 23, 30, 0, 0, loc)

	got := Expand(domain.RoutinePlan{Frequency: domain.FrequencyDaily, Activities: []domain.Activity{{Title: "X", Hour: 7}}}, start, 1)

	require.Len(t, got, 1)
	assert.Equal(t, 7, got[0].At.Hour())
	assert.Equal(t, loc, got[0].At.Location())
	assert.Equal(t, 19, got[0].At.Day())
}

func TestClampDays(t *testing.T) {
	assert.Equal(t, MinDays, ClampDays(-4))
	assert.Equal(t, MinDays, ClampDays(0))
	assert.Equal(t, 30, ClampDays(30))
	assert.Equal(t, MaxDays, ClampDays(365))
}
