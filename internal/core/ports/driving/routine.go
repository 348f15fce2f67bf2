package driving

import (
	"context"

	"github.com/custodia-labs/lifeops/internal/core/domain"
)

// RoutineService turns routine descriptions into calendar events.
type RoutineService interface {
	// ParseRoutineToCalendar extracts activities from the description and
	// creates one event per activity per scheduled day.
	ParseRoutineToCalendar(ctx context.Context, req domain.RoutineRequest) (*domain.RoutineResult, error)
}
