package driven

import (
	"context"

	"github.com/custodia-labs/lifeops/internal/core/domain"
)

// CalendarPublisher pushes event items to an external calendar.
type CalendarPublisher interface {
	// Publish creates one external event per item and returns the
	// external event ids in the same order.
	Publish(ctx context.Context, events []domain.Item) ([]string, error)
}
