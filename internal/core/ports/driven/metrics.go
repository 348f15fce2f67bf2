package driven

import (
	"time"

	"github.com/custodia-labs/lifeops/internal/core/domain"
)

// MetricsRecorder observes executed batches.
type MetricsRecorder interface {
	// ObserveBatch records one executed transaction of the given kind
	// (create, update, delete, program, routine, item).
	ObserveBatch(kind string, outcome domain.BatchOutcome, elapsed time.Duration)
}
