package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/lifeops/internal/core/domain"
	"github.com/custodia-labs/lifeops/internal/core/ports/driven"
	"github.com/custodia-labs/lifeops/internal/core/ports/driving"
	"github.com/custodia-labs/lifeops/internal/logger"
	"github.com/custodia-labs/lifeops/internal/routine"
)

// Ensure RoutineService implements the interface.
var _ driving.RoutineService = (*RoutineService)(nil)

// RoutineService turns routine descriptions into event items.
type RoutineService struct {
	engine      *Engine
	parser      *routine.Parser
	publisher   driven.CalendarPublisher
	defaultDays int
}

// NewRoutineService creates a new routine service. publisher may be nil.
func NewRoutineService(
	engine *Engine,
	parser *routine.Parser,
	publisher driven.CalendarPublisher,
	defaultDays int,
) *RoutineService {
	if defaultDays <= 0 {
		defaultDays = 7
	}
	return &RoutineService{
		engine:      engine,
		parser:      parser,
		publisher:   publisher,
		defaultDays: defaultDays,
	}
}

// ParseRoutineToCalendar parses the description, expands it across the
// requested range and creates the events in one transaction.
func (s *RoutineService) ParseRoutineToCalendar(ctx context.Context, req domain.RoutineRequest) (*domain.RoutineResult, error) {
	logger.Section("Routine")
	result := &domain.RoutineResult{
		BulkOperationResult: *domain.NewBulkOperationResult(),
		Published:           []string{},
	}

	desc := strings.TrimSpace(req.Description)
	if desc == "" {
		result.Refuse(domain.NewValidationError("routineDescription", domain.ErrMissingField))
		return result, nil
	}
	if req.Frequency != "" && !req.Frequency.IsValid() {
		result.Refuse(fmt.Errorf("%w: frequency %q", domain.ErrInvalidInput, req.Frequency))
		return result, nil
	}

	start := req.Start
	if start.IsZero() {
		start = s.engine.now()
	}
	days := req.Days
	if days == 0 {
		days = s.defaultDays
	}
	if clamped := routine.ClampDays(days); clamped != days {
		result.Warn(fmt.Sprintf("range of %d days clamped to %d", days, clamped))
		days = clamped
	}

	plan := s.parser.Parse(desc, routine.Options{Frequency: req.Frequency})
	plan.Schedule = routine.Expand(plan, start, days)
	result.Plan = plan
	if plan.Fallback {
		result.Warn("no routine pattern recognised, scheduled the description as a single activity")
	}
	logger.Debug("routine plan: template=%q frequency=%s activities=%d events=%d",
		plan.Template, plan.Frequency, len(plan.Activities), len(plan.Schedule))

	if len(plan.Schedule) == 0 {
		result.Warn(fmt.Sprintf("no %s days in the %d day range", plan.Frequency, days))
		return result, nil
	}
	if req.DryRun {
		result.Success = true
		result.Warn(fmt.Sprintf("dry run: %d events not saved", len(plan.Schedule)))
		return result, nil
	}

	tx := s.engine.Begin("routine")
	for _, sa := range plan.Schedule {
		draft := s.eventDraft(sa, req.CategoryID, desc, plan.Frequency)
		if err := tx.Add(domain.CreateOp{Draft: draft}); err != nil {
			return nil, err
		}
	}
	txr, err := tx.Execute(ctx)
	if err != nil {
		return nil, err
	}
	foldTx(&result.BulkOperationResult, txr, nil)

	if req.Publish && txr.Committed {
		s.publish(ctx, txr, result)
	}
	return result, nil
}

func (s *RoutineService) eventDraft(sa domain.ScheduledActivity, requested, desc string, freq domain.Frequency) domain.ItemDraft {
	category := sa.Category
	if !s.engine.categories.Contains(category) {
		category = requested
	}
	if !s.engine.categories.Contains(category) {
		category = s.engine.defaultCategory
	}

	return domain.ItemDraft{
		Title:      sa.Title,
		Text:       sa.Body,
		Type:       string(domain.ItemTypeEvent),
		CategoryID: category,
		Priority:   string(sa.Priority),
		DateTime:   sa.At.Format(time.RFC3339),
		Location:   sa.Location,
		Frequency:  string(freq),
		Metadata: map[string]any{
			domain.MetaCreatedByAutomation: true,
			domain.MetaRoutineSource:       desc,
		},
	}
}

func (s *RoutineService) publish(ctx context.Context, txr *TxResult, result *domain.RoutineResult) {
	if s.publisher == nil {
		result.Warn("calendar publishing is not configured")
		return
	}
	events := make([]domain.Item, 0, len(txr.Outcomes))
	for _, oc := range txr.Outcomes {
		if oc.Err == nil && oc.Output != nil && oc.Output.Item != nil {
			events = append(events, *oc.Output.Item)
		}
	}
	ids, err := s.publisher.Publish(ctx, events)
	if err != nil {
		logger.Warn("publish routine events: %v", err)
		result.Warn(fmt.Sprintf("publishing to calendar failed: %v", err))
	}
	result.Published = append(result.Published, ids...)
}
