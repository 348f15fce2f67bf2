package google

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/custodia-labs/lifeops/internal/core/domain"
	"github.com/custodia-labs/lifeops/internal/core/ports/driven"
	"github.com/custodia-labs/lifeops/internal/logger"
)

// Ensure Publisher implements the interface.
var _ driven.CalendarPublisher = (*Publisher)(nil)

const (
	defaultCalendarID = "primary"
	defaultDuration   = time.Hour

	// PropertyItemID is the private extended property holding the item id.
	PropertyItemID = "lifeopsItemId"

	// MetaDurationMinutes optionally sets the event length on an item.
	MetaDurationMinutes = "durationMinutes"
)

// Config configures the publisher.
type Config struct {
	CalendarID string
	Token      string
	RateLimit  RateLimitConfig
	// Options are appended to the client options; tests use them to point
	// the service at a local server.
	Options []option.ClientOption
}

// Publisher inserts events into a Google calendar.
type Publisher struct {
	svc        *calendar.Service
	calendarID string
	limiter    *RateLimiter
}

// NewPublisher creates a publisher authenticated by a static access token.
func NewPublisher(ctx context.Context, cfg Config) (*Publisher, error) {
	opts := cfg.Options
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token, TokenType: "Bearer"})
		opts = append([]option.ClientOption{option.WithTokenSource(ts)}, opts...)
	} else if len(opts) == 0 {
		return nil, fmt.Errorf("%w: google calendar token required", domain.ErrInvalidInput)
	}

	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}

	calendarID := cfg.CalendarID
	if calendarID == "" {
		calendarID = defaultCalendarID
	}
	rl := cfg.RateLimit
	if rl.RequestsPerSecond <= 0 {
		rl = DefaultRateLimit
	}
	return &Publisher{svc: svc, calendarID: calendarID, limiter: NewRateLimiter(rl)}, nil
}

// Publish inserts every event and returns the created calendar event ids
// in input order. It stops at the first failure and returns the ids
// created so far alongside the error.
func (p *Publisher) Publish(ctx context.Context, events []domain.Item) ([]string, error) {
	ids := make([]string, 0, len(events))
	for _, item := range events {
		ev, err := toCalendarEvent(item)
		if err != nil {
			return ids, err
		}
		if err := p.limiter.Wait(ctx); err != nil {
			return ids, err
		}

		created, err := p.svc.Events.Insert(p.calendarID, ev).Context(ctx).Do()
		if err != nil {
			if d := retryAfter(err); d > 0 || errors.Is(wrapError(err), ErrRateLimited) {
				p.limiter.Backoff(d)
			}
			return ids, fmt.Errorf("insert event %q: %w", item.Title, wrapError(err))
		}
		logger.Debug("published %s as calendar event %s", item.ID, created.Id)
		ids = append(ids, created.Id)
	}
	return ids, nil
}

func toCalendarEvent(item domain.Item) (*calendar.Event, error) {
	if item.Type != domain.ItemTypeEvent || item.DateTime == nil {
		return nil, fmt.Errorf("publish %q: %w", item.ID, domain.ErrMissingEventTime)
	}
	start := *item.DateTime
	end := start.Add(eventDuration(item))

	ev := &calendar.Event{
		Summary:     item.Title,
		Description: item.Text,
		Start:       &calendar.EventDateTime{DateTime: start.Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: end.Format(time.RFC3339)},
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{PropertyItemID: item.ID},
		},
	}
	if loc, ok := item.Metadata[domain.MetaLocation].(string); ok {
		ev.Location = loc
	}
	return ev, nil
}

func eventDuration(item domain.Item) time.Duration {
	switch v := item.Metadata[MetaDurationMinutes].(type) {
	case int:
		if v > 0 {
			return time.Duration(v) * time.Minute
		}
	case int64:
		if v > 0 {
			return time.Duration(v) * time.Minute
		}
	case float64:
		if v > 0 {
			return time.Duration(v * float64(time.Minute))
		}
	}
	return defaultDuration
}
