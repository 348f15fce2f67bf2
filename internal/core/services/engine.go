package services

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/lifeops/internal/core/domain"
	"github.com/custodia-labs/lifeops/internal/core/ports/driven"
)

// Engine holds what every mutating service needs to build transactions:
// the item store, the category set and the commit policy.
type Engine struct {
	store           driven.ItemStore
	categories      domain.CategorySet
	defaultCategory string
	policy          CommitPolicy
	metrics         driven.MetricsRecorder
	now             func() time.Time
	newID           func() string
	rng             *rand.Rand
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator replaces the uuid item id generator.
func WithIDGenerator(newID func() string) EngineOption {
	return func(e *Engine) { e.newID = newID }
}

// WithRand sets the source used to shuffle "random" selections.
func WithRand(rng *rand.Rand) EngineOption {
	return func(e *Engine) { e.rng = rng }
}

// WithMetrics sets the batch metrics recorder.
func WithMetrics(m driven.MetricsRecorder) EngineOption {
	return func(e *Engine) { e.metrics = m }
}

// WithCommitPolicy overrides the policy derived from settings.
func WithCommitPolicy(p CommitPolicy) EngineOption {
	return func(e *Engine) { e.policy = p }
}

// NewEngine creates an engine from settings.
func NewEngine(store driven.ItemStore, settings domain.Settings, opts ...EngineOption) *Engine {
	e := &Engine{
		store:           store,
		categories:      settings.CategorySet(),
		defaultCategory: settings.Items.DefaultCategory,
		policy:          PolicyFor(settings.Engine.CommitPolicy),
		metrics:         NopMetrics{},
		now:             time.Now,
		newID:           uuid.NewString,
		rng:             rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x6c6966656f7073)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Categories returns the category set items are validated against.
func (e *Engine) Categories() domain.CategorySet {
	return e.categories
}

// Store returns the item store.
func (e *Engine) Store() driven.ItemStore {
	return e.store
}

// Begin starts a transaction labelled kind for metrics.
func (e *Engine) Begin(kind string) *Transaction {
	return &Transaction{
		kind:       kind,
		store:      e.store,
		categories: e.categories,
		policy:     e.policy,
		metrics:    e.metrics,
		now:        e.now,
		newID:      e.newID,
	}
}

// NopMetrics discards batch observations.
type NopMetrics struct{}

// ObserveBatch does nothing.
func (NopMetrics) ObserveBatch(string, domain.BatchOutcome, time.Duration) {}
