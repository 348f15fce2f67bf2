package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lifeops/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/lifeops/internal/core/domain"
	"github.com/custodia-labs/lifeops/internal/core/ports/driven"
)

// testNow is Monday 2026-10-19 10:00 UTC.
var testNow = time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

type observation struct {
	kind    string
	outcome domain.BatchOutcome
}

type recordingMetrics struct {
	mu  sync.Mutex
	obs []observation
}

func (m *recordingMetrics) ObserveBatch(kind string, outcome domain.BatchOutcome, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.obs = append(m.obs, observation{kind: kind, outcome: outcome})
}

func (m *recordingMetrics) observations() []observation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]observation(nil), m.obs...)
}

// countingStore counts loads and saves of the wrapped store.
type countingStore struct {
	driven.ItemStore
	loads, saves int
	saveErr      error
}

func (c *countingStore) Load(ctx context.Context) (domain.Collection, error) {
	c.loads++
	return c.ItemStore.Load(ctx)
}

func (c *countingStore) Save(ctx context.Context, items domain.Collection) error {
	c.saves++
	if c.saveErr != nil {
		return c.saveErr
	}
	return c.ItemStore.Save(ctx, items)
}

type testEnv struct {
	slots   *memory.SlotStore
	store   *countingStore
	engine  *Engine
	metrics *recordingMetrics
}

func newTestEnv(t *testing.T, opts ...EngineOption) *testEnv {
	t.Helper()
	slots := memory.NewSlotStore()
	store := &countingStore{ItemStore: NewItemStore(slots, "")}
	metrics := &recordingMetrics{}

	seq := 0
	base := []EngineOption{
		WithClock(func() time.Time { return testNow }),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		}),
		WithRand(rand.New(rand.NewPCG(1, 2))),
		WithMetrics(metrics),
	}
	engine := NewEngine(store, domain.DefaultSettings(), append(base, opts...)...)
	return &testEnv{slots: slots, store: store, engine: engine, metrics: metrics}
}

func (e *testEnv) seed(t *testing.T, items ...domain.Item) {
	t.Helper()
	require.NoError(t, e.store.ItemStore.Save(context.Background(), items))
}

func (e *testEnv) items(t *testing.T) domain.Collection {
	t.Helper()
	items, err := e.store.ItemStore.Load(context.Background())
	require.NoError(t, err)
	return items
}

// newItem returns a stored item created n minutes before testNow.
func newItem(id, title string, typ domain.ItemType, n int) domain.Item {
	created := testNow.Add(-time.Duration(n) * time.Minute)
	item := domain.Item{
		ID:         id,
		Title:      title,
		Type:       typ,
		CategoryID: "personal",
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	if typ == domain.ItemTypeEvent {
		at := testNow.Add(24 * time.Hour)
		item.DateTime = &at
	}
	return item
}

// manyTodos returns n todos created in id order.
func manyTodos(n int) []domain.Item {
	items := make([]domain.Item, n)
	for i := range items {
		items[i] = newItem(fmt.Sprintf("todo-%03d", i), fmt.Sprintf("Task %d", i), domain.ItemTypeTodo, n-i)
	}
	return items
}

func todoDraft(title string) domain.ItemDraft {
	return domain.ItemDraft{Title: title, Type: "todo", CategoryID: "personal"}
}

func titlesOf(items []domain.Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Title
	}
	return out
}
