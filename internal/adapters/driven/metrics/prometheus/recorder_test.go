package prometheus

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lifeops/internal/core/domain"
)

// counterValue returns the value of the counter family name with the given labels.
func counterValue(t *testing.T, r *Recorder, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := r.Registry().Gather()
	require.NoError(t, err)
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
		for _, m := range fam.GetMetric() {
			if labelsMatch(m, labels) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func labelsMatch(m *dto.Metric, want map[string]string) bool {
	got := make(map[string]string, len(m.GetLabel()))
	for _, lp := range m.GetLabel() {
		got[lp.GetName()] = lp.GetValue()
	}
	for k, v := range want {
		if got[k] != v {
			return false
		}
	}
	return true
}

func TestRecorder_ObserveBatch(t *testing.T) {
	r := NewRecorder()

	r.ObserveBatch("bulk_create", domain.BatchOutcome{Operations: 5, Successes: 4, Failures: 1, Committed: true}, 3*time.Millisecond)
	r.ObserveBatch("bulk_create", domain.BatchOutcome{Operations: 3, Successes: 1, Failures: 2}, time.Millisecond)

	assert.Equal(t, 5.0, counterValue(t, r, "lifeops_batch_operations_total", map[string]string{"kind": "bulk_create", "result": "success"}))
	assert.Equal(t, 3.0, counterValue(t, r, "lifeops_batch_operations_total", map[string]string{"kind": "bulk_create", "result": "failure"}))
	assert.Equal(t, 1.0, counterValue(t, r, "lifeops_batch_commits_total", map[string]string{"kind": "bulk_create", "decision": "commit"}))
	assert.Equal(t, 1.0, counterValue(t, r, "lifeops_batch_commits_total", map[string]string{"kind": "bulk_create", "decision": "rollback"}))
}

func TestRecorder_Handler(t *testing.T) {
	r := NewRecorder()
	r.ObserveBatch("program", domain.BatchOutcome{Operations: 1, Successes: 1, Committed: true}, time.Millisecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `lifeops_batch_duration_seconds_count{kind="program"} 1`)
}
