package mcp

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil item service returns error", func(t *testing.T) {
		ports := &Ports{}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingItemService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		server, err := NewServer(requiredPorts())
		require.NoError(t, err)
		assert.NotNil(t, server)
	})

	t.Run("optional ports register extra tools", func(t *testing.T) {
		ports := requiredPorts()
		ports.Routine = &mockRoutineService{}
		ports.Sync = &mockSyncService{}
		ports.Settings = &mockSettingsService{}
		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ports   *Ports
		wantErr error
	}{
		{"empty", &Ports{}, ErrMissingItemService},
		{"items only", &Ports{Items: &mockItemService{}}, ErrMissingBulkService},
		{"no program", &Ports{Items: &mockItemService{}, Bulk: &mockBulkService{}}, ErrMissingProgramService},
		{"required set", requiredPorts(), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestServer_Handler(t *testing.T) {
	t.Run("metrics mounted", func(t *testing.T) {
		metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, "lifeops_batch_operations_total 1\n")
		})
		server, err := NewServer(requiredPorts(), WithMetricsHandler(metrics))
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "lifeops_batch_operations_total")
	})

	t.Run("no metrics handler", func(t *testing.T) {
		server, err := NewServer(requiredPorts())
		require.NoError(t, err)
		assert.NotNil(t, server.Handler())
	})
}
