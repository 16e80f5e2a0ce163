package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iudanet/xbookmarks/pkg/api"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler_Health(t *testing.T) {
	tests := []struct {
		storage     Pinger
		name        string
		wantStatus  int
		wantState   string
		wantStorage string
	}{
		{name: "no storage", storage: nil, wantStatus: http.StatusOK, wantState: "ok"},
		{name: "storage up", storage: setupTestStorage(t), wantStatus: http.StatusOK, wantState: "ok", wantStorage: "ok"},
		{
			name:        "storage down",
			storage:     pingFunc(func(context.Context) error { return errors.New("closed") }),
			wantStatus:  http.StatusServiceUnavailable,
			wantState:   "degraded",
			wantStorage: "unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(setupTestLogger(), tt.storage, "v1.2.3")

			req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
			w := httptest.NewRecorder()
			handler.Health(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var health api.HealthResponse
			env := envelope(t, w, &health)
			assert.Equal(t, tt.wantStatus, env.StatusCode)
			assert.Equal(t, tt.wantState, health.Status)
			assert.Equal(t, tt.wantStorage, health.Storage)
			assert.Equal(t, "v1.2.3", health.Version)
		})
	}
}
