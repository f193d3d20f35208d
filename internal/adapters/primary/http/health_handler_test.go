package http

import (
	"context"
	"encoding/json"
	"errors"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wsAdapter "github.com/lorrc/service-desk-realtime/internal/adapters/primary/websocket"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type staticStats wsAdapter.Stats

func (s staticStats) Stats() wsAdapter.Stats { return wsAdapter.Stats(s) }

func serveHealth(t *testing.T, h *HealthHandler, path string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(stdhttp.MethodGet, path, nil))
	return rr
}

func TestHealthHandler_Liveness(t *testing.T) {
	rr := serveHealth(t, NewHealthHandler(nil, nil, "test"), "/health/live")
	assert.Equal(t, stdhttp.StatusOK, rr.Code)
}

func TestHealthHandler_Readiness(t *testing.T) {
	healthy := pingFunc(func(context.Context) error { return nil })
	failing := pingFunc(func(context.Context) error { return errors.New("connection refused") })

	rr := serveHealth(t, NewHealthHandler(healthy, nil, "test"), "/health/ready")
	assert.Equal(t, stdhttp.StatusOK, rr.Code)

	rr = serveHealth(t, NewHealthHandler(failing, nil, "test"), "/health/ready")
	assert.Equal(t, stdhttp.StatusServiceUnavailable, rr.Code)

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "unhealthy", resp.Status)
	assert.Equal(t, "connection refused", resp.Checks["database"].Message)
}

func TestHealthHandler_ReportsRealtimeStats(t *testing.T) {
	healthy := pingFunc(func(context.Context) error { return nil })
	h := NewHealthHandler(healthy, staticStats{Rooms: 3, Sessions: 7}, "1.2.3")

	rr := serveHealth(t, h, "/health")
	require.Equal(t, stdhttp.StatusOK, rr.Code)

	var resp struct {
		Status   string          `json:"status"`
		Version  string          `json:"version"`
		Realtime wsAdapter.Stats `json:"realtime"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
	assert.Equal(t, wsAdapter.Stats{Rooms: 3, Sessions: 7}, resp.Realtime)
}
