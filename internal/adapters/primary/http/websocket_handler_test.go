package http

import (
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wsAdapter "github.com/lorrc/service-desk-realtime/internal/adapters/primary/websocket"
	"github.com/lorrc/service-desk-realtime/internal/config"
	"github.com/lorrc/service-desk-realtime/internal/core/services"
)

func TestOriginAllowed(t *testing.T) {
	allowed := []string{"app.example.com", "*.support.io"}

	tests := []struct {
		host string
		want bool
	}{
		{"app.example.com", true},
		{"evil.example.com", false},
		{"eu.support.io", true},
		{"support.io", true},
		{"notsupport.io", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, originAllowed(tt.host, allowed), tt.host)
	}
}

func newWebSocketServer(t *testing.T, env string, origins []string) *httptest.Server {
	t.Helper()
	logger := discardLogger()

	hub := wsAdapter.NewHub(logger)
	gateway := wsAdapter.NewGateway(
		hub,
		services.NewIdentityResolver(nil, logger),
		services.NewRoomAuthorizer(nil, logger),
		services.NewAuthorLookupService(nil, logger),
		wsAdapter.Options{PingInterval: time.Hour},
		logger,
	)
	cfg := &config.Config{
		App:       config.AppConfig{Environment: env},
		WebSocket: config.WebSocketConfig{AllowedOrigins: origins, ReadBufferSize: 1024, WriteBufferSize: 1024},
	}

	r := chi.NewRouter()
	NewWebSocketHandler(gateway, cfg, NewErrorHandler(logger), logger).RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		srv.Close()
		hub.Close()
	})
	return srv
}

func wsURL(srv *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + path
}

func TestWebSocketHandler_AnonymousTicketRoomGetsUnauthorizedClose(t *testing.T) {
	srv := newWebSocketServer(t, "development", nil)

	for _, path := range []string{"/ws/tickets/42/", "/ws/tickets/42"} {
		conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, path), nil)
		require.NoError(t, err, path)

		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, _, err = conn.ReadMessage()
		assert.True(t, websocket.IsCloseError(err, wsAdapter.CloseUnauthorized), "path %s: %v", path, err)
		conn.Close()
	}
}

func TestWebSocketHandler_AnonymousInboxGetsForbiddenClose(t *testing.T) {
	srv := newWebSocketServer(t, "development", nil)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/admin/inbox/?token=nope"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, wsAdapter.CloseForbidden), "%v", err)
}

func TestWebSocketHandler_InvalidTicketID(t *testing.T) {
	srv := newWebSocketServer(t, "development", nil)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/tickets/abc/"), nil)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, stdhttp.StatusBadRequest, resp.StatusCode)
}

func TestWebSocketHandler_OriginCheckInProduction(t *testing.T) {
	srv := newWebSocketServer(t, "production", []string{"app.example.com"})

	header := stdhttp.Header{"Origin": []string{"https://evil.example.org"}}
	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/admin/inbox/"), header)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, stdhttp.StatusForbidden, resp.StatusCode)

	header = stdhttp.Header{"Origin": []string{"https://app.example.com"}}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/admin/inbox/"), header)
	require.NoError(t, err)
	conn.Close()
}
