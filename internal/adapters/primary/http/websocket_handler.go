package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	wsAdapter "github.com/lorrc/service-desk-realtime/internal/adapters/primary/websocket"
	"github.com/lorrc/service-desk-realtime/internal/adapters/primary/validation"
	"github.com/lorrc/service-desk-realtime/internal/config"
)

// WebSocketHandler upgrades connections for the ticket rooms and the admin
// inbox and hands them to the gateway.
type WebSocketHandler struct {
	gateway      *wsAdapter.Gateway
	upgrader     websocket.Upgrader
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(
	gateway *wsAdapter.Gateway,
	cfg *config.Config,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *WebSocketHandler {
	handler := &WebSocketHandler{
		gateway:      gateway,
		errorHandler: errorHandler,
		logger:       logger,
	}

	handler.upgrader = websocket.Upgrader{
		ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
		WriteBufferSize: cfg.WebSocket.WriteBufferSize,
		CheckOrigin:     handler.makeOriginChecker(cfg),
	}

	return handler
}

// RegisterRoutes mounts the room endpoints. The trailing slash is optional.
func (h *WebSocketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/tickets/{ticketID}", h.ServeTicketRoom)
	r.Get("/ws/tickets/{ticketID}/", h.ServeTicketRoom)
	r.Get("/ws/admin/inbox", h.ServeAdminInbox)
	r.Get("/ws/admin/inbox/", h.ServeAdminInbox)
}

// makeOriginChecker creates an origin checking function based on configuration
func (h *WebSocketHandler) makeOriginChecker(cfg *config.Config) func(r *http.Request) bool {
	allowedOrigins := cfg.WebSocket.AllowedOrigins

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")

		// In development mode, allow all origins (but log a warning)
		if cfg.IsDevelopment() {
			if origin != "" {
				h.logger.Debug("allowing websocket connection in development mode",
					"origin", origin,
					"remote_addr", r.RemoteAddr,
				)
			}
			return true
		}

		// No origin header (same-origin request or non-browser client)
		if origin == "" {
			return true
		}

		parsedOrigin, err := url.Parse(origin)
		if err != nil {
			h.logger.Warn("failed to parse websocket origin",
				"origin", origin,
				"error", err,
			)
			return false
		}

		if originAllowed(parsedOrigin.Host, allowedOrigins) {
			return true
		}

		h.logger.Warn("websocket connection rejected due to origin",
			"origin", origin,
			"remote_addr", r.RemoteAddr,
			"allowed_origins", allowedOrigins,
		)
		return false
	}
}

// originAllowed matches host against exact hosts and "*.domain" wildcards.
// A wildcard also admits the bare domain.
func originAllowed(host string, allowed []string) bool {
	for _, pattern := range allowed {
		if strings.HasPrefix(pattern, "*.") {
			suffix := pattern[1:]
			if strings.HasSuffix(host, suffix) || host == pattern[2:] {
				return true
			}
		} else if host == pattern {
			return true
		}
	}
	return false
}

// ServeTicketRoom handles GET /ws/tickets/{ticketID}/?token=...
func (h *WebSocketHandler) ServeTicketRoom(w http.ResponseWriter, r *http.Request) {
	ticketID, err := validation.ParseTicketID(chi.URLParam(r, "ticketID"))
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already written an HTTP error response.
		h.logger.WarnContext(r.Context(), "failed to upgrade websocket connection",
			"ticket_id", ticketID,
			"error", err,
		)
		return
	}

	// The token is resolved after the upgrade so a refusal can carry its
	// close code.
	h.gateway.ServeTicketRoom(r.Context(), conn, ticketID, r.URL.Query().Get("token"))
}

// ServeAdminInbox handles GET /ws/admin/inbox/?token=...
func (h *WebSocketHandler) ServeAdminInbox(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(r.Context(), "failed to upgrade websocket connection", "error", err)
		return
	}

	h.gateway.ServeAdminInbox(r.Context(), conn, r.URL.Query().Get("token"))
}
