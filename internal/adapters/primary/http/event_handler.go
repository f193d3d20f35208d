package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lorrc/service-desk-realtime/internal/adapters/primary/validation"
	"github.com/lorrc/service-desk-realtime/internal/core/domain"
	"github.com/lorrc/service-desk-realtime/internal/core/ports"
)

// EventHandler is the ingress the mutation API calls after a write commits.
// Every accepted request is handed to the realtime notifier and answered with
// 202; delivery to sessions is best-effort.
type EventHandler struct {
	notifier     ports.RealtimeNotifier
	errorHandler *ErrorHandler
	logger       *slog.Logger
	maxBody      int64
}

// NewEventHandler creates a new event ingress handler
func NewEventHandler(notifier ports.RealtimeNotifier, errorHandler *ErrorHandler, maxBody int64, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		notifier:     notifier,
		errorHandler: errorHandler,
		logger:       logger,
		maxBody:      maxBody,
	}
}

// RegisterRoutes mounts the ingress routes on r. Authentication is applied by
// the caller.
func (h *EventHandler) RegisterRoutes(r chi.Router) {
	r.Route("/internal/realtime", func(r chi.Router) {
		r.Post("/tickets/{ticketID}/replies", h.HandleReply)
		r.Post("/tickets/{ticketID}/seen", h.HandleSeen)
		r.Post("/inbox/tickets", h.HandleTicketCreated)
		r.Patch("/inbox/tickets/{ticketID}", h.HandleTicketUpdated)
	})
}

type replyRequest struct {
	Reply json.RawMessage `json:"reply"`
}

func (req *replyRequest) Validate(v *validation.Validator) {
	v.JSONObject("reply", req.Reply)
}

type ticketCreatedRequest struct {
	Ticket json.RawMessage `json:"ticket"`
}

func (req *ticketCreatedRequest) Validate(v *validation.Validator) {
	v.JSONObject("ticket", req.Ticket)
}

type ticketUpdatedRequest struct {
	Delta map[string]any `json:"delta"`
}

func (req *ticketUpdatedRequest) Validate(v *validation.Validator) {
	v.Custom("delta", req.Delta != nil, "This field is required")
}

// HandleReply handles POST /internal/realtime/tickets/{ticketID}/replies
func (h *EventHandler) HandleReply(w http.ResponseWriter, r *http.Request) {
	ticketID, err := validation.ParseTicketID(chi.URLParam(r, "ticketID"))
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	req, err := validation.DecodeAndValidate[replyRequest](r, h.maxBody)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	h.notifier.NotifyReply(ticketID, req.Reply)
	h.logger.DebugContext(r.Context(), "reply event accepted", "ticket_id", ticketID)
	WriteAccepted(w, string(domain.EventReply))
}

// HandleSeen handles POST /internal/realtime/tickets/{ticketID}/seen. The body
// is the receipt itself.
func (h *EventHandler) HandleSeen(w http.ResponseWriter, r *http.Request) {
	ticketID, err := validation.ParseTicketID(chi.URLParam(r, "ticketID"))
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	receipt, err := validation.DecodeAndValidate[map[string]any](r, h.maxBody)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	h.notifier.NotifySeen(ticketID, domain.SeenReceipt(*receipt))
	h.logger.DebugContext(r.Context(), "seen event accepted", "ticket_id", ticketID)
	WriteAccepted(w, string(domain.EventSeen))
}

// HandleTicketCreated handles POST /internal/realtime/inbox/tickets
func (h *EventHandler) HandleTicketCreated(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[ticketCreatedRequest](r, h.maxBody)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	h.notifier.NotifyInboxCreated(req.Ticket)
	h.logger.DebugContext(r.Context(), "ticket_created event accepted")
	WriteAccepted(w, string(domain.EventTicketCreated))
}

// HandleTicketUpdated handles PATCH /internal/realtime/inbox/tickets/{ticketID}
func (h *EventHandler) HandleTicketUpdated(w http.ResponseWriter, r *http.Request) {
	ticketID, err := validation.ParseTicketID(chi.URLParam(r, "ticketID"))
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	req, err := validation.DecodeAndValidate[ticketUpdatedRequest](r, h.maxBody)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	h.notifier.NotifyInboxUpdated(ticketID, domain.TicketDelta(req.Delta))
	h.logger.DebugContext(r.Context(), "ticket_updated event accepted", "ticket_id", ticketID)
	WriteAccepted(w, string(domain.EventTicketUpdated))
}
