package services

import (
	"log/slog"

	"github.com/lorrc/service-desk-realtime/internal/core/domain"
	"github.com/lorrc/service-desk-realtime/internal/core/ports"
)

// RealtimeBridge turns committed mutations into room events. It is the only
// entry point the mutation API uses, and it never reports failure back:
// realtime delivery must not affect the outcome of a write.
type RealtimeBridge struct {
	broadcaster ports.EventBroadcaster
	logger      *slog.Logger
}

var _ ports.RealtimeNotifier = (*RealtimeBridge)(nil)

// NewRealtimeBridge creates a bridge. A nil broadcaster makes every
// notification a no-op, which is how the API runs with realtime disabled.
func NewRealtimeBridge(broadcaster ports.EventBroadcaster, logger *slog.Logger) *RealtimeBridge {
	return &RealtimeBridge{
		broadcaster: broadcaster,
		logger:      logger.With("component", "realtime_bridge"),
	}
}

// NotifyReply publishes a newly persisted reply to its ticket room.
func (b *RealtimeBridge) NotifyReply(ticketID int64, reply any) {
	if !b.enabled() {
		return
	}
	projection, err := marshalEventPayload(domain.EventReply, reply)
	if err != nil {
		b.logger.Warn("dropping reply notification", "ticket_id", ticketID, "error", err)
		return
	}
	b.publish(domain.ReplyEvent{TicketID: ticketID, Reply: projection})
}

// NotifySeen publishes an updated read receipt to its ticket room.
func (b *RealtimeBridge) NotifySeen(ticketID int64, receipt domain.SeenReceipt) {
	if !b.enabled() {
		return
	}
	b.publish(domain.SeenEvent{TicketID: ticketID, Receipt: receipt.Clone()})
}

// NotifyInboxCreated announces a new ticket to the staff inbox.
func (b *RealtimeBridge) NotifyInboxCreated(ticket any) {
	if !b.enabled() {
		return
	}
	projection, err := marshalEventPayload(domain.EventTicketCreated, ticket)
	if err != nil {
		b.logger.Warn("dropping ticket_created notification", "error", err)
		return
	}
	b.publish(domain.TicketCreatedEvent{Ticket: projection})
}

// NotifyInboxUpdated announces a partial ticket change to the staff inbox.
func (b *RealtimeBridge) NotifyInboxUpdated(ticketID int64, delta domain.TicketDelta) {
	if !b.enabled() {
		return
	}
	b.publish(domain.TicketUpdatedEvent{TicketID: ticketID, Delta: delta.Clone()})
}

func (b *RealtimeBridge) enabled() bool {
	return b != nil && b.broadcaster != nil
}

func (b *RealtimeBridge) publish(event domain.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("broadcast panicked", "kind", event.Kind(), "panic", r)
		}
	}()

	b.broadcaster.Publish(event.Room(), event)
	b.logger.Debug("event published", "kind", event.Kind(), "room", event.Room().String())
}
