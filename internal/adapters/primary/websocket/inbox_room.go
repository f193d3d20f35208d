package websocket

import (
	"context"

	"github.com/lorrc/service-desk-realtime/internal/core/domain"
	apperrors "github.com/lorrc/service-desk-realtime/internal/core/errors"
)

// inboxRoom is the staff-only feed of ticket creations and updates. Clients
// only listen; apart from ping every inbound frame is ignored.
type inboxRoom struct{}

func (inboxRoom) translate(event domain.Event) (any, error) {
	switch e := event.(type) {
	case domain.TicketCreatedEvent:
		return ticketCreatedMessage{Type: typeTicketCreated, Ticket: e.Ticket}, nil
	case domain.TicketUpdatedEvent:
		return ticketUpdatedMessage{Type: typeTicketUpdated, TicketID: e.TicketID, Delta: e.Delta}, nil
	case domain.ReplyEvent, domain.TypingEvent, domain.SeenEvent:
		return nil, apperrors.ErrUnroutableEvent
	default:
		return nil, apperrors.ErrUnroutableEvent
	}
}

func (inboxRoom) handleMessage(ctx context.Context, c *Client, msg inboundMessage) {
	if msg.Type != typePing {
		return
	}
	if err := c.enqueue(newPong()); err != nil {
		c.logger.Debug("pong dropped", "error", err)
	}
}
