package websocket

import (
	"context"

	"github.com/lorrc/service-desk-realtime/internal/core/domain"
	apperrors "github.com/lorrc/service-desk-realtime/internal/core/errors"
	"github.com/lorrc/service-desk-realtime/internal/core/ports"
)

// ticketRoom is the conversation room of one ticket. Its members are the
// ticket owner and staff.
type ticketRoom struct {
	ticketID int64
	hub      ports.EventBroadcaster
	authors  ports.AuthorResolver
}

func (t *ticketRoom) translate(event domain.Event) (any, error) {
	switch e := event.(type) {
	case domain.ReplyEvent:
		return replyMessage{Type: typeReply, TicketID: e.TicketID, Reply: e.Reply}, nil
	case domain.TypingEvent:
		return typingMessage{Type: typeTyping, TicketID: e.TicketID, Author: e.Author, IsTyping: e.IsTyping}, nil
	case domain.SeenEvent:
		return seenMessage{TicketID: e.TicketID, Receipt: e.Receipt}, nil
	case domain.TicketCreatedEvent, domain.TicketUpdatedEvent:
		return nil, apperrors.ErrUnroutableEvent
	default:
		return nil, apperrors.ErrUnroutableEvent
	}
}

func (t *ticketRoom) handleMessage(ctx context.Context, c *Client, msg inboundMessage) {
	switch msg.Type {
	case typePing:
		if err := c.enqueue(newPong()); err != nil {
			c.logger.Debug("pong dropped", "error", err)
		}

	case typeTyping:
		author := t.authors.ResolveAuthor(ctx, c.Identity())
		// The sender is a room member too and receives its own indicator.
		t.hub.Publish(c.Room(), domain.TypingEvent{
			TicketID: t.ticketID,
			Author:   author,
			IsTyping: msg.IsTyping,
		})

	default:
		c.logger.Debug("ignoring client message", "type", msg.Type)
	}
}
