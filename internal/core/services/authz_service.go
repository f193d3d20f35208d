package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/lorrc/service-desk-realtime/internal/core/domain"
	apperrors "github.com/lorrc/service-desk-realtime/internal/core/errors"
	"github.com/lorrc/service-desk-realtime/internal/core/ports"
)

// RoomAuthorizer implements the connect-time policies for ticket rooms and
// the staff inbox. Decisions are never cached, so a revoked permission takes
// effect on the next connection attempt.
type RoomAuthorizer struct {
	tickets ports.TicketStore
	logger  *slog.Logger
}

// Ensure implementation matches the interface.
var _ ports.RoomAuthorizer = (*RoomAuthorizer)(nil)

// NewRoomAuthorizer creates a new authorizer.
func NewRoomAuthorizer(tickets ports.TicketStore, logger *slog.Logger) *RoomAuthorizer {
	return &RoomAuthorizer{
		tickets: tickets,
		logger:  logger.With("component", "room_authorizer"),
	}
}

// Authorize admits or rejects identity for the room described by kind and
// ticketID. ticketID is ignored for the inbox.
func (s *RoomAuthorizer) Authorize(ctx context.Context, kind domain.RoomKind, ticketID int64, identity domain.Identity) domain.Decision {
	switch kind {
	case domain.RoomKindTicket:
		return s.authorizeTicket(ctx, ticketID, identity)
	case domain.RoomKindInbox:
		return s.authorizeInbox(identity)
	default:
		s.logger.WarnContext(ctx, "unknown room kind", "kind", kind)
		return domain.Deny()
	}
}

func (s *RoomAuthorizer) authorizeTicket(ctx context.Context, ticketID int64, identity domain.Identity) domain.Decision {
	if identity.IsAnonymous() {
		return domain.Deny()
	}
	if ticketID <= 0 {
		return domain.Deny()
	}

	ticket, err := s.tickets.GetTicket(ctx, ticketID)
	if err != nil {
		// A store failure denies access, same as a missing ticket.
		if !errors.Is(err, apperrors.ErrTicketNotFound) {
			s.logger.ErrorContext(ctx, "ticket lookup failed",
				"ticket_id", ticketID,
				"error", err,
			)
		}
		return domain.Deny()
	}
	if ticket == nil || !ticket.CanBeViewedBy(identity) {
		return domain.Deny()
	}

	return domain.Allow(ticket)
}

func (s *RoomAuthorizer) authorizeInbox(identity domain.Identity) domain.Decision {
	if identity.IsAnonymous() || !identity.IsStaff {
		return domain.Deny()
	}
	return domain.Allow(nil)
}
