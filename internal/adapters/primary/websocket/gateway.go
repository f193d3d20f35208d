package websocket

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/gorilla/websocket"
	"github.com/lorrc/service-desk-realtime/internal/core/domain"
	"github.com/lorrc/service-desk-realtime/internal/core/ports"
	"github.com/lorrc/service-desk-realtime/internal/infrastructure/logging"
)

// Gateway admits upgraded connections into rooms. It resolves the caller,
// applies the room policy, and either runs the session or closes the
// connection with the room's rejection code.
type Gateway struct {
	hub        ports.EventBroadcaster
	identities ports.IdentityResolver
	authz      ports.RoomAuthorizer
	authors    ports.AuthorResolver
	opts       Options
	logger     *slog.Logger
}

// NewGateway creates a gateway that registers sessions with hub.
func NewGateway(
	hub ports.EventBroadcaster,
	identities ports.IdentityResolver,
	authz ports.RoomAuthorizer,
	authors ports.AuthorResolver,
	opts Options,
	logger *slog.Logger,
) *Gateway {
	return &Gateway{
		hub:        hub,
		identities: identities,
		authz:      authz,
		authors:    authors,
		opts:       opts.withDefaults(),
		logger:     logger.With("component", "websocket_gateway"),
	}
}

// ServeTicketRoom runs a ticket room session on conn until it closes.
// Callers that may not view the ticket are closed with CloseUnauthorized.
func (g *Gateway) ServeTicketRoom(ctx context.Context, conn *websocket.Conn, ticketID int64, token string) {
	c := newClient(conn, domain.TicketRoom(ticketID), g.opts, g.logger)
	ctx = logging.WithSession(ctx, c.ID(), c.Room().String())

	identity := g.identities.Resolve(ctx, token)
	decision := g.authz.Authorize(ctx, domain.RoomKindTicket, ticketID, identity)
	if !decision.Allowed {
		g.logger.InfoContext(ctx, "ticket room connection rejected", "ticket_id", ticketID)
		c.reject(CloseUnauthorized, "unauthorized")
		return
	}

	ctx = logging.WithUserID(ctx, strconv.FormatInt(identity.ID, 10))
	g.logger.InfoContext(ctx, "ticket room connection accepted",
		"ticket_id", ticketID,
		"is_staff", identity.IsStaff,
	)

	room := &ticketRoom{ticketID: ticketID, hub: g.hub, authors: g.authors}
	c.serve(ctx, g.hub, room, identity, newHello(ticketID))

	g.logger.InfoContext(ctx, "ticket room connection closed", "ticket_id", ticketID)
}

// ServeAdminInbox runs an inbox session on conn until it closes. Non-staff
// callers are closed with CloseForbidden.
func (g *Gateway) ServeAdminInbox(ctx context.Context, conn *websocket.Conn, token string) {
	c := newClient(conn, domain.AdminInboxRoom, g.opts, g.logger)
	ctx = logging.WithSession(ctx, c.ID(), c.Room().String())

	identity := g.identities.Resolve(ctx, token)
	decision := g.authz.Authorize(ctx, domain.RoomKindInbox, 0, identity)
	if !decision.Allowed {
		g.logger.InfoContext(ctx, "inbox connection rejected")
		c.reject(CloseForbidden, "forbidden")
		return
	}

	ctx = logging.WithUserID(ctx, strconv.FormatInt(identity.ID, 10))
	g.logger.InfoContext(ctx, "inbox connection accepted")

	c.serve(ctx, g.hub, inboxRoom{}, identity, nil)

	g.logger.InfoContext(ctx, "inbox connection closed")
}
