package ports

import (
	"context"

	"github.com/lorrc/service-desk-realtime/internal/core/domain"
)

// IdentityResolver maps a bearer token to an identity. It never fails:
// anything it cannot resolve becomes the anonymous identity.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) domain.Identity
}

// RoomAuthorizer decides whether an identity may join a room.
type RoomAuthorizer interface {
	Authorize(ctx context.Context, kind domain.RoomKind, ticketID int64, identity domain.Identity) domain.Decision
}

// AuthorResolver produces the display projection for a connection's identity.
type AuthorResolver interface {
	ResolveAuthor(ctx context.Context, identity domain.Identity) domain.Author
}

// Subscriber is one live session registered in a room.
type Subscriber interface {
	// ID uniquely identifies the session for the lifetime of the process.
	ID() string

	// Deliver hands an event to the session's outbound queue. It must not
	// block on network I/O.
	Deliver(event domain.Event) error
}

// EventBroadcaster is the room registry and fan-out core.
type EventBroadcaster interface {
	Register(room domain.RoomKey, sub Subscriber)
	Unregister(room domain.RoomKey, sub Subscriber)
	Publish(room domain.RoomKey, event domain.Event)
}

// RealtimeNotifier is called by the mutation API after a change commits.
// Every method is best-effort and never reports failure to the caller.
type RealtimeNotifier interface {
	NotifyReply(ticketID int64, reply any)
	NotifySeen(ticketID int64, receipt domain.SeenReceipt)
	NotifyInboxCreated(ticket any)
	NotifyInboxUpdated(ticketID int64, delta domain.TicketDelta)
}
