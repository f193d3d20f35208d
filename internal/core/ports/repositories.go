package ports

import (
	"context"

	"github.com/lorrc/service-desk-realtime/internal/core/domain"
)

// IdentityStore resolves opaque bearer tokens issued by the auth service.
type IdentityStore interface {
	// LookupIdentityByToken returns apperrors.ErrIdentityNotFound when no
	// credential matches the token exactly.
	LookupIdentityByToken(ctx context.Context, token string) (*domain.Identity, error)
}

// TicketStore reads ticket ownership for authorization.
type TicketStore interface {
	// GetTicket returns apperrors.ErrTicketNotFound for unknown IDs.
	GetTicket(ctx context.Context, ticketID int64) (*domain.TicketRef, error)
}

// DisplayIdentityStore loads the current display projection of a user.
type DisplayIdentityStore interface {
	GetDisplayIdentity(ctx context.Context, userID int64) (*domain.Identity, error)
}

// HealthChecker is implemented by stores that can report connectivity.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
