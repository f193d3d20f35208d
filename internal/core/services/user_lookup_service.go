package services

import (
	"context"
	"log/slog"

	"github.com/lorrc/service-desk-realtime/internal/core/domain"
	"github.com/lorrc/service-desk-realtime/internal/core/ports"
)

// AuthorLookupService provides the display projection of a connection's user.
type AuthorLookupService struct {
	users  ports.DisplayIdentityStore
	logger *slog.Logger
}

var _ ports.AuthorResolver = (*AuthorLookupService)(nil)

// NewAuthorLookupService creates a new AuthorLookupService. A nil store makes
// it project the identity resolved at connect time.
func NewAuthorLookupService(users ports.DisplayIdentityStore, logger *slog.Logger) *AuthorLookupService {
	return &AuthorLookupService{
		users:  users,
		logger: logger.With("component", "author_lookup"),
	}
}

// ResolveAuthor reloads the user's current profile so renamed users show their
// new name without reconnecting. On lookup failure the connect-time identity
// is used.
func (s *AuthorLookupService) ResolveAuthor(ctx context.Context, identity domain.Identity) domain.Author {
	if identity.IsAnonymous() || s.users == nil {
		return domain.NewAuthor(identity)
	}

	fresh, err := s.users.GetDisplayIdentity(ctx, identity.ID)
	if err != nil || fresh == nil {
		s.logger.DebugContext(ctx, "display identity lookup failed, using session identity",
			"user_id", identity.ID,
			"error", err,
		)
		return domain.NewAuthor(identity)
	}

	return domain.NewAuthor(*fresh)
}
