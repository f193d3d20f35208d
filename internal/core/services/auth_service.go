package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/lorrc/service-desk-realtime/internal/core/domain"
	apperrors "github.com/lorrc/service-desk-realtime/internal/core/errors"
	"github.com/lorrc/service-desk-realtime/internal/core/ports"
)

// IdentityResolver maps opaque bearer tokens to identities.
type IdentityResolver struct {
	store  ports.IdentityStore
	logger *slog.Logger
}

// Ensure implementation matches the interface.
var _ ports.IdentityResolver = (*IdentityResolver)(nil)

// NewIdentityResolver creates a resolver backed by the given identity store.
func NewIdentityResolver(store ports.IdentityStore, logger *slog.Logger) *IdentityResolver {
	return &IdentityResolver{
		store:  store,
		logger: logger.With("component", "identity_resolver"),
	}
}

// Resolve returns the identity that owns token. Missing, unknown or
// unverifiable tokens all resolve to the anonymous identity; the caller's
// authorization policy then rejects it.
func (s *IdentityResolver) Resolve(ctx context.Context, token string) domain.Identity {
	token = strings.TrimSpace(token)
	if token == "" || s.store == nil {
		return domain.AnonymousIdentity()
	}

	identity, err := s.store.LookupIdentityByToken(ctx, token)
	if err != nil {
		if errors.Is(err, apperrors.ErrIdentityNotFound) {
			s.logger.DebugContext(ctx, "token did not match any credential")
		} else {
			s.logger.WarnContext(ctx, "identity lookup failed, treating as anonymous", "error", err)
		}
		return domain.AnonymousIdentity()
	}

	if identity == nil || identity.IsAnonymous() {
		return domain.AnonymousIdentity()
	}

	return *identity
}
