package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/lorrc/service-desk-realtime/internal/core/domain"
	apperrors "github.com/lorrc/service-desk-realtime/internal/core/errors"
	"github.com/lorrc/service-desk-realtime/internal/core/mocks"
	"github.com/lorrc/service-desk-realtime/internal/core/services"
	"github.com/stretchr/testify/assert"
)

func TestIdentityResolver_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("known token", func(t *testing.T) {
		store := mocks.NewMockIdentityStore()
		store.On("LookupIdentityByToken", ctx, "tok-1").
			Return(&domain.Identity{ID: 7, DisplayName: "Kim", IsStaff: true}, nil)

		resolver := services.NewIdentityResolver(store, discardLogger())
		identity := resolver.Resolve(ctx, "tok-1")

		assert.Equal(t, int64(7), identity.ID)
		assert.Equal(t, "Kim", identity.DisplayName)
		assert.True(t, identity.IsStaff)
		store.AssertExpectations(t)
	})

	t.Run("empty token skips the store", func(t *testing.T) {
		store := mocks.NewMockIdentityStore()
		resolver := services.NewIdentityResolver(store, discardLogger())

		assert.True(t, resolver.Resolve(ctx, "").IsAnonymous())
		assert.True(t, resolver.Resolve(ctx, "   ").IsAnonymous())
		store.AssertNotCalled(t, "LookupIdentityByToken")
	})

	t.Run("unknown token", func(t *testing.T) {
		store := mocks.NewMockIdentityStore()
		store.On("LookupIdentityByToken", ctx, "nope").Return(nil, apperrors.ErrIdentityNotFound)

		resolver := services.NewIdentityResolver(store, discardLogger())
		assert.True(t, resolver.Resolve(ctx, "nope").IsAnonymous())
	})

	t.Run("store failure degrades to anonymous", func(t *testing.T) {
		store := mocks.NewMockIdentityStore()
		store.On("LookupIdentityByToken", ctx, "tok").Return(nil, errors.New("connection refused"))

		resolver := services.NewIdentityResolver(store, discardLogger())
		assert.True(t, resolver.Resolve(ctx, "tok").IsAnonymous())
	})

	t.Run("token is matched exactly", func(t *testing.T) {
		store := mocks.NewMockIdentityStore()
		store.On("LookupIdentityByToken", ctx, "abc").Return(&domain.Identity{ID: 1, DisplayName: "A"}, nil)

		resolver := services.NewIdentityResolver(store, discardLogger())
		assert.Equal(t, int64(1), resolver.Resolve(ctx, " abc ").ID)
	})

	t.Run("nil store", func(t *testing.T) {
		resolver := services.NewIdentityResolver(nil, discardLogger())
		assert.True(t, resolver.Resolve(ctx, "tok").IsAnonymous())
	})
}
