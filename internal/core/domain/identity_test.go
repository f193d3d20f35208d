package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/lorrc/service-desk-realtime/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIdentityFromUser_DisplayNameFallback(t *testing.T) {
	tests := []struct {
		name string
		user domain.UserRecord
		want string
	}{
		{
			name: "profile display name wins",
			user: domain.UserRecord{ID: 1, DisplayName: "  Mina ", FirstName: "Min", LastName: "Ah", Email: "m@example.com"},
			want: "Mina",
		},
		{
			name: "full name",
			user: domain.UserRecord{ID: 1, FirstName: "Min", LastName: "Ah", Email: "m@example.com"},
			want: "Min Ah",
		},
		{
			name: "first name only",
			user: domain.UserRecord{ID: 1, FirstName: "Min"},
			want: "Min",
		},
		{
			name: "email",
			user: domain.UserRecord{ID: 1, Email: "m@example.com", Username: "mina"},
			want: "m@example.com",
		},
		{
			name: "username",
			user: domain.UserRecord{ID: 1, Username: "mina"},
			want: "mina",
		},
		{
			name: "nothing usable",
			user: domain.UserRecord{ID: 1, DisplayName: "   "},
			want: domain.FallbackDisplayName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.NewIdentityFromUser(tt.user).DisplayName)
		})
	}
}

func TestNewIdentityFromUser_SuperuserIsStaff(t *testing.T) {
	identity := domain.NewIdentityFromUser(domain.UserRecord{ID: 5, Username: "root", IsSuperuser: true})

	assert.True(t, identity.IsStaff)
	assert.False(t, identity.IsAnonymous())
}

func TestNewAuthor(t *testing.T) {
	t.Run("anonymous has null id", func(t *testing.T) {
		data, err := json.Marshal(domain.NewAuthor(domain.AnonymousIdentity()))
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":null,"name":"Anonymous","avatar_url":"","is_staff":false}`, string(data))
	})

	t.Run("user", func(t *testing.T) {
		author := domain.NewAuthor(domain.Identity{ID: 9, DisplayName: "Agent", AvatarURL: "https://cdn/a.png", IsStaff: true})

		data, err := json.Marshal(author)
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":9,"name":"Agent","avatar_url":"https://cdn/a.png","is_staff":true}`, string(data))
	})

	t.Run("blank name falls back", func(t *testing.T) {
		author := domain.NewAuthor(domain.Identity{ID: 9})
		assert.Equal(t, domain.FallbackDisplayName, author.Name)
	})
}
