package domain

import "strings"

const (
	// AnonymousDisplayName is shown for connections without a resolved user.
	AnonymousDisplayName = "Anonymous"

	// FallbackDisplayName is used when a user has no usable name fields.
	FallbackDisplayName = "User"
)

// Identity is the resolved actor behind a connection.
// An ID of zero marks the anonymous identity.
type Identity struct {
	ID          int64
	DisplayName string
	AvatarURL   string
	IsStaff     bool
}

// AnonymousIdentity returns the sentinel used when no user could be resolved.
func AnonymousIdentity() Identity {
	return Identity{DisplayName: AnonymousDisplayName}
}

// IsAnonymous reports whether the identity carries no user.
func (i Identity) IsAnonymous() bool {
	return i.ID <= 0
}

// UserRecord is the raw user row the identity is derived from.
type UserRecord struct {
	ID          int64
	Username    string
	Email       string
	FirstName   string
	LastName    string
	DisplayName string
	AvatarURL   string
	IsStaff     bool
	IsSuperuser bool
}

// NewIdentityFromUser builds an identity, applying the display name fallback
// chain: profile display name, full name, email, username.
func NewIdentityFromUser(u UserRecord) Identity {
	return Identity{
		ID:          u.ID,
		DisplayName: resolveDisplayName(u),
		AvatarURL:   u.AvatarURL,
		IsStaff:     u.IsStaff || u.IsSuperuser,
	}
}

func resolveDisplayName(u UserRecord) string {
	fullName := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))

	for _, candidate := range []string{u.DisplayName, fullName, u.Email, u.Username} {
		if name := strings.TrimSpace(candidate); name != "" {
			return name
		}
	}
	return FallbackDisplayName
}

// Author is the display projection of an identity sent to clients.
type Author struct {
	ID        *int64 `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	IsStaff   bool   `json:"is_staff"`
}

// NewAuthor projects an identity for display. Anonymous identities get a
// null id.
func NewAuthor(identity Identity) Author {
	if identity.IsAnonymous() {
		return Author{Name: AnonymousDisplayName}
	}

	id := identity.ID
	name := identity.DisplayName
	if strings.TrimSpace(name) == "" {
		name = FallbackDisplayName
	}

	return Author{
		ID:        &id,
		Name:      name,
		AvatarURL: identity.AvatarURL,
		IsStaff:   identity.IsStaff,
	}
}
