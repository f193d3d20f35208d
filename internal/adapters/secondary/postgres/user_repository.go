package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lorrc/service-desk-realtime/internal/core/domain"
	apperrors "github.com/lorrc/service-desk-realtime/internal/core/errors"
	"github.com/lorrc/service-desk-realtime/internal/core/ports"
)

// UserRepository reads users, their API tokens and their support profiles
// from the tables owned by the main application.
type UserRepository struct {
	db DBTX
}

// Ensure implementation matches the interfaces.
var (
	_ ports.IdentityStore        = (*UserRepository)(nil)
	_ ports.DisplayIdentityStore = (*UserRepository)(nil)
)

// NewUserRepository creates a new user repository
func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `
	u.id, u.username, u.email, u.first_name, u.last_name,
	u.is_staff, u.is_superuser,
	COALESCE(p.display_name, ''), COALESCE(p.avatar_url, '')`

// LookupIdentityByToken resolves an API token. The key must match exactly.
func (r *UserRepository) LookupIdentityByToken(ctx context.Context, token string) (*domain.Identity, error) {
	query := `
		SELECT` + userColumns + `
		FROM authtoken_token t
		INNER JOIN auth_user u ON u.id = t.user_id
		LEFT JOIN support_profile p ON p.user_id = u.id
		WHERE t.key = $1
	`

	identity, err := scanIdentity(r.db.QueryRow(ctx, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("lookup identity by token: %w", err)
	}
	return identity, nil
}

// GetDisplayIdentity loads the current profile of a user.
func (r *UserRepository) GetDisplayIdentity(ctx context.Context, userID int64) (*domain.Identity, error) {
	query := `
		SELECT` + userColumns + `
		FROM auth_user u
		LEFT JOIN support_profile p ON p.user_id = u.id
		WHERE u.id = $1
	`

	identity, err := scanIdentity(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("get display identity: %w", err)
	}
	return identity, nil
}

func scanIdentity(row pgx.Row) (*domain.Identity, error) {
	var u domain.UserRecord
	if err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.IsStaff,
		&u.IsSuperuser,
		&u.DisplayName,
		&u.AvatarURL,
	); err != nil {
		return nil, err
	}

	identity := domain.NewIdentityFromUser(u)
	return &identity, nil
}
