package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/service-desk-realtime/internal/config"
)

type userFixture struct {
	Username    string
	Email       string
	FirstName   string
	LastName    string
	IsStaff     bool
	IsSuperuser bool
}

// createTestUser inserts a user with a unique username and returns its ID.
func createTestUser(t *testing.T, ctx context.Context, u userFixture) int64 {
	t.Helper()
	require.NotNil(t, testPool, "testPool is nil. TestMain may not have run.")

	if u.Username == "" {
		u.Username = "user-" + uuid.NewString()
	} else {
		u.Username += "-" + uuid.NewString()[:8]
	}

	var id int64
	err := testPool.QueryRow(ctx, `
		INSERT INTO auth_user (username, email, first_name, last_name, is_staff, is_superuser)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, u.Username, u.Email, u.FirstName, u.LastName, u.IsStaff, u.IsSuperuser).Scan(&id)
	require.NoError(t, err)
	return id
}

// createTestToken issues an API token for userID and returns its key.
func createTestToken(t *testing.T, ctx context.Context, userID int64) string {
	t.Helper()
	key := uuid.NewString()[:32]
	_, err := testPool.Exec(ctx, `INSERT INTO authtoken_token (key, user_id) VALUES ($1, $2)`, key, userID)
	require.NoError(t, err)
	return key
}

func createTestProfile(t *testing.T, ctx context.Context, userID int64, displayName, avatarURL string) {
	t.Helper()
	_, err := testPool.Exec(ctx, `
		INSERT INTO support_profile (user_id, display_name, avatar_url)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET display_name = EXCLUDED.display_name, avatar_url = EXCLUDED.avatar_url
	`, userID, displayName, avatarURL)
	require.NoError(t, err)
}

func createTestTicket(t *testing.T, ctx context.Context, ownerID int64) int64 {
	t.Helper()
	var id int64
	err := testPool.QueryRow(ctx, `
		INSERT INTO support_ticket (user_id, title) VALUES ($1, 'Printer on fire') RETURNING id
	`, ownerID).Scan(&id)
	require.NoError(t, err)
	return id
}

func configWithURL(url string) config.DatabaseConfig {
	return config.DatabaseConfig{
		URL:             url,
		MaxOpenConns:    4,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Minute,
		ConnMaxIdleTime: time.Minute,
	}
}
