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

// TicketRepository reads ticket ownership for room authorization.
type TicketRepository struct {
	db DBTX
}

// Ensure implementation matches the interface.
var _ ports.TicketStore = (*TicketRepository)(nil)

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db DBTX) *TicketRepository {
	return &TicketRepository{db: db}
}

// GetTicket returns the owner and status of a ticket.
func (r *TicketRepository) GetTicket(ctx context.Context, ticketID int64) (*domain.TicketRef, error) {
	query := `
		SELECT id, user_id, status
		FROM support_ticket
		WHERE id = $1
	`

	var ticket domain.TicketRef
	err := r.db.QueryRow(ctx, query, ticketID).Scan(&ticket.ID, &ticket.OwnerID, &ticket.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, fmt.Errorf("get ticket %d: %w", ticketID, err)
	}

	return &ticket, nil
}
