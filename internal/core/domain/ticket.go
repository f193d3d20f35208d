package domain

// TicketRef is the slice of a ticket the realtime layer needs for
// authorization.
type TicketRef struct {
	ID      int64
	OwnerID int64
	Status  string
}

// IsOwnedBy checks if the given identity owns the ticket.
func (t *TicketRef) IsOwnedBy(identity Identity) bool {
	return !identity.IsAnonymous() && t.OwnerID == identity.ID
}

// CanBeViewedBy reports whether the identity may join the ticket's room:
// the owner or any staff member.
func (t *TicketRef) CanBeViewedBy(identity Identity) bool {
	if identity.IsAnonymous() {
		return false
	}
	return identity.IsStaff || t.IsOwnedBy(identity)
}
