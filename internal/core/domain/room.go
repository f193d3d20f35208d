package domain

import (
	"strconv"
	"strings"

	apperrors "github.com/lorrc/service-desk-realtime/internal/core/errors"
)

// RoomKind selects the authorization policy for a room.
type RoomKind string

const (
	RoomKindTicket RoomKind = "TICKET"
	RoomKindInbox  RoomKind = "INBOX"
)

// RoomKey uniquely identifies a broadcast channel.
type RoomKey string

const (
	ticketRoomPrefix = "ticket:"

	// AdminInboxRoom is the single global room for all staff.
	AdminInboxRoom RoomKey = "admin_inbox"
)

// TicketRoom returns the room key for a ticket.
func TicketRoom(ticketID int64) RoomKey {
	return RoomKey(ticketRoomPrefix + strconv.FormatInt(ticketID, 10))
}

func (k RoomKey) String() string {
	return string(k)
}

// Kind returns the namespace the key belongs to.
func (k RoomKey) Kind() RoomKind {
	if k == AdminInboxRoom {
		return RoomKindInbox
	}
	return RoomKindTicket
}

// ParseRoomKey validates a raw key and returns its kind and, for ticket rooms,
// the ticket ID.
func ParseRoomKey(raw string) (RoomKind, int64, error) {
	if RoomKey(raw) == AdminInboxRoom {
		return RoomKindInbox, 0, nil
	}

	rest, ok := strings.CutPrefix(raw, ticketRoomPrefix)
	if !ok {
		return "", 0, apperrors.ErrInvalidRoomKey
	}

	ticketID, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || ticketID <= 0 {
		return "", 0, apperrors.ErrInvalidRoomKey
	}
	return RoomKindTicket, ticketID, nil
}

// Decision is the outcome of a connect-time authorization check.
type Decision struct {
	Allowed bool

	// Ticket is the admitted resource for ticket rooms.
	Ticket *TicketRef
}

// Allow admits a connection, optionally carrying the resolved ticket.
func Allow(ticket *TicketRef) Decision {
	return Decision{Allowed: true, Ticket: ticket}
}

// Deny rejects a connection.
func Deny() Decision {
	return Decision{}
}
