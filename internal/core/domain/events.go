package domain

// EventKind defines the type of real-time event.
type EventKind string

const (
	EventReply         EventKind = "reply"
	EventTyping        EventKind = "typing"
	EventSeen          EventKind = "seen"
	EventTicketCreated EventKind = "ticket_created"
	EventTicketUpdated EventKind = "ticket_updated"
)

// Event is a transient notification published to a room. The set of
// implementations is closed; room sessions switch over it exhaustively.
type Event interface {
	Kind() EventKind
	Room() RoomKey
	isEvent()
}

// ReplyEvent announces a reply committed on a ticket.
type ReplyEvent struct {
	TicketID int64
	Reply    Projection
}

// TypingEvent relays a typing indicator from one participant of a ticket room.
type TypingEvent struct {
	TicketID int64
	Author   Author
	IsTyping bool
}

// SeenEvent announces a read receipt change on a ticket.
type SeenEvent struct {
	TicketID int64
	Receipt  SeenReceipt
}

// TicketCreatedEvent tells the staff inbox about a new ticket.
type TicketCreatedEvent struct {
	Ticket Projection
}

// TicketUpdatedEvent tells the staff inbox which fields of a ticket changed.
type TicketUpdatedEvent struct {
	TicketID int64
	Delta    TicketDelta
}

func (ReplyEvent) Kind() EventKind         { return EventReply }
func (TypingEvent) Kind() EventKind        { return EventTyping }
func (SeenEvent) Kind() EventKind          { return EventSeen }
func (TicketCreatedEvent) Kind() EventKind { return EventTicketCreated }
func (TicketUpdatedEvent) Kind() EventKind { return EventTicketUpdated }

func (e ReplyEvent) Room() RoomKey       { return TicketRoom(e.TicketID) }
func (e TypingEvent) Room() RoomKey      { return TicketRoom(e.TicketID) }
func (e SeenEvent) Room() RoomKey        { return TicketRoom(e.TicketID) }
func (TicketCreatedEvent) Room() RoomKey { return AdminInboxRoom }
func (TicketUpdatedEvent) Room() RoomKey { return AdminInboxRoom }

func (ReplyEvent) isEvent()         {}
func (TypingEvent) isEvent()        {}
func (SeenEvent) isEvent()          {}
func (TicketCreatedEvent) isEvent() {}
func (TicketUpdatedEvent) isEvent() {}
