package websocket

import (
	"encoding/json"
	"maps"

	"github.com/lorrc/service-desk-realtime/internal/core/domain"
)

// Application close codes sent when a connection is refused a room.
const (
	CloseUnauthorized = 4401
	CloseForbidden    = 4403
)

// Wire message types.
const (
	typeHello         = "hello"
	typePing          = "ping"
	typePong          = "pong"
	typeTyping        = "typing"
	typeReply         = "reply"
	typeSeen          = "seen"
	typeTicketCreated = "ticket_created"
	typeTicketUpdated = "ticket_updated"
)

// inboundMessage is the envelope of every client frame. Fields that do not
// apply to a type are ignored.
type inboundMessage struct {
	Type     string `json:"type"`
	IsTyping bool   `json:"is_typing"`
}

type helloMessage struct {
	Type     string `json:"type"`
	TicketID int64  `json:"ticket_id"`
}

type pongMessage struct {
	Type string `json:"type"`
}

type typingMessage struct {
	Type     string        `json:"type"`
	TicketID int64         `json:"ticket_id"`
	Author   domain.Author `json:"author"`
	IsTyping bool          `json:"is_typing"`
}

type replyMessage struct {
	Type     string            `json:"type"`
	TicketID int64             `json:"ticket_id"`
	Reply    domain.Projection `json:"reply"`
}

// seenMessage flattens the receipt fields next to type and ticket_id.
type seenMessage struct {
	TicketID int64
	Receipt  domain.SeenReceipt
}

// MarshalJSON writes the receipt fields first so type and ticket_id always
// win over receipt keys of the same name.
func (m seenMessage) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(m.Receipt)+2)
	maps.Copy(out, m.Receipt)
	out["type"] = typeSeen
	out["ticket_id"] = m.TicketID
	return json.Marshal(out)
}

type ticketCreatedMessage struct {
	Type   string            `json:"type"`
	Ticket domain.Projection `json:"ticket"`
}

type ticketUpdatedMessage struct {
	Type     string             `json:"type"`
	TicketID int64              `json:"ticket_id"`
	Delta    domain.TicketDelta `json:"delta"`
}

func newHello(ticketID int64) helloMessage {
	return helloMessage{Type: typeHello, TicketID: ticketID}
}

func newPong() pongMessage {
	return pongMessage{Type: typePong}
}
