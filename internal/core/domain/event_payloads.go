package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
)

// ErrEmptyProjection is returned when a projection would encode to nothing.
var ErrEmptyProjection = errors.New("projection is empty")

// Projection is an already-serialized API representation (a reply or a
// ticket) produced by the mutation side. It is relayed to clients verbatim.
type Projection json.RawMessage

// NewProjection encodes a value into a projection. Raw JSON is passed
// through after validation.
func NewProjection(v any) (Projection, error) {
	var data []byte
	switch value := v.(type) {
	case nil:
		return nil, ErrEmptyProjection
	case Projection:
		data = value
	case json.RawMessage:
		data = value
	default:
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("marshal projection: %w", err)
		}
		data = encoded
	}

	if len(data) == 0 || string(data) == "null" {
		return nil, ErrEmptyProjection
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("marshal projection: %w", errors.New("invalid JSON"))
	}
	return Projection(data), nil
}

// MarshalJSON emits the projection unchanged.
func (p Projection) MarshalJSON() ([]byte, error) {
	if len(p) == 0 {
		return []byte("null"), nil
	}
	return p, nil
}

// UnmarshalJSON stores a copy of the raw value.
func (p *Projection) UnmarshalJSON(data []byte) error {
	if p == nil {
		return errors.New("domain.Projection: UnmarshalJSON on nil pointer")
	}
	*p = append((*p)[:0], data...)
	return nil
}

// SeenReceipt carries read receipt fields such as user_seen_at. The fields are
// flattened into the outgoing seen message.
type SeenReceipt map[string]any

// Clone returns a shallow copy safe to hand to another goroutine.
func (r SeenReceipt) Clone() SeenReceipt {
	if r == nil {
		return SeenReceipt{}
	}
	return maps.Clone(r)
}

// TicketDelta is the set of ticket fields that changed.
type TicketDelta map[string]any

// Clone returns a shallow copy safe to hand to another goroutine.
func (d TicketDelta) Clone() TicketDelta {
	if d == nil {
		return TicketDelta{}
	}
	return maps.Clone(d)
}
