package websocket

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/lorrc/service-desk-realtime/internal/core/domain"
	"github.com/lorrc/service-desk-realtime/internal/core/ports"
)

// room holds the live sessions joined to one RoomKey. Its mutex serializes
// membership changes and publishes, which is what gives every member the
// same per-room event order.
type room struct {
	mu      sync.Mutex
	members map[string]ports.Subscriber

	// closed is set once the room was found empty and is about to leave the
	// index. A Register that races with that removal retries on a fresh room.
	closed bool
}

// Hub is the in-process room registry and fan-out core.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[domain.RoomKey]*room
	closed bool

	logger *slog.Logger
}

// Ensure Hub implements the EventBroadcaster interface.
var _ ports.EventBroadcaster = (*Hub)(nil)

// shutdowner is implemented by subscribers that hold a network connection.
type shutdowner interface {
	Shutdown()
}

// Stats is a point-in-time view of the registry.
type Stats struct {
	Rooms    int `json:"rooms"`
	Sessions int `json:"sessions"`
}

// NewHub creates a new WebSocket hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		rooms:  make(map[domain.RoomKey]*room),
		logger: logger.With("component", "websocket_hub"),
	}
}

// Register adds sub to the room. Registering the same subscriber twice keeps
// a single membership.
func (h *Hub) Register(key domain.RoomKey, sub ports.Subscriber) {
	for {
		r, ok := h.acquire(key)
		if !ok {
			h.logger.Warn("register after hub closed", "room", key.String(), "session_id", sub.ID())
			if s, ok := sub.(shutdowner); ok {
				s.Shutdown()
			}
			return
		}

		r.mu.Lock()
		if r.closed {
			r.mu.Unlock()
			h.evict(key, r)
			continue
		}
		r.members[sub.ID()] = sub
		count := len(r.members)
		r.mu.Unlock()

		// Close may have taken its snapshot between acquire and the insert.
		h.mu.RLock()
		closed := h.closed
		h.mu.RUnlock()
		if closed {
			if s, ok := sub.(shutdowner); ok {
				s.Shutdown()
			}
			return
		}

		h.logger.Info("session joined room",
			"room", key.String(),
			"session_id", sub.ID(),
			"members", count,
		)
		return
	}
}

// Unregister removes sub from the room. Unknown rooms and subscribers are
// ignored, so calling it more than once is safe.
func (h *Hub) Unregister(key domain.RoomKey, sub ports.Subscriber) {
	h.mu.RLock()
	r, exists := h.rooms[key]
	h.mu.RUnlock()

	if !exists {
		return
	}

	r.mu.Lock()
	if _, member := r.members[sub.ID()]; !member {
		r.mu.Unlock()
		return
	}
	delete(r.members, sub.ID())
	count := len(r.members)
	if count == 0 {
		r.closed = true
	}
	r.mu.Unlock()

	h.logger.Info("session left room",
		"room", key.String(),
		"session_id", sub.ID(),
		"members", count,
	)

	if count == 0 {
		h.evict(key, r)
		h.logger.Debug("room removed", "room", key.String())
	}
}

// Publish delivers event to every session in the room at the time of the
// call. Delivery failures are logged per session and never stop the fan-out.
func (h *Hub) Publish(key domain.RoomKey, event domain.Event) {
	h.mu.RLock()
	r, exists := h.rooms[key]
	h.mu.RUnlock()

	if !exists {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}

	delivered := 0
	for id, sub := range r.members {
		if err := h.deliver(sub, event); err != nil {
			h.logger.Warn("event not delivered to session",
				"room", key.String(),
				"session_id", id,
				"event", event.Kind(),
				"error", err,
			)
			continue
		}
		delivered++
	}

	h.logger.Debug("event published",
		"room", key.String(),
		"event", event.Kind(),
		"delivered", delivered,
		"members", len(r.members),
	)
}

func (h *Hub) deliver(sub ports.Subscriber, event domain.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("deliver panicked: %v", r)
		}
	}()
	return sub.Deliver(event)
}

// acquire returns the room for key, creating it when absent.
func (h *Hub) acquire(key domain.RoomKey) (*room, bool) {
	h.mu.RLock()
	r, exists := h.rooms[key]
	closed := h.closed
	h.mu.RUnlock()

	if closed {
		return nil, false
	}
	if exists {
		return r, true
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, false
	}
	if r, exists = h.rooms[key]; !exists {
		r = &room{members: make(map[string]ports.Subscriber)}
		h.rooms[key] = r
	}
	return r, true
}

// evict drops r from the index if it is still the room registered for key.
func (h *Hub) evict(key domain.RoomKey, r *room) {
	h.mu.Lock()
	if h.rooms[key] == r {
		delete(h.rooms, key)
	}
	h.mu.Unlock()
}

// Stats returns the number of rooms and sessions currently registered.
func (h *Hub) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()

	stats := Stats{Rooms: len(h.rooms)}
	for _, r := range h.rooms {
		r.mu.Lock()
		stats.Sessions += len(r.members)
		r.mu.Unlock()
	}
	return stats
}

// ClientsInRoom returns the number of sessions joined to key.
func (h *Hub) ClientsInRoom(key domain.RoomKey) int {
	h.mu.RLock()
	r, exists := h.rooms[key]
	h.mu.RUnlock()

	if !exists {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members)
}

// Close stops accepting registrations and shuts down every live session.
// Sessions unregister themselves as their connections wind down.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	rooms := make([]*room, 0, len(h.rooms))
	for _, r := range h.rooms {
		rooms = append(rooms, r)
	}
	h.mu.Unlock()

	var subs []ports.Subscriber
	for _, r := range rooms {
		r.mu.Lock()
		for _, sub := range r.members {
			subs = append(subs, sub)
		}
		r.mu.Unlock()
	}

	for _, sub := range subs {
		if s, ok := sub.(shutdowner); ok {
			s.Shutdown()
		}
	}

	h.logger.Info("hub closed", "sessions", len(subs))
}
