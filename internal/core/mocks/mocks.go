package mocks

import (
	"context"
	"sync"

	"github.com/lorrc/service-desk-realtime/internal/core/domain"
	"github.com/lorrc/service-desk-realtime/internal/core/ports"
	"github.com/stretchr/testify/mock"
)

// MockIdentityStore is a mock implementation of ports.IdentityStore
type MockIdentityStore struct {
	mock.Mock
}

func NewMockIdentityStore() *MockIdentityStore {
	return &MockIdentityStore{}
}

func (m *MockIdentityStore) LookupIdentityByToken(ctx context.Context, token string) (*domain.Identity, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}

// MockTicketStore is a mock implementation of ports.TicketStore
type MockTicketStore struct {
	mock.Mock
}

func NewMockTicketStore() *MockTicketStore {
	return &MockTicketStore{}
}

func (m *MockTicketStore) GetTicket(ctx context.Context, ticketID int64) (*domain.TicketRef, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TicketRef), args.Error(1)
}

// MockDisplayIdentityStore is a mock implementation of ports.DisplayIdentityStore
type MockDisplayIdentityStore struct {
	mock.Mock
}

func NewMockDisplayIdentityStore() *MockDisplayIdentityStore {
	return &MockDisplayIdentityStore{}
}

func (m *MockDisplayIdentityStore) GetDisplayIdentity(ctx context.Context, userID int64) (*domain.Identity, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}

// MockEventBroadcaster is a mock implementation of ports.EventBroadcaster
type MockEventBroadcaster struct {
	mock.Mock
}

func NewMockEventBroadcaster() *MockEventBroadcaster {
	return &MockEventBroadcaster{}
}

func (m *MockEventBroadcaster) Register(room domain.RoomKey, sub ports.Subscriber) {
	m.Called(room, sub)
}

func (m *MockEventBroadcaster) Unregister(room domain.RoomKey, sub ports.Subscriber) {
	m.Called(room, sub)
}

func (m *MockEventBroadcaster) Publish(room domain.RoomKey, event domain.Event) {
	m.Called(room, event)
}

// MockRealtimeNotifier is a mock implementation of ports.RealtimeNotifier
type MockRealtimeNotifier struct {
	mock.Mock
}

func NewMockRealtimeNotifier() *MockRealtimeNotifier {
	return &MockRealtimeNotifier{}
}

func (m *MockRealtimeNotifier) NotifyReply(ticketID int64, reply any) {
	m.Called(ticketID, reply)
}

func (m *MockRealtimeNotifier) NotifySeen(ticketID int64, receipt domain.SeenReceipt) {
	m.Called(ticketID, receipt)
}

func (m *MockRealtimeNotifier) NotifyInboxCreated(ticket any) {
	m.Called(ticket)
}

func (m *MockRealtimeNotifier) NotifyInboxUpdated(ticketID int64, delta domain.TicketDelta) {
	m.Called(ticketID, delta)
}

// RecordingSubscriber is a ports.Subscriber that keeps every delivered event.
// Set Err to make Deliver fail.
type RecordingSubscriber struct {
	id string

	mu     sync.Mutex
	events []domain.Event
	Err    error
}

func NewRecordingSubscriber(id string) *RecordingSubscriber {
	return &RecordingSubscriber{id: id}
}

func (s *RecordingSubscriber) ID() string { return s.id }

func (s *RecordingSubscriber) Deliver(event domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.events = append(s.events, event)
	return nil
}

// Events returns a copy of the delivered events in arrival order.
func (s *RecordingSubscriber) Events() []domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Event, len(s.events))
	copy(out, s.events)
	return out
}
