package notify

import (
	"context"
	"fmt"
	"sync"
)

// Mock implements Notifier for testing. It records sent events and can be
// told to fail.
type Mock struct {
	mu     sync.Mutex
	sent   []Event
	closed bool
	Fail   error
}

// NewMock creates a Mock notifier.
func NewMock() *Mock {
	return &Mock{}
}

// Send records the event, or returns the configured failure.
func (m *Mock) Send(_ context.Context, ev Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return fmt.Errorf("notify: mock closed")
	}
	if m.Fail != nil {
		return m.Fail
	}
	m.sent = append(m.sent, ev)
	return nil
}

// Close marks the mock closed.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Sent returns a copy of the recorded events.
func (m *Mock) Sent() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.sent))
	copy(out, m.sent)
	return out
}
