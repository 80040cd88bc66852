package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/accounts-api/internal/notify"
)

// SentNotification is one recorded Send call.
type SentNotification struct {
	To      string
	Kind    notify.Kind
	Payload notify.Payload
}

// MockDispatcher records notifications instead of delivering them.
type MockDispatcher struct {
	mu   sync.Mutex
	sent []SentNotification

	// SendFn, when set, decides the returned error. The call is recorded either way.
	SendFn func(ctx context.Context, to string, kind notify.Kind, payload notify.Payload) error
}

// NewMockDispatcher creates a recording dispatcher.
func NewMockDispatcher() *MockDispatcher {
	return &MockDispatcher{}
}

var _ notify.Dispatcher = (*MockDispatcher)(nil)

// Send implements notify.Dispatcher.
func (m *MockDispatcher) Send(ctx context.Context, to string, kind notify.Kind, payload notify.Payload) error {
	m.mu.Lock()
	m.sent = append(m.sent, SentNotification{To: to, Kind: kind, Payload: payload})
	m.mu.Unlock()

	if m.SendFn != nil {
		return m.SendFn(ctx, to, kind, payload)
	}
	return nil
}

// Sent returns a copy of every recorded notification.
func (m *MockDispatcher) Sent() []SentNotification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SentNotification(nil), m.sent...)
}

// Last returns the most recent notification of kind.
func (m *MockDispatcher) Last(kind notify.Kind) (SentNotification, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.sent) - 1; i >= 0; i-- {
		if m.sent[i].Kind == kind {
			return m.sent[i], true
		}
	}
	return SentNotification{}, false
}
