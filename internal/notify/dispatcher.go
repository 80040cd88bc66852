package notify

import (
	"context"
	"errors"
)

// Kind selects the message template.
type Kind string

// Notification kinds.
const (
	KindActivation    Kind = "activation"
	KindPasswordReset Kind = "password_reset"
	KindEmailChange   Kind = "email_change"
)

// Payload carries the values rendered into a message.
type Payload struct {
	Username string
	// UID is the encoded account id used in reset and email change links.
	UID   string
	Token string
}

// Message is a rendered notification ready for delivery.
type Message struct {
	To      string
	Kind    Kind
	Subject string
	Body    string
}

// Dispatcher delivers account notifications.
type Dispatcher interface {
	Send(ctx context.Context, to string, kind Kind, payload Payload) error
}

// Sender delivers an already rendered message.
type Sender interface {
	Deliver(ctx context.Context, msg Message) error
}

var (
	// ErrQueueFull is returned when the async dispatcher cannot accept more work.
	ErrQueueFull = errors.New("notification queue is full")

	// ErrDispatcherStopped is returned after Stop has been called.
	ErrDispatcherStopped = errors.New("notification dispatcher stopped")

	// ErrUnknownKind is returned for a Kind with no template.
	ErrUnknownKind = errors.New("unknown notification kind")
)
