package realtime

import (
	"context"
)

type (
	// Client is the realtime messaging surface shared by trainer and athlete
	// feature code. One instance multiplexes chat, approvals and typing
	// indicators over a single physical connection; it is constructed once at
	// application startup and passed to consumers.
	Client interface {
		// Connect starts establishing the connection. A connect while one is
		// pending or open is a no-op. Completion is signalled via EventConnected.
		Connect(ctx context.Context) error
		// Disconnect closes the connection deliberately: no reconnect, queue
		// dropped, handler registrations cleared.
		Disconnect()
		// Send transmits an envelope immediately when connected, otherwise
		// queues it for the next connection. Returns the envelope id.
		Send(eventType EventType, data any, opts ...SendOption) string
		// On registers a handler for an event type.
		On(eventType EventType, handler Handler)
		// Off removes a previously registered handler.
		Off(eventType EventType, handler Handler)
		// State reports the current connection state.
		State() ConnState
		// QueuedCount reports how many envelopes await the next connection.
		QueuedCount() int
	}

	// SendOption tweaks a single Send call.
	SendOption func(*sendOptions)

	sendOptions struct {
		id string
	}
)

// WithID makes the envelope carry a caller-supplied id instead of a generated
// one.
func WithID(id string) SendOption {
	return func(o *sendOptions) {
		o.id = id
	}
}

func applySendOptions(opts []SendOption) sendOptions {
	var o sendOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
