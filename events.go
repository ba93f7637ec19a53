package realtime

// EventType discriminates envelopes on the wire and keys handler registrations.
// The set below is closed from the client's point of view, but the server may
// introduce new types at any time; unknown types still flow through the generic
// EventMessage catch-all.
type EventType string

// Lifecycle and system event types. These are produced by the transport itself
// and never forwarded to type-specific handler sets when they arrive inbound.
const (
	EventConnected          EventType = "connected"
	EventDisconnected       EventType = "disconnected"
	EventError              EventType = "error"
	EventServerError        EventType = "server-error"
	EventMaxReconnectFailed EventType = "max-reconnect-failed"

	// EventMessage is the catch-all set: every inbound envelope reaches it,
	// system types included.
	EventMessage EventType = "message"

	EventPing EventType = "ping"
	EventPong EventType = "pong"
)

// Application event types used by the meal-chat adapter.
const (
	EventJoinMealChat  EventType = "join-meal-chat"
	EventLeaveMealChat EventType = "leave-meal-chat"
	EventMealMessage   EventType = "meal-message"
	EventMealApproval  EventType = "meal-approval"
	EventTypingStart   EventType = "typing-start"
	EventTypingStop    EventType = "typing-stop"
)

var reservedEvents = map[EventType]struct{}{
	EventConnected:          {},
	EventDisconnected:       {},
	EventError:              {},
	EventServerError:        {},
	EventMaxReconnectFailed: {},
	EventMessage:            {},
	EventPing:               {},
	EventPong:               {},
}

func (t EventType) Is(other EventType) bool {
	return t == other
}

// Reserved reports whether the type belongs to the transport itself rather
// than to application traffic.
func (t EventType) Reserved() bool {
	_, ok := reservedEvents[t]
	return ok
}

func (t EventType) String() string {
	return string(t)
}
