package realtime

import (
	"reflect"
	"sync"
)

// Handler receives dispatched events. Handlers are identified by function
// identity: registering the same function value twice for the same event type
// is a no-op, and Off removes by that same identity. Identity follows the
// function's code pointer, so closures built from the same literal share it;
// subscribers that need several registrations of the same shape should use
// distinct named functions.
type Handler func(evt Event)

// Event is what handlers receive. Envelope is set for inbound frames and nil
// for lifecycle notifications; Code and Reason carry the close code on
// EventDisconnected.
type Event struct {
	Type     EventType
	Envelope *Envelope
	Code     int
	Reason   string
	Err      error
}

// EventEmitter is a simple event dispatcher mapping event types to handler
// sets. It decouples the transport from feature code: the transport emits,
// handlers consume, and neither knows about the other.
type EventEmitter struct {
	listeners map[EventType]map[uintptr]Handler
	lock      sync.RWMutex
	log       Logger
}

// NewEventEmitter creates a new EventEmitter and returns a pointer to it.
func NewEventEmitter(log Logger) *EventEmitter {
	return &EventEmitter{
		listeners: make(map[EventType]map[uintptr]Handler),
		log:       log.WithField("component", "event_emitter"),
	}
}

// On registers a new handler for the given event. Duplicate registrations of
// the same function value are suppressed.
func (e *EventEmitter) On(event EventType, handler Handler) {
	if handler == nil {
		return
	}

	e.lock.Lock()
	defer e.lock.Unlock()

	set, ok := e.listeners[event]
	if !ok {
		set = make(map[uintptr]Handler)
		e.listeners[event] = set
	}
	set[handlerKey(handler)] = handler
}

// Off removes the handler from the given event's set. Removing a handler that
// was never registered is a safe no-op.
func (e *EventEmitter) Off(event EventType, handler Handler) {
	if handler == nil {
		return
	}

	e.lock.Lock()
	defer e.lock.Unlock()

	set, ok := e.listeners[event]
	if !ok {
		return
	}
	delete(set, handlerKey(handler))
	if len(set) == 0 {
		delete(e.listeners, event)
	}
}

// Emit synchronously invokes every handler registered for the given event.
// A panicking handler is logged and does not prevent the remaining handlers
// from running; Emit itself never panics.
func (e *EventEmitter) Emit(event EventType, evt Event) {
	e.lock.RLock()
	set, found := e.listeners[event]
	if !found {
		e.lock.RUnlock()
		return
	}
	handlers := make([]Handler, 0, len(set))
	for _, h := range set {
		handlers = append(handlers, h)
	}
	e.lock.RUnlock()

	for _, handler := range handlers {
		e.invoke(event, handler, evt)
	}
}

func (e *EventEmitter) invoke(event EventType, handler Handler, evt Event) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Errorf("handler for %q panicked: %v", event, r)
		}
	}()

	handler(evt)
}

// HandlerCount returns how many handlers are registered for the given event.
func (e *EventEmitter) HandlerCount(event EventType) int {
	e.lock.RLock()
	defer e.lock.RUnlock()

	return len(e.listeners[event])
}

// Clear removes all handlers for all events to prevent memory leaks. Used on
// explicit disconnect.
func (e *EventEmitter) Clear() {
	e.lock.Lock()
	defer e.lock.Unlock()

	e.listeners = make(map[EventType]map[uintptr]Handler)
}

func handlerKey(h Handler) uintptr {
	return reflect.ValueOf(h).Pointer()
}
