package realtime

import (
	"io"
	"sync"
	"testing"
)

func TestSingleHandler(t *testing.T) {
	emitter := NewEventEmitter(newWriterLogger(io.Discard))
	var mu sync.Mutex
	var results []EventType

	emitter.On(EventMealMessage, func(evt Event) {
		mu.Lock()
		results = append(results, evt.Type)
		mu.Unlock()
	})

	emitter.Emit(EventMealMessage, Event{Type: EventMealMessage})

	mu.Lock()
	defer mu.Unlock()
	if len(results) != 1 || results[0] != EventMealMessage {
		t.Errorf("Expected to receive [meal-message], but got %v", results)
	}
}

func TestMultipleHandlers(t *testing.T) {
	emitter := NewEventEmitter(newWriterLogger(io.Discard))
	var mu sync.Mutex
	var results []int

	emitter.On(EventMealMessage, func(evt Event) {
		mu.Lock()
		results = append(results, 1)
		mu.Unlock()
	})

	emitter.On(EventMealMessage, func(evt Event) {
		mu.Lock()
		results = append(results, 2)
		mu.Unlock()
	})

	emitter.Emit(EventMealMessage, Event{Type: EventMealMessage})

	mu.Lock()
	defer mu.Unlock()
	if len(results) != 2 {
		t.Errorf("Expected 2 callbacks, but got %d", len(results))
	}

	found1, found2 := false, false
	for _, v := range results {
		if v == 1 {
			found1 = true
		}
		if v == 2 {
			found2 = true
		}
	}
	if !found1 || !found2 {
		t.Errorf("Expected both handlers invoked, but got %v", results)
	}
}

func TestNoHandlers(t *testing.T) {
	emitter := NewEventEmitter(newWriterLogger(io.Discard))
	// When emitting an event with no handlers, no error or call should occur.
	emitter.Emit(EventType("nonexistent"), Event{})
}

func TestDuplicateRegistrationSuppressed(t *testing.T) {
	emitter := NewEventEmitter(newWriterLogger(io.Discard))
	var calls int

	handler := func(evt Event) {
		calls++
	}

	emitter.On(EventMealMessage, handler)
	emitter.On(EventMealMessage, handler)

	if n := emitter.HandlerCount(EventMealMessage); n != 1 {
		t.Fatalf("Expected 1 registered handler, got %d", n)
	}

	emitter.Emit(EventMealMessage, Event{Type: EventMealMessage})

	if calls != 1 {
		t.Errorf("Expected 1 invocation, got %d", calls)
	}
}

func TestOffRemovesHandler(t *testing.T) {
	emitter := NewEventEmitter(newWriterLogger(io.Discard))
	var calls int

	handler := func(evt Event) {
		calls++
	}

	emitter.On(EventMealMessage, handler)
	emitter.Off(EventMealMessage, handler)
	emitter.Emit(EventMealMessage, Event{Type: EventMealMessage})

	if calls != 0 {
		t.Errorf("Expected removed handler not to run, got %d calls", calls)
	}
}

func TestOffUnknownHandlerIsNoop(t *testing.T) {
	emitter := NewEventEmitter(newWriterLogger(io.Discard))
	var calls int

	registered := func(evt Event) {
		calls++
	}
	never := func(evt Event) {
		t.Fatal("never-registered handler must not run")
	}

	emitter.On(EventMealMessage, registered)
	// Removing a handler that was never registered must not raise and must
	// not affect other registrations.
	emitter.Off(EventMealMessage, never)
	emitter.Off(EventTypingStart, never)

	emitter.Emit(EventMealMessage, Event{Type: EventMealMessage})

	if calls != 1 {
		t.Errorf("Expected surviving handler to run once, got %d", calls)
	}
}

func TestPanickingHandlerIsIsolated(t *testing.T) {
	emitter := NewEventEmitter(newWriterLogger(io.Discard))
	var calls int

	emitter.On(EventMealMessage, func(evt Event) {
		panic("boom")
	})
	emitter.On(EventMealMessage, func(evt Event) {
		calls++
	})

	emitter.Emit(EventMealMessage, Event{Type: EventMealMessage})

	if calls != 1 {
		t.Errorf("Expected second handler to run despite the panic, got %d calls", calls)
	}
}

func TestClearRemovesEverything(t *testing.T) {
	emitter := NewEventEmitter(newWriterLogger(io.Discard))
	var calls int

	emitter.On(EventMealMessage, func(evt Event) { calls++ })
	emitter.On(EventTypingStart, func(evt Event) { calls++ })

	emitter.Clear()

	emitter.Emit(EventMealMessage, Event{Type: EventMealMessage})
	emitter.Emit(EventTypingStart, Event{Type: EventTypingStart})

	if calls != 0 {
		t.Errorf("Expected no handlers after Clear, got %d calls", calls)
	}
}

func TestConcurrentEmitter(t *testing.T) {
	emitter := NewEventEmitter(newWriterLogger(io.Discard))
	var mu sync.Mutex
	var calls int
	var wg sync.WaitGroup

	first := func(evt Event) {
		mu.Lock()
		calls++
		mu.Unlock()
	}
	second := func(evt Event) {
		mu.Lock()
		calls++
		mu.Unlock()
	}

	// Concurrent registration of the same handler collapses to one entry.
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			emitter.On(EventMealMessage, first)
		}()
	}
	wg.Wait()

	if n := emitter.HandlerCount(EventMealMessage); n != 1 {
		t.Fatalf("Expected 1 registered handler, got %d", n)
	}

	emitter.On(EventMealMessage, second)

	// Concurrent emission: 10 events hit both handlers.
	for j := 0; j < 10; j++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			emitter.Emit(EventMealMessage, Event{Type: EventMealMessage})
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if calls != 20 {
		t.Errorf("Expected 20 callbacks, but got %d", calls)
	}
}
