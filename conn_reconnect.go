package realtime

import (
	"context"
	"time"
)

// exponentialBackoff yields base << attempts: the delay before retry N doubles
// the previous one, starting at the base interval for attempt 0.
func exponentialBackoff(base time.Duration, attempts int) time.Duration {
	return base * time.Duration(1<<attempts)
}

// scheduleReconnectLocked arms the retry timer for the next reconnect attempt,
// or flips the connection terminal when the attempt cap has been reached. The
// caller holds t.mu and must emit EventMaxReconnectFailed itself when terminal
// is returned, after releasing the lock.
func (t *transport) scheduleReconnectLocked() (terminal bool) {
	if t.attempts >= t.cfg.MaxReconnectAttempts {
		t.state = StateExhausted
		t.logger.Errorf("giving up after %d reconnect attempts", t.attempts)
		return true
	}

	delay := exponentialBackoff(t.cfg.BackoffBase, t.attempts)
	t.attempts++
	t.state = StateConnecting
	t.logger.Infof(
		"retrying to connect in %s (attempt %d/%d)",
		delay, t.attempts, t.cfg.MaxReconnectAttempts,
	)
	t.retry = time.AfterFunc(delay, t.redial)
	return false
}

func (t *transport) stopRetryLocked() {
	if t.retry != nil {
		t.retry.Stop()
		t.retry = nil
	}
}

// redial runs when the backoff timer fires. The credential is re-fetched on
// every attempt since it may have rotated since the last dial.
func (t *transport) redial() {
	uri, err := t.connURI(context.Background())
	if err != nil {
		t.logger.Errorf("cannot reconnect: %s", err)
		t.mu.Lock()
		if t.state != StateConnecting {
			t.mu.Unlock()
			return
		}
		terminal := t.scheduleReconnectLocked()
		t.mu.Unlock()
		if terminal {
			t.emitter.Emit(EventMaxReconnectFailed, Event{Type: EventMaxReconnectFailed, Err: err})
		}
		return
	}

	t.dial(uri)
}
