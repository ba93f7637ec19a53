package realtime

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/pkg/errors"
)

// transport owns the single underlying socket and its whole lifecycle:
// connect, disconnect, reconnection with exponential backoff, keepalive and
// inbound dispatch. Everything it has to tell the application flows through
// the event emitter; nothing transport-level is ever thrown at Send callers.
type transport struct {
	cfg     Config
	dialer  Dialer
	creds   TokenSource
	emitter *EventEmitter
	logger  Logger

	mu       sync.Mutex
	state    ConnState
	sock     Socket
	queue    outboundQueue
	attempts int
	ka       *keepAlive
	retry    *time.Timer
}

func newTransport(
	cfg Config,
	dialer Dialer,
	creds TokenSource,
	emitter *EventEmitter,
	logger Logger,
) *transport {
	return &transport{
		cfg:     cfg,
		dialer:  dialer,
		creds:   creds,
		emitter: emitter,
		logger:  logger.WithField("component", "transport"),
		state:   StateDisconnected,
	}
}

// Connect starts establishing the connection. It is a no-op while a connect is
// pending or a socket is open, declines with ErrMissingCredential when no
// bearer token is available, and otherwise resets the attempt counters and
// dials in the background. Completion is signalled via EventConnected, not by
// this call returning.
func (t *transport) Connect(ctx context.Context) error {
	uri, err := t.connURI(ctx)
	if err != nil {
		t.logger.Errorf("cannot connect: %s", err)
		return err
	}

	t.mu.Lock()
	if t.state == StateConnecting || t.state == StateConnected {
		t.mu.Unlock()
		t.logger.Debugln("connect ignored: already pending or open")
		return nil
	}
	t.stopRetryLocked()
	t.attempts = 0
	t.state = StateConnecting
	t.mu.Unlock()

	go t.dial(uri)
	return nil
}

// Disconnect deliberately tears the connection down: the socket is closed with
// the normal-closure code, no reconnect is scheduled, the outbound queue is
// dropped and every handler registration is removed.
func (t *transport) Disconnect() {
	t.mu.Lock()
	t.stopRetryLocked()
	if t.sock != nil {
		_ = t.sock.WriteClose(websocket.CloseNormalClosure)
		_ = t.sock.Close()
	}
	t.teardownLocked()
	t.queue.reset()
	t.mu.Unlock()

	t.emitter.Clear()
	t.logger.Infoln("disconnected deliberately")
}

// Send constructs an envelope and either transmits it immediately or queues it
// for the next successful connection. It never blocks and never fails; the
// envelope id is returned either way so callers can correlate later.
func (t *transport) Send(eventType EventType, data any, opts ...SendOption) string {
	o := applySendOptions(opts)
	env := newEnvelope(o.id, eventType, data)

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == StateConnected {
		t.writeLocked(env)
	} else {
		t.queue.push(env)
		t.logger.Debugf("not connected, queued %s (%d pending)", env, t.queue.size())
	}
	return env.ID
}

func (t *transport) On(event EventType, handler Handler) {
	t.emitter.On(event, handler)
}

func (t *transport) Off(event EventType, handler Handler) {
	t.emitter.Off(event, handler)
}

func (t *transport) State() ConnState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// QueuedCount reports how many envelopes await the next connection.
func (t *transport) QueuedCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.queue.size()
}

// dial opens one socket and completes the Connecting → Connected transition:
// reset the attempt counter, flush the queue FIFO, flip the state and only
// then emit EventConnected, so handlers that immediately call Send observe an
// open connection and their envelopes order after the flushed ones.
func (t *transport) dial(uri string) {
	sock, err := t.dialer.Dial(uri)
	if err != nil {
		t.mu.Lock()
		if t.state != StateConnecting {
			t.mu.Unlock()
			return
		}
		terminal := t.scheduleReconnectLocked()
		t.mu.Unlock()

		t.emitter.Emit(EventError, Event{Type: EventError, Err: err})
		if terminal {
			t.emitter.Emit(EventMaxReconnectFailed, Event{Type: EventMaxReconnectFailed, Err: err})
		}
		return
	}

	t.mu.Lock()
	if t.state != StateConnecting {
		// disconnected while the dial was in flight
		t.mu.Unlock()
		_ = sock.Close()
		return
	}
	t.sock = sock
	t.attempts = 0
	for _, env := range t.queue.drain() {
		t.writeLocked(env)
	}
	t.state = StateConnected
	t.ka = newKeepAlive(t.cfg.KeepAliveInterval, t.sendPing)
	go t.ka.run()
	t.mu.Unlock()

	go t.readLoop(sock)
	t.emitter.Emit(EventConnected, Event{Type: EventConnected})
}

func (t *transport) readLoop(sock Socket) {
	for {
		raw, err := sock.ReadMessage()
		if err != nil {
			t.onSocketClosed(sock, err)
			return
		}
		t.handleFrame(raw)
	}
}

// handleFrame parses one inbound frame and routes it. Malformed frames are
// logged and discarded without touching the connection. Pong replies are
// swallowed, server error frames re-emit as EventServerError, and every frame
// reaches the EventMessage catch-all set.
func (t *transport) handleFrame(raw []byte) {
	env, err := parseEnvelope(raw)
	if err != nil {
		t.logger.Errorf("discarding malformed frame: %s", err)
		return
	}

	switch env.Type {
	case EventPong:
		t.logger.Debugln("<= [PONG]")
	case EventError:
		t.emitter.Emit(EventServerError, Event{Type: EventServerError, Envelope: &env})
	default:
		if !env.Type.Reserved() {
			t.emitter.Emit(env.Type, Event{Type: env.Type, Envelope: &env})
		}
	}

	t.emitter.Emit(EventMessage, Event{Type: env.Type, Envelope: &env})
}

// onSocketClosed handles the death of a live socket. A close code other than
// normal closure counts as abnormal and schedules a reconnect.
func (t *transport) onSocketClosed(sock Socket, err error) {
	t.mu.Lock()
	if t.sock != sock {
		// stale read loop from a previous connection
		t.mu.Unlock()
		return
	}
	t.teardownLocked()

	code, reason := closeCode(err)
	var terminal bool
	if code != websocket.CloseNormalClosure {
		terminal = t.scheduleReconnectLocked()
	}
	t.mu.Unlock()

	t.logger.Warnf("connection closed (code=%d): %s", code, err)
	t.emitter.Emit(EventDisconnected, Event{
		Type:   EventDisconnected,
		Code:   code,
		Reason: reason,
		Err:    errors.Wrap(ErrConnectionClosed, err.Error()),
	})
	if terminal {
		t.emitter.Emit(EventMaxReconnectFailed, Event{Type: EventMaxReconnectFailed, Err: err})
	}
}

// teardownLocked releases the per-connection resources. Caller holds t.mu.
func (t *transport) teardownLocked() {
	if t.ka != nil {
		t.ka.stop()
		t.ka = nil
	}
	t.sock = nil
	t.state = StateDisconnected
}

// writeLocked serializes and transmits one envelope. Caller holds t.mu.
// Serialization and write failures are logged, never propagated: if the
// socket is dying the read loop notices and drives the state machine.
func (t *transport) writeLocked(env Envelope) {
	bts, err := env.encode()
	if err != nil {
		t.logger.Errorf("dropping outbound envelope: %s", err)
		return
	}
	if err := t.sock.WriteMessage(bts); err != nil {
		t.logger.Errorf("write failed for %s: %s", env, err)
	}
}

func (t *transport) sendPing() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateConnected {
		return
	}
	t.writeLocked(newEnvelope("", EventPing, nil))
}

// connURI appends the bearer credential to the endpoint base URI.
func (t *transport) connURI(ctx context.Context) (string, error) {
	token, err := t.creds.Token(ctx)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", ErrMissingCredential
	}

	sep := "?"
	if strings.Contains(t.cfg.URL, "?") {
		sep = "&"
	}
	return t.cfg.URL + sep + "token=" + url.QueryEscape(token), nil
}
