package realtime

import (
	"sync"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// fakeSocket records client writes and replays scripted inbound frames.
type fakeSocket struct {
	mu        sync.Mutex
	written   [][]byte
	closeCode int

	inbound   chan []byte
	errC      chan error
	doneC     chan struct{}
	closeOnce sync.Once
}

func newFakeSocket() *fakeSocket {
	return &fakeSocket{
		inbound: make(chan []byte, 16),
		errC:    make(chan error, 1),
		doneC:   make(chan struct{}),
	}
}

func (s *fakeSocket) ReadMessage() ([]byte, error) {
	select {
	case bts := <-s.inbound:
		return bts, nil
	case err := <-s.errC:
		return nil, err
	case <-s.doneC:
		return nil, errors.New("use of closed connection")
	}
}

func (s *fakeSocket) WriteMessage(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]byte, len(data))
	copy(cp, data)
	s.written = append(s.written, cp)
	return nil
}

func (s *fakeSocket) WriteClose(code int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closeCode = code
	return nil
}

func (s *fakeSocket) Close() error {
	s.closeOnce.Do(func() {
		close(s.doneC)
	})
	return nil
}

// serve queues an inbound frame for the read loop.
func (s *fakeSocket) serve(raw []byte) {
	s.inbound <- raw
}

func (s *fakeSocket) serveEnvelope(env Envelope) {
	bts, err := json.Marshal(env)
	if err != nil {
		panic(err)
	}
	s.serve(bts)
}

// fail makes the next read return err, simulating the socket dying.
func (s *fakeSocket) fail(err error) {
	s.errC <- err
}

// envelopes decodes everything written by the client so far.
func (s *fakeSocket) envelopes() []Envelope {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Envelope, 0, len(s.written))
	for _, bts := range s.written {
		var env Envelope
		if err := json.Unmarshal(bts, &env); err != nil {
			panic(err)
		}
		out = append(out, env)
	}
	return out
}

func (s *fakeSocket) sentCloseCode() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closeCode
}

// fakeDialer hands out fake sockets, optionally failing a scripted number of
// dials first.
type fakeDialer struct {
	mu       sync.Mutex
	sockets  []*fakeSocket
	dialed   []string
	failures int
	failErr  error
}

func newFakeDialer() *fakeDialer {
	return &fakeDialer{}
}

// failNext makes the next n dial attempts fail with err.
func (d *fakeDialer) failNext(n int, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.failures = n
	d.failErr = err
}

func (d *fakeDialer) Dial(uri string) (Socket, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.dialed = append(d.dialed, uri)
	if d.failures > 0 {
		d.failures--
		return nil, d.failErr
	}

	s := newFakeSocket()
	d.sockets = append(d.sockets, s)
	return s, nil
}

func (d *fakeDialer) dialCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.dialed)
}

func (d *fakeDialer) lastURI() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.dialed) == 0 {
		return ""
	}
	return d.dialed[len(d.dialed)-1]
}

// current returns the most recently opened socket, or nil.
func (d *fakeDialer) current() *fakeSocket {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.sockets) == 0 {
		return nil
	}
	return d.sockets[len(d.sockets)-1]
}
