package realtime

// outboundQueue buffers envelopes composed while the transport is not
// connected. It is drained strictly FIFO, exactly once per reconnect, inside
// the transition to Connected. Not safe for concurrent use on its own; the
// transport's mutex guards every access.
type outboundQueue struct {
	items []Envelope
}

func (q *outboundQueue) push(e Envelope) {
	q.items = append(q.items, e)
}

// drain returns the queued envelopes in insertion order and empties the queue.
func (q *outboundQueue) drain() []Envelope {
	items := q.items
	q.items = nil
	return items
}

// reset drops everything. Queued-but-undelivered envelopes are not persisted;
// that is the documented contract of explicit disconnect.
func (q *outboundQueue) reset() {
	q.items = nil
}

func (q *outboundQueue) size() int {
	return len(q.items)
}
