package realtime

import (
	"sync"
	"time"
)

// keepAlive periodically sends ping envelopes while a connection is open, so
// intermediaries (proxies, load balancers) do not time the socket out. The
// server's pong replies are swallowed by the transport; their content is of
// no interest here.
type keepAlive struct {
	interval time.Duration
	send     func()

	stopOnce sync.Once
	stopC    chan struct{}
}

func newKeepAlive(interval time.Duration, send func()) *keepAlive {
	return &keepAlive{
		interval: interval,
		send:     send,
		stopC:    make(chan struct{}),
	}
}

// run sends keep-alive pings at the configured cadence until stopped.
func (k *keepAlive) run() {
	ticker := time.NewTicker(k.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			k.send()
		case <-k.stopC:
			return
		}
	}
}

// stop terminates the routine. Subsequent calls have no effect.
func (k *keepAlive) stop() {
	k.stopOnce.Do(func() {
		close(k.stopC)
	})
}
