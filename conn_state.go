package realtime

// ConnState is the lifecycle state of the logical connection. At most one
// underlying socket is open at any time; Connecting covers both an in-flight
// dial and the wait for a scheduled reconnect.
type ConnState int

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateConnected

	// StateExhausted is reached when the reconnect attempt cap is hit. No
	// further automatic attempts happen; an explicit Connect resets the
	// counters and starts over.
	StateExhausted
)

func (s ConnState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}
