package realtime

type (
	// Socket is one open wire to the realtime server.
	Socket interface {
		// ReadMessage blocks until the next raw frame arrives or the socket dies.
		ReadMessage() ([]byte, error)
		// WriteMessage sends one raw frame.
		WriteMessage(data []byte) error
		// WriteClose announces closure with the given close code.
		WriteClose(code int) error
		Close() error
	}

	// Dialer opens sockets against the realtime endpoint.
	Dialer interface {
		Dial(uri string) (Socket, error)
	}
)
