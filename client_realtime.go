package realtime

type (
	// ClientOption customizes the client at construction time.
	ClientOption func(*clientOptions)

	clientOptions struct {
		logger Logger
		dialer Dialer
	}
)

// WithLogger replaces the default zerolog-backed logger.
func WithLogger(logger Logger) ClientOption {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// WithDialer replaces the production WebSocket dialer. Tests use this to
// inject fakes.
func WithDialer(dialer Dialer) ClientOption {
	return func(o *clientOptions) {
		o.dialer = dialer
	}
}

// NewClient wires the transport, the event emitter and the outbound queue
// behind the Client interface.
func NewClient(cfg Config, creds TokenSource, opts ...ClientOption) Client {
	o := clientOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	cfg = cfg.withDefaults()

	if o.logger == nil {
		o.logger = DefaultLogger()
	}
	if o.dialer == nil {
		o.dialer = NewWebsocketDialer(o.logger, cfg.DialTimeout, cfg.WriteTimeout)
	}

	emitter := NewEventEmitter(o.logger)

	return newTransport(cfg, o.dialer, creds, emitter, o.logger)
}
