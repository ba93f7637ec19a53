package realtime

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

// Config is the environment-provided surface of the client. Every knob has a
// sane default; only the endpoint URL is mandatory.
type Config struct {
	// URL is the realtime endpoint base URI, e.g. wss://api.example.com/realtime.
	URL string `envconfig:"URL" required:"true"`

	// BackoffBase is the first reconnect delay; each scheduled retry doubles it.
	BackoffBase time.Duration `envconfig:"BACKOFF_BASE" default:"1s"`

	// MaxReconnectAttempts caps automatic reconnection before the client goes
	// terminal and emits EventMaxReconnectFailed.
	MaxReconnectAttempts int `envconfig:"MAX_RECONNECT_ATTEMPTS" default:"5"`

	// KeepAliveInterval is the cadence of outbound ping envelopes while connected.
	KeepAliveInterval time.Duration `envconfig:"KEEPALIVE_INTERVAL" default:"30s"`

	DialTimeout  time.Duration `envconfig:"DIAL_TIMEOUT" default:"10s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"5s"`
}

// ConfigFromEnv loads the configuration from REALTIME_* environment variables.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("realtime", &cfg); err != nil {
		return Config{}, errors.Wrap(err, "cannot load realtime config from environment")
	}
	return cfg, nil
}

// withDefaults fills zero fields on a hand-built Config so callers who only
// set URL get the same behavior as the env path.
func (c Config) withDefaults() Config {
	if c.BackoffBase <= 0 {
		c.BackoffBase = time.Second
	}
	if c.MaxReconnectAttempts <= 0 {
		c.MaxReconnectAttempts = 5
	}
	if c.KeepAliveInterval <= 0 {
		c.KeepAliveInterval = 30 * time.Second
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = 10 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 5 * time.Second
	}
	return c
}
