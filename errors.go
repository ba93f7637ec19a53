package realtime

import (
	"github.com/pkg/errors"
)

var (
	ErrConnectionClosed  = errors.New("connection has been closed")
	ErrCannotConnect     = errors.New("connection cannot be established")
	ErrRateLimit         = errors.New("rate limit exceeded")
	ErrMissingCredential = errors.New("no credential available")
	ErrCredentialExpired = errors.New("credential has expired")
)
