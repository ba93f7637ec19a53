package realtime

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// nowFunc is swapped in tests to pin expiry checks.
var nowFunc = time.Now

type (
	// TokenSource supplies the bearer credential attached to the connection
	// URI at dial time. Connect declines when the source returns an empty
	// token or an error.
	TokenSource interface {
		Token(ctx context.Context) (string, error)
	}

	// TokenFunc adapts a plain function to a TokenSource.
	TokenFunc func(ctx context.Context) (string, error)

	staticTokenSource struct {
		token string
	}

	expiryGuard struct {
		inner  TokenSource
		parser *jwt.Parser
	}
)

func (f TokenFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}

// StaticTokenSource returns a source that always yields the same credential.
func StaticTokenSource(token string) TokenSource {
	return staticTokenSource{token: token}
}

func (s staticTokenSource) Token(_ context.Context) (string, error) {
	if s.token == "" {
		return "", ErrMissingCredential
	}
	return s.token, nil
}

// NewExpiryGuard wraps a TokenSource so that an already-expired bearer JWT
// fails fast with ErrCredentialExpired instead of a doomed dial. Tokens that
// do not parse as JWTs pass through untouched.
func NewExpiryGuard(inner TokenSource) TokenSource {
	return expiryGuard{
		inner:  inner,
		parser: jwt.NewParser(jwt.WithoutClaimsValidation()),
	}
}

func (g expiryGuard) Token(ctx context.Context) (string, error) {
	token, err := g.inner.Token(ctx)
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{}
	if _, _, err := g.parser.ParseUnverified(token, claims); err != nil {
		// Not a JWT; nothing to check.
		return token, nil
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return token, nil
	}
	if exp.Before(nowFunc()) {
		return "", errors.Wrapf(ErrCredentialExpired, "expired at %s", exp)
	}

	return token, nil
}
