// Package auth is the identity gate: Google sign-in, a signed session token,
// and middleware that resolves the caller for downstream handlers.
//
// The gate identifies callers; it does not authorize them. No vendor route
// requires a session.
package auth

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrInvalidToken is returned when a session token is malformed, forged or expired.
	ErrInvalidToken = errors.New("auth: invalid session token")

	// ErrSignIn is returned when the provider round trip fails.
	ErrSignIn = errors.New("auth: sign in failed")
)

// Identity is the signed-in caller.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Image string `json:"image,omitempty"`
}

// Service defines the interface for authentication-related business logic.
type Service interface {
	// SignInURL is the provider consent page carrying state.
	SignInURL(state string) string
	// Authenticate exchanges an authorization code for the caller's identity
	// and records the sign-in.
	Authenticate(ctx context.Context, code string) (*Identity, error)
	IssueToken(identity *Identity) (token string, expires time.Time, err error)
	VerifyToken(token string) (*Identity, error)
}

type contextKey struct{}

// WithIdentity returns a copy of ctx carrying identity.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, identity)
}

// FromContext returns the caller resolved by Identify, if any.
func FromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(contextKey{}).(*Identity)
	return identity, ok && identity != nil
}
