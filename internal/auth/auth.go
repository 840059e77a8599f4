// Package auth abstracts the external auth provider. The backend only
// passes credentials and tokens through; none of the provider's logic is
// re-derived here.
package auth

import "context"

// Provider is the surface consumed from the auth service.
type Provider interface {
	// CreateAccount provisions a new account and returns its uid.
	CreateAccount(ctx context.Context, email, password, displayName string) (string, error)

	// VerifyCredentials checks an email/password pair and returns the uid
	// and a session token.
	VerifyCredentials(ctx context.Context, email, password string) (uid, token string, err error)

	// IssueToken mints a token for the given uid.
	IssueToken(ctx context.Context, uid string) (string, error)

	// VerifyToken validates a token and returns the uid it belongs to.
	VerifyToken(ctx context.Context, token string) (string, error)

	// RevokeTokens invalidates all refresh tokens for the uid.
	RevokeTokens(ctx context.Context, uid string) error
}
