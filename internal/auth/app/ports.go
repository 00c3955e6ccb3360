package app

import (
	"context"
	"fmt"
)

// Identity is the authenticated principal as reported by the provider.
type Identity struct {
	UID         string `json:"uid"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	Anonymous   bool   `json:"anonymous"`
}

// Provider is the external identity provider surface this system consumes.
type Provider interface {
	SignInAnonymously(ctx context.Context) (Identity, error)
	SignInWithCustomToken(ctx context.Context, token string) (Identity, error)
	SignInWithEmail(ctx context.Context, email, password string) (Identity, error)
	Register(ctx context.Context, email, password string) (Identity, error)
	SignInWithGoogle(ctx context.Context, idToken string) (Identity, error)
}

// Authorizer answers the admin capability question as a role lookup, not an
// identifier comparison.
type Authorizer interface {
	IsAdmin(ctx context.Context, uid string) (bool, error)
}

// ProviderError carries the provider's machine-readable error code so it can
// be mapped to a user-facing message.
type ProviderError struct {
	Code string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("identity provider: %s", e.Code)
}

// Provider error codes with dedicated user-facing messages.
const (
	CodeEmailExists             = "EMAIL_EXISTS"
	CodeInvalidEmail            = "INVALID_EMAIL"
	CodeWeakPassword            = "WEAK_PASSWORD"
	CodeEmailNotFound           = "EMAIL_NOT_FOUND"
	CodeInvalidPassword         = "INVALID_PASSWORD"
	CodeInvalidLoginCredentials = "INVALID_LOGIN_CREDENTIALS"
)
