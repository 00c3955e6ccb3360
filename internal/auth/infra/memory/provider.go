// Package memory is an in-process identity provider for local dev and tests.
// It speaks the same error codes as the real provider so the user-facing
// message mapping is exercised end to end.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Koushik0914/ecospha-organics/internal/auth/app"
)

type account struct {
	uid      string
	password string
}

type Provider struct {
	mu       sync.Mutex
	accounts map[string]account
}

func NewProvider() *Provider {
	return &Provider{accounts: make(map[string]account)}
}

func (p *Provider) SignInAnonymously(ctx context.Context) (app.Identity, error) {
	return app.Identity{UID: uuid.NewString(), Anonymous: true}, nil
}

func (p *Provider) SignInWithCustomToken(ctx context.Context, token string) (app.Identity, error) {
	if token == "" {
		return app.Identity{}, &app.ProviderError{Code: "INVALID_CUSTOM_TOKEN"}
	}
	return app.Identity{UID: "token-" + token}, nil
}

func (p *Provider) SignInWithEmail(ctx context.Context, email, password string) (app.Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	acc, ok := p.accounts[strings.ToLower(email)]
	if !ok {
		return app.Identity{}, &app.ProviderError{Code: app.CodeEmailNotFound}
	}
	if acc.password != password {
		return app.Identity{}, &app.ProviderError{Code: app.CodeInvalidPassword}
	}
	return app.Identity{UID: acc.uid, Email: email}, nil
}

func (p *Provider) Register(ctx context.Context, email, password string) (app.Identity, error) {
	if !strings.Contains(email, "@") {
		return app.Identity{}, &app.ProviderError{Code: app.CodeInvalidEmail}
	}
	if len(password) < 6 {
		return app.Identity{}, &app.ProviderError{Code: app.CodeWeakPassword}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	key := strings.ToLower(email)
	if _, exists := p.accounts[key]; exists {
		return app.Identity{}, &app.ProviderError{Code: app.CodeEmailExists}
	}

	acc := account{uid: uuid.NewString(), password: password}
	p.accounts[key] = acc
	return app.Identity{UID: acc.uid, Email: email}, nil
}

func (p *Provider) SignInWithGoogle(ctx context.Context, idToken string) (app.Identity, error) {
	if idToken == "" {
		return app.Identity{}, &app.ProviderError{Code: "INVALID_IDP_RESPONSE"}
	}
	return app.Identity{UID: "google-" + uuid.NewString(), DisplayName: "Google User"}, nil
}
