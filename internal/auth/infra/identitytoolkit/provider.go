// Package identitytoolkit implements the identity provider port over the
// Identity Toolkit REST API.
package identitytoolkit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Koushik0914/ecospha-organics/internal/auth/app"
)

const defaultBaseURL = "https://identitytoolkit.googleapis.com/v1"

type Provider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewProvider(apiKey string) *Provider {
	return &Provider{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// NewProviderWithBase is used by tests to point at a stub server.
func NewProviderWithBase(apiKey, baseURL string) *Provider {
	p := NewProvider(apiKey)
	p.baseURL = baseURL
	return p
}

type accountResponse struct {
	LocalID     string `json:"localId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (p *Provider) SignInAnonymously(ctx context.Context) (app.Identity, error) {
	id, err := p.call(ctx, "accounts:signUp", map[string]any{
		"returnSecureToken": true,
	})
	if err != nil {
		return app.Identity{}, err
	}
	id.Anonymous = true
	return id, nil
}

func (p *Provider) SignInWithCustomToken(ctx context.Context, token string) (app.Identity, error) {
	return p.call(ctx, "accounts:signInWithCustomToken", map[string]any{
		"token":             token,
		"returnSecureToken": true,
	})
}

func (p *Provider) SignInWithEmail(ctx context.Context, email, password string) (app.Identity, error) {
	return p.call(ctx, "accounts:signInWithPassword", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
}

func (p *Provider) Register(ctx context.Context, email, password string) (app.Identity, error) {
	return p.call(ctx, "accounts:signUp", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
}

func (p *Provider) SignInWithGoogle(ctx context.Context, idToken string) (app.Identity, error) {
	return p.call(ctx, "accounts:signInWithIdp", map[string]any{
		"postBody":            fmt.Sprintf("id_token=%s&providerId=google.com", idToken),
		"requestUri":          "http://localhost",
		"returnSecureToken":   true,
		"returnIdpCredential": true,
	})
}

func (p *Provider) call(ctx context.Context, action string, payload map[string]any) (app.Identity, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return app.Identity{}, err
	}

	url := fmt.Sprintf("%s/%s?key=%s", p.baseURL, action, p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return app.Identity{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return app.Identity{}, fmt.Errorf("identity provider request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var er errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&er); err == nil && er.Error.Message != "" {
			return app.Identity{}, &app.ProviderError{Code: er.Error.Message}
		}
		return app.Identity{}, fmt.Errorf("identity provider: unexpected status %d", resp.StatusCode)
	}

	var ar accountResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return app.Identity{}, fmt.Errorf("identity provider response: %w", err)
	}

	return app.Identity{
		UID:         ar.LocalID,
		Email:       ar.Email,
		DisplayName: ar.DisplayName,
	}, nil
}
