package identitytoolkit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Koushik0914/ecospha-organics/internal/auth/app"
)

func stubServer(t *testing.T, status int, body any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("missing api key on %s", r.URL)
		}
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
}

func TestSignInWithEmail(t *testing.T) {
	srv := stubServer(t, http.StatusOK, map[string]string{
		"localId": "uid-1",
		"email":   "a@b.co",
	})
	defer srv.Close()

	p := NewProviderWithBase("test-key", srv.URL)
	id, err := p.SignInWithEmail(context.Background(), "a@b.co", "secret")
	if err != nil {
		t.Fatalf("SignInWithEmail: %v", err)
	}
	if id.UID != "uid-1" || id.Email != "a@b.co" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestProviderErrorCodeSurfaced(t *testing.T) {
	srv := stubServer(t, http.StatusBadRequest, map[string]any{
		"error": map[string]any{"message": "EMAIL_EXISTS"},
	})
	defer srv.Close()

	p := NewProviderWithBase("test-key", srv.URL)
	_, err := p.Register(context.Background(), "a@b.co", "secret")

	var perr *app.ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if perr.Code != "EMAIL_EXISTS" {
		t.Fatalf("expected EMAIL_EXISTS, got %s", perr.Code)
	}
}

func TestAnonymousSignIn(t *testing.T) {
	srv := stubServer(t, http.StatusOK, map[string]string{"localId": "anon-1"})
	defer srv.Close()

	p := NewProviderWithBase("test-key", srv.URL)
	id, err := p.SignInAnonymously(context.Background())
	if err != nil {
		t.Fatalf("SignInAnonymously: %v", err)
	}
	if !id.Anonymous || id.UID != "anon-1" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}
