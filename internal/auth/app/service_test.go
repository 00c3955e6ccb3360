package app

import (
	"context"
	"errors"
	"log/slog"
	"testing"
)

type fakeProvider struct {
	customTokenErr error
	anonCalls      int
}

func (f *fakeProvider) SignInAnonymously(ctx context.Context) (Identity, error) {
	f.anonCalls++
	return Identity{UID: "anon-1", Anonymous: true}, nil
}

func (f *fakeProvider) SignInWithCustomToken(ctx context.Context, token string) (Identity, error) {
	if f.customTokenErr != nil {
		return Identity{}, f.customTokenErr
	}
	return Identity{UID: "custom-1"}, nil
}

func (f *fakeProvider) SignInWithEmail(ctx context.Context, email, password string) (Identity, error) {
	return Identity{UID: "user-1", Email: email}, nil
}

func (f *fakeProvider) Register(ctx context.Context, email, password string) (Identity, error) {
	return Identity{UID: "user-2", Email: email}, nil
}

func (f *fakeProvider) SignInWithGoogle(ctx context.Context, idToken string) (Identity, error) {
	return Identity{UID: "google-1"}, nil
}

type fakeAuthz struct {
	admins map[string]bool
}

func (f *fakeAuthz) IsAdmin(ctx context.Context, uid string) (bool, error) {
	return f.admins[uid], nil
}

func newTestService(p *fakeProvider) *Service {
	return NewService(p, &fakeAuthz{admins: map[string]bool{"admin-1": true}}, slog.Default())
}

func TestBootstrapCustomTokenFallsBackToAnonymous(t *testing.T) {
	p := &fakeProvider{customTokenErr: errors.New("token expired")}
	svc := newTestService(p)

	id, err := svc.Bootstrap(context.Background(), "s1", "bad-token")
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if !id.Anonymous {
		t.Fatalf("expected anonymous fallback, got %+v", id)
	}
	if p.anonCalls != 1 {
		t.Fatalf("expected 1 anonymous sign-in, got %d", p.anonCalls)
	}
}

func TestBootstrapWithoutTokenIsAnonymous(t *testing.T) {
	p := &fakeProvider{}
	svc := newTestService(p)

	id, err := svc.Bootstrap(context.Background(), "s1", "")
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if id.UID != "anon-1" {
		t.Fatalf("expected anonymous identity, got %+v", id)
	}
}

func TestSignOutClearsIdentity(t *testing.T) {
	svc := newTestService(&fakeProvider{})

	if _, err := svc.SignIn(context.Background(), "s1", "a@b.co", "secret"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if _, ok := svc.Current("s1"); !ok {
		t.Fatal("expected identity after sign-in")
	}

	svc.SignOut("s1")
	if _, ok := svc.Current("s1"); ok {
		t.Fatal("expected no identity after sign-out")
	}
}

func TestStateChangesStream(t *testing.T) {
	svc := newTestService(&fakeProvider{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := svc.StateChanges(ctx, "s1")
	if _, err := svc.SignIn(context.Background(), "s1", "a@b.co", "secret"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	got := <-ch
	if got.UID != "user-1" {
		t.Fatalf("expected user-1 on the stream, got %+v", got)
	}
}

func TestIsAdminRoleLookup(t *testing.T) {
	svc := newTestService(&fakeProvider{})

	if ok, _ := svc.IsAdmin(context.Background(), "admin-1"); !ok {
		t.Fatal("expected admin-1 to be admin")
	}
	if ok, _ := svc.IsAdmin(context.Background(), "user-1"); ok {
		t.Fatal("expected user-1 not to be admin")
	}
	if ok, _ := svc.IsAdmin(context.Background(), ""); ok {
		t.Fatal("empty uid is never admin")
	}
}

func TestMessageForError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"email exists", &ProviderError{Code: "EMAIL_EXISTS"}, "This email is already registered. Try logging in."},
		{"invalid email", &ProviderError{Code: "INVALID_EMAIL"}, "Invalid email address."},
		{"weak password with detail", &ProviderError{Code: "WEAK_PASSWORD : Password should be at least 6 characters"}, "Password should be at least 6 characters."},
		{"wrong password", &ProviderError{Code: "INVALID_PASSWORD"}, "Invalid email or password."},
		{"unknown user", &ProviderError{Code: "EMAIL_NOT_FOUND"}, "Invalid email or password."},
		{"unrecognized code", &ProviderError{Code: "TOO_MANY_ATTEMPTS_TRY_LATER"}, "Authentication failed. Please try again."},
		{"non-provider error", errors.New("network down"), "Authentication failed. Please try again."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := MessageForError(tc.err); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}
