package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
)

// Service tracks the identity bound to each browsing session and fans
// auth-state changes out to subscribers, mirroring the provider's
// auth-state-changed stream.
type Service struct {
	provider Provider
	authz    Authorizer
	log      *slog.Logger

	mu          sync.Mutex
	sessions    map[string]Identity
	subscribers map[string][]chan Identity
}

func NewService(provider Provider, authz Authorizer, log *slog.Logger) *Service {
	return &Service{
		provider:    provider,
		authz:       authz,
		log:         log.With("component", "auth"),
		sessions:    make(map[string]Identity),
		subscribers: make(map[string][]chan Identity),
	}
}

// Bootstrap establishes the session's initial identity: a custom token when
// one is supplied, anonymous otherwise. A failing custom token falls back to
// anonymous sign-in instead of surfacing the failure.
func (s *Service) Bootstrap(ctx context.Context, sessionID, customToken string) (Identity, error) {
	if customToken != "" {
		id, err := s.provider.SignInWithCustomToken(ctx, customToken)
		if err == nil {
			s.setIdentity(sessionID, id)
			return id, nil
		}
		s.log.Warn("custom token sign-in failed, falling back to anonymous", "err", err)
	}

	id, err := s.provider.SignInAnonymously(ctx)
	if err != nil {
		return Identity{}, err
	}
	s.setIdentity(sessionID, id)
	return id, nil
}

func (s *Service) SignIn(ctx context.Context, sessionID, email, password string) (Identity, error) {
	id, err := s.provider.SignInWithEmail(ctx, email, password)
	if err != nil {
		return Identity{}, err
	}
	s.setIdentity(sessionID, id)
	return id, nil
}

func (s *Service) Register(ctx context.Context, sessionID, email, password string) (Identity, error) {
	id, err := s.provider.Register(ctx, email, password)
	if err != nil {
		return Identity{}, err
	}
	s.setIdentity(sessionID, id)
	return id, nil
}

func (s *Service) SignInWithGoogle(ctx context.Context, sessionID, idToken string) (Identity, error) {
	id, err := s.provider.SignInWithGoogle(ctx, idToken)
	if err != nil {
		return Identity{}, err
	}
	s.setIdentity(sessionID, id)
	return id, nil
}

func (s *Service) SignOut(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	subs := append([]chan Identity(nil), s.subscribers[sessionID]...)
	s.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- Identity{}:
		default:
		}
	}
}

// Current returns the session's identity, if any.
func (s *Service) Current(sessionID string) (Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.sessions[sessionID]
	return id, ok
}

// StateChanges subscribes to the session's auth-state stream. The channel is
// dropped when ctx is cancelled.
func (s *Service) StateChanges(ctx context.Context, sessionID string) <-chan Identity {
	ch := make(chan Identity, 1)

	s.mu.Lock()
	s.subscribers[sessionID] = append(s.subscribers[sessionID], ch)
	if id, ok := s.sessions[sessionID]; ok {
		ch <- id
	}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		subs := s.subscribers[sessionID]
		for i, sub := range subs {
			if sub == ch {
				s.subscribers[sessionID] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
	}()

	return ch
}

func (s *Service) IsAdmin(ctx context.Context, uid string) (bool, error) {
	if uid == "" {
		return false, nil
	}
	return s.authz.IsAdmin(ctx, uid)
}

func (s *Service) setIdentity(sessionID string, id Identity) {
	s.mu.Lock()
	s.sessions[sessionID] = id
	subs := append([]chan Identity(nil), s.subscribers[sessionID]...)
	s.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- id:
		default:
		}
	}
}

// MessageForError maps provider error codes to the storefront's user-facing
// messages. Unrecognized failures get the generic message; auth errors are
// never fatal.
func MessageForError(err error) string {
	var perr *ProviderError
	if !errors.As(err, &perr) {
		return "Authentication failed. Please try again."
	}

	// Some provider deployments qualify codes with detail, e.g.
	// "WEAK_PASSWORD : Password should be at least 6 characters".
	code := perr.Code
	if i := strings.IndexByte(code, ' '); i > 0 {
		code = code[:i]
	}

	switch code {
	case CodeEmailExists:
		return "This email is already registered. Try logging in."
	case CodeInvalidEmail:
		return "Invalid email address."
	case CodeWeakPassword:
		return "Password should be at least 6 characters."
	case CodeEmailNotFound, CodeInvalidPassword, CodeInvalidLoginCredentials:
		return "Invalid email or password."
	default:
		return "Authentication failed. Please try again."
	}
}
