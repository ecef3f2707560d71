package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-student-client/internal/models"
	"github.com/noah-isme/lms-student-client/pkg/storage"
)

// Store is the process-wide session. It applies the transitions in this
// package under a lock and mirrors the token into persistent storage.
type Store struct {
	mu     sync.RWMutex
	snap   Snapshot
	tokens storage.TokenStore
	logger *zap.Logger
}

// NewStore restores a previously persisted token, if any.
func NewStore(ctx context.Context, tokens storage.TokenStore, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if tokens == nil {
		tokens = &storage.MemoryTokenStore{}
	}
	token, err := tokens.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	return &Store{snap: Snapshot{Token: token}, tokens: tokens, logger: logger}, nil
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Token returns the bearer token, or "". It satisfies httpclient.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Token
}

// Status is a shortcut for Snapshot().Status().
func (s *Store) Status() Status {
	return s.Snapshot().Status()
}

// User returns the known profile, or nil.
func (s *Store) User() *models.User {
	return s.Snapshot().User
}

func (s *Store) apply(transition func(Snapshot) Snapshot) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = transition(s.snap)
	return s.snap
}

// BeginAuth marks a flow as in flight.
func (s *Store) BeginAuth() {
	s.apply(BeginAuth)
}

// TokenIssued persists and stores a new token.
func (s *Store) TokenIssued(ctx context.Context, token string, user *models.User) error {
	if err := s.tokens.Save(ctx, token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	s.apply(func(snap Snapshot) Snapshot { return TokenIssued(snap, token, user) })
	return nil
}

// AuthFailed records the message of a failed flow.
func (s *Store) AuthFailed(message string) {
	s.apply(func(snap Snapshot) Snapshot { return AuthFailed(snap, message) })
}

// AuthDone ends a successful flow.
func (s *Store) AuthDone() {
	s.apply(AuthDone)
}

// ProfileLoaded stores the current user.
func (s *Store) ProfileLoaded(user *models.User) {
	s.apply(func(snap Snapshot) Snapshot { return ProfileLoaded(snap, user) })
}

// ProfileFailed drops the token in memory and in storage.
func (s *Store) ProfileFailed(ctx context.Context, message string) {
	s.apply(func(snap Snapshot) Snapshot { return ProfileFailed(snap, message) })
	s.forget(ctx)
}

// SetUser replaces the profile after an edit.
func (s *Store) SetUser(user *models.User) {
	s.apply(func(snap Snapshot) Snapshot {
		snap.User = user
		return snap
	})
}

// LoggedOut clears the session in memory and in storage.
func (s *Store) LoggedOut(ctx context.Context) {
	s.apply(LoggedOut)
	s.forget(ctx)
}

// ClearError dismisses the current message.
func (s *Store) ClearError() {
	s.apply(ErrorCleared)
}

// forget only logs storage failures; the in-memory session is already clear.
func (s *Store) forget(ctx context.Context) {
	if err := s.tokens.Clear(ctx); err != nil {
		s.logger.Warn("clear persisted token", zap.Error(err))
	}
}

// Claims decodes the token payload without verifying its signature. The
// result is informational only; the server remains the authority.
func (s *Store) Claims() (*models.SessionClaims, error) {
	token := s.Token()
	if token == "" {
		return nil, fmt.Errorf("no session token")
	}
	claims := &models.SessionClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("decode session token: %w", err)
	}
	return claims, nil
}
