package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sakif/clipfeed/internal/model"
	"github.com/sakif/clipfeed/internal/store"
)

// SessionTTL is how long a login stays fresh. A session older than this is
// stale: the profile page masks its details and demands re-authentication.
// The stored pointer itself is never invalidated by staleness — logging in
// again on the same key simply refreshes it.
const SessionTTL = 14 * 24 * time.Hour

// SessionService tracks the single current-user pointer. One process owns
// one profile, so there is at most one active session.
type SessionService struct {
	store  *store.Store
	logger *slog.Logger
	clock  func() time.Time
}

// NewSessionService creates a SessionService.
func NewSessionService(st *store.Store, logger *slog.Logger) *SessionService {
	return &SessionService{
		store:  st,
		logger: logger,
		clock:  time.Now,
	}
}

// Session is the resolved current session.
type Session struct {
	Key     string
	Account model.Account
}

// Current resolves the stored pointer against the account map. Returns
// (nil, nil) when no pointer is stored — and also when the pointer names an
// account that no longer exists. Accounts are never deleted in this design,
// but the contract holds regardless.
func (s *SessionService) Current(ctx context.Context) (*Session, error) {
	key, err := s.store.CurrentUserKey(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving session: %w", err)
	}
	if key == "" {
		return nil, nil
	}

	users, err := s.store.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving session: %w", err)
	}
	account, ok := users[key]
	if !ok {
		s.logger.Warn("session points at missing account", slog.String("key", key))
		return nil, nil
	}

	return &Session{Key: key, Account: account}, nil
}

// Establish persists the session pointer. It does not touch activity —
// callers refresh timestamps explicitly after authenticating.
func (s *SessionService) Establish(ctx context.Context, key string) error {
	if err := s.store.SetCurrentUserKey(ctx, key); err != nil {
		return fmt.Errorf("establishing session: %w", err)
	}
	s.logger.Info("session established", slog.String("key", key))
	return nil
}

// Clear removes the session pointer (logout). Accounts are untouched.
func (s *SessionService) Clear(ctx context.Context) error {
	if err := s.store.ClearCurrentUserKey(ctx); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	s.logger.Info("session cleared")
	return nil
}

// IsStale reports whether the account's last login is too old to show
// profile details. True when no login was ever recorded, or when strictly
// more than SessionTTL has elapsed — exactly 14 days is still fresh.
func (s *SessionService) IsStale(account model.Account) bool {
	if account.LastLoginAt.IsZero() {
		return true
	}
	return s.clock().Sub(account.LastLoginAt) > SessionTTL
}

// NeedsOnboarding reports whether the profile has no accounts at all. The
// presentation layer redirects to the registration view when this is true —
// a fresh install forces onboarding.
func (s *SessionService) NeedsOnboarding(ctx context.Context) (bool, error) {
	users, err := s.store.Users(ctx)
	if err != nil {
		return false, fmt.Errorf("checking onboarding: %w", err)
	}
	return len(users) == 0, nil
}
