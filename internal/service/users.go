// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Store (Data layer)       → reads/writes the key-value state
//
// Services accept primitives and return domain models plus apperror values;
// they have zero knowledge of HTTP. Handlers translate both directions.
package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/sakif/clipfeed/internal/apperror"
	"github.com/sakif/clipfeed/internal/model"
	"github.com/sakif/clipfeed/internal/store"
)

// UserService owns the account map: registration, authentication, plan
// changes, and activity refreshes.
//
// The clock field exists so tests can pin "now" — everything
// staleness-related depends on it. Production code never touches it.
type UserService struct {
	store  *store.Store
	logger *slog.Logger
	clock  func() time.Time
}

// NewUserService creates a UserService.
func NewUserService(st *store.Store, logger *slog.Logger) *UserService {
	return &UserService{
		store:  st,
		logger: logger,
		clock:  time.Now,
	}
}

// Register creates a new account and installs it as the current session.
//
// The uniqueness invariant lives here: the account map is keyed by the
// normalized username, so two registrations differing only by case or
// surrounding whitespace collide and the second fails with a conflict.
func (s *UserService) Register(ctx context.Context, username, name, email, password string) (*model.Account, error) {
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return nil, apperror.MissingCredentials()
	}

	key := model.NormalizeUsername(username)

	users, err := s.store.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("registering %s: %w", key, err)
	}
	if _, exists := users[key]; exists {
		return nil, apperror.DuplicateUsername(username)
	}

	now := s.clock()
	account := model.Account{
		Username:     username,
		Key:          key,
		Name:         strings.TrimSpace(name),
		Email:        strings.TrimSpace(email),
		Password:     password,
		Plan:         model.PlanFree,
		AvatarURL:    avatarFor(username),
		LastLoginAt:  now,
		LastActiveAt: now,
	}
	users[key] = account

	if err := s.store.SaveUsers(ctx, users); err != nil {
		return nil, fmt.Errorf("registering %s: %w", key, err)
	}
	if err := s.store.SetCurrentUserKey(ctx, key); err != nil {
		return nil, fmt.Errorf("installing session for %s: %w", key, err)
	}

	s.logger.Info("account registered",
		slog.String("key", key),
		slog.String("plan", string(account.Plan)),
	)
	return &account, nil
}

// Authenticate checks credentials and refreshes the login timestamps.
//
// The comparison is exact string equality on the stored plain-text
// password. That is the specified contract for this prototype — a hashed
// comparison would slot in here without changing the signature.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*model.Account, error) {
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return nil, apperror.MissingCredentials()
	}

	key := model.NormalizeUsername(username)

	users, err := s.store.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("authenticating %s: %w", key, err)
	}
	account, ok := users[key]
	if !ok {
		return nil, apperror.AccountNotFound(username)
	}
	if account.Password != password {
		s.logger.Warn("failed login attempt", slog.String("key", key))
		return nil, apperror.BadCredentials()
	}

	now := s.clock()
	account.LastLoginAt = now
	account.LastActiveAt = now
	users[key] = account

	if err := s.store.SaveUsers(ctx, users); err != nil {
		return nil, fmt.Errorf("authenticating %s: %w", key, err)
	}

	s.logger.Info("login succeeded", slog.String("key", key))
	return &account, nil
}

// Get returns the account for key, or AccountNotFound.
func (s *UserService) Get(ctx context.Context, key string) (*model.Account, error) {
	users, err := s.store.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("looking up %s: %w", key, err)
	}
	account, ok := users[key]
	if !ok {
		return nil, apperror.AccountNotFound(key)
	}
	return &account, nil
}

// Touch refreshes both activity timestamps for key and persists. A missing
// key is silently ignored — touch is a side effect with no return contract.
func (s *UserService) Touch(ctx context.Context, key string) {
	users, err := s.store.Users(ctx)
	if err != nil {
		s.logger.Error("touch failed", slog.String("key", key), slog.String("error", err.Error()))
		return
	}
	account, ok := users[key]
	if !ok {
		return
	}

	now := s.clock()
	account.LastLoginAt = now
	account.LastActiveAt = now
	users[key] = account

	if err := s.store.SaveUsers(ctx, users); err != nil {
		s.logger.Error("touch failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

// SetPlan switches the account's subscription plan and refreshes activity.
func (s *UserService) SetPlan(ctx context.Context, key string, plan model.Plan) (*model.Account, error) {
	if !plan.Valid() {
		return nil, apperror.ValidationFailed("plan", fmt.Sprintf("unknown plan %q", plan))
	}

	users, err := s.store.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("setting plan for %s: %w", key, err)
	}
	account, ok := users[key]
	if !ok {
		return nil, apperror.AccountNotFound(key)
	}

	now := s.clock()
	account.Plan = plan
	account.LastLoginAt = now
	account.LastActiveAt = now
	users[key] = account

	if err := s.store.SaveUsers(ctx, users); err != nil {
		return nil, fmt.Errorf("setting plan for %s: %w", key, err)
	}

	s.logger.Info("plan changed", slog.String("key", key), slog.String("plan", string(plan)))
	return &account, nil
}

// avatarPalette maps the avatar letter to a background colour so the
// generated image is deterministic per username.
var avatarPalette = []string{"#FE2C55", "#25F4EE", "#8A2BE2", "#FF7A00", "#00C853"}

// avatarFor builds a deterministic inline SVG avatar from the first letter
// of the display username. Same input, same image — no files on disk.
func avatarFor(username string) string {
	letter := "?"
	for _, r := range username {
		letter = strings.ToUpper(string(r))
		break
	}

	colorIdx := 0
	for _, r := range letter {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			colorIdx = int(r) % len(avatarPalette)
		}
	}

	svg := fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" width="96" height="96"><rect width="96" height="96" rx="48" fill="%s"/><text x="48" y="62" font-family="sans-serif" font-size="44" fill="#fff" text-anchor="middle">%s</text></svg>`,
		avatarPalette[colorIdx], letter,
	)
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))
}
