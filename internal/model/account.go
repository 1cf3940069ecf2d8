// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import (
	"strings"
	"time"
)

// Plan is the subscription tier of an account.
//
// WHY A NAMED STRING TYPE (not iota constants)?
// The plan is persisted as JSON and displayed to the user, so the stored
// value should be the readable word itself. A named type still gives us
// compile-time intent: functions take model.Plan, not a bare string.
type Plan string

const (
	PlanFree Plan = "free"
	PlanPaid Plan = "paid"
)

// Valid reports whether p is one of the known plans.
func (p Plan) Valid() bool {
	return p == PlanFree || p == PlanPaid
}

// Account represents a registered user account.
//
// Accounts are stored in a single map keyed by Key — the lowercased,
// trimmed username. The map key is the uniqueness invariant: exactly one
// account may ever hold a given normalized key. The display username keeps
// the casing the user typed at registration.
//
// WHY Password string IN PLAIN TEXT?
// This is a single-user local app: credentials never leave the
// machine and the comparison contract is exact string equality. Swapping in
// a salted hash later would change only UserService.Authenticate, not this
// struct's public shape.
type Account struct {
	Username     string    `json:"username"`     // Display form, casing preserved
	Key          string    `json:"key"`          // Normalized: lowercase(trim(username))
	Name         string    `json:"name"`         // Full name (may be empty)
	Email        string    `json:"email"`        // Contact email (may be empty)
	Password     string    `json:"password"`     // Plain text — see note above
	Plan         Plan      `json:"plan"`         // free | paid
	AvatarURL    string    `json:"avatarUrl"`    // Generated inline SVG data URL
	LastLoginAt  time.Time `json:"lastLoginAt"`  // Refreshed on login/register
	LastActiveAt time.Time `json:"lastActiveAt"` // Refreshed on any content action
}

// NormalizeUsername converts a display username to its storage key.
// "  Alice " and "alice" map to the same account.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
