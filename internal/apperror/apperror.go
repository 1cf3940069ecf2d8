package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("Validation Error")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

type AppError struct {
	Err     error  // actual error
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// =========================================================================
// NAMED CONSTRUCTORS FOR THE CORE FAILURE MODES
// =========================================================================
//
// Every failure a user can trigger has a dedicated constructor, so the
// service and capture layers never hand-assemble messages and handlers can
// surface Message directly as the on-screen status string. Each wraps one
// of the sentinels above, so errors.Is() keeps working for HTTP mapping.

// DuplicateUsername reports a registration against an already-taken
// normalized username. Usernames are compared case-insensitively after
// trimming, so "Alice" and " alice " collide.
func DuplicateUsername(username string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("username %q is already taken", username),
		Field:   "username",
	}
}

// AccountNotFound reports a lookup of a username key with no account.
func AccountNotFound(key string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("no account found for %q", key),
		Field:   "username",
	}
}

// BadCredentials reports a password mismatch on login.
// Deliberately vague about WHICH of username/password was wrong.
func BadCredentials() *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: "incorrect username or password",
	}
}

// MissingCredentials reports an empty username or password after trimming.
// Raised before any storage access.
func MissingCredentials() *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: "username and password are required",
	}
}

// MissingMedia reports a video publish with no media payload attached.
func MissingMedia() *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: "add a video file or record one before publishing",
		Field:   "media",
	}
}

// DeviceAccessDenied reports a refused camera/microphone request.
func DeviceAccessDenied(err error) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: fmt.Sprintf("camera or microphone access was denied: %v", err),
	}
}

// EmptyRecording reports a recording stop that produced no data at all.
func EmptyRecording() *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: "recording produced no data, try again",
	}
}

// UnreadableMedia reports a selected file that could not be read into an
// embeddable payload.
func UnreadableMedia(name string, err error) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: fmt.Sprintf("could not read media file %q: %v", name, err),
		Field:   "media",
	}
}
