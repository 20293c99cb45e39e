package session

import (
	"strings"

	"github.com/fintracker/fintrack/pkg/client"
)

// ValidationError is a client-side rejection raised before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AuthError is a failed login or registration. Message is safe to show.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

func newAuthError(err error, fallback string) *AuthError {
	return &AuthError{Message: client.Message(err, fallback), Err: err}
}

// ValidateProfile checks a registration form: required fields, matching
// confirmation and minimum password length, in that order.
func ValidateProfile(p Profile) error {
	if strings.TrimSpace(p.Name) == "" {
		return &ValidationError{Field: "name", Message: "Name is required"}
	}
	if strings.TrimSpace(p.Email) == "" {
		return &ValidationError{Field: "email", Message: "Email is required"}
	}
	if p.Password != p.Confirm {
		return &ValidationError{Field: "confirm", Message: "Passwords do not match"}
	}
	if len(p.Password) < MinPasswordLen {
		return &ValidationError{Field: "password", Message: "Password must be at least 6 characters"}
	}
	return nil
}
