package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials covers every login and token failure the caller
	// is allowed to see. Unknown usernames and wrong passwords share it.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveAccount    = errors.New("inactive account")

	ErrInvalidToken   = errors.New("invalid token")
	ErrMissingSubject = errors.New("token missing subject")

	ErrAccountNotFound = errors.New("account not found")
	ErrInvalidAccount  = errors.New("invalid account")
	ErrDuplicateField  = errors.New("duplicate field")
)

// DuplicateFieldError reports a uniqueness violation on a single account field.
type DuplicateFieldError struct {
	Field string
}

func (e *DuplicateFieldError) Error() string {
	if e.Field == "" {
		return "duplicate field"
	}
	return fmt.Sprintf("%s already registered", e.Field)
}

// Is lets errors.Is(err, ErrDuplicateField) match any DuplicateFieldError.
func (e *DuplicateFieldError) Is(target error) bool {
	return target == ErrDuplicateField
}
