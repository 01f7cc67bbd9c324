package auth

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrConcurrentLogin    = errors.New("concurrent_login_detected")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrImmutableAccount   = errors.New("immutable_account")
	ErrUserNotFound       = errors.New("user_not_found")
	ErrUserExists         = errors.New("user_exists")
	ErrInvalidInput       = errors.New("invalid_input")
)

// ConcurrentLoginError is returned by Login when an unexpired session for the
// same user is held from another address.
type ConcurrentLoginError struct {
	IP string
}

func (e *ConcurrentLoginError) Error() string {
	return fmt.Sprintf("account already signed in from %s", e.IP)
}

func (e *ConcurrentLoginError) Is(target error) bool {
	return target == ErrConcurrentLogin
}
