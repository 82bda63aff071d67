package domain

import (
	"errors"
	"fmt"
)

var ErrValidation = errors.New("validation failed")
var ErrUserExists = errors.New("user with email or username already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrChannelNotFound = errors.New("channel not found")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrTokenExpired = errors.New("token expired")
var ErrTokenInvalid = errors.New("invalid token")
var ErrRateLimited = errors.New("too many requests")
var ErrInternal = errors.New("internal error")

// NewValidationError wraps ErrValidation with the specific rule that failed,
// so errors.Is(err, ErrValidation) holds and the message names the rule.
func NewValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
