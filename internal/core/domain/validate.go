package domain

import (
	"net/mail"
	"regexp"
	"strings"
)

// MinPasswordLength is the shortest accepted password. A 6-character
// password is rejected, 7 is the boundary that passes.
const MinPasswordLength = 7

// usernamePattern allows alphanumerics with single internal "_", "-" or "."
// separators. No leading or trailing separator, no consecutive separators.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9]+([_\-.][a-zA-Z0-9]+)*$`)

// NormalizeUsername lowercases and trims a raw username. Usernames are
// stored and matched in this normal form.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// ValidateNotEmpty fails when the value is absent or whitespace-only.
func ValidateNotEmpty(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return NewValidationError("%s is required", field)
	}
	return nil
}

// ValidateUsername checks the username against the allowed pattern.
func ValidateUsername(username string) error {
	if !usernamePattern.MatchString(strings.TrimSpace(username)) {
		return NewValidationError("username may only contain letters, numbers and internal _ - . separators")
	}
	return nil
}

// ValidateEmail checks basic email syntax.
func ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil || addr.Address != strings.TrimSpace(email) {
		return NewValidationError("email is not a valid address")
	}
	return nil
}

// ValidatePassword enforces the minimum password length. Runs before
// hashing; the stored hash is never length-checked.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return NewValidationError("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}
