package domain

import (
	"errors"
	"testing"
)

func TestValidateUsername(t *testing.T) {
	valid := []string{
		"alice",
		"Alice99",
		"john_doe",
		"john.doe",
		"john-doe",
		"john_doe-99",
		"a",
		"a1.b2_c3",
	}
	for _, name := range valid {
		if err := ValidateUsername(name); err != nil {
			t.Errorf("ValidateUsername(%q) = %v, want nil", name, err)
		}
	}

	invalid := []string{
		"",
		"_alice",
		"alice_",
		".alice",
		"alice.",
		"-alice",
		"bad..name",
		"bad__name",
		"bad.-name",
		"has space",
		"has@sign",
		"émile",
	}
	for _, name := range invalid {
		err := ValidateUsername(name)
		if err == nil {
			t.Errorf("ValidateUsername(%q) = nil, want error", name)
			continue
		}
		if !errors.Is(err, ErrValidation) {
			t.Errorf("ValidateUsername(%q) error not wrapping ErrValidation: %v", name, err)
		}
	}
}

func TestNormalizeUsername(t *testing.T) {
	if got := NormalizeUsername("  Alice99 "); got != "alice99" {
		t.Fatalf("NormalizeUsername = %q, want %q", got, "alice99")
	}
}

func TestValidateEmail(t *testing.T) {
	if err := ValidateEmail("alice@example.com"); err != nil {
		t.Fatalf("valid email rejected: %v", err)
	}
	if err := ValidateEmail(" alice@example.com "); err != nil {
		t.Fatalf("trimmed email rejected: %v", err)
	}

	for _, email := range []string{"", "not-an-email", "a b@example.com", "Alice <alice@example.com>"} {
		if err := ValidateEmail(email); !errors.Is(err, ErrValidation) {
			t.Errorf("ValidateEmail(%q) = %v, want ErrValidation", email, err)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("abcdef"); !errors.Is(err, ErrValidation) {
		t.Fatalf("6-char password: got %v, want ErrValidation", err)
	}
	if err := ValidatePassword("abcdefg"); err != nil {
		t.Fatalf("7-char password rejected: %v", err)
	}
}

func TestValidateNotEmpty(t *testing.T) {
	if err := ValidateNotEmpty("fullname", "   "); !errors.Is(err, ErrValidation) {
		t.Fatalf("whitespace-only value: got %v, want ErrValidation", err)
	}
	if err := ValidateNotEmpty("fullname", "Alice"); err != nil {
		t.Fatalf("non-empty value rejected: %v", err)
	}
}
