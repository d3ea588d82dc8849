package validation

import (
	"errors"
	"net/mail"
	"strings"
)

// NormalizeEmail trims and lower-cases an address before validation and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail validates email format and length
// Uses Go's built-in net/mail parser which follows RFC 5322
func ValidateEmail(email string) error {
	if email == "" {
		return errors.New("email address is required")
	}

	// RFC 5321: total max 254 characters
	if len(email) > 254 {
		return errors.New("email address is too long (max 254 characters)")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil {
		return errors.New("invalid email address format")
	}

	// Reject display-name forms like "Alice <alice@example.com>"
	if addr.Address != email {
		return errors.New("invalid email address format")
	}

	return nil
}
