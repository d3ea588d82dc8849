package validation

import (
	"errors"
	"unicode/utf8"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
)

// ValidatePassword checks the password length bounds
func ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)

	if n < MinPasswordLength {
		return errors.New("password must be at least 8 characters")
	}

	if n > MaxPasswordLength {
		return errors.New("password must not exceed 128 characters")
	}

	return nil
}
