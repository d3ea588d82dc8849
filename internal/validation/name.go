package validation

import (
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const MaxNameLength = 100

// NormalizeName trims the name and applies Unicode NFC so visually equal
// names are stored identically.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// ValidateName validates an already normalized display name
func ValidateName(name string) error {
	if name == "" {
		return errors.New("name is required")
	}

	if utf8.RuneCountInString(name) > MaxNameLength {
		return errors.New("name is too long (max 100 characters)")
	}

	return nil
}
