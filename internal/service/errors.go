package service

import (
	"errors"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidInput       = errors.New("invalid input")
	ErrForbidden          = errors.New("forbidden")
	ErrPictureNotFound    = errors.New("picture not found")
	ErrImageNotFound      = errors.New("image not found")
	ErrStorage            = errors.New("storage failure")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("user already exists")
	ErrSignUpDisabled     = errors.New("sign-up is temporarily disabled")
)

// ValidationError carries a message that is safe to show to the user.
// errors.Is matches it against its Kind (ErrValidation or ErrInvalidInput).
type ValidationError struct {
	Kind    error
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

func validationError(message string) error {
	return &ValidationError{Kind: ErrValidation, Message: message}
}

func invalidInput(message string) error {
	return &ValidationError{Kind: ErrInvalidInput, Message: message}
}

// UserMessage returns the user-facing text of a validation error, or "".
func UserMessage(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return ""
}
