package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/scrypt"
)

var (
	ErrMalformedHash   = errors.New("malformed password hash")
	ErrPasswordTooLong = errors.New("password too long for hasher")
)

// PasswordHasher turns passwords into stored strings.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, stored string) (bool, error)
}

// NewHasher returns a hasher that writes with the algorithm selected by
// PASSWORD_HASHER and verifies either format, so accounts created before the
// setting changed can still sign in.
func NewHasher(name string) (PasswordHasher, error) {
	h := &DetectingHasher{
		Scrypt: NewScryptHasher(),
		Bcrypt: &BcryptHasher{Cost: bcrypt.DefaultCost},
	}
	switch name {
	case "", "scrypt":
		h.Primary = h.Scrypt
	case "bcrypt":
		h.Primary = h.Bcrypt
	default:
		return nil, fmt.Errorf("unknown password hasher %q", name)
	}
	return h, nil
}

// DetectingHasher picks the verifier from the stored string: bcrypt hashes
// start with "$2", anything else is treated as scrypt.
type DetectingHasher struct {
	Primary PasswordHasher
	Scrypt  *ScryptHasher
	Bcrypt  *BcryptHasher
}

func (h *DetectingHasher) Hash(password string) (string, error) {
	return h.Primary.Hash(password)
}

func (h *DetectingHasher) Verify(password, stored string) (bool, error) {
	if isBcryptHash(stored) {
		return h.Bcrypt.Verify(password, stored)
	}
	return h.Scrypt.Verify(password, stored)
}

func isBcryptHash(stored string) bool {
	return strings.HasPrefix(stored, "$2")
}

// ScryptHasher stores "hex(salt):hex(key)". The hex-encoded salt string
// itself is the scrypt salt, which keeps existing hashes verifiable.
type ScryptHasher struct {
	N, R, P int
	SaltLen int
	KeyLen  int
}

func NewScryptHasher() *ScryptHasher {
	return &ScryptHasher{N: 16384, R: 8, P: 1, SaltLen: 16, KeyLen: 64}
}

func (h *ScryptHasher) Hash(password string) (string, error) {
	salt := make([]byte, h.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	saltHex := hex.EncodeToString(salt)

	key, err := scrypt.Key([]byte(password), []byte(saltHex), h.N, h.R, h.P, h.KeyLen)
	if err != nil {
		return "", fmt.Errorf("failed to derive key: %w", err)
	}

	return saltHex + ":" + hex.EncodeToString(key), nil
}

func (h *ScryptHasher) Verify(password, stored string) (bool, error) {
	saltHex, keyHex, ok := strings.Cut(stored, ":")
	if !ok || saltHex == "" || keyHex == "" {
		return false, ErrMalformedHash
	}

	want, err := hex.DecodeString(keyHex)
	if err != nil {
		return false, ErrMalformedHash
	}

	got, err := scrypt.Key([]byte(password), []byte(saltHex), h.N, h.R, h.P, len(want))
	if err != nil {
		return false, fmt.Errorf("failed to derive key: %w", err)
	}

	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

type BcryptHasher struct {
	Cost int
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	if len(password) > 72 {
		return "", ErrPasswordTooLong
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (h *BcryptHasher) Verify(password, stored string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword), errors.Is(err, bcrypt.ErrPasswordTooLong):
		return false, nil
	default:
		return false, ErrMalformedHash
	}
}
