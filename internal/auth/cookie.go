package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const CookieName = "gallery_session"

var ErrInvalidCookie = errors.New("invalid session cookie")

// CookieCodec wraps session tokens in HS256-signed cookie values so a
// forged or truncated cookie never reaches the database.
type CookieCodec struct {
	secret []byte
	secure bool
	now    func() time.Time
}

func NewCookieCodec(secret string, secure bool) *CookieCodec {
	return &CookieCodec{
		secret: []byte(secret),
		secure: secure,
		now:    time.Now,
	}
}

// WithClock overrides the clock, for tests.
func (c *CookieCodec) WithClock(now func() time.Time) *CookieCodec {
	c.now = now
	return c
}

func (c *CookieCodec) Encode(token string, expiresAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   token,
		IssuedAt:  jwt.NewNumericDate(c.now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session cookie: %w", err)
	}
	return signed, nil
}

// Decode verifies the signature and expiry and returns the session token.
func (c *CookieCodec) Decode(value string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(value, claims, func(token *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidCookie, err)
	}
	if claims.Subject == "" {
		return "", ErrInvalidCookie
	}
	return claims.Subject, nil
}

// TokenFromHeader extracts and verifies the session token from request headers.
func (c *CookieCodec) TokenFromHeader(h http.Header) (string, error) {
	r := &http.Request{Header: h}
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", ErrInvalidCookie
	}
	return c.Decode(cookie.Value)
}

func (c *CookieCodec) Cookie(token string, expiresAt time.Time) (*http.Cookie, error) {
	value, err := c.Encode(token, expiresAt)
	if err != nil {
		return nil, err
	}
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Expires:  expiresAt,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

func (c *CookieCodec) Clear() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
