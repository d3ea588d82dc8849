package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/templui/picture-gallery/internal/ctxkeys"
)

const (
	csrfCookieName = "csrf_token"
	csrfFormField  = "csrf_token"
	csrfHeader     = "X-CSRF-Token"
	csrfTokenLen   = 32

	// JSON auth endpoints are protected by an Origin check instead of a token
	authAPIPrefix = "/api/auth/"

	multipartMemory = 2 << 20
)

// CSRFProtection validates CSRF tokens on all state-changing requests
func CSRFProtection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := getOrGenerateCSRFToken(w, r)
		ctx := ctxkeys.WithCSRFToken(r.Context(), token)

		// Skip CSRF check for safe methods (GET, HEAD, OPTIONS)
		if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		if strings.HasPrefix(r.URL.Path, authAPIPrefix) {
			if !sameOrigin(r) {
				slog.Warn("cross-origin auth request rejected",
					"path", r.URL.Path,
					"origin", r.Header.Get("Origin"),
				)
				writeJSONError(w, http.StatusForbidden, "INVALID_ORIGIN", "Invalid origin")
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		// Get submitted token - header first, then form field
		submittedToken := r.Header.Get(csrfHeader)
		if submittedToken == "" {
			err := parseForm(r)
			// Spilled file parts live in os.TempDir. net/http only cleans up the form
			// of the request it created, not of copies made by WithContext.
			if r.MultipartForm != nil {
				defer removeMultipartForm(r.MultipartForm)
			}
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				BodyTooLarge(w, r)
				return
			}
			submittedToken = r.PostFormValue(csrfFormField)
		}

		// Validate token using constant-time comparison
		if !validCSRFToken(token, submittedToken) {
			slog.Warn("csrf validation failed",
				"path", r.URL.Path,
				"method", r.Method,
			)
			http.Error(w, "Invalid CSRF token", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func removeMultipartForm(form *multipart.Form) {
	err := form.RemoveAll()
	if err != nil {
		slog.Warn("failed to remove multipart temp files", "error", err)
	}
}

func parseForm(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(multipartMemory)
	}
	return r.ParseForm()
}

// sameOrigin accepts requests whose Origin matches APP_URL. Requests without
// an Origin header come from non-browser clients and are accepted.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	cfg := ctxkeys.Config(r.Context())
	if cfg == nil || cfg.AppURL == "" {
		return false
	}

	want, err := url.Parse(cfg.AppURL)
	if err != nil {
		return false
	}
	got, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(got.Scheme, want.Scheme) && strings.EqualFold(got.Host, want.Host)
}

// getOrGenerateCSRFToken retrieves existing token or generates new one
func getOrGenerateCSRFToken(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(csrfCookieName)
	if err == nil && cookie.Value != "" && len(cookie.Value) == base64.RawURLEncoding.EncodedLen(csrfTokenLen) {
		return cookie.Value
	}

	token := generateCSRFToken()

	cfg := ctxkeys.Config(r.Context())
	isProduction := cfg != nil && cfg.IsProduction()

	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400 * 7, // 7 days
	})

	return token
}

// generateCSRFToken creates cryptographically secure random token
func generateCSRFToken() string {
	bytes := make([]byte, csrfTokenLen)
	_, err := rand.Read(bytes)
	if err != nil {
		panic("failed to generate csrf token: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(bytes)
}

// validCSRFToken performs constant-time comparison of tokens
func validCSRFToken(expected, actual string) bool {
	if expected == "" || actual == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(actual)) == 1
}

// RequireSameSite guards state-changing GET routes, which the token check skips.
// Browsers label cross-site navigations with Sec-Fetch-Site, and Lax session
// cookies still ride along on them. Clients without the header are let through.
func RequireSameSite(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Sec-Fetch-Site") == "cross-site" {
			slog.Warn("cross-site request rejected",
				"path", r.URL.Path,
				"referer", r.Referer(),
			)
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next(w, r)
	}
}
