package middleware

import (
	"log/slog"
	"net/http"

	"github.com/templui/picture-gallery/internal/auth"
	"github.com/templui/picture-gallery/internal/ctxkeys"
	"github.com/templui/picture-gallery/internal/service"
)

// Session resolves the session cookie and adds user + session to context if valid
func Session(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// No cookie, continue without auth
			if _, err := r.Cookie(auth.CookieName); err != nil {
				next.ServeHTTP(w, r)
				return
			}

			result, err := authService.GetSession(r.Context(), r.Header)
			if err != nil {
				slog.Error("failed to resolve session", "error", err, "path", r.URL.Path)
				next.ServeHTTP(w, r)
				return
			}

			if result == nil {
				// Invalid, expired or revoked, clear cookie and continue
				http.SetCookie(w, authService.ClearSessionCookie())
				next.ServeHTTP(w, r)
				return
			}

			if result.Refreshed {
				cookie, err := authService.SessionCookie(result.Session)
				if err != nil {
					slog.Error("failed to re-issue session cookie", "error", err)
				} else {
					http.SetCookie(w, cookie)
				}
			}

			ctx := ctxkeys.WithUser(r.Context(), result.User)
			ctx = ctxkeys.WithSession(ctx, result.Session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth ensures the user is authenticated
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := ctxkeys.User(r.Context())
		if user == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	}
}

// RequireGuest ensures the user is not authenticated
func RequireGuest(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := ctxkeys.User(r.Context())
		if user != nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	}
}
