package middleware

import (
	"net/http"

	"github.com/templui/picture-gallery/internal/config"
	"github.com/templui/picture-gallery/internal/ctxkeys"
)

// Config puts the sanitized configuration in the request context. Secrets
// such as AUTH_SECRET and the S3 keys never reach templates.
func Config(cfg *config.Config) func(http.Handler) http.Handler {
	safe := cfg.Sanitized()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(ctxkeys.WithConfig(r.Context(), safe)))
		})
	}
}

// WithURLPath records the request path so the navbar can mark the active link
func WithURLPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(ctxkeys.WithURLPath(r.Context(), r.URL.Path)))
	})
}
