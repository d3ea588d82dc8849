package middleware

import (
	"fmt"
	"net/http"

	"github.com/templui/picture-gallery/internal/ctxkeys"
)

// SecurityHeaders sets CSP and the usual hardening headers. It must run
// after NonceMiddleware so inline scripts can carry the nonce.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scriptSrc := "'self'"
		if nonce := GetNonce(r.Context()); nonce != "" {
			scriptSrc = fmt.Sprintf("'self' 'nonce-%s'", nonce)
		}

		h := w.Header()
		h.Set("Content-Security-Policy", "default-src 'self'; "+
			"script-src "+scriptSrc+"; "+
			"style-src 'self'; "+
			"img-src 'self' data:; "+
			"connect-src 'self'; "+
			"object-src 'none'; "+
			"base-uri 'self'; "+
			"form-action 'self'; "+
			"frame-ancestors 'none'")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

		cfg := ctxkeys.Config(r.Context())
		if cfg != nil && cfg.IsProduction() {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}
