package middleware

import (
	"context"
	"net/http"
)

type tooLargeKey struct{}

// MaxBodySize caps request bodies. Reads past the limit fail with *http.MaxBytesError.
// tooLarge answers such requests when the body is read by middleware; nil means
// a plain 413.
func MaxBodySize(limit int64, tooLarge http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			if tooLarge != nil {
				r = r.WithContext(context.WithValue(r.Context(), tooLargeKey{}, tooLarge))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// BodyTooLarge rejects a request whose body went over the MaxBodySize limit.
func BodyTooLarge(w http.ResponseWriter, r *http.Request) {
	if tooLarge, ok := r.Context().Value(tooLargeKey{}).(http.HandlerFunc); ok {
		tooLarge(w, r)
		return
	}
	http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
}
