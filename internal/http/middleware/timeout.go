package middleware

import (
	"context"
	"net/http"
	"time"
)

// RequestTimeout bounds every request's context. Long synthesis
// pipelines inherit the deadline and surface a timeout error rather
// than holding the connection open indefinitely.
func RequestTimeout(ceiling time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), ceiling)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
