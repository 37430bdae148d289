package middleware

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestID assigns a UUID to each request unless the client supplied one. The
// ID rides on the X-Request-ID header both ways and ends up in error bodies.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
			r.Header.Set("X-Request-ID", id)
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}
