package middleware

import (
	"context"
	"net"
	"net/http"
)

// ClientIP stores the caller's address in the request context. Chain it after
// chimw.RealIP so proxy headers are honoured; the port, if any, is dropped.
func ClientIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if host, _, err := net.SplitHostPort(ip); err == nil {
			ip = host
		}

		ctx := context.WithValue(r.Context(), ContextKeyClientIP, ip)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
