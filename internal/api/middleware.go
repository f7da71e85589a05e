package api

import (
	"context"
	"net"
	"net/http"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const contextKeyClientIP contextKey = "client_ip"

// clientIP stores the caller's IP in the request context so huma
// handlers can key rate limits on it. Runs after middleware.RealIP so
// proxied requests carry the original address.
func clientIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		ctx := context.WithValue(r.Context(), contextKeyClientIP, host)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// clientIPFrom extracts the caller's IP from the context.
func clientIPFrom(ctx context.Context) string {
	ip, _ := ctx.Value(contextKeyClientIP).(string)
	if ip == "" {
		return "unknown"
	}
	return ip
}
