package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/mduret/dvdtheque-api/internal/ratelimit"
)

// RateLimit rejects requests with 429 once the limiter's budget for the
// client IP is spent. Each endpoint class carries its own limiter instance
// and retry payload, so login attempts and registrations are counted
// independently. The payload is sent verbatim: the catch-all limiter
// answers {"error": ...} while the auth endpoints answer {"message": ...}.
func RateLimit(limiter ratelimit.Limiter, payload map[string]string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(clientIP(r)) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(payload)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP prefers the first hop in X-Forwarded-For, set by the reverse proxy
// the service deploys behind, and falls back to the socket address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
