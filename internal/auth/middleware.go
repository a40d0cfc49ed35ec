package auth

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

type Middleware struct {
	tokenHash string
	limiter   *RateLimiter
}

// NewMiddleware builds the bearer-token guard. An empty tokenHash disables
// authentication; config.Load only permits that in development.
func NewMiddleware(tokenHash string) *Middleware {
	return &Middleware{
		tokenHash: tokenHash,
		limiter:   NewRateLimiter(10, time.Minute),
	}
}

func (m *Middleware) RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.tokenHash == "" {
			next.ServeHTTP(w, r)
			return
		}

		if ok, retryAfter := m.limiter.Allowed(r.RemoteAddr); !ok {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(retryAfter.Seconds())+1))
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}

		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		if err := CheckToken(m.tokenHash, token); err != nil {
			m.limiter.RecordFailure(r.RemoteAddr)
			slog.Debug("rejected API token", "ip", r.RemoteAddr)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
