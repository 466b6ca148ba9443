package server

import (
	"context"
	"net/http"
	"time"

	"mineconect/internal/auth"
)

type ctxKey string

const sessionContextKey ctxKey = "session"

// requireSession admits only fully established sessions. A session still in
// the challenge-pending state is not authenticated.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := auth.SessionIDFromRequest(r)
		if id == "" {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		sess, err := s.Sessions.Get(r.Context(), id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to read session")
			return
		}
		if sess == nil || sess.ExpiresAt.Before(time.Now()) {
			writeError(w, http.StatusUnauthorized, "Session expired")
			return
		}
		if !sess.Authenticated() {
			writeError(w, http.StatusUnauthorized, "Verification required")
			return
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFromContext(ctx context.Context) *auth.Session {
	if val, ok := ctx.Value(sessionContextKey).(*auth.Session); ok {
		return val
	}
	return nil
}

// secureHeaders adds common security headers for the JSON API.
func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains; preload")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		next.ServeHTTP(w, r)
	})
}
