package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// sessionIDKey is the context key for the session ID.
type sessionIDKey struct{}

// Session resolves the caller's session from the X-Session-Id header,
// minting a fresh ID when the header is absent. The resolved ID is echoed
// in the response so a first-time caller can keep it. Sessions carry no
// identity; they only scope lookup state and recent history.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.Header.Get("X-Session-Id")
		if sessionID == "" || len(sessionID) > 64 {
			sessionID = "sess_" + uuid.New().String()
		}

		w.Header().Set("X-Session-Id", sessionID)

		ctx := context.WithValue(r.Context(), sessionIDKey{}, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSessionID retrieves the session ID from the context.
func GetSessionID(ctx context.Context) string {
	if id, ok := ctx.Value(sessionIDKey{}).(string); ok {
		return id
	}
	return ""
}
