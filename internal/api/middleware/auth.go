package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/mduret/dvdtheque-api/internal/auth"
)

type contextKey string

const (
	UserIDKey contextKey = "userID"
)

// Auth gates protected routes behind a bearer token. The header must be
// exactly "Bearer <token>"; anything else is rejected before the token is
// even looked at. On success the verified user id is placed in the request
// context. The guard only talks to the token manager, never to storage.
func Auth(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			parts := strings.Split(authHeader, " ")
			if authHeader == "" || len(parts) != 2 || parts[0] != "Bearer" {
				unauthorized(w, "token manquant")
				return
			}

			userID, err := tokens.Verify(parts[1])
			if err != nil {
				log.Printf("ERROR [middleware.Auth] token verification failed: %v", err)
				unauthorized(w, "token invalide")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
