package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/luma-events/ticketing-backend/internal/core/domain"
)

type contextKey string

const actorKey contextKey = "actor"

type Claims struct {
	UserID string   `json:"user_id"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

// Authenticate parses the Bearer token and stores the caller as a
// domain.Actor on the request context. Token issuance lives elsewhere; this
// service only consumes the identity.
func Authenticate(secret string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims := Claims{}
		token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
			return []byte(secret), nil
		})

		if err != nil || token == nil || !token.Valid {
			log.Printf("Authentication failed: %v", err)
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token subject")
			return
		}

		actor := domain.Actor{UserID: userID, Roles: claims.Roles}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey, actor)))
	}
}

func actorFrom(r *http.Request) (domain.Actor, bool) {
	actor, ok := r.Context().Value(actorKey).(domain.Actor)
	return actor, ok
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
