package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	domain "github.com/bizsimlab/venture-sim/internal/domain/users"
)

type contextKey string

const UserIDKey contextKey = "user_id"

// SessionCookie is the cookie the token travels in; a Bearer header works too
// for non-browser clients.
const SessionCookie = "jwt"

// JWTAuth resolves the caller's identity from the session token and rejects
// the request otherwise. Handlers behind it only ever see a resolved user id.
func JWTAuth(secret []byte, repo domain.Repository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := tokenFromRequest(r)
			if raw == "" {
				unauthorized(w, "not authorized, no token")
				return
			}

			token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				unauthorized(w, "not authorized, invalid token")
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				unauthorized(w, "not authorized, invalid token")
				return
			}
			id, _ := claims["id"].(string)
			if id == "" {
				unauthorized(w, "not authorized, invalid token")
				return
			}

			// the token may outlive the account
			user, err := repo.FindByID(r.Context(), domain.UserID(id))
			if err != nil || user == nil {
				unauthorized(w, "not authorized, user not found")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, string(user.ID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext extracts the resolved owner identity
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}

func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "error": msg})
}
