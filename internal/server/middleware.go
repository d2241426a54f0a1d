package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/example/quizdeck/internal/auth"
	"github.com/example/quizdeck/pkg/models"
)

type contextKey string

const claimsKey contextKey = "claims"

// requireAuth validates the bearer token and stores its claims on the request
// context
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			errorResponse(w, "missing bearer token", http.StatusUnauthorized)
			return
		}
		claims, err := h.auth.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			errorResponse(w, "invalid token", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin allows only users whose token carries the admin role claim
func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFrom(r)
		if claims == nil || claims.Role != models.RoleAdmin {
			errorResponse(w, "admin access required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func claimsFrom(r *http.Request) *auth.Claims {
	claims, _ := r.Context().Value(claimsKey).(*auth.Claims)
	return claims
}
