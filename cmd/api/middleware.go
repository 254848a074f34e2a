package main

import (
	"context"
	"net/http"
	"strings"

	"github.com/codeWithLeonard225/osmfs/pkg/auth"
	"github.com/codeWithLeonard225/osmfs/pkg/models"
)

type contextKey string

const claimsKey contextKey = "claims"

// authMiddleware verifies the Bearer token and stores its claims in the
// request context.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			http.Error(w, "Missing or malformed Authorization header", http.StatusUnauthorized)
			return
		}
		claims, err := s.tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	})
}

// requireRole gates a handler to admins (and the owner, who passes every
// role check).
func (s *Server) requireRole(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFrom(r)
		if claims == nil || !claims.Allows(models.RoleAdmin) {
			http.Error(w, "Insufficient role", http.StatusForbidden)
			return
		}
		h(w, r)
	}
}

func claimsFrom(r *http.Request) *auth.Claims {
	claims, _ := r.Context().Value(claimsKey).(*auth.Claims)
	return claims
}

// branchFor resolves the branch context for a request: the token's branch,
// except that the owner may inspect any branch via ?branch=.
func branchFor(r *http.Request) string {
	claims := claimsFrom(r)
	if claims == nil {
		return ""
	}
	if claims.Role == models.RoleOwner {
		if override := r.URL.Query().Get("branch"); override != "" {
			return override
		}
	}
	return claims.BranchID
}
