package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"darbar/authz"
	"darbar/globals"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

// Authz re-validates caller roles from trusted state on every gated
// request. Set once in main before the server starts.
var Authz *authz.Resolver

// JWT claims
type Claims struct {
	Email  string `json:"email,omitempty"`
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

func Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims, err := claimsFromRequest(r)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		next(w, r.WithContext(withClaims(r.Context(), claims)), ps)
	}
}

func OptionalAuth(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if claims, err := claimsFromRequest(r); err == nil {
			r = r.WithContext(withClaims(r.Context(), claims))
		}
		// Proceed regardless of token state
		next(w, r, ps)
	}
}

// RequireAdmin gates a handler on a server-side role check. The client's
// own notion of its role is never trusted.
func RequireAdmin(next httprouter.Handle) httprouter.Handle {
	return requireRole(next, func(s authz.Status) bool { return s.IsAdmin })
}

// RequireSuperAdmin gates approve/reject and grant management.
func RequireSuperAdmin(next httprouter.Handle) httprouter.Handle {
	return requireRole(next, func(s authz.Status) bool { return s.IsSuperAdmin })
}

func requireRole(next httprouter.Handle, allowed func(authz.Status) bool) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims, err := claimsFromRequest(r)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}
		r = r.WithContext(withClaims(r.Context(), claims))

		status, err := Authz.Resolve(r.Context(), claims.UserID, claims.Email)
		if err != nil {
			// Fail closed: a broken lookup denies access.
			log.Printf("role resolution failed for %s: %v", claims.UserID, err)
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		if !allowed(status) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next(w, r, ps)
	}
}

func claimsFromRequest(r *http.Request) (*Claims, error) {
	var raw string
	tokenString := r.Header.Get("Authorization")
	switch {
	case len(tokenString) >= 8 && tokenString[:7] == "Bearer ":
		raw = tokenString[7:]
	case websocket.IsWebSocketUpgrade(r):
		// Browsers cannot set headers on WebSocket upgrades.
		raw = r.URL.Query().Get("token")
	}
	if raw == "" {
		return nil, fmt.Errorf("invalid token format")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		return globals.JwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

func withClaims(ctx context.Context, claims *Claims) context.Context {
	ctx = context.WithValue(ctx, globals.UserIDKey, claims.UserID)
	return context.WithValue(ctx, globals.EmailKey, claims.Email)
}
