package handlers

import (
	"context"
	"net/http"
	"strings"

	"slotbook/internal/model"
	"slotbook/libs/auth"
	"slotbook/libs/httpx"
)

// Principal is the authenticated caller, taken from the bearer token.
type Principal struct {
	ID    string
	Role  string
	Email string
}

type principalKey struct{}

func principalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// RequireAuth verifies the bearer token and stores the principal on the
// request context. Requests without a valid token get a 401.
func RequireAuth(secret string) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				unauthorized(w)
				return
			}
			claims, err := auth.ParseAndVerifyHS256(strings.TrimSpace(token), secret)
			if err != nil {
				unauthorized(w)
				return
			}
			p := Principal{ID: claims.Sub, Role: claims.Role, Email: claims.Email}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), principalKey{}, p)))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, errorBody{
		Error: errorDetail{Kind: "unauthorized", Message: "missing or invalid token"},
	})
}

// requireRole fetches the principal and checks its role. A false return
// means the response has already been written.
func requireRole(w http.ResponseWriter, r *http.Request, role string) (Principal, bool) {
	p, ok := principalFrom(r.Context())
	if !ok {
		unauthorized(w)
		return Principal{}, false
	}
	if p.Role != role {
		writeJSON(w, http.StatusForbidden, errorBody{
			Error: errorDetail{Kind: "forbidden", Message: "role " + role + " required"},
		})
		return Principal{}, false
	}
	return p, true
}

func requireMaster(w http.ResponseWriter, r *http.Request) (Principal, bool) {
	return requireRole(w, r, model.RoleMaster)
}

func requireClient(w http.ResponseWriter, r *http.Request) (Principal, bool) {
	return requireRole(w, r, model.RoleClient)
}
