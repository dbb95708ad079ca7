// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/itinera/internal/logging"
	"github.com/tomtom215/itinera/internal/models"
)

type contextKey string

const identityContextKey contextKey = "identity"

// DevIdentity is the caller assumed for every request when authentication
// is disabled.
var DevIdentity = models.Identity{ID: "dev", Role: models.RoleAdmin}

// ContextWithIdentity stores the caller identity in ctx.
func ContextWithIdentity(ctx context.Context, id models.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

// IdentityFromContext returns the caller identity, if any.
func IdentityFromContext(ctx context.Context) (models.Identity, bool) {
	id, ok := ctx.Value(identityContextKey).(models.Identity)
	return id, ok
}

// Middleware extracts the caller identity from a bearer token.
type Middleware struct {
	jwt      *JWTManager
	disabled bool
}

// NewMiddleware creates the authentication middleware. With disabled set,
// every request runs as DevIdentity and jwt may be nil.
func NewMiddleware(jwt *JWTManager, disabled bool) *Middleware {
	return &Middleware{jwt: jwt, disabled: disabled}
}

// Authenticate rejects requests without a valid bearer token.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok, err := m.identify(r)
		if err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Msg("Bearer token rejected")
			unauthorized(w, "invalid or expired token")
			return
		}
		if !ok {
			unauthorized(w, "authentication required")
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), id)))
	})
}

// Optional attaches the caller identity when a valid token is present and
// lets anonymous requests through. Invalid tokens are still rejected.
func (m *Middleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok, err := m.identify(r)
		if err != nil {
			unauthorized(w, "invalid or expired token")
			return
		}
		if ok {
			r = r.WithContext(ContextWithIdentity(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) identify(r *http.Request) (models.Identity, bool, error) {
	if m.disabled {
		return DevIdentity, true, nil
	}

	header := r.Header.Get("Authorization")
	if header == "" {
		return models.Identity{}, false, nil
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return models.Identity{}, false, errMalformedHeader
	}

	claims, err := m.jwt.ValidateToken(strings.TrimSpace(token))
	if err != nil {
		return models.Identity{}, false, err
	}
	return claims.Identity(), true, nil
}

type authError string

func (e authError) Error() string { return string(e) }

const errMalformedHeader = authError("malformed Authorization header")

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="itinera"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "error",
		"error": map[string]string{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	})
}
