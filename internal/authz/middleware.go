// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package authz

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/itinera/internal/audit"
	"github.com/tomtom215/itinera/internal/auth"
	"github.com/tomtom215/itinera/internal/logging"
)

// DenialRecorder receives requests from signed-in callers that the policy
// rejected.
type DenialRecorder interface {
	LogAuthzDenied(ctx context.Context, actor audit.Actor, source audit.Source, resource, action string)
}

// Middleware enforces the route policy for the caller's role. It must run
// after auth has attached the identity, if any.
type Middleware struct {
	enforcer *Enforcer
	recorder DenialRecorder
}

// MiddlewareOption configures a Middleware.
type MiddlewareOption func(*Middleware)

// WithDenialRecorder audits 403 denials. Anonymous 401s are not recorded.
func WithDenialRecorder(r DenialRecorder) MiddlewareOption {
	return func(m *Middleware) {
		m.recorder = r
	}
}

// NewMiddleware creates a new authorization middleware.
func NewMiddleware(enforcer *Enforcer, opts ...MiddlewareOption) *Middleware {
	m := &Middleware{enforcer: enforcer}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AuthorizeRequest maps the HTTP method to an action and authorizes it
// against the request path. Anonymous callers that are denied get 401 so
// clients know to sign in; signed-in callers get 403.
func (m *Middleware) AuthorizeRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role := Anonymous
		id, signedIn := auth.IdentityFromContext(r.Context())
		if signedIn {
			role = id.Role
		}

		action := methodToAction(r.Method)
		allowed, err := m.enforcer.Enforce(role, r.URL.Path, action)
		if err != nil {
			logging.Ctx(r.Context()).Error().Err(err).Msg("Authorization error")
			deny(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			return
		}
		if !allowed {
			logging.Ctx(r.Context()).Debug().
				Str("role", role).
				Str("action", action).
				Str("path", r.URL.Path).
				Msg("Request denied by policy")
			if !signedIn {
				deny(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
				return
			}
			if m.recorder != nil {
				m.recorder.LogAuthzDenied(r.Context(), audit.ActorFromIdentity(id),
					audit.SourceFromRequest(r), r.URL.Path, action)
			}
			deny(w, http.StatusForbidden, "FORBIDDEN", "insufficient permissions")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// methodToAction maps HTTP methods to Casbin actions.
func methodToAction(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return "read"
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return "write"
	case http.MethodDelete:
		return "delete"
	default:
		return "read"
	}
}

func deny(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "error",
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
