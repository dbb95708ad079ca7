// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/itinera/internal/auth"
	"github.com/tomtom215/itinera/internal/authz"
	"github.com/tomtom215/itinera/internal/middleware"
)

// RouterConfig holds CORS and rate limit settings.
type RouterConfig struct {
	CORSOrigins       []string
	RateLimitReqs     int
	RateLimitWindow   time.Duration
	RateLimitDisabled bool
}

// NewRouter builds the HTTP handler.
//
// /health and /metrics sit outside the API and are neither authenticated
// nor rate limited. Everything under /api/v1 passes through, in order:
// rate limiting, optional bearer authentication and the route policy.
func NewRouter(h *Handler, authn *auth.Middleware, policy *authz.Middleware, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         86400,
	}))
	r.Use(middleware.PrometheusMetrics)

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rateLimit(cfg))
		r.Use(apiSecurityHeaders)
		r.Use(authn.Optional)
		r.Use(policy.AuthorizeRequest)

		r.Route("/places", func(r chi.Router) {
			r.Get("/", h.ListPlaces)
			r.Post("/", h.CreatePlace)
			r.Get("/popular", h.PopularPlaces)
			r.Get("/best", h.BestPlaces)
			r.Get("/search", h.SearchPlaces)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetPlace)
				r.Patch("/", h.UpdatePlace)
				r.Delete("/", h.HidePlace)
				r.Get("/nearby", h.NearbyPlaces)
				r.Get("/reviews", h.ListReviews)
				r.Post("/reviews", h.CreateReview)
			})
		})

		r.Route("/reviews/{id}", func(r chi.Router) {
			r.Patch("/", h.UpdateReview)
			r.Delete("/", h.HideReview)
			r.Post("/like", h.ToggleLike)
		})

		r.Route("/me", func(r chi.Router) {
			r.Get("/favorites", h.ListFavorites)
			r.Put("/favorites/{placeID}", h.AddFavorite)
			r.Delete("/favorites/{placeID}", h.RemoveFavorite)
			r.Get("/recent", h.RecentPlaces)
		})

		r.Route("/plans", func(r chi.Router) {
			r.Get("/", h.ListPlans)
			r.Post("/", h.CreatePlan)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetPlan)
				r.Patch("/", h.UpdatePlan)
				r.Delete("/", h.DeletePlan)
				r.Get("/sections", h.ListSections)
				r.Post("/sections", h.CreateSection)
			})
		})

		r.Route("/sections/{id}", func(r chi.Router) {
			r.Get("/", h.GetSection)
			r.Patch("/", h.UpdateSection)
			r.Delete("/", h.DeleteSection)
			r.Post("/waypoints", h.AddWaypoint)
			r.Delete("/waypoints/{placeID}", h.RemoveWaypoint)
			r.Post("/waypoints/{placeID}/visit", h.MarkVisited)
		})

		r.Route("/provinces", func(r chi.Router) {
			r.Get("/", h.ListProvinces)
			r.Post("/", h.CreateProvince)
			r.Get("/{id}", h.GetProvince)
			r.Post("/{id}/recount", h.RecountProvince)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.ListCategories)
			r.Post("/", h.CreateCategory)
			r.Patch("/{id}", h.UpdateCategory)
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", h.ListTags)
			r.Post("/", h.CreateTag)
			r.Patch("/{id}", h.UpdateTag)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Put("/users/{id}/status", h.SetUserStatus)
			r.Get("/sweep", h.LastSweep)
			r.Post("/sweep", h.RunSweep)
			r.Get("/cache", h.CacheStats)
			r.Get("/audit", h.ListAuditEvents)
			r.Get("/events", h.EventFeed)
			r.Route("/backups", func(r chi.Router) {
				r.Get("/", h.ListBackups)
				r.Post("/", h.CreateBackup)
				r.Delete("/{id}", h.DeleteBackup)
				r.Post("/{id}/verify", h.VerifyBackup)
			})
		})
	})

	return r
}

func rateLimit(cfg RouterConfig) func(http.Handler) http.Handler {
	if cfg.RateLimitDisabled {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		cfg.RateLimitReqs,
		cfg.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			respondError(w, r, http.StatusTooManyRequests, ErrCodeTooManyRequests, "rate limit exceeded", nil)
		}),
	)
}

// apiSecurityHeaders sets the response headers every JSON endpoint carries.
func apiSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		next.ServeHTTP(w, r)
	})
}
