// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/itinera/internal/api"
	"github.com/tomtom215/itinera/internal/audit"
	"github.com/tomtom215/itinera/internal/auth"
	"github.com/tomtom215/itinera/internal/authz"
	"github.com/tomtom215/itinera/internal/backup"
	"github.com/tomtom215/itinera/internal/catalog"
	"github.com/tomtom215/itinera/internal/config"
	"github.com/tomtom215/itinera/internal/discovery"
	"github.com/tomtom215/itinera/internal/itinerary"
	"github.com/tomtom215/itinera/internal/logging"
	"github.com/tomtom215/itinera/internal/reconcile"
	"github.com/tomtom215/itinera/internal/store"
	"github.com/tomtom215/itinera/internal/supervisor"
	"github.com/tomtom215/itinera/internal/supervisor/services"
	ws "github.com/tomtom215/itinera/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Server exited with error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

//nolint:gocyclo // sequential wiring of every component
func run(cfg *config.Config) error {
	logging.Info().
		Str("db_path", cfg.Database.Path).
		Bool("in_memory", cfg.Database.InMemory).
		Bool("auth_disabled", cfg.Security.AuthDisabled).
		Bool("sweep_enabled", cfg.Sweep.Enabled).
		Bool("audit_enabled", cfg.Audit.Enabled).
		Bool("backup_enabled", cfg.Backup.Enabled).
		Msg("Starting Itinera with supervisor tree")

	st, err := store.Open(store.Options{
		Path:       cfg.Database.Path,
		InMemory:   cfg.Database.InMemory,
		SyncWrites: cfg.Database.SyncWrites,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()
	logging.Info().Msg("Store opened")

	// The audit logger drains before the store closes: defers run LIFO.
	var (
		auditLogger *audit.Logger
		hub         *ws.Hub
	)
	if cfg.Audit.Enabled {
		var opts []audit.Option
		if cfg.Audit.LiveFeed {
			hub = ws.NewHub()
			opts = append(opts, audit.WithObserver(hub))
		}
		auditLogger = audit.NewLogger(audit.NewBadgerStore(st.DB()), audit.Config{
			Enabled:    true,
			BufferSize: cfg.Audit.BufferSize,
			Retention:  cfg.Audit.Retention,
		}, opts...)
		defer func() {
			if err := auditLogger.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing audit logger")
			}
		}()
		logging.Info().Dur("retention", cfg.Audit.Retention).Msg("Audit logger started")
	}

	var backupManager *backup.Manager
	if cfg.Backup.Enabled {
		backupManager, err = backup.NewManager(backup.Config{
			Dir:  cfg.Backup.Dir,
			Keep: cfg.Backup.Keep,
		}, st)
		if err != nil {
			return err
		}
		logging.Info().Str("dir", cfg.Backup.Dir).Int("keep", cfg.Backup.Keep).Msg("Backup manager initialized")
	}

	catalogSvc := catalog.NewService(st, catalog.Config{
		LedgerCapacity: cfg.Ledger.Capacity,
		Thresholds: discovery.Thresholds{
			PopularRate:  cfg.Discovery.PopularRateThreshold,
			PopularViews: cfg.Discovery.PopularViewThreshold,
			BestRate:     cfg.Discovery.BestRateThreshold,
		},
		ListCacheTTL: cfg.Discovery.ListCacheTTL,
	})

	manager := itinerary.NewManager(st.Plans, st.Sections, st.Places, itinerary.Config{
		RepairAttempts:       cfg.Itinerary.RepairAttempts,
		RepairDelay:          cfg.Itinerary.RepairDelay,
		BreakerFailures:      cfg.Itinerary.BreakerThreshold,
		BreakerTimeout:       cfg.Itinerary.BreakerTimeout,
		OrphanGrace:          cfg.Itinerary.OrphanGrace,
		SweepWritesPerSecond: cfg.Sweep.WritesPerSecond,
	})

	var jwtManager *auth.JWTManager
	if cfg.Security.AuthDisabled {
		logging.Warn().Msg("Authentication disabled: every request runs as admin")
	} else {
		jwtManager, err = auth.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.JWTIssuer)
		if err != nil {
			return err
		}
	}

	enforcer, err := authz.NewEnforcer(authz.EnforcerConfig{
		PolicyPath: cfg.Security.AuthzPolicyPath,
		CacheTTL:   cfg.Security.AuthzCacheTTL,
	})
	if err != nil {
		return err
	}

	reconciler := reconcile.New(manager, catalogSvc, st, catalogSvc, enforcer)

	handler := api.NewHandler(catalogSvc, manager, reconciler, st)
	var policyOpts []authz.MiddlewareOption
	if auditLogger != nil {
		handler.ConfigureAudit(auditLogger)
		policyOpts = append(policyOpts, authz.WithDenialRecorder(auditLogger))
	}
	if backupManager != nil {
		handler.ConfigureBackups(backupManager)
	}
	if hub != nil {
		handler.ConfigureEvents(hub, cfg.Security.CORSOrigins)
	}
	router := api.NewRouter(handler,
		auth.NewMiddleware(jwtManager, cfg.Security.AuthDisabled),
		authz.NewMiddleware(enforcer, policyOpts...),
		api.RouterConfig{
			CORSOrigins:       cfg.Security.CORSOrigins,
			RateLimitReqs:     cfg.Security.RateLimitReqs,
			RateLimitWindow:   cfg.Security.RateLimitWindow,
			RateLimitDisabled: cfg.Security.RateLimitDisabled,
		})

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return err
	}

	if cfg.Sweep.Enabled {
		sweepCfg := services.SweepServiceConfig{
			Interval:     cfg.Sweep.Interval,
			Timeout:      cfg.Sweep.Timeout,
			RunOnStartup: true,
		}
		if auditLogger != nil {
			sweepCfg.Recorder = auditLogger
		}
		tree.AddMaintenanceService(services.NewSweepService(reconciler, sweepCfg))
		logging.Info().Dur("interval", cfg.Sweep.Interval).Msg("Sweep service added to supervisor tree")
	}

	if auditLogger != nil {
		tree.AddMaintenanceService(services.NewAuditRetentionService(auditLogger, cfg.Audit.CleanupInterval))
		logging.Info().Dur("interval", cfg.Audit.CleanupInterval).Msg("Audit retention service added")
	}

	if backupManager != nil {
		var recorder services.MaintenanceRecorder
		if auditLogger != nil {
			recorder = auditLogger
		}
		tree.AddMaintenanceService(services.NewBackupService(backupManager, cfg.Backup.Interval, recorder))
		logging.Info().Dur("interval", cfg.Backup.Interval).Msg("Backup service added")
	}

	if hub != nil {
		tree.AddAPIService(services.NewWebSocketHubService(hub))
		logging.Info().Msg("Admin event feed hub added")
	}

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}
	return nil
}
