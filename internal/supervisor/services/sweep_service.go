// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/itinera/internal/audit"
	"github.com/tomtom215/itinera/internal/logging"
	"github.com/tomtom215/itinera/internal/reconcile"
)

// Reconciler runs one consistency pass.
type Reconciler interface {
	Run(ctx context.Context) (reconcile.Report, error)
}

// SweepServiceConfig holds configuration for the sweep service.
type SweepServiceConfig struct {
	// Interval between passes. Default: 5m
	Interval time.Duration

	// Timeout bounds a single pass. Default: 2m
	Timeout time.Duration

	// RunOnStartup triggers a pass as soon as the service starts.
	RunOnStartup bool

	// Recorder, when set, audits every pass.
	Recorder MaintenanceRecorder
}

// SweepService runs the reconciliation pass on a ticker. A failed pass is
// logged and retried on the next tick rather than crashing the service.
type SweepService struct {
	reconciler Reconciler
	config     SweepServiceConfig
	logger     zerolog.Logger
	name       string
}

// NewSweepService creates a new sweep service.
func NewSweepService(r Reconciler, cfg SweepServiceConfig) *SweepService {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	return &SweepService{
		reconciler: r,
		config:     cfg,
		logger:     logging.WithComponent("sweep"),
		name:       "sweep-service",
	}
}

// Serve implements suture.Service.
func (s *SweepService) Serve(ctx context.Context) error {
	s.logger.Info().
		Dur("interval", s.config.Interval).
		Bool("run_on_startup", s.config.RunOnStartup).
		Msg("Sweep service starting")

	if s.config.RunOnStartup {
		s.runOnce(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Sweep service shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *SweepService) runOnce(ctx context.Context) {
	passCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()
	passCtx = logging.ContextWithLogger(logging.ContextWithNewCorrelationID(passCtx), s.logger)

	report, err := s.reconciler.Run(passCtx)
	if s.config.Recorder != nil {
		s.config.Recorder.LogMaintenance(passCtx, audit.EventTypeSweepRun, err, map[string]interface{}{
			"orphans_removed":     report.Itinerary.OrphansRemoved,
			"stale_refs_removed":  report.Itinerary.StaleRefsRemoved,
			"provinces_recounted": report.ProvincesRecounted,
			"ratings_rebuilt":     report.RatingsRebuilt,
		})
	}
	if err != nil && ctx.Err() == nil {
		s.logger.Warn().Err(err).Msg("Reconciliation pass failed, retrying next tick")
	}
}

// String implements fmt.Stringer for suture's logs.
func (s *SweepService) String() string {
	return s.name
}
