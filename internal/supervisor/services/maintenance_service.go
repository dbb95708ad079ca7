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
	"github.com/tomtom215/itinera/internal/backup"
	"github.com/tomtom215/itinera/internal/logging"
)

// MaintenanceRecorder records the outcome of a maintenance run in the
// audit trail.
type MaintenanceRecorder interface {
	LogMaintenance(ctx context.Context, typ audit.EventType, err error, metadata map[string]interface{})
}

// PeriodicServiceConfig holds configuration for a periodic task.
type PeriodicServiceConfig struct {
	// Interval between runs. Required.
	Interval time.Duration

	// Timeout bounds a single run. Zero means the interval.
	Timeout time.Duration

	// RunOnStartup triggers a run as soon as the service starts.
	RunOnStartup bool
}

// PeriodicService runs a task on a ticker. Task errors are logged and the
// task is retried on the next tick.
type PeriodicService struct {
	name   string
	config PeriodicServiceConfig
	task   func(ctx context.Context) error
	logger zerolog.Logger
}

// NewPeriodicService creates a periodic service named name.
func NewPeriodicService(name string, cfg PeriodicServiceConfig, task func(ctx context.Context) error) *PeriodicService {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = cfg.Interval
	}
	return &PeriodicService{
		name:   name,
		config: cfg,
		task:   task,
		logger: logging.WithComponent(name),
	}
}

// Serve implements suture.Service.
func (p *PeriodicService) Serve(ctx context.Context) error {
	p.logger.Info().Dur("interval", p.config.Interval).Msg("Periodic service starting")

	if p.config.RunOnStartup {
		p.runOnce(ctx)
	}

	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info().Msg("Periodic service shutting down")
			return ctx.Err()
		case <-ticker.C:
			p.runOnce(ctx)
		}
	}
}

func (p *PeriodicService) runOnce(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()
	runCtx = logging.ContextWithLogger(logging.ContextWithNewCorrelationID(runCtx), p.logger)

	if err := p.task(runCtx); err != nil && ctx.Err() == nil {
		p.logger.Warn().Err(err).Msg("Periodic task failed, retrying next tick")
	}
}

// String implements fmt.Stringer for suture's logs.
func (p *PeriodicService) String() string {
	return p.name
}

// Snapshotter takes store snapshots.
type Snapshotter interface {
	Create(ctx context.Context, trigger backup.Trigger, notes string) (*backup.Snapshot, error)
}

// NewBackupService snapshots the store every interval. recorder may be nil.
func NewBackupService(s Snapshotter, interval time.Duration, recorder MaintenanceRecorder) *PeriodicService {
	return NewPeriodicService("backup-service", PeriodicServiceConfig{Interval: interval}, func(ctx context.Context) error {
		snap, err := s.Create(ctx, backup.TriggerScheduled, "scheduled snapshot")
		if recorder != nil {
			meta := map[string]interface{}{}
			if snap != nil {
				meta["snapshot_id"] = snap.ID
				meta["size_bytes"] = snap.SizeBytes
			}
			recorder.LogMaintenance(ctx, audit.EventTypeBackup, err, meta)
		}
		return err
	})
}

// Pruner deletes expired records.
type Pruner interface {
	Prune(ctx context.Context) (int64, error)
}

// NewAuditRetentionService prunes expired audit events every interval.
func NewAuditRetentionService(p Pruner, interval time.Duration) *PeriodicService {
	return NewPeriodicService("audit-retention", PeriodicServiceConfig{Interval: interval}, func(ctx context.Context) error {
		_, err := p.Prune(ctx)
		return err
	})
}
