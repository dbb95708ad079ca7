// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// minJWTSecretLength is the shortest HMAC secret accepted.
const minJWTSecretLength = 32

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true,
}

var validLogFormats = map[string]bool{
	"json": true, "console": true,
}

// Validate checks that the configuration is complete and consistent.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateDatabase,
		c.validateLedger,
		c.validateItinerary,
		c.validateSweep,
		c.validateDiscovery,
		c.validateSecurity,
		c.validateAudit,
		c.validateBackup,
		c.validateLogging,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("HTTP_SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if !c.Database.InMemory && strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("BADGER_PATH is required unless BADGER_IN_MEMORY=true")
	}
	return nil
}

func (c *Config) validateLedger() error {
	if c.Ledger.Capacity < 1 || c.Ledger.Capacity > 100 {
		return fmt.Errorf("LEDGER_CAPACITY must be between 1 and 100, got %d", c.Ledger.Capacity)
	}
	return nil
}

func (c *Config) validateItinerary() error {
	it := c.Itinerary
	if it.RepairAttempts < 1 || it.RepairAttempts > 10 {
		return fmt.Errorf("ITINERARY_REPAIR_ATTEMPTS must be between 1 and 10, got %d", it.RepairAttempts)
	}
	if it.RepairDelay < 0 {
		return errors.New("ITINERARY_REPAIR_DELAY must not be negative")
	}
	if it.BreakerThreshold == 0 {
		return errors.New("ITINERARY_BREAKER_THRESHOLD must be at least 1")
	}

	// An orphan younger than the longest possible repair may still be
	// claimed by its parent.
	worst := it.RepairDelay * (1<<it.RepairAttempts - 1)
	if it.OrphanGrace <= worst {
		return fmt.Errorf("ITINERARY_ORPHAN_GRACE (%s) must exceed the worst-case repair time (%s)",
			it.OrphanGrace, worst)
	}
	return nil
}

func (c *Config) validateSweep() error {
	if !c.Sweep.Enabled {
		return nil
	}
	if c.Sweep.Interval <= 0 {
		return errors.New("SWEEP_INTERVAL must be positive when the sweep is enabled")
	}
	if c.Sweep.WritesPerSecond < 0 {
		return errors.New("SWEEP_WRITES_PER_SECOND must not be negative")
	}
	return nil
}

func (c *Config) validateDiscovery() error {
	d := c.Discovery
	for name, v := range map[string]float64{
		"POPULAR_RATE_THRESHOLD": d.PopularRateThreshold,
		"BEST_RATE_THRESHOLD":    d.BestRateThreshold,
	} {
		if v < 0 || v > 5 {
			return fmt.Errorf("%s must be between 0 and 5, got %v", name, v)
		}
	}
	if d.PopularViewThreshold < 0 {
		return errors.New("POPULAR_VIEW_THRESHOLD must not be negative")
	}
	if d.ListCacheTTL < 0 {
		return errors.New("LIST_CACHE_TTL must not be negative")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	s := c.Security
	if !s.AuthDisabled && len(s.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", minJWTSecretLength)
	}
	if !s.RateLimitDisabled {
		if s.RateLimitReqs < 1 {
			return errors.New("RATE_LIMIT_REQUESTS must be at least 1")
		}
		if s.RateLimitWindow <= 0 {
			return errors.New("RATE_LIMIT_WINDOW must be positive")
		}
	}
	return nil
}

func (c *Config) validateAudit() error {
	a := c.Audit
	if !a.Enabled {
		return nil
	}
	if a.BufferSize < 1 {
		return errors.New("AUDIT_BUFFER_SIZE must be at least 1")
	}
	if a.Retention <= 0 {
		return errors.New("AUDIT_RETENTION must be positive")
	}
	if a.CleanupInterval <= 0 {
		return errors.New("AUDIT_CLEANUP_INTERVAL must be positive")
	}
	return nil
}

func (c *Config) validateBackup() error {
	b := c.Backup
	if !b.Enabled {
		return nil
	}
	if strings.TrimSpace(b.Dir) == "" {
		return errors.New("BACKUP_DIR is required when backups are enabled")
	}
	if b.Interval < time.Minute {
		return fmt.Errorf("BACKUP_INTERVAL must be at least 1m, got %s", b.Interval)
	}
	if b.Keep < 0 {
		return errors.New("BACKUP_KEEP must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return errors.New("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return errors.New("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
