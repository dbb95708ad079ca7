// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package config

import "time"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Ledger    LedgerConfig    `koanf:"ledger"`
	Itinerary ItineraryConfig `koanf:"itinerary"`
	Sweep     SweepConfig     `koanf:"sweep"`
	Discovery DiscoveryConfig `koanf:"discovery"`
	Security  SecurityConfig  `koanf:"security"`
	Audit     AuditConfig     `koanf:"audit"`
	Backup    BackupConfig    `koanf:"backup"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// DatabaseConfig holds the badger document store configuration.
type DatabaseConfig struct {
	Path       string `koanf:"path"`
	InMemory   bool   `koanf:"in_memory"`
	SyncWrites bool   `koanf:"sync_writes"`
}

// LedgerConfig holds the recently viewed list configuration.
type LedgerConfig struct {
	Capacity int `koanf:"capacity"`
}

// ItineraryConfig holds the plan/section repair protocol configuration.
type ItineraryConfig struct {
	RepairAttempts   int           `koanf:"repair_attempts"`
	RepairDelay      time.Duration `koanf:"repair_delay"`
	BreakerThreshold uint32        `koanf:"breaker_threshold"`
	BreakerTimeout   time.Duration `koanf:"breaker_timeout"`
	OrphanGrace      time.Duration `koanf:"orphan_grace"`
}

// SweepConfig holds the reconciliation sweep configuration.
type SweepConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Interval time.Duration `koanf:"interval"`
	Timeout  time.Duration `koanf:"timeout"`

	// WritesPerSecond paces repair writes so a large sweep does not starve
	// request traffic. Zero means unlimited.
	WritesPerSecond float64 `koanf:"writes_per_second"`
}

// DiscoveryConfig holds ranking thresholds and listing cache settings.
type DiscoveryConfig struct {
	PopularRateThreshold float64       `koanf:"popular_rate_threshold"`
	PopularViewThreshold int64         `koanf:"popular_view_threshold"`
	BestRateThreshold    float64       `koanf:"best_rate_threshold"`
	ListCacheTTL         time.Duration `koanf:"list_cache_ttl"`
}

// SecurityConfig holds authentication, CORS and rate limit configuration.
type SecurityConfig struct {
	// AuthDisabled accepts every request as an anonymous admin. Development only.
	AuthDisabled bool   `koanf:"auth_disabled"`
	JWTSecret    string `koanf:"jwt_secret"`
	JWTIssuer    string `koanf:"jwt_issuer"`

	// AuthzPolicyPath overrides the embedded route policy with a CSV file.
	AuthzPolicyPath string        `koanf:"authz_policy_path"`
	AuthzCacheTTL   time.Duration `koanf:"authz_cache_ttl"`

	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// AuditConfig holds the admin audit trail configuration.
type AuditConfig struct {
	Enabled         bool          `koanf:"enabled"`
	BufferSize      int           `koanf:"buffer_size"`
	Retention       time.Duration `koanf:"retention"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`

	// LiveFeed streams stored events to admins over a websocket.
	LiveFeed bool `koanf:"live_feed"`
}

// BackupConfig holds the store snapshot configuration.
type BackupConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Dir      string        `koanf:"dir"`
	Interval time.Duration `koanf:"interval"`
	Keep     int           `koanf:"keep"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return joinHostPort(s.Host, s.Port)
}
