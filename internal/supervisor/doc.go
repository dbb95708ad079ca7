// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

// Package supervisor runs Itinera's long-lived services under a suture v4
// supervisor tree. Supervisor events are logged through sutureslog and the
// zerolog-backed slog handler from internal/logging.
//
//	tree, _ := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
//	tree.AddAPIService(services.NewHTTPServerService(srv, cfg.Server.ShutdownTimeout))
//	tree.AddMaintenanceService(services.NewSweepService(reconciler, sweepCfg))
//	err := tree.Serve(ctx)
package supervisor
