// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

/*
Package websocket serves the live admin event feed.

Every audit event stored by internal/audit is forwarded to the Hub, which
fans it out to the connected admin clients as JSON messages:

	{"type": "audit_event", "data": {...audit.Event...}}

Clients may send {"type": "ping"} and receive {"type": "pong"}. The server
also sends protocol-level pings every 54 seconds and drops a client that
does not answer within 60.

# Delivery

Broadcasts never block the caller. A message is dropped when the hub's
broadcast queue is full, and a client whose send buffer is full is
disconnected. The feed is a convenience view; the audit store stays the
record of truth.

# Lifecycle

The hub runs under the supervisor tree via RunWithContext. On shutdown every
client's send channel is closed, which makes its write pump send a close
frame and exit.
*/
package websocket
