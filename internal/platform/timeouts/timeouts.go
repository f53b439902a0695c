// Package timeouts defines shared timeout constants used by the agenda
// processes so the web server, health endpoint and probe agree on durations.
package timeouts

import "time"

// GRPCDial caps the wait time when dialing the health endpoint.
const GRPCDial = 2 * time.Second

// HealthProbe is the interval between storage liveness checks that drive the
// gRPC health status.
const HealthProbe = 10 * time.Second

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// StorageBusy is the SQLite busy timeout applied to every connection.
const StorageBusy = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second
