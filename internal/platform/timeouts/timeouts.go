// Package timeouts defines shared timeout constants used by provenance
// processes.
package timeouts

import "time"

// HealthWait bounds how long the server waits for its own health check
// before reporting startup failure.
const HealthWait = 5 * time.Second

// ReadHeader limits how long the metrics HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long servers wait for in-flight requests during
// graceful shutdown.
const Shutdown = 5 * time.Second
