// Package api wires the SwiftMove service together.
//
// NewHandler mounts the six entity resources under /api, the banner, probe,
// version and documentation routes from package info and the Prometheus
// endpoint, then wraps the lot in the router middleware chain. Serve adds the
// database session and the HTTP server lifecycle on top.
package api
