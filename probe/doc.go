// Package probe turns database pings, test statements and HTTP requests into
// checks for the /healthz and /readyz endpoints. See ExampleNewDBPingProbe and
// ExampleNewHTTPProbe.
package probe
