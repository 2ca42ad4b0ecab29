package router

import (
	"net/http"
	"time"
)

// Config holds the tunables of the default middleware chain.
type Config struct {
	// Timeout bounds the time a handler may take; zero disables the timeout
	// middleware.
	Timeout time.Duration
	CORS    CORSConfig
	// QuietdownRoutes are paths whose requests are not logged.
	QuietdownRoutes []string
	// HideHeaders are redacted from request logs.
	HideHeaders []string
	// RateLimit is the sustained number of requests per second accepted
	// across all clients; zero disables rate limiting.
	RateLimit      float64
	RateLimitBurst int
	// ValidationPrefix restricts OpenAPI request validation to paths with
	// this prefix. Empty validates every request.
	ValidationPrefix string
}

// CORSConfig describes the cross-origin policy applied to every route.
type CORSConfig struct {
	Origins          []string
	Methods          []string
	Headers          []string
	AllowCredentials bool
}

// DefaultCORSConfig allows any origin to use the four CRUD verbs with the
// Content-Type and Authorization headers.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		Origins: []string{"*"},
		Methods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		Headers: []string{"Content-Type", "Authorization"},
	}
}
