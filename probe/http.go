package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPDoer represents the subset of *http.Client required by the HTTP probe.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPProbeOption configures NewHTTPProbe.
type HTTPProbeOption func(*httpProbeConfig)

type httpProbeConfig struct {
	client  HTTPDoer
	allowed map[int]struct{}
	header  http.Header
	timeout time.Duration
}

// WithHTTPClient overrides the HTTP client used for the probe.
func WithHTTPClient(client HTTPDoer) HTTPProbeOption {
	return func(cfg *httpProbeConfig) {
		cfg.client = client
	}
}

// WithHTTPAllowedStatuses restricts success to the given status codes instead
// of any 2xx.
func WithHTTPAllowedStatuses(statuses ...int) HTTPProbeOption {
	return func(cfg *httpProbeConfig) {
		cfg.allowed = make(map[int]struct{}, len(statuses))
		for _, status := range statuses {
			cfg.allowed[status] = struct{}{}
		}
	}
}

// WithHTTPHeader sets a request header.
func WithHTTPHeader(key, value string) HTTPProbeOption {
	return func(cfg *httpProbeConfig) {
		cfg.header.Set(key, value)
	}
}

// WithHTTPTimeout bounds the whole request, body drain included.
func WithHTTPTimeout(timeout time.Duration) HTTPProbeOption {
	return func(cfg *httpProbeConfig) {
		cfg.timeout = timeout
	}
}

func (c *httpProbeConfig) accepts(status int) bool {
	if len(c.allowed) == 0 {
		return status >= 200 && status < 300
	}
	_, ok := c.allowed[status]
	return ok
}

// NewHTTPProbe requests target and succeeds on a 2xx answer. The container
// healthcheck command uses it against the service's own /healthz.
func NewHTTPProbe(name, method, target string, opts ...HTTPProbeOption) Func {
	cfg := &httpProbeConfig{client: http.DefaultClient, header: http.Header{}}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.client == nil {
		cfg.client = http.DefaultClient
	}

	return func(ctx context.Context) error {
		target := strings.TrimSpace(target)
		if target == "" {
			return fmt.Errorf("%s probe: target URL is required", name)
		}
		verb := strings.ToUpper(strings.TrimSpace(method))
		if verb == "" {
			verb = http.MethodGet
		}

		ctx = ctxOrBackground(ctx)
		if cfg.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.timeout)
			defer cancel()
		}

		req, err := http.NewRequestWithContext(ctx, verb, target, nil)
		if err != nil {
			return fmt.Errorf("%s probe: failed to build request: %w", name, err)
		}
		for key, values := range cfg.header {
			req.Header[key] = append([]string(nil), values...)
		}

		resp, err := cfg.client.Do(req)
		if err != nil {
			return fmt.Errorf("%s probe request failed: %w", name, err)
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)

		if !cfg.accepts(resp.StatusCode) {
			return fmt.Errorf("%s probe: unexpected status %d %s", name, resp.StatusCode, http.StatusText(resp.StatusCode))
		}
		return nil
	}
}
