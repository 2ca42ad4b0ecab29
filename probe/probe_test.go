package probe_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/drblury/swiftmove/probe"
)

type stubDB struct {
	err     error
	lastCtx context.Context
}

func (s *stubDB) PingContext(ctx context.Context) error {
	s.lastCtx = ctx
	return s.err
}

type stubHTTPClient struct {
	resp    *http.Response
	err     error
	lastReq *http.Request
}

func (s *stubHTTPClient) Do(req *http.Request) (*http.Response, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func TestNewPingProbe(t *testing.T) {
	t.Run("nil function", func(t *testing.T) {
		probeFunc := probe.NewPingProbe("db", nil)
		if err := probeFunc(context.Background()); err == nil {
			t.Fatal("expected error when ping function is nil")
		}
	})

	t.Run("failure", func(t *testing.T) {
		sentinel := errors.New("boom")
		probeFunc := probe.NewPingProbe("db", func(ctx context.Context) error {
			return sentinel
		})
		if err := probeFunc(context.Background()); !errors.Is(err, sentinel) {
			t.Fatalf("expected error to wrap sentinel, got %v", err)
		}
	})
}

func TestNewDBPingProbe(t *testing.T) {
	t.Run("nil client", func(t *testing.T) {
		probeFunc := probe.NewDBPingProbe("mysql", nil)
		if err := probeFunc(context.Background()); err == nil {
			t.Fatal("expected error when db client is nil")
		}
	})

	t.Run("nil context is replaced", func(t *testing.T) {
		stub := &stubDB{}
		if err := probe.NewDBPingProbe("mysql", stub)(nil); err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
		if stub.lastCtx == nil {
			t.Fatal("expected context to be supplied")
		}
	})

	t.Run("failure wraps error", func(t *testing.T) {
		sentinel := errors.New("connection refused")
		err := probe.NewDBPingProbe("mysql", &stubDB{err: sentinel})(context.Background())
		if !errors.Is(err, sentinel) {
			t.Fatalf("expected wrapped sentinel, got %v", err)
		}
		if !strings.HasPrefix(err.Error(), "mysql probe failed") {
			t.Fatalf("expected probe name in error, got %q", err.Error())
		}
	})
}

func TestNewQueryProbe(t *testing.T) {
	var seen string
	querier := probe.QuerierFunc(func(ctx context.Context, statement string, args ...any) error {
		seen = statement
		return nil
	})

	if err := probe.NewQueryProbe("database", querier, "SELECT 1")(context.Background()); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if seen != "SELECT 1" {
		t.Fatalf("expected statement to be forwarded, got %q", seen)
	}

	if err := probe.NewQueryProbe("database", querier, "")(context.Background()); err == nil {
		t.Fatal("expected error for an empty statement")
	}
	if err := probe.NewQueryProbe("database", nil, "SELECT 1")(context.Background()); err == nil {
		t.Fatal("expected error for a nil querier")
	}
}

func TestNewHTTPProbe(t *testing.T) {
	t.Run("requires target", func(t *testing.T) {
		if err := probe.NewHTTPProbe("self", http.MethodGet, " ")(context.Background()); err == nil {
			t.Fatal("expected error when target missing")
		}
	})

	t.Run("non success status fails", func(t *testing.T) {
		client := &stubHTTPClient{resp: &http.Response{
			StatusCode: http.StatusServiceUnavailable,
			Body:       io.NopCloser(strings.NewReader(`{"error":{"message":"Service Unavailable"}}`)),
		}}
		probeFunc := probe.NewHTTPProbe("self", "head", "http://swiftmove.invalid/healthz", probe.WithHTTPClient(client))

		if err := probeFunc(context.Background()); err == nil {
			t.Fatal("expected error when status not 2xx")
		}
		if client.lastReq == nil || client.lastReq.Method != http.MethodHead {
			t.Fatalf("expected HEAD request, got %+v", client.lastReq)
		}
	})

	t.Run("allowed statuses replace the 2xx rule", func(t *testing.T) {
		client := &stubHTTPClient{resp: &http.Response{
			StatusCode: http.StatusAccepted,
			Body:       io.NopCloser(strings.NewReader("")),
		}}
		probeFunc := probe.NewHTTPProbe("self", http.MethodGet, "http://swiftmove.invalid/healthz",
			probe.WithHTTPClient(client),
			probe.WithHTTPAllowedStatuses(http.StatusOK),
		)
		if err := probeFunc(context.Background()); err == nil {
			t.Fatal("expected 202 to be rejected")
		}
	})

	t.Run("request failure is propagated", func(t *testing.T) {
		sentinel := errors.New("network down")
		probeFunc := probe.NewHTTPProbe("self", http.MethodGet, "http://swiftmove.invalid/healthz",
			probe.WithHTTPClient(&stubHTTPClient{err: sentinel}))

		if err := probeFunc(context.Background()); !errors.Is(err, sentinel) {
			t.Fatalf("expected wrapped sentinel, got %v", err)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}
		}))
		defer server.Close()

		probeFunc := probe.NewHTTPProbe("self", http.MethodGet, server.URL, probe.WithHTTPTimeout(10*time.Millisecond))
		if err := probeFunc(context.Background()); !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("expected deadline exceeded, got %v", err)
		}
	})
}

func ExampleNewDBPingProbe() {
	probeFunc := probe.NewDBPingProbe("mysql", &stubDB{})
	fmt.Println(probeFunc(context.Background()))
	// Output: <nil>
}

func ExampleNewHTTPProbe() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "swiftmove-healthcheck" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		fmt.Fprintln(w, `{"status":"ok"}`)
	}))
	defer server.Close()

	probeFunc := probe.NewHTTPProbe(
		"self",
		http.MethodGet,
		server.URL+"/healthz",
		probe.WithHTTPClient(server.Client()),
		probe.WithHTTPHeader("User-Agent", "swiftmove-healthcheck"),
	)
	fmt.Println(probeFunc(context.Background()))
	// Output: <nil>
}
