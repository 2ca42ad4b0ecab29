package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func TestHealthcheck(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusOK)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/healthz" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(int(status.Load()))
	}))
	defer srv.Close()

	run := func() (string, error) {
		var out bytes.Buffer
		cmd := newCommand()
		cmd.Writer = &out
		err := cmd.Run(context.Background(), []string{name, "healthcheck", "--url", srv.URL + "/healthz"})
		return out.String(), err
	}

	out, err := run()
	if err != nil {
		t.Fatalf("expected healthy server, got %v", err)
	}
	if strings.TrimSpace(out) != "ok" {
		t.Fatalf("unexpected output %q", out)
	}

	status.Store(http.StatusServiceUnavailable)
	if _, err := run(); err == nil || !strings.Contains(err.Error(), "503") {
		t.Fatalf("expected failure naming the status, got %v", err)
	}
}

func TestServeRejectsInvalidConfiguration(t *testing.T) {
	cmd := newCommand()
	err := cmd.Run(context.Background(), []string{name, "--db-driver", "oracle"})
	if err == nil || !strings.Contains(err.Error(), "invalid configuration") {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestLocalHealthURL(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"", 5000, "http://127.0.0.1:5000/healthz"},
		{"0.0.0.0", 8080, "http://127.0.0.1:8080/healthz"},
		{"10.0.0.5", 5000, "http://10.0.0.5:5000/healthz"},
		{"::1", 5000, "http://[::1]:5000/healthz"},
	}

	for _, tt := range tests {
		if got := localHealthURL(tt.host, tt.port); got != tt.want {
			t.Errorf("localHealthURL(%q, %d) = %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}
