package entity

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/drblury/swiftmove/responder"
	"github.com/drblury/swiftmove/store"
)

type call struct {
	statement string
	args      []any
}

type fakeGateway struct {
	rows     []store.Row
	affected int64
	id       int64
	err      error
	calls    []call
}

func (f *fakeGateway) Query(_ context.Context, statement string, args ...any) ([]store.Row, error) {
	f.calls = append(f.calls, call{statement, args})
	return f.rows, f.err
}

func (f *fakeGateway) Exec(_ context.Context, statement string, args ...any) (int64, error) {
	f.calls = append(f.calls, call{statement, args})
	return f.affected, f.err
}

func (f *fakeGateway) Insert(_ context.Context, statement string, args ...any) (int64, error) {
	f.calls = append(f.calls, call{statement, args})
	return f.id, f.err
}

func newTestMux(gw store.Gateway) *http.ServeMux {
	mux := http.NewServeMux()
	resp := responder.NewResponder(responder.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	Register(mux, gw, resp, All()...)
	return mux
}

func serve(mux http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var msg responder.Message
	if err := json.Unmarshal(rec.Body.Bytes(), &msg); err != nil {
		t.Fatalf("failed to decode message: %v (body: %s)", err, rec.Body.String())
	}
	return msg.Message
}

func TestListEmptyReturnsArray(t *testing.T) {
	mux := newTestMux(&fakeGateway{})

	rec := serve(mux, http.MethodGet, "/api/payments", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Fatalf("expected empty array, got %s", got)
	}
}

func TestListReturnsRows(t *testing.T) {
	gw := &fakeGateway{rows: []store.Row{{"id": int64(1), "sender_name": "Dispatch", "message": "On my way"}}}
	mux := newTestMux(gw)

	rec := serve(mux, http.MethodGet, "/api/communications", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	want := `[{"id":1,"message":"On my way","sender_name":"Dispatch"}]`
	if got := strings.TrimSpace(rec.Body.String()); got != want {
		t.Fatalf("got %s want %s", got, want)
	}
	if gw.calls[0].statement != "SELECT * FROM communications" {
		t.Fatalf("unexpected statement %q", gw.calls[0].statement)
	}
}

func TestCreateEchoesSuppliedFields(t *testing.T) {
	gw := &fakeGateway{id: 7}
	mux := newTestMux(gw)

	rec := serve(mux, http.MethodPost, "/api/customers", `{"name":"Ada","phone":"+1555","vip":true}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, rec.Code)
	}
	want := `{"id":7,"name":"Ada","phone":"+1555"}`
	if got := strings.TrimSpace(rec.Body.String()); got != want {
		t.Fatalf("got %s want %s", got, want)
	}

	args := gw.calls[0].args
	if len(args) != 3 || args[0] != "Ada" || args[1] != nil || args[2] != "+1555" {
		t.Fatalf("unexpected bound args %#v", args)
	}
}

func TestUpdateOutcomes(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		affected int64
		status   int
		message  string
		calls    int
	}{
		{"existing row", "/api/orders/4", 1, http.StatusOK, "Order updated successfully", 1},
		{"missing row", "/api/orders/99", 0, http.StatusNotFound, "Order not found", 1},
		{"non numeric id", "/api/orders/abc", 1, http.StatusNotFound, "Order not found", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &fakeGateway{affected: tt.affected}
			mux := newTestMux(gw)

			rec := serve(mux, http.MethodPut, tt.target, `{"status":"Delivered","driver_id":2}`)
			if rec.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, rec.Code)
			}
			if got := decodeMessage(t, rec); got != tt.message {
				t.Fatalf("expected message %q, got %q", tt.message, got)
			}
			if len(gw.calls) != tt.calls {
				t.Fatalf("expected %d statements, got %d", tt.calls, len(gw.calls))
			}
		})
	}
}

func TestUpdateBindsEveryDeclaredFieldThenID(t *testing.T) {
	gw := &fakeGateway{affected: 1}
	mux := newTestMux(gw)

	serve(mux, http.MethodPut, "/api/orders/4", `{"status":"Delivered","driver_id":2}`)

	want := []any{nil, int64(2), nil, nil, nil, "Delivered", int64(4)}
	got := gw.calls[0].args
	if len(got) != len(want) {
		t.Fatalf("expected %d args, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("arg %d: got %#v want %#v", i, got[i], want[i])
		}
	}
}

func TestDeleteOutcomes(t *testing.T) {
	gw := &fakeGateway{affected: 1}
	mux := newTestMux(gw)

	rec := serve(mux, http.MethodDelete, "/api/driver-performance/3", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if got := decodeMessage(t, rec); got != "Driver performance record deleted successfully" {
		t.Fatalf("unexpected message %q", got)
	}

	gw.affected = 0
	rec = serve(mux, http.MethodDelete, "/api/driver-performance/3", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
	if got := decodeMessage(t, rec); got != "Driver performance record not found" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestMalformedBodiesAreRejected(t *testing.T) {
	for _, body := range []string{`{"name":`, `[1,2]`, `null`, `"Ada"`, ``} {
		t.Run(body, func(t *testing.T) {
			gw := &fakeGateway{id: 1}
			mux := newTestMux(gw)

			rec := serve(mux, http.MethodPost, "/api/drivers", body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
			}
			if len(gw.calls) != 0 {
				t.Fatal("expected no statement for a rejected body")
			}
		})
	}
}

func TestGatewayFaultBecomesServerError(t *testing.T) {
	gw := &fakeGateway{err: errors.New("Cannot add or update a child row: a foreign key constraint fails")}
	mux := newTestMux(gw)

	rec := serve(mux, http.MethodPost, "/api/orders", `{"customer_id":999}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rec.Code)
	}

	var env responder.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	if env.Error.Message != "Internal Server Error" {
		t.Fatalf("expected generic message, got %q", env.Error.Message)
	}
	if rec.Header().Get(responder.TraceHeader) == "" {
		t.Fatal("expected trace id header")
	}
}

func TestUnknownMethodIsNotAllowed(t *testing.T) {
	mux := newTestMux(&fakeGateway{})

	rec := serve(mux, http.MethodPatch, "/api/customers/1", `{}`)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}

func TestNewHandlerPanicsWithoutGateway(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when gateway is nil")
		}
	}()

	NewHandler(Customer, nil)
}
