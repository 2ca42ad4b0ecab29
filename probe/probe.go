package probe

import (
	"context"
	"errors"
	"fmt"
)

// Func is a health check that returns an error when the resource is unavailable.
type Func func(ctx context.Context) error

// DBPinger captures the subset of *store.DB and *sql.DB used for readiness checks.
type DBPinger interface {
	PingContext(ctx context.Context) error
}

// Querier runs a statement, discarding any rows it returns.
type Querier interface {
	Query(ctx context.Context, statement string, args ...any) error
}

// QuerierFunc adapts a function to Querier.
type QuerierFunc func(ctx context.Context, statement string, args ...any) error

func (f QuerierFunc) Query(ctx context.Context, statement string, args ...any) error {
	return f(ctx, statement, args...)
}

// NewPingProbe wraps fn with the error handling the info handler expects.
func NewPingProbe(name string, fn func(ctx context.Context) error) Func {
	return func(ctx context.Context) error {
		if fn == nil {
			return notConfigured(name, "ping function")
		}
		if err := fn(ctxOrBackground(ctx)); err != nil {
			return fmt.Errorf("%s probe failed: %w", name, err)
		}
		return nil
	}
}

// NewDBPingProbe pings the database session.
func NewDBPingProbe(name string, db DBPinger) Func {
	return func(ctx context.Context) error {
		if db == nil {
			return notConfigured(name, "db client")
		}
		if err := db.PingContext(ctxOrBackground(ctx)); err != nil {
			return fmt.Errorf("%s probe failed: %w", name, err)
		}
		return nil
	}
}

// NewQueryProbe runs statement and fails if the database rejects it. It
// catches a server that accepts connections but cannot serve queries.
func NewQueryProbe(name string, q Querier, statement string) Func {
	return func(ctx context.Context) error {
		if q == nil {
			return notConfigured(name, "querier")
		}
		if statement == "" {
			return errors.New(name + " probe: statement is required")
		}
		if err := q.Query(ctxOrBackground(ctx), statement); err != nil {
			return fmt.Errorf("%s probe failed: %w", name, err)
		}
		return nil
	}
}

func ctxOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

func notConfigured(name, what string) error {
	return fmt.Errorf("%s probe: no %s configured", name, what)
}
