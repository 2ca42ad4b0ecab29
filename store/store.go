package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

const (
	defaultQueryTimeout   = 5 * time.Second
	defaultConnectTimeout = 5 * time.Second
)

// Row is a single result row keyed by column name.
type Row map[string]any

// Gateway is the contract entity handlers depend on. *DB implements it; tests
// substitute their own.
type Gateway interface {
	// Query runs a statement that returns rows. An empty result is an empty,
	// non-nil slice.
	Query(ctx context.Context, statement string, args ...any) ([]Row, error)
	// Exec runs a statement and reports the number of rows it affected.
	Exec(ctx context.Context, statement string, args ...any) (int64, error)
	// Insert runs an INSERT statement and returns the identifier assigned by
	// the database.
	Insert(ctx context.Context, statement string, args ...any) (int64, error)
}

// Config describes how to reach the database.
type Config struct {
	Driver         string
	DSN            string
	MaxOpenConns   int
	QueryTimeout   time.Duration
	ConnectTimeout time.Duration
}

// Option configures a DB.
type Option func(*DB)

// WithLogger sets the logger used for statement tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(db *DB) {
		if logger != nil {
			db.log = logger
		}
	}
}

// DB is the Gateway backed by database/sql through sqlx.
type DB struct {
	conn         *sqlx.DB
	driver       string
	queryTimeout time.Duration
	log          *slog.Logger
}

var _ Gateway = (*DB)(nil)

// Open establishes the database session and verifies it with a ping. Any
// failure is returned as a connection *Fault; callers are expected to treat
// it as fatal.
func Open(ctx context.Context, cfg Config, opts ...Option) (*DB, error) {
	if !IsSupportedDriver(cfg.Driver) {
		return nil, newFault(opConnect, "", fmt.Errorf("unsupported driver %q", cfg.Driver))
	}
	if cfg.DSN == "" {
		return nil, newFault(opConnect, "", errors.New("connection string is required"))
	}

	conn, err := sqlx.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, newFault(opConnect, "", err)
	}

	maxOpen := cfg.MaxOpenConns
	if cfg.Driver == DriverSQLite {
		// in-memory databases live and die with their connection
		maxOpen = 1
	}
	if maxOpen > 0 {
		conn.SetMaxOpenConns(maxOpen)
		conn.SetMaxIdleConns(maxOpen)
	}

	connectTimeout := cfg.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = defaultConnectTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, newFault(opConnect, "", err)
	}

	db := &DB{
		conn:         conn,
		driver:       cfg.Driver,
		queryTimeout: cfg.QueryTimeout,
		log:          slog.Default(),
	}
	if db.queryTimeout <= 0 {
		db.queryTimeout = defaultQueryTimeout
	}
	for _, opt := range opts {
		if opt != nil {
			opt(db)
		}
	}

	db.log.Info("database connected", "driver", cfg.Driver, "maxOpenConns", maxOpen)
	return db, nil
}

// Driver returns the database/sql driver name in use.
func (db *DB) Driver() string {
	return db.driver
}

// PingContext checks that the session is still alive.
func (db *DB) PingContext(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close releases the session.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Query implements Gateway.
func (db *DB) Query(ctx context.Context, statement string, args ...any) ([]Row, error) {
	ctx, cancel := db.statementContext(ctx)
	defer cancel()
	defer db.trace(statement, time.Now())

	rows, err := db.conn.QueryxContext(ctx, db.conn.Rebind(statement), args...)
	if err != nil {
		return nil, newFault(opQuery, statement, err)
	}
	defer rows.Close()

	columns, err := rows.ColumnTypes()
	if err != nil {
		return nil, newFault(opScan, statement, err)
	}

	result := make([]Row, 0)
	for rows.Next() {
		row := make(map[string]any, len(columns))
		if err := rows.MapScan(row); err != nil {
			return nil, newFault(opScan, statement, err)
		}
		result = append(result, normalizeRow(row, columns))
	}
	if err := rows.Err(); err != nil {
		return nil, newFault(opQuery, statement, err)
	}
	return result, nil
}

// Exec implements Gateway.
func (db *DB) Exec(ctx context.Context, statement string, args ...any) (int64, error) {
	ctx, cancel := db.statementContext(ctx)
	defer cancel()
	defer db.trace(statement, time.Now())

	res, err := db.conn.ExecContext(ctx, db.conn.Rebind(statement), args...)
	if err != nil {
		return 0, newFault(opExec, statement, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, newFault(opExec, statement, err)
	}
	return affected, nil
}

// Insert implements Gateway. PostgreSQL has no LastInsertId, so the statement
// is extended with RETURNING id there.
func (db *DB) Insert(ctx context.Context, statement string, args ...any) (int64, error) {
	ctx, cancel := db.statementContext(ctx)
	defer cancel()
	defer db.trace(statement, time.Now())

	if db.driver == DriverPostgres {
		var id int64
		query := db.conn.Rebind(statement + " RETURNING id")
		if err := db.conn.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
			return 0, newFault(opInsert, statement, err)
		}
		return id, nil
	}

	res, err := db.conn.ExecContext(ctx, db.conn.Rebind(statement), args...)
	if err != nil {
		return 0, newFault(opInsert, statement, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, newFault(opInsert, statement, err)
	}
	return id, nil
}

func (db *DB) statementContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, db.queryTimeout)
}

func (db *DB) trace(statement string, start time.Time) {
	db.log.Debug("statement executed", "statement", statement, "duration", time.Since(start).String())
}
