package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *DB {
	t.Helper()

	db, err := Open(context.Background(), Config{Driver: DriverSQLite, DSN: ":memory:?_foreign_keys=on"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(context.Background(), `CREATE TABLE customers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT,
		phone TEXT,
		credit REAL
	)`)
	require.NoError(t, err)
	return db
}

func TestOpen(t *testing.T) {
	t.Run("unsupported driver", func(t *testing.T) {
		_, err := Open(context.Background(), Config{Driver: "oracle", DSN: "x"})
		require.Error(t, err)

		fault, ok := AsFault(err)
		require.True(t, ok)
		assert.True(t, fault.IsConnection())
	})

	t.Run("missing dsn", func(t *testing.T) {
		_, err := Open(context.Background(), Config{Driver: DriverSQLite})
		require.Error(t, err)
	})

	t.Run("sqlite in memory", func(t *testing.T) {
		db, err := Open(context.Background(), Config{Driver: DriverSQLite, DSN: ":memory:"})
		require.NoError(t, err)
		defer db.Close()

		assert.Equal(t, DriverSQLite, db.Driver())
		assert.NoError(t, db.PingContext(context.Background()))
	})
}

func TestDBInsertAndQuery(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()

	first, err := db.Insert(ctx, "INSERT INTO customers (name, email, phone, credit) VALUES (?, ?, ?, ?)", "Ada", "ada@x.com", "+1555", 12.5)
	require.NoError(t, err)
	second, err := db.Insert(ctx, "INSERT INTO customers (name, email, phone, credit) VALUES (?, ?, ?, ?)", "Grace", nil, nil, nil)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	rows, err := db.Query(ctx, "SELECT * FROM customers ORDER BY id")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, first, rows[0]["id"])
	assert.Equal(t, "Ada", rows[0]["name"])
	assert.Equal(t, 12.5, rows[0]["credit"])
	assert.Nil(t, rows[1]["email"])
}

func TestDBQueryEmptyTable(t *testing.T) {
	db := openSQLite(t)

	rows, err := db.Query(context.Background(), "SELECT * FROM customers")
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestDBExecReportsAffectedRows(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()

	id, err := db.Insert(ctx, "INSERT INTO customers (name) VALUES (?)", "Ada")
	require.NoError(t, err)

	affected, err := db.Exec(ctx, "UPDATE customers SET name = ? WHERE id = ?", "Ada", id)
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected, "rewriting identical values still matches the row")

	affected, err = db.Exec(ctx, "DELETE FROM customers WHERE id = ?", id+100)
	require.NoError(t, err)
	assert.EqualValues(t, 0, affected)
}

func TestDBFaults(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()

	t.Run("constraint violation", func(t *testing.T) {
		_, err := db.Insert(ctx, "INSERT INTO customers (name) VALUES (?)", nil)
		require.Error(t, err)

		fault, ok := AsFault(err)
		require.True(t, ok)
		assert.Equal(t, opInsert, fault.Op)
		assert.False(t, fault.IsConnection())
		assert.Contains(t, fault.Statement, "INSERT INTO customers")
	})

	t.Run("unknown table", func(t *testing.T) {
		_, err := db.Query(ctx, "SELECT * FROM nowhere")
		require.Error(t, err)

		var fault *Fault
		require.True(t, errors.As(err, &fault))
		assert.Equal(t, opQuery, fault.Op)
	})

	t.Run("stack is attached", func(t *testing.T) {
		_, err := db.Exec(ctx, "DELETE FROM nowhere")
		require.Error(t, err)
		assert.Contains(t, fmt.Sprintf("%+v", err), "store.(*DB).Exec")
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := db.Query(cancelled, "SELECT * FROM customers")
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestNormalizeValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		kind columnKind
		want any
	}{
		{"integer bytes", []byte("42"), kindInteger, int64(42)},
		{"large unsigned bytes", []byte("18446744073709551615"), kindInteger, uint64(18446744073709551615)},
		{"float bytes", []byte("0.95"), kindFloat, 0.95},
		{"decimal stays text", []byte("19.99"), kindText, "19.99"},
		{"unparseable integer falls back to text", []byte("n/a"), kindInteger, "n/a"},
		{"native value untouched", int64(7), kindText, int64(7)},
		{"nil untouched", nil, kindInteger, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeValue(tt.in, tt.kind))
		})
	}
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, kindInteger, kindOf("INT"))
	assert.Equal(t, kindInteger, kindOf("unsigned bigint"))
	assert.Equal(t, kindInteger, kindOf("INT8"))
	assert.Equal(t, kindFloat, kindOf("DOUBLE"))
	assert.Equal(t, kindFloat, kindOf("float8"))
	assert.Equal(t, kindText, kindOf("DECIMAL"))
	assert.Equal(t, kindText, kindOf("VARCHAR"))
	assert.Equal(t, kindText, kindOf("DATETIME"))
}
