package store

import (
	// Registered database/sql drivers.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// Supported driver names as registered with database/sql.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite3"
)

// SupportedDrivers lists the driver names accepted by Open.
func SupportedDrivers() []string {
	return []string{DriverMySQL, DriverPostgres, DriverSQLite}
}

// IsSupportedDriver reports whether name is one of SupportedDrivers.
func IsSupportedDriver(name string) bool {
	for _, d := range SupportedDrivers() {
		if d == name {
			return true
		}
	}
	return false
}
