// Package store is the persistence gateway. It owns the single long-lived
// database handle opened at startup and exposes three primitives: Query for
// row sets, Exec for affected-row counts and Insert for generated
// identifiers. Statements are written with '?' placeholders and rebound for
// the configured driver (mysql, pgx or sqlite3); arguments are always bound,
// never interpolated.
//
// Every error returned by the gateway is a *Fault carrying the operation,
// the statement and a stack trace captured at the failure site.
package store
