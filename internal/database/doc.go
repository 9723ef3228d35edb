// Package database provides connection pool management for the
// time-series backend.
//
// The store runs against plain PostgreSQL or TimescaleDB; one row per
// position sample, keyed by the sample timestamp.
package database
