// Package store implements the position store: an append/overwrite-only,
// time-indexed set of position records.
//
// Two backends exist: a Postgres/TimescaleDB implementation for
// deployments and an in-memory implementation for local development and
// tests. Both guarantee exactly one record per timestamp (a re-ingested
// reading overwrites) and ascending-timestamp range queries.
package store
