// Package search implements the expanding-window nearest-timestamp
// search over the position store's range-query primitive.
//
// Stored samples arrive roughly once per minute, so a 1-minute radius
// around the target usually finds a candidate on the first query. When
// data is sparse (an ingestion outage, a query far outside recorded
// history) the radius doubles per iteration up to a fixed ceiling,
// turning an unbounded table scan into a logarithmic number of
// bounded-size queries.
package search
