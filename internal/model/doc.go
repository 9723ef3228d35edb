// Package model defines shared data types used across the Position History Service.
//
// Conventions:
//   - Timestamps: int64 seconds since Unix epoch (matches the upstream feed
//     and the store's primary key)
//   - Coordinates: float64 signed degrees
//   - Source: string tag naming the upstream feed a record came from
package model
