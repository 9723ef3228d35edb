package rpc

import "github.com/tbeier/position-history/internal/model"

// LocationRecord mirrors phs.v1.LocationRecord.
type LocationRecord struct {
	Timestamp int64   // field 1, int64
	Latitude  float64 // field 2, double
	Longitude float64 // field 3, double
	Source    string  // field 4, string
}

// HistoryRequest mirrors phs.v1.HistoryRequest.
type HistoryRequest struct {
	StartTime int64 // field 1, int64
	StopTime  int64 // field 2, int64
}

// HistoryResponse mirrors phs.v1.HistoryResponse.
type HistoryResponse struct {
	Records []LocationRecord // field 1, repeated LocationRecord
}

// ClosestRequest mirrors phs.v1.ClosestRequest.
type ClosestRequest struct {
	Timestamp int64 // field 1, int64
}

// ToModel converts a wire record to the shared model type.
func (r LocationRecord) ToModel() model.PositionRecord {
	return model.PositionRecord{
		Timestamp: r.Timestamp,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Source:    r.Source,
	}
}

// RecordFromModel converts a model record to its wire form.
func RecordFromModel(m model.PositionRecord) LocationRecord {
	return LocationRecord{
		Timestamp: m.Timestamp,
		Latitude:  m.Latitude,
		Longitude: m.Longitude,
		Source:    m.Source,
	}
}
