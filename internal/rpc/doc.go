// Package rpc implements the PositionHistoryService gRPC surface:
// the server used by the provider binary and the client used by the
// REST webserver.
//
// The wire contract is phs.v1.PositionHistoryService with two unary
// methods:
//
//	GetLocationHistory(HistoryRequest) returns (HistoryResponse)
//	GetClosestEntryByTimestamp(ClosestRequest) returns (LocationRecord)
//
// Messages are encoded as protobuf by hand (matching fixed field
// numbers) instead of through generated stubs; the service descriptor
// and handler glue mirror what protoc-gen-go-grpc would emit.
package rpc
