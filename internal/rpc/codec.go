package rpc

import "fmt"

// Codec marshals the PositionHistoryService messages for gRPC. It
// registers under the standard "proto" name so no content-subtype
// negotiation is needed; only the message types of this package are
// supported.
type Codec struct{}

// Name implements grpc encoding.Codec.
func (Codec) Name() string { return "proto" }

// Marshal implements grpc encoding.Codec.
func (Codec) Marshal(v any) ([]byte, error) {
	switch msg := v.(type) {
	case *HistoryRequest:
		return encodeHistoryRequest(msg), nil
	case *HistoryResponse:
		return encodeHistoryResponse(msg), nil
	case *ClosestRequest:
		return encodeClosestRequest(msg), nil
	case *LocationRecord:
		return encodeLocationRecord(msg), nil
	default:
		return nil, fmt.Errorf("rpc codec: cannot marshal %T", v)
	}
}

// Unmarshal implements grpc encoding.Codec.
func (Codec) Unmarshal(data []byte, v any) error {
	switch msg := v.(type) {
	case *HistoryRequest:
		return decodeHistoryRequestInto(data, msg)
	case *HistoryResponse:
		return decodeHistoryResponseInto(data, msg)
	case *ClosestRequest:
		return decodeClosestRequestInto(data, msg)
	case *LocationRecord:
		return decodeLocationRecordInto(data, msg)
	default:
		return fmt.Errorf("rpc codec: cannot unmarshal into %T", v)
	}
}
