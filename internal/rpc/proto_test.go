package rpc

import (
	"reflect"
	"testing"
)

func TestLocationRecordRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		rec  LocationRecord
	}{
		{
			name: "full record",
			rec:  LocationRecord{Timestamp: 1700000000, Latitude: 48.1351, Longitude: -11.582, Source: "open-notify"},
		},
		{
			name: "zero value",
			rec:  LocationRecord{},
		},
		{
			name: "negative coordinates",
			rec:  LocationRecord{Timestamp: 1, Latitude: -89.999, Longitude: -179.999, Source: "s"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := encodeLocationRecord(&tt.rec)

			var got LocationRecord
			if err := decodeLocationRecordInto(data, &got); err != nil {
				t.Fatalf("decode error = %v", err)
			}
			if got != tt.rec {
				t.Errorf("round trip = %+v, want %+v", got, tt.rec)
			}
		})
	}
}

func TestHistoryResponseRoundTrip(t *testing.T) {
	resp := HistoryResponse{
		Records: []LocationRecord{
			{Timestamp: 100, Latitude: 1.5, Longitude: 2.5, Source: "open-notify"},
			{Timestamp: 160, Latitude: -3.25, Longitude: 4, Source: "open-notify"},
		},
	}

	data := encodeHistoryResponse(&resp)

	var got HistoryResponse
	if err := decodeHistoryResponseInto(data, &got); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if !reflect.DeepEqual(got, resp) {
		t.Errorf("round trip = %+v, want %+v", got, resp)
	}
}

func TestHistoryResponseEmpty(t *testing.T) {
	data := encodeHistoryResponse(&HistoryResponse{})
	if len(data) != 0 {
		t.Errorf("empty response encodes to %d bytes, want 0", len(data))
	}

	var got HistoryResponse
	if err := decodeHistoryResponseInto(data, &got); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if len(got.Records) != 0 {
		t.Errorf("decoded %d records, want 0", len(got.Records))
	}
}

func TestDecodeTruncated(t *testing.T) {
	rec := LocationRecord{Timestamp: 1700000000, Latitude: 48.1, Longitude: 11.6, Source: "open-notify"}
	data := encodeLocationRecord(&rec)

	var got LocationRecord
	if err := decodeLocationRecordInto(data[:len(data)-3], &got); err == nil {
		t.Error("decode of truncated message succeeded, want error")
	}
}

func TestDecodeSkipsUnknownFields(t *testing.T) {
	data := encodeLocationRecord(&LocationRecord{Timestamp: 42, Source: "open-notify"})
	// Unknown varint field 9, as a newer peer might send.
	data = appendProtoVarint(data, 9, 7)

	var got LocationRecord
	if err := decodeLocationRecordInto(data, &got); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if got.Timestamp != 42 || got.Source != "open-notify" {
		t.Errorf("decoded = %+v, want known fields preserved", got)
	}
}

func TestCodecMarshalUnmarshal(t *testing.T) {
	codec := Codec{}

	req := &HistoryRequest{StartTime: 100, StopTime: 300}
	data, err := codec.Marshal(req)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var got HistoryRequest
	if err := codec.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got != *req {
		t.Errorf("round trip = %+v, want %+v", got, *req)
	}

	if _, err := codec.Marshal("not a message"); err == nil {
		t.Error("Marshal() of unsupported type succeeded, want error")
	}
	if codec.Name() != "proto" {
		t.Errorf("Name() = %q, want proto", codec.Name())
	}
}
