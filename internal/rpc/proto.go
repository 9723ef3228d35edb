package rpc

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Proto encoding helpers (manual, matches generated output for the fixed
// field numbers in types.go).

func appendProtoVarint(out []byte, fieldNum uint32, val uint64) []byte {
	out = appendVarint(out, uint64(fieldNum<<3|0)) // wire type 0
	return appendVarint(out, val)
}

func appendProtoDouble(out []byte, fieldNum uint32, val float64) []byte {
	out = appendVarint(out, uint64(fieldNum<<3|1)) // wire type 1 (fixed64)
	return binary.LittleEndian.AppendUint64(out, math.Float64bits(val))
}

func appendProtoString(out []byte, fieldNum uint32, s string) []byte {
	out = appendVarint(out, uint64(fieldNum<<3|2)) // wire type 2
	out = appendVarint(out, uint64(len(s)))
	return append(out, s...)
}

func appendProtoBytes(out []byte, fieldNum uint32, b []byte) []byte {
	out = appendVarint(out, uint64(fieldNum<<3|2)) // wire type 2
	out = appendVarint(out, uint64(len(b)))
	return append(out, b...)
}

func appendVarint(out []byte, v uint64) []byte {
	for v >= 0x80 {
		out = append(out, byte(v)|0x80)
		v >>= 7
	}
	return append(out, byte(v))
}

func consumeVarint(data []byte) (uint64, int) {
	var result uint64
	for i, b := range data {
		result |= uint64(b&0x7F) << (7 * uint(i))
		if b&0x80 == 0 {
			return result, i + 1
		}
		if i >= 9 {
			return 0, 0
		}
	}
	return 0, 0
}

// field is one decoded proto field. Exactly one of varint, fixed64, or
// bytes carries the value, per wireType.
type field struct {
	num     uint64
	varint  uint64
	fixed64 uint64
	bytes   []byte
}

// walkFields decodes the proto fields of data in order, invoking fn per
// field. Unknown field numbers are skipped by the callers; unknown wire
// types fail the whole message.
func walkFields(data []byte, fn func(f field) error) error {
	pos := 0
	for pos < len(data) {
		tag, n := consumeVarint(data[pos:])
		if n == 0 {
			return fmt.Errorf("truncated tag at offset %d", pos)
		}
		pos += n

		f := field{num: tag >> 3}
		switch tag & 0x7 {
		case 0: // varint
			val, n2 := consumeVarint(data[pos:])
			if n2 == 0 {
				return fmt.Errorf("truncated varint field %d", f.num)
			}
			f.varint = val
			pos += n2
		case 1: // fixed64
			if pos+8 > len(data) {
				return fmt.Errorf("truncated fixed64 field %d", f.num)
			}
			f.fixed64 = binary.LittleEndian.Uint64(data[pos:])
			pos += 8
		case 2: // length-delimited
			l, n2 := consumeVarint(data[pos:])
			if n2 == 0 {
				return fmt.Errorf("truncated length of field %d", f.num)
			}
			pos += n2
			if pos+int(l) > len(data) {
				return fmt.Errorf("truncated bytes of field %d", f.num)
			}
			f.bytes = data[pos : pos+int(l)]
			pos += int(l)
		default:
			return fmt.Errorf("unsupported wire type %d for field %d", tag&0x7, f.num)
		}

		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

func encodeLocationRecord(rec *LocationRecord) []byte {
	var out []byte
	if rec.Timestamp != 0 {
		out = appendProtoVarint(out, 1, uint64(rec.Timestamp))
	}
	if rec.Latitude != 0 {
		out = appendProtoDouble(out, 2, rec.Latitude)
	}
	if rec.Longitude != 0 {
		out = appendProtoDouble(out, 3, rec.Longitude)
	}
	if rec.Source != "" {
		out = appendProtoString(out, 4, rec.Source)
	}
	return out
}

func decodeLocationRecordInto(data []byte, rec *LocationRecord) error {
	*rec = LocationRecord{}
	return walkFields(data, func(f field) error {
		switch f.num {
		case 1:
			rec.Timestamp = int64(f.varint)
		case 2:
			rec.Latitude = math.Float64frombits(f.fixed64)
		case 3:
			rec.Longitude = math.Float64frombits(f.fixed64)
		case 4:
			rec.Source = string(f.bytes)
		}
		return nil
	})
}

func encodeHistoryRequest(req *HistoryRequest) []byte {
	var out []byte
	if req.StartTime != 0 {
		out = appendProtoVarint(out, 1, uint64(req.StartTime))
	}
	if req.StopTime != 0 {
		out = appendProtoVarint(out, 2, uint64(req.StopTime))
	}
	return out
}

func decodeHistoryRequestInto(data []byte, req *HistoryRequest) error {
	*req = HistoryRequest{}
	return walkFields(data, func(f field) error {
		switch f.num {
		case 1:
			req.StartTime = int64(f.varint)
		case 2:
			req.StopTime = int64(f.varint)
		}
		return nil
	})
}

func encodeHistoryResponse(resp *HistoryResponse) []byte {
	var out []byte
	for i := range resp.Records {
		out = appendProtoBytes(out, 1, encodeLocationRecord(&resp.Records[i]))
	}
	return out
}

func decodeHistoryResponseInto(data []byte, resp *HistoryResponse) error {
	*resp = HistoryResponse{}
	return walkFields(data, func(f field) error {
		if f.num != 1 {
			return nil
		}
		var rec LocationRecord
		if err := decodeLocationRecordInto(f.bytes, &rec); err != nil {
			return err
		}
		resp.Records = append(resp.Records, rec)
		return nil
	})
}

func encodeClosestRequest(req *ClosestRequest) []byte {
	var out []byte
	if req.Timestamp != 0 {
		out = appendProtoVarint(out, 1, uint64(req.Timestamp))
	}
	return out
}

func decodeClosestRequestInto(data []byte, req *ClosestRequest) error {
	*req = ClosestRequest{}
	return walkFields(data, func(f field) error {
		if f.num == 1 {
			req.Timestamp = int64(f.varint)
		}
		return nil
	})
}
