package common

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// WireMessage is implemented by every request and response. The encoding is
// the protobuf wire format, so any protobuf runtime with matching field
// numbers can read it.
type WireMessage interface {
	MarshalWire() []byte
	UnmarshalWire(b []byte) error
}

// --------------------------------------------------------------------------
// Encoding
// --------------------------------------------------------------------------

// wireWriter appends fields to a buffer. Scalar zero values are omitted
// (proto3 semantics), repeated elements are always written.
type wireWriter struct {
	b []byte
}

func (w *wireWriter) varint(num protowire.Number, v uint64) {
	if v == 0 {
		return
	}
	w.b = protowire.AppendTag(w.b, num, protowire.VarintType)
	w.b = protowire.AppendVarint(w.b, v)
}

func (w *wireWriter) int64(num protowire.Number, v int64) { w.varint(num, uint64(v)) }

func (w *wireWriter) int32(num protowire.Number, v int32) { w.varint(num, uint64(int64(v))) }

func (w *wireWriter) uint32(num protowire.Number, v uint32) { w.varint(num, uint64(v)) }

func (w *wireWriter) bool(num protowire.Number, v bool) {
	if v {
		w.varint(num, 1)
	}
}

func (w *wireWriter) float32(num protowire.Number, v float32) {
	bits := math.Float32bits(v)
	if bits == 0 {
		return
	}
	w.b = protowire.AppendTag(w.b, num, protowire.Fixed32Type)
	w.b = protowire.AppendFixed32(w.b, bits)
}

func (w *wireWriter) float64(num protowire.Number, v float64) {
	bits := math.Float64bits(v)
	if bits == 0 {
		return
	}
	w.b = protowire.AppendTag(w.b, num, protowire.Fixed64Type)
	w.b = protowire.AppendFixed64(w.b, bits)
}

func (w *wireWriter) string(num protowire.Number, v string) {
	if v == "" {
		return
	}
	w.repeatedString(num, v)
}

func (w *wireWriter) repeatedString(num protowire.Number, v string) {
	w.b = protowire.AppendTag(w.b, num, protowire.BytesType)
	w.b = protowire.AppendString(w.b, v)
}

func (w *wireWriter) bytes(num protowire.Number, v []byte) {
	if len(v) == 0 {
		return
	}
	w.b = protowire.AppendTag(w.b, num, protowire.BytesType)
	w.b = protowire.AppendBytes(w.b, v)
}

// force* variants write the field even for zero values (oneof members)

func (w *wireWriter) forceVarint(num protowire.Number, v uint64) {
	w.b = protowire.AppendTag(w.b, num, protowire.VarintType)
	w.b = protowire.AppendVarint(w.b, v)
}

func (w *wireWriter) forceFixed32(num protowire.Number, v uint32) {
	w.b = protowire.AppendTag(w.b, num, protowire.Fixed32Type)
	w.b = protowire.AppendFixed32(w.b, v)
}

func (w *wireWriter) forceFixed64(num protowire.Number, v uint64) {
	w.b = protowire.AppendTag(w.b, num, protowire.Fixed64Type)
	w.b = protowire.AppendFixed64(w.b, v)
}

func (w *wireWriter) forceBytes(num protowire.Number, v []byte) {
	w.b = protowire.AppendTag(w.b, num, protowire.BytesType)
	w.b = protowire.AppendBytes(w.b, v)
}

// message writes an embedded message. Callers skip absent (nil) messages.
func (w *wireWriter) message(num protowire.Number, m WireMessage) {
	w.b = protowire.AppendTag(w.b, num, protowire.BytesType)
	w.b = protowire.AppendBytes(w.b, m.MarshalWire())
}

// status writes an embedded status unless it is the zero value
func (w *wireWriter) status(num protowire.Number, s Status) {
	if s == (Status{}) {
		return
	}
	w.message(num, &s)
}

// --------------------------------------------------------------------------
// Decoding
// --------------------------------------------------------------------------

// wireField is a single decoded field. Numeric payloads are stored in raw,
// length delimited payloads in data (aliasing the input buffer).
type wireField struct {
	num  protowire.Number
	typ  protowire.Type
	raw  uint64
	data []byte
}

func (f wireField) int64() int64     { return int64(f.raw) }
func (f wireField) int32() int32     { return int32(f.raw) }
func (f wireField) uint64() uint64   { return f.raw }
func (f wireField) uint32() uint32   { return uint32(f.raw) }
func (f wireField) bool() bool       { return f.raw != 0 }
func (f wireField) float32() float32 { return math.Float32frombits(uint32(f.raw)) }
func (f wireField) float64() float64 { return math.Float64frombits(f.raw) }
func (f wireField) string() string   { return string(f.data) }

// bytes returns a copy of the payload so decoded messages never alias the
// transport buffer
func (f wireField) bytes() []byte {
	out := make([]byte, len(f.data))
	copy(out, f.data)
	return out
}

// consumeFields walks b and calls fn for every field. Unknown wire types are
// skipped.
func consumeFields(b []byte, fn func(f wireField) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("invalid tag: %w", protowire.ParseError(n))
		}
		b = b[n:]

		f := wireField{num: num, typ: typ}
		switch typ {
		case protowire.VarintType:
			f.raw, n = protowire.ConsumeVarint(b)
		case protowire.Fixed32Type:
			var v uint32
			v, n = protowire.ConsumeFixed32(b)
			f.raw = uint64(v)
		case protowire.Fixed64Type:
			f.raw, n = protowire.ConsumeFixed64(b)
		case protowire.BytesType:
			f.data, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return fmt.Errorf("invalid field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
			continue
		}
		if n < 0 {
			return fmt.Errorf("invalid field %d: %w", num, protowire.ParseError(n))
		}
		b = b[n:]

		if err := fn(f); err != nil {
			return fmt.Errorf("field %d: %w", num, err)
		}
	}
	return nil
}
