package corpus

import (
	"encoding/binary"
	"fmt"
	"math"
)

// EncodeFP32 packs v as little-endian IEEE-754 float32 values
func EncodeFP32(v []float32) []byte {
	return AppendFP32(make([]byte, 0, len(v)*4), v)
}

// AppendFP32 appends the packed form of v to dst
func AppendFP32(dst []byte, v []float32) []byte {
	for _, f := range v {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(f))
	}
	return dst
}

// DecodeFP32 unpacks little-endian float32 values. The conversion is bit
// exact, NaN payloads survive.
func DecodeFP32(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("fp32 vector has %d bytes, not a multiple of 4", len(b))
	}
	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out, nil
}
