package serializer

import (
	"fmt"
	"google.golang.org/grpc/encoding"
)

// codecPrefix namespaces the codecs in grpc's global registry
const codecPrefix = "pxbench-"

func init() {
	for _, s := range []IRPCSerializer{NewJSONSerializer(), NewGOBSerializer(), NewBinarySerializer()} {
		encoding.RegisterCodec(NewCodec(s))
	}
}

// NewCodec adapts a serializer to grpc's encoding.Codec
func NewCodec(s IRPCSerializer) encoding.Codec {
	return &grpcCodec{serializer: s}
}

// grpcCodec implements encoding.Codec
type grpcCodec struct {
	serializer IRPCSerializer
}

func (c *grpcCodec) Marshal(v any) ([]byte, error) {
	return c.serializer.Serialize(v)
}

func (c *grpcCodec) Unmarshal(data []byte, v any) error {
	return c.serializer.Deserialize(data, v)
}

func (c *grpcCodec) Name() string {
	return ContentSubtype(c.serializer.Name())
}

// --------------------------------------------------------------------------
// Lookup
// --------------------------------------------------------------------------

// ContentSubtype returns the grpc content-subtype of a serializer name.
// Clients pass it to grpc.CallContentSubtype, servers resolve it from the
// registry automatically.
func ContentSubtype(name string) string {
	return codecPrefix + name
}

// GetSerializer returns the serializer with the given name
func GetSerializer(name string) (IRPCSerializer, error) {
	switch name {
	case "json":
		return NewJSONSerializer(), nil
	case "gob":
		return NewGOBSerializer(), nil
	case "binary":
		return NewBinarySerializer(), nil
	default:
		return nil, fmt.Errorf("invalid serializer %s", name)
	}
}
