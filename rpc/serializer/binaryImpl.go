package serializer

import (
	"fmt"
	"github.com/proxima-be/pxbench/rpc/common"
)

// NewBinarySerializer creates a new serializer using the protobuf wire format.
// It is the most compact format and the only one other protobuf clients of
// the search service can read.
func NewBinarySerializer() IRPCSerializer {
	return &binarySerializerImpl{}
}

// binarySerializerImpl implements IRPCSerializer on top of common.WireMessage
type binarySerializerImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (b binarySerializerImpl) Name() string {
	return "binary"
}

func (b binarySerializerImpl) Serialize(msg any) ([]byte, error) {
	m, ok := msg.(common.WireMessage)
	if !ok {
		return nil, fmt.Errorf("binary serializer: %T is not a wire message", msg)
	}
	return m.MarshalWire(), nil
}

func (b binarySerializerImpl) Deserialize(data []byte, msg any) error {
	m, ok := msg.(common.WireMessage)
	if !ok {
		return fmt.Errorf("binary serializer: %T is not a wire message", msg)
	}
	if err := m.UnmarshalWire(data); err != nil {
		return fmt.Errorf("binary serializer: %w", err)
	}
	return nil
}
