package serializer

// IRPCSerializer is the interface for all message serializers. Messages are
// pointers to the structs in the common package.
type IRPCSerializer interface {
	// Name returns the short name of the format (json, gob, binary)
	Name() string
	// Serialize serializes a message into a byte array
	// It returns the serialized byte array and an error if any
	Serialize(msg any) ([]byte, error)
	// Deserialize deserializes a byte array into a message
	// It takes a byte array and a pointer to a message as parameters
	// It returns an error if any
	Deserialize(b []byte, msg any) error
}
