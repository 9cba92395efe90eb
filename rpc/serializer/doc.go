// Package serializer provides the message codecs used on the gRPC channel
// between pxbench clients and the search service. It defines a common
// interface, three implementations, and an adapter that registers each of
// them as a grpc encoding.Codec.
//
// The package focuses on:
//   - Providing a consistent interface for different serialization formats
//   - Offering multiple implementations with different performance characteristics
//   - Plugging those formats into grpc without generated code
//
// Key Components:
//
//   - IRPCSerializer: Core interface that all serializer implementations must satisfy.
//
//   - binarySerializerImpl: The protobuf wire format, produced by the
//     MarshalWire/UnmarshalWire methods of the common messages. Compact and
//     readable by any protobuf client that knows the field numbers.
//
//   - gobSerializerImpl: Implementation using Go's built-in gob encoding, offering
//     good compatibility with Go's type system but with larger serialized sizes.
//
//   - jsonSerializerImpl: Implementation using JSON encoding, useful for debugging
//     since payloads can be read in a packet capture.
//
//   - NewCodec / ContentSubtype: every serializer is registered at init under
//     "pxbench-<name>". A client selects one per call with
//     grpc.CallContentSubtype; the server picks the matching codec from the
//     request's content type.
//
// Thread Safety:
//
//	All serializer implementations are stateless and safe for concurrent use
//	across multiple goroutines without additional synchronization.
//
// Usage:
//
//	s := serializer.NewBinarySerializer()
//	data, err := s.Serialize(&common.Status{Code: common.RpcError})
//	// ... send data ...
//	var status common.Status
//	err = s.Deserialize(data, &status)
package serializer
