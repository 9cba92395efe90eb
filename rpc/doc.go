// Package rpc contains everything that crosses the wire between a pxbench
// client and a search engine speaking the proxima search service protocol.
//
// The package is organized into several subpackages:
//
//   - common: Messages of the search service, status codes, connection and
//     server configuration, and the logger factory.
//
//   - serializer: Message codecs (binary protobuf wire format, JSON, GOB)
//     registered as grpc codecs.
//
//   - transport: Builds the grpc connection from a ConnectParam and names
//     the service methods.
//
//   - client: The search client with its version handshake, request
//     validation and graceful close, plus a fixed size connection pool.
//
//   - server: An in-memory implementation of the service used as a local
//     target for the benchmark and in tests.
package rpc
