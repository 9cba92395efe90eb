// Package transport opens the gRPC connections used by the search client.
//
// The package focuses on:
//   - Translating a common.ConnectParam into grpc dial options (codec,
//     message size limits, idle timeout, keep-alive)
//   - Naming the methods of the search service
//   - Defining the narrow Conn interface the client is written against
//
// Key Components:
//
//   - Dial: creates a lazy *grpc.ClientConn. Nothing is sent until the first
//     call, which is the version handshake of the client.
//
//   - Conn: Invoke, GetState and Close. *grpc.ClientConn satisfies it.
//
//   - Available: the connectivity states in which calls are attempted
//     (Idle, Connecting, Ready).
//
// The codec is not negotiated. Every call carries the content-subtype of the
// configured serializer and the server answers with the same codec.
package transport
