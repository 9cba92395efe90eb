// Package common provides the data structures shared by the client, the
// server and the benchmark harness of pxbench.
//
// The package focuses on:
//   - The request and response messages of the search service
//   - Status codes and the client side error taxonomy
//   - Configuration structures for client connections and the server
//   - Custom logging implementation integrated with Dragonboat's logger facade
//
// Key Components:
//
//   - Messages: CollectionConfig, WriteRequest, QueryRequest, GetDocumentRequest
//     and their responses. Every message implements WireMessage and encodes
//     itself in the protobuf wire format, so the binary codec needs no
//     generated code. Constructor functions (NewKnnQuery, NewWriteRequest, ...)
//     fill in the defaults a caller would otherwise forget.
//
//   - Status / ErrorCode: the outcome of a remote call. Remote failures are
//     values, never Go errors. The 10000 range is reserved for failures the
//     client detects itself (timeout, transport error, not connected).
//
//   - ValidationError: returned when a request breaks the client contract,
//     before anything is put on the wire.
//
//   - ConnectParam: immutable connection settings (address, per call timeout,
//     idle and keep-alive tuning, codec).
//
//   - Logger: custom logging implementation that plugs into Dragonboat's
//     logger factory and gives every package the same output format.
package common
