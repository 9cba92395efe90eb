// Package server implements an in-memory search service that speaks the same
// gRPC protocol as the real engine. It exists so the client and the benchmark
// harness can be exercised end to end without an engine deployment, both in
// tests (over a bufconn listener) and through "pxbench serve".
//
// The package focuses on:
//   - A hand-written grpc.ServiceDesc for proxima.be.proto.ProximaService
//   - Collections with per-collection locking on a lock-free collection map
//   - Exact (brute-force) KNN search, so recall measured against it is 1.0
//
// Key Components:
//
//   - IProximaService: the nine unary methods of the service.
//
//   - ServiceDesc: routes calls to an IProximaService. Requests are decoded
//     by whichever codec the client selected through the content-subtype.
//
//   - NewRPCServer: creates the gRPC server with keep-alive enforcement and
//     registers the in-memory implementation.
//
// Behaviour:
//
//   - Failures are statuses with the engine's negative codes, for example
//     -4000 (duplicate collection) or -4002 (collection not exist).
//   - Writes are all or nothing per request. Insert and update both upsert,
//     delete removes the key.
//   - Only VECTOR_FP32 columns are supported. Scores are squared Euclidean
//     distances, results are ordered best first with ties broken by key.
//   - A lookup of an unknown key succeeds with no document.
//
// Thread Safety:
//
//	All service methods are safe for concurrent use. Reads of a collection
//	share its lock, writes take it exclusively.
package server
