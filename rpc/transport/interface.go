package transport

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
)

// ServiceName is the fully qualified name of the search service
const ServiceName = "proxima.be.proto.ProximaService"

// Full method names of the search service
const (
	MethodCreateCollection   = "/" + ServiceName + "/create_collection"
	MethodDropCollection     = "/" + ServiceName + "/drop_collection"
	MethodDescribeCollection = "/" + ServiceName + "/describe_collection"
	MethodListCollections    = "/" + ServiceName + "/list_collections"
	MethodStatsCollection    = "/" + ServiceName + "/stats_collection"
	MethodWrite              = "/" + ServiceName + "/write"
	MethodQuery              = "/" + ServiceName + "/query"
	MethodGetDocumentByKey   = "/" + ServiceName + "/get_document_by_key"
	MethodGetVersion         = "/" + ServiceName + "/get_version"
)

// --------------------------------------------------------------------------
// Client Transport
// --------------------------------------------------------------------------

// Conn is the part of a *grpc.ClientConn the search client depends on.
// Tests substitute it to inject failures.
type Conn interface {
	// Invoke performs a unary call and waits for the reply
	Invoke(ctx context.Context, method string, args any, reply any, opts ...grpc.CallOption) error
	// GetState returns the current connectivity state
	GetState() connectivity.State
	// Close tears the connection down, pending calls fail
	Close() error
}

// Available reports whether calls may be issued in the given state. Idle and
// connecting connections are usable, grpc connects them on the first call.
func Available(state connectivity.State) bool {
	switch state {
	case connectivity.Idle, connectivity.Ready, connectivity.Connecting:
		return true
	default:
		return false
	}
}
