package server

import (
	"context"

	"github.com/proxima-be/pxbench/rpc/common"
)

// IProximaService is the server side of the search service. Remote outcomes
// are carried in the returned status, a non-nil error aborts the call with a
// gRPC status instead.
type IProximaService interface {
	CreateCollection(ctx context.Context, req *common.CollectionConfig) (*common.Status, error)
	DropCollection(ctx context.Context, req *common.CollectionName) (*common.Status, error)
	DescribeCollection(ctx context.Context, req *common.CollectionName) (*common.DescribeCollectionResponse, error)
	ListCollections(ctx context.Context, req *common.ListCondition) (*common.ListCollectionsResponse, error)
	StatsCollection(ctx context.Context, req *common.CollectionName) (*common.StatsCollectionResponse, error)
	Write(ctx context.Context, req *common.WriteRequest) (*common.Status, error)
	Query(ctx context.Context, req *common.QueryRequest) (*common.QueryResponse, error)
	GetDocumentByKey(ctx context.Context, req *common.GetDocumentRequest) (*common.GetDocumentResponse, error)
	GetVersion(ctx context.Context, req *common.GetVersionRequest) (*common.GetVersionResponse, error)
}
