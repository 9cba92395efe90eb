package server

import (
	"context"
	"strings"

	"github.com/proxima-be/pxbench/rpc/transport"
	"google.golang.org/grpc"
)

// ServiceDesc describes the search service for grpc.Server.RegisterService.
// Messages are decoded by the codec named in the request content-subtype.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: transport.ServiceName,
	HandlerType: (*IProximaService)(nil),
	Methods: []grpc.MethodDesc{
		unary(transport.MethodCreateCollection, IProximaService.CreateCollection),
		unary(transport.MethodDropCollection, IProximaService.DropCollection),
		unary(transport.MethodDescribeCollection, IProximaService.DescribeCollection),
		unary(transport.MethodListCollections, IProximaService.ListCollections),
		unary(transport.MethodStatsCollection, IProximaService.StatsCollection),
		unary(transport.MethodWrite, IProximaService.Write),
		unary(transport.MethodQuery, IProximaService.Query),
		unary(transport.MethodGetDocumentByKey, IProximaService.GetDocumentByKey),
		unary(transport.MethodGetVersion, IProximaService.GetVersion),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "proxima_be.proto",
}

// unary builds the method descriptor of fullMethod, dispatching to call
func unary[Req any, Resp any](fullMethod string, call func(IProximaService, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: fullMethod[strings.LastIndex(fullMethod, "/")+1:],
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(IProximaService), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(IProximaService), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
