package transport

import (
	"fmt"
	"math"

	"github.com/lni/dragonboat/v4/logger"
	"github.com/proxima-be/pxbench/rpc/common"
	"github.com/proxima-be/pxbench/rpc/serializer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
)

var Logger = logger.GetLogger("transport")

// Target returns the grpc target of a connect param. The passthrough scheme
// hands the address to the dialer unchanged, the host is resolved on every
// (re)connect.
func Target(param common.ConnectParam) string {
	return "passthrough:///" + param.Address()
}

// Dial creates a client connection for the given param. The connection is
// lazy: it starts in connectivity.Idle and connects on the first call.
// Extra options are appended after the ones derived from param (tests use
// this to install a bufconn dialer).
func Dial(param common.ConnectParam, extra ...grpc.DialOption) (*grpc.ClientConn, error) {
	opts, err := DialOptions(param)
	if err != nil {
		return nil, err
	}
	opts = append(opts, extra...)

	conn, err := grpc.NewClient(Target(param), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection to %s: %w", param.Address(), err)
	}

	Logger.Debugf("Created connection to %s using %s serializer", param.Address(), param.Serializer)
	return conn, nil
}

// DialOptions translates a connect param into grpc dial options
func DialOptions(param common.ConnectParam) ([]grpc.DialOption, error) {
	name := param.Serializer
	if name == "" {
		name = common.DefaultSerializer
	}
	if _, err := serializer.GetSerializer(name); err != nil {
		return nil, err
	}

	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(
			grpc.CallContentSubtype(serializer.ContentSubtype(name)),
			grpc.MaxCallRecvMsgSize(math.MaxInt32),
			grpc.MaxCallSendMsgSize(math.MaxInt32),
		),
	}

	if param.IdleTimeout > 0 {
		opts = append(opts, grpc.WithIdleTimeout(param.IdleTimeout))
	}

	// keep-alive pings are off unless a ping interval is configured
	if param.KeepAliveTime > 0 {
		opts = append(opts, grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                param.KeepAliveTime,
			Timeout:             param.KeepAliveTimeout,
			PermitWithoutStream: true,
		}))
	}

	return opts, nil
}
