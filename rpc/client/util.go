package client

import (
	"context"
	"errors"

	"github.com/lni/dragonboat/v4/logger"
	"github.com/proxima-be/pxbench/rpc/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	Logger = logger.GetLogger("rpc")
)

// okStatus is the status of a call that reached the server and returned
var okStatus = common.NewStatus(common.Success)

// notConnected is returned without sending anything when the client or its
// connection is unusable
func notConnected() common.Status {
	return common.NewStatus(common.ClientNotConnected)
}

// mapError converts a failed invocation into a client side status.
// Deadlines map to RpcTimeout, everything else to RpcError. The reason is the
// grpc status text.
func mapError(err error) common.Status {
	if err == nil {
		return okStatus
	}

	st, _ := status.FromError(err)
	if st.Code() == codes.DeadlineExceeded || errors.Is(err, context.DeadlineExceeded) {
		return common.NewStatusWithReason(common.RpcTimeout, st.String())
	}
	return common.NewStatusWithReason(common.RpcError, st.String())
}
