// Package servertest runs the in-memory search service on a bufconn listener
// for tests of the client and the benchmark harness.
package servertest

import (
	"context"
	"net"
	"testing"

	"github.com/proxima-be/pxbench/rpc/common"
	"github.com/proxima-be/pxbench/rpc/server"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

const bufSize = 1 << 20

// Harness is a running in-memory server
type Harness struct {
	Server   *server.RPCServer
	Listener *bufconn.Listener
}

// Start serves config on a fresh bufconn listener. The server is killed when
// the test finishes.
func Start(tb testing.TB, config common.ServerConfig) *Harness {
	tb.Helper()

	lis := bufconn.Listen(bufSize)
	s := server.NewRPCServer(config)
	go func() {
		_ = s.ServeListener(lis)
	}()

	tb.Cleanup(func() {
		s.Kill()
		_ = lis.Close()
	})

	return &Harness{Server: s, Listener: lis}
}

// DialOption routes every connection of a client to the listener
func (h *Harness) DialOption() grpc.DialOption {
	return grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return h.Listener.DialContext(ctx)
	})
}

// Param returns a connect param for the harness using the given serializer
func (h *Harness) Param(serializer string) common.ConnectParam {
	param := common.NewConnectParam("bufnet", common.DefaultPort)
	param.Serializer = serializer
	return param
}
