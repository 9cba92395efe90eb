package server

import (
	"fmt"
	"math"
	"net"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/lni/dragonboat/v4/logger"
	"github.com/proxima-be/pxbench/rpc/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/keepalive"

	// registers the json, gob and binary codecs
	_ "github.com/proxima-be/pxbench/rpc/serializer"
)

var Logger = logger.GetLogger("server")

const (
	// DefaultVersion is reported by GetVersion when the config has none
	DefaultVersion = "0.2.0"
	// DefaultMinKeepAliveTime is the shortest client ping interval accepted
	DefaultMinKeepAliveTime = 10 * time.Second
)

// RPCServer serves an in-memory search service over gRPC
type RPCServer struct {
	config  common.ServerConfig
	grpc    *grpc.Server
	service *searchService
}

// NewRPCServer creates a new RPC server
//
// Usage:
//
//	s := server.NewRPCServer(common.ServerConfig{
//		Endpoint: "0.0.0.0:16000",
//		Version:  "0.2.0",
//	})
//
//	if err := s.Serve(); err != nil {
//		panic(err)
//	}
func NewRPCServer(config common.ServerConfig) *RPCServer {
	// https://github.com/golang/go/issues/17393
	if runtime.GOOS == "darwin" {
		signal.Ignore(syscall.Signal(0xd))
	}

	if config.Version == "" {
		config.Version = DefaultVersion
	}
	if config.MinKeepAliveTime <= 0 {
		config.MinKeepAliveTime = DefaultMinKeepAliveTime
	}

	g := grpc.NewServer(
		grpc.MaxRecvMsgSize(math.MaxInt32),
		grpc.MaxSendMsgSize(math.MaxInt32),
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             config.MinKeepAliveTime,
			PermitWithoutStream: true,
		}),
	)
	service := newSearchService(config.Version)
	g.RegisterService(&ServiceDesc, service)

	Logger.Infof("Created RPC Server")
	Logger.Infof(config.String())

	return &RPCServer{
		config:  config,
		grpc:    g,
		service: service,
	}
}

// Serve listens on the configured endpoint and blocks until the server stops
func (s *RPCServer) Serve() error {
	lis, err := net.Listen("tcp", s.config.Endpoint)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Endpoint, err)
	}
	return s.ServeListener(lis)
}

// ServeListener serves on an existing listener (e.g. a bufconn listener in tests)
func (s *RPCServer) ServeListener(lis net.Listener) error {
	Logger.Infof("Serving version %s on %s", s.config.Version, lis.Addr())
	return s.grpc.Serve(lis)
}

// Stop waits for pending calls and stops the server
func (s *RPCServer) Stop() {
	s.grpc.GracefulStop()
	Logger.Infof("Stopped RPC Server")
}

// Kill stops the server immediately, pending calls fail
func (s *RPCServer) Kill() {
	s.grpc.Stop()
}
