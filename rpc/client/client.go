package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/proxima-be/pxbench/rpc/common"
	"github.com/proxima-be/pxbench/rpc/transport"
	"google.golang.org/grpc"
)

// ClientVersion is the version announced to the server. Major and minor must
// match the server version.
const ClientVersion = "0.2.0"

// ErrVersionMismatch is wrapped by construction errors caused by a malformed
// or incompatible version
var ErrVersionMismatch = errors.New("incompatible client and server version")

// drainInterval is how often Close checks for in-flight calls
const drainInterval = 5 * time.Millisecond

// --------------------------------------------------------------------------
// State
// --------------------------------------------------------------------------

// State is the lifecycle state of a SearchClient
type State int32

const (
	StateConstructed State = iota
	StateReady
	StateClosing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConstructed:
		return "CONSTRUCTED"
	case StateReady:
		return "READY"
	case StateClosing:
		return "CLOSING"
	case StateClosed:
		return "CLOSED"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// --------------------------------------------------------------------------
// Options
// --------------------------------------------------------------------------

type options struct {
	version     string
	dialOptions []grpc.DialOption
}

// Option configures a SearchClient
type Option func(*options)

// WithClientVersion replaces the compiled in ClientVersion for the handshake
func WithClientVersion(version string) Option {
	return func(o *options) { o.version = version }
}

// WithDialOptions passes extra options to the grpc dial, e.g. a context dialer
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(o *options) { o.dialOptions = append(o.dialOptions, opts...) }
}

func buildOptions(opts []Option) options {
	o := options{version: ClientVersion}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// --------------------------------------------------------------------------
// SearchClient
// --------------------------------------------------------------------------

// SearchClient owns one connection to the search service. It is safe for
// concurrent use, but the benchmark gives every worker its own client.
type SearchClient struct {
	param    common.ConnectParam
	conn     transport.Conn
	version  string
	state    atomic.Int32
	inflight atomic.Int64
}

// New connects to param.Address() and checks that the server version is
// compatible before returning
func New(ctx context.Context, param common.ConnectParam, opts ...Option) (*SearchClient, error) {
	o := buildOptions(opts)
	conn, err := transport.Dial(param, o.dialOptions...)
	if err != nil {
		return nil, err
	}
	return newClient(ctx, param, conn, o)
}

// NewWithConn builds a client on an existing connection. The client takes
// ownership of conn, it is closed when the handshake fails.
func NewWithConn(ctx context.Context, param common.ConnectParam, conn transport.Conn, opts ...Option) (*SearchClient, error) {
	return newClient(ctx, param, conn, buildOptions(opts))
}

func newClient(ctx context.Context, param common.ConnectParam, conn transport.Conn, o options) (*SearchClient, error) {
	c := &SearchClient{
		param:   param,
		conn:    conn,
		version: o.version,
	}

	if err := c.checkVersion(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}

	c.state.Store(int32(StateReady))
	return c, nil
}

// checkVersion compares major and minor of the client and server version
func (c *SearchClient) checkVersion(ctx context.Context) error {
	clientParts := strings.Split(c.version, ".")
	if len(clientParts) != 3 {
		return fmt.Errorf("%w: client version %q is invalid", ErrVersionMismatch, c.version)
	}

	resp := &common.GetVersionResponse{}
	if st := c.invoke(ctx, transport.MethodGetVersion, &common.GetVersionRequest{Client: "pxbench/" + c.version}, resp); !st.OK() {
		return fmt.Errorf("get server version failed: %s", st.Reason)
	}
	if !resp.OK() {
		return fmt.Errorf("get server version failed: %s", resp.Status.Reason)
	}

	serverParts := strings.Split(resp.Version, ".")
	if len(serverParts) < 3 {
		return fmt.Errorf("%w: server version %q is invalid", ErrVersionMismatch, resp.Version)
	}
	if clientParts[0] != serverParts[0] || clientParts[1] != serverParts[1] {
		return fmt.Errorf("%w: client %s, server %s", ErrVersionMismatch, c.version, resp.Version)
	}
	return nil
}

// State returns the current lifecycle state
func (c *SearchClient) State() State {
	return State(c.state.Load())
}

// Param returns the connection settings of the client
func (c *SearchClient) Param() common.ConnectParam {
	return c.param
}

// acquire registers an in-flight call. It fails when the client is not ready
// or the connection is in a failed or shut down state.
func (c *SearchClient) acquire() bool {
	c.inflight.Add(1)
	if c.State() != StateReady || !transport.Available(c.conn.GetState()) {
		c.inflight.Add(-1)
		return false
	}
	return true
}

func (c *SearchClient) release() {
	c.inflight.Add(-1)
}

// invoke issues one call bounded by the configured timeout
func (c *SearchClient) invoke(ctx context.Context, method string, req, resp any) common.Status {
	if c.param.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.param.Timeout)
		defer cancel()
	}
	return mapError(c.conn.Invoke(ctx, method, req, resp))
}

// --------------------------------------------------------------------------
// Operations
// --------------------------------------------------------------------------

// CreateCollection creates a collection from config
func (c *SearchClient) CreateCollection(ctx context.Context, config *common.CollectionConfig) (common.Status, error) {
	if !c.acquire() {
		return notConnected(), nil
	}
	defer c.release()

	if err := ValidateCollectionConfig(config); err != nil {
		return common.Status{}, err
	}
	return c.callStatus(ctx, transport.MethodCreateCollection, config)
}

// DropCollection drops the named collection
func (c *SearchClient) DropCollection(ctx context.Context, name string) (common.Status, error) {
	if !c.acquire() {
		return notConnected(), nil
	}
	defer c.release()

	return c.callStatus(ctx, transport.MethodDropCollection, &common.CollectionName{CollectionName: name})
}

// DescribeCollection returns the config and state of the named collection
func (c *SearchClient) DescribeCollection(ctx context.Context, name string) (*common.DescribeCollectionResponse, error) {
	if !c.acquire() {
		return &common.DescribeCollectionResponse{Status: notConnected()}, nil
	}
	defer c.release()

	resp := &common.DescribeCollectionResponse{}
	if st := c.invoke(ctx, transport.MethodDescribeCollection, &common.CollectionName{CollectionName: name}, resp); !st.OK() {
		return &common.DescribeCollectionResponse{Status: st}, nil
	}
	return resp, nil
}

// ListCollections lists all collections matching condition. A nil condition
// lists everything.
func (c *SearchClient) ListCollections(ctx context.Context, condition *common.ListCondition) (*common.ListCollectionsResponse, error) {
	if !c.acquire() {
		return &common.ListCollectionsResponse{Status: notConnected()}, nil
	}
	defer c.release()

	if condition == nil {
		condition = &common.ListCondition{}
	}
	resp := &common.ListCollectionsResponse{}
	if st := c.invoke(ctx, transport.MethodListCollections, condition, resp); !st.OK() {
		return &common.ListCollectionsResponse{Status: st}, nil
	}
	return resp, nil
}

// StatsCollection returns the segment statistics of the named collection
func (c *SearchClient) StatsCollection(ctx context.Context, name string) (*common.StatsCollectionResponse, error) {
	if !c.acquire() {
		return &common.StatsCollectionResponse{Status: notConnected()}, nil
	}
	defer c.release()

	resp := &common.StatsCollectionResponse{}
	if st := c.invoke(ctx, transport.MethodStatsCollection, &common.CollectionName{CollectionName: name}, resp); !st.OK() {
		return &common.StatsCollectionResponse{Status: st}, nil
	}
	return resp, nil
}

// Write applies the rows of req
func (c *SearchClient) Write(ctx context.Context, req *common.WriteRequest) (common.Status, error) {
	if !c.acquire() {
		return notConnected(), nil
	}
	defer c.release()

	if err := ValidateWriteRequest(req); err != nil {
		return common.Status{}, err
	}
	return c.callStatus(ctx, transport.MethodWrite, req)
}

// Query runs a knn query
func (c *SearchClient) Query(ctx context.Context, req *common.QueryRequest) (*common.QueryResponse, error) {
	if !c.acquire() {
		return &common.QueryResponse{Status: notConnected()}, nil
	}
	defer c.release()

	if err := ValidateQueryRequest(req); err != nil {
		return nil, err
	}
	resp := &common.QueryResponse{}
	if st := c.invoke(ctx, transport.MethodQuery, req, resp); !st.OK() {
		return &common.QueryResponse{Status: st}, nil
	}
	return resp, nil
}

// GetDocumentByKey looks up a document by primary key. A missing document is
// an OK response with a nil Document.
func (c *SearchClient) GetDocumentByKey(ctx context.Context, req *common.GetDocumentRequest) (*common.GetDocumentResponse, error) {
	if !c.acquire() {
		return &common.GetDocumentResponse{Status: notConnected()}, nil
	}
	defer c.release()

	if err := ValidateGetDocumentRequest(req); err != nil {
		return nil, err
	}
	resp := &common.GetDocumentResponse{}
	if st := c.invoke(ctx, transport.MethodGetDocumentByKey, req, resp); !st.OK() {
		return &common.GetDocumentResponse{Status: st}, nil
	}
	return resp, nil
}

// GetVersion returns the server version
func (c *SearchClient) GetVersion(ctx context.Context) (*common.GetVersionResponse, error) {
	if !c.acquire() {
		return &common.GetVersionResponse{Status: notConnected()}, nil
	}
	defer c.release()

	resp := &common.GetVersionResponse{}
	if st := c.invoke(ctx, transport.MethodGetVersion, &common.GetVersionRequest{Client: "pxbench/" + c.version}, resp); !st.OK() {
		return &common.GetVersionResponse{Status: st}, nil
	}
	return resp, nil
}

// callStatus invokes a method whose response is a bare Status
func (c *SearchClient) callStatus(ctx context.Context, method string, req any) (common.Status, error) {
	var resp common.Status
	if st := c.invoke(ctx, method, req, &resp); !st.OK() {
		return st, nil
	}
	return resp, nil
}

// --------------------------------------------------------------------------
// Shutdown
// --------------------------------------------------------------------------

// Close stops accepting calls, waits up to maxWait for in-flight calls and
// then closes the connection. Calls still running at that point are
// cancelled. When ctx ends while waiting the connection is still closed and
// ctx.Err() is returned. Closing a client twice is a no-op.
func (c *SearchClient) Close(ctx context.Context, maxWait time.Duration) error {
	if !c.state.CompareAndSwap(int32(StateReady), int32(StateClosing)) {
		return nil
	}

	err := c.drain(ctx, maxWait)
	if n := c.inflight.Load(); n > 0 && err == nil {
		Logger.Warningf("Closing connection to %s with %d calls in flight", c.param.Address(), n)
	}
	if cerr := c.conn.Close(); cerr != nil {
		Logger.Warningf("Failed to close connection to %s: %v", c.param.Address(), cerr)
	}

	c.state.Store(int32(StateClosed))
	return err
}

// drain waits until no call is in flight, maxWait elapsed or ctx is done
func (c *SearchClient) drain(ctx context.Context, maxWait time.Duration) error {
	if c.inflight.Load() == 0 {
		return nil
	}

	deadline := time.NewTimer(maxWait)
	defer deadline.Stop()
	ticker := time.NewTicker(drainInterval)
	defer ticker.Stop()

	for c.inflight.Load() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return nil
		case <-ticker.C:
		}
	}
	return nil
}
