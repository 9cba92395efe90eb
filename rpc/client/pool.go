package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/proxima-be/pxbench/rpc/common"
)

// Pool is a fixed set of independent clients to the same address, one per
// benchmark worker
type Pool struct {
	clients []*SearchClient
}

// NewPool opens size clients (at least one). When one of them fails the
// clients opened so far are closed again.
func NewPool(ctx context.Context, param common.ConnectParam, size int, opts ...Option) (*Pool, error) {
	if size < 1 {
		size = 1
	}

	p := &Pool{clients: make([]*SearchClient, 0, size)}
	for i := 1; i <= size; i++ {
		c, err := New(ctx, param, opts...)
		if err != nil {
			_ = p.Close(ctx, 0)
			return nil, fmt.Errorf("connection %d/%d to %s: %w", i, size, param.Address(), err)
		}
		p.clients = append(p.clients, c)
		Logger.Infof("Connected to %s (connection %d/%d)", param.Address(), i, size)
	}
	return p, nil
}

// Get returns the i-th client, indices wrap around
func (p *Pool) Get(i int) *SearchClient {
	return p.clients[i%len(p.clients)]
}

// Size returns the number of clients
func (p *Pool) Size() int {
	return len(p.clients)
}

// Clients returns a copy of the client list
func (p *Pool) Clients() []*SearchClient {
	out := make([]*SearchClient, len(p.clients))
	copy(out, p.clients)
	return out
}

// Close closes every client, each waiting up to maxWait for its in-flight calls
func (p *Pool) Close(ctx context.Context, maxWait time.Duration) error {
	var errs []error
	for _, c := range p.clients {
		if err := c.Close(ctx, maxWait); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
