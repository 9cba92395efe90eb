package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCodeReason(t *testing.T) {
	assert.Equal(t, "Success", Success.Reason())
	assert.Equal(t, "Rpc request timeout", RpcTimeout.Reason())
	assert.Equal(t, "Rpc error occurred", RpcError.Reason())
	assert.Equal(t, "Client not connected to proxima search engine", ClientNotConnected.Reason())
	assert.Equal(t, "Unknown error occurred", UnknownError.Reason())
	assert.Empty(t, ErrorCode(10102).Reason())
}

func TestErrorCodeString(t *testing.T) {
	assert.Equal(t, "RPC_TIMEOUT", RpcTimeout.String())
	assert.Equal(t, "CODE_10102", ErrorCode(10102).String())
}

func TestStatus(t *testing.T) {
	s := NewStatus(ClientNotConnected)
	assert.False(t, s.OK())
	assert.Equal(t, int32(10002), int32(s.Code))
	assert.Equal(t, `{ "code": 10002, "reason": "Client not connected to proxima search engine"}`, s.String())

	assert.True(t, NewStatus(Success).OK())
	assert.True(t, Status{}.OK())
	assert.Equal(t, "boom", NewStatusWithReason(RpcError, "boom").Reason)
}

func TestValidationError(t *testing.T) {
	var err error = NewValidationError("query", "topk must be positive")
	assert.EqualError(t, err, "invalid query: topk must be positive")
	assert.True(t, errors.Is(err, ErrValidation))
	assert.True(t, errors.Is(fmt.Errorf("wrapped: %w", err), ErrValidation))

	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Equal(t, "query", verr.Request)
}
