package common

import (
	"errors"
	"fmt"
)

// --------------------------------------------------------------------------
// Error codes
// --------------------------------------------------------------------------

// ErrorCode is the numeric outcome of a call. Zero is success, the 10000 range
// is produced locally by the client, everything else is defined by the server.
type ErrorCode int32

const (
	Success            ErrorCode = 0
	RpcTimeout         ErrorCode = 10000
	RpcError           ErrorCode = 10001
	ClientNotConnected ErrorCode = 10002
	UnknownError       ErrorCode = 10003
)

// Reason returns the default reason text for client side codes
func (c ErrorCode) Reason() string {
	switch c {
	case Success:
		return "Success"
	case RpcTimeout:
		return "Rpc request timeout"
	case RpcError:
		return "Rpc error occurred"
	case ClientNotConnected:
		return "Client not connected to proxima search engine"
	case UnknownError:
		return "Unknown error occurred"
	default:
		return ""
	}
}

func (c ErrorCode) String() string {
	switch c {
	case Success:
		return "SUCCESS"
	case RpcTimeout:
		return "RPC_TIMEOUT"
	case RpcError:
		return "RPC_ERROR"
	case ClientNotConnected:
		return "CLIENT_NOT_CONNECTED"
	case UnknownError:
		return "UNKNOWN_ERROR"
	default:
		return fmt.Sprintf("CODE_%d", int32(c))
	}
}

// --------------------------------------------------------------------------
// Status
// --------------------------------------------------------------------------

// Status is the outcome of a remote call
type Status struct {
	Code   ErrorCode `json:"code"`
	Reason string    `json:"reason"`
}

// NewStatus creates a status with the default reason of the code
func NewStatus(code ErrorCode) Status {
	return Status{Code: code, Reason: code.Reason()}
}

// NewStatusWithReason creates a status with a custom reason
func NewStatusWithReason(code ErrorCode, reason string) Status {
	return Status{Code: code, Reason: reason}
}

// OK reports whether the call succeeded
func (s Status) OK() bool {
	return s.Code == Success
}

func (s Status) String() string {
	return fmt.Sprintf("{ \"code\": %d, \"reason\": \"%s\"}", int32(s.Code), s.Reason)
}

// --------------------------------------------------------------------------
// Local errors
// --------------------------------------------------------------------------

// ErrValidation is matched by every ValidationError via errors.Is
var ErrValidation = errors.New("invalid request")

// ValidationError is returned when a request violates the client side contract.
// It is raised before anything is serialized.
type ValidationError struct {
	Request string
	Reason  string
}

// NewValidationError creates a validation error for the given request kind
func NewValidationError(request, reason string) *ValidationError {
	return &ValidationError{Request: request, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Request, e.Reason)
}

// Is makes errors.Is(err, ErrValidation) work
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
