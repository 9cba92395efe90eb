package transport

import (
	"testing"
	"time"

	"github.com/proxima-be/pxbench/rpc/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/connectivity"
)

func TestAvailable(t *testing.T) {
	tests := []struct {
		state connectivity.State
		want  bool
	}{
		{connectivity.Idle, true},
		{connectivity.Connecting, true},
		{connectivity.Ready, true},
		{connectivity.TransientFailure, false},
		{connectivity.Shutdown, false},
	}
	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Available(tt.state))
		})
	}
}

func TestDialOptions(t *testing.T) {
	param := common.NewConnectParam("localhost", 16000)

	opts, err := DialOptions(param)
	require.NoError(t, err)
	assert.Len(t, opts, 3)

	param.KeepAliveTime = time.Minute
	opts, err = DialOptions(param)
	require.NoError(t, err)
	assert.Len(t, opts, 4)

	param.Serializer = "xml"
	_, err = DialOptions(param)
	assert.Error(t, err)
}

func TestDialIsLazy(t *testing.T) {
	// nothing listens here, the connection is only created
	conn, err := Dial(common.NewConnectParam("127.0.0.1", 1))
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, connectivity.Idle, conn.GetState())
	assert.Equal(t, "passthrough:///127.0.0.1:1", conn.Target())
}

func TestMethodNames(t *testing.T) {
	assert.Equal(t, "/proxima.be.proto.ProximaService/get_version", MethodGetVersion)
	assert.Equal(t, "/proxima.be.proto.ProximaService/query", MethodQuery)
}
