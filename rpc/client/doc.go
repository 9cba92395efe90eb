// Package client implements the Go client of the vector search service.
//
// The package focuses on:
//   - Validating requests before anything is put on the wire
//   - A one time version handshake when a client is created
//   - Mapping transport failures to status values instead of errors
//
// Key Components:
//
//   - SearchClient: owns one grpc connection. New dials the address of a
//     common.ConnectParam and asks the server for its version, the client is
//     only returned when major and minor match. Every operation first checks
//     that the client and its connection are usable, then validates the
//     request, then issues the call with the timeout of the ConnectParam.
//
//   - Pool: a fixed number of SearchClients to the same address. The
//     benchmark gives each worker exactly one of them.
//
//   - Validate*: the request checks. A failed check returns a
//     *common.ValidationError and the request is never sent.
//
// Error Handling:
//
//	Two channels are kept apart. The error return is only used for local
//	contract violations (validation). Everything the server or the transport
//	reports comes back as a common.Status inside the response:
//
//	  resp, err := c.Query(ctx, req)
//	  if err != nil {
//	    // the request itself is broken
//	  }
//	  if !resp.OK() {
//	    // resp.Status.Code is a server code or one of RpcTimeout,
//	    // RpcError, ClientNotConnected
//	  }
//
// Usage Example:
//
//	param := common.NewConnectParam("localhost", 16000)
//	c, err := client.New(ctx, param)
//	if err != nil {
//	  return err
//	}
//	defer c.Close(ctx, 10*time.Second)
//
//	config := common.NewCollectionConfig("images",
//	  common.NewIndexColumnParam("feature", common.DataTypeVectorFP32, 512))
//	status, err := c.CreateCollection(ctx, config)
//
// Shutdown:
//
//	Close moves the client to CLOSING, waits for in-flight calls up to the
//	given maximum and closes the connection. Any call made afterwards fails
//	fast with ClientNotConnected.
package client
