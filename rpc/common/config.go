package common

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Client connection configuration
// --------------------------------------------------------------------------

// Defaults of a ConnectParam
const (
	DefaultHost             = "localhost"
	DefaultPort             = 16000
	DefaultTimeout          = time.Second
	DefaultIdleTimeout      = 12 * time.Hour
	DefaultKeepAliveTimeout = 30 * time.Second
	DefaultSerializer       = "binary"
)

// ConnectParam holds everything needed to open a client connection. It is
// immutable once built and shared by all connections of a pool.
type ConnectParam struct {
	Host string
	Port int

	// Timeout is the deadline of every single call
	Timeout time.Duration
	// IdleTimeout moves an unused connection to idle
	IdleTimeout time.Duration
	// KeepAliveTime is the ping interval, 0 disables pings
	KeepAliveTime time.Duration
	// KeepAliveTimeout is how long to wait for a ping ack
	KeepAliveTimeout time.Duration

	// Serializer names the message codec (json, gob, binary)
	Serializer string
}

// NewConnectParam returns a ConnectParam with all defaults for the given address
func NewConnectParam(host string, port int) ConnectParam {
	return ConnectParam{
		Host:             host,
		Port:             port,
		Timeout:          DefaultTimeout,
		IdleTimeout:      DefaultIdleTimeout,
		KeepAliveTimeout: DefaultKeepAliveTimeout,
		Serializer:       DefaultSerializer,
	}
}

// ParseAddress splits "host:port" into a ConnectParam with defaults
func ParseAddress(address string) (ConnectParam, error) {
	parts := strings.Split(address, ":")
	if len(parts) != 2 || parts[0] == "" {
		return ConnectParam{}, fmt.Errorf("invalid address %q (expected host:port)", address)
	}
	port, err := strconv.Atoi(parts[1])
	if err != nil || port <= 0 || port > 65535 {
		return ConnectParam{}, fmt.Errorf("invalid port in address %q", address)
	}
	return NewConnectParam(parts[0], port), nil
}

// Address returns host:port
func (c ConnectParam) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// String returns a formatted string representation of the connect param
func (c ConnectParam) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Connection")
	addField("Address", c.Address())
	addField("Serializer", c.Serializer)
	addField("Timeout", c.Timeout.String())

	addSection("Keep Alive")
	addField("Idle Timeout", c.IdleTimeout.String())
	if c.KeepAliveTime > 0 {
		addField("Keep Alive Time", c.KeepAliveTime.String())
	} else {
		addField("Keep Alive Time", "disabled")
	}
	addField("Keep Alive Timeout", c.KeepAliveTimeout.String())

	return sb.String()
}

// --------------------------------------------------------------------------
// Server configuration
// --------------------------------------------------------------------------

// ServerConfig configures the in-memory search service
type ServerConfig struct {
	// Endpoint is the listen address
	Endpoint string

	// Version is reported by GetVersion
	Version string

	// MinKeepAliveTime is the shortest client ping interval the server accepts
	MinKeepAliveTime time.Duration

	// Serializer is only used for logging, the server answers every codec
	Serializer string

	// Logging configuration
	LogLevel string
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// RPC settings
	addSection("RPC Server")
	addField("Endpoint", c.Endpoint)
	addField("Version", c.Version)
	addField("Min Keep Alive", c.MinKeepAliveTime.String())

	// Logging configuration
	addSection("Logging")
	addField("Log Level", c.LogLevel)

	return sb.String()
}
