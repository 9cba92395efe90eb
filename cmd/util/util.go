package util

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/proxima-be/pxbench/rpc/common"
	"github.com/proxima-be/pxbench/rpc/serializer"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Logger = logger.GetLogger("cmd")

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50

	// EnvPrefix is prepended to every environment variable (PXBENCH_ADDRESS, ...)
	EnvPrefix = "pxbench"
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var lines []string
	var line strings.Builder

	for _, word := range strings.Fields(text) {
		if line.Len() > 0 && line.Len()+1+len(word) > Wrap {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteString(" ")
		}
		line.WriteString(word)
	}

	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// --------------------------------------------------------------------------
// Configuration
// --------------------------------------------------------------------------

// InitConfig loads .env files and lets viper read PXBENCH_* variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// InitLogging applies the configured log level to all package loggers
func InitLogging() error {
	return common.InitLoggers(viper.GetString("log-level"))
}

// --------------------------------------------------------------------------
// Client connection
// --------------------------------------------------------------------------

// SetupConnectFlags adds the connection flags of a search client to a command
func SetupConnectFlags(cmd *cobra.Command) {
	key := "address"
	cmd.PersistentFlags().String(key, "", WrapString("The address of the search engine (host:port)"))

	key = "timeout"
	cmd.PersistentFlags().Int(key, int(common.DefaultTimeout/time.Second), WrapString("The deadline of every single call in seconds"))

	key = "idle-timeout"
	cmd.PersistentFlags().Duration(key, common.DefaultIdleTimeout, WrapString("How long an unused connection stays active before it goes idle"))

	key = "keepalive-time"
	cmd.PersistentFlags().Duration(key, 0, WrapString("The interval of keep alive pings, 0 disables them"))

	key = "keepalive-timeout"
	cmd.PersistentFlags().Duration(key, common.DefaultKeepAliveTimeout, WrapString("How long to wait for a keep alive ping ack"))
}

// GetConnectParam builds the connection settings from viper. The serializer
// comes from the persistent root flag.
func GetConnectParam() (common.ConnectParam, error) {
	param, err := common.ParseAddress(viper.GetString("address"))
	if err != nil {
		return common.ConnectParam{}, err
	}

	if timeout := viper.GetInt("timeout"); timeout > 0 {
		param.Timeout = time.Duration(timeout) * time.Second
	} else {
		return common.ConnectParam{}, fmt.Errorf("timeout must be > 0, got %d", timeout)
	}
	if idle := viper.GetDuration("idle-timeout"); idle > 0 {
		param.IdleTimeout = idle
	}
	param.KeepAliveTime = viper.GetDuration("keepalive-time")
	if keepAliveTimeout := viper.GetDuration("keepalive-timeout"); keepAliveTimeout > 0 {
		param.KeepAliveTimeout = keepAliveTimeout
	}

	s, err := GetSerializer()
	if err != nil {
		return common.ConnectParam{}, err
	}
	param.Serializer = s.Name()

	return param, nil
}

// GetSerializer returns the serializer named by the --serializer flag
func GetSerializer() (serializer.IRPCSerializer, error) {
	name := viper.GetString("serializer")
	if name == "" {
		name = common.DefaultSerializer
	}
	return serializer.GetSerializer(name)
}
