package serve

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	cmdUtil "github.com/proxima-be/pxbench/cmd/util"
	"github.com/proxima-be/pxbench/rpc/common"
	"github.com/proxima-be/pxbench/rpc/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:   "serve",
		Short: "Start the in-memory search engine",
		Long: `Start an in-memory search engine that answers the same RPCs as a real one. Collections live
in memory and queries are answered by exact search, which makes it a target for local runs of the
bench command. The configuration can be set via command line flags or environment variables. The
format of the environment variables is PXBENCH_<flag> (e.g. PXBENCH_ENDPOINT=0.0.0.0:16000)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	key := "endpoint"
	ServeCmd.PersistentFlags().String(key, fmt.Sprintf("0.0.0.0:%d", common.DefaultPort), cmdUtil.WrapString("The address on which the service will listen"))

	key = "version"
	ServeCmd.PersistentFlags().String(key, server.DefaultVersion, cmdUtil.WrapString("The version the service reports to clients. Clients only accept a server with the same major and minor version"))

	key = "min-keepalive"
	ServeCmd.PersistentFlags().Duration(key, server.DefaultMinKeepAliveTime, cmdUtil.WrapString("The shortest keep alive ping interval a client may use"))
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	if err := cmdUtil.BindCommandFlags(cmd); err != nil {
		return err
	}

	s, err := cmdUtil.GetSerializer()
	if err != nil {
		return err
	}

	serveCmdConfig.Endpoint = viper.GetString("endpoint")
	serveCmdConfig.Version = viper.GetString("version")
	serveCmdConfig.MinKeepAliveTime = viper.GetDuration("min-keepalive")
	serveCmdConfig.Serializer = s.Name()
	serveCmdConfig.LogLevel = viper.GetString("log-level")

	if serveCmdConfig.Endpoint == "" {
		return fmt.Errorf("endpoint is required")
	}
	if serveCmdConfig.MinKeepAliveTime < time.Second {
		return fmt.Errorf("min-keepalive must be at least 1s, got %s", serveCmdConfig.MinKeepAliveTime)
	}
	return nil
}

// run serves until the listener fails or a signal arrives
func run(_ *cobra.Command, _ []string) error {
	serv := server.NewRPCServer(*serveCmdConfig)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)

	go func() {
		sig := <-signals
		cmdUtil.Logger.Infof("Received %s, stopping", sig)
		serv.Stop()
	}()

	return serv.Serve()
}
