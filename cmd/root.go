package cmd

import (
	"fmt"
	"os"

	"github.com/proxima-be/pxbench/cmd/bench"
	"github.com/proxima-be/pxbench/cmd/serve"
	"github.com/proxima-be/pxbench/cmd/util"
	"github.com/proxima-be/pxbench/rpc/client"
	"github.com/proxima-be/pxbench/rpc/common"
	"github.com/spf13/cobra"
)

// Version is the version of the pxbench client
const Version = client.ClientVersion

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "pxbench",
		Short: "client and benchmark tool for proxima search engines",
		Long: fmt.Sprintf(`pxbench (v%s)

A client and benchmark harness for vector search engines speaking the
proxima search service protocol. It manages collections, replays vector
corpora as inserts, updates, deletes or knn searches and measures
throughput, latency and recall.`, Version),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := util.BindCommandFlags(cmd); err != nil {
				return err
			}
			return util.InitLogging()
		},
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of pxbench",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pxbench v%s\n", Version)
		},
	}
)

func init() {
	cobra.OnInitialize(util.InitConfig)

	// Add Commands
	RootCmd.AddCommand(bench.BenchCmd)
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "serializer"
	RootCmd.PersistentFlags().String(key, common.DefaultSerializer, util.WrapString("serializer to use (json, gob, binary)"))
	key = "log-level"
	RootCmd.PersistentFlags().String(key, "info", util.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
