package bench

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	cmdUtil "github.com/proxima-be/pxbench/cmd/util"
	"github.com/proxima-be/pxbench/lib/bench"
	"github.com/proxima-be/pxbench/lib/corpus"
	"github.com/proxima-be/pxbench/rpc/client"
	"github.com/proxima-be/pxbench/rpc/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// collection commands, everything else is a benchmark command of lib/bench
const (
	commandCreate   = "create"
	commandDrop     = "drop"
	commandDescribe = "describe"
	commandStats    = "stats"
	commandList     = "list"
	commandGet      = "get"
)

var collectionCommands = []string{commandCreate, commandDrop, commandDescribe, commandStats, commandList, commandGet}

var (
	BenchCmd = &cobra.Command{
		Use:   "bench",
		Short: "Manage collections and benchmark a search engine",
		Long: `Run one command against a search engine. Collection commands (create, drop, describe, stats, list, get)
use a single connection, benchmark commands (insert, update, delete, search, recall) replay a corpus file
with one worker per connection. Every flag can also be set as environment variable PXBENCH_<flag>
(e.g. PXBENCH_ADDRESS=localhost:16000).

Examples:
  pxbench bench --command create --address localhost:16000 --collection images --column feature --dimension 128
  pxbench bench --command insert --address localhost:16000 --collection images --column feature --dimension 128 --file vectors.vecs2 --concurrency 8
  pxbench bench --command search --address localhost:16000 --collection images --column feature --dimension 128 --file queries.txt --perf`,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return cmdUtil.BindCommandFlags(cmd)
		},
		RunE: run,
	}
)

func init() {
	cmdUtil.SetupConnectFlags(BenchCmd)

	key := "command"
	BenchCmd.Flags().String(key, "", cmdUtil.WrapString("The command to run: "+strings.Join(allCommands(), ", ")))

	key = "concurrency"
	BenchCmd.Flags().Int(key, 1, cmdUtil.WrapString("Number of connections, benchmark commands run one worker per connection"))

	key = "collection"
	BenchCmd.Flags().String(key, "", cmdUtil.WrapString("Name of the collection"))

	key = "column"
	BenchCmd.Flags().String(key, "", cmdUtil.WrapString("Name of the index column, required by benchmark commands"))

	key = "schema"
	BenchCmd.Flags().String(key, "", cmdUtil.WrapString("JSON or YAML document with the index_column_params of a new collection, @path reads it from a file. Without schema create uses one VECTOR_FP32 column named by --column"))

	key = "file"
	BenchCmd.Flags().String(key, "", cmdUtil.WrapString("The corpus file (text or .vecs2), required by benchmark commands"))

	key = "dimension"
	BenchCmd.Flags().Int(key, 512, cmdUtil.WrapString("Dimension of the vectors"))

	key = "topk"
	BenchCmd.Flags().Uint32(key, bench.DefaultTopk, cmdUtil.WrapString("Number of results of a knn query"))

	key = "rows"
	BenchCmd.Flags().Int(key, 0, cmdUtil.WrapString("Load at most this many records from the corpus, 0 loads all"))

	key = "key"
	BenchCmd.Flags().Uint64(key, 0, cmdUtil.WrapString("Primary key of the document for get"))

	key = "repository"
	BenchCmd.Flags().String(key, "", cmdUtil.WrapString("Only list collections of this repository"))

	key = "forward-columns"
	BenchCmd.Flags().StringSlice(key, nil, cmdUtil.WrapString("Forward columns of the collection, writes fill them from the corpus attributes"))

	key = "perf"
	BenchCmd.Flags().Bool(key, false, cmdUtil.WrapString("Print the latency and throughput report"))

	key = "csv"
	BenchCmd.Flags().String(key, "", cmdUtil.WrapString("Write the run summary to this CSV file"))

	key = "metrics"
	BenchCmd.Flags().Bool(key, false, cmdUtil.WrapString("Print the request counters in Prometheus format"))

	key = "close-wait"
	BenchCmd.Flags().Int(key, 10, cmdUtil.WrapString("Seconds to wait for running calls when closing the connections"))
}

func allCommands() []string {
	names := append([]string{}, collectionCommands...)
	for _, c := range bench.Commands {
		names = append(names, string(c))
	}
	return names
}

// --------------------------------------------------------------------------
// Settings
// --------------------------------------------------------------------------

// settings is the validated flag set of one invocation
type settings struct {
	command     string
	param       common.ConnectParam
	concurrency int

	collection string
	column     string
	schema     string
	file       string
	dimension  int
	topk       uint32
	rows       int
	key        uint64
	repository string
	forward    []string

	perf      bool
	csv       string
	metrics   bool
	closeWait time.Duration
}

func isCollectionCommand(command string) bool {
	for _, c := range collectionCommands {
		if c == command {
			return true
		}
	}
	return false
}

func (s settings) isBenchmark() bool {
	return !isCollectionCommand(s.command)
}

// corpusOptions reads the attribute segment of text lines only when there are
// forward columns to fill
func (s settings) corpusOptions() []corpus.Option {
	opts := []corpus.Option{corpus.WithRows(s.rows)}
	if len(s.forward) > 0 {
		opts = append(opts, corpus.WithAttributes())
	}
	return opts
}

// loadSettings reads and checks the flags
func loadSettings() (settings, error) {
	s := settings{
		command:     strings.ToLower(strings.TrimSpace(viper.GetString("command"))),
		concurrency: viper.GetInt("concurrency"),
		collection:  viper.GetString("collection"),
		column:      viper.GetString("column"),
		schema:      viper.GetString("schema"),
		file:        viper.GetString("file"),
		dimension:   viper.GetInt("dimension"),
		topk:        viper.GetUint32("topk"),
		rows:        viper.GetInt("rows"),
		key:         viper.GetUint64("key"),
		repository:  viper.GetString("repository"),
		forward:     viper.GetStringSlice("forward-columns"),
		perf:        viper.GetBool("perf"),
		csv:         viper.GetString("csv"),
		metrics:     viper.GetBool("metrics"),
		closeWait:   time.Duration(viper.GetInt("close-wait")) * time.Second,
	}

	if s.command == "" {
		return s, errors.New("command is required")
	}
	if !isCollectionCommand(s.command) {
		if _, err := bench.ParseCommand(s.command); err != nil {
			return s, fmt.Errorf("unknown command %s (expected one of: %s)", s.command, strings.Join(allCommands(), ", "))
		}
	}
	if viper.GetString("address") == "" {
		return s, errors.New("address is required")
	}
	param, err := cmdUtil.GetConnectParam()
	if err != nil {
		return s, err
	}
	s.param = param

	if s.collection == "" && s.command != commandList {
		return s, errors.New("collection is required")
	}
	if s.concurrency < 1 {
		return s, fmt.Errorf("concurrency must be > 0, got %d", s.concurrency)
	}
	if s.dimension <= 0 {
		return s, fmt.Errorf("dimension must be > 0, got %d", s.dimension)
	}
	if s.isBenchmark() {
		if s.file == "" {
			return s, errors.New("file is required")
		}
		if s.column == "" {
			return s, errors.New("column is required")
		}
	}
	if s.command == commandCreate && s.schema == "" && s.column == "" {
		return s, errors.New("create needs a schema or a column")
	}
	return s, nil
}

// --------------------------------------------------------------------------
// Run
// --------------------------------------------------------------------------

// run logs invalid flags instead of failing, runtime errors are returned
func run(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings()
	if err != nil {
		cmdUtil.Logger.Errorf("%v", err)
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var c *corpus.Corpus
	size := 1
	if s.isBenchmark() {
		c, err = corpus.Load(s.file, s.dimension, s.corpusOptions()...)
		if err != nil {
			return err
		}
		size = s.concurrency
	}

	pool, err := client.NewPool(ctx, s.param, size)
	if err != nil {
		return err
	}
	defer func() {
		if err := pool.Close(context.Background(), s.closeWait); err != nil {
			cmdUtil.Logger.Warningf("close connections: %v", err)
		}
	}()

	if s.isBenchmark() {
		return runBenchmark(ctx, cmd.OutOrStdout(), pool, c, s)
	}
	return runCollection(ctx, cmd.OutOrStdout(), pool.Get(0), s)
}
