package bench

import (
	"context"
	"io"

	cmdUtil "github.com/proxima-be/pxbench/cmd/util"
	"github.com/proxima-be/pxbench/lib/bench"
	"github.com/proxima-be/pxbench/lib/corpus"
	"github.com/proxima-be/pxbench/rpc/client"
)

// runBenchmark replays the corpus with one worker per pooled client and
// prints the requested reports. An interrupted run still reports what it
// measured.
func runBenchmark(ctx context.Context, out io.Writer, pool *client.Pool, c *corpus.Corpus, s settings) error {
	command, err := bench.ParseCommand(s.command)
	if err != nil {
		return err
	}

	clients := pool.Clients()
	searchers := make([]bench.Searcher, len(clients))
	for i, sc := range clients {
		searchers[i] = sc
	}

	result, err := bench.Run(ctx, searchers, c, bench.Options{
		Command:        command,
		Collection:     s.collection,
		Column:         s.column,
		Topk:           s.topk,
		ForwardColumns: s.forward,
	})
	if result.Recorder == nil {
		return err
	}

	bench.PrintThroughput(out, result)
	if command == bench.CommandRecall {
		bench.PrintRecall(out, result)
	}
	if s.perf {
		bench.PrintPerf(out, result)
	}
	if s.csv != "" {
		if csvErr := bench.WriteCSV(s.csv, result, s.param); csvErr != nil {
			cmdUtil.Logger.Errorf("%v", csvErr)
		} else {
			cmdUtil.Logger.Infof("Wrote summary to %s", s.csv)
		}
	}
	if s.metrics {
		result.Recorder.WritePrometheus(out)
	}
	return err
}
