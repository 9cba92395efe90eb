package bench

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/proxima-be/pxbench/lib/corpus"
	"github.com/proxima-be/pxbench/rpc/common"
)

// Result is the outcome of a benchmark run
type Result struct {
	Command   Command
	Records   int
	Workers   int
	Processed int64
	Failed    int64
	Failures  map[common.ErrorCode]int64

	Elapsed       time.Duration
	ElapsedMillis int64

	// BuildQPS is set for write commands, integer arithmetic
	BuildQPS int64
	// SearchQPS is set for search and recall
	SearchQPS float64

	Latency LatencySummary
	QPS     Stats
	Recall  []Recall

	// Recorder holds the request counters of the run
	Recorder *Recorder
}

// Throughput returns the requests per second of the run
func (r Result) Throughput() float64 {
	if r.Command.IsWrite() {
		return float64(r.BuildQPS)
	}
	return r.SearchQPS
}

// Run drives one worker per client over the whole corpus and waits for all of
// them before computing the throughput.
func Run(ctx context.Context, clients []Searcher, c *corpus.Corpus, opts Options) (Result, error) {
	if len(clients) == 0 {
		return Result{}, errors.New("no clients")
	}
	if c == nil {
		return Result{}, errors.New("no corpus")
	}
	opts.applyDefaults()
	if err := opts.validate(); err != nil {
		return Result{}, err
	}

	recorder := NewRecorder(opts.Command)
	defer recorder.Stop()
	var recall *RecallCounter
	if opts.Command == CommandRecall {
		recall = NewRecallCounter(int(opts.Topk))
	}

	dispatcher := NewDispatcher(c.Len())
	Logger.Infof("Starting %s of %d records with %d workers", opts.Command, c.Len(), len(clients))

	monitor := StartMonitor(recorder, opts.MonitorInterval)
	start := time.Now()

	var wg sync.WaitGroup
	claimed := make([]int, len(clients))
	for i, client := range clients {
		w := &Worker{
			ID:         i,
			Client:     client,
			Dispatcher: dispatcher,
			Corpus:     c,
			Options:    opts,
			Recorder:   recorder,
			Recall:     recall,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			claimed[i] = w.Run(ctx)
		}()
	}
	wg.Wait()

	elapsed := time.Since(start)
	qps := monitor.Stop()

	result := Result{
		Command:       opts.Command,
		Records:       c.Len(),
		Workers:       len(clients),
		Failures:      recorder.Failures(),
		Elapsed:       elapsed,
		ElapsedMillis: max(elapsed.Milliseconds(), 1),
		Latency:       recorder.Latency(),
		QPS:           qps,
		Recorder:      recorder,
	}
	for _, n := range claimed {
		result.Processed += int64(n)
	}
	for _, n := range result.Failures {
		result.Failed += n
	}

	if opts.Command.IsWrite() {
		result.BuildQPS = result.Processed * 1000 / result.ElapsedMillis
		Logger.Infof("Build Qps: %d", result.BuildQPS)
	} else {
		result.SearchQPS = float64(result.Processed) * 1000.0 / float64(result.ElapsedMillis)
		Logger.Infof("Search Qps: %f", result.SearchQPS)
	}
	if recall != nil {
		result.Recall = recall.Results()
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run interrupted after %d of %d records: %w", result.Processed, result.Records, err)
	}
	return result, nil
}
