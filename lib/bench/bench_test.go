package bench

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/proxima-be/pxbench/lib/corpus"
	"github.com/proxima-be/pxbench/rpc/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ----------------------------------------------------------------------------
// Helper
// ----------------------------------------------------------------------------

// fakeSearcher answers writes and queries locally. Keys listed in fail get
// a remote failure status, keys in reject a local error.
type fakeSearcher struct {
	mu     sync.Mutex
	writes []*common.WriteRequest
	calls  atomic.Int64

	fail   map[uint64]bool
	reject map[uint64]bool
	delay  time.Duration
	query  func(req *common.QueryRequest) *common.QueryResponse
}

func (f *fakeSearcher) Write(_ context.Context, req *common.WriteRequest) (common.Status, error) {
	time.Sleep(f.delay)
	f.calls.Add(1)
	f.mu.Lock()
	f.writes = append(f.writes, req)
	f.mu.Unlock()

	key := req.Rows[0].PrimaryKey
	if f.reject[key] {
		return common.Status{}, common.NewValidationError("write request", "rows is empty")
	}
	if f.fail[key] {
		return common.NewStatusWithReason(-4002, "Collection Not Exist"), nil
	}
	return common.NewStatus(common.Success), nil
}

func (f *fakeSearcher) Query(_ context.Context, req *common.QueryRequest) (*common.QueryResponse, error) {
	time.Sleep(f.delay)
	f.calls.Add(1)
	if f.query != nil {
		return f.query(req), nil
	}
	return &common.QueryResponse{Results: []common.QueryResult{{}}}, nil
}

func (f *fakeSearcher) keys() []uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]uint64, 0, len(f.writes))
	for _, w := range f.writes {
		out = append(out, w.Rows[0].PrimaryKey)
	}
	return out
}

func testCorpus(n, dim int) *corpus.Corpus {
	c := &corpus.Corpus{Dimension: dim}
	for i := 0; i < n; i++ {
		v := make([]float32, dim)
		for j := range v {
			v[j] = float32(i + j)
		}
		c.Keys = append(c.Keys, int64(1000+i))
		c.Features = append(c.Features, corpus.EncodeFP32(v))
		c.Attributes = append(c.Attributes, []string{"a" + strings.Repeat("x", i%3)})
	}
	return c
}

func testOptions(command Command) Options {
	return Options{Command: command, Collection: "c", Column: "f", Topk: 10, MonitorInterval: 10 * time.Millisecond}
}

// ----------------------------------------------------------------------------
// Run
// ----------------------------------------------------------------------------

func TestRunInsertContinuesAfterFailures(t *testing.T) {
	c := testCorpus(500, 4)
	fake := &fakeSearcher{
		fail:   map[uint64]bool{1003: true, 1100: true},
		reject: map[uint64]bool{1200: true},
	}

	result, err := Run(context.Background(), []Searcher{fake, fake, fake}, c, testOptions(CommandInsert))
	require.NoError(t, err)

	assert.Equal(t, int64(500), result.Processed)
	assert.Equal(t, int64(500), fake.calls.Load())
	assert.Equal(t, int64(3), result.Failed)
	assert.Equal(t, map[common.ErrorCode]int64{-4002: 2, common.UnknownError: 1}, result.Failures)
	assert.Equal(t, result.Processed*1000/result.ElapsedMillis, result.BuildQPS)
	assert.ElementsMatch(t, c.Keys, toInt64(fake.keys()))

	// every write is a single INSERT row with the feature as the only value
	for _, w := range fake.writes {
		require.Len(t, w.Rows, 1)
		row := w.Rows[0]
		assert.Equal(t, common.OperationInsert, row.OperationType)
		require.Equal(t, 1, row.IndexValues.Len())
		assert.Len(t, row.IndexValues.Values[0].Bytes, 16)
		assert.Equal(t, uint32(4), w.RowMeta.IndexColumnMetas[0].Dimension)
		assert.Nil(t, row.ForwardValues)
	}
}

func toInt64(keys []uint64) []int64 {
	out := make([]int64, len(keys))
	for i, k := range keys {
		out[i] = int64(k)
	}
	return out
}

func TestRunDeleteAndForwardColumns(t *testing.T) {
	c := testCorpus(10, 2)

	fake := &fakeSearcher{}
	_, err := Run(context.Background(), []Searcher{fake}, c, testOptions(CommandDelete))
	require.NoError(t, err)
	for _, w := range fake.writes {
		assert.Equal(t, common.OperationDelete, w.Rows[0].OperationType)
		assert.Nil(t, w.Rows[0].IndexValues)
	}

	opts := testOptions(CommandUpdate)
	opts.ForwardColumns = []string{"tag"}
	fake = &fakeSearcher{}
	_, err = Run(context.Background(), []Searcher{fake}, c, opts)
	require.NoError(t, err)
	for _, w := range fake.writes {
		assert.Equal(t, common.OperationUpdate, w.Rows[0].OperationType)
		assert.Equal(t, []string{"tag"}, w.RowMeta.ForwardColumnNames)
		require.Equal(t, 1, w.Rows[0].ForwardValues.Len())
		assert.Equal(t, common.ValueString, w.Rows[0].ForwardValues.Values[0].Kind)
	}
}

func TestRunJoinsAllWorkers(t *testing.T) {
	c := testCorpus(200, 2)
	fake := &fakeSearcher{delay: 200 * time.Microsecond}

	result, err := Run(context.Background(), []Searcher{fake, fake, fake, fake}, c, testOptions(CommandSearch))
	require.NoError(t, err)

	calls := fake.calls.Load()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int64(200), calls, "all requests finished before Run returned")
	assert.Equal(t, calls, fake.calls.Load())
	assert.Equal(t, int64(200), result.Processed)
	assert.InDelta(t, float64(200)*1000.0/float64(result.ElapsedMillis), result.SearchQPS, 1e-9)
	assert.Zero(t, result.BuildQPS)
}

func TestRunStopsOnCancel(t *testing.T) {
	c := testCorpus(1000, 2)
	ctx, cancel := context.WithCancel(context.Background())
	fake := &fakeSearcher{}
	fake.query = func(*common.QueryRequest) *common.QueryResponse {
		if fake.calls.Load() == 10 {
			cancel()
		}
		return &common.QueryResponse{}
	}

	result, err := Run(ctx, []Searcher{fake}, c, testOptions(CommandSearch))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Less(t, result.Processed, int64(1000))
}

func TestRunValidatesOptions(t *testing.T) {
	c := testCorpus(1, 2)
	fake := &fakeSearcher{}

	_, err := Run(context.Background(), nil, c, testOptions(CommandInsert))
	assert.Error(t, err)

	opts := testOptions(CommandInsert)
	opts.Column = ""
	_, err = Run(context.Background(), []Searcher{fake}, c, opts)
	assert.ErrorContains(t, err, "column is required")

	_, err = Run(context.Background(), []Searcher{fake}, c, testOptions("scan"))
	assert.ErrorContains(t, err, "unknown benchmark command")
	assert.Zero(t, fake.calls.Load())
}

func TestRunRecall(t *testing.T) {
	c := testCorpus(20, 2)
	fake := &fakeSearcher{}
	fake.query = func(req *common.QueryRequest) *common.QueryResponse {
		// the index misses the best document, the linear scan does not
		docs := []common.Document{{PrimaryKey: 1, Score: 0}, {PrimaryKey: 2, Score: 1}, {PrimaryKey: 3, Score: 2}}
		if !req.KnnParam.IsLinear {
			docs = []common.Document{{PrimaryKey: 9, Score: 0.5}, {PrimaryKey: 2, Score: 1}, {PrimaryKey: 3, Score: 2}}
		}
		return &common.QueryResponse{Results: []common.QueryResult{{Documents: docs}}}
	}

	opts := testOptions(CommandRecall)
	opts.Topk = 3
	result, err := Run(context.Background(), []Searcher{fake, fake}, c, opts)
	require.NoError(t, err)

	require.Len(t, result.Recall, 2)
	assert.Equal(t, Recall{At: 1, Total: 20, Hits: 0}, result.Recall[0])
	assert.Equal(t, Recall{At: 3, Total: 60, Hits: 40}, result.Recall[1])
	assert.Equal(t, int64(40), fake.calls.Load())
	assert.Equal(t, int64(20), result.Latency.Count, "only the index search is timed")

	var out bytes.Buffer
	PrintRecall(&out, result)
	assert.Equal(t, "Recall @1: 0\nRecall @3: 0.6666666666666666\n", out.String())
}

// ----------------------------------------------------------------------------
// Building blocks
// ----------------------------------------------------------------------------

func TestRecallCutoffs(t *testing.T) {
	cutoffs := func(topk int) []int {
		var out []int
		for _, r := range NewRecallCounter(topk).Results() {
			out = append(out, r.At)
		}
		return out
	}
	assert.Equal(t, []int{1}, cutoffs(1))
	assert.Equal(t, []int{1, 10}, cutoffs(10))
	assert.Equal(t, []int{1, 10, 11}, cutoffs(11))
	assert.Equal(t, []int{1, 10, 50, 100}, cutoffs(100))
	assert.Equal(t, []int{1, 10, 50, 100, 200}, cutoffs(200))
}

func TestRecallMatchesOnScore(t *testing.T) {
	r := NewRecallCounter(2)
	r.Add(
		[]common.Document{{PrimaryKey: 7, Score: 1.5}, {PrimaryKey: 8, Score: 3}},
		[]common.Document{{PrimaryKey: 5, Score: 1.5}, {PrimaryKey: 6, Score: 2}},
	)
	assert.Equal(t, []Recall{{At: 1, Total: 1, Hits: 1}, {At: 2, Total: 2, Hits: 1}}, r.Results())
	assert.Equal(t, 0.5, r.Results()[1].Ratio())
	assert.Zero(t, Recall{}.Ratio())
}

func TestStats(t *testing.T) {
	s := NewStats([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.Equal(t, 8, s.Samples)
	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 9.0, s.Max)
	assert.Equal(t, 5.0, s.Mean)
	assert.Equal(t, 2.0, s.StdDeviation)
	assert.InDelta(t, 2.0/9.0, s.MinMaxRatio, 1e-12)

	assert.Equal(t, Stats{}, NewStats(nil))
}

func TestRecorder(t *testing.T) {
	r := NewRecorder(CommandInsert)
	defer r.Stop()

	start := time.Now().Add(-2 * time.Millisecond)
	r.Record(start, common.NewStatus(common.Success))
	r.Record(start, common.NewStatus(common.RpcTimeout))
	r.Record(start, common.NewStatusWithReason(-4002, "Collection Not Exist"))
	r.Record(start, common.NewStatus(common.RpcTimeout))

	assert.Equal(t, int64(4), r.Count())
	assert.Equal(t, int64(3), r.FailedCount())
	assert.Equal(t, map[common.ErrorCode]int64{common.RpcTimeout: 2, -4002: 1}, r.Failures())

	latency := r.Latency()
	assert.Equal(t, int64(4), latency.Count)
	assert.GreaterOrEqual(t, latency.Min, 2*time.Millisecond)
	assert.Len(t, latency.Percentiles, len(Percentiles))

	var out bytes.Buffer
	r.WritePrometheus(&out)
	assert.Contains(t, out.String(), `pxbench_requests_total{command="insert",code="0"} 1`)
	assert.Contains(t, out.String(), `pxbench_requests_total{command="insert",code="10000"} 2`)
	assert.Contains(t, out.String(), `pxbench_requests_total{command="insert",code="-4002"} 1`)
}

func TestMonitorSamples(t *testing.T) {
	r := NewRecorder(CommandSearch)
	defer r.Stop()

	m := StartMonitor(r, 5*time.Millisecond)
	for i := 0; i < 20; i++ {
		r.Record(time.Now(), common.NewStatus(common.Success))
		time.Sleep(time.Millisecond)
	}
	require.Eventually(t, func() bool { return len(m.Samples()) >= 2 }, time.Second, time.Millisecond)
	stats := m.Stop()
	assert.GreaterOrEqual(t, stats.Samples, 2)
	assert.GreaterOrEqual(t, stats.Max, stats.Min)
}

func TestParseCommand(t *testing.T) {
	c, err := ParseCommand(" Insert ")
	require.NoError(t, err)
	assert.Equal(t, CommandInsert, c)
	assert.True(t, c.IsWrite())
	assert.False(t, CommandRecall.IsWrite())

	_, err = ParseCommand("create")
	assert.Error(t, err)
}

func TestReport(t *testing.T) {
	result := Result{
		Command:       CommandInsert,
		Records:       10,
		Workers:       2,
		Processed:     10,
		Failed:        1,
		Failures:      map[common.ErrorCode]int64{common.RpcError: 1},
		ElapsedMillis: 5,
		BuildQPS:      2000,
		Latency: LatencySummary{
			Count:       10,
			Mean:        1500 * time.Microsecond,
			Max:         3 * time.Millisecond,
			Percentiles: []Percentile{{Quantile: 0.5, Value: time.Millisecond}, {Quantile: 0.99, Value: 3 * time.Millisecond}},
		},
		QPS: Stats{Min: 1800, Max: 2200},
	}

	var out bytes.Buffer
	PrintThroughput(&out, result)
	assert.Equal(t, "Build Qps: 2000\n", out.String())

	out.Reset()
	PrintPerf(&out, result)
	report := out.String()
	assert.Contains(t, report, "Process count  : 10\n")
	assert.Contains(t, report, "Average qps    : 2000/s\n")
	assert.Contains(t, report, "Maximum qps    : 2200/s\n")
	assert.Contains(t, report, "Average latency: 1500us\n")
	assert.Contains(t, report, "Percentile @50 : 1000us\n")
	assert.Contains(t, report, "Percentile @99 : 3000us\n")
	assert.Contains(t, report, "Failures 10001 : 1\n")

	out.Reset()
	param := common.NewConnectParam("localhost", 16000)
	require.NoError(t, writeCSV(&out, result, param))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Command,Records,Workers,Processed,Failed,ElapsedMs,Throughput"))
	assert.Contains(t, lines[0], "P50Us,P99Us,Address,Serializer,TimeoutMs")
	assert.True(t, strings.HasPrefix(lines[1], "insert,10,2,10,1,5,2000.00"))
	assert.True(t, strings.HasSuffix(lines[1], "1000,3000,localhost:16000,binary,1000"))

	out.Reset()
	PrintThroughput(&out, Result{Command: CommandSearch, SearchQPS: 12.5})
	assert.Equal(t, "Search Qps: 12.500000\n", out.String())
}
