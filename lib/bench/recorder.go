package bench

import (
	"fmt"
	"io"
	"sort"
	"time"

	vmetrics "github.com/VictoriaMetrics/metrics"
	"github.com/proxima-be/pxbench/rpc/common"
	"github.com/puzpuzpuz/xsync/v3"
	gometrics "github.com/rcrowley/go-metrics"
)

// Percentiles reported for every run
var Percentiles = []float64{0.01, 0.10, 0.25, 0.50, 0.75, 0.90, 0.95, 0.99}

// Recorder collects the outcome of every request of a run. It is shared by
// all workers.
type Recorder struct {
	command  Command
	latency  gometrics.Timer
	failures *xsync.MapOf[common.ErrorCode, *xsync.Counter]
	requests *vmetrics.Set
}

// NewRecorder creates an empty recorder for command
func NewRecorder(command Command) *Recorder {
	return &Recorder{
		command:  command,
		latency:  gometrics.NewTimer(),
		failures: xsync.NewMapOf[common.ErrorCode, *xsync.Counter](),
		requests: vmetrics.NewSet(),
	}
}

// Record adds one finished request that started at start
func (r *Recorder) Record(start time.Time, status common.Status) {
	r.latency.UpdateSince(start)

	name := fmt.Sprintf(`pxbench_requests_total{command=%q,code="%d"}`, r.command, int32(status.Code))
	r.requests.GetOrCreateCounter(name).Inc()

	if !status.OK() {
		counter, _ := r.failures.LoadOrCompute(status.Code, xsync.NewCounter)
		counter.Inc()
	}
}

// Count returns the number of recorded requests
func (r *Recorder) Count() int64 {
	return r.latency.Count()
}

// Failures returns the number of failed requests per code
func (r *Recorder) Failures() map[common.ErrorCode]int64 {
	out := make(map[common.ErrorCode]int64)
	r.failures.Range(func(code common.ErrorCode, c *xsync.Counter) bool {
		out[code] = c.Value()
		return true
	})
	return out
}

// FailedCount returns the total number of failed requests
func (r *Recorder) FailedCount() int64 {
	var n int64
	for _, v := range r.Failures() {
		n += v
	}
	return n
}

// Latency summarizes the recorded latencies
func (r *Recorder) Latency() LatencySummary {
	snap := r.latency.Snapshot()
	ps := snap.Percentiles(Percentiles)

	summary := LatencySummary{
		Count:       snap.Count(),
		Mean:        time.Duration(snap.Mean()),
		Min:         time.Duration(snap.Min()),
		Max:         time.Duration(snap.Max()),
		StdDev:      time.Duration(snap.StdDev()),
		Percentiles: make([]Percentile, len(ps)),
	}
	for i, p := range Percentiles {
		summary.Percentiles[i] = Percentile{Quantile: p, Value: time.Duration(ps[i])}
	}
	return summary
}

// WritePrometheus writes the request counters in the Prometheus text format
func (r *Recorder) WritePrometheus(w io.Writer) {
	r.requests.WritePrometheus(w)
}

// Stop releases the background meter of the latency timer
func (r *Recorder) Stop() {
	r.latency.Stop()
}

// --------------------------------------------------------------------------
// Latency summary
// --------------------------------------------------------------------------

// Percentile is one latency quantile
type Percentile struct {
	Quantile float64
	Value    time.Duration
}

// LatencySummary is a snapshot of the latency distribution
type LatencySummary struct {
	Count       int64
	Mean        time.Duration
	Min         time.Duration
	Max         time.Duration
	StdDev      time.Duration
	Percentiles []Percentile
}

// sortedCodes returns the keys of failures in ascending order
func sortedCodes(failures map[common.ErrorCode]int64) []common.ErrorCode {
	codes := make([]common.ErrorCode, 0, len(failures))
	for code := range failures {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}
