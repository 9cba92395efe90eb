// Package bench implements the load generator of pxbench.
//
// A run loads a corpus once, opens one client per worker and lets all workers
// race over a single shared cursor until every record has been handled:
//
//	dispatcher := NewDispatcher(corpus.Len())
//	for each client:
//	  go worker.Run(ctx)    // Claim(), build request, call, record
//	wg.Wait()               // all workers joined
//	throughput = processed * 1000 / elapsedMillis
//
// The Dispatcher is an atomic counter. Claim is a get-and-increment, so every
// index in [0, n) goes to exactly one worker and slow workers simply take
// fewer records. No other state is shared between workers except the
// Recorder, which only uses internally synchronized metrics.
//
// Commands:
//
//   - insert, update, delete: one single-row write per record. Throughput is
//     computed with integer arithmetic and reported as "Build Qps".
//   - search: one knn query per record, reported as "Search Qps".
//   - recall: the knn query is issued twice, once against the index and once
//     as a linear scan, and the results are compared at @1, @10, @50, @100
//     (when topk is larger) and @topk.
//
// A failed request is logged and the worker continues with the next index.
// Nothing is retried.
//
// The Recorder keeps a go-metrics timer for the latency distribution,
// per-code failure counters and VictoriaMetrics counters that can be dumped in
// the Prometheus text format. A Monitor samples the request rate once per
// second, the samples are summarized as Stats.
package bench
