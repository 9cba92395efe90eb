package bench

import (
	"context"
	"time"

	"github.com/lni/dragonboat/v4/logger"
	"github.com/proxima-be/pxbench/lib/corpus"
	"github.com/proxima-be/pxbench/rpc/common"
)

var Logger = logger.GetLogger("bench")

// Searcher is the part of the client a worker needs
type Searcher interface {
	Write(ctx context.Context, req *common.WriteRequest) (common.Status, error)
	Query(ctx context.Context, req *common.QueryRequest) (*common.QueryResponse, error)
}

// Worker drains the dispatcher through its own client. Failures are logged
// and the worker moves on to the next index, nothing is retried.
type Worker struct {
	ID         int
	Client     Searcher
	Dispatcher *Dispatcher
	Corpus     *corpus.Corpus
	Options    Options
	Recorder   *Recorder
	Recall     *RecallCounter

	meta *common.RowMeta
}

// Run processes indices until the dispatcher is exhausted or ctx ends and
// returns how many indices this worker claimed
func (w *Worker) Run(ctx context.Context) int {
	w.meta = common.NewVectorRowMeta(w.Options.Column, common.DataTypeVectorFP32, uint32(w.Corpus.Dimension), w.Options.ForwardColumns...)

	processed := 0
	for ctx.Err() == nil {
		i, ok := w.Dispatcher.Claim()
		if !ok {
			break
		}
		processed++

		switch w.Options.Command {
		case CommandInsert:
			w.write(ctx, i, common.OperationInsert)
		case CommandUpdate:
			w.write(ctx, i, common.OperationUpdate)
		case CommandDelete:
			w.write(ctx, i, common.OperationDelete)
		case CommandSearch:
			w.search(ctx, i)
		case CommandRecall:
			w.recall(ctx, i)
		}

		if i%w.Options.ProgressInterval == 0 {
			Logger.Infof("processed %d", i)
		}
	}
	return processed
}

// write sends a single row for record i
func (w *Worker) write(ctx context.Context, i int, op common.OperationType) {
	record := w.Corpus.Record(i)
	row := common.Row{PrimaryKey: uint64(record.Key), OperationType: op}
	if op != common.OperationDelete {
		row.IndexValues = common.NewGenericValueList(common.BytesValue(record.Feature))
		row.ForwardValues = w.forwardValues(i)
	}

	start := time.Now()
	status, err := w.Client.Write(ctx, common.NewWriteRequest(w.Options.Collection, w.meta, row))
	status = w.finish(start, status, err)
	if !status.OK() {
		Logger.Errorf("(worker %d) %s of key %d failed: %s", w.ID, w.Options.Command, record.Key, status.String())
	}
}

// forwardValues returns the attributes of record i when they match the
// configured forward columns
func (w *Worker) forwardValues(i int) *common.GenericValueList {
	attrs := w.Corpus.Attrs(i)
	if len(w.Options.ForwardColumns) == 0 || len(attrs) != len(w.Options.ForwardColumns) {
		return nil
	}
	values := make([]common.GenericValue, len(attrs))
	for j, a := range attrs {
		values[j] = common.StringValue(a)
	}
	return common.NewGenericValueList(values...)
}

func (w *Worker) query(i int) *common.QueryRequest {
	record := w.Corpus.Record(i)
	return common.NewKnnQuery(w.Options.Collection, w.Options.Column, w.Options.Topk,
		record.Feature, common.DataTypeVectorFP32, uint32(w.Corpus.Dimension), 1)
}

// search issues one knn query for record i
func (w *Worker) search(ctx context.Context, i int) {
	start := time.Now()
	resp, err := w.Client.Query(ctx, w.query(i))
	status := w.finish(start, responseStatus(resp), err)
	if !status.OK() {
		Logger.Errorf("(worker %d) search of key %d failed: %s", w.ID, w.Corpus.Keys[i], status.String())
	}
}

// recall runs the query against the index and as a linear scan and compares
func (w *Worker) recall(ctx context.Context, i int) {
	req := w.query(i)
	start := time.Now()
	knn, err := w.Client.Query(ctx, req)
	if status := w.finish(start, responseStatus(knn), err); !status.OK() {
		Logger.Errorf("(worker %d) knn search of key %d failed: %s", w.ID, w.Corpus.Keys[i], status.String())
		return
	}

	req.KnnParam.IsLinear = true
	linear, err := w.Client.Query(ctx, req)
	if err != nil || !linear.OK() {
		Logger.Errorf("(worker %d) linear search of key %d failed: %s", w.ID, w.Corpus.Keys[i], w.failure(responseStatus(linear), err).String())
		return
	}

	knnDocs, linearDocs := firstResult(knn), firstResult(linear)
	if len(knnDocs) != len(linearDocs) {
		Logger.Errorf("(worker %d) knn returned %d documents, linear search %d", w.ID, len(knnDocs), len(linearDocs))
		return
	}
	w.Recall.Add(knnDocs, linearDocs)
}

// finish records a request and returns its effective status
func (w *Worker) finish(start time.Time, status common.Status, err error) common.Status {
	status = w.failure(status, err)
	w.Recorder.Record(start, status)
	return status
}

// failure folds a local error into a status
func (w *Worker) failure(status common.Status, err error) common.Status {
	if err != nil {
		return common.NewStatusWithReason(common.UnknownError, err.Error())
	}
	return status
}

func responseStatus(resp *common.QueryResponse) common.Status {
	if resp == nil {
		return common.NewStatus(common.UnknownError)
	}
	return resp.Status
}

func firstResult(resp *common.QueryResponse) []common.Document {
	if len(resp.Results) == 0 {
		return nil
	}
	return resp.Results[0].Documents
}
