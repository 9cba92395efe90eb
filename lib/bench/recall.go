package bench

import (
	"github.com/proxima-be/pxbench/rpc/common"
	"github.com/puzpuzpuz/xsync/v3"
)

// recallCutoffs are reported when topk exceeds them, topk itself always is
var recallCutoffs = []int{1, 10, 50, 100}

// RecallCounter compares index search results with brute force results
type RecallCounter struct {
	cutoffs []int
	total   []*xsync.Counter
	hits    []*xsync.Counter
}

// NewRecallCounter creates the counters for the cutoffs that apply to topk
func NewRecallCounter(topk int) *RecallCounter {
	r := &RecallCounter{}
	for _, c := range recallCutoffs {
		if topk > c {
			r.cutoffs = append(r.cutoffs, c)
		}
	}
	r.cutoffs = append(r.cutoffs, topk)

	r.total = make([]*xsync.Counter, len(r.cutoffs))
	r.hits = make([]*xsync.Counter, len(r.cutoffs))
	for i := range r.cutoffs {
		r.total[i] = xsync.NewCounter()
		r.hits[i] = xsync.NewCounter()
	}
	return r
}

// Add accounts one query. Every document in the first t results of knn is a
// hit if its key or score equals one of the first t results of linear.
func (r *RecallCounter) Add(knn, linear []common.Document) {
	for i, t := range r.cutoffs {
		for _, doc := range knn[:min(t, len(knn))] {
			r.total[i].Inc()
			for _, ref := range linear[:min(t, len(linear))] {
				if doc.PrimaryKey == ref.PrimaryKey || doc.Score == ref.Score {
					r.hits[i].Inc()
					break
				}
			}
		}
	}
}

// Recall is the hit ratio at one cutoff
type Recall struct {
	At    int
	Total int64
	Hits  int64
}

// Ratio returns hits/total, 0 when nothing was counted
func (r Recall) Ratio() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Hits) / float64(r.Total)
}

// Results returns the recall for every cutoff in ascending order
func (r *RecallCounter) Results() []Recall {
	out := make([]Recall, len(r.cutoffs))
	for i, t := range r.cutoffs {
		out[i] = Recall{At: t, Total: r.total[i].Value(), Hits: r.hits[i].Value()}
	}
	return out
}
