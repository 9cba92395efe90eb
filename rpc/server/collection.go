package server

import (
	"encoding/binary"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/proxima-be/pxbench/lib/corpus"
	"github.com/proxima-be/pxbench/rpc/common"
)

// document is a stored row
type document struct {
	docID     uint64
	key       uint64
	features  map[string][]float32 // index column -> vector
	forward   []common.Property
	lsn       uint64
	timestamp uint64 // unix micros of the last write
}

// collection is an in-memory collection. All fields behind mu.
type collection struct {
	mu        sync.RWMutex
	info      common.CollectionInfo
	columns   map[string]common.IndexColumnParam
	docs      map[uint64]*document
	nextDocID uint64
}

// newCollection creates a serving collection for the given config
func newCollection(config common.CollectionConfig) *collection {
	id := uuid.New()
	columns := make(map[string]common.IndexColumnParam, len(config.IndexColumnParams))
	for _, p := range config.IndexColumnParams {
		columns[p.ColumnName] = p
	}

	return &collection{
		info: common.CollectionInfo{
			Config:      config,
			Status:      common.CollectionServing,
			UUID:        id.String(),
			MagicNumber: binary.LittleEndian.Uint64(id[:8]),
		},
		columns: columns,
		docs:    make(map[uint64]*document),
	}
}

// checkConfig returns a failure status if config cannot be served
func checkConfig(config *common.CollectionConfig) (common.Status, bool) {
	if config.CollectionName == "" {
		return engineStatus(CodeInvalidArgument, "collection name is empty"), false
	}
	if len(config.IndexColumnParams) == 0 {
		return engineStatus(CodeInvalidArgument, "index column params is empty"), false
	}
	for _, p := range config.IndexColumnParams {
		if p.ColumnName == "" || p.Dimension == 0 {
			return engineStatus(CodeInvalidArgument, "index column %q needs a name and a dimension", p.ColumnName), false
		}
		if p.DataType != common.DataTypeVectorFP32 {
			return engineStatus(CodeInvalidDataType, "column %s: only %s is supported", p.ColumnName, common.DataTypeVectorFP32), false
		}
	}
	return common.Status{}, true
}

// --------------------------------------------------------------------------
// Read operations
// --------------------------------------------------------------------------

// describe returns a snapshot of the collection info
func (c *collection) describe() common.CollectionInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()

	info := c.info
	if c.info.LatestLsnContext != nil {
		lsn := *c.info.LatestLsnContext
		info.LatestLsnContext = &lsn
	}
	return info
}

// stats reports the collection as a single segment
func (c *collection) stats() common.CollectionStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	name := c.info.Config.CollectionName
	stats := common.CollectionStats{
		CollectionName:    name,
		CollectionPath:    "memory://" + name,
		TotalDocCount:     uint64(len(c.docs)),
		TotalSegmentCount: 1,
	}

	seg := common.SegmentStats{
		State:       1,
		DocCount:    uint64(len(c.docs)),
		SegmentPath: stats.CollectionPath + "/segment.0",
	}
	first := true
	for _, doc := range c.docs {
		if first {
			seg.MinDocID, seg.MaxDocID = doc.docID, doc.docID
			seg.MinPrimaryKey, seg.MaxPrimaryKey = doc.key, doc.key
			seg.MinTimestamp, seg.MaxTimestamp = doc.timestamp, doc.timestamp
			seg.MinLsn, seg.MaxLsn = doc.lsn, doc.lsn
			first = false
			continue
		}
		seg.MinDocID, seg.MaxDocID = min(seg.MinDocID, doc.docID), max(seg.MaxDocID, doc.docID)
		seg.MinPrimaryKey, seg.MaxPrimaryKey = min(seg.MinPrimaryKey, doc.key), max(seg.MaxPrimaryKey, doc.key)
		seg.MinTimestamp, seg.MaxTimestamp = min(seg.MinTimestamp, doc.timestamp), max(seg.MaxTimestamp, doc.timestamp)
		seg.MinLsn, seg.MaxLsn = min(seg.MinLsn, doc.lsn), max(seg.MaxLsn, doc.lsn)
	}
	stats.SegmentStats = []common.SegmentStats{seg}
	return stats
}

// get returns the document with the given key or nil
func (c *collection) get(key uint64) *common.Document {
	c.mu.RLock()
	defer c.mu.RUnlock()

	doc, exists := c.docs[key]
	if !exists {
		return nil
	}
	return &common.Document{PrimaryKey: doc.key, ForwardColumnValues: doc.forward}
}

// query runs a brute-force KNN search for every vector of the batch.
// scanned is the number of distance computations.
func (c *collection) query(param *common.KnnQueryParam) (results []common.QueryResult, scanned int, status common.Status) {
	column, exists := c.columns[param.ColumnName]
	if !exists {
		return nil, 0, engineStatus(CodeInexistentColumn, "%s", param.ColumnName)
	}
	if param.DataType != common.DataTypeVectorFP32 {
		return nil, 0, engineStatus(CodeInvalidDataType, "%s", param.DataType)
	}
	if param.Dimension != column.Dimension {
		return nil, 0, engineStatus(CodeMismatchedDimension, "column %s has dimension %d, query has %d", column.ColumnName, column.Dimension, param.Dimension)
	}

	queries, status := decodeQueries(param)
	if !status.OK() {
		return nil, 0, status
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	results = make([]common.QueryResult, len(queries))
	for i, q := range queries {
		h := newTopkHeap(int(param.Topk))
		for _, doc := range c.docs {
			feature, exists := doc.features[param.ColumnName]
			if !exists {
				continue
			}
			scanned++
			score := squaredEuclidean(q, feature)
			if param.Radius > 0 && score > param.Radius {
				continue
			}
			h.Offer(doc.key, score)
		}

		hits := h.Sorted()
		docs := make([]common.Document, len(hits))
		for j, hit := range hits {
			docs[j] = common.Document{
				PrimaryKey:          hit.Key,
				Score:               hit.Score,
				ForwardColumnValues: c.docs[hit.Key].forward,
			}
		}
		results[i] = common.QueryResult{Documents: docs}
	}
	return results, scanned, ok()
}

// decodeQueries unpacks the batch of query vectors from features or matrix
func decodeQueries(param *common.KnnQueryParam) ([][]float32, common.Status) {
	dim := int(param.Dimension)
	batch := int(param.BatchCount)

	if len(param.Features) > 0 {
		flat, err := corpus.DecodeFP32(param.Features)
		if err != nil || len(flat) != batch*dim {
			return nil, engineStatus(CodeInvalidQuery, "features hold %d bytes, expected %d", len(param.Features), batch*dim*4)
		}
		out := make([][]float32, batch)
		for i := range out {
			out[i] = flat[i*dim : (i+1)*dim]
		}
		return out, ok()
	}

	var matrix [][]float32
	if err := json.Unmarshal([]byte(param.Matrix), &matrix); err != nil {
		return nil, engineStatus(CodeInvalidQuery, "invalid matrix: %v", err)
	}
	if len(matrix) != batch {
		return nil, engineStatus(CodeInvalidQuery, "matrix has %d rows, batch count is %d", len(matrix), batch)
	}
	for _, row := range matrix {
		if len(row) != dim {
			return nil, engineStatus(CodeMismatchedDimension, "matrix row has %d values, expected %d", len(row), dim)
		}
	}
	return matrix, ok()
}

func squaredEuclidean(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// --------------------------------------------------------------------------
// Write
// --------------------------------------------------------------------------

// write applies all rows of req or none of them
func (c *collection) write(req *common.WriteRequest) common.Status {
	if req.RowMeta == nil || len(req.RowMeta.IndexColumnMetas) == 0 {
		return engineStatus(CodeInvalidArgument, "row meta is empty")
	}
	for _, meta := range req.RowMeta.IndexColumnMetas {
		column, exists := c.columns[meta.ColumnName]
		if !exists {
			return engineStatus(CodeInexistentColumn, "%s", meta.ColumnName)
		}
		if meta.DataType != common.DataTypeVectorFP32 {
			return engineStatus(CodeInvalidDataType, "%s", meta.DataType)
		}
		if meta.Dimension != column.Dimension {
			return engineStatus(CodeMismatchedDimension, "column %s has dimension %d, row meta has %d", column.ColumnName, column.Dimension, meta.Dimension)
		}
	}

	now := uint64(time.Now().UnixMicro())
	upserts := make([]*document, 0, len(req.Rows))
	for i := range req.Rows {
		row := &req.Rows[i]
		if row.OperationType == common.OperationDelete {
			upserts = append(upserts, &document{key: row.PrimaryKey})
			continue
		}
		doc, status := buildDocument(req.RowMeta, row)
		if !status.OK() {
			return status
		}
		doc.timestamp = now
		upserts = append(upserts, doc)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i, doc := range upserts {
		row := &req.Rows[i]
		if row.OperationType == common.OperationDelete {
			delete(c.docs, row.PrimaryKey)
		} else {
			doc.docID = c.nextDocID
			c.nextDocID++
			c.docs[doc.key] = doc
		}
		if row.LsnContext != nil && c.info.Config.Repository != nil {
			lsn := *row.LsnContext
			c.info.LatestLsnContext = &lsn
		}
	}
	return ok()
}

// buildDocument converts an insert or update row
func buildDocument(meta *common.RowMeta, row *common.Row) (*document, common.Status) {
	if row.IndexValues.Len() != len(meta.IndexColumnMetas) {
		return nil, engineStatus(CodeInvalidRecord, "row %d has %d index values, row meta has %d columns", row.PrimaryKey, row.IndexValues.Len(), len(meta.IndexColumnMetas))
	}
	if row.ForwardValues.Len() != 0 && row.ForwardValues.Len() != len(meta.ForwardColumnNames) {
		return nil, engineStatus(CodeInvalidRecord, "row %d has %d forward values, row meta has %d columns", row.PrimaryKey, row.ForwardValues.Len(), len(meta.ForwardColumnNames))
	}

	doc := &document{
		key:      row.PrimaryKey,
		features: make(map[string][]float32, len(meta.IndexColumnMetas)),
	}
	if row.LsnContext != nil {
		doc.lsn = row.LsnContext.Lsn
	}

	for i, column := range meta.IndexColumnMetas {
		value := row.IndexValues.Values[i]
		var vector []float32
		switch value.Kind {
		case common.ValueBytes:
			v, err := corpus.DecodeFP32(value.Bytes)
			if err != nil {
				return nil, engineStatus(CodeInvalidRecord, "row %d: %v", row.PrimaryKey, err)
			}
			vector = v
		case common.ValueString:
			if err := json.Unmarshal([]byte(value.String), &vector); err != nil {
				return nil, engineStatus(CodeInvalidRecord, "row %d: %v", row.PrimaryKey, err)
			}
		default:
			return nil, engineStatus(CodeInvalidDataType, "row %d: index value must be bytes or string", row.PrimaryKey)
		}
		if len(vector) != int(column.Dimension) {
			return nil, engineStatus(CodeMismatchedDimension, "row %d has %d values, expected %d", row.PrimaryKey, len(vector), column.Dimension)
		}
		doc.features[column.ColumnName] = vector
	}

	if row.ForwardValues.Len() > 0 {
		doc.forward = make([]common.Property, len(meta.ForwardColumnNames))
		for i, name := range meta.ForwardColumnNames {
			doc.forward[i] = common.Property{Key: name, Value: row.ForwardValues.Values[i]}
		}
	}
	return doc, ok()
}

// sortedInfos returns the infos ordered by collection name
func sortedInfos(infos []common.CollectionInfo) []common.CollectionInfo {
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Config.CollectionName < infos[j].Config.CollectionName
	})
	return infos
}
