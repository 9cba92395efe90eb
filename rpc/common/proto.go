package common

import (
	"github.com/google/uuid"
)

// --------------------------------------------------------------------------
// Shared messages
// --------------------------------------------------------------------------

func (s *Status) MarshalWire() []byte {
	w := wireWriter{}
	w.int32(1, int32(s.Code))
	w.string(2, s.Reason)
	return w.b
}

func (s *Status) UnmarshalWire(b []byte) error {
	*s = Status{}
	return consumeFields(b, func(f wireField) error {
		switch f.num {
		case 1:
			s.Code = ErrorCode(f.int32())
		case 2:
			s.Reason = f.string()
		}
		return nil
	})
}

// KeyValuePair is a string parameter, used for index and query tuning
type KeyValuePair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (p *KeyValuePair) MarshalWire() []byte {
	w := wireWriter{}
	w.string(1, p.Key)
	w.string(2, p.Value)
	return w.b
}

func (p *KeyValuePair) UnmarshalWire(b []byte) error {
	*p = KeyValuePair{}
	return consumeFields(b, func(f wireField) error {
		switch f.num {
		case 1:
			p.Key = f.string()
		case 2:
			p.Value = f.string()
		}
		return nil
	})
}

// Property is a named forward column value of a document
type Property struct {
	Key   string       `json:"key"`
	Value GenericValue `json:"value"`
}

func (p *Property) MarshalWire() []byte {
	w := wireWriter{}
	w.string(1, p.Key)
	w.message(2, &p.Value)
	return w.b
}

func (p *Property) UnmarshalWire(b []byte) error {
	*p = Property{}
	return consumeFields(b, func(f wireField) error {
		switch f.num {
		case 1:
			p.Key = f.string()
		case 2:
			return p.Value.UnmarshalWire(f.data)
		}
		return nil
	})
}

// LsnContext is the replication position of a collection that is fed by a
// database repository
type LsnContext struct {
	Lsn     uint64 `json:"lsn"`
	Context string `json:"context,omitempty"`
}

func (l *LsnContext) MarshalWire() []byte {
	w := wireWriter{}
	w.varint(1, l.Lsn)
	w.string(2, l.Context)
	return w.b
}

func (l *LsnContext) UnmarshalWire(b []byte) error {
	*l = LsnContext{}
	return consumeFields(b, func(f wireField) error {
		switch f.num {
		case 1:
			l.Lsn = f.uint64()
		case 2:
			l.Context = f.string()
		}
		return nil
	})
}

// --------------------------------------------------------------------------
// Collection management
// --------------------------------------------------------------------------

// IndexColumnParam describes one indexed column of a collection
type IndexColumnParam struct {
	ColumnName  string         `json:"column_name" yaml:"column_name"`
	IndexType   IndexType      `json:"index_type" yaml:"index_type"`
	DataType    DataType       `json:"data_type" yaml:"data_type"`
	Dimension   uint32         `json:"dimension" yaml:"dimension"`
	ExtraParams []KeyValuePair `json:"extra_params,omitempty" yaml:"extra_params"`
}

// NewIndexColumnParam creates a graph indexed column
func NewIndexColumnParam(column string, dataType DataType, dimension uint32) IndexColumnParam {
	return IndexColumnParam{
		ColumnName: column,
		IndexType:  IndexTypeProximaGraphIndex,
		DataType:   dataType,
		Dimension:  dimension,
	}
}

func (p *IndexColumnParam) MarshalWire() []byte {
	w := wireWriter{}
	w.string(1, p.ColumnName)
	w.int32(2, int32(p.IndexType))
	w.int32(3, int32(p.DataType))
	w.uint32(4, p.Dimension)
	for i := range p.ExtraParams {
		w.message(5, &p.ExtraParams[i])
	}
	return w.b
}

func (p *IndexColumnParam) UnmarshalWire(b []byte) error {
	*p = IndexColumnParam{}
	return consumeFields(b, func(f wireField) error {
		switch f.num {
		case 1:
			p.ColumnName = f.string()
		case 2:
			p.IndexType = IndexType(f.int32())
		case 3:
			p.DataType = DataType(f.int32())
		case 4:
			p.Dimension = f.uint32()
		case 5:
			var kv KeyValuePair
			if err := kv.UnmarshalWire(f.data); err != nil {
				return err
			}
			p.ExtraParams = append(p.ExtraParams, kv)
		}
		return nil
	})
}

// DatabaseRepository is an external database a collection replicates from
type DatabaseRepository struct {
	RepositoryName string `json:"repository_name"`
	ConnectionURI  string `json:"connection_uri"`
	TableName      string `json:"table_name"`
	User           string `json:"user"`
	Password       string `json:"password"`
}

func (r *DatabaseRepository) MarshalWire() []byte {
	w := wireWriter{}
	w.string(1, r.RepositoryName)
	w.string(2, r.ConnectionURI)
	w.string(3, r.TableName)
	w.string(4, r.User)
	w.string(5, r.Password)
	return w.b
}

func (r *DatabaseRepository) UnmarshalWire(b []byte) error {
	*r = DatabaseRepository{}
	return consumeFields(b, func(f wireField) error {
		switch f.num {
		case 1:
			r.RepositoryName = f.string()
		case 2:
			r.ConnectionURI = f.string()
		case 3:
			r.TableName = f.string()
		case 4:
			r.User = f.string()
		case 5:
			r.Password = f.string()
		}
		return nil
	})
}

// CollectionConfig is the schema of a collection
type CollectionConfig struct {
	CollectionName     string              `json:"collection_name"`
	MaxDocsPerSegment  uint64              `json:"max_docs_per_segment,omitempty"`
	ForwardColumnNames []string            `json:"forward_column_names,omitempty"`
	IndexColumnParams  []IndexColumnParam  `json:"index_column_params"`
	Repository         *DatabaseRepository `json:"repository,omitempty"`
}

// NewCollectionConfig creates a collection config without repository
func NewCollectionConfig(name string, params ...IndexColumnParam) *CollectionConfig {
	return &CollectionConfig{
		CollectionName:    name,
		IndexColumnParams: params,
	}
}

func (c *CollectionConfig) MarshalWire() []byte {
	w := wireWriter{}
	w.string(1, c.CollectionName)
	w.varint(2, c.MaxDocsPerSegment)
	for _, name := range c.ForwardColumnNames {
		w.repeatedString(3, name)
	}
	for i := range c.IndexColumnParams {
		w.message(4, &c.IndexColumnParams[i])
	}
	if c.Repository != nil {
		w.message(5, c.Repository)
	}
	return w.b
}

func (c *CollectionConfig) UnmarshalWire(b []byte) error {
	*c = CollectionConfig{}
	return consumeFields(b, func(f wireField) error {
		switch f.num {
		case 1:
			c.CollectionName = f.string()
		case 2:
			c.MaxDocsPerSegment = f.uint64()
		case 3:
			c.ForwardColumnNames = append(c.ForwardColumnNames, f.string())
		case 4:
			var p IndexColumnParam
			if err := p.UnmarshalWire(f.data); err != nil {
				return err
			}
			c.IndexColumnParams = append(c.IndexColumnParams, p)
		case 5:
			c.Repository = &DatabaseRepository{}
			return c.Repository.UnmarshalWire(f.data)
		}
		return nil
	})
}

// CollectionName addresses a collection in drop, describe and stats calls
type CollectionName struct {
	CollectionName string `json:"collection_name"`
}

func (c *CollectionName) MarshalWire() []byte {
	w := wireWriter{}
	w.string(1, c.CollectionName)
	return w.b
}

func (c *CollectionName) UnmarshalWire(b []byte) error {
	*c = CollectionName{}
	return consumeFields(b, func(f wireField) error {
		if f.num == 1 {
			c.CollectionName = f.string()
		}
		return nil
	})
}

// CollectionInfo is the server view of a collection
type CollectionInfo struct {
	Config           CollectionConfig `json:"config"`
	Status           CollectionStatus `json:"status"`
	UUID             string           `json:"uuid"`
	LatestLsnContext *LsnContext      `json:"latest_lsn_context,omitempty"`
	MagicNumber      uint64           `json:"magic_number,omitempty"`
}

func (c *CollectionInfo) MarshalWire() []byte {
	w := wireWriter{}
	w.message(1, &c.Config)
	w.int32(2, int32(c.Status))
	w.string(3, c.UUID)
	if c.LatestLsnContext != nil {
		w.message(4, c.LatestLsnContext)
	}
	w.varint(5, c.MagicNumber)
	return w.b
}

func (c *CollectionInfo) UnmarshalWire(b []byte) error {
	*c = CollectionInfo{}
	return consumeFields(b, func(f wireField) error {
		switch f.num {
		case 1:
			return c.Config.UnmarshalWire(f.data)
		case 2:
			c.Status = CollectionStatus(f.int32())
		case 3:
			c.UUID = f.string()
		case 4:
			c.LatestLsnContext = &LsnContext{}
			return c.LatestLsnContext.UnmarshalWire(f.data)
		case 5:
			c.MagicNumber = f.uint64()
		}
		return nil
	})
}

// DescribeCollectionResponse answers a describe call
type DescribeCollectionResponse struct {
	Status     Status          `json:"status"`
	Collection *CollectionInfo `json:"collection,omitempty"`
}

func (r *DescribeCollectionResponse) OK() bool { return r.Status.OK() }

func (r *DescribeCollectionResponse) MarshalWire() []byte {
	w := wireWriter{}
	w.status(1, r.Status)
	if r.Collection != nil {
		w.message(2, r.Collection)
	}
	return w.b
}

func (r *DescribeCollectionResponse) UnmarshalWire(b []byte) error {
	*r = DescribeCollectionResponse{}
	return consumeFields(b, func(f wireField) error {
		switch f.num {
		case 1:
			return r.Status.UnmarshalWire(f.data)
		case 2:
			r.Collection = &CollectionInfo{}
			return r.Collection.UnmarshalWire(f.data)
		}
		return nil
	})
}

// ListCondition filters ListCollections by repository. An empty name lists all.
type ListCondition struct {
	RepositoryName string `json:"repository_name,omitempty"`
}

func (c *ListCondition) MarshalWire() []byte {
	w := wireWriter{}
	w.string(1, c.RepositoryName)
	return w.b
}

func (c *ListCondition) UnmarshalWire(b []byte) error {
	*c = ListCondition{}
	return consumeFields(b, func(f wireField) error {
		if f.num == 1 {
			c.RepositoryName = f.string()
		}
		return nil
	})
}

// ListCollectionsResponse answers a list call
type ListCollectionsResponse struct {
	Status      Status           `json:"status"`
	Collections []CollectionInfo `json:"collections,omitempty"`
}

func (r *ListCollectionsResponse) OK() bool { return r.Status.OK() }

func (r *ListCollectionsResponse) MarshalWire() []byte {
	w := wireWriter{}
	w.status(1, r.Status)
	for i := range r.Collections {
		w.message(2, &r.Collections[i])
	}
	return w.b
}

func (r *ListCollectionsResponse) UnmarshalWire(b []byte) error {
	*r = ListCollectionsResponse{}
	return consumeFields(b, func(f wireField) error {
		switch f.num {
		case 1:
			return r.Status.UnmarshalWire(f.data)
		case 2:
			var info CollectionInfo
			if err := info.UnmarshalWire(f.data); err != nil {
				return err
			}
			r.Collections = append(r.Collections, info)
		}
		return nil
	})
}

// SegmentStats describes one storage segment of a collection
type SegmentStats struct {
	SegmentID      uint32 `json:"segment_id"`
	State          int32  `json:"state"`
	DocCount       uint64 `json:"doc_count"`
	IndexFileCount uint64 `json:"index_file_count"`
	IndexFileSize  uint64 `json:"index_file_size"`
	MinDocID       uint64 `json:"min_doc_id"`
	MaxDocID       uint64 `json:"max_doc_id"`
	MinPrimaryKey  uint64 `json:"min_primary_key"`
	MaxPrimaryKey  uint64 `json:"max_primary_key"`
	MinTimestamp   uint64 `json:"min_timestamp"`
	MaxTimestamp   uint64 `json:"max_timestamp"`
	MinLsn         uint64 `json:"min_lsn"`
	MaxLsn         uint64 `json:"max_lsn"`
	SegmentPath    string `json:"segment_path"`
}

func (s *SegmentStats) MarshalWire() []byte {
	w := wireWriter{}
	w.uint32(1, s.SegmentID)
	w.int32(2, s.State)
	w.varint(3, s.DocCount)
	w.varint(4, s.IndexFileCount)
	w.varint(5, s.IndexFileSize)
	w.varint(6, s.MinDocID)
	w.varint(7, s.MaxDocID)
	w.varint(8, s.MinPrimaryKey)
	w.varint(9, s.MaxPrimaryKey)
	w.varint(10, s.MinTimestamp)
	w.varint(11, s.MaxTimestamp)
	w.varint(12, s.MinLsn)
	w.varint(13, s.MaxLsn)
	w.string(14, s.SegmentPath)
	return w.b
}

func (s *SegmentStats) UnmarshalWire(b []byte) error {
	*s = SegmentStats{}
	return consumeFields(b, func(f wireField) error {
		switch f.num {
		case 1:
			s.SegmentID = f.uint32()
		case 2:
			s.State = f.int32()
		case 3:
			s.DocCount = f.uint64()
		case 4:
			s.IndexFileCount = f.uint64()
		case 5:
			s.IndexFileSize = f.uint64()
		case 6:
			s.MinDocID = f.uint64()
		case 7:
			s.MaxDocID = f.uint64()
		case 8:
			s.MinPrimaryKey = f.uint64()
		case 9:
			s.MaxPrimaryKey = f.uint64()
		case 10:
			s.MinTimestamp = f.uint64()
		case 11:
			s.MaxTimestamp = f.uint64()
		case 12:
			s.MinLsn = f.uint64()
		case 13:
			s.MaxLsn = f.uint64()
		case 14:
			s.SegmentPath = f.string()
		}
		return nil
	})
}

// CollectionStats aggregates the segments of a collection
type CollectionStats struct {
	CollectionName      string         `json:"collection_name"`
	CollectionPath      string         `json:"collection_path"`
	TotalDocCount       uint64         `json:"total_doc_count"`
	TotalSegmentCount   uint64         `json:"total_segment_count"`
	TotalIndexFileCount uint64         `json:"total_index_file_count"`
	TotalIndexFileSize  uint64         `json:"total_index_file_size"`
	SegmentStats        []SegmentStats `json:"segment_stats,omitempty"`
}

func (s *CollectionStats) MarshalWire() []byte {
	w := wireWriter{}
	w.string(1, s.CollectionName)
	w.string(2, s.CollectionPath)
	w.varint(3, s.TotalDocCount)
	w.varint(4, s.TotalSegmentCount)
	w.varint(5, s.TotalIndexFileCount)
	w.varint(6, s.TotalIndexFileSize)
	for i := range s.SegmentStats {
		w.message(7, &s.SegmentStats[i])
	}
	return w.b
}

func (s *CollectionStats) UnmarshalWire(b []byte) error {
	*s = CollectionStats{}
	return consumeFields(b, func(f wireField) error {
		switch f.num {
		case 1:
			s.CollectionName = f.string()
		case 2:
			s.CollectionPath = f.string()
		case 3:
			s.TotalDocCount = f.uint64()
		case 4:
			s.TotalSegmentCount = f.uint64()
		case 5:
			s.TotalIndexFileCount = f.uint64()
		case 6:
			s.TotalIndexFileSize = f.uint64()
		case 7:
			var seg SegmentStats
			if err := seg.UnmarshalWire(f.data); err != nil {
				return err
			}
			s.SegmentStats = append(s.SegmentStats, seg)
		}
		return nil
	})
}

// StatsCollectionResponse answers a stats call
type StatsCollectionResponse struct {
	Status          Status           `json:"status"`
	CollectionStats *CollectionStats `json:"collection_stats,omitempty"`
}

func (r *StatsCollectionResponse) OK() bool { return r.Status.OK() }

func (r *StatsCollectionResponse) MarshalWire() []byte {
	w := wireWriter{}
	w.status(1, r.Status)
	if r.CollectionStats != nil {
		w.message(2, r.CollectionStats)
	}
	return w.b
}

func (r *StatsCollectionResponse) UnmarshalWire(b []byte) error {
	*r = StatsCollectionResponse{}
	return consumeFields(b, func(f wireField) error {
		switch f.num {
		case 1:
			return r.Status.UnmarshalWire(f.data)
		case 2:
			r.CollectionStats = &CollectionStats{}
			return r.CollectionStats.UnmarshalWire(f.data)
		}
		return nil
	})
}

// --------------------------------------------------------------------------
// Write
// --------------------------------------------------------------------------

// IndexColumnMeta describes the index values carried by every row of a write
type IndexColumnMeta struct {
	ColumnName string   `json:"column_name"`
	DataType   DataType `json:"data_type"`
	Dimension  uint32   `json:"dimension"`
}

func (m *IndexColumnMeta) MarshalWire() []byte {
	w := wireWriter{}
	w.string(1, m.ColumnName)
	w.int32(2, int32(m.DataType))
	w.uint32(3, m.Dimension)
	return w.b
}

func (m *IndexColumnMeta) UnmarshalWire(b []byte) error {
	*m = IndexColumnMeta{}
	return consumeFields(b, func(f wireField) error {
		switch f.num {
		case 1:
			m.ColumnName = f.string()
		case 2:
			m.DataType = DataType(f.int32())
		case 3:
			m.Dimension = f.uint32()
		}
		return nil
	})
}

// RowMeta is the column layout shared by all rows of a write request
type RowMeta struct {
	IndexColumnMetas   []IndexColumnMeta `json:"index_column_metas"`
	ForwardColumnNames []string          `json:"forward_column_names,omitempty"`
}

func (m *RowMeta) MarshalWire() []byte {
	w := wireWriter{}
	for i := range m.IndexColumnMetas {
		w.message(1, &m.IndexColumnMetas[i])
	}
	for _, name := range m.ForwardColumnNames {
		w.repeatedString(2, name)
	}
	return w.b
}

func (m *RowMeta) UnmarshalWire(b []byte) error {
	*m = RowMeta{}
	return consumeFields(b, func(f wireField) error {
		switch f.num {
		case 1:
			var meta IndexColumnMeta
			if err := meta.UnmarshalWire(f.data); err != nil {
				return err
			}
			m.IndexColumnMetas = append(m.IndexColumnMetas, meta)
		case 2:
			m.ForwardColumnNames = append(m.ForwardColumnNames, f.string())
		}
		return nil
	})
}

// Row is one document change
type Row struct {
	PrimaryKey    uint64            `json:"primary_key"`
	OperationType OperationType     `json:"operation_type"`
	IndexValues   *GenericValueList `json:"index_values,omitempty"`
	ForwardValues *GenericValueList `json:"forward_values,omitempty"`
	LsnContext    *LsnContext       `json:"lsn_context,omitempty"`
}

func (r *Row) MarshalWire() []byte {
	w := wireWriter{}
	w.varint(1, r.PrimaryKey)
	w.int32(2, int32(r.OperationType))
	if r.IndexValues != nil {
		w.message(3, r.IndexValues)
	}
	if r.ForwardValues != nil {
		w.message(4, r.ForwardValues)
	}
	if r.LsnContext != nil {
		w.message(5, r.LsnContext)
	}
	return w.b
}

func (r *Row) UnmarshalWire(b []byte) error {
	*r = Row{}
	return consumeFields(b, func(f wireField) error {
		switch f.num {
		case 1:
			r.PrimaryKey = f.uint64()
		case 2:
			r.OperationType = OperationType(f.int32())
		case 3:
			r.IndexValues = &GenericValueList{}
			return r.IndexValues.UnmarshalWire(f.data)
		case 4:
			r.ForwardValues = &GenericValueList{}
			return r.ForwardValues.UnmarshalWire(f.data)
		case 5:
			r.LsnContext = &LsnContext{}
			return r.LsnContext.UnmarshalWire(f.data)
		}
		return nil
	})
}

// WriteRequest carries a batch of row changes for one collection
type WriteRequest struct {
	CollectionName string   `json:"collection_name"`
	RowMeta        *RowMeta `json:"row_meta,omitempty"`
	Rows           []Row    `json:"rows"`
	RequestID      string   `json:"request_id,omitempty"`
	MagicNumber    uint64   `json:"magic_number,omitempty"`
}

// NewWriteRequest creates a write request with a fresh request id
func NewWriteRequest(collection string, meta *RowMeta, rows ...Row) *WriteRequest {
	return &WriteRequest{
		CollectionName: collection,
		RowMeta:        meta,
		Rows:           rows,
		RequestID:      uuid.NewString(),
	}
}

// NewVectorRowMeta creates the row meta for a single vector column
func NewVectorRowMeta(column string, dataType DataType, dimension uint32, forwardColumns ...string) *RowMeta {
	return &RowMeta{
		IndexColumnMetas: []IndexColumnMeta{{
			ColumnName: column,
			DataType:   dataType,
			Dimension:  dimension,
		}},
		ForwardColumnNames: forwardColumns,
	}
}

func (r *WriteRequest) MarshalWire() []byte {
	w := wireWriter{}
	w.string(1, r.CollectionName)
	if r.RowMeta != nil {
		w.message(2, r.RowMeta)
	}
	for i := range r.Rows {
		w.message(3, &r.Rows[i])
	}
	w.string(4, r.RequestID)
	w.varint(5, r.MagicNumber)
	return w.b
}

func (r *WriteRequest) UnmarshalWire(b []byte) error {
	*r = WriteRequest{}
	return consumeFields(b, func(f wireField) error {
		switch f.num {
		case 1:
			r.CollectionName = f.string()
		case 2:
			r.RowMeta = &RowMeta{}
			return r.RowMeta.UnmarshalWire(f.data)
		case 3:
			var row Row
			if err := row.UnmarshalWire(f.data); err != nil {
				return err
			}
			r.Rows = append(r.Rows, row)
		case 4:
			r.RequestID = f.string()
		case 5:
			r.MagicNumber = f.uint64()
		}
		return nil
	})
}

// --------------------------------------------------------------------------
// Query
// --------------------------------------------------------------------------

// KnnQueryParam is a k-nearest-neighbor search over one column. Features
// holds BatchCount packed vectors; Matrix is the textual alternative
// (e.g. "[[1,2],[3,4]]").
type KnnQueryParam struct {
	ColumnName  string         `json:"column_name"`
	Topk        uint32         `json:"topk"`
	Features    []byte         `json:"features,omitempty"`
	Matrix      string         `json:"matrix,omitempty"`
	BatchCount  uint32         `json:"batch_count"`
	Dimension   uint32         `json:"dimension"`
	DataType    DataType       `json:"data_type"`
	Radius      float32        `json:"radius,omitempty"`
	IsLinear    bool           `json:"is_linear,omitempty"`
	ExtraParams []KeyValuePair `json:"extra_params,omitempty"`
}

func (p *KnnQueryParam) MarshalWire() []byte {
	w := wireWriter{}
	w.string(1, p.ColumnName)
	w.uint32(2, p.Topk)
	w.bytes(3, p.Features)
	w.string(4, p.Matrix)
	w.uint32(5, p.BatchCount)
	w.uint32(6, p.Dimension)
	w.int32(7, int32(p.DataType))
	w.float32(8, p.Radius)
	w.bool(9, p.IsLinear)
	for i := range p.ExtraParams {
		w.message(10, &p.ExtraParams[i])
	}
	return w.b
}

func (p *KnnQueryParam) UnmarshalWire(b []byte) error {
	*p = KnnQueryParam{}
	return consumeFields(b, func(f wireField) error {
		switch f.num {
		case 1:
			p.ColumnName = f.string()
		case 2:
			p.Topk = f.uint32()
		case 3:
			p.Features = f.bytes()
		case 4:
			p.Matrix = f.string()
		case 5:
			p.BatchCount = f.uint32()
		case 6:
			p.Dimension = f.uint32()
		case 7:
			p.DataType = DataType(f.int32())
		case 8:
			p.Radius = f.float32()
		case 9:
			p.IsLinear = f.bool()
		case 10:
			var kv KeyValuePair
			if err := kv.UnmarshalWire(f.data); err != nil {
				return err
			}
			p.ExtraParams = append(p.ExtraParams, kv)
		}
		return nil
	})
}

// QueryRequest is a search against one collection
type QueryRequest struct {
	QueryType      QueryType      `json:"query_type"`
	CollectionName string         `json:"collection_name"`
	DebugMode      bool           `json:"debug_mode,omitempty"`
	KnnParam       *KnnQueryParam `json:"knn_param,omitempty"`
}

// DefaultTopk is the topk of a query when none is given
const DefaultTopk = 100

// NewKnnQuery creates a KNN query for batchCount packed vectors
func NewKnnQuery(collection, column string, topk uint32, features []byte, dataType DataType, dimension, batchCount uint32) *QueryRequest {
	return &QueryRequest{
		QueryType:      QueryTypeKNN,
		CollectionName: collection,
		KnnParam: &KnnQueryParam{
			ColumnName: column,
			Topk:       topk,
			Features:   features,
			BatchCount: batchCount,
			Dimension:  dimension,
			DataType:   dataType,
		},
	}
}

func (r *QueryRequest) MarshalWire() []byte {
	w := wireWriter{}
	w.int32(1, int32(r.QueryType))
	w.string(2, r.CollectionName)
	w.bool(3, r.DebugMode)
	if r.KnnParam != nil {
		w.message(4, r.KnnParam)
	}
	return w.b
}

func (r *QueryRequest) UnmarshalWire(b []byte) error {
	*r = QueryRequest{}
	return consumeFields(b, func(f wireField) error {
		switch f.num {
		case 1:
			r.QueryType = QueryType(f.int32())
		case 2:
			r.CollectionName = f.string()
		case 3:
			r.DebugMode = f.bool()
		case 4:
			r.KnnParam = &KnnQueryParam{}
			return r.KnnParam.UnmarshalWire(f.data)
		}
		return nil
	})
}

// Document is a query or lookup hit
type Document struct {
	PrimaryKey          uint64     `json:"primary_key"`
	Score               float32    `json:"score"`
	ForwardColumnValues []Property `json:"forward_column_values,omitempty"`
}

func (d *Document) MarshalWire() []byte {
	w := wireWriter{}
	w.varint(1, d.PrimaryKey)
	w.float32(2, d.Score)
	for i := range d.ForwardColumnValues {
		w.message(3, &d.ForwardColumnValues[i])
	}
	return w.b
}

func (d *Document) UnmarshalWire(b []byte) error {
	*d = Document{}
	return consumeFields(b, func(f wireField) error {
		switch f.num {
		case 1:
			d.PrimaryKey = f.uint64()
		case 2:
			d.Score = f.float32()
		case 3:
			var p Property
			if err := p.UnmarshalWire(f.data); err != nil {
				return err
			}
			d.ForwardColumnValues = append(d.ForwardColumnValues, p)
		}
		return nil
	})
}

// QueryResult holds the hits of one query vector, best first
type QueryResult struct {
	Documents []Document `json:"documents,omitempty"`
}

func (r *QueryResult) MarshalWire() []byte {
	w := wireWriter{}
	for i := range r.Documents {
		w.message(1, &r.Documents[i])
	}
	return w.b
}

func (r *QueryResult) UnmarshalWire(b []byte) error {
	*r = QueryResult{}
	return consumeFields(b, func(f wireField) error {
		if f.num != 1 {
			return nil
		}
		var d Document
		if err := d.UnmarshalWire(f.data); err != nil {
			return err
		}
		r.Documents = append(r.Documents, d)
		return nil
	})
}

// QueryResponse holds one result per query vector of the batch
type QueryResponse struct {
	Status    Status        `json:"status"`
	DebugInfo string        `json:"debug_info,omitempty"`
	LatencyUs uint64        `json:"latency_us,omitempty"`
	Results   []QueryResult `json:"results,omitempty"`
}

func (r *QueryResponse) OK() bool { return r.Status.OK() }

func (r *QueryResponse) MarshalWire() []byte {
	w := wireWriter{}
	w.status(1, r.Status)
	w.string(2, r.DebugInfo)
	w.varint(3, r.LatencyUs)
	for i := range r.Results {
		w.message(4, &r.Results[i])
	}
	return w.b
}

func (r *QueryResponse) UnmarshalWire(b []byte) error {
	*r = QueryResponse{}
	return consumeFields(b, func(f wireField) error {
		switch f.num {
		case 1:
			return r.Status.UnmarshalWire(f.data)
		case 2:
			r.DebugInfo = f.string()
		case 3:
			r.LatencyUs = f.uint64()
		case 4:
			var res QueryResult
			if err := res.UnmarshalWire(f.data); err != nil {
				return err
			}
			r.Results = append(r.Results, res)
		}
		return nil
	})
}

// --------------------------------------------------------------------------
// Document lookup and version
// --------------------------------------------------------------------------

// GetDocumentRequest looks up one document by primary key
type GetDocumentRequest struct {
	CollectionName string `json:"collection_name"`
	PrimaryKey     uint64 `json:"primary_key"`
	DebugMode      bool   `json:"debug_mode,omitempty"`
}

// NewGetDocumentRequest creates a lookup request
func NewGetDocumentRequest(collection string, key uint64) *GetDocumentRequest {
	return &GetDocumentRequest{CollectionName: collection, PrimaryKey: key}
}

func (r *GetDocumentRequest) MarshalWire() []byte {
	w := wireWriter{}
	w.string(1, r.CollectionName)
	w.varint(2, r.PrimaryKey)
	w.bool(3, r.DebugMode)
	return w.b
}

func (r *GetDocumentRequest) UnmarshalWire(b []byte) error {
	*r = GetDocumentRequest{}
	return consumeFields(b, func(f wireField) error {
		switch f.num {
		case 1:
			r.CollectionName = f.string()
		case 2:
			r.PrimaryKey = f.uint64()
		case 3:
			r.DebugMode = f.bool()
		}
		return nil
	})
}

// GetDocumentResponse answers a lookup. Document is nil when the key is unknown.
type GetDocumentResponse struct {
	Status    Status    `json:"status"`
	DebugInfo string    `json:"debug_info,omitempty"`
	Document  *Document `json:"document,omitempty"`
}

func (r *GetDocumentResponse) OK() bool { return r.Status.OK() }

func (r *GetDocumentResponse) MarshalWire() []byte {
	w := wireWriter{}
	w.status(1, r.Status)
	w.string(2, r.DebugInfo)
	if r.Document != nil {
		w.message(3, r.Document)
	}
	return w.b
}

func (r *GetDocumentResponse) UnmarshalWire(b []byte) error {
	*r = GetDocumentResponse{}
	return consumeFields(b, func(f wireField) error {
		switch f.num {
		case 1:
			return r.Status.UnmarshalWire(f.data)
		case 2:
			r.DebugInfo = f.string()
		case 3:
			r.Document = &Document{}
			return r.Document.UnmarshalWire(f.data)
		}
		return nil
	})
}

// GetVersionRequest asks for the server version. Client is informational.
type GetVersionRequest struct {
	Client string `json:"client,omitempty"`
}

func (r *GetVersionRequest) MarshalWire() []byte {
	w := wireWriter{}
	w.string(1, r.Client)
	return w.b
}

func (r *GetVersionRequest) UnmarshalWire(b []byte) error {
	*r = GetVersionRequest{}
	return consumeFields(b, func(f wireField) error {
		if f.num == 1 {
			r.Client = f.string()
		}
		return nil
	})
}

// GetVersionResponse carries the server version (Major.Minor.Patch[-suffix])
type GetVersionResponse struct {
	Status  Status `json:"status"`
	Version string `json:"version"`
}

func (r *GetVersionResponse) OK() bool { return r.Status.OK() }

func (r *GetVersionResponse) MarshalWire() []byte {
	w := wireWriter{}
	w.status(1, r.Status)
	w.string(2, r.Version)
	return w.b
}

func (r *GetVersionResponse) UnmarshalWire(b []byte) error {
	*r = GetVersionResponse{}
	return consumeFields(b, func(f wireField) error {
		switch f.num {
		case 1:
			return r.Status.UnmarshalWire(f.data)
		case 2:
			r.Version = f.string()
		}
		return nil
	})
}
