package server

import (
	"context"
	"fmt"
	"time"

	"github.com/proxima-be/pxbench/rpc/common"
	"github.com/puzpuzpuz/xsync/v3"
)

// searchService implements IProximaService on in-memory collections
type searchService struct {
	version     string
	collections *xsync.MapOf[string, *collection]
}

func newSearchService(version string) *searchService {
	return &searchService{
		version:     version,
		collections: xsync.NewMapOf[string, *collection](),
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see server.IProximaService)
// --------------------------------------------------------------------------

func (s *searchService) CreateCollection(_ context.Context, req *common.CollectionConfig) (*common.Status, error) {
	if status, valid := checkConfig(req); !valid {
		return &status, nil
	}

	c := newCollection(*req)
	if _, loaded := s.collections.LoadOrStore(req.CollectionName, c); loaded {
		status := engineStatus(CodeDuplicateCollection, "%s", req.CollectionName)
		return &status, nil
	}

	Logger.Infof("Created collection %s (%d index columns, uuid %s)", req.CollectionName, len(req.IndexColumnParams), c.info.UUID)
	status := ok()
	return &status, nil
}

func (s *searchService) DropCollection(_ context.Context, req *common.CollectionName) (*common.Status, error) {
	c, loaded := s.collections.LoadAndDelete(req.CollectionName)
	if !loaded {
		status := engineStatus(CodeInexistentCollection, "%s", req.CollectionName)
		return &status, nil
	}

	c.mu.Lock()
	c.info.Status = common.CollectionDropped
	c.mu.Unlock()

	Logger.Infof("Dropped collection %s", req.CollectionName)
	status := ok()
	return &status, nil
}

func (s *searchService) DescribeCollection(_ context.Context, req *common.CollectionName) (*common.DescribeCollectionResponse, error) {
	c, exists := s.collections.Load(req.CollectionName)
	if !exists {
		return &common.DescribeCollectionResponse{Status: engineStatus(CodeInexistentCollection, "%s", req.CollectionName)}, nil
	}
	info := c.describe()
	return &common.DescribeCollectionResponse{Status: ok(), Collection: &info}, nil
}

func (s *searchService) ListCollections(_ context.Context, req *common.ListCondition) (*common.ListCollectionsResponse, error) {
	var infos []common.CollectionInfo
	s.collections.Range(func(_ string, c *collection) bool {
		info := c.describe()
		if req.RepositoryName != "" && (info.Config.Repository == nil || info.Config.Repository.RepositoryName != req.RepositoryName) {
			return true
		}
		infos = append(infos, info)
		return true
	})
	return &common.ListCollectionsResponse{Status: ok(), Collections: sortedInfos(infos)}, nil
}

func (s *searchService) StatsCollection(_ context.Context, req *common.CollectionName) (*common.StatsCollectionResponse, error) {
	c, exists := s.collections.Load(req.CollectionName)
	if !exists {
		return &common.StatsCollectionResponse{Status: engineStatus(CodeInexistentCollection, "%s", req.CollectionName)}, nil
	}
	stats := c.stats()
	return &common.StatsCollectionResponse{Status: ok(), CollectionStats: &stats}, nil
}

func (s *searchService) Write(_ context.Context, req *common.WriteRequest) (*common.Status, error) {
	c, exists := s.collections.Load(req.CollectionName)
	if !exists {
		status := engineStatus(CodeInexistentCollection, "%s", req.CollectionName)
		return &status, nil
	}
	if req.MagicNumber != 0 && req.MagicNumber != c.info.MagicNumber {
		status := engineStatus(CodeInvalidArgument, "magic number mismatch")
		return &status, nil
	}

	status := c.write(req)
	if !status.OK() {
		Logger.Debugf("write to %s rejected: %s", req.CollectionName, status.Reason)
	}
	return &status, nil
}

func (s *searchService) Query(_ context.Context, req *common.QueryRequest) (*common.QueryResponse, error) {
	start := time.Now()
	if req.QueryType != common.QueryTypeKNN || req.KnnParam == nil {
		return &common.QueryResponse{Status: engineStatus(CodeInvalidQuery, "only knn queries are supported")}, nil
	}

	c, exists := s.collections.Load(req.CollectionName)
	if !exists {
		return &common.QueryResponse{Status: engineStatus(CodeInexistentCollection, "%s", req.CollectionName)}, nil
	}

	results, scanned, status := c.query(req.KnnParam)
	resp := &common.QueryResponse{
		Status:    status,
		Results:   results,
		LatencyUs: uint64(time.Since(start).Microseconds()),
	}
	if req.DebugMode {
		resp.DebugInfo = fmt.Sprintf(`{"scanned": %d, "linear": %t}`, scanned, req.KnnParam.IsLinear)
	}
	return resp, nil
}

func (s *searchService) GetDocumentByKey(_ context.Context, req *common.GetDocumentRequest) (*common.GetDocumentResponse, error) {
	c, exists := s.collections.Load(req.CollectionName)
	if !exists {
		return &common.GetDocumentResponse{Status: engineStatus(CodeInexistentCollection, "%s", req.CollectionName)}, nil
	}

	resp := &common.GetDocumentResponse{Status: ok(), Document: c.get(req.PrimaryKey)}
	if req.DebugMode {
		resp.DebugInfo = fmt.Sprintf(`{"found": %t}`, resp.Document != nil)
	}
	return resp, nil
}

func (s *searchService) GetVersion(_ context.Context, req *common.GetVersionRequest) (*common.GetVersionResponse, error) {
	if req.Client != "" {
		Logger.Debugf("version requested by %s", req.Client)
	}
	return &common.GetVersionResponse{Status: ok(), Version: s.version}, nil
}
