package client

import (
	"github.com/proxima-be/pxbench/rpc/common"
)

// Request kinds named by validation errors
const (
	reqCollectionConfig = "collection config"
	reqWrite            = "write request"
	reqQuery            = "query request"
	reqGetDocument      = "get document request"
)

// ValidateCollectionConfig checks a config before it is sent to CreateCollection
func ValidateCollectionConfig(config *common.CollectionConfig) error {
	if config == nil || config.CollectionName == "" {
		return common.NewValidationError(reqCollectionConfig, "collection name is empty")
	}
	if len(config.IndexColumnParams) == 0 {
		return common.NewValidationError(reqCollectionConfig, "index column params is empty")
	}
	for _, param := range config.IndexColumnParams {
		switch {
		case param.ColumnName == "":
			return common.NewValidationError(reqCollectionConfig, "index column name is empty")
		case param.IndexType != common.IndexTypeProximaGraphIndex:
			return common.NewValidationError(reqCollectionConfig, "index type is invalid")
		case param.DataType == common.DataTypeUndefined:
			return common.NewValidationError(reqCollectionConfig, "index data type is undefined")
		case param.Dimension == 0:
			return common.NewValidationError(reqCollectionConfig, "index dimension should > 0")
		}
	}

	repo := config.Repository
	if repo == nil {
		return nil
	}
	switch {
	case repo.RepositoryName == "":
		return common.NewValidationError(reqCollectionConfig, "repository name is empty")
	case repo.ConnectionURI == "":
		return common.NewValidationError(reqCollectionConfig, "connection uri is empty")
	case repo.TableName == "":
		return common.NewValidationError(reqCollectionConfig, "table name is empty")
	case repo.User == "":
		return common.NewValidationError(reqCollectionConfig, "user name is empty")
	case repo.Password == "":
		return common.NewValidationError(reqCollectionConfig, "password is empty")
	}
	return nil
}

// ValidateWriteRequest checks a write request. DELETE rows may omit index values.
func ValidateWriteRequest(req *common.WriteRequest) error {
	if req == nil || req.CollectionName == "" {
		return common.NewValidationError(reqWrite, "collection name is empty")
	}
	if req.RowMeta == nil {
		return common.NewValidationError(reqWrite, "row meta is empty")
	}
	if len(req.RowMeta.IndexColumnMetas) == 0 {
		return common.NewValidationError(reqWrite, "index column metas is empty in row meta")
	}
	if len(req.Rows) == 0 {
		return common.NewValidationError(reqWrite, "rows is empty")
	}
	for i := range req.Rows {
		row := &req.Rows[i]
		if row.OperationType != common.OperationDelete && row.IndexValues.Len() == 0 {
			return common.NewValidationError(reqWrite, "index column values is empty in row")
		}
	}
	return nil
}

// ValidateQueryRequest checks a knn query. Either packed features or a
// textual matrix must be present.
func ValidateQueryRequest(req *common.QueryRequest) error {
	if req == nil || req.QueryType != common.QueryTypeKNN {
		return common.NewValidationError(reqQuery, "query type is invalid")
	}
	if req.CollectionName == "" {
		return common.NewValidationError(reqQuery, "collection name is empty")
	}

	param := req.KnnParam
	switch {
	case param == nil:
		return common.NewValidationError(reqQuery, "knn query param is empty")
	case param.ColumnName == "":
		return common.NewValidationError(reqQuery, "column name is empty in knn query param")
	case param.Topk == 0:
		return common.NewValidationError(reqQuery, "topk should > 0 in knn query param")
	case len(param.Features) == 0 && param.Matrix == "":
		return common.NewValidationError(reqQuery, "features is empty in knn query param")
	case param.BatchCount == 0:
		return common.NewValidationError(reqQuery, "batch count should > 0 in knn query param")
	case param.Dimension == 0:
		return common.NewValidationError(reqQuery, "dimension should > 0 in knn query param")
	}
	return nil
}

// ValidateGetDocumentRequest checks a lookup by primary key
func ValidateGetDocumentRequest(req *common.GetDocumentRequest) error {
	if req == nil || req.CollectionName == "" {
		return common.NewValidationError(reqGetDocument, "collection name is empty")
	}
	return nil
}
