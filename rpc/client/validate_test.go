package client

import (
	"testing"

	"github.com/proxima-be/pxbench/rpc/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkValidation(t *testing.T, err error, reason string) {
	t.Helper()
	if reason == "" {
		assert.NoError(t, err)
		return
	}
	var verr *common.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, reason, verr.Reason)
}

func TestValidateCollectionConfig(t *testing.T) {
	column := func(mod func(*common.IndexColumnParam)) *common.CollectionConfig {
		p := common.NewIndexColumnParam("feature", common.DataTypeVectorFP32, 8)
		mod(&p)
		return common.NewCollectionConfig("c", p)
	}
	repo := func(mod func(*common.DatabaseRepository)) *common.CollectionConfig {
		config := common.NewCollectionConfig("c", common.NewIndexColumnParam("feature", common.DataTypeVectorFP32, 8))
		config.Repository = &common.DatabaseRepository{
			RepositoryName: "mysql",
			ConnectionURI:  "mysql://localhost:3306/db",
			TableName:      "items",
			User:           "root",
			Password:       "secret",
		}
		mod(config.Repository)
		return config
	}

	tests := []struct {
		name   string
		config *common.CollectionConfig
		reason string
	}{
		{"valid", column(func(*common.IndexColumnParam) {}), ""},
		{"valid with repository", repo(func(*common.DatabaseRepository) {}), ""},
		{"nil", nil, "collection name is empty"},
		{"no name", common.NewCollectionConfig("", common.NewIndexColumnParam("f", common.DataTypeVectorFP32, 8)), "collection name is empty"},
		{"no params", common.NewCollectionConfig("c"), "index column params is empty"},
		{"no column", column(func(p *common.IndexColumnParam) { p.ColumnName = "" }), "index column name is empty"},
		{"index type", column(func(p *common.IndexColumnParam) { p.IndexType = common.IndexTypeUndefined }), "index type is invalid"},
		{"data type", column(func(p *common.IndexColumnParam) { p.DataType = common.DataTypeUndefined }), "index data type is undefined"},
		{"dimension", column(func(p *common.IndexColumnParam) { p.Dimension = 0 }), "index dimension should > 0"},
		{"repository name", repo(func(r *common.DatabaseRepository) { r.RepositoryName = "" }), "repository name is empty"},
		{"connection uri", repo(func(r *common.DatabaseRepository) { r.ConnectionURI = "" }), "connection uri is empty"},
		{"table", repo(func(r *common.DatabaseRepository) { r.TableName = "" }), "table name is empty"},
		{"user", repo(func(r *common.DatabaseRepository) { r.User = "" }), "user name is empty"},
		{"password", repo(func(r *common.DatabaseRepository) { r.Password = "" }), "password is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkValidation(t, ValidateCollectionConfig(tt.config), tt.reason)
		})
	}
}

func TestValidateWriteRequest(t *testing.T) {
	meta := common.NewVectorRowMeta("feature", common.DataTypeVectorFP32, 2)
	insert := common.Row{PrimaryKey: 1, IndexValues: common.NewGenericValueList(common.StringValue("[1,2]"))}
	remove := common.Row{PrimaryKey: 2, OperationType: common.OperationDelete}
	update := common.Row{PrimaryKey: 3, OperationType: common.OperationUpdate}

	tests := []struct {
		name   string
		req    *common.WriteRequest
		reason string
	}{
		{"valid", common.NewWriteRequest("c", meta, insert), ""},
		{"delete only", common.NewWriteRequest("c", meta, remove), ""},
		{"nil", nil, "collection name is empty"},
		{"no collection", common.NewWriteRequest("", meta, insert), "collection name is empty"},
		{"no meta", common.NewWriteRequest("c", nil, insert), "row meta is empty"},
		{"empty meta", common.NewWriteRequest("c", &common.RowMeta{}, insert), "index column metas is empty in row meta"},
		{"no rows", common.NewWriteRequest("c", meta), "rows is empty"},
		{"update without values", common.NewWriteRequest("c", meta, insert, update), "index column values is empty in row"},
		{"insert with empty list", common.NewWriteRequest("c", meta, common.Row{IndexValues: common.NewGenericValueList()}), "index column values is empty in row"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkValidation(t, ValidateWriteRequest(tt.req), tt.reason)
		})
	}
}

func TestValidateQueryRequest(t *testing.T) {
	query := func(mod func(*common.QueryRequest)) *common.QueryRequest {
		req := common.NewKnnQuery("c", "feature", 10, []byte{0, 0, 128, 63}, common.DataTypeVectorFP32, 1, 1)
		mod(req)
		return req
	}

	tests := []struct {
		name   string
		req    *common.QueryRequest
		reason string
	}{
		{"valid", query(func(*common.QueryRequest) {}), ""},
		{"matrix instead of features", query(func(r *common.QueryRequest) {
			r.KnnParam.Features = nil
			r.KnnParam.Matrix = "[[1]]"
		}), ""},
		{"nil", nil, "query type is invalid"},
		{"query type", query(func(r *common.QueryRequest) { r.QueryType = 7 }), "query type is invalid"},
		{"collection", query(func(r *common.QueryRequest) { r.CollectionName = "" }), "collection name is empty"},
		{"no param", query(func(r *common.QueryRequest) { r.KnnParam = nil }), "knn query param is empty"},
		{"column", query(func(r *common.QueryRequest) { r.KnnParam.ColumnName = "" }), "column name is empty in knn query param"},
		{"topk", query(func(r *common.QueryRequest) { r.KnnParam.Topk = 0 }), "topk should > 0 in knn query param"},
		{"features", query(func(r *common.QueryRequest) { r.KnnParam.Features = nil }), "features is empty in knn query param"},
		{"batch", query(func(r *common.QueryRequest) { r.KnnParam.BatchCount = 0 }), "batch count should > 0 in knn query param"},
		{"dimension", query(func(r *common.QueryRequest) { r.KnnParam.Dimension = 0 }), "dimension should > 0 in knn query param"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkValidation(t, ValidateQueryRequest(tt.req), tt.reason)
		})
	}
}

func TestValidateGetDocumentRequest(t *testing.T) {
	checkValidation(t, ValidateGetDocumentRequest(common.NewGetDocumentRequest("c", 0)), "")
	checkValidation(t, ValidateGetDocumentRequest(common.NewGetDocumentRequest("", 1)), "collection name is empty")
	checkValidation(t, ValidateGetDocumentRequest(nil), "collection name is empty")
}
