package bench

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/proxima-be/pxbench/rpc/common"
	"gopkg.in/yaml.v3"
)

// schemaDoc is the --schema document. JSON is valid YAML, so both work:
//
//	{"index_column_params": [{"column_name": "image", "data_type": "VECTOR_FP32", "dimension": 512}]}
type schemaDoc struct {
	MaxDocsPerSegment  uint64        `yaml:"max_docs_per_segment"`
	ForwardColumnNames []string      `yaml:"forward_column_names"`
	IndexColumnParams  []schemaIndex `yaml:"index_column_params"`
	Repository         *struct {
		RepositoryName string `yaml:"repository_name"`
		ConnectionURI  string `yaml:"connection_uri"`
		TableName      string `yaml:"table_name"`
		User           string `yaml:"user"`
		Password       string `yaml:"password"`
	} `yaml:"repository"`
}

type schemaIndex struct {
	ColumnName  string            `yaml:"column_name"`
	IndexType   string            `yaml:"index_type"`
	DataType    string            `yaml:"data_type"`
	Dimension   uint32            `yaml:"dimension"`
	ExtraParams map[string]string `yaml:"extra_params"`
}

// readSchema returns the schema text, a leading @ names a file
func readSchema(schema string) (string, error) {
	schema = strings.TrimSpace(schema)
	if !strings.HasPrefix(schema, "@") {
		return schema, nil
	}
	data, err := os.ReadFile(strings.TrimPrefix(schema, "@"))
	if err != nil {
		return "", fmt.Errorf("read schema: %w", err)
	}
	return string(data), nil
}

// parseSchema builds the config of a new collection from a schema document
func parseSchema(collection, schema string) (*common.CollectionConfig, error) {
	text, err := readSchema(schema)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, errors.New("schema is empty")
	}

	var doc schemaDoc
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	config := common.NewCollectionConfig(collection)
	config.MaxDocsPerSegment = doc.MaxDocsPerSegment
	config.ForwardColumnNames = doc.ForwardColumnNames

	for _, idx := range doc.IndexColumnParams {
		param, err := idx.toParam()
		if err != nil {
			return nil, err
		}
		config.IndexColumnParams = append(config.IndexColumnParams, param)
	}

	if r := doc.Repository; r != nil {
		config.Repository = &common.DatabaseRepository{
			RepositoryName: r.RepositoryName,
			ConnectionURI:  r.ConnectionURI,
			TableName:      r.TableName,
			User:           r.User,
			Password:       r.Password,
		}
	}
	return config, nil
}

func (s schemaIndex) toParam() (common.IndexColumnParam, error) {
	dataType := common.DataTypeVectorFP32
	if s.DataType != "" {
		t, err := common.ParseDataType(s.DataType)
		if err != nil {
			return common.IndexColumnParam{}, fmt.Errorf("column %s: %w", s.ColumnName, err)
		}
		dataType = t
	}

	param := common.NewIndexColumnParam(s.ColumnName, dataType, s.Dimension)
	switch strings.ToUpper(strings.TrimSpace(s.IndexType)) {
	case "", common.IndexTypeProximaGraphIndex.String():
	default:
		return common.IndexColumnParam{}, fmt.Errorf("column %s: unknown index type %q", s.ColumnName, s.IndexType)
	}

	// map order is random, keep the request stable
	keys := make([]string, 0, len(s.ExtraParams))
	for k := range s.ExtraParams {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		param.ExtraParams = append(param.ExtraParams, common.KeyValuePair{Key: k, Value: s.ExtraParams[k]})
	}
	return param, nil
}

// defaultSchema is used by create when no --schema is given: one graph
// indexed FP32 column
func defaultSchema(collection, column string, dimension uint32, forward []string) *common.CollectionConfig {
	config := common.NewCollectionConfig(collection, common.NewIndexColumnParam(column, common.DataTypeVectorFP32, dimension))
	config.ForwardColumnNames = forward
	return config
}
