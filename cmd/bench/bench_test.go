package bench

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/proxima-be/pxbench/lib/corpus"
	"github.com/proxima-be/pxbench/rpc/client"
	"github.com/proxima-be/pxbench/rpc/common"
	"github.com/proxima-be/pxbench/rpc/server/servertest"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings(t *testing.T) {
	base := map[string]any{
		"command":     "insert",
		"address":     "localhost:16000",
		"timeout":     1,
		"collection":  "items",
		"column":      "feature",
		"file":        "vectors.txt",
		"concurrency": 4,
		"dimension":   8,
		"close-wait":  3,
	}

	tests := []struct {
		name    string
		changes map[string]any
		wantErr string
	}{
		{"valid", nil, ""},
		{"missing command", map[string]any{"command": ""}, "command is required"},
		{"unknown command", map[string]any{"command": "explode"}, "unknown command explode"},
		{"missing address", map[string]any{"address": ""}, "address is required"},
		{"invalid address", map[string]any{"address": "localhost"}, "invalid address"},
		{"missing collection", map[string]any{"collection": ""}, "collection is required"},
		{"list without collection", map[string]any{"command": "list", "collection": ""}, ""},
		{"missing file", map[string]any{"file": ""}, "file is required"},
		{"missing column", map[string]any{"column": ""}, "column is required"},
		{"collection command without file", map[string]any{"command": "describe", "file": ""}, ""},
		{"create without column", map[string]any{"command": "create", "column": ""}, "schema or a column"},
		{"create with schema", map[string]any{"command": "create", "column": "", "schema": "{}"}, ""},
		{"zero concurrency", map[string]any{"concurrency": 0}, "concurrency"},
		{"zero dimension", map[string]any{"dimension": 0}, "dimension"},
		{"command case", map[string]any{"command": " Search "}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			t.Cleanup(viper.Reset)
			for k, v := range base {
				viper.Set(k, v)
			}
			for k, v := range tt.changes {
				viper.Set(k, v)
			}

			s, err := loadSettings()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "localhost:16000", s.param.Address())
			assert.Equal(t, 3*time.Second, s.closeWait)
		})
	}
}

func dialOne(t *testing.T, h *servertest.Harness) *client.Pool {
	t.Helper()
	pool, err := client.NewPool(context.Background(), h.Param("binary"), 2, client.WithDialOptions(h.DialOption()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Close(context.Background(), time.Second) })
	return pool
}

func TestCollectionCommands(t *testing.T) {
	h := servertest.Start(t, common.ServerConfig{})
	c := dialOne(t, h).Get(0)
	ctx := context.Background()

	exec := func(s settings) (string, error) {
		var out bytes.Buffer
		err := runCollection(ctx, &out, c, s)
		return out.String(), err
	}
	s := settings{collection: "items", column: "feature", dimension: 4, forward: []string{"title"}}

	s.command = commandCreate
	out, err := exec(s)
	require.NoError(t, err)
	assert.Equal(t, "created collection items\n", out)

	_, err = exec(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "code -4000")

	s.command = commandDescribe
	out, err = exec(s)
	require.NoError(t, err)
	assert.Contains(t, out, "COLLECTION ITEMS")
	assert.Contains(t, out, "INDEX COLUMN FEATURE")
	assert.Contains(t, out, "VECTOR_FP32")
	assert.Contains(t, out, "SERVING")

	s.command = commandList
	out, err = exec(s)
	require.NoError(t, err)
	assert.Contains(t, out, "items")

	meta := common.NewVectorRowMeta("feature", common.DataTypeVectorFP32, 4, "title")
	row := common.Row{
		PrimaryKey:    7,
		IndexValues:   common.NewGenericValueList(common.BytesValue(corpus.EncodeFP32([]float32{1, 2, 3, 4}))),
		ForwardValues: common.NewGenericValueList(common.StringValue("seven")),
	}
	st, err := c.Write(ctx, common.NewWriteRequest("items", meta, row))
	require.NoError(t, err)
	require.True(t, st.OK(), st.String())

	s.command = commandStats
	out, err = exec(s)
	require.NoError(t, err)
	assert.Contains(t, out, "STATS ITEMS")
	assert.Regexp(t, `Documents\s+: 1`, out)

	s.command = commandGet
	s.key = 7
	out, err = exec(s)
	require.NoError(t, err)
	assert.Contains(t, out, "DOCUMENT 7")
	assert.Regexp(t, `title\s+: seven`, out)

	s.key = 8
	out, err = exec(s)
	require.NoError(t, err)
	assert.Equal(t, "document 8 not found\n", out)

	s.command = commandDrop
	out, err = exec(s)
	require.NoError(t, err)
	assert.Equal(t, "dropped collection items\n", out)

	_, err = exec(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "code -4002")

	s.command = commandList
	out, err = exec(s)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCreateValidationError(t *testing.T) {
	h := servertest.Start(t, common.ServerConfig{})
	c := dialOne(t, h).Get(0)

	s := settings{command: commandCreate, collection: "items", schema: `{"index_column_params": [{"column_name": "f"}]}`}
	err := runCollection(context.Background(), &bytes.Buffer{}, c, s)
	require.Error(t, err)

	var verr *common.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "index dimension should > 0", verr.Reason)
}

func TestBenchmarkCommands(t *testing.T) {
	h := servertest.Start(t, common.ServerConfig{})
	pool := dialOne(t, h)
	ctx := context.Background()
	dir := t.TempDir()

	var lines []string
	for i := 1; i <= 200; i++ {
		lines = append(lines, fmt.Sprintf("%d;%d %d %d %d;name-%d", i, i, i%7, i%13, i%3, i))
	}
	file := filepath.Join(dir, "vectors.txt")
	require.NoError(t, os.WriteFile(file, []byte(strings.Join(lines, "\n")+"\n"), 0o644))

	s := settings{
		command:    commandCreate,
		collection: "items",
		column:     "feature",
		dimension:  4,
		topk:       5,
		forward:    []string{"name"},
		param:      h.Param("binary"),
	}

	plain, err := corpus.Load(file, 4)
	require.NoError(t, err)
	require.Zero(t, plain.Len())

	records, err := corpus.Load(file, 4, s.corpusOptions()...)
	require.NoError(t, err)
	require.Equal(t, 200, records.Len())
	require.NoError(t, runCollection(ctx, &bytes.Buffer{}, pool.Get(0), s))

	s.command = "insert"
	s.perf = true
	s.metrics = true
	s.csv = filepath.Join(dir, "insert.csv")
	var out bytes.Buffer
	require.NoError(t, runBenchmark(ctx, &out, pool, records, s))
	assert.Regexp(t, `Build Qps: \d+`, out.String())
	assert.Contains(t, out.String(), "Process count  : 200")
	assert.Contains(t, out.String(), `pxbench_requests_total{command="insert",code="0"} 200`)

	csvData, err := os.ReadFile(s.csv)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(csvData), "Command,Records,Workers"))

	s.command = "recall"
	s.perf = false
	s.metrics = false
	s.csv = ""
	out.Reset()
	require.NoError(t, runBenchmark(ctx, &out, pool, records, s))
	assert.Contains(t, out.String(), "Search Qps: ")
	assert.Contains(t, out.String(), "Recall @1: 1\n")
	assert.Contains(t, out.String(), "Recall @5: 1\n")

	s.command = commandGet
	s.key = 42
	out.Reset()
	require.NoError(t, runCollection(ctx, &out, pool.Get(1), s))
	assert.Regexp(t, `name\s+: name-42`, out.String())
}

func TestCorpusOptions(t *testing.T) {
	input := "1;1 2\n2;3 4;red\n"

	c, err := corpus.ReadText(strings.NewReader(input), 2, settings{}.corpusOptions()...)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, c.Keys)

	c, err = corpus.ReadText(strings.NewReader(input), 2, settings{forward: []string{"color"}, rows: 1}.corpusOptions()...)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, c.Keys)

	c, err = corpus.ReadText(strings.NewReader(input), 2, settings{forward: []string{"color"}}.corpusOptions()...)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, c.Keys)
	assert.Equal(t, []string{"red"}, c.Attrs(1))
}

func TestBenchmarkInvalidOptions(t *testing.T) {
	h := servertest.Start(t, common.ServerConfig{})
	pool := dialOne(t, h)

	records := &corpus.Corpus{Dimension: 4}
	err := runBenchmark(context.Background(), &bytes.Buffer{}, pool, records, settings{command: "search", collection: "items"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "column is required")
}
