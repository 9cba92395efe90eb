package corpus

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ----------------------------------------------------------------------------
// Helper
// ----------------------------------------------------------------------------

// writeVecs2 builds a .vecs2 image with count records of the given dimension.
// Record i has key 1000+i and feature values i*dim+j.
func writeVecs2(count, dimension int, meta []byte) []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, uint64(count))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(meta)))
	buf.Write(meta)
	for i := 0; i < count; i++ {
		v := make([]float32, dimension)
		for j := range v {
			v[j] = float32(i*dimension + j)
		}
		buf.Write(EncodeFP32(v))
	}
	for i := 0; i < count; i++ {
		_ = binary.Write(&buf, binary.LittleEndian, uint64(1000+i))
	}
	return buf.Bytes()
}

// ----------------------------------------------------------------------------
// Text format
// ----------------------------------------------------------------------------

func TestReadText(t *testing.T) {
	input := strings.Join([]string{
		"1;0.5 1.5 2.5",
		"# header without separator",
		"2;1 2 3 4 5",
		"a;b;c;d",
		"3;7 8 9;red large",
		"",
	}, "\n")

	c, err := ReadText(strings.NewReader(input), 3)
	require.NoError(t, err)

	// only key;vector lines are loaded
	require.Equal(t, 2, c.Len())
	assert.Equal(t, []int64{1, 2}, c.Keys)
	assert.Equal(t, EncodeFP32([]float32{0.5, 1.5, 2.5}), c.Features[0])
	// extra floats are ignored
	assert.Equal(t, EncodeFP32([]float32{1, 2, 3}), c.Features[1])
	assert.Nil(t, c.Attrs(0))

	r := c.Record(1)
	assert.Equal(t, int64(2), r.Key)
	assert.Len(t, r.Feature, 12)
}

func TestReadTextWithAttributes(t *testing.T) {
	input := "1;1 2 3\n2;4 5 6;attr\n3;7 8 9;red large\n4;1 1 1;x;y\n"

	c, err := ReadText(strings.NewReader(input), 3)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, c.Keys)

	c, err = ReadText(strings.NewReader(input), 3, WithAttributes())
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, c.Keys)
	assert.Nil(t, c.Attrs(0))
	assert.Equal(t, []string{"attr"}, c.Attrs(1))
	assert.Equal(t, []string{"red", "large"}, c.Attrs(2))
}

func TestReadTextErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{"too few floats", "1;1 2 3\n2;1 2\n", 2},
		{"bad key", "x;1 2 3\n", 1},
		{"bad float", "1;1 two 3\n", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadText(strings.NewReader(tt.input), 3)
			var ferr *FormatError
			require.True(t, errors.As(err, &ferr), "expected FormatError, got %v", err)
			assert.Equal(t, tt.line, ferr.Line)
		})
	}

	_, err := ReadText(strings.NewReader("1;1\n"), 0)
	assert.Error(t, err)
}

func TestReadTextWithRows(t *testing.T) {
	input := "1;1 1\n2;2 2\n3;3 3\n"
	c, err := ReadText(strings.NewReader(input), 2, WithRows(2))
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, c.Keys)
}

// ----------------------------------------------------------------------------
// Binary format
// ----------------------------------------------------------------------------

func TestReadBinary(t *testing.T) {
	data := writeVecs2(3, 2, []byte("meta"))

	c, err := ReadBinary(bytes.NewReader(data), 2)
	require.NoError(t, err)
	require.Equal(t, 3, c.Len())
	assert.Equal(t, []int64{1000, 1001, 1002}, c.Keys)

	v, err := DecodeFP32(c.Features[2])
	require.NoError(t, err)
	assert.Equal(t, []float32{4, 5}, v)
}

func TestReadBinaryShortInput(t *testing.T) {
	data := writeVecs2(3, 2, nil)

	for _, n := range []int{0, 5, 12, 20, len(data) - 1} {
		_, err := ReadBinary(bytes.NewReader(data[:n]), 2)
		var ferr *FormatError
		require.True(t, errors.As(err, &ferr), "len %d: expected FormatError, got %v", n, err)
		assert.True(t, errors.Is(err, io.ErrUnexpectedEOF), "len %d: %v", n, err)
	}
}

func TestReadBinaryWithRowsConsumesWholeFile(t *testing.T) {
	data := append(writeVecs2(5, 4, nil), 0xAA, 0xBB)
	r := bytes.NewReader(data)

	c, err := ReadBinary(r, 4, WithRows(2))
	require.NoError(t, err)
	assert.Equal(t, []int64{1000, 1001}, c.Keys)
	assert.Equal(t, 2, r.Len())
}

// TestReadBinaryWrongDimension documents that the format cannot detect a
// wrong dimension as long as the file is long enough
func TestReadBinaryWrongDimension(t *testing.T) {
	// 2 records of dimension 3 read as dimension 2: the keys are taken from
	// the middle of the feature block
	data := writeVecs2(2, 3, nil)

	c, err := ReadBinary(bytes.NewReader(data), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
	assert.NotEqual(t, int64(1000), c.Keys[0])
}

func TestProperty_BinaryConsumesExactly(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("R records are read and nothing past the key block", prop.ForAll(
		func(count, dimension, metaSize, trailer int) bool {
			data := writeVecs2(count, dimension, make([]byte, metaSize))
			data = append(data, make([]byte, trailer)...)
			r := bytes.NewReader(data)

			c, err := ReadBinary(r, dimension)
			if err != nil || c.Len() != count || r.Len() != trailer {
				return false
			}
			for i := 0; i < count; i++ {
				if c.Keys[i] != int64(1000+i) || len(c.Features[i]) != dimension*4 {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 64),
		gen.IntRange(1, 32),
		gen.IntRange(0, 64),
		gen.IntRange(0, 16),
	))

	properties.TestingRun(t)
}

// ----------------------------------------------------------------------------
// Load
// ----------------------------------------------------------------------------

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	txt := filepath.Join(dir, "data.txt")
	require.NoError(t, os.WriteFile(txt, []byte("7;1 2\n8;3 4\n"), 0o644))
	c, err := Load(txt, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 8}, c.Keys)

	bin := filepath.Join(dir, "data.vecs2")
	require.NoError(t, os.WriteFile(bin, writeVecs2(10, 3, nil), 0o644))
	c, err = Load(bin, 3, WithRows(4))
	require.NoError(t, err)
	assert.Equal(t, 4, c.Len())

	bad := filepath.Join(dir, "short.vecs2")
	require.NoError(t, os.WriteFile(bad, []byte{1, 2, 3}, 0o644))
	_, err = Load(bad, 3)
	var ferr *FormatError
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, bad, ferr.Path)
	assert.Contains(t, err.Error(), bad)

	_, err = Load(filepath.Join(dir, "data.fvecs"), 3)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	_, err = Load(filepath.Join(dir, "missing.txt"), 3)
	assert.Error(t, err)
}
