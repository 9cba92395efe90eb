package corpus

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("corpus")

// ErrUnsupportedFormat is returned by Load for unknown file suffixes
var ErrUnsupportedFormat = errors.New("unsupported corpus format")

// maxLineSize bounds a single text line (a 4096 dimensional vector with
// long float literals still fits)
const maxLineSize = 16 << 20

// --------------------------------------------------------------------------
// Types
// --------------------------------------------------------------------------

// Record is a single vector with its primary key
type Record struct {
	Key     int64
	Feature []byte
}

// Corpus is a loaded data set. Features[i] belongs to Keys[i] and has
// Dimension*4 bytes.
type Corpus struct {
	Dimension  int
	Keys       []int64
	Features   [][]byte
	Attributes [][]string
}

// Len returns the number of records
func (c *Corpus) Len() int {
	return len(c.Keys)
}

// Record returns the i-th record
func (c *Corpus) Record(i int) Record {
	return Record{Key: c.Keys[i], Feature: c.Features[i]}
}

// Attrs returns the forward attributes of the i-th record, nil if there are none
func (c *Corpus) Attrs(i int) []string {
	if i >= len(c.Attributes) {
		return nil
	}
	return c.Attributes[i]
}

func (c *Corpus) add(key int64, feature []byte, attrs []string) {
	c.Keys = append(c.Keys, key)
	c.Features = append(c.Features, feature)
	c.Attributes = append(c.Attributes, attrs)
}

// FormatError reports a malformed corpus. Line is 0 for binary files.
type FormatError struct {
	Path string
	Line int
	Err  error
}

func (e *FormatError) Error() string {
	where := e.Path
	if where == "" {
		where = "corpus"
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %v", where, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", where, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// --------------------------------------------------------------------------
// Options
// --------------------------------------------------------------------------

type options struct {
	rows       int
	attributes bool
}

// Option configures a read
type Option func(*options)

// WithRows limits the number of records loaded, 0 loads all
func WithRows(n int) Option {
	return func(o *options) {
		o.rows = n
	}
}

// WithAttributes accepts text lines with a third segment of space separated
// forward attributes. Without it such lines are skipped like any other line
// that is not exactly key;vector.
func WithAttributes() Option {
	return func(o *options) {
		o.attributes = true
	}
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// limit reports whether n records already satisfy the row limit
func (o options) limit(n int) bool {
	return o.rows > 0 && n >= o.rows
}

// --------------------------------------------------------------------------
// Loading
// --------------------------------------------------------------------------

// Load reads the corpus at path, the format is chosen by suffix
func Load(path string, dimension int, opts ...Option) (*Corpus, error) {
	var read func(io.Reader, int, ...Option) (*Corpus, error)
	switch {
	case strings.HasSuffix(path, ".txt"):
		read = ReadText
	case strings.HasSuffix(path, ".vecs2"):
		read = ReadBinary
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus: %w", err)
	}
	defer f.Close()

	c, err := read(bufio.NewReaderSize(f, 1<<20), dimension, opts...)
	if err != nil {
		var ferr *FormatError
		if errors.As(err, &ferr) {
			ferr.Path = path
		}
		return nil, err
	}

	Logger.Infof("Loaded %d records of dimension %d from %s", c.Len(), dimension, path)
	return c, nil
}

// ReadText parses the text format from r
func ReadText(r io.Reader, dimension int, opts ...Option) (*Corpus, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("dimension must be positive, got %d", dimension)
	}
	o := buildOptions(opts)
	c := &Corpus{Dimension: dimension}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for !o.limit(c.Len()) && scanner.Scan() {
		line++
		fields := strings.Split(scanner.Text(), ";")
		if len(fields) != 2 && (!o.attributes || len(fields) != 3) {
			Logger.Debugf("skipping line %d with %d fields", line, len(fields))
			continue
		}

		key, err := strconv.ParseInt(strings.TrimSpace(fields[0]), 10, 64)
		if err != nil {
			return nil, &FormatError{Line: line, Err: fmt.Errorf("invalid key: %w", err)}
		}

		tokens := strings.Fields(fields[1])
		if len(tokens) < dimension {
			return nil, &FormatError{Line: line, Err: fmt.Errorf("expected %d floats, got %d", dimension, len(tokens))}
		}
		vector := make([]float32, dimension)
		for i := range vector {
			v, err := strconv.ParseFloat(tokens[i], 32)
			if err != nil {
				return nil, &FormatError{Line: line, Err: fmt.Errorf("invalid float %q: %w", tokens[i], err)}
			}
			vector[i] = float32(v)
		}

		var attrs []string
		if len(fields) == 3 {
			attrs = strings.Fields(fields[2])
		}
		c.add(key, EncodeFP32(vector), attrs)
	}
	if err := scanner.Err(); err != nil {
		return nil, &FormatError{Line: line + 1, Err: err}
	}

	return c, nil
}

// ReadBinary parses the .vecs2 format from r. It consumes exactly the
// header, meta block, features and keys, nothing beyond.
func ReadBinary(r io.Reader, dimension int, opts ...Option) (*Corpus, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("dimension must be positive, got %d", dimension)
	}
	o := buildOptions(opts)

	var header [12]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, &FormatError{Err: fmt.Errorf("short header: %w", unexpected(err))}
	}
	count := binary.LittleEndian.Uint64(header[0:8])
	metaSize := binary.LittleEndian.Uint32(header[8:12])

	if err := skip(r, int64(metaSize)); err != nil {
		return nil, &FormatError{Err: fmt.Errorf("short meta block: %w", err)}
	}

	rowSize := dimension * 4
	if count > uint64(math.MaxInt64/int64(rowSize+8)) {
		return nil, &FormatError{Err: fmt.Errorf("record count %d out of range", count)}
	}

	keep := count
	if o.rows > 0 && uint64(o.rows) < keep {
		keep = uint64(o.rows)
	}

	c := &Corpus{
		Dimension: dimension,
		Features:  make([][]byte, 0, capHint(keep)),
	}

	for i := uint64(0); i < keep; i++ {
		feature := make([]byte, rowSize)
		if _, err := io.ReadFull(r, feature); err != nil {
			return nil, &FormatError{Err: fmt.Errorf("short feature block at record %d: %w", i, unexpected(err))}
		}
		c.Features = append(c.Features, feature)
	}
	if err := skip(r, int64(count-keep)*int64(rowSize)); err != nil {
		return nil, &FormatError{Err: fmt.Errorf("short feature block: %w", err)}
	}

	c.Keys = make([]int64, 0, capHint(keep))
	var buf [8]byte
	for i := uint64(0); i < keep; i++ {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, &FormatError{Err: fmt.Errorf("short key block at record %d: %w", i, unexpected(err))}
		}
		c.Keys = append(c.Keys, int64(binary.LittleEndian.Uint64(buf[:])))
	}
	if err := skip(r, int64(count-keep)*8); err != nil {
		return nil, &FormatError{Err: fmt.Errorf("short key block: %w", err)}
	}

	c.Attributes = make([][]string, len(c.Keys))
	return c, nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// skip discards exactly n bytes
func skip(r io.Reader, n int64) error {
	if n <= 0 {
		return nil
	}
	if _, err := io.CopyN(io.Discard, r, n); err != nil {
		return unexpected(err)
	}
	return nil
}

// unexpected turns a plain EOF in the middle of a file into ErrUnexpectedEOF
func unexpected(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

// capHint bounds preallocation, the header count is untrusted
func capHint(n uint64) int {
	const max = 1 << 20
	if n > max {
		return max
	}
	return int(n)
}
