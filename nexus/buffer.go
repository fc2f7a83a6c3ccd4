package nexus

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/robert-malhotra/go-nexus/dtype"
	"github.com/robert-malhotra/go-nexus/storage"
)

// Buffer is an N-dimensional block of typed values in row-major order.
//
// Numeric data is held in the slice type of its kind ([]int16 for Int16 and
// so on). Char data is held either as one string per element ([]string) or
// as raw text bytes ([]byte), in which case every byte is an element and the
// last axis is the text axis.
//
// A signed integer buffer may carry an unsigned flag, which reinterprets its
// values as the unsigned kind of the same width without copying.
type Buffer struct {
	dims     []int
	kind     dtype.Kind
	unsigned bool
	data     any
	name     string
	released bool

	// ChunkDims and Compression are layout hints honoured by CreateData.
	ChunkDims   []int
	Compression storage.Compression
}

// NewBuffer wraps values, a slice of a supported element type, as a buffer of
// shape dims. []byte is taken as Uint8; use NewText for raw text.
func NewBuffer(dims []int, values any) (*Buffer, error) {
	kind, err := dtype.KindOf(values)
	if err != nil {
		return nil, err
	}
	if err := checkDims(dims, dtype.Len(values)); err != nil {
		return nil, err
	}
	return &Buffer{dims: slices.Clone(dims), kind: kind, data: values}, nil
}

// NewStrings wraps one string per element as a Char buffer.
func NewStrings(dims []int, values []string) (*Buffer, error) {
	if err := checkDims(dims, len(values)); err != nil {
		return nil, err
	}
	return &Buffer{dims: slices.Clone(dims), kind: dtype.Char, data: values}, nil
}

// NewText holds the UTF-8 bytes of s as a rank-1 Char buffer.
func NewText(s string) *Buffer {
	raw := []byte(s)
	return &Buffer{dims: []int{len(raw)}, kind: dtype.Char, data: raw}
}

// NewFixedText holds the UTF-8 bytes of s in exactly length bytes, truncated
// or zero padded.
func NewFixedText(length int, s string) *Buffer {
	length = max(length, 0)
	raw := make([]byte, length)
	copy(raw, s)
	return &Buffer{dims: []int{length}, kind: dtype.Char, data: raw}
}

// Zeros allocates a zeroed buffer. Char buffers hold empty strings.
func Zeros(kind dtype.Kind, dims []int) (*Buffer, error) {
	values, err := dtype.MakeSlice(kind, product(dims))
	if err != nil {
		return nil, err
	}
	return &Buffer{dims: slices.Clone(dims), kind: kind, data: values}, nil
}

func checkDims(dims []int, n int) error {
	for _, d := range dims {
		if d < 0 {
			return fmt.Errorf("%w: negative dimension in %v", ErrSizeMismatch, dims)
		}
	}
	if product(dims) != n {
		return fmt.Errorf("%w: %d elements for shape %v", ErrSizeMismatch, n, dims)
	}
	return nil
}

func product(dims []int) int {
	n := 1
	for _, d := range dims {
		n *= d
	}
	return n
}

// Kind returns the element kind, promoted to its unsigned variant when the
// unsigned flag is set.
func (b *Buffer) Kind() dtype.Kind {
	if b.unsigned {
		if k, err := b.kind.Unsigned(); err == nil {
			return k
		}
	}
	return b.kind
}

// SetUnsigned marks an integer buffer as holding unsigned values.
func (b *Buffer) SetUnsigned() error {
	if !b.kind.IsInteger() {
		return fmt.Errorf("%w: cannot make %s unsigned", ErrUnsupportedConfiguration, b.kind)
	}
	b.unsigned = !b.kind.IsUnsigned()
	return nil
}

// IsChar reports whether the buffer holds text.
func (b *Buffer) IsChar() bool {
	return b.kind == dtype.Char
}

func (b *Buffer) Dims() []int {
	return slices.Clone(b.dims)
}

func (b *Buffer) Rank() int {
	return len(b.dims)
}

// Size returns the number of elements.
func (b *Buffer) Size() int {
	return product(b.dims)
}

func (b *Buffer) Name() string {
	return b.name
}

func (b *Buffer) SetName(name string) {
	b.name = name
}

// Data returns the backing slice, or nil once released.
func (b *Buffer) Data() any {
	return b.data
}

// Release hands the backing slice to the caller and clears the buffer.
func (b *Buffer) Release() any {
	data := b.data
	b.data = nil
	b.released = true
	return data
}

// Released reports whether Release has been called.
func (b *Buffer) Released() bool {
	return b.released
}

// Reshape changes the shape without moving data.
func (b *Buffer) Reshape(dims []int) error {
	if err := checkDims(dims, b.Size()); err != nil {
		return err
	}
	b.dims = slices.Clone(dims)
	return nil
}

// values returns the data in the Go type of Kind(), converting signed data
// that carries the unsigned flag.
func (b *Buffer) values() (any, error) {
	if b.data == nil {
		return nil, fmt.Errorf("buffer %q has no data", b.name)
	}
	if b.unsigned {
		return dtype.Cast(b.data, b.Kind())
	}
	return b.data, nil
}

// Strings returns the text of a Char buffer, one string per element. Raw
// text bytes are split along the last axis, each slot cut at its first NUL.
func (b *Buffer) Strings() ([]string, error) {
	if !b.IsChar() {
		return nil, fmt.Errorf("%w: %s buffer holds no text", ErrFormatMismatch, b.kind)
	}
	switch v := b.data.(type) {
	case []string:
		return slices.Clone(v), nil
	case []byte:
		if len(b.dims) == 0 {
			return []string{trimText(v)}, nil
		}
		width := b.dims[len(b.dims)-1]
		if width == 0 {
			return make([]string, product(b.dims[:len(b.dims)-1])), nil
		}
		return dtype.DecodeText(v, width)
	case nil:
		return nil, fmt.Errorf("buffer %q has no data", b.name)
	default:
		return nil, fmt.Errorf("%w: char buffer holds %T", ErrFormatMismatch, b.data)
	}
}

func trimText(raw []byte) string {
	if n := bytes.IndexByte(raw, 0); n >= 0 {
		raw = raw[:n]
	}
	return string(raw)
}

// textDims returns the shape of the strings a Char buffer holds, dropping
// the text axis of raw text.
func (b *Buffer) textDims() []int {
	if _, ok := b.data.([]byte); ok && len(b.dims) > 0 {
		return b.dims[:len(b.dims)-1]
	}
	return b.dims
}

// At returns the element at a multi-index, converted to the Go type of
// Kind(). Raw text elements are single bytes.
func (b *Buffer) At(index ...int) (any, error) {
	if len(index) != len(b.dims) {
		return nil, fmt.Errorf("%w: %d indices for shape %v", ErrRankMismatch, len(index), b.dims)
	}
	flat := 0
	for i, x := range index {
		if x < 0 || x >= b.dims[i] {
			return nil, fmt.Errorf("%w: index %v outside shape %v", ErrInvalidRegion, index, b.dims)
		}
		flat = flat*b.dims[i] + x
	}
	values, err := b.values()
	if err != nil {
		return nil, err
	}
	return dtype.Element(values, flat)
}

// FirstValue returns the first element widened for display: text as string,
// floats as float64, 8 and 16 bit integers as int32 or uint32. It reports
// false when the buffer is empty or released.
func (b *Buffer) FirstValue() (any, bool) {
	if len(b.dims) == 0 || b.dims[0] < 1 || dtype.Len(b.data) < 1 {
		return nil, false
	}
	if b.IsChar() {
		if raw, ok := b.data.([]byte); ok {
			return trimText(raw), true
		}
		if s, ok := b.data.([]string); ok {
			return s[0], true
		}
		return nil, false
	}
	values, err := b.values()
	if err != nil {
		return nil, false
	}
	v, err := dtype.Element(values, 0)
	if err != nil {
		return nil, false
	}
	switch x := v.(type) {
	case int8:
		return int32(x), true
	case int16:
		return int32(x), true
	case uint8:
		return uint32(x), true
	case uint16:
		return uint32(x), true
	case float32:
		return float64(x), true
	default:
		return x, true
	}
}
