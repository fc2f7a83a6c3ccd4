package storage

import "fmt"

// DatasetOption configures dataset creation options.
type DatasetOption func(*DatasetOptions)

// DatasetOptions holds the resolved dataset creation options. Backends obtain
// it through NewDatasetOptions.
type DatasetOptions struct {
	Chunks      []uint64
	MaxDims     []uint64
	Compression Compression
	Level       int
	Shuffle     bool
	Fletcher32  bool
	Checksum    bool
}

// NewDatasetOptions applies opts to the defaults: no chunk shape (the backend
// picks one), max dims equal to the initial dims, no filters.
func NewDatasetOptions(opts ...DatasetOption) DatasetOptions {
	var o DatasetOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Validate checks the options against the initial dims of a dataset and
// fills in MaxDims when unset.
func (o *DatasetOptions) Validate(dims []uint64) error {
	if o.MaxDims == nil {
		o.MaxDims = append([]uint64(nil), dims...)
	}
	if len(o.MaxDims) != len(dims) {
		return fmt.Errorf("%w: %d max dims for rank %d", ErrShape, len(o.MaxDims), len(dims))
	}
	for d, m := range o.MaxDims {
		if m != 0 && m < dims[d] {
			return fmt.Errorf("%w: max dim %d below dim %d on axis %d", ErrShape, m, dims[d], d)
		}
	}
	if o.Chunks != nil {
		if len(o.Chunks) != len(dims) {
			return fmt.Errorf("%w: %d chunk dims for rank %d", ErrShape, len(o.Chunks), len(dims))
		}
		for d, c := range o.Chunks {
			if c == 0 {
				return fmt.Errorf("%w: zero chunk dim on axis %d", ErrShape, d)
			}
		}
	}
	if !o.Compression.Valid() {
		return fmt.Errorf("%w: %s", ErrUnsupported, o.Compression)
	}
	return nil
}

// Unlimited reports whether any axis has no maximum.
func (o DatasetOptions) Unlimited() bool {
	for _, m := range o.MaxDims {
		if m == 0 {
			return true
		}
	}
	return false
}

// WithChunks sets the chunk dimensions for a chunked dataset.
func WithChunks(dims ...uint64) DatasetOption {
	return func(o *DatasetOptions) {
		o.Chunks = dims
	}
}

// WithMaxDims sets the maximum dimensions for a resizable dataset.
// Use 0 for unlimited dimension.
func WithMaxDims(dims ...uint64) DatasetOption {
	return func(o *DatasetOptions) {
		o.MaxDims = dims
	}
}

// WithCompression sets the compression filter and its level. A negative
// level selects the filter's default.
func WithCompression(c Compression, level int) DatasetOption {
	return func(o *DatasetOptions) {
		o.Compression = c
		if level < 0 {
			level = c.DefaultLevel()
		}
		o.Level = level
	}
}

// WithShuffle enables the shuffle filter (improves compression).
func WithShuffle() DatasetOption {
	return func(o *DatasetOptions) {
		o.Shuffle = true
	}
}

// WithFletcher32 enables Fletcher32 checksum validation.
func WithFletcher32() DatasetOption {
	return func(o *DatasetOptions) {
		o.Fletcher32 = true
	}
}

// WithChecksum enables xxHash64 checksum validation.
func WithChecksum() DatasetOption {
	return func(o *DatasetOptions) {
		o.Checksum = true
	}
}
