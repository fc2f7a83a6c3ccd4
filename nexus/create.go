package nexus

import (
	"errors"
	"fmt"

	"github.com/robert-malhotra/go-nexus/dtype"
	"github.com/robert-malhotra/go-nexus/storage"
)

// CreateData creates the dataset name in the group at groupPath, creating
// missing groups, and writes data to it. The dataset takes the kind and
// shape of data and its ChunkDims and Compression hints. maxShape may be nil
// for a fixed shape; 0 marks an unlimited axis.
//
// Char data is stored with a trailing text axis of textLength bytes. A
// textLength of 0 uses the text axis of raw text, or the longest string.
func CreateData(f storage.File, groupPath, name string, maxShape []int, data *Buffer, textLength int) error {
	if data == nil || data.Data() == nil {
		return fmt.Errorf("%w: no data for %s", ErrSizeMismatch, storage.JoinPath(groupPath, name))
	}

	kind := data.Kind()
	dims := data.dims
	chunks := data.ChunkDims
	var raw []byte
	if kind == dtype.Char {
		texts, err := data.Strings()
		if err != nil {
			return err
		}
		dims = data.textDims()
		if len(maxShape) > len(dims) {
			maxShape = maxShape[:len(dims)]
		}
		if len(chunks) > len(dims) {
			chunks = chunks[:len(dims)]
		}
		if textLength <= 0 {
			textLength = defaultTextLength(data, texts)
		}
		if raw, err = dtype.EncodeText(texts, textLength); err != nil {
			return err
		}
		dims = append(dims[:len(dims):len(dims)], textLength)
		if maxShape != nil {
			maxShape = append(maxShape[:len(maxShape):len(maxShape)], textLength)
		}
		if chunks != nil {
			chunks = append(chunks[:len(chunks):len(chunks)], textLength)
		}
	} else {
		values, err := data.values()
		if err != nil {
			return err
		}
		if raw, err = dtype.Encode(kind, values); err != nil {
			return err
		}
	}

	if maxShape != nil && len(maxShape) != len(dims) {
		return fmt.Errorf("%w: max shape %v for data of shape %v", ErrRankMismatch, maxShape, data.dims)
	}
	var opts []storage.DatasetOption
	if maxShape != nil {
		opts = append(opts, storage.WithMaxDims(toUint64s(maxShape)...))
	}
	if len(chunks) > 0 && len(chunks) == len(dims) {
		opts = append(opts, storage.WithChunks(toUint64s(chunks)...))
	}
	if data.Compression != storage.CompressionNone {
		opts = append(opts, storage.WithCompression(data.Compression, -1))
	}

	path := storage.JoinPath(groupPath, name)
	if err := createDataset(f, groupPath, name, kind, toUint64s(dims), opts); err != nil {
		return err
	}
	if err := f.OpenGroupPath(groupPath); err != nil {
		return fmt.Errorf("%w: opening group %s: %w", ErrBackend, groupPath, err)
	}
	if err := f.OpenDataset(name); err != nil {
		return fmt.Errorf("%w: opening dataset %s: %w", ErrBackend, path, err)
	}
	if len(raw) == 0 {
		return nil
	}
	if err := f.WriteSlab(make([]uint64, len(dims)), toUint64s(dims), raw); err != nil {
		return fmt.Errorf("%w: writing %s: %w", ErrBackend, path, err)
	}
	return nil
}

func defaultTextLength(data *Buffer, texts []string) int {
	if _, ok := data.data.([]byte); ok && data.Rank() > 0 {
		return max(data.dims[data.Rank()-1], 1)
	}
	n := 1
	for _, s := range texts {
		n = max(n, len(s))
	}
	return n
}

// CreateLazy creates an empty dataset of the given kind and shape in the file
// src, creating the file and missing groups, and returns a Saver bound to it.
// Char datasets get a trailing text axis of textLength bytes, which must be
// positive. Layout options come from WithDatasetOptions.
func CreateLazy(backend storage.Backend, src Source, groupPath, name string, kind dtype.Kind,
	shape, maxShape []int, textLength int, opts ...Option,
) (saver *Saver, err error) {
	if maxShape != nil && len(maxShape) != len(shape) {
		return nil, fmt.Errorf("%w: max shape %v for shape %v", ErrRankMismatch, maxShape, shape)
	}
	dims, maxDims := toUint64s(shape), toUint64s(maxShape)
	if kind == dtype.Char {
		if textLength <= 0 {
			return nil, fmt.Errorf("%w: text length %d for %s", ErrUnsupportedConfiguration,
				textLength, storage.JoinPath(groupPath, name))
		}
		dims = append(dims, uint64(textLength))
		if maxDims != nil {
			maxDims = append(maxDims, uint64(textLength))
		}
	}

	cfg := newConfig(opts)
	dsOpts := cfg.dataset
	if maxDims != nil {
		dsOpts = append([]storage.DatasetOption{storage.WithMaxDims(maxDims...)}, dsOpts...)
	}

	h, err := backend.Open(src.Path(), storage.Create)
	if err != nil {
		return nil, fmt.Errorf("%w: creating %s: %w", ErrBackend, src, err)
	}
	defer func() {
		if cerr := h.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("%w: closing %s: %w", ErrBackend, src, cerr))
			saver = nil
		}
	}()
	f, ok := h.(storage.File)
	if !ok {
		return nil, fmt.Errorf("%w: handle %T cannot create datasets", ErrUnsupportedConfiguration, h)
	}
	if err := createDataset(f, groupPath, name, kind, dims, dsOpts); err != nil {
		return nil, err
	}

	s := NewSaver(backend, src, groupPath, name, shape, kind, opts...)
	s.SetMaxTextLength(textLength)
	return s, nil
}

func createDataset(c storage.Creator, groupPath, name string, kind dtype.Kind, dims []uint64, opts []storage.DatasetOption) error {
	if err := c.CreateGroup(groupPath); err != nil {
		return fmt.Errorf("%w: creating group %s: %w", ErrBackend, groupPath, err)
	}
	if err := c.CreateDataset(groupPath, name, kind, dims, opts...); err != nil {
		return fmt.Errorf("%w: creating dataset %s: %w", ErrBackend, storage.JoinPath(groupPath, name), err)
	}
	return nil
}

func toUint64s(v []int) []uint64 {
	if v == nil {
		return nil
	}
	out := make([]uint64, len(v))
	for i, x := range v {
		out[i] = uint64(x)
	}
	return out
}
