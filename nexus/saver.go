package nexus

import (
	"errors"
	"fmt"

	"github.com/robert-malhotra/go-nexus/dtype"
	"github.com/robert-malhotra/go-nexus/internal/hyperslab"
	"github.com/robert-malhotra/go-nexus/storage"
)

// Saver writes slices of one dataset. Every call opens the file for writing
// and closes it before returning. A Saver reads like the Loader it embeds.
type Saver struct {
	*Loader
	textLength int
}

// NewSaver returns a Saver for the dataset name in the group at groupPath of
// the file src. Char datasets need SetMaxTextLength before writing.
func NewSaver(backend storage.Backend, src Source, groupPath, name string, trueShape []int, kind dtype.Kind, opts ...Option) *Saver {
	return &Saver{Loader: NewLoader(backend, src, groupPath, name, trueShape, kind, opts...)}
}

// SetMaxTextLength sets the number of bytes each string occupies on disk.
// Longer strings are truncated.
func (s *Saver) SetMaxTextLength(n int) {
	s.textLength = n
}

// TextLength returns the text length set by SetMaxTextLength.
func (s *Saver) TextLength() int {
	return s.textLength
}

// IsFileWriteable reports whether the source is on this host and writable.
func (s *Saver) IsFileWriteable() bool {
	return s.checkHost() && canWrite(s.source.Path())
}

// SetSlice writes data to the elements selected by r. data must hold exactly
// as many elements as r selects; its values are cast to the saver's kind.
// Writes past the current extent grow the dataset where its max dims allow.
//
// A dataset whose kind or rank does not match the saver fails with
// ErrFormatMismatch or ErrRankMismatch. Backend failures wrap ErrBackend;
// with WithDegradeOnFailure they are logged instead and SetSlice returns nil.
func (s *Saver) SetSlice(data *Buffer, r Region) error {
	slab, err := s.translate(r)
	if err != nil {
		return err
	}
	if slab.Empty() {
		return nil
	}
	raw, slab, err := s.encode(data, slab)
	if err != nil {
		return err
	}
	if err := s.write(slab, raw); err != nil {
		if s.cfg.degrade && Classify(err) == KindBackendFailure {
			s.cfg.logger.Error("writing dataset", "source", s.source.String(), "path", s.Path(),
				"region", r.String(), "error", err)
			return nil
		}
		return err
	}
	return nil
}

// encode converts data to slab bytes of the saver's kind. Char data gains the
// trailing text axis.
func (s *Saver) encode(data *Buffer, slab hyperslab.Slab) ([]byte, hyperslab.Slab, error) {
	if data == nil || data.Data() == nil {
		return nil, slab, fmt.Errorf("%w: no data for %s", ErrSizeMismatch, s.Path())
	}

	if s.kind == dtype.Char {
		if s.textLength <= 0 {
			return nil, slab, fmt.Errorf("%w: text length of %s is not set", ErrUnsupportedConfiguration, s.Path())
		}
		texts, err := textValues(data)
		if err != nil {
			return nil, slab, err
		}
		if len(texts) != slab.Elements() {
			return nil, slab, fmt.Errorf("%w: %d strings for region %v", ErrSizeMismatch, len(texts), slab.Shape)
		}
		raw, err := dtype.EncodeText(texts, s.textLength)
		if err != nil {
			return nil, slab, err
		}
		return raw, slab.WithTrailingAxis(s.textLength), nil
	}

	var values any
	var err error
	if data.IsChar() {
		values, err = data.Strings()
	} else {
		values, err = data.values()
	}
	if err != nil {
		return nil, slab, err
	}
	if n := dtype.Len(values); n != slab.Elements() {
		return nil, slab, fmt.Errorf("%w: %d elements for region %v", ErrSizeMismatch, n, slab.Shape)
	}
	cast, err := dtype.Cast(values, s.kind)
	if err != nil {
		return nil, slab, fmt.Errorf("writing %s: %w", s.Path(), err)
	}
	raw, err := dtype.Encode(s.kind, cast)
	if err != nil {
		return nil, slab, fmt.Errorf("writing %s: %w", s.Path(), err)
	}
	return raw, slab, nil
}

// textValues returns the strings to write from a buffer of any kind.
func textValues(data *Buffer) ([]string, error) {
	if data.IsChar() {
		return data.Strings()
	}
	values, err := data.values()
	if err != nil {
		return nil, err
	}
	cast, err := dtype.Cast(values, dtype.Char)
	if err != nil {
		return nil, err
	}
	return cast.([]string), nil
}

func (s *Saver) write(slab hyperslab.Slab, raw []byte) (err error) {
	h, err := s.backend.Open(s.source.Path(), storage.ReadWrite)
	if err != nil {
		return fmt.Errorf("%w: opening %s for writing: %w", ErrBackend, s.source, err)
	}
	defer func() {
		if cerr := h.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("%w: closing %s: %w", ErrBackend, s.source, cerr))
		}
	}()

	if err := h.OpenGroupPath(s.path); err != nil {
		return fmt.Errorf("%w: opening group %s: %w", ErrBackend, s.path, err)
	}
	if err := h.OpenDataset(s.name); err != nil {
		return fmt.Errorf("%w: opening dataset %s: %w", ErrBackend, s.Path(), err)
	}
	dims, onDisk, err := h.ShapeAndType()
	if err != nil {
		return fmt.Errorf("%w: describing %s: %w", ErrBackend, s.Path(), err)
	}
	if err := s.checkFormat(dims, onDisk); err != nil {
		return err
	}

	if slab.Stepped {
		elemSize := 1
		if s.kind != dtype.Char {
			elemSize = s.kind.Size()
		}
		if raw, err = s.superset(h, slab, dims, raw, elemSize); err != nil {
			return err
		}
	}
	if err := h.WriteSlab(slab.Start, slab.Size, raw); err != nil {
		return fmt.Errorf("%w: writing %s slab %v+%v: %w", ErrBackend, s.Path(), slab.Start, slab.Size, err)
	}
	return nil
}

// checkFormat rejects a dataset the saver's kind cannot be written to as is.
// Char datasets carry the trailing text axis.
func (s *Saver) checkFormat(dims []uint64, onDisk dtype.Kind) error {
	if !s.kind.Compatible(onDisk) {
		return fmt.Errorf("%w: %s holds %s, expected %s", ErrFormatMismatch, s.Path(), onDisk, s.kind)
	}
	rank := len(s.trueShape)
	if s.kind == dtype.Char {
		rank++
	}
	if len(dims) != rank {
		return fmt.Errorf("%w: %s has %d axes, expected %d", ErrRankMismatch, s.Path(), len(dims), rank)
	}
	return nil
}

// superset reads the block covering a stepped slab and scatters data into
// it. dims is the current extent; the part of the block beyond it starts as
// zero.
func (s *Saver) superset(h storage.Handle, slab hyperslab.Slab, dims []uint64, data []byte, elemSize int) ([]byte, error) {
	block := make([]byte, hyperslab.Elements(slab.Size)*uint64(elemSize))
	present := make([]uint64, len(dims))
	for i, d := range dims {
		if slab.Start[i] < d {
			present[i] = min(slab.Size[i], d-slab.Start[i])
		}
	}
	if hyperslab.Elements(present) > 0 {
		old, err := h.ReadSlab(slab.Start, present)
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s slab %v+%v: %w", ErrBackend, s.Path(), slab.Start, present, err)
		}
		origin := make([]uint64, len(dims))
		if err := hyperslab.Insert(block, slab.Size, origin, present, old, elemSize); err != nil {
			return nil, err
		}
	}
	if err := hyperslab.Scatter(block, slab.Size, slab.Step, data, elemSize); err != nil {
		return nil, err
	}
	return block, nil
}
