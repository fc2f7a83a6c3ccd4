package nexus

import (
	"errors"
	"fmt"
	"slices"

	"github.com/robert-malhotra/go-nexus/dtype"
	"github.com/robert-malhotra/go-nexus/internal/hyperslab"
	"github.com/robert-malhotra/go-nexus/storage"
)

// Loader reads slices of one dataset on demand. It is not safe for
// concurrent use.
type Loader struct {
	backend   storage.Backend
	source    Source
	path      string
	name      string
	trueShape []int
	kind      dtype.Kind
	cfg       config
	handles   handleCache
}

// NewLoader returns a Loader for the dataset name in the group at groupPath
// of the file src. trueShape is the on-disk shape including unit axes; for
// Char datasets it excludes the text axis. kind is the kind returned buffers
// hold.
func NewLoader(backend storage.Backend, src Source, groupPath, name string, trueShape []int, kind dtype.Kind, opts ...Option) *Loader {
	l := &Loader{
		backend:   backend,
		source:    src,
		path:      storage.CleanPath(groupPath),
		name:      name,
		trueShape: slices.Clone(trueShape),
		kind:      kind,
		cfg:       newConfig(opts),
	}
	l.handles.logger = l.cfg.logger
	l.handles.adopt(l.cfg.handle)
	return l
}

// Name returns the dataset name.
func (l *Loader) Name() string { return l.name }

// Path returns the absolute path of the dataset.
func (l *Loader) Path() string { return storage.JoinPath(l.path, l.name) }

// GroupPath returns the path of the group holding the dataset.
func (l *Loader) GroupPath() string { return l.path }

// Source returns the file the dataset lives in.
func (l *Loader) Source() Source { return l.source }

// TrueShape returns a copy of the on-disk shape, without any text axis.
func (l *Loader) TrueShape() []int { return slices.Clone(l.trueShape) }

// Kind returns the element kind values are decoded to.
func (l *Loader) Kind() dtype.Kind { return l.kind }

// Close releases a retained handle. Handles supplied with WithHandle are
// left open.
func (l *Loader) Close() error {
	return l.handles.close()
}

// IsFileReadable reports whether the source is on this host and readable.
func (l *Loader) IsFileReadable() bool {
	return l.checkHost() && canRead(l.source.Path())
}

func (l *Loader) checkHost() bool {
	host := l.source.Host()
	if host == "" {
		return true
	}
	local, err := l.cfg.hostname()
	if err != nil {
		l.cfg.logger.Warn("cannot find local host name, ignoring host check", "source", l.source.String(), "error", err)
		return true
	}
	return host == local
}

// GetDataset reads the elements selected by r. The result has shape
// r.Count, the name of the dataset and the loader's kind; signed kinds
// stored unsigned on disk come back with the unsigned flag set.
//
// Backend failures wrap ErrBackend. With WithDegradeOnFailure they are
// logged instead and GetDataset returns a nil buffer and nil error.
func (l *Loader) GetDataset(r Region) (*Buffer, error) {
	slab, err := l.translate(r)
	if err != nil {
		return nil, err
	}
	if slab.Empty() {
		buf, err := Zeros(l.kind, slab.Shape)
		if err != nil {
			return nil, err
		}
		buf.SetName(l.name)
		return buf, nil
	}

	h, release, err := l.handles.acquire(l.path, l.open, l.cfg.keepOpen)
	if err != nil {
		return l.degrade(r, fmt.Errorf("%w: opening %s: %w", ErrBackend, l.Path(), err))
	}
	buf, err := l.read(h, slab)
	if cerr := release(); cerr != nil {
		err = errors.Join(err, fmt.Errorf("%w: closing %s: %w", ErrBackend, l.source, cerr))
	}
	if err != nil {
		return l.degrade(r, err)
	}
	return buf, nil
}

func (l *Loader) open() (storage.Handle, error) {
	return l.backend.Open(l.source.Path(), storage.ReadOnly)
}

func (l *Loader) translate(r Region) (hyperslab.Slab, error) {
	if err := r.Validate(); err != nil {
		return hyperslab.Slab{}, fmt.Errorf("region for %s: %w", l.Path(), err)
	}
	slab, err := hyperslab.Translate(r.Shape, l.trueShape, r.Start, r.Step, r.Count)
	if err != nil {
		return hyperslab.Slab{}, fmt.Errorf("region for %s with true shape %v: %w", l.Path(), l.trueShape, err)
	}
	return slab, nil
}

// degrade returns err, or logs it and returns nothing when the loader
// tolerates backend failures.
func (l *Loader) degrade(r Region, err error) (*Buffer, error) {
	if l.cfg.degrade && Classify(err) == KindBackendFailure {
		l.cfg.logger.Error("reading dataset", "source", l.source.String(), "path", l.Path(),
			"region", r.String(), "error", err)
		return nil, nil
	}
	return nil, err
}

func (l *Loader) read(h storage.Handle, slab hyperslab.Slab) (*Buffer, error) {
	if err := h.OpenDataset(l.name); err != nil {
		return nil, fmt.Errorf("%w: opening dataset %s: %w", ErrBackend, l.Path(), err)
	}
	dims, onDisk, err := h.ShapeAndType()
	if err != nil {
		return nil, fmt.Errorf("%w: describing %s: %w", ErrBackend, l.Path(), err)
	}
	if l.kind == dtype.Char {
		return l.readText(h, slab, dims, onDisk)
	}

	if !l.kind.Compatible(onDisk) {
		return nil, fmt.Errorf("%w: %s holds %s, expected %s", ErrFormatMismatch, l.Path(), onDisk, l.kind)
	}
	if len(dims) != len(l.trueShape) {
		return nil, fmt.Errorf("%w: %s has %d axes, expected %d", ErrRankMismatch, l.Path(), len(dims), len(l.trueShape))
	}
	raw, err := l.readSlab(h, slab, l.kind.Size())
	if err != nil {
		return nil, err
	}
	values, err := dtype.Decode(l.kind, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %w", ErrFormatMismatch, l.Path(), err)
	}
	buf := &Buffer{dims: slices.Clone(slab.Shape), kind: l.kind, data: values, name: l.name}
	if onDisk.IsUnsigned() && !l.kind.IsUnsigned() {
		buf.unsigned = true
	}
	return buf, nil
}

// readText reads a Char dataset. On disk it has the true shape plus a
// trailing text axis, or is a single string of rank 1.
func (l *Loader) readText(h storage.Handle, slab hyperslab.Slab, dims []uint64, onDisk dtype.Kind) (*Buffer, error) {
	if onDisk != dtype.Char {
		return nil, fmt.Errorf("%w: %s holds %s, expected strings", ErrFormatMismatch, l.Path(), onDisk)
	}
	trank := len(dims) - 1
	if trank != 0 && trank != len(l.trueShape) {
		return nil, fmt.Errorf("%w: %s has %d axes, expected %d or 1", ErrRankMismatch, l.Path(), len(dims), len(l.trueShape)+1)
	}
	textLength := int(dims[trank])

	var raw []byte
	var err error
	if trank == 0 {
		if slab.Elements() != 1 {
			return nil, fmt.Errorf("%w: %s holds one string, region selects %v", ErrRankMismatch, l.Path(), slab.Shape)
		}
		raw, err = h.ReadSlab([]uint64{0}, []uint64{dims[0]})
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %w", ErrBackend, l.Path(), err)
		}
	} else {
		raw, err = l.readSlab(h, slab.WithTrailingAxis(textLength), 1)
		if err != nil {
			return nil, err
		}
	}

	values := make([]string, slab.Elements())
	if textLength > 0 {
		if values, err = dtype.DecodeText(raw, textLength); err != nil {
			return nil, fmt.Errorf("%w: decoding %s: %w", ErrFormatMismatch, l.Path(), err)
		}
	}
	return &Buffer{dims: slices.Clone(slab.Shape), kind: dtype.Char, data: values, name: l.name}, nil
}

// readSlab reads the physical block of slab and decimates stepped axes.
func (l *Loader) readSlab(h storage.Handle, slab hyperslab.Slab, elemSize int) ([]byte, error) {
	raw, err := h.ReadSlab(slab.Start, slab.Size)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s slab %v+%v: %w", ErrBackend, l.Path(), slab.Start, slab.Size, err)
	}
	if !slab.Stepped {
		return raw, nil
	}
	return hyperslab.Decimate(raw, slab.Size, slab.Step, elemSize)
}
