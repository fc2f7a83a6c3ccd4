// Package memstore implements an in-memory storage backend.
//
// Datasets are held as dense row-major byte arrays. Files live as long as the
// Store and survive close and reopen. Hooks allow tests to inject failures
// into individual primitives.
package memstore

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/robert-malhotra/go-nexus/dtype"
	"github.com/robert-malhotra/go-nexus/internal/hyperslab"
	"github.com/robert-malhotra/go-nexus/storage"
)

// Op names a primitive for failure injection.
type Op string

const (
	OpOpen          Op = "open"
	OpOpenGroupPath Op = "open-group-path"
	OpOpenDataset   Op = "open-dataset"
	OpShapeAndType  Op = "shape-and-type"
	OpReadSlab      Op = "read-slab"
	OpWriteSlab     Op = "write-slab"
	OpCreate        Op = "create"
	OpClose         Op = "close"
)

// FailFunc decides whether a primitive fails. It receives the file path and
// the operation; a non-nil result is returned from the primitive.
type FailFunc func(path string, op Op) error

// Store is an in-memory Backend. It is safe for use by multiple goroutines;
// handles are not.
type Store struct {
	mu    sync.Mutex
	files map[string]*tree
	fail  FailFunc

	opens  int
	closes int
}

var _ storage.Backend = (*Store)(nil)

// New creates an empty Store.
func New() *Store {
	return &Store{files: make(map[string]*tree)}
}

// SetFail installs a failure hook; nil removes it.
func (s *Store) SetFail(fn FailFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = fn
}

// Stats returns how many handles were opened and closed.
func (s *Store) Stats() (opens, closes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opens, s.closes
}

// Exists reports whether a file was created at path.
func (s *Store) Exists(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[path]
	return ok
}

func (s *Store) failure(path string, op Op) error {
	s.mu.Lock()
	fn := s.fail
	s.mu.Unlock()
	if fn == nil {
		return nil
	}
	return fn(path, op)
}

func (s *Store) Open(path string, mode storage.Mode) (storage.Handle, error) {
	if err := s.failure(path, OpOpen); err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.files[path]
	switch {
	case ok:
	case mode == storage.Create:
		t = newTree()
		s.files[path] = t
	case mode == storage.ReadOnly || mode == storage.ReadWrite:
		return nil, fmt.Errorf("opening %s: %w", path, storage.ErrNotFound)
	default:
		return nil, fmt.Errorf("opening %s: %w: %s", path, storage.ErrUnsupported, mode)
	}
	s.opens++
	return &File{store: s, path: path, tree: t, mode: mode, group: "/"}, nil
}

// tree is the content of one file: groups and datasets by clean path.
type tree struct {
	mu       sync.Mutex
	groups   map[string]bool
	datasets map[string]*dataset
}

func newTree() *tree {
	return &tree{
		groups:   map[string]bool{"/": true},
		datasets: make(map[string]*dataset),
	}
}

type dataset struct {
	kind    dtype.Kind
	dims    []uint64
	maxDims []uint64
	data    []byte
}

// File is a handle on one in-memory file. It implements storage.File.
type File struct {
	store  *Store
	path   string
	tree   *tree
	mode   storage.Mode
	closed bool

	group string
	ds    string
}

var _ storage.File = (*File)(nil)

func (f *File) check(op Op, write bool) error {
	if f.closed {
		return storage.ErrClosed
	}
	if write && !f.mode.Writable() {
		return storage.ErrReadOnly
	}
	return f.store.failure(f.path, op)
}

func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	f.store.mu.Lock()
	f.store.closes++
	f.store.mu.Unlock()
	return f.store.failure(f.path, OpClose)
}

func (f *File) OpenGroupPath(path string) error {
	if err := f.check(OpOpenGroupPath, false); err != nil {
		return err
	}
	path = storage.CleanPath(path)

	f.tree.mu.Lock()
	defer f.tree.mu.Unlock()
	switch {
	case f.tree.groups[path]:
	case f.tree.datasets[path] != nil:
		return fmt.Errorf("opening group %s: %w", path, storage.ErrNotGroup)
	default:
		return fmt.Errorf("opening group %s: %w", path, storage.ErrNotFound)
	}
	f.group = path
	f.ds = ""
	return nil
}

func (f *File) OpenDataset(name string) error {
	if err := f.check(OpOpenDataset, false); err != nil {
		return err
	}
	if err := storage.ValidName(name); err != nil {
		return fmt.Errorf("opening dataset: %w", err)
	}
	path := storage.JoinPath(f.group, name)

	f.tree.mu.Lock()
	defer f.tree.mu.Unlock()
	switch {
	case f.tree.datasets[path] != nil:
	case f.tree.groups[path]:
		return fmt.Errorf("opening dataset %s: %w", path, storage.ErrNotDataset)
	default:
		return fmt.Errorf("opening dataset %s: %w", path, storage.ErrNotFound)
	}
	f.ds = path
	return nil
}

// current returns the open dataset; the caller holds f.tree.mu.
func (f *File) current() (*dataset, error) {
	if f.ds == "" {
		return nil, storage.ErrNoDataset
	}
	ds := f.tree.datasets[f.ds]
	if ds == nil {
		return nil, fmt.Errorf("dataset %s: %w", f.ds, storage.ErrNotFound)
	}
	return ds, nil
}

func (f *File) ShapeAndType() ([]uint64, dtype.Kind, error) {
	if err := f.check(OpShapeAndType, false); err != nil {
		return nil, dtype.Invalid, err
	}
	f.tree.mu.Lock()
	defer f.tree.mu.Unlock()
	ds, err := f.current()
	if err != nil {
		return nil, dtype.Invalid, err
	}
	return append([]uint64(nil), ds.dims...), ds.kind, nil
}

func (f *File) ReadSlab(start, count []uint64) ([]byte, error) {
	if err := f.check(OpReadSlab, false); err != nil {
		return nil, err
	}
	f.tree.mu.Lock()
	defer f.tree.mu.Unlock()
	ds, err := f.current()
	if err != nil {
		return nil, err
	}
	if err := checkRank(ds, start, count); err != nil {
		return nil, err
	}
	for d, dim := range ds.dims {
		if start[d]+count[d] > dim {
			return nil, fmt.Errorf("reading slab %v+%v of %s: %w", start, count, f.ds, storage.ErrOutOfBounds)
		}
	}
	return hyperslab.Extract(ds.data, ds.dims, start, count, ds.kind.Size())
}

func (f *File) WriteSlab(start, count []uint64, data []byte) error {
	if err := f.check(OpWriteSlab, true); err != nil {
		return err
	}
	f.tree.mu.Lock()
	defer f.tree.mu.Unlock()
	ds, err := f.current()
	if err != nil {
		return err
	}
	if err := checkRank(ds, start, count); err != nil {
		return err
	}
	size := ds.kind.Size()
	if uint64(len(data)) != hyperslab.Elements(count)*uint64(size) {
		return fmt.Errorf("writing slab %v+%v of %s: %w: %d bytes", start, count, f.ds, storage.ErrShape, len(data))
	}
	if len(data) == 0 {
		return nil
	}

	dims := append([]uint64(nil), ds.dims...)
	grown := false
	for d := range dims {
		end := start[d] + count[d]
		if end <= dims[d] {
			continue
		}
		if limit := ds.maxDims[d]; limit != 0 && end > limit {
			return fmt.Errorf("writing slab %v+%v of %s: %w: axis %d max %d",
				start, count, f.ds, storage.ErrOutOfBounds, d, limit)
		}
		dims[d] = end
		grown = true
	}
	if grown {
		resized := make([]byte, hyperslab.Elements(dims)*uint64(size))
		if err := hyperslab.Insert(resized, dims, make([]uint64, len(dims)), ds.dims, ds.data, size); err != nil {
			return err
		}
		ds.data = resized
		ds.dims = dims
	}
	return hyperslab.Insert(ds.data, ds.dims, start, count, data, size)
}

func checkRank(ds *dataset, start, count []uint64) error {
	if len(start) != len(ds.dims) || len(count) != len(ds.dims) {
		return fmt.Errorf("%w: start and count must have %d dimensions, got %d and %d",
			storage.ErrShape, len(ds.dims), len(start), len(count))
	}
	return nil
}

func (f *File) CreateGroup(path string) error {
	if err := f.check(OpCreate, true); err != nil {
		return err
	}
	path = storage.CleanPath(path)
	if err := storage.ValidPath(path); err != nil {
		return fmt.Errorf("creating group %s: %w", path, err)
	}

	f.tree.mu.Lock()
	defer f.tree.mu.Unlock()
	current := "/"
	for _, name := range storage.SplitPath(path) {
		current = storage.JoinPath(current, name)
		if f.tree.datasets[current] != nil {
			return fmt.Errorf("creating group %s: %w", current, storage.ErrNotGroup)
		}
		f.tree.groups[current] = true
	}
	return nil
}

func (f *File) CreateDataset(groupPath, name string, kind dtype.Kind, dims []uint64, opts ...storage.DatasetOption) error {
	if err := f.check(OpCreate, true); err != nil {
		return err
	}
	path := storage.JoinPath(groupPath, name)
	if err := storage.ValidName(name); err != nil {
		return fmt.Errorf("creating dataset %s: %w", path, err)
	}
	if !kind.Valid() {
		return fmt.Errorf("creating dataset %s: %w: %s", path, dtype.ErrUnsupportedKind, kind)
	}
	o := storage.NewDatasetOptions(opts...)
	if err := o.Validate(dims); err != nil {
		return fmt.Errorf("creating dataset %s: %w", path, err)
	}

	f.tree.mu.Lock()
	defer f.tree.mu.Unlock()
	group := storage.CleanPath(groupPath)
	switch {
	case f.tree.groups[group]:
	case f.tree.datasets[group] != nil:
		return fmt.Errorf("creating dataset %s: %w", path, storage.ErrNotGroup)
	default:
		return fmt.Errorf("creating dataset %s: group %w", path, storage.ErrNotFound)
	}
	if f.tree.groups[path] || f.tree.datasets[path] != nil {
		return fmt.Errorf("creating dataset %s: %w", path, storage.ErrExists)
	}

	f.tree.datasets[path] = &dataset{
		kind:    kind,
		dims:    append([]uint64{}, dims...),
		maxDims: append([]uint64{}, o.MaxDims...),
		data:    make([]byte, hyperslab.Elements(dims)*uint64(kind.Size())),
	}
	return nil
}

func (f *File) Members(groupPath string) ([]string, error) {
	if f.closed {
		return nil, storage.ErrClosed
	}
	groupPath = storage.CleanPath(groupPath)

	f.tree.mu.Lock()
	defer f.tree.mu.Unlock()
	switch {
	case f.tree.groups[groupPath]:
	case f.tree.datasets[groupPath] != nil:
		return nil, fmt.Errorf("listing %s: %w", groupPath, storage.ErrNotGroup)
	default:
		return nil, fmt.Errorf("listing %s: %w", groupPath, storage.ErrNotFound)
	}

	prefix := strings.TrimSuffix(groupPath, "/") + "/"
	names := []string{}
	add := func(p string) {
		if p == groupPath || !strings.HasPrefix(p, prefix) {
			return
		}
		if rest := p[len(prefix):]; !strings.Contains(rest, "/") {
			names = append(names, rest)
		}
	}
	for p := range f.tree.groups {
		add(p)
	}
	for p := range f.tree.datasets {
		add(p)
	}
	sort.Strings(names)
	return names, nil
}

func (f *File) Stat(path string) (storage.ObjectInfo, error) {
	if f.closed {
		return storage.ObjectInfo{}, storage.ErrClosed
	}
	path = storage.CleanPath(path)

	f.tree.mu.Lock()
	defer f.tree.mu.Unlock()
	if f.tree.groups[path] {
		return storage.ObjectInfo{Path: path, Group: true, StoredChunks: -1}, nil
	}
	ds := f.tree.datasets[path]
	if ds == nil {
		return storage.ObjectInfo{}, fmt.Errorf("stat %s: %w", path, storage.ErrNotFound)
	}
	return storage.ObjectInfo{
		Path:         path,
		Kind:         ds.kind,
		Dims:         append([]uint64(nil), ds.dims...),
		MaxDims:      append([]uint64(nil), ds.maxDims...),
		StoredChunks: -1,
	}, nil
}
