package dirstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/robert-malhotra/go-nexus/dtype"
	"github.com/robert-malhotra/go-nexus/internal/layout"
	"github.com/robert-malhotra/go-nexus/storage"
)

// File is an open directory store file. It implements storage.File.
type File struct {
	store  *Store
	root   string
	mode   storage.Mode
	closed bool

	group string
	ds    *dataset
}

var _ storage.File = (*File)(nil)

// Path returns the root directory of the file.
func (f *File) Path() string {
	return f.root
}

// Close releases the handle. Closing twice is not an error.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	f.ds = nil
	return nil
}

func (f *File) check(write bool) error {
	if f.closed {
		return storage.ErrClosed
	}
	if write && !f.mode.Writable() {
		return storage.ErrReadOnly
	}
	return nil
}

// objectKind is what a path resolves to.
type objectKind int

const (
	missing objectKind = iota
	groupObject
	datasetObject
)

// resolve maps a clean object path to its directory and kind.
func (f *File) resolve(path string) (string, objectKind, error) {
	if err := storage.ValidPath(path); err != nil {
		return "", missing, err
	}
	dir := filepath.Join(append([]string{f.root}, storage.SplitPath(path)...)...)

	fi, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return dir, missing, nil
	}
	if err != nil {
		return "", missing, err
	}
	if !fi.IsDir() {
		return dir, missing, nil
	}

	_, err = os.Stat(filepath.Join(dir, headerName))
	switch {
	case err == nil:
		return dir, datasetObject, nil
	case errors.Is(err, fs.ErrNotExist):
		return dir, groupObject, nil
	default:
		return "", missing, err
	}
}

func (f *File) OpenGroupPath(path string) error {
	if err := f.check(false); err != nil {
		return err
	}
	path = storage.CleanPath(path)
	_, kind, err := f.resolve(path)
	if err != nil {
		return fmt.Errorf("opening group %s: %w", path, err)
	}
	switch kind {
	case missing:
		return fmt.Errorf("opening group %s: %w", path, storage.ErrNotFound)
	case datasetObject:
		return fmt.Errorf("opening group %s: %w", path, storage.ErrNotGroup)
	case groupObject:
	}
	f.group = path
	f.ds = nil
	return nil
}

func (f *File) OpenDataset(name string) error {
	if err := f.check(false); err != nil {
		return err
	}
	if err := storage.ValidName(name); err != nil {
		return fmt.Errorf("opening dataset: %w", err)
	}
	path := storage.JoinPath(f.group, name)
	dir, kind, err := f.resolve(path)
	if err != nil {
		return fmt.Errorf("opening dataset %s: %w", path, err)
	}
	switch kind {
	case missing:
		return fmt.Errorf("opening dataset %s: %w", path, storage.ErrNotFound)
	case groupObject:
		return fmt.Errorf("opening dataset %s: %w", path, storage.ErrNotDataset)
	case datasetObject:
	}

	ds, err := loadDataset(f.store, path, dir)
	if err != nil {
		return fmt.Errorf("opening dataset %s: %w", path, err)
	}
	f.ds = ds
	return nil
}

func (f *File) current() (*dataset, error) {
	if err := f.check(false); err != nil {
		return nil, err
	}
	if f.ds == nil {
		return nil, storage.ErrNoDataset
	}
	return f.ds, nil
}

func (f *File) ShapeAndType() ([]uint64, dtype.Kind, error) {
	ds, err := f.current()
	if err != nil {
		return nil, dtype.Invalid, err
	}
	return append([]uint64(nil), ds.hdr.Dims...), ds.hdr.Kind, nil
}

func (f *File) ReadSlab(start, count []uint64) ([]byte, error) {
	ds, err := f.current()
	if err != nil {
		return nil, err
	}
	data, err := ds.readSlab(start, count)
	if err != nil {
		return nil, fmt.Errorf("reading slab %v+%v of %s: %w", start, count, ds.path, err)
	}
	return data, nil
}

func (f *File) WriteSlab(start, count []uint64, data []byte) error {
	ds, err := f.current()
	if err != nil {
		return err
	}
	if err := f.check(true); err != nil {
		return err
	}
	if err := ds.writeSlab(start, count, data); err != nil {
		return fmt.Errorf("writing slab %v+%v of %s: %w", start, count, ds.path, err)
	}
	return nil
}

func (f *File) CreateGroup(path string) error {
	if err := f.check(true); err != nil {
		return err
	}
	path = storage.CleanPath(path)
	if err := storage.ValidPath(path); err != nil {
		return fmt.Errorf("creating group %s: %w", path, err)
	}

	current := "/"
	for _, name := range storage.SplitPath(path) {
		current = storage.JoinPath(current, name)
		dir, kind, err := f.resolve(current)
		if err != nil {
			return fmt.Errorf("creating group %s: %w", current, err)
		}
		switch kind {
		case groupObject:
			continue
		case datasetObject:
			return fmt.Errorf("creating group %s: %w", current, storage.ErrNotGroup)
		case missing:
		}
		if err := os.Mkdir(dir, f.store.permD); err != nil {
			return fmt.Errorf("creating group %s: %w", current, err)
		}
		f.store.logger.Debug("created group", "file", f.root, "group", current)
	}
	return nil
}

func (f *File) CreateDataset(groupPath, name string, kind dtype.Kind, dims []uint64, opts ...storage.DatasetOption) error {
	if err := f.check(true); err != nil {
		return err
	}
	path := storage.JoinPath(groupPath, name)
	if err := storage.ValidName(name); err != nil {
		return fmt.Errorf("creating dataset %s: %w", path, err)
	}
	if !kind.Valid() {
		return fmt.Errorf("creating dataset %s: %w: %s", path, dtype.ErrUnsupportedKind, kind)
	}

	_, gkind, err := f.resolve(storage.CleanPath(groupPath))
	if err != nil {
		return fmt.Errorf("creating dataset %s: %w", path, err)
	}
	switch gkind {
	case missing:
		return fmt.Errorf("creating dataset %s: group %w", path, storage.ErrNotFound)
	case datasetObject:
		return fmt.Errorf("creating dataset %s: %w", path, storage.ErrNotGroup)
	case groupObject:
	}

	dir, dkind, err := f.resolve(path)
	if err != nil {
		return fmt.Errorf("creating dataset %s: %w", path, err)
	}
	if dkind != missing {
		return fmt.Errorf("creating dataset %s: %w", path, storage.ErrExists)
	}

	o := storage.NewDatasetOptions(opts...)
	if err := o.Validate(dims); err != nil {
		return fmt.Errorf("creating dataset %s: %w", path, err)
	}
	chunks := o.Chunks
	if chunks == nil {
		chunks = layout.DefaultChunkDims(dims, o.MaxDims, kind.Size())
	}
	hdr := &header{
		Kind:      kind,
		Dims:      append([]uint64{}, dims...),
		MaxDims:   append([]uint64{}, o.MaxDims...),
		ChunkDims: append([]uint64{}, chunks...),
		Filters:   filterChain(o, kind),
	}
	if _, err := newDataset(f.store, path, dir, hdr); err != nil {
		return fmt.Errorf("creating dataset %s: %w", path, err)
	}

	if err := os.Mkdir(dir, f.store.permD); err != nil {
		return fmt.Errorf("creating dataset %s: %w", path, err)
	}
	if err := f.store.writeAtomic(filepath.Join(dir, headerName), hdr.encode()); err != nil {
		_ = os.Remove(dir)
		return fmt.Errorf("creating dataset %s: %w", path, err)
	}
	f.store.logger.Debug("created dataset",
		"file", f.root, "dataset", path, "kind", kind.String(),
		"dims", dims, "chunks", chunks, "filters", filterNames(hdr.Filters))
	return nil
}

func (f *File) Members(groupPath string) ([]string, error) {
	if err := f.check(false); err != nil {
		return nil, err
	}
	groupPath = storage.CleanPath(groupPath)
	dir, kind, err := f.resolve(groupPath)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", groupPath, err)
	}
	switch kind {
	case missing:
		return nil, fmt.Errorf("listing %s: %w", groupPath, storage.ErrNotFound)
	case datasetObject:
		return nil, fmt.Errorf("listing %s: %w", groupPath, storage.ErrNotGroup)
	case groupObject:
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", groupPath, err)
	}
	names := []string{}
	for _, e := range entries {
		if e.IsDir() && storage.ValidName(e.Name()) == nil {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

func (f *File) Stat(path string) (storage.ObjectInfo, error) {
	if err := f.check(false); err != nil {
		return storage.ObjectInfo{}, err
	}
	path = storage.CleanPath(path)
	dir, kind, err := f.resolve(path)
	if err != nil {
		return storage.ObjectInfo{}, fmt.Errorf("stat %s: %w", path, err)
	}
	switch kind {
	case missing:
		return storage.ObjectInfo{}, fmt.Errorf("stat %s: %w", path, storage.ErrNotFound)
	case groupObject:
		return storage.ObjectInfo{Path: path, Group: true, StoredChunks: -1}, nil
	case datasetObject:
	}

	ds, err := loadDataset(f.store, path, dir)
	if err != nil {
		return storage.ObjectInfo{}, fmt.Errorf("stat %s: %w", path, err)
	}
	stored, err := ds.storedChunks()
	if err != nil {
		return storage.ObjectInfo{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return storage.ObjectInfo{
		Path:         path,
		Kind:         ds.hdr.Kind,
		Dims:         append([]uint64(nil), ds.hdr.Dims...),
		MaxDims:      append([]uint64(nil), ds.hdr.MaxDims...),
		ChunkDims:    append([]uint64(nil), ds.hdr.ChunkDims...),
		Filters:      filterNames(ds.hdr.Filters),
		StoredChunks: stored,
	}, nil
}
