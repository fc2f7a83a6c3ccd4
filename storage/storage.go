package storage

import (
	"fmt"

	"github.com/robert-malhotra/go-nexus/dtype"
)

// Mode selects how a backend opens a file.
type Mode int

const (
	// ReadOnly opens an existing file for reading.
	ReadOnly Mode = iota
	// ReadWrite opens an existing file for reading and writing.
	ReadWrite
	// Create opens a file for reading and writing, creating it if missing.
	Create
)

func (m Mode) String() string {
	switch m {
	case ReadOnly:
		return "read-only"
	case ReadWrite:
		return "read-write"
	case Create:
		return "create"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Writable reports whether handles opened with m accept writes.
func (m Mode) Writable() bool {
	return m == ReadWrite || m == Create
}

// Backend opens storage files.
type Backend interface {
	Open(path string, mode Mode) (Handle, error)
}

// Handle is an open storage file with a current group and dataset.
type Handle interface {
	// OpenGroupPath makes the group at the absolute path current and clears
	// the current dataset.
	OpenGroupPath(path string) error

	// OpenDataset makes the named dataset of the current group current.
	OpenDataset(name string) error

	// ShapeAndType returns the on-disk dims and element kind of the current
	// dataset.
	ShapeAndType() ([]uint64, dtype.Kind, error)

	// ReadSlab reads the block start/count of the current dataset.
	ReadSlab(start, count []uint64) ([]byte, error)

	// WriteSlab writes the block start/count of the current dataset, growing
	// axes the dataset's max dims allow.
	WriteSlab(start, count []uint64, data []byte) error

	Close() error
}

// Creator creates groups and datasets.
type Creator interface {
	// CreateGroup creates the group at path and any missing parents.
	CreateGroup(path string) error

	// CreateDataset creates a dataset in the group at groupPath. The group
	// must exist.
	CreateDataset(groupPath, name string, kind dtype.Kind, dims []uint64, opts ...DatasetOption) error
}

// Lister enumerates the objects of a file.
type Lister interface {
	// Members returns the sorted names of the children of a group.
	Members(groupPath string) ([]string, error)

	// Stat describes the group or dataset at path.
	Stat(path string) (ObjectInfo, error)
}

// File is the full surface of a handle opened by this module's backends.
type File interface {
	Handle
	Creator
	Lister
}

// ObjectInfo describes a group or dataset.
type ObjectInfo struct {
	Path  string
	Group bool

	// Dataset fields; zero for groups.
	Kind      dtype.Kind
	Dims      []uint64
	MaxDims   []uint64
	ChunkDims []uint64
	Filters   []string

	// StoredChunks is the number of chunks present in storage, or -1 when
	// the backend does not chunk.
	StoredChunks int
}

// IsDataset reports whether the object is a dataset.
func (o ObjectInfo) IsDataset() bool {
	return !o.Group
}
