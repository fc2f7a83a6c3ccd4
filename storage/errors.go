package storage

import "errors"

// Common errors
var (
	ErrNotFound     = errors.New("object not found")
	ErrNotDataset   = errors.New("object is not a dataset")
	ErrNotGroup     = errors.New("object is not a group")
	ErrExists       = errors.New("object already exists")
	ErrClosed       = errors.New("file is closed")
	ErrReadOnly     = errors.New("file is read-only")
	ErrNoDataset    = errors.New("no dataset open")
	ErrOutOfBounds  = errors.New("slab out of bounds")
	ErrInvalidPath  = errors.New("invalid path")
	ErrCorrupt      = errors.New("corrupt storage")
	ErrUnsupported  = errors.New("unsupported feature")
	ErrShape        = errors.New("invalid shape")
	ErrNotStoreFile = errors.New("not a store file")
)
