package filter

import (
	"errors"
	"fmt"
)

// Filter identifiers as stored in dataset headers.
const (
	IDDeflate    uint16 = 1
	IDShuffle    uint16 = 2
	IDFletcher32 uint16 = 3
	IDZstd       uint16 = 4
	IDS2         uint16 = 5
	IDLZ4        uint16 = 6
	IDXXH64      uint16 = 7
)

var (
	// ErrChecksum is returned when a checksum filter detects corruption.
	ErrChecksum = errors.New("filter checksum mismatch")

	// ErrUnknownFilter is returned for filter IDs missing from the Registry.
	ErrUnknownFilter = errors.New("unknown filter")

	// ErrIncompressible is returned by Encode of a compression filter that
	// cannot shrink its input. The pipeline skips such filters.
	ErrIncompressible = errors.New("input is incompressible")
)

// Filter is the interface implemented by all chunk filters.
type Filter interface {
	// ID returns the filter identifier.
	ID() uint16

	// Encode transforms raw data to its stored form.
	Encode(input []byte) ([]byte, error)

	// Decode transforms stored data back to raw form.
	Decode(input []byte) ([]byte, error)
}

// Info describes one filter of a pipeline: its ID and parameters.
type Info struct {
	ID     uint16
	Params []uint32
}

// Registry maps filter IDs to filter constructors.
var Registry = map[uint16]func([]uint32) Filter{
	IDDeflate:    func(p []uint32) Filter { return NewDeflate(p) },
	IDShuffle:    func(p []uint32) Filter { return NewShuffle(p) },
	IDFletcher32: func(p []uint32) Filter { return NewFletcher32(p) },
	IDZstd:       func(p []uint32) Filter { return NewZstd(p) },
	IDS2:         func(p []uint32) Filter { return NewS2(p) },
	IDLZ4:        func(p []uint32) Filter { return NewLZ4(p) },
	IDXXH64:      func(p []uint32) Filter { return NewXXH64(p) },
}

var filterNames = map[uint16]string{
	IDDeflate:    "deflate",
	IDShuffle:    "shuffle",
	IDFletcher32: "fletcher32",
	IDZstd:       "zstd",
	IDS2:         "s2",
	IDLZ4:        "lz4",
	IDXXH64:      "xxh64",
}

// Name returns a readable name for a filter ID.
func Name(id uint16) string {
	if name, ok := filterNames[id]; ok {
		return name
	}
	return fmt.Sprintf("filter-%d", id)
}

// String returns the filter name followed by its parameters, if any.
func (i Info) String() string {
	if len(i.Params) == 0 {
		return Name(i.ID)
	}
	return fmt.Sprintf("%s%v", Name(i.ID), i.Params)
}

// New creates a filter from an Info.
func New(info Info) (Filter, error) {
	constructor, ok := Registry[info.ID]
	if !ok {
		return nil, fmt.Errorf("%w: ID %d", ErrUnknownFilter, info.ID)
	}
	return constructor(info.Params), nil
}

// compressing reports whether the filter may be skipped when it does not
// reduce the size of its input.
func compressing(id uint16) bool {
	switch id {
	case IDDeflate, IDZstd, IDS2, IDLZ4:
		return true
	default:
		return false
	}
}

func param(params []uint32, i int, def uint32) uint32 {
	if i < len(params) {
		return params[i]
	}
	return def
}
