// Package storage defines the slab-oriented storage primitives that lazy
// loaders and savers are written against.
//
// A storage "file" holds a tree of groups. Groups hold datasets: named,
// fixed-rank N-dimensional arrays of one element kind. Data moves in slabs,
// contiguous hyper-rectangles given by a start offset and a count per axis.
//
// # Backends and Handles
//
// A [Backend] opens a file at a path and returns a [Handle]. A handle is
// addressed in two steps before data can move:
//
//	h, err := backend.Open("/data/scan.nxs", storage.ReadOnly)
//	err = h.OpenGroupPath("/entry1/instrument/detector")
//	err = h.OpenDataset("data")
//	dims, kind, err := h.ShapeAndType()
//	raw, err := h.ReadSlab(start, count)
//
// Slab bytes are row-major and little-endian, [dtype.Kind.Size] bytes per
// element. Handles returned by the backends in this module also implement
// [File], which adds dataset creation and listing.
//
// # Dataset Creation
//
// [Creator.CreateDataset] takes functional options:
//
//	err := f.CreateDataset("/entry1/data", "counts", dtype.Int16, []uint64{2, 34},
//		storage.WithMaxDims(0, 34),
//		storage.WithChunks(1, 34),
//		storage.WithCompression(storage.CompressionZstd, 3),
//		storage.WithShuffle(),
//	)
//
// A max dimension of 0 marks the axis unlimited. Writes beyond the current
// extent grow any axis whose max dimension allows it.
//
// # Paths
//
// Group paths are absolute and slash-separated. [CleanPath] normalizes them,
// [SplitPath] breaks them into names.
package storage
