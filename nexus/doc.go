// Package nexus reads and writes slices of stored datasets lazily.
//
// A [Loader] is bound to one dataset: a file (the [Source]), the path of the
// group holding it, its name, its true on-disk shape and the element kind
// callers want. Nothing is read until [Loader.GetDataset] is called with a
// [Region]:
//
//	l := nexus.NewLoader(store, nexus.FileSource("/data/scan.nxs"),
//		"/entry1/instrument/detector", "data", []int{100, 1, 512}, dtype.Int32)
//	r, err := nexus.NewRegion([]int{100, 512}, []int{0, 10}, []int{100, 20}, []int{2, 1})
//	buf, err := l.GetDataset(r)
//
// # Regions
//
// A region selects Count[i] indices along each axis, from Start[i] in steps
// of Step[i]. Steps may be negative, in which case the selection runs
// backwards. Storage only moves contiguous slabs, so a stepped region is
// read as the smallest slab covering it and then decimated.
//
// Regions may address a squeezed view of the dataset, with the unit axes of
// the true shape removed. The loader reinserts them before going to
// storage; the number of missing axes must equal the number of unit axes.
//
// # Text
//
// Char datasets store each string in a fixed number of bytes along an extra
// trailing axis. The true shape given to a Loader excludes that axis. Reads
// strip the zero padding; writes truncate strings longer than the text
// length set with [Saver.SetMaxTextLength].
//
// # Handles
//
// A Loader opens the file for each call and closes it afterwards, unless a
// handle is supplied with [WithHandle] or retained with [WithKeepOpen]. A
// retained handle that can no longer address the group is dropped and a
// fresh one opened. A [Saver] always opens the file for writing and closes it
// before returning.
//
// # Errors
//
// Region and shape problems return [ErrRankMismatch] or [ErrInvalidRegion],
// unexpected on-disk kinds [ErrFormatMismatch], and storage failures
// [ErrBackend]. [WithDegradeOnFailure] turns backend failures into logged
// events with an empty result. [Classify] maps any error to an [ErrorKind].
package nexus
