// Package dirstore implements a persistent chunked storage backend in which a
// storage file is a directory tree.
//
// # On-Disk Layout
//
//	scan.nxs/               file root
//	  .nxstore              superblock
//	  entry1/               group
//	    counts/             dataset
//	      .dataset          dataset header
//	      c.0.0             chunk (0, 0)
//	      c.1.0             chunk (1, 0)
//
// Groups are plain directories. A directory holding a .dataset header is a
// dataset. Names starting with a dot are reserved.
//
// The superblock is an 8-byte signature, a version byte and an xxHash64 of
// both. The dataset header records the element kind, the current and maximum
// dims, the chunk shape and the filter pipeline, followed by an xxHash64 of
// the preceding bytes.
//
// # Chunks
//
// Datasets are always chunked. Each chunk file holds a 4-byte filter mask
// followed by the chunk bytes after the filter pipeline (shuffle, then
// compression, then checksums). Chunks that were never written read as
// zeros. A chunk whose checksum does not verify yields [storage.ErrCorrupt].
//
// Every metadata and chunk file is written to a temporary file and renamed
// into place.
//
// # Growth
//
// Writes beyond the current extent grow each axis whose maximum allows it
// (a maximum of 0 is unlimited) and persist the new dims. Writes beyond a
// fixed maximum fail with [storage.ErrOutOfBounds].
package dirstore
