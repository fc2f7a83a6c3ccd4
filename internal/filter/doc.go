// Package filter implements the chunk filter pipeline.
//
// Every chunk written by the directory store passes through a sequence of
// filters on its way to disk and through the same sequence in reverse order
// on its way back. Each filter is reversible: Encode transforms raw bytes to
// their stored form, Decode undoes it.
//
// # Supported Filters
//
//   - Shuffle ([IDShuffle]): byte shuffling via [Shuffle]. Groups byte
//     position j of every element together so compressors see runs of
//     similar bytes.
//
//   - Deflate ([IDDeflate]): zlib compression via [Deflate], backed by
//     github.com/klauspost/compress/zlib.
//
//   - Zstd ([IDZstd]): Zstandard compression via [Zstd] with pooled
//     encoders and decoders from github.com/klauspost/compress/zstd.
//
//   - S2 ([IDS2]): Snappy-compatible S2 block compression via [S2].
//
//   - LZ4 ([IDLZ4]): LZ4 block compression via [LZ4], backed by
//     github.com/pierrec/lz4/v4.
//
//   - Fletcher32 ([IDFletcher32]) and XXH64 ([IDXXH64]): trailing checksums
//     verified on decode. A mismatch is reported as [ErrChecksum].
//
// # Filter Pipeline
//
// The [Pipeline] type manages the filter sequence of one dataset:
//
//	pipeline, err := filter.NewPipeline(infos)
//	stored, mask, err := pipeline.Encode(raw)
//	raw, err = pipeline.Decode(stored, mask)
//
// Compression filters whose output would not be smaller than their input are
// skipped on encode. The returned mask records skipped filters (bit i set
// means filter i was not applied) and must be stored next to the chunk.
package filter
