// Package dtype defines the element kinds stored in datasets and converts
// between typed Go slices and their raw little-endian byte form.
//
// # Kinds
//
// [Kind] is a closed enumeration:
//
//	Kind     | Go slice    | Size
//	---------|-------------|-----
//	Int8     | []int8      | 1
//	Int16    | []int16     | 2
//	Int32    | []int32     | 4
//	Int64    | []int64     | 8
//	Uint8    | []uint8     | 1
//	Uint16   | []uint16    | 2
//	Uint32   | []uint32    | 4
//	Uint64   | []uint64    | 8
//	Float32  | []float32   | 4
//	Float64  | []float64   | 8
//	Char     | []string    | 1 per byte of text
//
// Integer kinds can be promoted to their unsigned variant with
// [Kind.Unsigned]. Promotion of any other kind fails with [ErrNotInteger].
//
// # Raw Conversion
//
// [Encode] and [Decode] convert numeric slices to and from raw bytes:
//
//	raw, err := dtype.Encode(dtype.Int16, []int16{-5, 7})
//	vals, err := dtype.Decode(dtype.Int16, raw) // []int16{-5, 7}
//
// [Cast] converts a slice to the Go type of another kind, following Go's
// numeric conversion rules. Lossy casts are the caller's responsibility.
//
// # Fixed-Width Text
//
// Char datasets store each string in a fixed number of bytes. [EncodeText]
// copies the UTF-8 bytes of every string into its slot, truncating at the byte
// boundary or zero padding. [DecodeText] reverses it, cutting each slot at its
// first NUL byte.
package dtype
