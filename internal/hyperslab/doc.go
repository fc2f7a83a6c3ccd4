// Package hyperslab converts logical slice requests into physical slab
// requests and moves hyper-rectangular blocks between row-major buffers.
//
// # Translation
//
// The storage primitive only transfers contiguous hyper-rectangles in the
// dataset's true rank. [Translate] maps a logical region (start, step, count
// over the squeezed rank) onto such a slab:
//
//   - Stepped axes read the smallest contiguous superset containing every
//     selected index. For step s and count c the superset spans
//     (c-1)*|s|+1 elements starting at the lowest selected index.
//   - Unit-length axes of the true shape that are absent from the logical
//     view are reinserted with start 0 and size 1.
//
// After the slab is read, [Decimate] keeps every |s|-th element of each
// stepped axis, walking from the high end when s is negative. [Scatter] is
// the inverse and is used for stepped writes.
//
// # Block Copy
//
// [Extract], [Insert] and [CopyBlock] copy a block between buffers stored in
// row-major order. They recurse through the dimensions and copy the innermost
// dimension contiguously.
package hyperslab
