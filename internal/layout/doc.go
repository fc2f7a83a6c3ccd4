// Package layout maps dataset coordinates onto a regular chunk grid.
//
// A chunked dataset divides its extent into equally sized chunks. Chunk
// (i, j, ...) covers elements [i*c0, (i+1)*c0) x [j*c1, (j+1)*c1) x ... of the
// dataset, where c is the chunk shape. Chunks are always stored at full chunk
// size; elements of edge chunks that lie outside the current extent are
// padding and are never copied out. This keeps stored chunks valid when an
// unlimited axis grows.
//
// # Reading and Writing Slabs
//
// [Grid.Chunks] lists the chunks overlapping a slab. [Grid.CopyOut] copies the
// overlapping part of one decoded chunk into a slab buffer, [Grid.CopyIn]
// copies the overlapping part of a slab buffer into a chunk:
//
//	grid, err := layout.NewGrid(dims, chunkDims, elemSize)
//	for _, coord := range grid.Chunks(start, count) {
//		chunk := load(layout.Key(coord))
//		grid.CopyOut(out, start, count, coord, chunk)
//	}
//
// # Chunk Keys
//
// [Key] names a chunk by its grid coordinate, "c.0.3" for chunk (0, 3).
// [ParseKey] reverses it.
package layout
