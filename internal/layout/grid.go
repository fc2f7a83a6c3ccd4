package layout

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/robert-malhotra/go-nexus/internal/hyperslab"
)

// ErrChunkShape is returned for chunk shapes that do not match the dataset.
var ErrChunkShape = errors.New("invalid chunk shape")

// Grid is the chunk grid of one dataset extent.
type Grid struct {
	dims      []uint64
	chunkDims []uint64
	elemSize  int
}

// NewGrid creates the chunk grid for an extent. Every chunk dimension must be
// at least 1 and the ranks must agree.
func NewGrid(dims, chunkDims []uint64, elemSize int) (*Grid, error) {
	if len(dims) != len(chunkDims) {
		return nil, fmt.Errorf("%w: %d chunk dims for rank %d", ErrChunkShape, len(chunkDims), len(dims))
	}
	for d, c := range chunkDims {
		if c == 0 {
			return nil, fmt.Errorf("%w: zero chunk size on axis %d", ErrChunkShape, d)
		}
	}
	if elemSize <= 0 {
		return nil, fmt.Errorf("%w: element size %d", ErrChunkShape, elemSize)
	}
	return &Grid{
		dims:      append([]uint64(nil), dims...),
		chunkDims: append([]uint64(nil), chunkDims...),
		elemSize:  elemSize,
	}, nil
}

// Dims returns the extent covered by the grid.
func (g *Grid) Dims() []uint64 {
	return g.dims
}

// ChunkDims returns the chunk shape.
func (g *Grid) ChunkDims() []uint64 {
	return g.chunkDims
}

// ChunkBytes returns the size in bytes of one decoded chunk.
func (g *Grid) ChunkBytes() int {
	return int(hyperslab.Elements(g.chunkDims)) * g.elemSize
}

// ChunkCounts returns the number of chunks along each axis.
func (g *Grid) ChunkCounts() []uint64 {
	counts := make([]uint64, len(g.dims))
	for d := range g.dims {
		counts[d] = (g.dims[d] + g.chunkDims[d] - 1) / g.chunkDims[d]
	}
	return counts
}

// ChunkOffset returns the dataset coordinate of the first element of a chunk.
func (g *Grid) ChunkOffset(coord []uint64) []uint64 {
	offset := make([]uint64, len(coord))
	for d, c := range coord {
		offset[d] = c * g.chunkDims[d]
	}
	return offset
}

// Chunks returns the coordinates of all chunks overlapping the block
// start/count, in row-major order.
func (g *Grid) Chunks(start, count []uint64) [][]uint64 {
	ndims := len(g.dims)
	if len(start) != ndims || len(count) != ndims {
		return nil
	}
	if ndims == 0 {
		return [][]uint64{{}}
	}

	first := make([]uint64, ndims)
	last := make([]uint64, ndims)
	for d := 0; d < ndims; d++ {
		if count[d] == 0 {
			return nil
		}
		first[d] = start[d] / g.chunkDims[d]
		last[d] = (start[d] + count[d] - 1) / g.chunkDims[d]
	}

	var coords [][]uint64
	coord := append([]uint64(nil), first...)
	for {
		coords = append(coords, append([]uint64(nil), coord...))

		// advance like an odometer, innermost axis fastest
		d := ndims - 1
		for ; d >= 0; d-- {
			if coord[d] < last[d] {
				coord[d]++
				break
			}
			coord[d] = first[d]
		}
		if d < 0 {
			return coords
		}
	}
}

// Covers reports whether the block start/count covers every element of the
// chunk that lies inside the extent. Such chunks can be written without
// reading their previous contents.
func (g *Grid) Covers(coord, start, count []uint64) bool {
	chunkStart, chunkEnd := g.bounds(coord)
	for d := range coord {
		if start[d] > chunkStart[d] || start[d]+count[d] < chunkEnd[d] {
			return false
		}
	}
	return true
}

// CopyOut copies the part of a decoded chunk that overlaps the block
// start/count into out, a dense buffer of shape count.
func (g *Grid) CopyOut(out []byte, start, count, coord []uint64, chunk []byte) error {
	if len(chunk) < g.ChunkBytes() {
		return fmt.Errorf("chunk %s holds %d bytes, want %d", Key(coord), len(chunk), g.ChunkBytes())
	}
	inChunk, inBlock, overlap := g.overlap(coord, start, count)
	return hyperslab.CopyBlock(out, count, inBlock, chunk, g.chunkDims, inChunk, overlap, g.elemSize)
}

// CopyIn copies the part of the block start/count held in data (a dense
// buffer of shape count) that overlaps a chunk into that chunk.
func (g *Grid) CopyIn(chunk []byte, coord, start, count []uint64, data []byte) error {
	if len(chunk) < g.ChunkBytes() {
		return fmt.Errorf("chunk %s holds %d bytes, want %d", Key(coord), len(chunk), g.ChunkBytes())
	}
	inChunk, inBlock, overlap := g.overlap(coord, start, count)
	return hyperslab.CopyBlock(chunk, g.chunkDims, inChunk, data, count, inBlock, overlap, g.elemSize)
}

// bounds returns the chunk's extent in dataset coordinates, clipped to the
// dataset dims.
func (g *Grid) bounds(coord []uint64) (chunkStart, chunkEnd []uint64) {
	chunkStart = g.ChunkOffset(coord)
	chunkEnd = make([]uint64, len(coord))
	for d := range coord {
		chunkEnd[d] = min(chunkStart[d]+g.chunkDims[d], g.dims[d])
	}
	return chunkStart, chunkEnd
}

// overlap returns the start of the overlap between a chunk and a block in
// chunk-relative and block-relative coordinates, and its size.
func (g *Grid) overlap(coord, start, count []uint64) (inChunk, inBlock, size []uint64) {
	chunkStart, chunkEnd := g.bounds(coord)
	ndims := len(coord)
	inChunk = make([]uint64, ndims)
	inBlock = make([]uint64, ndims)
	size = make([]uint64, ndims)
	for d := 0; d < ndims; d++ {
		lo := max(start[d], chunkStart[d])
		hi := min(start[d]+count[d], chunkEnd[d])
		if hi <= lo {
			// no overlap along this axis: zero-sized copy
			return inChunk, inBlock, make([]uint64, ndims)
		}
		inChunk[d] = lo - chunkStart[d]
		inBlock[d] = lo - start[d]
		size[d] = hi - lo
	}
	return inChunk, inBlock, size
}

// Key returns the storage key of a chunk: "c" followed by ".<index>" per
// axis.
func Key(coord []uint64) string {
	var b strings.Builder
	b.WriteByte('c')
	for _, c := range coord {
		b.WriteByte('.')
		b.WriteString(strconv.FormatUint(c, 10))
	}
	return b.String()
}

// ParseKey parses a chunk key of the given rank.
func ParseKey(key string, rank int) ([]uint64, bool) {
	parts := strings.Split(key, ".")
	if parts[0] != "c" || len(parts) != rank+1 {
		return nil, false
	}
	coord := make([]uint64, rank)
	for i, p := range parts[1:] {
		v, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nil, false
		}
		coord[i] = v
	}
	return coord, true
}

// DefaultChunkDims picks a chunk shape for datasets created without one:
// the current extent, with unlimited or empty axes given targetRows and the
// total capped near targetBytes by halving the leading axes.
func DefaultChunkDims(dims, maxDims []uint64, elemSize int) []uint64 {
	const targetRows = 64
	const targetBytes = 1 << 20

	chunk := make([]uint64, len(dims))
	for d := range dims {
		switch {
		case d < len(maxDims) && maxDims[d] == 0:
			chunk[d] = max(min(dims[d], targetRows), 1)
		case dims[d] == 0:
			chunk[d] = 1
		default:
			chunk[d] = dims[d]
		}
	}
	for d := 0; d < len(chunk); d++ {
		for chunk[d] > 1 && hyperslab.Elements(chunk)*uint64(elemSize) > targetBytes {
			chunk[d] = (chunk[d] + 1) / 2
		}
	}
	return chunk
}
