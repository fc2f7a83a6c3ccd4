package hyperslab

import "fmt"

// Strides returns the row-major byte strides of a buffer with the given dims.
func Strides(dims []uint64, elemSize int) []uint64 {
	n := len(dims)
	strides := make([]uint64, n)
	if n == 0 {
		return strides
	}
	strides[n-1] = uint64(elemSize)
	for d := n - 2; d >= 0; d-- {
		strides[d] = strides[d+1] * dims[d+1]
	}
	return strides
}

// Elements returns the product of dims; 1 for rank 0.
func Elements(dims []uint64) uint64 {
	n := uint64(1)
	for _, d := range dims {
		n *= d
	}
	return n
}

// Extract copies the block start/count out of data, whose dims are given.
func Extract(data []byte, dims, start, count []uint64, elemSize int) ([]byte, error) {
	out := make([]byte, Elements(count)*uint64(elemSize))
	zero := make([]uint64, len(count))
	if err := CopyBlock(out, count, zero, data, dims, start, count, elemSize); err != nil {
		return nil, err
	}
	return out, nil
}

// Insert copies src, a dense block of shape count, into data at start.
func Insert(data []byte, dims, start, count []uint64, src []byte, elemSize int) error {
	zero := make([]uint64, len(count))
	return CopyBlock(data, dims, start, src, count, zero, count, elemSize)
}

// CopyBlock copies a count-shaped block from src (dims srcDims, origin
// srcStart) to dst (dims dstDims, origin dstStart).
func CopyBlock(
	dst []byte, dstDims, dstStart []uint64,
	src []byte, srcDims, srcStart []uint64,
	count []uint64, elemSize int,
) error {
	ndims := len(count)
	if len(dstDims) != ndims || len(dstStart) != ndims || len(srcDims) != ndims || len(srcStart) != ndims {
		return fmt.Errorf("%w: block rank %d", ErrRankMismatch, ndims)
	}
	for d := 0; d < ndims; d++ {
		if dstStart[d]+count[d] > dstDims[d] || srcStart[d]+count[d] > srcDims[d] {
			return fmt.Errorf("%w: axis %d count %d (dst %d+/%d, src %d+/%d)",
				ErrOutOfBounds, d, count[d], dstStart[d], dstDims[d], srcStart[d], srcDims[d])
		}
	}
	if uint64(len(dst)) < Elements(dstDims)*uint64(elemSize) || uint64(len(src)) < Elements(srcDims)*uint64(elemSize) {
		return fmt.Errorf("%w: buffer shorter than its dims", ErrOutOfBounds)
	}
	if Elements(count) == 0 {
		return nil
	}
	if ndims == 0 {
		copy(dst[:elemSize], src[:elemSize])
		return nil
	}

	copyBlockRecursive(dst, src,
		Strides(dstDims, elemSize), Strides(srcDims, elemSize),
		dstStart, srcStart, count,
		0, 0, 0, uint64(elemSize))
	return nil
}

func copyBlockRecursive(
	dst, src []byte,
	dstStrides, srcStrides []uint64,
	dstStart, srcStart, count []uint64,
	dstOffset, srcOffset uint64,
	dim int, elemSize uint64,
) {
	if dim == len(count)-1 {
		// innermost dimension is contiguous in both buffers
		rowBytes := count[dim] * elemSize
		d := dstOffset + dstStart[dim]*elemSize
		s := srcOffset + srcStart[dim]*elemSize
		copy(dst[d:d+rowBytes], src[s:s+rowBytes])
		return
	}

	for i := uint64(0); i < count[dim]; i++ {
		copyBlockRecursive(dst, src,
			dstStrides, srcStrides,
			dstStart, srcStart, count,
			dstOffset+(dstStart[dim]+i)*dstStrides[dim],
			srcOffset+(srcStart[dim]+i)*srcStrides[dim],
			dim+1, elemSize)
	}
}
