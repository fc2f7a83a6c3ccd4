package hyperslab

import "fmt"

// DecimatedCount returns the number of elements Decimate keeps per axis.
func DecimatedCount(size []uint64, step []int) []uint64 {
	count := make([]uint64, len(size))
	for i, n := range size {
		if n == 0 {
			continue
		}
		count[i] = (n-1)/absStep(step[i]) + 1
	}
	return count
}

// Decimate keeps every |step|-th element of each axis of data, a dense block
// of shape size. Positive steps start at index 0, negative steps start at the
// last index and walk backwards, so the result is in selection order.
func Decimate(data []byte, size []uint64, step []int, elemSize int) ([]byte, error) {
	if len(step) != len(size) {
		return nil, fmt.Errorf("%w: %d steps for %d axes", ErrRankMismatch, len(step), len(size))
	}
	if uint64(len(data)) < Elements(size)*uint64(elemSize) {
		return nil, fmt.Errorf("%w: %d bytes for block %v", ErrOutOfBounds, len(data), size)
	}
	count := DecimatedCount(size, step)
	out := make([]byte, Elements(count)*uint64(elemSize))
	if len(out) == 0 {
		return out, nil
	}
	strided(out, data, size, step, count, elemSize, true)
	return out, nil
}

// Scatter writes src, a dense block of the decimated shape, into dst at the
// positions Decimate would read from. dst is a dense block of shape size.
func Scatter(dst []byte, size []uint64, step []int, src []byte, elemSize int) error {
	if len(step) != len(size) {
		return fmt.Errorf("%w: %d steps for %d axes", ErrRankMismatch, len(step), len(size))
	}
	count := DecimatedCount(size, step)
	if uint64(len(src)) != Elements(count)*uint64(elemSize) {
		return fmt.Errorf("%w: %d bytes for decimated block %v", ErrOutOfBounds, len(src), count)
	}
	if uint64(len(dst)) < Elements(size)*uint64(elemSize) {
		return fmt.Errorf("%w: %d bytes for block %v", ErrOutOfBounds, len(dst), size)
	}
	if len(src) == 0 {
		return nil
	}
	strided(src, dst, size, step, count, elemSize, false)
	return nil
}

// strided moves elements between a dense block (shape count) and a sparse
// block (shape size). gather copies sparse to dense, otherwise dense to sparse.
func strided(dense, sparse []byte, size []uint64, step []int, count []uint64, elemSize int, gather bool) {
	if len(size) == 0 {
		if gather {
			copy(dense[:elemSize], sparse[:elemSize])
		} else {
			copy(sparse[:elemSize], dense[:elemSize])
		}
		return
	}
	stridedRecursive(dense, sparse, size, step, count,
		Strides(count, elemSize), Strides(size, elemSize),
		0, 0, 0, uint64(elemSize), gather)
}

func stridedRecursive(
	dense, sparse []byte,
	size []uint64, step []int, count []uint64,
	denseStrides, sparseStrides []uint64,
	denseOffset, sparseOffset uint64,
	dim int, elemSize uint64, gather bool,
) {
	last := dim == len(size)-1
	if last && step[dim] == 1 {
		n := count[dim] * elemSize
		if gather {
			copy(dense[denseOffset:denseOffset+n], sparse[sparseOffset:sparseOffset+n])
		} else {
			copy(sparse[sparseOffset:sparseOffset+n], dense[denseOffset:denseOffset+n])
		}
		return
	}

	for i := uint64(0); i < count[dim]; i++ {
		d := denseOffset + i*denseStrides[dim]
		s := sparseOffset + sparseIndex(i, size[dim], step[dim])*sparseStrides[dim]
		if last {
			if gather {
				copy(dense[d:d+elemSize], sparse[s:s+elemSize])
			} else {
				copy(sparse[s:s+elemSize], dense[d:d+elemSize])
			}
			continue
		}
		stridedRecursive(dense, sparse, size, step, count,
			denseStrides, sparseStrides, d, s, dim+1, elemSize, gather)
	}
}

func sparseIndex(i, size uint64, step int) uint64 {
	if step > 0 {
		return i * uint64(step)
	}
	return size - 1 - i*uint64(-step)
}

func absStep(step int) uint64 {
	if step < 0 {
		return uint64(-step)
	}
	return uint64(step)
}
