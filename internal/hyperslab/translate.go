package hyperslab

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrRankMismatch  = errors.New("region rank does not match dataset shape")
	ErrInvalidRegion = errors.New("invalid region")
	ErrOutOfBounds   = errors.New("block out of bounds")
)

// Slab is a physical request against the true shape of a dataset.
type Slab struct {
	// Start and Size describe the contiguous block to transfer, one entry per
	// true axis.
	Start []uint64
	Size  []uint64

	// Step holds the logical step of each true axis; reinserted unit axes
	// have step 1.
	Step []int

	// Count is the number of selected elements per true axis once the block
	// has been decimated.
	Count []uint64

	// Shape is the logical shape of the selection (the requested counts).
	Shape []int

	// Stepped is true when any axis needs decimation.
	Stepped bool
}

// Empty reports whether the selection contains no elements.
func (s Slab) Empty() bool {
	for _, c := range s.Shape {
		if c == 0 {
			return true
		}
	}
	return false
}

// Elements returns the number of selected elements.
func (s Slab) Elements() int {
	n := 1
	for _, c := range s.Shape {
		n *= c
	}
	return n
}

// WithTrailingAxis returns a copy of s with one more unstepped axis of the
// given length appended. Char datasets use it to address the text axis.
func (s Slab) WithTrailingAxis(length int) Slab {
	out := Slab{
		Start:   append(append([]uint64(nil), s.Start...), 0),
		Size:    append(append([]uint64(nil), s.Size...), uint64(length)),
		Step:    append(append([]int(nil), s.Step...), 1),
		Count:   append(append([]uint64(nil), s.Count...), uint64(length)),
		Shape:   append([]int(nil), s.Shape...),
		Stepped: s.Stepped,
	}
	return out
}

// LastIndex returns start + (count-1)*step, the last index of an axis
// selection with count >= 1. Selections that step below zero, or whose
// covering block would not fit in an int, fail with ErrInvalidRegion.
func LastIndex(start, count, step int) (int, error) {
	n := count - 1
	if n == 0 {
		return start, nil
	}
	if step == math.MinInt || n > (math.MaxInt-1)/absInt(step) {
		return 0, fmt.Errorf("%w: %d steps of %d overflow", ErrInvalidRegion, n, step)
	}
	offset := n * step
	if step > 0 && offset > math.MaxInt-1-start {
		return 0, fmt.Errorf("%w: %d steps of %d from %d overflow", ErrInvalidRegion, n, step, start)
	}
	last := start + offset
	if last < 0 {
		return 0, fmt.Errorf("%w: %d steps of %d from %d go below zero", ErrInvalidRegion, n, step, start)
	}
	return last, nil
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Translate maps the logical region start/step/count over squeezed onto the
// true shape. squeezed may be nil, in which case only the ranks of the region
// are checked. A region of the same rank as trueShape maps axis for axis;
// a lower-rank region has the unit axes of trueShape reinserted.
func Translate(squeezed, trueShape []int, start, step, count []int) (Slab, error) {
	rank := len(count)
	if len(start) != rank || len(step) != rank {
		return Slab{}, fmt.Errorf("%w: start %d, step %d, count %d axes",
			ErrRankMismatch, len(start), len(step), rank)
	}
	if squeezed != nil && len(squeezed) != rank {
		return Slab{}, fmt.Errorf("%w: region has %d axes, source shape %v",
			ErrRankMismatch, rank, squeezed)
	}

	lstart := make([]uint64, rank)
	lsize := make([]uint64, rank)
	stepped := false
	for i := 0; i < rank; i++ {
		if step[i] == 0 {
			return Slab{}, fmt.Errorf("%w: zero step on axis %d", ErrInvalidRegion, i)
		}
		if start[i] < 0 || count[i] < 0 {
			return Slab{}, fmt.Errorf("%w: start %d count %d on axis %d", ErrInvalidRegion, start[i], count[i], i)
		}
		if step[i] != 1 {
			stepped = true
		}
		if count[i] == 0 {
			lstart[i] = uint64(start[i])
			continue
		}
		last, err := LastIndex(start[i], count[i], step[i])
		if err != nil {
			return Slab{}, fmt.Errorf("axis %d: %w", i, err)
		}
		if step[i] < 0 {
			lsize[i] = uint64(start[i] - last + 1)
			lstart[i] = uint64(last)
		} else {
			lsize[i] = uint64(last - start[i] + 1)
			lstart[i] = uint64(start[i])
		}
	}

	slab := Slab{
		Shape:   append([]int(nil), count...),
		Stepped: stepped,
	}

	trank := len(trueShape)
	switch {
	case rank == trank:
		slab.Start = lstart
		slab.Size = lsize
		slab.Step = append([]int(nil), step...)
		slab.Count = make([]uint64, rank)
		for i, c := range count {
			slab.Count[i] = uint64(c)
		}
	case rank < trank:
		units := 0
		for _, d := range trueShape {
			if d == 1 {
				units++
			}
		}
		if trank-rank != units {
			return Slab{}, fmt.Errorf("%w: %d logical axes cannot address true shape %v",
				ErrRankMismatch, rank, trueShape)
		}
		slab.Start = make([]uint64, trank)
		slab.Size = make([]uint64, trank)
		slab.Step = make([]int, trank)
		slab.Count = make([]uint64, trank)
		j := 0
		for i, d := range trueShape {
			if d == 1 {
				slab.Size[i] = 1
				slab.Step[i] = 1
				slab.Count[i] = 1
				continue
			}
			slab.Start[i] = lstart[j]
			slab.Size[i] = lsize[j]
			slab.Step[i] = step[j]
			slab.Count[i] = uint64(count[j])
			j++
		}
	default:
		return Slab{}, fmt.Errorf("%w: %d logical axes exceed true shape %v",
			ErrRankMismatch, rank, trueShape)
	}
	return slab, nil
}
