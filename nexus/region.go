package nexus

import (
	"fmt"
	"slices"

	"github.com/robert-malhotra/go-nexus/internal/hyperslab"
)

// Region selects elements of a logical array: count[i] indices along axis i,
// starting at start[i] and spaced step[i] apart. Steps may be negative.
type Region struct {
	Start []int
	Step  []int
	Count []int

	// Shape is the logical shape the region was cut from. Nil means the
	// region addresses the true shape directly.
	Shape []int
}

// NewRegion builds a region from half-open ranges start:stop:step over shape.
// Nil start, stop or step select the full axis with step 1; a negative step
// walks from start down to stop, exclusive, and defaults to the full axis
// reversed.
func NewRegion(shape, start, stop, step []int) (Region, error) {
	rank := len(shape)
	for _, v := range [][]int{start, stop, step} {
		if v != nil && len(v) != rank {
			return Region{}, fmt.Errorf("%w: %d axes for shape %v", ErrRankMismatch, len(v), shape)
		}
	}

	r := Region{
		Start: make([]int, rank),
		Step:  make([]int, rank),
		Count: make([]int, rank),
		Shape: slices.Clone(shape),
	}
	for i, n := range shape {
		s := 1
		if step != nil {
			s = step[i]
		}
		if s == 0 {
			return Region{}, fmt.Errorf("%w: zero step on axis %d", ErrInvalidRegion, i)
		}
		var lo, hi int
		if s > 0 {
			lo, hi = 0, n
		} else {
			lo, hi = n-1, -1
		}
		if start != nil {
			lo = start[i]
		}
		if stop != nil {
			hi = stop[i]
		}
		if (s > 0 && (lo < 0 || lo > n)) || (s < 0 && (lo < -1 || lo >= max(n, 1))) {
			return Region{}, fmt.Errorf("%w: start %d on axis %d of length %d", ErrInvalidRegion, lo, i, n)
		}
		if hi < -1 || hi > n {
			return Region{}, fmt.Errorf("%w: stop %d on axis %d of length %d", ErrInvalidRegion, hi, i, n)
		}
		r.Step[i] = s
		r.Count[i] = rangeCount(lo, hi, s)
		if r.Count[i] == 0 {
			r.Start[i] = max(min(lo, n), 0)
			continue
		}
		if lo < 0 || lo >= n {
			return Region{}, fmt.Errorf("%w: start %d on axis %d of length %d", ErrInvalidRegion, lo, i, n)
		}
		r.Start[i] = lo
	}
	return r, nil
}

func rangeCount(start, stop, step int) int {
	if step > 0 {
		if stop <= start {
			return 0
		}
		return 1 + (stop-start-1)/step
	}
	if stop >= start {
		return 0
	}
	return 1 - (start-stop-1)/step
}

// SliceRegion selects start:stop with unit steps.
func SliceRegion(shape, start, stop []int) (Region, error) {
	return NewRegion(shape, start, stop, nil)
}

// FullRegion selects every element of shape.
func FullRegion(shape []int) Region {
	r := Region{
		Start: make([]int, len(shape)),
		Step:  make([]int, len(shape)),
		Count: slices.Clone(shape),
		Shape: slices.Clone(shape),
	}
	for i := range r.Step {
		r.Step[i] = 1
	}
	return r
}

// Rank returns the number of logical axes.
func (r Region) Rank() int {
	return len(r.Count)
}

// Empty reports whether the region selects no elements.
func (r Region) Empty() bool {
	return slices.Contains(r.Count, 0)
}

// Size returns the number of selected elements.
func (r Region) Size() int {
	n := 1
	for _, c := range r.Count {
		n *= c
	}
	return n
}

// Validate checks the region is consistent and, when Shape is set, lies
// within it.
func (r Region) Validate() error {
	rank := len(r.Count)
	if len(r.Start) != rank || len(r.Step) != rank {
		return fmt.Errorf("%w: start %d, step %d, count %d axes",
			ErrRankMismatch, len(r.Start), len(r.Step), rank)
	}
	if r.Shape != nil && len(r.Shape) != rank {
		return fmt.Errorf("%w: region has %d axes, shape %v", ErrRankMismatch, rank, r.Shape)
	}
	for i := range rank {
		if r.Step[i] == 0 {
			return fmt.Errorf("%w: zero step on axis %d", ErrInvalidRegion, i)
		}
		if r.Start[i] < 0 || r.Count[i] < 0 {
			return fmt.Errorf("%w: start %d count %d on axis %d", ErrInvalidRegion, r.Start[i], r.Count[i], i)
		}
		if r.Count[i] == 0 {
			continue
		}
		last, err := hyperslab.LastIndex(r.Start[i], r.Count[i], r.Step[i])
		if err != nil {
			return fmt.Errorf("axis %d: %w", i, err)
		}
		if r.Shape != nil && (r.Start[i] >= r.Shape[i] || last >= r.Shape[i]) {
			return fmt.Errorf("%w: axis %d selects %d..%d of %d", ErrInvalidRegion, i, r.Start[i], last, r.Shape[i])
		}
	}
	return nil
}

func (r Region) String() string {
	return fmt.Sprintf("start %v step %v count %v", r.Start, r.Step, r.Count)
}
