package filter

import (
	"errors"
	"fmt"
)

// Pipeline represents the ordered filters of one dataset.
type Pipeline struct {
	filters []Filter
}

// NewPipeline creates a filter pipeline from filter descriptions, in
// encoding order.
func NewPipeline(infos []Info) (*Pipeline, error) {
	if len(infos) == 0 {
		return &Pipeline{}, nil
	}
	if len(infos) > 32 {
		return nil, fmt.Errorf("pipeline of %d filters exceeds mask width", len(infos))
	}

	p := &Pipeline{
		filters: make([]Filter, 0, len(infos)),
	}
	for _, info := range infos {
		f, err := New(info)
		if err != nil {
			return nil, fmt.Errorf("creating filter %s: %w", Name(info.ID), err)
		}
		p.filters = append(p.filters, f)
	}
	return p, nil
}

// Encode applies the filters in order. The returned mask has bit i set when
// filter i was skipped because it could not compress the data.
func (p *Pipeline) Encode(input []byte) ([]byte, uint32, error) {
	data := input
	var mask uint32

	for i, f := range p.filters {
		out, err := f.Encode(data)
		if compressing(f.ID()) && (errors.Is(err, ErrIncompressible) || (err == nil && len(out) >= len(data))) {
			mask |= 1 << uint(i)
			continue
		}
		if err != nil {
			return nil, 0, fmt.Errorf("filter %s encode: %w", Name(f.ID()), err)
		}
		data = out
	}

	return data, mask, nil
}

// Decode applies the filters in reverse order (last filter first), skipping
// those whose bit is set in filterMask.
func (p *Pipeline) Decode(input []byte, filterMask uint32) ([]byte, error) {
	if len(p.filters) == 0 {
		return input, nil
	}

	data := input
	for i := len(p.filters) - 1; i >= 0; i-- {
		if filterMask&(1<<uint(i)) != 0 {
			continue
		}

		var err error
		data, err = p.filters[i].Decode(data)
		if err != nil {
			return nil, fmt.Errorf("filter %s decode: %w", Name(p.filters[i].ID()), err)
		}
	}

	return data, nil
}

// Empty returns true if the pipeline has no filters.
func (p *Pipeline) Empty() bool {
	return len(p.filters) == 0
}

// Len returns the number of filters in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.filters)
}
