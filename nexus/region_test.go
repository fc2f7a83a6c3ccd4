package nexus

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegion(t *testing.T) {
	tests := []struct {
		name              string
		shape             []int
		start, stop, step []int
		wantStart         []int
		wantStep          []int
		wantCount         []int
	}{
		{
			name:      "full",
			shape:     []int{2, 34},
			wantStart: []int{0, 0}, wantStep: []int{1, 1}, wantCount: []int{2, 34},
		},
		{
			name:  "block",
			shape: []int{2, 34},
			start: []int{0, 0}, stop: []int{2, 10},
			wantStart: []int{0, 0}, wantStep: []int{1, 1}, wantCount: []int{2, 10},
		},
		{
			name:  "stepped",
			shape: []int{20},
			start: []int{1}, stop: []int{20}, step: []int{3},
			wantStart: []int{1}, wantStep: []int{3}, wantCount: []int{7},
		},
		{
			name:  "negative step",
			shape: []int{12},
			start: []int{10}, stop: []int{4}, step: []int{-2},
			wantStart: []int{10}, wantStep: []int{-2}, wantCount: []int{3},
		},
		{
			name:      "reversed axis",
			shape:     []int{5},
			step:      []int{-1},
			wantStart: []int{4}, wantStep: []int{-1}, wantCount: []int{5},
		},
		{
			name:  "empty range",
			shape: []int{5},
			start: []int{3}, stop: []int{3},
			wantStart: []int{3}, wantStep: []int{1}, wantCount: []int{0},
		},
		{
			name:  "start at end",
			shape: []int{5},
			start: []int{5}, stop: []int{5},
			wantStart: []int{5}, wantStep: []int{1}, wantCount: []int{0},
		},
		{
			name:      "scalar",
			shape:     []int{},
			wantStart: []int{}, wantStep: []int{}, wantCount: []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRegion(tt.shape, tt.start, tt.stop, tt.step)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, r.Start)
			assert.Equal(t, tt.wantStep, r.Step)
			assert.Equal(t, tt.wantCount, r.Count)
			assert.Equal(t, tt.shape, r.Shape)
			assert.NoError(t, r.Validate())
		})
	}
}

func TestNewRegionHugeStep(t *testing.T) {
	r, err := NewRegion([]int{4}, nil, nil, []int{1 << 62})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, r.Count)

	r, err = NewRegion([]int{4}, nil, nil, []int{math.MinInt})
	require.NoError(t, err)
	assert.Equal(t, []int{3}, r.Start)
	assert.Equal(t, []int{1}, r.Count)
}

func TestNewRegionErrors(t *testing.T) {
	_, err := NewRegion([]int{5}, []int{0, 0}, nil, nil)
	assert.ErrorIs(t, err, ErrRankMismatch)

	_, err = NewRegion([]int{5}, nil, nil, []int{0})
	assert.ErrorIs(t, err, ErrInvalidRegion)

	_, err = NewRegion([]int{5}, []int{6}, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidRegion)

	_, err = NewRegion([]int{5}, []int{0}, []int{7}, nil)
	assert.ErrorIs(t, err, ErrInvalidRegion)

	_, err = NewRegion([]int{5}, []int{-1}, []int{3}, nil)
	assert.ErrorIs(t, err, ErrInvalidRegion)
}

func TestFullRegion(t *testing.T) {
	r := FullRegion([]int{2, 3})
	assert.Equal(t, []int{0, 0}, r.Start)
	assert.Equal(t, []int{1, 1}, r.Step)
	assert.Equal(t, []int{2, 3}, r.Count)
	assert.Equal(t, 2, r.Rank())
	assert.Equal(t, 6, r.Size())
	assert.False(t, r.Empty())

	r, err := SliceRegion([]int{2, 3}, []int{0, 1}, []int{2, 1})
	require.NoError(t, err)
	assert.True(t, r.Empty())
	assert.Equal(t, 0, r.Size())
}

func TestRegionValidate(t *testing.T) {
	tests := []struct {
		name string
		r    Region
		want error
	}{
		{"ok", Region{Start: []int{1}, Step: []int{2}, Count: []int{2}, Shape: []int{4}}, nil},
		{"no shape", Region{Start: []int{100}, Step: []int{1}, Count: []int{5}}, nil},
		{"ragged", Region{Start: []int{1}, Step: []int{1, 1}, Count: []int{2}}, ErrRankMismatch},
		{"shape rank", Region{Start: []int{1}, Step: []int{1}, Count: []int{2}, Shape: []int{4, 4}}, ErrRankMismatch},
		{"zero step", Region{Start: []int{1}, Step: []int{0}, Count: []int{2}}, ErrInvalidRegion},
		{"negative count", Region{Start: []int{1}, Step: []int{1}, Count: []int{-2}}, ErrInvalidRegion},
		{"below zero", Region{Start: []int{1}, Step: []int{-1}, Count: []int{3}}, ErrInvalidRegion},
		{"step overflows", Region{Start: []int{0}, Step: []int{1 << 62}, Count: []int{5}}, ErrInvalidRegion},
		{"step overflows in shape", Region{Start: []int{0}, Step: []int{1 << 62}, Count: []int{5}, Shape: []int{4}}, ErrInvalidRegion},
		{"past shape", Region{Start: []int{1}, Step: []int{2}, Count: []int{3}, Shape: []int{4}}, ErrInvalidRegion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.r.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
