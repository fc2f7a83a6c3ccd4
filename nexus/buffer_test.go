package nexus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-nexus/dtype"
)

func TestNewBuffer(t *testing.T) {
	b, err := NewBuffer([]int{2, 3}, []int16{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	assert.Equal(t, dtype.Int16, b.Kind())
	assert.Equal(t, []int{2, 3}, b.Dims())
	assert.Equal(t, 2, b.Rank())
	assert.Equal(t, 6, b.Size())
	assert.False(t, b.IsChar())

	v, err := b.At(1, 2)
	require.NoError(t, err)
	assert.Equal(t, int16(6), v)

	_, err = b.At(2, 0)
	assert.ErrorIs(t, err, ErrInvalidRegion)
	_, err = b.At(0)
	assert.ErrorIs(t, err, ErrRankMismatch)

	_, err = NewBuffer([]int{2, 2}, []int16{1, 2, 3})
	assert.ErrorIs(t, err, ErrSizeMismatch)

	_, err = NewBuffer([]int{1}, []complex64{1})
	assert.ErrorIs(t, err, dtype.ErrUnsupportedKind)
}

func TestBufferUnsigned(t *testing.T) {
	b, err := NewBuffer([]int{2}, []int32{-1, 7})
	require.NoError(t, err)
	require.NoError(t, b.SetUnsigned())
	assert.Equal(t, dtype.Uint32, b.Kind())

	v, err := b.At(0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xffffffff), v)

	f, err := NewBuffer([]int{1}, []float64{1.5})
	require.NoError(t, err)
	err = f.SetUnsigned()
	assert.ErrorIs(t, err, ErrUnsupportedConfiguration)
	assert.Equal(t, KindUnsupportedConfiguration, Classify(err))
	assert.Equal(t, dtype.Float64, f.Kind())

	u, err := NewBuffer([]int{1}, []uint8{200})
	require.NoError(t, err)
	require.NoError(t, u.SetUnsigned())
	assert.Equal(t, dtype.Uint8, u.Kind())
}

func TestBufferFirstValue(t *testing.T) {
	tests := []struct {
		name   string
		dims   []int
		values any
		want   any
	}{
		{"int8", []int{1}, []int8{-3}, int32(-3)},
		{"int16", []int{2}, []int16{-5, 1}, int32(-5)},
		{"int32", []int{1}, []int32{9}, int32(9)},
		{"int64", []int{1}, []int64{1 << 40}, int64(1 << 40)},
		{"uint8", []int{1}, []uint8{250}, uint32(250)},
		{"uint16", []int{1}, []uint16{65000}, uint32(65000)},
		{"uint64", []int{1}, []uint64{5}, uint64(5)},
		{"float32", []int{1}, []float32{0.5}, float64(0.5)},
		{"float64", []int{1}, []float64{2.25}, 2.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBuffer(tt.dims, tt.values)
			require.NoError(t, err)
			v, ok := b.FirstValue()
			require.True(t, ok)
			assert.Equal(t, tt.want, v)
		})
	}

	t.Run("unsigned int16", func(t *testing.T) {
		b, err := NewBuffer([]int{1}, []int16{-1})
		require.NoError(t, err)
		require.NoError(t, b.SetUnsigned())
		v, ok := b.FirstValue()
		require.True(t, ok)
		assert.Equal(t, uint32(65535), v)
	})

	t.Run("text", func(t *testing.T) {
		v, ok := NewFixedText(8, "Hello").FirstValue()
		require.True(t, ok)
		assert.Equal(t, "Hello", v)

		b, err := NewStrings([]int{2}, []string{"a", "b"})
		require.NoError(t, err)
		v, ok = b.FirstValue()
		require.True(t, ok)
		assert.Equal(t, "a", v)
	})

	t.Run("empty", func(t *testing.T) {
		b, err := Zeros(dtype.Int32, []int{0, 4})
		require.NoError(t, err)
		_, ok := b.FirstValue()
		assert.False(t, ok)

		s, err := NewBuffer(nil, []int32{4})
		require.NoError(t, err)
		_, ok = s.FirstValue()
		assert.False(t, ok, "rank 0 has no first axis")
	})
}

func TestBufferRelease(t *testing.T) {
	b, err := NewBuffer([]int{3}, []float32{1, 2, 3})
	require.NoError(t, err)
	assert.False(t, b.Released())

	data := b.Release()
	assert.Equal(t, []float32{1, 2, 3}, data)
	assert.True(t, b.Released())
	assert.Nil(t, b.Data())
	_, ok := b.FirstValue()
	assert.False(t, ok)
	assert.Equal(t, "", b.DataText(false, false, false))
}

func TestBufferReshape(t *testing.T) {
	b, err := Zeros(dtype.Float64, []int{2, 6})
	require.NoError(t, err)
	require.NoError(t, b.Reshape([]int{3, 4}))
	assert.Equal(t, []int{3, 4}, b.Dims())
	assert.ErrorIs(t, b.Reshape([]int{5}), ErrSizeMismatch)
}

func TestText(t *testing.T) {
	b := NewText("Hello")
	assert.True(t, b.IsChar())
	assert.Equal(t, []int{5}, b.Dims())
	assert.Equal(t, []byte("Hello"), b.Data())

	f := NewFixedText(3, "Hello")
	assert.Equal(t, []byte("Hel"), f.Data())

	p := NewFixedText(8, "Hi")
	assert.Equal(t, []byte{'H', 'i', 0, 0, 0, 0, 0, 0}, p.Data())
	s, err := p.Strings()
	require.NoError(t, err)
	assert.Equal(t, []string{"Hi"}, s)

	_, err = NewStrings([]int{3}, []string{"a"})
	assert.ErrorIs(t, err, ErrSizeMismatch)

	n, err := NewBuffer([]int{1}, []int8{1})
	require.NoError(t, err)
	_, err = n.Strings()
	assert.ErrorIs(t, err, ErrFormatMismatch)
}

func TestBufferString(t *testing.T) {
	b, err := Zeros(dtype.Int16, []int{2, 34})
	require.NoError(t, err)
	assert.Equal(t,
		"<dimensions><dimension>2</dimension><dimension>34</dimension></dimensions><type>NX_INT16</type>",
		b.String())

	assert.Equal(t,
		"<dimensions><dimension>5</dimension></dimensions><type>NX_CHAR</type>",
		NewText("Hello").String())
}

func TestDataText(t *testing.T) {
	b, err := NewBuffer([]int{3}, []float64{1.5, -2, 3})
	require.NoError(t, err)

	assert.Equal(t, "<values><value>1.5</value><value>-2</value><value>3</value></values>",
		b.DataText(false, false, false))
	assert.Equal(t, "<values>\n<value>1.5</value>\n<value>-2</value>\n<value>3</value>\n</values>\n",
		b.DataText(true, false, false))
	assert.Equal(t, "1.5,-2,3", b.DataText(false, true, false))
	assert.Equal(t, "<value>1.5,-2,3</value>\n", b.DataText(true, true, true))

	text := NewText("Hello")
	assert.Equal(t, "Hello", text.DataText(false, false, false))
	assert.Equal(t, "<value>Hello</value>\n", text.DataText(true, false, true))

	s, err := NewStrings([]int{2}, []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, "<value>a</value><value>b</value>", s.DataText(false, false, true))
}

func TestBufferEqual(t *testing.T) {
	a, err := NewBuffer([]int{2, 2}, []int16{1, 2, 3, 4})
	require.NoError(t, err)
	b, err := NewBuffer([]int{2, 2}, []int16{1, 2, 3, 4})
	require.NoError(t, err)
	flat, err := NewBuffer([]int{4}, []int16{1, 2, 3, 4})
	require.NoError(t, err)
	wide, err := NewBuffer([]int{2, 2}, []int32{1, 2, 3, 4})
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(flat), "shapes differ")
	assert.False(t, a.Equal(wide), "kinds differ")
	assert.False(t, a.Equal(nil))

	// Legacy comparison ignores shape and kind.
	assert.True(t, a.SameValues(flat))
	assert.True(t, a.SameValues(wide))
	assert.False(t, a.SameValues(nil))

	b.SetName("other")
	assert.True(t, a.Equal(b), "names are ignored")

	raw := NewFixedText(8, "Hello")
	str, err := NewStrings(nil, []string{"Hello"})
	require.NoError(t, err)
	assert.True(t, raw.Equal(str))
	assert.False(t, raw.Equal(NewText("World")))
}
