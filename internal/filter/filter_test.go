package filter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-nexus/internal/binary"
)

// compressible returns n bytes of little-endian int32 counters, the kind of
// data chunks usually hold.
func compressible(n int) []byte {
	w := binary.NewWriter(n)
	for i := 0; w.Len() < n; i++ {
		w.WriteUint32(uint32(i % 97))
	}
	return w.Bytes()[:n]
}

func TestFilterRoundTrip(t *testing.T) {
	data := compressible(4096)
	for id := range Registry {
		t.Run(Name(id), func(t *testing.T) {
			f, err := New(Info{ID: id, Params: []uint32{4}})
			require.NoError(t, err)
			assert.Equal(t, id, f.ID())

			encoded, err := f.Encode(data)
			require.NoError(t, err)
			decoded, err := f.Decode(encoded)
			require.NoError(t, err)
			assert.Equal(t, data, decoded)
		})
	}
}

func TestCompressionShrinks(t *testing.T) {
	data := compressible(8192)
	for _, id := range []uint16{IDDeflate, IDZstd, IDS2, IDLZ4} {
		f, err := New(Info{ID: id})
		require.NoError(t, err)
		encoded, err := f.Encode(data)
		require.NoError(t, err)
		assert.Less(t, len(encoded), len(data), Name(id))
	}
}

func TestZstdLevels(t *testing.T) {
	data := compressible(2048)
	for _, level := range []uint32{1, 3, 9, 22} {
		f := NewZstd([]uint32{level})
		encoded, err := f.Encode(data)
		require.NoError(t, err)
		decoded, err := NewZstd(nil).Decode(encoded)
		require.NoError(t, err)
		assert.Equal(t, data, decoded)
	}
}

func TestDeflateLevelClamped(t *testing.T) {
	f := NewDeflate([]uint32{42})
	assert.Equal(t, 9, f.level)
	assert.Equal(t, 6, NewDeflate(nil).level)
}

func TestShuffle(t *testing.T) {
	// [A0 A1 A2 A3] [B0 B1 B2 B3] [C0 C1 C2 C3] [D0 D1 D2 D3]
	original := []byte{
		0x01, 0x02, 0x03, 0x04,
		0x11, 0x12, 0x13, 0x14,
		0x21, 0x22, 0x23, 0x24,
		0x31, 0x32, 0x33, 0x34,
	}
	shuffled := []byte{
		0x01, 0x11, 0x21, 0x31,
		0x02, 0x12, 0x22, 0x32,
		0x03, 0x13, 0x23, 0x33,
		0x04, 0x14, 0x24, 0x34,
	}

	f := NewShuffle([]uint32{4})
	got, err := f.Encode(original)
	require.NoError(t, err)
	assert.Equal(t, shuffled, got)

	got, err = f.Decode(shuffled)
	require.NoError(t, err)
	assert.Equal(t, original, got)
}

func TestShuffleTail(t *testing.T) {
	f := NewShuffle([]uint32{2})
	data := []byte{1, 2, 3, 4, 5}
	got, err := f.Encode(data)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 3, 2, 4, 5}, got)

	back, err := f.Decode(got)
	require.NoError(t, err)
	assert.Equal(t, data, back)
}

func TestShuffleSingleByte(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5}
	got, err := NewShuffle(nil).Encode(data)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestFletcher32(t *testing.T) {
	data := []byte("test data for checksum")
	f := NewFletcher32(nil)

	encoded, err := f.Encode(data)
	require.NoError(t, err)
	require.Len(t, encoded, len(data)+4)

	decoded, err := f.Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)

	encoded[3] ^= 0xFF
	_, err = f.Decode(encoded)
	assert.ErrorIs(t, err, ErrChecksum)

	_, err = f.Decode([]byte{1, 2})
	assert.ErrorIs(t, err, ErrChecksum)
}

func TestXXH64(t *testing.T) {
	data := []byte("chunk payload")
	f := NewXXH64(nil)

	encoded, err := f.Encode(data)
	require.NoError(t, err)
	assert.Equal(t, []byte("chunk payload"), data, "input must not be modified")

	encoded[0] ^= 0x01
	_, err = f.Decode(encoded)
	assert.ErrorIs(t, err, ErrChecksum)
}

func TestLZ4Corrupt(t *testing.T) {
	_, err := NewLZ4(nil).Decode([]byte{1})
	assert.Error(t, err)

	_, err = NewLZ4(nil).Decode([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0})
	assert.Error(t, err)
}

func TestNewUnknown(t *testing.T) {
	_, err := New(Info{ID: 999})
	assert.ErrorIs(t, err, ErrUnknownFilter)

	_, err = NewPipeline([]Info{{ID: IDShuffle}, {ID: 999}})
	assert.ErrorIs(t, err, ErrUnknownFilter)
}

func TestInfoString(t *testing.T) {
	assert.Equal(t, "deflate[6]", Info{ID: IDDeflate, Params: []uint32{6}}.String())
	assert.Equal(t, "xxh64", Info{ID: IDXXH64}.String())
	assert.Equal(t, "filter-77", Name(77))
}

func TestPipelineEmpty(t *testing.T) {
	p, err := NewPipeline(nil)
	require.NoError(t, err)
	assert.True(t, p.Empty())

	data := []byte("unchanged")
	out, mask, err := p.Encode(data)
	require.NoError(t, err)
	assert.Zero(t, mask)
	assert.Equal(t, data, out)

	out, err = p.Decode(data, 0)
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestPipelineRoundTrip(t *testing.T) {
	infos := []Info{
		{ID: IDShuffle, Params: []uint32{4}},
		{ID: IDZstd, Params: []uint32{3}},
		{ID: IDXXH64},
	}
	p, err := NewPipeline(infos)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Len())

	data := compressible(4096)
	stored, mask, err := p.Encode(data)
	require.NoError(t, err)
	assert.Zero(t, mask)
	assert.Less(t, len(stored), len(data))

	decoded, err := p.Decode(stored, mask)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)

	stored[len(stored)/2] ^= 0xFF
	_, err = p.Decode(stored, mask)
	assert.ErrorIs(t, err, ErrChecksum)
}

func TestPipelineSkipsIncompressible(t *testing.T) {
	p, err := NewPipeline([]Info{{ID: IDLZ4}, {ID: IDFletcher32}})
	require.NoError(t, err)

	// eight distinct bytes cannot be shrunk
	data := []byte{9, 1, 7, 3, 5, 2, 8, 4}
	stored, mask, err := p.Encode(data)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), mask)
	assert.True(t, bytes.HasPrefix(stored, data))

	decoded, err := p.Decode(stored, mask)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}

func TestPipelineMaskSkipsDecode(t *testing.T) {
	p, err := NewPipeline([]Info{{ID: IDShuffle, Params: []uint32{2}}})
	require.NoError(t, err)

	data := []byte{1, 2, 3, 4}
	out, err := p.Decode(data, 0x01)
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func BenchmarkPipelineEncode(b *testing.B) {
	p, err := NewPipeline([]Info{{ID: IDShuffle, Params: []uint32{8}}, {ID: IDZstd}, {ID: IDXXH64}})
	require.NoError(b, err)
	data := compressible(64 * 1024)

	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	for b.Loop() {
		_, _, _ = p.Encode(data)
	}
}
