package binary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFletcher32(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{"empty", []byte{}},
		{"single byte", []byte{0x01}},
		{"two bytes", []byte{0x01, 0x02}},
		{"four bytes", []byte{0x01, 0x02, 0x03, 0x04}},
		{"hello", []byte("hello")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, Fletcher32(tt.input), Fletcher32(tt.input))
		})
	}

	assert.Zero(t, Fletcher32([]byte{}))
	// one word 0x0201: sum1 = 0x0201, sum2 = 0x0201
	assert.Equal(t, uint32(0x02010201), Fletcher32([]byte{0x01, 0x02}))
}

func TestFletcher32OddLength(t *testing.T) {
	odd := []byte{0x01, 0x02, 0x03}
	even := []byte{0x01, 0x02, 0x03, 0x00}

	assert.Equal(t, Fletcher32(even), Fletcher32(odd), "odd input is zero padded")
}

func TestChecksum64(t *testing.T) {
	a := Checksum64([]byte("chunk a"))
	b := Checksum64([]byte("chunk b"))
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, Checksum64([]byte("chunk a")))
}

func TestAppendSplitChecksum64(t *testing.T) {
	payload := []byte("slab payload")
	framed := AppendChecksum64(append([]byte(nil), payload...))
	require.Len(t, framed, len(payload)+8)

	got, ok := SplitChecksum64(framed)
	require.True(t, ok)
	assert.Equal(t, payload, got)

	framed[0] ^= 0xFF
	_, ok = SplitChecksum64(framed)
	assert.False(t, ok, "corrupted payload must fail verification")

	_, ok = SplitChecksum64([]byte{1, 2, 3})
	assert.False(t, ok, "input shorter than the checksum")
}

func BenchmarkFletcher32(b *testing.B) {
	data := make([]byte, 4096)
	for i := range data {
		data[i] = byte(i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Fletcher32(data)
	}
}

func BenchmarkChecksum64(b *testing.B) {
	data := make([]byte, 4096)
	for i := range data {
		data[i] = byte(i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Checksum64(data)
	}
}
