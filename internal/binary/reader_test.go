package binary

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderScalars(t *testing.T) {
	// Little-endian: 0x0102 stored as [0x02, 0x01]
	data := []byte{
		0x42,
		0x02, 0x01,
		0x04, 0x03, 0x02, 0x01,
		0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01,
	}
	r := NewReader(data)

	v8, err := r.ReadUint8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x42), v8)

	v16, err := r.ReadUint16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0102), v16)

	v32, err := r.ReadUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x01020304), v32)

	v64, err := r.ReadUint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0102030405060708), v64)

	assert.Zero(t, r.Remaining())
	assert.Equal(t, len(data), r.Pos())
}

func TestReaderShortBuffer(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02, 0x03})

	_, err := r.ReadUint32()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrShortBuffer))
	assert.Zero(t, r.Pos(), "failed read must not advance")

	_, err = r.ReadBytes(-1)
	assert.ErrorIs(t, err, ErrShortBuffer)
}

func TestReaderUint64sTruncated(t *testing.T) {
	w := NewWriter(16)
	w.WriteUint32(4) // claims four values
	w.WriteUint64(1)

	_, err := NewReader(w.Bytes()).ReadUint64s()
	assert.ErrorIs(t, err, ErrShortBuffer)
}
