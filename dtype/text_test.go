package dtype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextRoundTrip(t *testing.T) {
	raw, err := EncodeText([]string{"Hello"}, 8)
	require.NoError(t, err)
	assert.Equal(t, []byte{'H', 'e', 'l', 'l', 'o', 0, 0, 0}, raw)

	got, err := DecodeText(raw, 8)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hello"}, got)
}

func TestTextTruncation(t *testing.T) {
	raw, err := EncodeText([]string{"Hello, World", "ab"}, 5)
	require.NoError(t, err)
	require.Len(t, raw, 10)
	assert.Equal(t, "Hello", string(raw[:5]))

	got, err := DecodeText(raw, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hello", "ab"}, got)
}

func TestTextTruncationSplitsRunes(t *testing.T) {
	// "é" is two bytes; a 2-byte slot keeps "a" and the first byte of "é".
	raw, err := EncodeText([]string{"aé"}, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{'a', 0xC3}, raw)
}

func TestTextSlotsIndependent(t *testing.T) {
	raw, err := EncodeText([]string{"x", "", "yz"}, 3)
	require.NoError(t, err)

	got, err := DecodeText(raw, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "", "yz"}, got)
}

func TestTextLengthValidation(t *testing.T) {
	_, err := EncodeText([]string{"a"}, 0)
	assert.ErrorIs(t, err, ErrTextLength)

	_, err = DecodeText([]byte("abc"), -1)
	assert.ErrorIs(t, err, ErrTextLength)

	_, err = DecodeText([]byte("abc"), 2)
	assert.Error(t, err)
}
