package binary

import (
	"github.com/cespare/xxhash/v2"
)

// Fletcher32 computes the Fletcher-32 checksum used by the fletcher32 chunk
// filter.
//
// The input is treated as a sequence of 16-bit words in little-endian order.
// If the input has an odd number of bytes, it is padded with a zero byte.
func Fletcher32(data []byte) uint32 {
	var sum1, sum2 uint32

	length := len(data)
	i := 0
	for ; i+1 < length; i += 2 {
		word := uint32(data[i]) | uint32(data[i+1])<<8
		sum1 = (sum1 + word) % 65535
		sum2 = (sum2 + sum1) % 65535
	}

	if i < length {
		word := uint32(data[i])
		sum1 = (sum1 + word) % 65535
		sum2 = (sum2 + sum1) % 65535
	}

	return (sum2 << 16) | sum1
}

// Checksum64 computes the xxHash64 of data. Store headers and the xxh64 chunk
// filter use it.
func Checksum64(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// AppendChecksum64 appends the little-endian xxHash64 of data to data.
func AppendChecksum64(data []byte) []byte {
	w := Writer{buf: data}
	w.WriteUint64(Checksum64(data))
	return w.buf
}

// SplitChecksum64 verifies and strips a trailing xxHash64 written by
// AppendChecksum64. ok is false when the input is too short or the checksum
// does not match.
func SplitChecksum64(data []byte) (payload []byte, ok bool) {
	if len(data) < 8 {
		return nil, false
	}
	payload = data[:len(data)-8]
	stored, _ := NewReader(data[len(data)-8:]).ReadUint64()
	return payload, stored == Checksum64(payload)
}
