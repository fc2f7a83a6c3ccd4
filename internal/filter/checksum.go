package filter

import (
	"fmt"

	"github.com/robert-malhotra/go-nexus/internal/binary"
)

// Fletcher32 appends a Fletcher-32 checksum on encode and verifies it on
// decode. The checksum is stored as the last 4 bytes, little-endian.
type Fletcher32 struct{}

// NewFletcher32 creates a fletcher32 filter. It takes no parameters.
func NewFletcher32([]uint32) *Fletcher32 {
	return &Fletcher32{}
}

func (f *Fletcher32) ID() uint16 {
	return IDFletcher32
}

func (f *Fletcher32) Encode(input []byte) ([]byte, error) {
	w := binary.NewWriter(len(input) + 4)
	w.WriteBytes(input)
	w.WriteUint32(binary.Fletcher32(input))
	return w.Bytes(), nil
}

func (f *Fletcher32) Decode(input []byte) ([]byte, error) {
	if len(input) < 4 {
		return nil, fmt.Errorf("fletcher32: input too short for checksum: %w", ErrChecksum)
	}

	data := input[:len(input)-4]
	stored, _ := binary.NewReader(input[len(input)-4:]).ReadUint32()
	computed := binary.Fletcher32(data)
	if stored != computed {
		return nil, fmt.Errorf("fletcher32: stored=0x%08x, computed=0x%08x: %w",
			stored, computed, ErrChecksum)
	}
	return data, nil
}

// XXH64 appends an xxHash64 checksum on encode and verifies it on decode.
type XXH64 struct{}

// NewXXH64 creates an xxh64 filter. It takes no parameters.
func NewXXH64([]uint32) *XXH64 {
	return &XXH64{}
}

func (f *XXH64) ID() uint16 {
	return IDXXH64
}

func (f *XXH64) Encode(input []byte) ([]byte, error) {
	out := make([]byte, len(input), len(input)+8)
	copy(out, input)
	return binary.AppendChecksum64(out), nil
}

func (f *XXH64) Decode(input []byte) ([]byte, error) {
	data, ok := binary.SplitChecksum64(input)
	if !ok {
		return nil, fmt.Errorf("xxh64: %w", ErrChecksum)
	}
	return data, nil
}
