package filter

import (
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/robert-malhotra/go-nexus/internal/binary"
)

var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// maxLZ4Size bounds the decoded size announced by a stored block.
const maxLZ4Size = 128 * 1024 * 1024

// LZ4 implements LZ4 block compression. The stored form is the uncompressed
// length (uint32, little-endian) followed by the block.
type LZ4 struct{}

// NewLZ4 creates an lz4 filter. It takes no parameters.
func NewLZ4([]uint32) *LZ4 {
	return &LZ4{}
}

func (f *LZ4) ID() uint16 {
	return IDLZ4
}

func (f *LZ4) Encode(input []byte) ([]byte, error) {
	if len(input) == 0 {
		return nil, ErrIncompressible
	}

	dst := make([]byte, 4+lz4.CompressBlockBound(len(input)))

	lc := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(input, dst[4:])
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	if n == 0 {
		return nil, ErrIncompressible
	}

	w := binary.NewWriter(0)
	w.WriteUint32(uint32(len(input)))
	copy(dst, w.Bytes())
	return dst[:4+n], nil
}

func (f *LZ4) Decode(input []byte) ([]byte, error) {
	r := binary.NewReader(input)
	size, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("lz4 header: %w", err)
	}
	if size > maxLZ4Size {
		return nil, fmt.Errorf("lz4 block announces %d bytes: %w", size, lz4.ErrInvalidSourceShortBuffer)
	}

	output := make([]byte, size)
	n, err := lz4.UncompressBlock(input[4:], output)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompress: %w", err)
	}
	if n != int(size) {
		return nil, fmt.Errorf("lz4 decompress: got %d bytes, want %d", n, size)
	}
	return output, nil
}
