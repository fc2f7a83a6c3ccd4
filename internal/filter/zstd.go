package filter

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// The decoder is designed to run without allocations after warmup, so
// decoders and encoders are pooled. Encoders are pooled per speed level.
var zstdDecoderPool = sync.Pool{
	New: func() any {
		decoder, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(false),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd decoder for pool: %v", err))
		}
		return decoder
	},
}

var zstdEncoderPools [zstd.SpeedBestCompression + 1]sync.Pool

func init() {
	for level := zstd.SpeedFastest; level <= zstd.SpeedBestCompression; level++ {
		zstdEncoderPools[level].New = func() any {
			encoder, err := zstd.NewWriter(nil,
				zstd.WithEncoderLevel(level),
				zstd.WithEncoderCRC(false),
				zstd.WithEncoderConcurrency(1),
			)
			if err != nil {
				panic(fmt.Sprintf("failed to create zstd encoder for pool: %v", err))
			}
			return encoder
		}
	}
}

// Zstd implements Zstandard compression.
type Zstd struct {
	level zstd.EncoderLevel
}

// NewZstd creates a zstd filter.
// Params: [0] = zstd compression level (1-22, default 3)
func NewZstd(params []uint32) *Zstd {
	return &Zstd{level: zstd.EncoderLevelFromZstd(int(param(params, 0, 3)))}
}

func (f *Zstd) ID() uint16 {
	return IDZstd
}

func (f *Zstd) Encode(input []byte) ([]byte, error) {
	encoder := zstdEncoderPools[f.level].Get().(*zstd.Encoder)
	defer zstdEncoderPools[f.level].Put(encoder)

	return encoder.EncodeAll(input, nil), nil
}

func (f *Zstd) Decode(input []byte) ([]byte, error) {
	decoder := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(decoder)

	output, err := decoder.DecodeAll(input, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	return output, nil
}
