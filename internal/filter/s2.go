package filter

import (
	"fmt"

	"github.com/klauspost/compress/s2"
)

// S2 implements S2 block compression.
type S2 struct{}

// NewS2 creates an s2 filter. It takes no parameters.
func NewS2([]uint32) *S2 {
	return &S2{}
}

func (f *S2) ID() uint16 {
	return IDS2
}

func (f *S2) Encode(input []byte) ([]byte, error) {
	return s2.Encode(nil, input), nil
}

func (f *S2) Decode(input []byte) ([]byte, error) {
	output, err := s2.Decode(nil, input)
	if err != nil {
		return nil, fmt.Errorf("s2 decompress: %w", err)
	}
	return output, nil
}
