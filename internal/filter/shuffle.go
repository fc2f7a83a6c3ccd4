package filter

// Shuffle implements the byte shuffle filter. Bytes beyond the last whole
// element are left in place.
type Shuffle struct {
	elemSize int
}

// NewShuffle creates a shuffle filter.
// Params: [0] = element size in bytes
func NewShuffle(params []uint32) *Shuffle {
	return &Shuffle{elemSize: int(max(param(params, 0, 1), 1))}
}

func (f *Shuffle) ID() uint16 {
	return IDShuffle
}

// Encode groups byte j of every element together:
// [elem0][elem1]...[elemM] becomes [all byte 0s][all byte 1s]...
func (f *Shuffle) Encode(input []byte) ([]byte, error) {
	return f.permute(input, true), nil
}

// Decode reverses Encode.
func (f *Shuffle) Decode(input []byte) ([]byte, error) {
	return f.permute(input, false), nil
}

func (f *Shuffle) permute(input []byte, shuffle bool) []byte {
	numElems := len(input) / f.elemSize
	if f.elemSize <= 1 || numElems <= 1 {
		return input
	}

	output := make([]byte, len(input))
	for i := 0; i < numElems; i++ {
		for j := 0; j < f.elemSize; j++ {
			packed := i*f.elemSize + j
			grouped := j*numElems + i
			if shuffle {
				output[grouped] = input[packed]
			} else {
				output[packed] = input[grouped]
			}
		}
	}
	tail := numElems * f.elemSize
	copy(output[tail:], input[tail:])
	return output
}
