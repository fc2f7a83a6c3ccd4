package dtype

import (
	"bytes"
	"fmt"
)

// EncodeText packs values into consecutive textLength-byte slots.
// Each string is UTF-8 encoded on its own; longer strings are cut at the byte
// boundary, which may split a multi-byte rune. Shorter strings are zero padded.
func EncodeText(values []string, textLength int) ([]byte, error) {
	if textLength <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrTextLength, textLength)
	}
	out := make([]byte, len(values)*textLength)
	for i, s := range values {
		copy(out[i*textLength:(i+1)*textLength], s)
	}
	return out, nil
}

// DecodeText splits raw into textLength-byte slots and returns one string per
// slot, cut at the first NUL byte.
func DecodeText(raw []byte, textLength int) ([]string, error) {
	if textLength <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrTextLength, textLength)
	}
	if len(raw)%textLength != 0 {
		return nil, fmt.Errorf("decoding text: %d bytes is not a multiple of %d", len(raw), textLength)
	}
	out := make([]string, len(raw)/textLength)
	for i := range out {
		slot := raw[i*textLength : (i+1)*textLength]
		if n := bytes.IndexByte(slot, 0); n >= 0 {
			slot = slot[:n]
		}
		out[i] = string(slot)
	}
	return out, nil
}
