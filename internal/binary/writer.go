package binary

import (
	"encoding/binary"
)

// Writer appends little-endian values to a growing byte slice.
type Writer struct {
	buf []byte
}

// NewWriter creates a writer with room for sizeHint bytes.
func NewWriter(sizeHint int) *Writer {
	return &Writer{buf: make([]byte, 0, sizeHint)}
}

// Bytes returns the encoded bytes.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

// WriteBytes appends raw bytes.
func (w *Writer) WriteBytes(data []byte) {
	w.buf = append(w.buf, data...)
}

// WriteUint8 appends an unsigned 8-bit integer.
func (w *Writer) WriteUint8(v uint8) {
	w.buf = append(w.buf, v)
}

// WriteUint16 appends an unsigned 16-bit integer.
func (w *Writer) WriteUint16(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

// WriteUint32 appends an unsigned 32-bit integer.
func (w *Writer) WriteUint32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

// WriteUint64 appends an unsigned 64-bit integer.
func (w *Writer) WriteUint64(v uint64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

// WriteUint64s appends a uint32 count followed by the values.
func (w *Writer) WriteUint64s(vals []uint64) {
	w.WriteUint32(uint32(len(vals)))
	for _, v := range vals {
		w.WriteUint64(v)
	}
}

// WriteString appends a uint16 length-prefixed string.
// Strings longer than 65535 bytes are truncated.
func (w *Writer) WriteString(s string) {
	if len(s) > 0xFFFF {
		s = s[:0xFFFF]
	}
	w.WriteUint16(uint16(len(s)))
	w.buf = append(w.buf, s...)
}

// WriteZeros appends n zero bytes.
func (w *Writer) WriteZeros(n int) {
	for i := 0; i < n; i++ {
		w.buf = append(w.buf, 0)
	}
}
