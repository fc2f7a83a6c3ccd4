package nexus

import (
	"slices"
	"strconv"
	"strings"

	"github.com/robert-malhotra/go-nexus/dtype"
)

// TypeName returns the NeXus name of a kind, such as NX_INT16 or NX_CHAR.
func TypeName(k dtype.Kind) string {
	return "NX_" + strings.ToUpper(k.String())
}

// String describes the shape and kind of the buffer:
//
//	<dimensions><dimension>2</dimension><dimension>34</dimension></dimensions><type>NX_INT16</type>
func (b *Buffer) String() string {
	var sb strings.Builder
	sb.WriteString("<dimensions>")
	for _, d := range b.dims {
		sb.WriteString("<dimension>")
		sb.WriteString(strconv.Itoa(d))
		sb.WriteString("</dimension>")
	}
	sb.WriteString("</dimensions><type>")
	sb.WriteString(TypeName(b.Kind()))
	sb.WriteString("</type>")
	return sb.String()
}

// DataText serializes the values of the buffer, ignoring its shape.
//
// Text renders as itself, one entry per string. Numbers render either as a
// single comma separated list (asCSV) or as <values><value>x</value>...</values>.
// wrap encloses text and CSV output in <value></value>; newlineAfterEach
// ends every entry with a newline. A released buffer renders as "".
func (b *Buffer) DataText(newlineAfterEach, asCSV, wrap bool) string {
	texts, ok := b.texts()
	if !ok {
		return ""
	}
	var sb strings.Builder
	entry := func(s string) {
		if wrap {
			sb.WriteString("<value>")
		}
		sb.WriteString(s)
		if wrap {
			sb.WriteString("</value>")
		}
		if newlineAfterEach {
			sb.WriteString("\n")
		}
	}

	switch {
	case b.IsChar():
		for _, s := range texts {
			entry(s)
		}
	case asCSV:
		entry(strings.Join(texts, ","))
	default:
		sb.WriteString("<values>")
		if newlineAfterEach {
			sb.WriteString("\n")
		}
		for _, s := range texts {
			sb.WriteString("<value>")
			sb.WriteString(s)
			sb.WriteString("</value>")
			if newlineAfterEach {
				sb.WriteString("\n")
			}
		}
		sb.WriteString("</values>")
		if newlineAfterEach {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// texts formats every element. Raw text yields one string per text slot.
func (b *Buffer) texts() ([]string, bool) {
	if b.data == nil {
		return nil, false
	}
	if b.IsChar() {
		s, err := b.Strings()
		return s, err == nil
	}
	values, err := b.values()
	if err != nil {
		return nil, false
	}
	out := make([]string, dtype.Len(values))
	for i := range out {
		if out[i], err = dtype.FormatElement(values, i); err != nil {
			return nil, false
		}
	}
	return out, true
}

// Equal reports whether both buffers have the same shape, kind and values.
// Names and layout hints are ignored.
func (b *Buffer) Equal(other *Buffer) bool {
	if b == other {
		return true
	}
	if other == nil || b.Kind() != other.Kind() {
		return false
	}
	if b.IsChar() {
		if !slices.Equal(b.textDims(), other.textDims()) {
			return false
		}
	} else if !slices.Equal(b.dims, other.dims) {
		return false
	}
	x, okx := b.texts()
	y, oky := other.texts()
	return okx == oky && slices.Equal(x, y)
}

// SameValues compares the flattened serialization of both buffers, so a
// [2,3] buffer equals a [6] buffer with the same values, and an int16 buffer
// equals an int32 one. Prefer Equal.
func (b *Buffer) SameValues(other *Buffer) bool {
	if other == nil {
		return false
	}
	return b.DataText(false, false, false) == other.DataText(false, false, false)
}
