package dtype

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotInteger      = errors.New("kind is not an integer kind")
	ErrUnsupportedKind = errors.New("unsupported element kind")
	ErrTextLength      = errors.New("text length must be positive")
	ErrCast            = errors.New("cannot cast values")
)

// Kind identifies the element type of a dataset or buffer.
type Kind uint8

const (
	Invalid Kind = iota
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float32
	Float64
	Char
)

// Kinds lists every valid kind in declaration order.
var Kinds = []Kind{Int8, Int16, Int32, Int64, Uint8, Uint16, Uint32, Uint64, Float32, Float64, Char}

func (k Kind) String() string {
	switch k {
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Uint16:
		return "uint16"
	case Uint32:
		return "uint32"
	case Uint64:
		return "uint64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Char:
		return "char"
	case Invalid:
		return "invalid"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind returns the kind named s (case-insensitive), as printed by String.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds {
		if k.String() == name {
			return k, nil
		}
	}
	return Invalid, fmt.Errorf("%w: %q", ErrUnsupportedKind, s)
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k >= Int8 && k <= Char
}

// Size returns the size of one element in bytes. Char reports 1, the size of
// one byte of text.
func (k Kind) Size() int {
	switch k {
	case Int8, Uint8, Char:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Int64, Uint64, Float64:
		return 8
	case Invalid:
		return 0
	}
	return 0
}

// IsInteger reports whether k is a signed or unsigned integer kind.
func (k Kind) IsInteger() bool {
	switch k {
	case Int8, Int16, Int32, Int64, Uint8, Uint16, Uint32, Uint64:
		return true
	case Float32, Float64, Char, Invalid:
		return false
	}
	return false
}

// IsUnsigned reports whether k is an unsigned integer kind.
func (k Kind) IsUnsigned() bool {
	switch k {
	case Uint8, Uint16, Uint32, Uint64:
		return true
	case Int8, Int16, Int32, Int64, Float32, Float64, Char, Invalid:
		return false
	}
	return false
}

// IsFloat reports whether k is a floating point kind.
func (k Kind) IsFloat() bool {
	return k == Float32 || k == Float64
}

// Unsigned returns the unsigned integer kind of the same width.
func (k Kind) Unsigned() (Kind, error) {
	switch k {
	case Int8, Uint8:
		return Uint8, nil
	case Int16, Uint16:
		return Uint16, nil
	case Int32, Uint32:
		return Uint32, nil
	case Int64, Uint64:
		return Uint64, nil
	case Float32, Float64, Char, Invalid:
		return Invalid, fmt.Errorf("%w: %s", ErrNotInteger, k)
	}
	return Invalid, fmt.Errorf("%w: %s", ErrUnsupportedKind, k)
}

// Signed returns the signed integer kind of the same width. Non-integer kinds
// are returned unchanged.
func (k Kind) Signed() Kind {
	switch k {
	case Uint8:
		return Int8
	case Uint16:
		return Int16
	case Uint32:
		return Int32
	case Uint64:
		return Int64
	case Int8, Int16, Int32, Int64, Float32, Float64, Char, Invalid:
		return k
	}
	return k
}

// Compatible reports whether data stored as kind other can be read as k
// without reinterpretation: same class and same element size. Signedness is
// ignored, so an int16 dataset may be read as uint16 and vice versa.
func (k Kind) Compatible(other Kind) bool {
	if k == Char || other == Char {
		return k == other
	}
	return k.Size() == other.Size() && k.IsFloat() == other.IsFloat()
}
