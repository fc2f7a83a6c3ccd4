package dtype

// Conversion Strategy
//
// Numeric values travel through the store as little-endian bytes. Encode and
// Decode dispatch on the Go slice type with a type switch, so every kind has
// exactly one in-memory representation:
//
//   - Integers and floats: the matching []T slice
//   - Char: []string (logical strings) or []byte (raw text bytes)
//
// Cast converts between numeric representations with generic helpers, which
// follow Go conversion semantics (truncation toward zero for float to int,
// wrap-around for integer narrowing).

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
)

type number interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64 | ~int | ~uint
}

// KindOf returns the kind whose Go representation matches values.
// []byte is reported as Uint8.
func KindOf(values any) (Kind, error) {
	switch values.(type) {
	case []int8:
		return Int8, nil
	case []int16:
		return Int16, nil
	case []int32:
		return Int32, nil
	case []int64:
		return Int64, nil
	case []uint8:
		return Uint8, nil
	case []uint16:
		return Uint16, nil
	case []uint32:
		return Uint32, nil
	case []uint64:
		return Uint64, nil
	case []float32:
		return Float32, nil
	case []float64:
		return Float64, nil
	case []string:
		return Char, nil
	default:
		return Invalid, fmt.Errorf("%w: %T", ErrUnsupportedKind, values)
	}
}

// MakeSlice allocates a zeroed slice of n elements of kind k.
// Char yields []string.
func MakeSlice(k Kind, n int) (any, error) {
	switch k {
	case Int8:
		return make([]int8, n), nil
	case Int16:
		return make([]int16, n), nil
	case Int32:
		return make([]int32, n), nil
	case Int64:
		return make([]int64, n), nil
	case Uint8:
		return make([]uint8, n), nil
	case Uint16:
		return make([]uint16, n), nil
	case Uint32:
		return make([]uint32, n), nil
	case Uint64:
		return make([]uint64, n), nil
	case Float32:
		return make([]float32, n), nil
	case Float64:
		return make([]float64, n), nil
	case Char:
		return make([]string, n), nil
	case Invalid:
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, k)
}

// Len returns the number of elements in a supported slice, or -1.
func Len(values any) int {
	switch v := values.(type) {
	case []int8:
		return len(v)
	case []int16:
		return len(v)
	case []int32:
		return len(v)
	case []int64:
		return len(v)
	case []uint8:
		return len(v)
	case []uint16:
		return len(v)
	case []uint32:
		return len(v)
	case []uint64:
		return len(v)
	case []float32:
		return len(v)
	case []float64:
		return len(v)
	case []string:
		return len(v)
	default:
		return -1
	}
}

// Element returns element i of a supported slice.
func Element(values any, i int) (any, error) {
	n := Len(values)
	if n < 0 {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedKind, values)
	}
	if i < 0 || i >= n {
		return nil, fmt.Errorf("index %d out of range [0,%d)", i, n)
	}
	switch v := values.(type) {
	case []int8:
		return v[i], nil
	case []int16:
		return v[i], nil
	case []int32:
		return v[i], nil
	case []int64:
		return v[i], nil
	case []uint8:
		return v[i], nil
	case []uint16:
		return v[i], nil
	case []uint32:
		return v[i], nil
	case []uint64:
		return v[i], nil
	case []float32:
		return v[i], nil
	case []float64:
		return v[i], nil
	case []string:
		return v[i], nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedKind, values)
}

// FormatElement renders element i of values as text. Floats use the shortest
// representation that round-trips.
func FormatElement(values any, i int) (string, error) {
	e, err := Element(values, i)
	if err != nil {
		return "", err
	}
	switch v := e.(type) {
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case string:
		return v, nil
	default:
		return fmt.Sprint(v), nil
	}
}

// Encode converts a numeric slice of kind k to little-endian bytes.
// Char accepts raw []byte text and returns a copy.
func Encode(k Kind, values any) ([]byte, error) {
	if k == Char {
		raw, ok := values.([]byte)
		if !ok {
			return nil, fmt.Errorf("%w: char data must be raw bytes, got %T", ErrCast, values)
		}
		return append([]byte(nil), raw...), nil
	}
	got, err := KindOf(values)
	if err != nil {
		return nil, err
	}
	if got != k {
		return nil, fmt.Errorf("%w: %T is not %s", ErrCast, values, k)
	}

	le := binary.LittleEndian
	out := make([]byte, 0, Len(values)*k.Size())
	switch v := values.(type) {
	case []int8:
		for _, x := range v {
			out = append(out, byte(x))
		}
	case []uint8:
		out = append(out, v...)
	case []int16:
		for _, x := range v {
			out = le.AppendUint16(out, uint16(x))
		}
	case []uint16:
		for _, x := range v {
			out = le.AppendUint16(out, x)
		}
	case []int32:
		for _, x := range v {
			out = le.AppendUint32(out, uint32(x))
		}
	case []uint32:
		for _, x := range v {
			out = le.AppendUint32(out, x)
		}
	case []int64:
		for _, x := range v {
			out = le.AppendUint64(out, uint64(x))
		}
	case []uint64:
		for _, x := range v {
			out = le.AppendUint64(out, x)
		}
	case []float32:
		for _, x := range v {
			out = le.AppendUint32(out, math.Float32bits(x))
		}
	case []float64:
		for _, x := range v {
			out = le.AppendUint64(out, math.Float64bits(x))
		}
	}
	return out, nil
}

// Decode converts little-endian bytes to a slice of kind k.
// Char returns a copy of the raw bytes.
func Decode(k Kind, raw []byte) (any, error) {
	size := k.Size()
	if size == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, k)
	}
	if len(raw)%size != 0 {
		return nil, fmt.Errorf("decoding %s: %d bytes is not a multiple of %d", k, len(raw), size)
	}
	n := len(raw) / size
	le := binary.LittleEndian

	switch k {
	case Char:
		return append([]byte(nil), raw...), nil
	case Int8:
		out := make([]int8, n)
		for i := range out {
			out[i] = int8(raw[i])
		}
		return out, nil
	case Uint8:
		return append([]uint8(nil), raw...), nil
	case Int16:
		out := make([]int16, n)
		for i := range out {
			out[i] = int16(le.Uint16(raw[i*2:]))
		}
		return out, nil
	case Uint16:
		out := make([]uint16, n)
		for i := range out {
			out[i] = le.Uint16(raw[i*2:])
		}
		return out, nil
	case Int32:
		out := make([]int32, n)
		for i := range out {
			out[i] = int32(le.Uint32(raw[i*4:]))
		}
		return out, nil
	case Uint32:
		out := make([]uint32, n)
		for i := range out {
			out[i] = le.Uint32(raw[i*4:])
		}
		return out, nil
	case Int64:
		out := make([]int64, n)
		for i := range out {
			out[i] = int64(le.Uint64(raw[i*8:]))
		}
		return out, nil
	case Uint64:
		out := make([]uint64, n)
		for i := range out {
			out[i] = le.Uint64(raw[i*8:])
		}
		return out, nil
	case Float32:
		out := make([]float32, n)
		for i := range out {
			out[i] = math.Float32frombits(le.Uint32(raw[i*4:]))
		}
		return out, nil
	case Float64:
		out := make([]float64, n)
		for i := range out {
			out[i] = math.Float64frombits(le.Uint64(raw[i*8:]))
		}
		return out, nil
	case Invalid:
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, k)
}

// Cast converts values to the Go representation of kind k. Numeric sources
// may be any supported slice as well as []int and []uint. Casting numbers to
// Char formats each element as text; casting text to a numeric kind parses it.
func Cast(values any, k Kind) (any, error) {
	switch v := values.(type) {
	case []int8:
		return castTo(v, k)
	case []int16:
		return castTo(v, k)
	case []int32:
		return castTo(v, k)
	case []int64:
		return castTo(v, k)
	case []uint8:
		return castTo(v, k)
	case []uint16:
		return castTo(v, k)
	case []uint32:
		return castTo(v, k)
	case []uint64:
		return castTo(v, k)
	case []float32:
		return castTo(v, k)
	case []float64:
		return castTo(v, k)
	case []int:
		return castTo(v, k)
	case []uint:
		return castTo(v, k)
	case []string:
		return castText(v, k)
	default:
		return nil, fmt.Errorf("%w: %T to %s", ErrCast, values, k)
	}
}

func castTo[S number](src []S, k Kind) (any, error) {
	switch k {
	case Int8:
		return convertSlice[S, int8](src), nil
	case Int16:
		return convertSlice[S, int16](src), nil
	case Int32:
		return convertSlice[S, int32](src), nil
	case Int64:
		return convertSlice[S, int64](src), nil
	case Uint8:
		return convertSlice[S, uint8](src), nil
	case Uint16:
		return convertSlice[S, uint16](src), nil
	case Uint32:
		return convertSlice[S, uint32](src), nil
	case Uint64:
		return convertSlice[S, uint64](src), nil
	case Float32:
		return convertSlice[S, float32](src), nil
	case Float64:
		return convertSlice[S, float64](src), nil
	case Char:
		out := make([]string, len(src))
		for i, x := range src {
			out[i] = formatNumber(x)
		}
		return out, nil
	case Invalid:
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, k)
}

func convertSlice[S, D number](src []S) []D {
	out := make([]D, len(src))
	for i, x := range src {
		out[i] = D(x)
	}
	return out
}

func formatNumber[S number](x S) string {
	switch v := any(x).(type) {
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func castText(src []string, k Kind) (any, error) {
	if k == Char {
		return append([]string(nil), src...), nil
	}
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, k)
	}
	parsed := make([]float64, len(src))
	for i, s := range src {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: element %d %q to %s", ErrCast, i, s, k)
		}
		parsed[i] = f
	}
	return castTo(parsed, k)
}
