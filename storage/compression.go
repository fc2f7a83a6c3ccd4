package storage

import (
	"fmt"
	"strings"
)

// Compression selects the compression filter of a chunked dataset.
type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionDeflate
	CompressionZstd
	CompressionS2
	CompressionLZ4
)

var compressionNames = [...]string{
	CompressionNone:    "none",
	CompressionDeflate: "deflate",
	CompressionZstd:    "zstd",
	CompressionS2:      "s2",
	CompressionLZ4:     "lz4",
}

func (c Compression) String() string {
	if int(c) < len(compressionNames) {
		return compressionNames[c]
	}
	return fmt.Sprintf("Compression(%d)", uint8(c))
}

// Valid reports whether c is a known compression.
func (c Compression) Valid() bool {
	return int(c) < len(compressionNames)
}

// DefaultLevel returns the level used when none is given.
func (c Compression) DefaultLevel() int {
	switch c {
	case CompressionDeflate:
		return 6
	case CompressionZstd:
		return 3
	default:
		return 0
	}
}

// ParseCompression parses a compression name as returned by String.
// "gzip" and "zlib" are accepted for deflate.
func ParseCompression(name string) (Compression, error) {
	switch n := strings.ToLower(name); n {
	case "", "none":
		return CompressionNone, nil
	case "gzip", "zlib":
		return CompressionDeflate, nil
	default:
		for c, cn := range compressionNames {
			if cn == n {
				return Compression(c), nil
			}
		}
	}
	return CompressionNone, fmt.Errorf("%w: compression %q", ErrUnsupported, name)
}
