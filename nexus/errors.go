package nexus

import (
	"errors"

	"github.com/robert-malhotra/go-nexus/dtype"
	"github.com/robert-malhotra/go-nexus/internal/hyperslab"
	"github.com/robert-malhotra/go-nexus/storage"
)

var (
	// ErrRankMismatch is returned when a region cannot address the true
	// shape of a dataset, or the on-disk rank is not the expected one.
	ErrRankMismatch = hyperslab.ErrRankMismatch

	// ErrInvalidRegion is returned for zero steps and negative starts or
	// counts.
	ErrInvalidRegion = hyperslab.ErrInvalidRegion

	ErrFormatMismatch           = errors.New("dataset format does not match")
	ErrBackend                  = errors.New("storage backend failure")
	ErrUnsupportedConfiguration = errors.New("unsupported configuration")
	ErrSizeMismatch             = errors.New("data size does not match region")
)

// ErrorKind is a coarse classification of errors returned by this package.
type ErrorKind string

const (
	KindUnknown                  ErrorKind = "unknown"
	KindRankMismatch             ErrorKind = "rank-mismatch"
	KindFormatMismatch           ErrorKind = "format-mismatch"
	KindBackendFailure           ErrorKind = "backend-failure"
	KindUnsupportedConfiguration ErrorKind = "unsupported-configuration"
)

// Classify maps err onto an ErrorKind. Only sentinel errors are inspected.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	// Shape and region problems come first; they are never backend failures
	// even when reported by the backend.
	if errors.Is(err, ErrRankMismatch) ||
		errors.Is(err, ErrInvalidRegion) ||
		errors.Is(err, ErrSizeMismatch) ||
		errors.Is(err, storage.ErrShape) {
		return KindRankMismatch
	}
	if errors.Is(err, ErrFormatMismatch) {
		return KindFormatMismatch
	}
	if errors.Is(err, ErrUnsupportedConfiguration) ||
		errors.Is(err, dtype.ErrTextLength) ||
		errors.Is(err, dtype.ErrNotInteger) ||
		errors.Is(err, dtype.ErrUnsupportedKind) ||
		errors.Is(err, dtype.ErrCast) {
		return KindUnsupportedConfiguration
	}
	if errors.Is(err, ErrBackend) {
		return KindBackendFailure
	}
	return KindUnknown
}
