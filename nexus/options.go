package nexus

import (
	"log/slog"
	"os"

	"github.com/robert-malhotra/go-nexus/storage"
)

// Option configures a Loader or Saver.
type Option func(*config)

type config struct {
	logger   *slog.Logger
	handle   storage.Handle
	keepOpen bool
	degrade  bool
	hostname func() (string, error)
	dataset  []storage.DatasetOption
}

func newConfig(opts []Option) config {
	c := config{
		logger:   slog.New(slog.DiscardHandler),
		hostname: os.Hostname,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithLogger sets the logger for handle reopen events and degraded failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithHandle supplies an already open handle for a Loader to reuse. The
// caller keeps ownership: the Loader never closes it.
func WithHandle(h storage.Handle) Option {
	return func(c *config) {
		c.handle = h
	}
}

// WithKeepOpen makes a Loader keep the handles it opens across calls instead
// of closing each at the end of the call. Close releases the retained handle.
func WithKeepOpen(enabled bool) Option {
	return func(c *config) {
		c.keepOpen = enabled
	}
}

// WithDegradeOnFailure makes backend failures log at error level and return
// no result instead of an error: GetDataset returns a nil buffer and
// SetSlice returns nil.
func WithDegradeOnFailure(enabled bool) Option {
	return func(c *config) {
		c.degrade = enabled
	}
}

// WithHostname replaces the local host name lookup used by the reachability
// check.
func WithHostname(fn func() (string, error)) Option {
	return func(c *config) {
		if fn != nil {
			c.hostname = fn
		}
	}
}

// WithDatasetOptions sets the layout options CreateLazy creates datasets
// with.
func WithDatasetOptions(opts ...storage.DatasetOption) Option {
	return func(c *config) {
		c.dataset = append(c.dataset, opts...)
	}
}
