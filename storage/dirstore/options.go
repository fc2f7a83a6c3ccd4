package dirstore

import (
	"io/fs"
	"log/slog"
)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for store events. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPerm sets the permissions of created directories and files.
func WithPerm(dir, file fs.FileMode) Option {
	return func(s *Store) {
		s.permD = dir
		s.permF = file
	}
}

// WithSync controls whether written files are fsynced before being renamed
// into place. Enabled by default.
func WithSync(enabled bool) Option {
	return func(s *Store) {
		s.sync = enabled
	}
}
