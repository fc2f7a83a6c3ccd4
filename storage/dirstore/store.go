package dirstore

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/robert-malhotra/go-nexus/storage"
)

// Store opens directory store files. The zero value is not usable; call New.
type Store struct {
	logger *slog.Logger
	permD  fs.FileMode
	permF  fs.FileMode
	sync   bool
}

var _ storage.Backend = (*Store)(nil)

// New creates a Store.
func New(opts ...Option) *Store {
	s := &Store{
		logger: slog.New(slog.DiscardHandler),
		permD:  0o755,
		permF:  0o644,
		sync:   true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open opens the store file rooted at path. Create makes the directory and
// its superblock if missing; an existing non-empty directory without a
// superblock is rejected with storage.ErrNotStoreFile.
func (s *Store) Open(path string, mode storage.Mode) (storage.Handle, error) {
	f, err := s.OpenFile(path, mode)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// OpenFile is Open returning the concrete handle.
func (s *Store) OpenFile(path string, mode storage.Mode) (*File, error) {
	root := filepath.Clean(path)

	switch mode {
	case storage.ReadOnly, storage.ReadWrite:
		if err := s.checkRoot(root); err != nil {
			return nil, err
		}
	case storage.Create:
		if err := s.initRoot(root); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("opening %s: %w: %s", path, storage.ErrUnsupported, mode)
	}

	s.logger.Debug("opened store file", "path", root, "mode", mode.String())
	return &File{
		store: s,
		root:  root,
		mode:  mode,
		group: "/",
	}, nil
}

func (s *Store) checkRoot(root string) error {
	fi, err := os.Stat(root)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("opening %s: %w", root, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("opening %s: %w", root, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("opening %s: %w", root, storage.ErrNotStoreFile)
	}
	if err := readSuperblock(root); err != nil {
		return fmt.Errorf("opening %s: %w", root, err)
	}
	return nil
}

func (s *Store) initRoot(root string) error {
	err := s.checkRoot(root)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound):
		if err := os.MkdirAll(root, s.permD); err != nil {
			return fmt.Errorf("creating %s: %w", root, err)
		}
	case errors.Is(err, storage.ErrNotStoreFile):
		entries, rerr := os.ReadDir(root)
		if rerr != nil || len(entries) > 0 {
			return err
		}
	default:
		return err
	}

	if err := s.writeAtomic(filepath.Join(root, superblockName), encodeSuperblock()); err != nil {
		return fmt.Errorf("writing superblock: %w", err)
	}
	s.logger.Info("created store file", "path", root)
	return nil
}

// writeAtomic writes data to a temporary file next to dest and renames it
// into place.
func (s *Store) writeAtomic(dest string, data []byte) error {
	dir := filepath.Dir(dest)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	_ = os.Chmod(tmpPath, s.permF)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if s.sync {
		if err := tmp.Sync(); err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
			return err
		}
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := osReplace(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if s.sync {
		_ = syncDir(dir)
	}
	return nil
}
