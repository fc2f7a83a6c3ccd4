package dirstore

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/robert-malhotra/go-nexus/internal/binary"
	"github.com/robert-malhotra/go-nexus/storage"
)

// Signature starts every superblock: 0x89 N X S \r \n 0x1a \n
var Signature = []byte{0x89, 'N', 'X', 'S', '\r', '\n', 0x1a, '\n'}

const (
	superblockName    = ".nxstore"
	superblockVersion = 1
)

func encodeSuperblock() []byte {
	w := binary.NewWriter(len(Signature) + 1 + 8)
	w.WriteBytes(Signature)
	w.WriteUint8(superblockVersion)
	return binary.AppendChecksum64(w.Bytes())
}

func decodeSuperblock(data []byte) error {
	if !bytes.HasPrefix(data, Signature) {
		return storage.ErrNotStoreFile
	}
	payload, ok := binary.SplitChecksum64(data)
	if !ok {
		return fmt.Errorf("%w: superblock checksum mismatch", storage.ErrCorrupt)
	}
	r := binary.NewReader(payload[len(Signature):])
	version, err := r.ReadUint8()
	if err != nil {
		return fmt.Errorf("%w: superblock: %w", storage.ErrCorrupt, err)
	}
	if version != superblockVersion {
		return fmt.Errorf("%w: superblock version %d", storage.ErrUnsupported, version)
	}
	return nil
}

func readSuperblock(root string) error {
	data, err := os.ReadFile(filepath.Join(root, superblockName))
	if errors.Is(err, fs.ErrNotExist) {
		return storage.ErrNotStoreFile
	}
	if err != nil {
		return fmt.Errorf("reading superblock: %w", err)
	}
	return decodeSuperblock(data)
}
