package dirstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/robert-malhotra/go-nexus/internal/binary"
	"github.com/robert-malhotra/go-nexus/internal/filter"
	"github.com/robert-malhotra/go-nexus/internal/hyperslab"
	"github.com/robert-malhotra/go-nexus/internal/layout"
	"github.com/robert-malhotra/go-nexus/storage"
)

// dataset is an opened dataset directory.
type dataset struct {
	store    *Store
	path     string
	dir      string
	hdr      *header
	grid     *layout.Grid
	pipeline *filter.Pipeline
}

func loadDataset(s *Store, path, dir string) (*dataset, error) {
	data, err := os.ReadFile(filepath.Join(dir, headerName))
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	hdr, err := decodeHeader(data)
	if err != nil {
		return nil, err
	}
	return newDataset(s, path, dir, hdr)
}

func newDataset(s *Store, path, dir string, hdr *header) (*dataset, error) {
	grid, err := layout.NewGrid(hdr.Dims, hdr.ChunkDims, hdr.Kind.Size())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrShape, err)
	}
	pipeline, err := filter.NewPipeline(hdr.Filters)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrUnsupported, err)
	}
	return &dataset{
		store:    s,
		path:     path,
		dir:      dir,
		hdr:      hdr,
		grid:     grid,
		pipeline: pipeline,
	}, nil
}

func (ds *dataset) elemSize() int {
	return ds.hdr.Kind.Size()
}

func (ds *dataset) checkRank(start, count []uint64) error {
	rank := len(ds.hdr.Dims)
	if len(start) != rank || len(count) != rank {
		return fmt.Errorf("%w: start and count must have %d dimensions, got %d and %d",
			storage.ErrShape, rank, len(start), len(count))
	}
	return nil
}

func (ds *dataset) readSlab(start, count []uint64) ([]byte, error) {
	if err := ds.checkRank(start, count); err != nil {
		return nil, err
	}
	for d, dim := range ds.hdr.Dims {
		if start[d]+count[d] > dim {
			return nil, fmt.Errorf("%w: dimension %d, start=%d, count=%d, size=%d",
				storage.ErrOutOfBounds, d, start[d], count[d], dim)
		}
	}

	out := make([]byte, hyperslab.Elements(count)*uint64(ds.elemSize()))
	for _, coord := range ds.grid.Chunks(start, count) {
		chunk, ok, err := ds.readChunk(coord)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if err := ds.grid.CopyOut(out, start, count, coord, chunk); err != nil {
			return nil, fmt.Errorf("copying chunk %s: %w", layout.Key(coord), err)
		}
	}
	return out, nil
}

func (ds *dataset) writeSlab(start, count []uint64, data []byte) error {
	if err := ds.checkRank(start, count); err != nil {
		return err
	}
	want := hyperslab.Elements(count) * uint64(ds.elemSize())
	if uint64(len(data)) != want {
		return fmt.Errorf("%w: %d bytes for %v elements of %d bytes",
			storage.ErrShape, len(data), count, ds.elemSize())
	}
	if want == 0 {
		return nil
	}

	dims, grown, err := ds.extentFor(start, count)
	if err != nil {
		return err
	}
	grid := ds.grid
	if grown {
		if grid, err = layout.NewGrid(dims, ds.hdr.ChunkDims, ds.elemSize()); err != nil {
			return err
		}
	}

	for _, coord := range grid.Chunks(start, count) {
		var chunk []byte
		if grid.Covers(coord, start, count) {
			chunk = make([]byte, grid.ChunkBytes())
		} else {
			existing, ok, err := ds.readChunk(coord)
			if err != nil {
				return err
			}
			if !ok {
				existing = make([]byte, grid.ChunkBytes())
			}
			chunk = existing
		}
		if err := grid.CopyIn(chunk, coord, start, count, data); err != nil {
			return fmt.Errorf("copying chunk %s: %w", layout.Key(coord), err)
		}
		if err := ds.writeChunk(coord, chunk); err != nil {
			return err
		}
	}

	if grown {
		return ds.resize(dims, grid)
	}
	return nil
}

// extentFor returns the dims needed to hold start/count and whether they
// differ from the current dims.
func (ds *dataset) extentFor(start, count []uint64) ([]uint64, bool, error) {
	dims := append([]uint64(nil), ds.hdr.Dims...)
	grown := false
	for d := range dims {
		end := start[d] + count[d]
		if end <= dims[d] {
			continue
		}
		if limit := ds.hdr.MaxDims[d]; limit != 0 && end > limit {
			return nil, false, fmt.Errorf("%w: dimension %d, end=%d, max=%d",
				storage.ErrOutOfBounds, d, end, limit)
		}
		dims[d] = end
		grown = true
	}
	return dims, grown, nil
}

func (ds *dataset) resize(dims []uint64, grid *layout.Grid) error {
	hdr := *ds.hdr
	hdr.Dims = dims
	if err := ds.store.writeAtomic(filepath.Join(ds.dir, headerName), hdr.encode()); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	ds.store.logger.Debug("grew dataset", "dataset", ds.path, "from", ds.hdr.Dims, "to", dims)
	ds.hdr = &hdr
	ds.grid = grid
	return nil
}

// readChunk returns the decoded chunk at coord. ok is false when the chunk
// was never written.
func (ds *dataset) readChunk(coord []uint64) ([]byte, bool, error) {
	key := layout.Key(coord)
	raw, err := os.ReadFile(filepath.Join(ds.dir, key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading chunk %s: %w", key, err)
	}

	r := binary.NewReader(raw)
	mask, err := r.ReadUint32()
	if err != nil {
		return nil, false, fmt.Errorf("reading chunk %s: %w: %w", key, storage.ErrCorrupt, err)
	}
	chunk, err := ds.pipeline.Decode(raw[r.Pos():], mask)
	if err != nil {
		return nil, false, fmt.Errorf("decoding chunk %s: %w: %w", key, storage.ErrCorrupt, err)
	}
	if len(chunk) != ds.grid.ChunkBytes() {
		return nil, false, fmt.Errorf("decoding chunk %s: %w: %d bytes, want %d",
			key, storage.ErrCorrupt, len(chunk), ds.grid.ChunkBytes())
	}
	return chunk, true, nil
}

func (ds *dataset) writeChunk(coord []uint64, chunk []byte) error {
	key := layout.Key(coord)
	stored, mask, err := ds.pipeline.Encode(chunk)
	if err != nil {
		return fmt.Errorf("encoding chunk %s: %w", key, err)
	}
	w := binary.NewWriter(4 + len(stored))
	w.WriteUint32(mask)
	w.WriteBytes(stored)
	if err := ds.store.writeAtomic(filepath.Join(ds.dir, key), w.Bytes()); err != nil {
		return fmt.Errorf("writing chunk %s: %w", key, err)
	}
	return nil
}

// storedChunks counts the chunk files of the dataset.
func (ds *dataset) storedChunks() (int, error) {
	entries, err := os.ReadDir(ds.dir)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		if _, ok := layout.ParseKey(e.Name(), len(ds.hdr.Dims)); ok && !e.IsDir() {
			n++
		}
	}
	return n, nil
}
