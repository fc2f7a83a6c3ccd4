package dirstore

import (
	"bytes"
	"fmt"

	"github.com/robert-malhotra/go-nexus/dtype"
	"github.com/robert-malhotra/go-nexus/internal/binary"
	"github.com/robert-malhotra/go-nexus/internal/filter"
	"github.com/robert-malhotra/go-nexus/storage"
)

const (
	headerName    = ".dataset"
	headerVersion = 1
)

var headerMagic = []byte("NXDS")

// header is the decoded .dataset file.
type header struct {
	Kind      dtype.Kind
	Dims      []uint64
	MaxDims   []uint64
	ChunkDims []uint64
	Filters   []filter.Info
}

func (h *header) encode() []byte {
	w := binary.NewWriter(64)
	w.WriteBytes(headerMagic)
	w.WriteUint8(headerVersion)
	w.WriteUint8(uint8(h.Kind))
	w.WriteUint64s(h.Dims)
	w.WriteUint64s(h.MaxDims)
	w.WriteUint64s(h.ChunkDims)
	w.WriteUint8(uint8(len(h.Filters)))
	for _, f := range h.Filters {
		w.WriteUint16(f.ID)
		w.WriteUint8(uint8(len(f.Params)))
		for _, p := range f.Params {
			w.WriteUint32(p)
		}
	}
	return binary.AppendChecksum64(w.Bytes())
}

func decodeHeader(data []byte) (*header, error) {
	if !bytes.HasPrefix(data, headerMagic) {
		return nil, fmt.Errorf("%w: dataset header signature", storage.ErrCorrupt)
	}
	payload, ok := binary.SplitChecksum64(data)
	if !ok {
		return nil, fmt.Errorf("%w: dataset header checksum mismatch", storage.ErrCorrupt)
	}

	r := binary.NewReader(payload[len(headerMagic):])
	h, err := readHeader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: dataset header: %w", storage.ErrCorrupt, err)
	}
	if r.Remaining() != 0 {
		return nil, fmt.Errorf("%w: dataset header has %d trailing bytes", storage.ErrCorrupt, r.Remaining())
	}
	return h, nil
}

func readHeader(r *binary.Reader) (*header, error) {
	version, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}
	if version != headerVersion {
		return nil, fmt.Errorf("version %d", version)
	}
	kind, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}
	h := &header{Kind: dtype.Kind(kind)}
	if !h.Kind.Valid() {
		return nil, fmt.Errorf("kind %d", kind)
	}
	if h.Dims, err = r.ReadUint64s(); err != nil {
		return nil, err
	}
	if h.MaxDims, err = r.ReadUint64s(); err != nil {
		return nil, err
	}
	if h.ChunkDims, err = r.ReadUint64s(); err != nil {
		return nil, err
	}
	if len(h.MaxDims) != len(h.Dims) || len(h.ChunkDims) != len(h.Dims) {
		return nil, fmt.Errorf("rank %d with %d max dims and %d chunk dims",
			len(h.Dims), len(h.MaxDims), len(h.ChunkDims))
	}

	n, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}
	for i := 0; i < int(n); i++ {
		var info filter.Info
		if info.ID, err = r.ReadUint16(); err != nil {
			return nil, err
		}
		np, err := r.ReadUint8()
		if err != nil {
			return nil, err
		}
		for j := 0; j < int(np); j++ {
			p, err := r.ReadUint32()
			if err != nil {
				return nil, err
			}
			info.Params = append(info.Params, p)
		}
		h.Filters = append(h.Filters, info)
	}
	return h, nil
}

// filterChain builds the pipeline description for the creation options of a
// dataset of kind k.
func filterChain(o storage.DatasetOptions, k dtype.Kind) []filter.Info {
	var infos []filter.Info
	if o.Shuffle {
		infos = append(infos, filter.Info{ID: filter.IDShuffle, Params: []uint32{uint32(k.Size())}})
	}
	switch o.Compression {
	case storage.CompressionDeflate:
		infos = append(infos, filter.Info{ID: filter.IDDeflate, Params: []uint32{uint32(o.Level)}})
	case storage.CompressionZstd:
		infos = append(infos, filter.Info{ID: filter.IDZstd, Params: []uint32{uint32(o.Level)}})
	case storage.CompressionS2:
		infos = append(infos, filter.Info{ID: filter.IDS2})
	case storage.CompressionLZ4:
		infos = append(infos, filter.Info{ID: filter.IDLZ4})
	case storage.CompressionNone:
	}
	if o.Fletcher32 {
		infos = append(infos, filter.Info{ID: filter.IDFletcher32})
	}
	if o.Checksum {
		infos = append(infos, filter.Info{ID: filter.IDXXH64})
	}
	return infos
}

func filterNames(infos []filter.Info) []string {
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.String()
	}
	return names
}
