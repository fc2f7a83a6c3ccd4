package nexus

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-nexus/dtype"
	"github.com/robert-malhotra/go-nexus/storage"
	"github.com/robert-malhotra/go-nexus/storage/dirstore"
	"github.com/robert-malhotra/go-nexus/storage/memstore"
	"github.com/robert-malhotra/go-nexus/storage/storagetest"
)

func readAll(t *testing.T, b storage.Backend, src Source, name string, shape []int, kind dtype.Kind) *Buffer {
	t.Helper()
	got, err := NewLoader(b, src, dataGroup, name, shape, kind).GetDataset(FullRegion(shape))
	require.NoError(t, err)
	return got
}

func TestSaverGrow(t *testing.T) {
	b := dirstore.New(dirstore.WithSync(false))
	src := FileSource(filepath.Join(t.TempDir(), "scan.nxs"))
	makeDataset(t, b, src.Path(), "energy", dtype.Float64, []uint64{2, 34}, storage.WithMaxDims(0, 34))

	row := make([]float64, 34)
	for i := range row {
		row[i] = float64(i) / 4
	}
	data, err := NewBuffer([]int{1, 34}, row)
	require.NoError(t, err)

	s := NewSaver(b, src, dataGroup, "energy", []int{4, 34}, dtype.Float64)
	require.NoError(t, s.SetSlice(data, Region{Start: []int{3, 0}, Step: []int{1, 1}, Count: []int{1, 34}}))

	got := readAll(t, b, src, "energy", []int{4, 34}, dtype.Float64)
	values := got.Data().([]float64)
	assert.Equal(t, make([]float64, 34), values[2*34:3*34], "gap row reads as zero")
	assert.Equal(t, row, values[3*34:])

	f := storagetest.OpenFile(t, b, src.Path(), storage.ReadOnly)
	defer f.Close()
	info, err := f.Stat("/entry1/data/energy")
	require.NoError(t, err)
	assert.Equal(t, []uint64{4, 34}, info.Dims)

	err = s.SetSlice(data, Region{Start: []int{0, 1}, Step: []int{1, 1}, Count: []int{1, 34}})
	assert.ErrorIs(t, err, ErrBackend)
	assert.ErrorIs(t, err, storage.ErrOutOfBounds)
}

func TestSaverStrings(t *testing.T) {
	s, src := newScan(t, "names", dtype.Char, []uint64{3, 8}, storage.WithMaxDims(0, 8))

	saver := NewSaver(s, src, dataGroup, "names", []int{3}, dtype.Char)
	data, err := NewStrings([]int{2}, []string{"Hello", "World"})
	require.NoError(t, err)

	opens, _ := s.Stats()
	err = saver.SetSlice(data, FullRegion([]int{2}))
	assert.ErrorIs(t, err, ErrUnsupportedConfiguration)
	assert.Equal(t, KindUnsupportedConfiguration, Classify(err))
	after, _ := s.Stats()
	assert.Equal(t, opens, after, "nothing opened without a text length")

	saver.SetMaxTextLength(8)
	assert.Equal(t, 8, saver.TextLength())
	require.NoError(t, saver.SetSlice(data, FullRegion([]int{2})))

	long, err := NewStrings([]int{1}, []string{"Hello, World!"})
	require.NoError(t, err)
	require.NoError(t, saver.SetSlice(long, Region{Start: []int{2}, Step: []int{1}, Count: []int{1}}))

	got := readAll(t, s, src, "names", []int{3}, dtype.Char)
	assert.Equal(t, []string{"Hello", "World", "Hello, W"}, got.Data())

	// Raw text buffers are split along their last axis.
	require.NoError(t, saver.SetSlice(NewFixedText(8, "scan"), Region{Start: []int{1}, Step: []int{1}, Count: []int{1}}))
	got = readAll(t, s, src, "names", []int{3}, dtype.Char)
	assert.Equal(t, []string{"Hello", "scan", "Hello, W"}, got.Data())

	// Numbers are formatted.
	nums, err := NewBuffer([]int{1}, []int32{42})
	require.NoError(t, err)
	require.NoError(t, saver.SetSlice(nums, Region{Start: []int{0}, Step: []int{1}, Count: []int{1}}))
	got = readAll(t, s, src, "names", []int{3}, dtype.Char)
	assert.Equal(t, []string{"42", "scan", "Hello, W"}, got.Data())
}

func TestSaverSizeMismatch(t *testing.T) {
	s, src := newScan(t, "counts", dtype.Int16, []uint64{2, 34})
	saver := NewSaver(s, src, dataGroup, "counts", []int{2, 34}, dtype.Int16)

	data, err := NewBuffer([]int{5}, []int16{1, 2, 3, 4, 5})
	require.NoError(t, err)
	err = saver.SetSlice(data, Region{Start: []int{0, 0}, Step: []int{1, 1}, Count: []int{2, 2}})
	assert.ErrorIs(t, err, ErrSizeMismatch)

	data.Release()
	err = saver.SetSlice(data, Region{Start: []int{0, 0}, Step: []int{1, 1}, Count: []int{1, 5}})
	assert.ErrorIs(t, err, ErrSizeMismatch)

	err = saver.SetSlice(nil, Region{Start: []int{0}, Step: []int{1}, Count: []int{1}})
	assert.ErrorIs(t, err, ErrRankMismatch)

	assert.NoError(t, saver.SetSlice(nil, Region{Start: []int{0, 0}, Step: []int{1, 1}, Count: []int{0, 5}}),
		"empty regions write nothing")
}

func TestSaverStepped(t *testing.T) {
	s, src := newScan(t, "seq", dtype.Int16, []uint64{3, 12})
	writeRaw(t, s, scanPath, "seq", []uint64{0, 0}, []uint64{3, 12}, storagetest.Int16s(sequence(36)...))
	saver := NewSaver(s, src, dataGroup, "seq", []int{3, 12}, dtype.Int16)

	data, err := NewBuffer([]int{1, 3}, []int16{100, 101, 102})
	require.NoError(t, err)
	require.NoError(t, saver.SetSlice(data, Region{Start: []int{1, 11}, Step: []int{1, -5}, Count: []int{1, 3}}))

	want := sequence(36)
	want[12+11], want[12+6], want[12+1] = 100, 101, 102
	got := readAll(t, s, src, "seq", []int{3, 12}, dtype.Int16)
	assert.Equal(t, want, got.Data(), "elements between steps are preserved")

	r := Region{Start: []int{1, 11}, Step: []int{1, -5}, Count: []int{1, 3}}
	back, err := NewLoader(s, src, dataGroup, "seq", []int{3, 12}, dtype.Int16).GetDataset(r)
	require.NoError(t, err)
	assert.True(t, back.Equal(data))
}

func TestSaverSteppedGrow(t *testing.T) {
	s, src := newScan(t, "grid", dtype.Int32, []uint64{2, 10}, storage.WithMaxDims(0, 10))
	raw, err := dtype.Encode(dtype.Int32, []int32{7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8})
	require.NoError(t, err)
	writeRaw(t, s, scanPath, "grid", []uint64{0, 0}, []uint64{2, 10}, raw)

	saver := NewSaver(s, src, dataGroup, "grid", []int{4, 10}, dtype.Int32)
	data, err := NewBuffer([]int{2, 4}, []int32{1, 2, 3, 4, 5, 6, 7, 8})
	require.NoError(t, err)
	require.NoError(t, saver.SetSlice(data, Region{Start: []int{1, 0}, Step: []int{2, 3}, Count: []int{2, 4}}))

	got := readAll(t, s, src, "grid", []int{4, 10}, dtype.Int32)
	assert.Equal(t, []int32{
		7, 7, 7, 7, 7, 7, 7, 7, 7, 7,
		1, 8, 8, 2, 8, 8, 3, 8, 8, 4,
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
		5, 0, 0, 6, 0, 0, 7, 0, 0, 8,
	}, got.Data())
}

func TestSaverCast(t *testing.T) {
	s, src := newScan(t, "counts", dtype.Int32, []uint64{3})
	saver := NewSaver(s, src, dataGroup, "counts", []int{3}, dtype.Int32)

	floats, err := NewBuffer([]int{2}, []float64{1.7, -2.2})
	require.NoError(t, err)
	require.NoError(t, saver.SetSlice(floats, Region{Start: []int{0}, Step: []int{1}, Count: []int{2}}))

	unsigned, err := NewBuffer([]int{1}, []int16{-1})
	require.NoError(t, err)
	require.NoError(t, unsigned.SetUnsigned())
	require.NoError(t, saver.SetSlice(unsigned, Region{Start: []int{2}, Step: []int{1}, Count: []int{1}}))

	got := readAll(t, s, src, "counts", []int{3}, dtype.Int32)
	assert.Equal(t, []int32{1, -2, 65535}, got.Data())

	text, err := NewStrings([]int{1}, []string{"twelve"})
	require.NoError(t, err)
	err = saver.SetSlice(text, Region{Start: []int{0}, Step: []int{1}, Count: []int{1}})
	assert.ErrorIs(t, err, dtype.ErrCast)
}

func TestSaverBackendFailure(t *testing.T) {
	s, src := newScan(t, "counts", dtype.Int16, []uint64{4})
	boom := errors.New("disk full")
	s.SetFail(func(_ string, op memstore.Op) error {
		if op == memstore.OpWriteSlab {
			return boom
		}
		return nil
	})
	data, err := NewBuffer([]int{4}, []int16{1, 2, 3, 4})
	require.NoError(t, err)

	err = NewSaver(s, src, dataGroup, "counts", []int{4}, dtype.Int16).SetSlice(data, FullRegion([]int{4}))
	assert.ErrorIs(t, err, ErrBackend)
	assert.ErrorIs(t, err, boom)
	opens, closes := s.Stats()
	assert.Equal(t, opens, closes, "handle closed on failure")

	var logs bytes.Buffer
	tolerant := NewSaver(s, src, dataGroup, "counts", []int{4}, dtype.Int16,
		WithDegradeOnFailure(true), WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	assert.NoError(t, tolerant.SetSlice(data, FullRegion([]int{4})))
	assert.Contains(t, logs.String(), "disk full")

	err = NewSaver(s, FileSource("/missing.nxs"), dataGroup, "counts", []int{4}, dtype.Int16).
		SetSlice(data, FullRegion([]int{4}))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSaverDatasetFormat(t *testing.T) {
	s, src := newScan(t, "energy", dtype.Float32, []uint64{2})
	makeDataset(t, s, scanPath, "counts", dtype.Int16, []uint64{2, 3})
	makeDataset(t, s, scanPath, "flags", dtype.Int8, []uint64{2, 4})

	ints, err := NewBuffer([]int{2}, []int32{1, 2})
	require.NoError(t, err)

	err = NewSaver(s, src, dataGroup, "energy", []int{2}, dtype.Int32).SetSlice(ints, FullRegion([]int{2}))
	assert.ErrorIs(t, err, ErrFormatMismatch)
	assert.NotErrorIs(t, err, ErrBackend)
	assert.Equal(t, []float32{0, 0}, readAll(t, s, src, "energy", []int{2}, dtype.Float32).Data(),
		"same width kinds are not reinterpreted")

	tolerant := NewSaver(s, src, dataGroup, "counts", []int{2, 3}, dtype.Int32, WithDegradeOnFailure(true))
	wide, err := NewBuffer([]int{1, 2}, []int32{1, 2})
	require.NoError(t, err)
	err = tolerant.SetSlice(wide, Region{Start: []int{0, 0}, Step: []int{1, 1}, Count: []int{1, 2}})
	assert.ErrorIs(t, err, ErrFormatMismatch, "format errors are never degraded")
	assert.Equal(t, KindFormatMismatch, Classify(err))

	flat := NewSaver(s, src, dataGroup, "counts", []int{6}, dtype.Int16, WithDegradeOnFailure(true))
	err = flat.SetSlice(ints, Region{Start: []int{0}, Step: []int{1}, Count: []int{2}})
	assert.ErrorIs(t, err, ErrRankMismatch)

	text := NewSaver(s, src, dataGroup, "flags", []int{2}, dtype.Char)
	text.SetMaxTextLength(4)
	names, err := NewStrings([]int{2}, []string{"ab", "cd"})
	require.NoError(t, err)
	assert.ErrorIs(t, text.SetSlice(names, FullRegion([]int{2})), ErrFormatMismatch)

	opens, closes := s.Stats()
	assert.Equal(t, opens, closes, "handles closed after rejected writes")
}

func TestIsFileWriteable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.nxs")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	local := func() (string, error) { return "beamline-ws", nil }

	s := NewSaver(memstore.New(), FileSource(path), dataGroup, "counts", []int{4}, dtype.Int16, WithHostname(local))
	assert.True(t, s.IsFileWriteable())

	remote, err := ParseSource("file://other-host" + path)
	require.NoError(t, err)
	s = NewSaver(memstore.New(), remote, dataGroup, "counts", []int{4}, dtype.Int16, WithHostname(local))
	assert.False(t, s.IsFileWriteable())

	s = NewSaver(memstore.New(), FileSource(filepath.Join(t.TempDir(), "missing", "scan.nxs")),
		dataGroup, "counts", []int{4}, dtype.Int16)
	assert.False(t, s.IsFileWriteable())
}
