// Package storagetest implements checks shared by storage backend tests.
package storagetest

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-nexus/dtype"
	"github.com/robert-malhotra/go-nexus/storage"
)

// Int16s encodes values as little-endian int16 slab bytes.
func Int16s(values ...int16) []byte {
	raw, err := dtype.Encode(dtype.Int16, values)
	if err != nil {
		panic(err)
	}
	return raw
}

// Fill returns n copies of v encoded as int16.
func Fill(n int, v int16) []byte {
	values := make([]int16, n)
	for i := range values {
		values[i] = v
	}
	return Int16s(values...)
}

// OpenFile opens path on b and asserts the handle implements storage.File.
func OpenFile(t testing.TB, b storage.Backend, path string, mode storage.Mode) storage.File {
	t.Helper()
	h, err := b.Open(path, mode)
	require.NoError(t, err)
	f, ok := h.(storage.File)
	require.True(t, ok, "handle %T does not implement storage.File", h)
	return f
}

// TestBackend runs the slab primitive checks against a backend. path must not
// exist yet.
func TestBackend(t *testing.T, b storage.Backend, path string) {
	t.Run("OpenMissing", func(t *testing.T) {
		_, err := b.Open(path, storage.ReadOnly)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	f := OpenFile(t, b, path, storage.Create)
	require.NoError(t, f.CreateGroup("/entry1/data"))
	require.NoError(t, f.CreateDataset("/entry1/data", "counts", dtype.Int16, []uint64{2, 34},
		storage.WithMaxDims(0, 34), storage.WithChunks(1, 10)))

	t.Run("Create", func(t *testing.T) {
		err := f.CreateDataset("/entry1/data", "counts", dtype.Int16, []uint64{2, 34})
		assert.ErrorIs(t, err, storage.ErrExists)

		err = f.CreateDataset("/entry1/missing", "x", dtype.Int16, []uint64{2})
		assert.ErrorIs(t, err, storage.ErrNotFound)

		err = f.CreateDataset("/entry1/data", ".x", dtype.Int16, []uint64{2})
		assert.ErrorIs(t, err, storage.ErrInvalidPath)

		err = f.CreateDataset("/entry1/data", "bad", dtype.Int16, []uint64{2}, storage.WithMaxDims(1))
		assert.ErrorIs(t, err, storage.ErrShape)

		err = f.CreateGroup("/entry1/data/counts/sub")
		assert.ErrorIs(t, err, storage.ErrNotGroup)

		assert.NoError(t, f.CreateGroup("/entry1"), "existing groups are accepted")
	})

	t.Run("Addressing", func(t *testing.T) {
		_, _, err := f.ShapeAndType()
		assert.ErrorIs(t, err, storage.ErrNoDataset)

		assert.ErrorIs(t, f.OpenGroupPath("/nope"), storage.ErrNotFound)
		assert.ErrorIs(t, f.OpenGroupPath("/entry1/data/counts"), storage.ErrNotGroup)

		require.NoError(t, f.OpenGroupPath("/entry1"))
		assert.ErrorIs(t, f.OpenDataset("data"), storage.ErrNotDataset)
		assert.ErrorIs(t, f.OpenDataset("counts"), storage.ErrNotFound)

		require.NoError(t, f.OpenGroupPath("/entry1/data/"))
		require.NoError(t, f.OpenDataset("counts"))
		dims, kind, err := f.ShapeAndType()
		require.NoError(t, err)
		assert.Equal(t, []uint64{2, 34}, dims)
		assert.Equal(t, dtype.Int16, kind)
	})

	t.Run("ReadWrite", func(t *testing.T) {
		require.NoError(t, f.OpenGroupPath("/entry1/data"))
		require.NoError(t, f.OpenDataset("counts"))

		raw, err := f.ReadSlab([]uint64{0, 0}, []uint64{2, 34})
		require.NoError(t, err)
		assert.Equal(t, make([]byte, 2*34*2), raw, "unwritten data reads as zero")

		require.NoError(t, f.WriteSlab([]uint64{0, 0}, []uint64{2, 10}, Fill(20, -5)))

		raw, err = f.ReadSlab([]uint64{1, 0}, []uint64{1, 10})
		require.NoError(t, err)
		assert.Equal(t, Fill(10, -5), raw)

		raw, err = f.ReadSlab([]uint64{0, 8}, []uint64{1, 4})
		require.NoError(t, err)
		assert.Equal(t, Int16s(-5, -5, 0, 0), raw)

		err = f.WriteSlab([]uint64{0, 0}, []uint64{1, 2}, Int16s(1))
		assert.ErrorIs(t, err, storage.ErrShape)

		_, err = f.ReadSlab([]uint64{1, 30}, []uint64{1, 5})
		assert.ErrorIs(t, err, storage.ErrOutOfBounds)

		_, err = f.ReadSlab([]uint64{0}, []uint64{1})
		assert.ErrorIs(t, err, storage.ErrShape)
	})

	t.Run("Grow", func(t *testing.T) {
		require.NoError(t, f.OpenGroupPath("/entry1/data"))
		require.NoError(t, f.OpenDataset("counts"))

		row := make([]int16, 34)
		for i := range row {
			row[i] = int16(i)
		}
		require.NoError(t, f.WriteSlab([]uint64{3, 0}, []uint64{1, 34}, Int16s(row...)))

		dims, _, err := f.ShapeAndType()
		require.NoError(t, err)
		assert.Equal(t, []uint64{4, 34}, dims)

		raw, err := f.ReadSlab([]uint64{2, 0}, []uint64{2, 34})
		require.NoError(t, err)
		assert.Equal(t, append(make([]byte, 68), Int16s(row...)...), raw)

		err = f.WriteSlab([]uint64{0, 30}, []uint64{1, 5}, Fill(5, 1))
		assert.ErrorIs(t, err, storage.ErrOutOfBounds, "fixed axis cannot grow")
	})

	t.Run("List", func(t *testing.T) {
		names, err := f.Members("/entry1")
		require.NoError(t, err)
		assert.Equal(t, []string{"data"}, names)

		info, err := f.Stat("/entry1/data/counts")
		require.NoError(t, err)
		assert.True(t, info.IsDataset())
		assert.Equal(t, []uint64{4, 34}, info.Dims)
		assert.Equal(t, []uint64{0, 34}, info.MaxDims)

		info, err = f.Stat("/")
		require.NoError(t, err)
		assert.True(t, info.Group)

		_, err = f.Stat("/entry1/zzz")
		assert.ErrorIs(t, err, storage.ErrNotFound)

		_, err = f.Members("/entry1/data/counts")
		assert.ErrorIs(t, err, storage.ErrNotGroup)
	})

	require.NoError(t, f.Close())
	require.NoError(t, f.Close(), "close is idempotent")

	t.Run("Closed", func(t *testing.T) {
		assert.ErrorIs(t, f.OpenGroupPath("/"), storage.ErrClosed)
		_, err := f.ReadSlab([]uint64{0, 0}, []uint64{1, 1})
		assert.ErrorIs(t, err, storage.ErrClosed)
	})

	t.Run("Reopen", func(t *testing.T) {
		r := OpenFile(t, b, path, storage.ReadOnly)
		defer r.Close()

		require.NoError(t, r.OpenGroupPath("/entry1/data"))
		require.NoError(t, r.OpenDataset("counts"))
		dims, kind, err := r.ShapeAndType()
		require.NoError(t, err)
		assert.Equal(t, []uint64{4, 34}, dims)
		assert.Equal(t, dtype.Int16, kind)

		raw, err := r.ReadSlab([]uint64{0, 0}, []uint64{1, 12})
		require.NoError(t, err)
		assert.True(t, bytes.Equal(append(Fill(10, -5), Int16s(0, 0)...), raw))

		err = r.WriteSlab([]uint64{0, 0}, []uint64{1, 1}, Int16s(1))
		assert.ErrorIs(t, err, storage.ErrReadOnly)

		assert.ErrorIs(t, r.CreateGroup("/x"), storage.ErrReadOnly)
	})
}

// TestKinds writes and reads back a small dataset of every element kind.
func TestKinds(t *testing.T, b storage.Backend, path string, opts ...storage.DatasetOption) {
	f := OpenFile(t, b, path, storage.Create)
	defer f.Close()

	for _, k := range dtype.Kinds {
		t.Run(k.String(), func(t *testing.T) {
			dims := []uint64{3, 5}
			require.NoError(t, f.CreateDataset("/", k.String(), k, dims, opts...))
			require.NoError(t, f.OpenGroupPath("/"))
			require.NoError(t, f.OpenDataset(k.String()))

			raw := make([]byte, 15*k.Size())
			for i := range raw {
				raw[i] = byte(i*31 + 7)
			}
			require.NoError(t, f.WriteSlab([]uint64{0, 0}, dims, raw))

			got, err := f.ReadSlab([]uint64{0, 0}, dims)
			require.NoError(t, err)
			assert.Equal(t, raw, got)

			got, err = f.ReadSlab([]uint64{1, 2}, []uint64{2, 2})
			require.NoError(t, err)
			size := k.Size()
			want := append(append([]byte(nil), raw[7*size:9*size]...), raw[12*size:14*size]...)
			assert.Equal(t, want, got)
		})
	}
}
