package memstore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-nexus/dtype"
	"github.com/robert-malhotra/go-nexus/storage"
	"github.com/robert-malhotra/go-nexus/storage/storagetest"
)

func TestBackend(t *testing.T) {
	storagetest.TestBackend(t, New(), "/data/scan.nxs")
}

func TestKinds(t *testing.T) {
	storagetest.TestKinds(t, New(), "/data/kinds.nxs", storage.WithMaxDims(0, 5))
}

func TestFailureInjection(t *testing.T) {
	s := New()
	f := storagetest.OpenFile(t, s, "/scan", storage.Create)
	require.NoError(t, f.CreateDataset("/", "x", dtype.Int16, []uint64{4}))
	require.NoError(t, f.Close())

	boom := errors.New("device unplugged")
	s.SetFail(func(path string, op Op) error {
		if op == OpReadSlab {
			return boom
		}
		return nil
	})

	f = storagetest.OpenFile(t, s, "/scan", storage.ReadOnly)
	require.NoError(t, f.OpenGroupPath("/"))
	require.NoError(t, f.OpenDataset("x"))
	_, err := f.ReadSlab([]uint64{0}, []uint64{1})
	assert.ErrorIs(t, err, boom)
	require.NoError(t, f.Close())

	s.SetFail(func(path string, op Op) error {
		if op == OpOpen {
			return boom
		}
		return nil
	})
	_, err = s.Open("/scan", storage.ReadOnly)
	assert.ErrorIs(t, err, boom)

	s.SetFail(nil)
	opens, closes := s.Stats()
	assert.Equal(t, 2, opens)
	assert.Equal(t, 2, closes)
}

func TestGrowPreservesData(t *testing.T) {
	s := New()
	f := storagetest.OpenFile(t, s, "/scan", storage.Create)
	defer f.Close()
	require.NoError(t, f.CreateDataset("/", "x", dtype.Int16, []uint64{2, 2}, storage.WithMaxDims(0, 0)))
	require.NoError(t, f.OpenDataset("x"))
	require.NoError(t, f.WriteSlab([]uint64{0, 0}, []uint64{2, 2}, storagetest.Int16s(1, 2, 3, 4)))

	require.NoError(t, f.WriteSlab([]uint64{2, 2}, []uint64{1, 1}, storagetest.Int16s(9)))
	dims, _, err := f.ShapeAndType()
	require.NoError(t, err)
	assert.Equal(t, []uint64{3, 3}, dims)

	raw, err := f.ReadSlab([]uint64{0, 0}, []uint64{3, 3})
	require.NoError(t, err)
	assert.Equal(t, storagetest.Int16s(1, 2, 0, 3, 4, 0, 0, 0, 9), raw)
	assert.True(t, s.Exists("/scan"))
	assert.False(t, s.Exists("/other"))
}
