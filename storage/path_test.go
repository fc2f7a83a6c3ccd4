package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitPath(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{"/", []string{}},
		{"", []string{}},
		{"/foo", []string{"foo"}},
		{"/foo/bar", []string{"foo", "bar"}},
		{"foo//bar/", []string{"foo", "bar"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SplitPath(tt.path), tt.path)
	}
}

func TestCleanPath(t *testing.T) {
	assert.Equal(t, "/", CleanPath(""))
	assert.Equal(t, "/", CleanPath("//"))
	assert.Equal(t, "/entry1/data", CleanPath("entry1/data/"))
	assert.Equal(t, "/a/b", CleanPath("/a//b"))
}

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "/x", JoinPath("/", "x"))
	assert.Equal(t, "/entry1/x", JoinPath("entry1/", "x"))
}

func TestValidName(t *testing.T) {
	assert.NoError(t, ValidName("data"))
	for _, bad := range []string{"", "a/b", ".dataset", "x\x00"} {
		assert.ErrorIs(t, ValidName(bad), ErrInvalidPath, "%q", bad)
	}
	assert.NoError(t, ValidPath("/entry1/instrument"))
	assert.ErrorIs(t, ValidPath("/entry1/.hidden"), ErrInvalidPath)
}
