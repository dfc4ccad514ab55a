package fs

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "sub", "dir", "file.txt")
	err := WriteFile(bytes.NewReader([]byte("hello")), filename, 0644)
	assert.NoError(t, err)
	contents, err := os.ReadFile(filename)
	assert.NoError(t, err)
	assert.Equal(t, []byte("hello"), contents)
}

func TestWriteFileOverwrites(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "file.txt")
	assert.NoError(t, WriteFile(bytes.NewReader([]byte("one")), filename, 0644))
	assert.NoError(t, WriteFile(bytes.NewReader([]byte("two")), filename, 0644))
	contents, err := os.ReadFile(filename)
	assert.NoError(t, err)
	assert.Equal(t, []byte("two"), contents)
}

func TestEnsureDir(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "a", "b", "c.txt")
	assert.NoError(t, EnsureDir(filename))
	assert.True(t, PathExists(filepath.Dir(filename)))
	assert.False(t, PathExists(filename))
}

func TestWalk(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, WriteFile(bytes.NewReader(nil), filepath.Join(dir, "a/1.txt"), 0644))
	assert.NoError(t, WriteFile(bytes.NewReader(nil), filepath.Join(dir, "b/2.txt"), 0644))
	files := []string{}
	err := Walk(dir, func(name string, isDir bool) error {
		if !isDir {
			rel, _ := filepath.Rel(dir, name)
			files = append(files, rel)
		}
		return nil
	})
	assert.NoError(t, err)
	sort.Strings(files)
	assert.Equal(t, []string{"a/1.txt", "b/2.txt"}, files)
}

func TestWalkFileRoot(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "file.txt")
	assert.NoError(t, WriteFile(bytes.NewReader(nil), filename, 0644))
	count := 0
	err := Walk(filename, func(name string, isDir bool) error {
		count++
		assert.False(t, isDir)
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}
