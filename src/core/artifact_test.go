package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainArtifact(t *testing.T) {
	a := NewArtifact("lib/app.a")
	assert.Equal(t, "lib/app.a", a.ExecPath())
	assert.False(t, a.IsTree())
	assert.False(t, a.IsSource())
	assert.Nil(t, a.Parent())
}

func TestSourceArtifact(t *testing.T) {
	a := NewSourceArtifact("src/main.go")
	assert.True(t, a.IsSource())
}

func TestTreeMember(t *testing.T) {
	tree := NewTreeArtifact("out/dir")
	m := tree.Member("nested/file.txt")
	assert.Equal(t, "out/dir/nested/file.txt", m.ExecPath())
	assert.False(t, m.IsTree())
	assert.Equal(t, tree, m.Parent())
}

func TestMemberOfNonTreePanics(t *testing.T) {
	assert.Panics(t, func() {
		NewArtifact("lib/app.a").Member("file.txt")
	})
}
