package core

import (
	"fmt"
	"path"
)

// An Artifact identifies a single input or output of the build graph.
// It carries a reference to the file (its path relative to the execution root)
// rather than the file's contents; whether the bytes behind it ever reach local
// disk is decided elsewhere.
//
// Artifacts come in three flavours: plain files, tree artifacts (directory-shaped
// outputs whose contents are unknown until the producing action has run) and tree
// members, which belong to a parent tree and inherit decisions made about it.
type Artifact struct {
	path   string
	parent *Artifact
	tree   bool
	source bool
}

// NewArtifact returns a generated file artifact at the given exec-relative path.
func NewArtifact(execPath string) *Artifact {
	return &Artifact{path: execPath}
}

// NewSourceArtifact returns an artifact representing a file from the source tree.
// Source files always exist locally so are never candidates for remote materialization.
func NewSourceArtifact(execPath string) *Artifact {
	return &Artifact{path: execPath, source: true}
}

// NewTreeArtifact returns a tree artifact at the given exec-relative path.
func NewTreeArtifact(execPath string) *Artifact {
	return &Artifact{path: execPath, tree: true}
}

// Member returns the artifact for a file inside this tree artifact.
// It panics if called on anything other than a tree.
func (a *Artifact) Member(relPath string) *Artifact {
	if !a.tree {
		panic(fmt.Sprintf("Artifact %s is not a tree", a.path))
	}
	return &Artifact{path: path.Join(a.path, relPath), parent: a}
}

// ExecPath returns the artifact's path relative to the execution root.
func (a *Artifact) ExecPath() string {
	return a.path
}

// IsTree returns true if this artifact is a tree artifact.
func (a *Artifact) IsTree() bool {
	return a.tree
}

// IsSource returns true if this artifact is a source file rather than a generated one.
func (a *Artifact) IsSource() bool {
	return a.source
}

// Parent returns the tree artifact this artifact is a member of, or nil for
// artifacts that are independently addressable.
func (a *Artifact) Parent() *Artifact {
	return a.parent
}

func (a *Artifact) String() string {
	return a.path
}
