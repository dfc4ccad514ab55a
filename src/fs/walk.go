package fs

import (
	"os"

	"github.com/karrick/godirwalk"
)

// Walk implements an equivalent to filepath.Walk.
// It's implemented over github.com/karrick/godirwalk for speed, but the provided
// interface doesn't expose that to make it a little easier to handle.
func Walk(rootPath string, callback func(name string, isDir bool) error) error {
	// Compatibility with filepath.Walk which allows passing a file as the root argument.
	if info, err := os.Lstat(rootPath); err != nil {
		return err
	} else if !info.IsDir() {
		return callback(rootPath, false)
	}
	return godirwalk.Walk(rootPath, &godirwalk.Options{Callback: func(name string, info *godirwalk.Dirent) error {
		return callback(name, info.IsDir())
	}})
}
