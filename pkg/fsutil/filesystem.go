//go:generate mockgen -destination=./mocks/filesystem.go -package mocks . FileSystem

package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// FileSystem is the directory-level view of the disk the addon manager needs.
type FileSystem interface {
	// DirExists reports whether path exists and is a directory.
	DirExists(path string) bool
	// CreateDirectory creates path and any missing parents.
	CreateDirectory(path string) error
	// ListDirectories returns the immediate subdirectories of path, joined
	// onto path and sorted by name.
	ListDirectories(path string) ([]string, error)
}

// BillyFileSystem implements FileSystem on top of a go-billy filesystem.
type BillyFileSystem struct {
	bfs     billy.Filesystem
	absolve bool
}

// NewOSFileSystem returns a FileSystem over the host disk.
// Relative paths are resolved against the current working directory.
func NewOSFileSystem() *BillyFileSystem {
	return &BillyFileSystem{bfs: osfs.New("/"), absolve: true}
}

// NewFileSystem wraps an arbitrary billy filesystem, such as memfs in tests.
// Paths are passed through unchanged.
func NewFileSystem(bfs billy.Filesystem) *BillyFileSystem {
	return &BillyFileSystem{bfs: bfs}
}

func (f *BillyFileSystem) resolve(path string) (string, error) {
	if !f.absolve {
		return path, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return abs, nil
}

// DirExists reports whether path exists and is a directory.
func (f *BillyFileSystem) DirExists(path string) bool {
	resolved, err := f.resolve(path)
	if err != nil {
		return false
	}
	info, err := f.bfs.Stat(resolved)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// CreateDirectory creates path and any missing parents with DirModeDefault.
func (f *BillyFileSystem) CreateDirectory(path string) error {
	resolved, err := f.resolve(path)
	if err != nil {
		return err
	}
	if err := f.bfs.MkdirAll(resolved, os.FileMode(DirModeDefault)); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

// ListDirectories returns the immediate subdirectories of path.
// Returned entries keep the caller's form of path as their prefix.
func (f *BillyFileSystem) ListDirectories(path string) ([]string, error) {
	resolved, err := f.resolve(path)
	if err != nil {
		return nil, err
	}
	infos, err := f.bfs.ReadDir(resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to list directory %s: %w", path, err)
	}

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		if info.IsDir() {
			names = append(names, info.Name())
		}
	}
	sort.Strings(names)

	dirs := make([]string, 0, len(names))
	for _, name := range names {
		dirs = append(dirs, filepath.Join(path, name))
	}
	return dirs, nil
}
