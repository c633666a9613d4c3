// Package mocks provides test doubles for the ports interfaces.
package mocks

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/felixgeelhaar/plugwire/internal/ports"
)

// FileSystem is a thread-safe in-memory ports.FileSystem. Adding a file
// implicitly adds every parent directory.
type FileSystem struct {
	mu    sync.RWMutex
	files map[string][]byte
	dirs  map[string]bool
	reads []string
}

// NewFileSystem creates an empty FileSystem containing only the root.
func NewFileSystem() *FileSystem {
	return &FileSystem{
		files: make(map[string][]byte),
		dirs:  map[string]bool{string(filepath.Separator): true},
	}
}

// AddFile adds a file and its parent directories.
func (m *FileSystem) AddFile(path string, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	m.files[path] = []byte(content)
	m.addParents(path)
}

// AddDir adds a directory and its parents.
func (m *FileSystem) AddDir(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	m.dirs[path] = true
	m.addParents(path)
}

func (m *FileSystem) addParents(path string) {
	for dir := filepath.Dir(path); !m.dirs[dir]; dir = filepath.Dir(dir) {
		m.dirs[dir] = true
	}
}

// ReadFile returns the content of a file. Missing files yield an error
// wrapping fs.ErrNotExist.
func (m *FileSystem) ReadFile(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	m.reads = append(m.reads, path)
	if content, ok := m.files[path]; ok {
		return append([]byte(nil), content...), nil
	}
	if m.dirs[path] {
		return nil, fmt.Errorf("read %s: is a directory", path)
	}
	return nil, fmt.Errorf("open %s: %w", path, fs.ErrNotExist)
}

// Exists reports whether path is a known file or directory.
func (m *FileSystem) Exists(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	path = filepath.Clean(path)
	_, isFile := m.files[path]
	return isFile || m.dirs[path]
}

// IsDir reports whether path is a known directory.
func (m *FileSystem) IsDir(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dirs[filepath.Clean(path)]
}

// GetFileInfo returns metadata about a file or directory.
func (m *FileSystem) GetFileInfo(path string) (ports.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	path = filepath.Clean(path)

	if content, ok := m.files[path]; ok {
		return ports.FileInfo{
			Size:    int64(len(content)),
			Mode:    0o644,
			ModTime: time.Now(),
		}, nil
	}

	if m.dirs[path] {
		return ports.FileInfo{
			Mode:    fs.ModeDir | 0o755,
			ModTime: time.Now(),
			IsDir:   true,
		}, nil
	}

	return ports.FileInfo{}, fmt.Errorf("stat %s: %w", path, fs.ErrNotExist)
}

// Reads returns the paths passed to ReadFile, in call order.
func (m *FileSystem) Reads() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.reads...)
}

var _ ports.FileSystem = (*FileSystem)(nil)
