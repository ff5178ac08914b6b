package resolve

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileSystem is the read-only view of the disk the resolvers probe. Tests and
// hosts with virtual files can substitute their own.
type FileSystem interface {
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
}

// OSFileSystem reads from the real filesystem.
type OSFileSystem struct{}

func (OSFileSystem) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

func (OSFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

type entryKind uint8

const (
	entryMissing entryKind = iota
	entryFile
	entryDir
)

// statCache memoizes Stat results for the lifetime of one resolver.
type statCache struct {
	fsys    FileSystem
	mu      sync.Mutex
	entries map[string]entryKind
}

func newStatCache(fsys FileSystem) *statCache {
	return &statCache{fsys: fsys, entries: make(map[string]entryKind)}
}

func (c *statCache) kind(path string) entryKind {
	path = filepath.Clean(path)

	c.mu.Lock()
	kind, ok := c.entries[path]
	c.mu.Unlock()
	if ok {
		return kind
	}

	kind = entryMissing
	if info, err := c.fsys.Stat(path); err == nil {
		if info.IsDir() {
			kind = entryDir
		} else {
			kind = entryFile
		}
	}

	c.mu.Lock()
	c.entries[path] = kind
	c.mu.Unlock()
	return kind
}

func (c *statCache) isFile(path string) bool {
	return c.kind(path) == entryFile
}

func (c *statCache) isDir(path string) bool {
	return c.kind(path) == entryDir
}
