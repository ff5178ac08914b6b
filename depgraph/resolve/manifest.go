package resolve

import (
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

const manifestName = "package.json"

// manifest is a parsed package.json. Fields are read lazily through gjson,
// which iterates object keys in document order as condition matching requires.
type manifest struct {
	dir  string
	root gjson.Result
}

func (m *manifest) name() string {
	return m.field("name").String()
}

func (m *manifest) field(name string) gjson.Result {
	var found gjson.Result
	m.root.ForEach(func(key, value gjson.Result) bool {
		if key.String() == name {
			found = value
			return false
		}
		return true
	})
	return found
}

// manifestCache loads each package.json at most once per resolver. Missing
// and malformed manifests are cached as nil.
type manifestCache struct {
	fsys   FileSystem
	stats  *statCache
	logger logrus.FieldLogger

	mu        sync.Mutex
	manifests map[string]*manifest
}

func newManifestCache(fsys FileSystem, stats *statCache, logger logrus.FieldLogger) *manifestCache {
	return &manifestCache{fsys: fsys, stats: stats, logger: logger, manifests: make(map[string]*manifest)}
}

func (c *manifestCache) load(dir string) *manifest {
	dir = filepath.Clean(dir)

	c.mu.Lock()
	m, ok := c.manifests[dir]
	c.mu.Unlock()
	if ok {
		return m
	}

	m = c.read(dir)

	c.mu.Lock()
	c.manifests[dir] = m
	c.mu.Unlock()
	return m
}

func (c *manifestCache) read(dir string) *manifest {
	path := filepath.Join(dir, manifestName)
	if !c.stats.isFile(path) {
		return nil
	}
	content, err := c.fsys.ReadFile(path)
	if err != nil {
		c.logger.WithError(err).WithField("manifest", path).Warn("failed to read package manifest")
		return nil
	}
	if !gjson.ValidBytes(content) || !gjson.ParseBytes(content).IsObject() {
		c.logger.WithField("manifest", path).Warn("ignoring malformed package manifest")
		return nil
	}
	return &manifest{dir: dir, root: gjson.ParseBytes(content)}
}

// nearest returns the closest manifest at or above dir.
func (c *manifestCache) nearest(dir string) *manifest {
	for current := filepath.Clean(dir); ; current = filepath.Dir(current) {
		if m := c.load(current); m != nil {
			return m
		}
		if filepath.Dir(current) == current {
			return nil
		}
	}
}
