// Package assets resolves and caches files from an ordered list of search
// roots, such as directories on disk and embedded file systems.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
)

// ErrNotFound is returned when no root contains the requested file.
var ErrNotFound = errors.New("asset not found")

// root is one search location. dir is set for roots backed by an OS
// directory so that paths can be resolved for file watching.
type root struct {
	fsys fs.FS
	dir  string
}

// Manager loads files from its roots. Roots added later take priority.
type Manager struct {
	roots []root
	cache *Cache
	mu    sync.RWMutex
}

// NewManager creates a manager with no roots.
func NewManager() *Manager {
	return &Manager{
		cache: NewCache(),
	}
}

// AddDir adds a directory on disk as a search root.
func (m *Manager) AddDir(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving asset dir %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("adding asset dir %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("adding asset dir %s: not a directory", dir)
	}

	m.mu.Lock()
	m.roots = append(m.roots, root{fsys: os.DirFS(abs), dir: abs})
	m.mu.Unlock()
	return nil
}

// AddFS adds a file system, typically embedded, as a search root.
func (m *Manager) AddFS(fsys fs.FS) {
	m.mu.Lock()
	m.roots = append(m.roots, root{fsys: fsys})
	m.mu.Unlock()
}

// Load returns the contents of name from the highest priority root that
// has it. Results are cached until Invalidate.
func (m *Manager) Load(name string) ([]byte, error) {
	key, err := clean(name)
	if err != nil {
		return nil, err
	}
	if data, ok := m.cache.Get(key); ok {
		return data, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.roots) - 1; i >= 0; i-- {
		data, err := fs.ReadFile(m.roots[i].fsys, key)
		if err == nil {
			m.cache.Set(key, data)
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// LoadString is Load for text assets.
func (m *Manager) LoadString(name string) (string, error) {
	data, err := m.Load(name)
	return string(data), err
}

// Resolve returns the OS path of name when it is served from a directory
// root. Files found only in embedded roots report false.
func (m *Manager) Resolve(name string) (string, bool) {
	key, err := clean(name)
	if err != nil {
		return "", false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.roots) - 1; i >= 0; i-- {
		r := m.roots[i]
		if _, err := fs.Stat(r.fsys, key); err != nil {
			continue
		}
		if r.dir == "" {
			return "", false
		}
		return filepath.Join(r.dir, filepath.FromSlash(key)), true
	}
	return "", false
}

// Invalidate drops a cached file so the next Load reads it again. The
// name may be an asset name or an OS path returned by Resolve.
func (m *Manager) Invalidate(name string) {
	m.mu.RLock()
	for _, r := range m.roots {
		if r.dir == "" {
			continue
		}
		if rel, err := filepath.Rel(r.dir, name); err == nil && !strings.HasPrefix(rel, "..") {
			name = filepath.ToSlash(rel)
			break
		}
	}
	m.mu.RUnlock()

	if key, err := clean(name); err == nil {
		m.cache.Delete(key)
	}
}

// Stats returns cache statistics.
func (m *Manager) Stats() (hits, misses int) {
	return m.cache.Stats()
}

// Close drops all roots and cached data.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roots = nil
	m.cache.Clear()
}

func clean(name string) (string, error) {
	key := path.Clean(filepath.ToSlash(name))
	key = strings.TrimPrefix(key, "./")
	if !fs.ValidPath(key) {
		return "", fmt.Errorf("invalid asset name %q", name)
	}
	return key, nil
}

// Cache is a simple in-memory cache for loaded assets.
type Cache struct {
	data map[string][]byte
	mu   sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Delete removes one item.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
