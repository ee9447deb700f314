package xacro

import (
	"container/list"
	"os"
	"sync"
)

// DocumentCache caches parsed document trees by file path, so that batch
// runs expanding the same source with different presets parse it once.
// Cached trees are pristine; Load hands out deep copies because the
// collection pass mutates its input.
type DocumentCache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	lru     *list.List
	maxSize int
}

type cacheEntry struct {
	path    string
	root    *Node
	element *list.Element
}

// NewDocumentCache creates a cache holding at most maxSize parsed
// documents. A maxSize of 0 disables caching.
func NewDocumentCache(maxSize int) *DocumentCache {
	return &DocumentCache{
		entries: make(map[string]*cacheEntry),
		lru:     list.New(),
		maxSize: maxSize,
	}
}

// Load returns the parsed tree for a file, reading and parsing it on a
// cache miss.
func (dc *DocumentCache) Load(path string) (*Node, error) {
	if dc.maxSize == 0 {
		return parseFile(path)
	}

	dc.mu.Lock()
	if entry, ok := dc.entries[path]; ok {
		dc.lru.MoveToFront(entry.element)
		root := entry.root.Clone()
		dc.mu.Unlock()
		return root, nil
	}
	dc.mu.Unlock()

	root, err := parseFile(path)
	if err != nil {
		return nil, err
	}

	dc.mu.Lock()
	defer dc.mu.Unlock()

	if dc.lru.Len() >= dc.maxSize {
		oldest := dc.lru.Back()
		if oldest != nil {
			evicted := oldest.Value.(*cacheEntry)
			dc.lru.Remove(oldest)
			delete(dc.entries, evicted.path)
		}
	}

	entry := &cacheEntry{path: path, root: root}
	entry.element = dc.lru.PushFront(entry)
	dc.entries[path] = entry

	return root.Clone(), nil
}

// Remove drops a cached document.
func (dc *DocumentCache) Remove(path string) {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	if entry, ok := dc.entries[path]; ok {
		dc.lru.Remove(entry.element)
		delete(dc.entries, path)
	}
}

// Clear empties the cache.
func (dc *DocumentCache) Clear() {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	dc.entries = make(map[string]*cacheEntry)
	dc.lru.Init()
}

// Len returns the number of cached documents.
func (dc *DocumentCache) Len() int {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	return dc.lru.Len()
}

func parseFile(path string) (*Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, NewDocumentError("read", path, err)
	}
	defer f.Close()
	return ParseDocument(f)
}
