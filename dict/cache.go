package dict

import (
	"os"
	"sync"

	"github.com/speldict/aspellgo/errs"
	"github.com/speldict/aspellgo/langdata"
	"github.com/speldict/aspellgo/soundslike"
)

// identity is the canonical key a ReadOnlyDict is interned under: the
// (device, inode) pair when the platform reports one, otherwise the
// cleaned file path.
type identity struct {
	device, inode uint64
	path          string
}

// Cache interns ReadOnlyDicts by canonical file identity so that multiple
// Spellers opening the same compiled dictionary share one loaded copy.
// Protected by a single mutex: loads are rare relative to lookups, and
// lookups against an already-cached dict never touch the cache.
type Cache struct {
	mu      sync.Mutex
	entries map[identity]*cacheEntry
}

type cacheEntry struct {
	dict     *ReadOnlyDict
	refcount int
}

// NewCache returns an empty dictionary cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[identity]*cacheEntry)}
}

// Get loads (or returns the already-cached) ReadOnlyDict at path,
// incrementing its refcount. Callers must call Release with the same path
// when done.
func (c *Cache) Get(path string, lang *langdata.Language, sl soundslike.Transform) (*ReadOnlyDict, error) {
	id, err := identityOf(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if e, ok := c.entries[id]; ok {
		e.refcount++
		c.mu.Unlock()
		return e.dict, nil
	}
	c.mu.Unlock()

	d, err := Load(path, lang, sl)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[id]; ok {
		// another goroutine raced us to load the same file; keep the
		// winner and drop ours.
		e.refcount++
		return e.dict, nil
	}
	c.entries[id] = &cacheEntry{dict: d, refcount: 1}
	return d, nil
}

// Release decrements path's refcount, evicting it from the cache at zero.
func (c *Cache) Release(path string) {
	id, err := identityOf(path)
	if err != nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	if !ok {
		return
	}
	e.refcount--
	if e.refcount <= 0 {
		delete(c.entries, id)
	}
}

func identityOf(path string) (identity, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return identity{}, errs.Wrap(errs.IO, err, "statting dictionary file")
	}
	if dev, ino, ok := statIdentity(fi); ok {
		return identity{device: dev, inode: ino}, nil
	}
	return identity{path: path}, nil
}

// defaultOnce/defaultCache implement the "never silently reinitialize"
// process-wide singleton described in the language cache: the first
// caller to ask for the default dictionary cache wins.
var (
	defaultOnce  sync.Once
	defaultCache *Cache
)

// Default returns the process-wide dictionary cache, creating it on first
// use.
func Default() *Cache {
	defaultOnce.Do(func() {
		defaultCache = NewCache()
	})
	return defaultCache
}
