package cache

import (
	"sync"

	"github.com/arloliu/gridmask/format"
	"github.com/arloliu/gridmask/grid"
)

// DefaultMemoryEntries is the capacity of a MemoryCache created with a non-positive size.
const DefaultMemoryEntries = 64

// MemoryCache is a bounded in-process cache. When full, the oldest entry is evicted.
type MemoryCache struct {
	mu          sync.Mutex
	entries     map[uint64][]byte
	order       []uint64
	maxEntries  int
	compression format.CompressionType
	bytes       int
}

var _ Cache = (*MemoryCache)(nil)

// NewMemoryCache creates a cache holding at most maxEntries grids compressed with compression.
func NewMemoryCache(maxEntries int, compression format.CompressionType) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMemoryEntries
	}

	return &MemoryCache{
		entries:     make(map[uint64][]byte, maxEntries),
		order:       make([]uint64, 0, maxEntries),
		maxEntries:  maxEntries,
		compression: compression,
	}
}

// Get implements Cache. The returned grid is a fresh copy.
func (c *MemoryCache) Get(key uint64) (*grid.Grid, bool, error) {
	c.mu.Lock()
	blob, ok := c.entries[key]
	c.mu.Unlock()
	if !ok {
		return nil, false, nil
	}

	g, err := grid.Unmarshal(blob)
	if err != nil {
		return nil, false, err
	}

	return g, true, nil
}

// Put implements Cache.
func (c *MemoryCache) Put(key uint64, g *grid.Grid) error {
	blob, err := grid.Marshal(g, c.compression)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, exists := c.entries[key]; exists {
		c.bytes -= len(old)
	} else {
		if len(c.order) >= c.maxEntries {
			oldest := c.order[0]
			c.order = c.order[1:]
			c.bytes -= len(c.entries[oldest])
			delete(c.entries, oldest)
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = blob
	c.bytes += len(blob)

	return nil
}

// Len returns the number of cached grids.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Size returns the total size of the stored blobs in bytes.
func (c *MemoryCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.bytes
}
