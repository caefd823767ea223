package workbench

import (
	"crypto/sha256"
	"encoding/binary"
	"sync"
)

// ResultCache memoizes property-check responses keyed by a hash of the
// input net. Repeated checks of the same net (a UI re-requesting analysis
// after cosmetic edits) skip graph construction entirely. Eviction is
// FIFO by insertion order.
type ResultCache struct {
	mu      sync.RWMutex
	cache   map[string]RGResponse
	order   []string
	maxSize int
	hits    int64
	misses  int64
}

// NewResultCache creates a cache with the specified maximum size.
// Set maxSize to 0 for an unlimited cache.
func NewResultCache(maxSize int) *ResultCache {
	return &ResultCache{
		cache:   make(map[string]RGResponse),
		maxSize: maxSize,
	}
}

// hashNet creates a deterministic key over the marking and both matrices.
func hashNet(marking []int16, inputs, outputs [][]int16) string {
	h := sha256.New()
	buf := make([]byte, 2)

	writeVec := func(v []int16) {
		for _, x := range v {
			binary.BigEndian.PutUint16(buf, uint16(x))
			h.Write(buf)
		}
	}
	writeMatrix := func(m [][]int16) {
		binary.BigEndian.PutUint16(buf, uint16(len(m)))
		h.Write(buf)
		for _, row := range m {
			writeVec(row)
		}
	}

	writeVec(marking)
	writeMatrix(inputs)
	writeMatrix(outputs)
	return string(h.Sum(nil))
}

// Get retrieves a cached response for the given net.
func (c *ResultCache) Get(marking []int16, inputs, outputs [][]int16) (RGResponse, bool) {
	key := hashNet(marking, inputs, outputs)

	c.mu.Lock()
	defer c.mu.Unlock()

	if response, ok := c.cache[key]; ok {
		c.hits++
		return response, true
	}
	c.misses++
	return RGResponse{}, false
}

// Put stores a response, evicting the oldest entry when full.
func (c *ResultCache) Put(marking []int16, inputs, outputs [][]int16, response RGResponse) {
	key := hashNet(marking, inputs, outputs)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.cache[key]; exists {
		c.cache[key] = response
		return
	}
	if c.maxSize > 0 && len(c.cache) >= c.maxSize {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.cache, oldest)
	}
	c.cache[key] = response
	c.order = append(c.order, key)
}

// Size returns the current number of cached entries.
func (c *ResultCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// Stats reports cache effectiveness.
type Stats struct {
	Size    int
	MaxSize int
	Hits    int64
	Misses  int64
	HitRate float64
}

// Stats returns cache statistics.
func (c *ResultCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := c.hits + c.misses
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}
	return Stats{
		Size:    len(c.cache),
		MaxSize: c.maxSize,
		Hits:    c.hits,
		Misses:  c.misses,
		HitRate: hitRate,
	}
}
