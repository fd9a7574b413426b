// Package build runs the one-shot compile pipeline: scan, per-component
// validate and minify, assemble the loader, encode the bookmarklet URI, and
// emit artifacts.
package build

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/conneroisu/marklet/internal/types"
)

// ResultCache caches compiled components with LRU eviction and TTL. Keys
// combine the component's content hash with an options fingerprint, so a
// minify toggle or allow-list change never serves stale sections.
type ResultCache struct {
	entries     map[string]*cacheEntry
	mutex       sync.Mutex
	maxSize     int64
	currentSize int64 // Track current size for O(1) access
	ttl         time.Duration
	// LRU implementation
	head *cacheEntry
	tail *cacheEntry
	// Statistics tracking (atomic for thread safety)
	hits      int64
	misses    int64
	sets      int64
	evictions int64
}

type cacheEntry struct {
	key        string
	value      *types.CompiledComponent
	createdAt  time.Time
	accessedAt time.Time
	size       int64
	// LRU doubly-linked list pointers
	prev *cacheEntry
	next *cacheEntry
}

// NewResultCache creates a compile result cache bounded by total compiled
// bytes and entry age.
func NewResultCache(maxSize int64, ttl time.Duration) *ResultCache {
	cache := &ResultCache{
		entries: make(map[string]*cacheEntry),
		maxSize: maxSize,
		ttl:     ttl,
	}

	// Initialize LRU doubly-linked list with dummy head and tail
	cache.head = &cacheEntry{}
	cache.tail = &cacheEntry{}
	cache.head.next = cache.tail
	cache.tail.prev = cache.head

	return cache
}

// Get retrieves a compiled component from the cache.
func (rc *ResultCache) Get(key string) (*types.CompiledComponent, bool) {
	rc.mutex.Lock()
	defer rc.mutex.Unlock()

	entry, exists := rc.entries[key]
	if !exists {
		atomic.AddInt64(&rc.misses, 1)
		return nil, false
	}

	// Check TTL
	if time.Since(entry.createdAt) > rc.ttl {
		rc.removeFromList(entry)
		delete(rc.entries, key)
		rc.currentSize -= entry.size
		atomic.AddInt64(&rc.misses, 1)
		return nil, false
	}

	// Move to front (mark as recently used)
	rc.moveToFront(entry)
	entry.accessedAt = time.Now()
	atomic.AddInt64(&rc.hits, 1)
	return entry.value, true
}

// Set stores a compiled component in the cache.
func (rc *ResultCache) Set(key string, value *types.CompiledComponent) {
	size := int64(value.CompiledSize())

	rc.mutex.Lock()
	defer rc.mutex.Unlock()

	// Check if entry already exists
	if existing, exists := rc.entries[key]; exists {
		rc.currentSize += size - existing.size
		existing.value = value
		existing.accessedAt = time.Now()
		existing.size = size
		rc.moveToFront(existing)
		atomic.AddInt64(&rc.sets, 1)
		return
	}

	// Check if we need to evict old entries
	rc.evictIfNeeded(size)

	entry := &cacheEntry{
		key:        key,
		value:      value,
		createdAt:  time.Now(),
		accessedAt: time.Now(),
		size:       size,
	}

	rc.entries[key] = entry
	rc.currentSize += entry.size
	rc.addToFront(entry)
	atomic.AddInt64(&rc.sets, 1)
}

// evictIfNeeded evicts entries if the cache would exceed max size
func (rc *ResultCache) evictIfNeeded(newSize int64) {
	if rc.currentSize+newSize <= rc.maxSize {
		return
	}

	// Efficient LRU eviction - remove from tail (least recently used)
	for rc.currentSize+newSize > rc.maxSize && rc.tail.prev != rc.head {
		lru := rc.tail.prev
		rc.removeFromList(lru)
		delete(rc.entries, lru.key)
		rc.currentSize -= lru.size
		atomic.AddInt64(&rc.evictions, 1)
	}
}

// Clear clears all cache entries and resets statistics
func (rc *ResultCache) Clear() {
	rc.mutex.Lock()
	defer rc.mutex.Unlock()

	rc.entries = make(map[string]*cacheEntry)
	rc.currentSize = 0

	// Reset LRU list
	rc.head.next = rc.tail
	rc.tail.prev = rc.head

	// Reset statistics
	atomic.StoreInt64(&rc.hits, 0)
	atomic.StoreInt64(&rc.misses, 0)
	atomic.StoreInt64(&rc.sets, 0)
	atomic.StoreInt64(&rc.evictions, 0)
}

// Stats returns entry count, current byte size, and max byte size.
func (rc *ResultCache) Stats() (int, int64, int64) {
	rc.mutex.Lock()
	defer rc.mutex.Unlock()

	return len(rc.entries), rc.currentSize, rc.maxSize
}

// Hits returns the number of cache hits since creation or Clear.
func (rc *ResultCache) Hits() int64 {
	return atomic.LoadInt64(&rc.hits)
}

// Misses returns the number of cache misses since creation or Clear.
func (rc *ResultCache) Misses() int64 {
	return atomic.LoadInt64(&rc.misses)
}

// Evictions returns the number of LRU evictions since creation or Clear.
func (rc *ResultCache) Evictions() int64 {
	return atomic.LoadInt64(&rc.evictions)
}

// HitRate returns the fraction of lookups served from cache.
func (rc *ResultCache) HitRate() float64 {
	hits := atomic.LoadInt64(&rc.hits)
	misses := atomic.LoadInt64(&rc.misses)
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

// LRU doubly-linked list operations
func (rc *ResultCache) addToFront(entry *cacheEntry) {
	entry.prev = rc.head
	entry.next = rc.head.next
	rc.head.next.prev = entry
	rc.head.next = entry
}

func (rc *ResultCache) removeFromList(entry *cacheEntry) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
}

func (rc *ResultCache) moveToFront(entry *cacheEntry) {
	rc.removeFromList(entry)
	rc.addToFront(entry)
}
