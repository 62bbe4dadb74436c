// internal/cache/cache.go
package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/law-makers/pricecrawl/pkg/models"
)

// Cache stores fetched documents for the lifetime of a run.
type Cache interface {
	// Get returns the cached document for key and whether it was found.
	Get(key string) (string, bool)

	// Set stores a document under key for ttl, evicting older entries if needed.
	Set(key string, html string, ttl time.Duration)

	// Close stops background cleanup.
	Close()
}

type cacheEntry struct {
	HTML      string
	ExpiresAt time.Time
	Key       string
}

// MemoryCache is an in-memory LRU cache bounded by total document size
type MemoryCache struct {
	store   map[string]*list.Element
	lruList *list.List
	mu      sync.Mutex
	maxSize int64 // bytes
	size    int64 // bytes
	ctx     context.Context
	cancel  context.CancelFunc
	hits    uint64
	misses  uint64
}

// NewMemoryCache creates a new in-memory cache with LRU eviction
func NewMemoryCache(maxSizeBytes int64) *MemoryCache {
	if maxSizeBytes <= 0 {
		maxSizeBytes = 64 * 1024 * 1024
	}

	ctx, cancel := context.WithCancel(context.Background())

	cache := &MemoryCache{
		store:   make(map[string]*list.Element),
		lruList: list.New(),
		maxSize: maxSizeBytes,
		ctx:     ctx,
		cancel:  cancel,
	}

	go cache.cleanupExpired()

	return cache
}

// Key builds the cache key for a document fetched with mode
func Key(mode models.FetchMode, url string) string {
	return string(mode) + "::" + url
}

// Get retrieves a cached document and marks it most recently used
func (mc *MemoryCache) Get(key string) (string, bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	element, exists := mc.store[key]
	if !exists {
		mc.misses++
		return "", false
	}

	entry := element.Value.(*cacheEntry)
	if time.Now().After(entry.ExpiresAt) {
		mc.misses++
		mc.removeElement(element)
		return "", false
	}

	mc.lruList.MoveToFront(element)
	mc.hits++
	return entry.HTML, true
}

// Set stores a document in cache with TTL
func (mc *MemoryCache) Set(key string, html string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	size := int64(len(html))
	if size > mc.maxSize {
		return
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()

	if element, exists := mc.store[key]; exists {
		mc.removeElement(element)
	}

	for mc.size+size > mc.maxSize && mc.lruList.Len() > 0 {
		mc.removeElement(mc.lruList.Back())
	}

	element := mc.lruList.PushFront(&cacheEntry{
		HTML:      html,
		ExpiresAt: time.Now().Add(ttl),
		Key:       key,
	})
	mc.store[key] = element
	mc.size += size
}

// Close stops the background cleanup goroutine
func (mc *MemoryCache) Close() {
	mc.cancel()
}

// Len returns the number of cached documents
func (mc *MemoryCache) Len() int {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.lruList.Len()
}

// Stats returns hit and miss counters
func (mc *MemoryCache) Stats() (hits, misses uint64) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.hits, mc.misses
}

// removeElement must be called with the lock held
func (mc *MemoryCache) removeElement(element *list.Element) {
	entry := element.Value.(*cacheEntry)
	mc.lruList.Remove(element)
	delete(mc.store, entry.Key)
	mc.size -= int64(len(entry.HTML))
}

func (mc *MemoryCache) cleanupExpired() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			mc.mu.Lock()
			now := time.Now()
			var next *list.Element
			for element := mc.lruList.Front(); element != nil; element = next {
				next = element.Next()
				if now.After(element.Value.(*cacheEntry).ExpiresAt) {
					mc.removeElement(element)
				}
			}
			mc.mu.Unlock()
		case <-mc.ctx.Done():
			return
		}
	}
}
