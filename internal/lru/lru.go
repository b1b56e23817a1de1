// Package lru is a size bounded cache whose entries also expire after a
// fixed time to live.
package lru

import (
	"container/list"
	"sync"
	"time"
)

// EvictCallback is used to get a callback when a cache entry is evicted
type EvictCallback[K comparable, V any] func(key K, value V)

// LRU is safe for concurrent use. Eviction callbacks run after the lock is
// released.
type LRU[K comparable, V any] struct {
	mu      sync.Mutex
	size    int
	ttl     time.Duration
	ll      *list.List
	items   map[K]*list.Element
	onEvict EvictCallback[K, V]
	now     func() time.Time
}

type entry[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time
}

// NewLRU returns a cache holding at most size entries. A zero ttl never
// expires entries.
func NewLRU[K comparable, V any](size int, onEvict EvictCallback[K, V], ttl time.Duration) *LRU[K, V] {
	if size <= 0 {
		size = 1
	}
	return &LRU[K, V]{
		size:    size,
		ttl:     ttl,
		ll:      list.New(),
		items:   make(map[K]*list.Element),
		onEvict: onEvict,
		now:     time.Now,
	}
}

func (c *LRU[K, V]) expired(e *entry[K, V]) bool {
	return c.ttl > 0 && c.now().After(e.expiresAt)
}

// Add adds a value to the cache. Returns true if an eviction occurred.
func (c *LRU[K, V]) Add(key K, value V) (evicted bool) {
	var gone []*entry[K, V]
	defer func() { c.notify(gone) }()

	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(c.ttl)
	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry[K, V])
		e.value, e.expiresAt = value, expiresAt
		c.ll.MoveToBack(el)
		return false
	}

	c.items[key] = c.ll.PushBack(&entry[K, V]{key: key, value: value, expiresAt: expiresAt})
	for c.ll.Len() > c.size {
		gone = append(gone, c.removeElement(c.ll.Front()))
		evicted = true
	}
	return evicted
}

// Get looks up a key's value and marks it as recently used.
func (c *LRU[K, V]) Get(key K) (value V, ok bool) {
	var gone []*entry[K, V]
	defer func() { c.notify(gone) }()

	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return value, false
	}
	e := el.Value.(*entry[K, V])
	if c.expired(e) {
		gone = append(gone, c.removeElement(el))
		return value, false
	}
	c.ll.MoveToBack(el)
	return e.value, true
}

// Remove removes the provided key from the cache, returning if the
// key was contained.
func (c *LRU[K, V]) Remove(key K) bool {
	var gone []*entry[K, V]
	defer func() { c.notify(gone) }()

	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if ok {
		gone = append(gone, c.removeElement(el))
	}
	return ok
}

// Keys returns the live keys, from oldest to newest.
func (c *LRU[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]K, 0, c.ll.Len())
	for el := c.ll.Front(); el != nil; el = el.Next() {
		if e := el.Value.(*entry[K, V]); !c.expired(e) {
			keys = append(keys, e.key)
		}
	}
	return keys
}

// Len returns the number of entries, expired ones included.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// Purge removes every entry.
func (c *LRU[K, V]) Purge() {
	var gone []*entry[K, V]
	defer func() { c.notify(gone) }()

	c.mu.Lock()
	defer c.mu.Unlock()
	for el := c.ll.Front(); el != nil; el = c.ll.Front() {
		gone = append(gone, c.removeElement(el))
	}
}

func (c *LRU[K, V]) removeElement(el *list.Element) *entry[K, V] {
	e := c.ll.Remove(el).(*entry[K, V])
	delete(c.items, e.key)
	return e
}

func (c *LRU[K, V]) notify(gone []*entry[K, V]) {
	if c.onEvict == nil {
		return
	}
	for _, e := range gone {
		c.onEvict(e.key, e.value)
	}
}
