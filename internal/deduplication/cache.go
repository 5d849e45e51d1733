package deduplication

import (
	"fmt"
	"sync"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// Key identifies one note destined for one webhook from one origin server.
type Key struct {
	WebhookID uint64
	Origin    string
	NoteID    string
}

type Result int

const (
	Fresh Result = iota
	Duplicate
)

func (r Result) String() string {
	switch r {
	case Fresh:
		return "fresh"
	case Duplicate:
		return "duplicate"
	default:
		return fmt.Sprintf("Result(%d)", int(r))
	}
}

// Cache is a bounded LRU set of note keys. Entries leave only under capacity
// pressure; there is no age-based expiry.
type Cache struct {
	mu       sync.Mutex
	lru      *simplelru.LRU[Key, struct{}]
	capacity int
}

func NewCache(capacity int) (*Cache, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("dedup cache capacity must be positive, got %d", capacity)
	}

	lru, err := simplelru.NewLRU[Key, struct{}](capacity, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create lru: %w", err)
	}

	return &Cache{
		lru:      lru,
		capacity: capacity,
	}, nil
}

// CheckAndInsert records key and reports whether it was already resident.
// A resident key is moved to the most-recently-used position and reported as
// Duplicate. An absent key is inserted, evicting the least-recently-used entry
// when the cache is full, and reported as Fresh.
func (c *Cache) CheckAndInsert(key Key) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.lru.Contains(key) {
		c.lru.Get(key)
		return Duplicate
	}

	c.lru.Add(key, struct{}{})
	return Fresh
}

// Contains reports residency without touching recency.
func (c *Cache) Contains(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Contains(key)
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

func (c *Cache) Capacity() int {
	return c.capacity
}
