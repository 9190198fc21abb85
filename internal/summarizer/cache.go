package summarizer

import (
	"container/list"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"
)

// Cached wraps a Summarizer with a content-addressed LRU so repeated
// summarization of identical text is answered without a second model call.
// This keeps the pipeline idempotent and the provider bill flat for repeats.
type Cached struct {
	inner Summarizer
	cache *summaryCache
	ttl   time.Duration
}

func NewCached(inner Summarizer, maxEntries int, ttl time.Duration) *Cached {
	return &Cached{
		inner: inner,
		cache: newSummaryCache(maxEntries),
		ttl:   ttl,
	}
}

func (c *Cached) Summarize(ctx context.Context, input Input) (string, error) {
	key := cacheKey(input.Text)
	now := time.Now()

	if summary, ok := c.cache.get(key, now); ok {
		return summary, nil
	}

	summary, err := c.inner.Summarize(ctx, input)
	if err != nil {
		return "", err
	}

	c.cache.set(key, summary, now.Add(c.ttl), now)

	return summary, nil
}

func cacheKey(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	sum := sha256.Sum256([]byte(text))

	return hex.EncodeToString(sum[:])
}

type summaryCache struct {
	mu         sync.Mutex
	entries    map[string]*list.Element
	order      *list.List
	maxEntries int
}

type summaryCacheEntry struct {
	key       string
	summary   string
	expiresAt time.Time
}

func newSummaryCache(maxEntries int) *summaryCache {
	if maxEntries <= 0 {
		return nil
	}

	return &summaryCache{
		entries:    make(map[string]*list.Element, maxEntries),
		order:      list.New(),
		maxEntries: maxEntries,
	}
}

func (c *summaryCache) get(key string, now time.Time) (string, bool) {
	if c == nil || key == "" {
		return "", false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return "", false
	}

	entry := elem.Value.(*summaryCacheEntry)
	if now.After(entry.expiresAt) {
		c.removeElement(elem)

		return "", false
	}

	c.order.MoveToFront(elem)

	return entry.summary, true
}

func (c *summaryCache) set(key, summary string, expiresAt, now time.Time) {
	if c == nil || key == "" || summary == "" || !expiresAt.After(now) {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		entry := elem.Value.(*summaryCacheEntry)
		entry.summary = summary
		entry.expiresAt = expiresAt
		c.order.MoveToFront(elem)

		return
	}

	c.entries[key] = c.order.PushFront(&summaryCacheEntry{
		key:       key,
		summary:   summary,
		expiresAt: expiresAt,
	})

	c.evictExpiredLocked(now)
	for len(c.entries) > c.maxEntries {
		oldest := c.order.Back()
		if oldest == nil {
			return
		}
		c.removeElement(oldest)
	}
}

func (c *summaryCache) evictExpiredLocked(now time.Time) {
	for elem := c.order.Back(); elem != nil; {
		prev := elem.Prev()
		if entry := elem.Value.(*summaryCacheEntry); now.After(entry.expiresAt) {
			c.removeElement(elem)
		}
		elem = prev
	}
}

func (c *summaryCache) removeElement(elem *list.Element) {
	delete(c.entries, elem.Value.(*summaryCacheEntry).key)
	c.order.Remove(elem)
}
