package classification

import (
	"sync"

	"github.com/Veraticus/industry-atlas/internal/model"
)

// Cache memoizes bucketing for the most recent record set. A different
// record set, by content, replaces the cached result.
type Cache struct {
	classifier *Classifier
	buckets    *Buckets
	key        string
	hits       int
	misses     int
	mu         sync.Mutex
}

// NewCache creates an empty cache around classifier.
func NewCache(classifier *Classifier) *Cache {
	return &Cache{classifier: classifier}
}

// Classifier returns the classifier the cache buckets with.
func (c *Cache) Classifier() *Classifier {
	return c.classifier
}

// Buckets returns the partition of records, recomputing it only when records
// differ from the previous call.
func (c *Cache) Buckets(records []model.ClassificationRecord) *Buckets {
	key := model.HashRecords(records)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.buckets != nil && c.key == key {
		c.hits++
		return c.buckets
	}

	c.misses++
	c.buckets = c.classifier.Bucket(records)
	c.key = key
	return c.buckets
}

// Invalidate drops the cached partition.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buckets = nil
	c.key = ""
}

// Stats reports cache hits and misses.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
