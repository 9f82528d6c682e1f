package cache

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Cache is a thread-safe in-memory TTL cache. Values are stored as JSON, so
// every Get decodes a private copy and callers never share mutable state.
type Cache struct {
	entries map[string]*Entry
	mutex   sync.RWMutex
	now     func() time.Time
}

// Entry is a cached value with its metadata
type Entry struct {
	Key       string        `json:"key"`
	Data      []byte        `json:"data"`
	CreatedAt time.Time     `json:"created_at"`
	ExpiresAt time.Time     `json:"expires_at"`
	TTL       time.Duration `json:"ttl"`
	Source    string        `json:"source"`
}

// Stats summarizes cache contents
type Stats struct {
	TotalEntries int
	FreshEntries int
	StaleEntries int
}

// NewCache creates an empty cache
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]*Entry),
		now:     time.Now,
	}
}

// Set stores value under key for ttl. A non-positive ttl never expires.
func (c *Cache) Set(key string, value interface{}, ttl time.Duration, source string) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal data for cache: %w", err)
	}

	now := c.now()
	entry := &Entry{
		Key:       key,
		Data:      data,
		CreatedAt: now,
		TTL:       ttl,
		Source:    source,
	}
	if ttl > 0 {
		entry.ExpiresAt = now.Add(ttl)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.entries[key] = entry
	return nil
}

// Get decodes the fresh value under key into result
func (c *Cache) Get(key string, result interface{}) (bool, error) {
	c.mutex.RLock()
	entry, exists := c.entries[key]
	c.mutex.RUnlock()

	if !exists || c.expired(entry) {
		return false, nil
	}

	if err := json.Unmarshal(entry.Data, result); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached data: %w", err)
	}
	return true, nil
}

// Stats returns cache statistics
func (c *Cache) Stats() Stats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	stats := Stats{TotalEntries: len(c.entries)}
	for _, entry := range c.entries {
		if c.expired(entry) {
			stats.StaleEntries++
		} else {
			stats.FreshEntries++
		}
	}
	return stats
}

// CleanupStale removes expired entries and returns how many were dropped
func (c *Cache) CleanupStale() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	removed := 0
	for key, entry := range c.entries {
		if c.expired(entry) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

func (c *Cache) expired(entry *Entry) bool {
	return !entry.ExpiresAt.IsZero() && c.now().After(entry.ExpiresAt)
}
