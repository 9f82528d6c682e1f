package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type document struct {
	Name   string    `json:"name"`
	Points []float64 `json:"points"`
}

func newTestCache(now *time.Time) *Cache {
	c := NewCache()
	c.now = func() time.Time { return *now }
	return c
}

func TestCache_SetGet(t *testing.T) {
	c := NewCache()
	require.NoError(t, c.Set("sample", document{Name: "a", Points: []float64{1, 2}}, time.Minute, "test"))

	var got document
	found, err := c.Get("sample", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, document{Name: "a", Points: []float64{1, 2}}, got)

	found, err = c.Get("missing", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCache_GetReturnsPrivateCopies(t *testing.T) {
	c := NewCache()
	require.NoError(t, c.Set("sample", document{Points: []float64{1, 2}}, 0, "test"))

	var first, second document
	_, _ = c.Get("sample", &first)
	first.Points[0] = 99
	_, _ = c.Get("sample", &second)
	assert.Equal(t, 1.0, second.Points[0])
}

func TestCache_Expiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	c := newTestCache(&now)

	require.NoError(t, c.Set("short", document{Name: "short"}, time.Minute, "test"))
	require.NoError(t, c.Set("forever", document{Name: "forever"}, 0, "test"))
	assert.Equal(t, Stats{TotalEntries: 2, FreshEntries: 2}, c.Stats())

	now = now.Add(2 * time.Minute)

	var got document
	found, _ := c.Get("short", &got)
	assert.False(t, found)
	found, _ = c.Get("forever", &got)
	assert.True(t, found)
	assert.Equal(t, "forever", got.Name)

	assert.Equal(t, Stats{TotalEntries: 2, FreshEntries: 1, StaleEntries: 1}, c.Stats())
	assert.Equal(t, 1, c.CleanupStale())
	assert.Equal(t, Stats{TotalEntries: 1, FreshEntries: 1}, c.Stats())
}

func TestCache_SetRejectsUnencodable(t *testing.T) {
	c := NewCache()
	assert.Error(t, c.Set("bad", make(chan int), time.Minute, "test"))
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := NewCache()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = c.Set("k", document{Name: "x"}, time.Minute, "test")
			var d document
			_, _ = c.Get("k", &d)
			_ = c.Stats()
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, c.Stats().FreshEntries)
}
