package cache_test

import (
	"sync"
	"testing"
	"time"

	"github.com/dom/kanban-board/internal/cache"
	"github.com/dom/kanban-board/internal/clock"
	"github.com/stretchr/testify/assert"
)

func TestTTL_GetSet(t *testing.T) {
	clk := clock.NewMock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	c := cache.NewTTL[int64, string](6*time.Hour, clk)

	_, ok := c.Get(1)
	assert.False(t, ok, "empty cache should miss")

	c.Set(1, "stamp-a")
	v, ok := c.Get(1)
	assert.True(t, ok)
	assert.Equal(t, "stamp-a", v)

	clk.Advance(6*time.Hour - time.Second)
	_, ok = c.Get(1)
	assert.True(t, ok, "entry should survive until the ttl elapses")

	clk.Advance(time.Second)
	_, ok = c.Get(1)
	assert.False(t, ok, "entry should expire exactly at the ttl")
	assert.Equal(t, 0, c.Len())
}

func TestTTL_SetRefreshesExpiry(t *testing.T) {
	clk := clock.NewMock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	c := cache.NewTTL[int64, string](time.Hour, clk)

	c.Set(7, "old")
	clk.Advance(50 * time.Minute)
	c.Set(7, "new")
	clk.Advance(50 * time.Minute)

	v, ok := c.Get(7)
	assert.True(t, ok)
	assert.Equal(t, "new", v)
}

func TestTTL_DeleteAndPurge(t *testing.T) {
	clk := clock.NewMock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	c := cache.NewTTL[int64, string](time.Hour, clk)

	c.Set(1, "a")
	c.Set(2, "b")
	c.Delete(1)
	_, ok := c.Get(1)
	assert.False(t, ok)

	clk.Advance(30 * time.Minute)
	c.Set(3, "c")
	clk.Advance(30 * time.Minute)

	assert.Equal(t, 1, c.Purge())
	_, ok = c.Get(3)
	assert.True(t, ok)
}

func TestTTL_Concurrent(t *testing.T) {
	c := cache.NewTTL[int, int](time.Minute, clock.System())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Set(i%5, i)
			c.Get(i % 5)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 5, c.Len())
}
