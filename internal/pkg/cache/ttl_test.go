package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock - управляемые часы для детерминированных тестов TTL
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Unix(1000, 0)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = f.t.Add(d)
}

func TestTTLCache_SetGet(t *testing.T) {
	clk := newFakeClock()
	c := New[string](10*time.Second, 10)
	c.now = clk.Now

	c.Set("key", "value")

	got, ok := c.Get("key")
	assert.True(t, ok)
	assert.Equal(t, "value", got)

	// Через 11 секунд запись истекла
	clk.Advance(11 * time.Second)
	_, ok = c.Get("key")
	assert.False(t, ok)
}

func TestTTLCache_GetRemovesExpiredEntry(t *testing.T) {
	clk := newFakeClock()
	c := New[string](10*time.Second, 10)
	c.now = clk.Now

	c.Set("key", "value")
	assert.Equal(t, 1, c.Len())

	clk.Advance(11 * time.Second)
	_, ok := c.Get("key")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "expired entry should be removed on access")
}

func TestTTLCache_EvictsClosestToExpiry(t *testing.T) {
	clk := newFakeClock()
	c := New[string](100*time.Second, 2)
	c.now = clk.Now

	c.Set("a", "one")
	clk.Advance(1 * time.Second)
	c.Set("b", "two")
	clk.Advance(1 * time.Second)
	c.Set("c", "three")

	// "a" имеет наименьший expiresAt и вытесняется первым
	_, ok := c.Get("a")
	assert.False(t, ok)

	got, ok := c.Get("b")
	assert.True(t, ok)
	assert.Equal(t, "two", got)

	got, ok = c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, "three", got)
}

func TestTTLCache_NeverExceedsMaxSize(t *testing.T) {
	clk := newFakeClock()
	const maxSize = 5
	c := New[int](time.Minute, maxSize)
	c.now = clk.Now

	for i := 0; i < 50; i++ {
		c.Set(fmt.Sprintf("key-%d", i), i)
		assert.LessOrEqual(t, c.Len(), maxSize, "size must never exceed maxSize after Set")
		clk.Advance(time.Millisecond)
	}
}

func TestTTLCache_SetPurgesExpiredBeforeEvicting(t *testing.T) {
	clk := newFakeClock()
	c := New[string](10*time.Second, 2)
	c.now = clk.Now

	c.Set("stale", "old")
	clk.Advance(1 * time.Second)
	c.Set("fresh", "kept")

	// "stale" истекает, место освобождается без вытеснения "fresh"
	clk.Advance(10 * time.Second)
	c.Set("new", "value")

	_, ok := c.Get("stale")
	assert.False(t, ok)

	got, ok := c.Get("fresh")
	assert.True(t, ok)
	assert.Equal(t, "kept", got)

	got, ok = c.Get("new")
	assert.True(t, ok)
	assert.Equal(t, "value", got)
}

func TestTTLCache_SetOverwritesExistingKey(t *testing.T) {
	clk := newFakeClock()
	c := New[string](10*time.Second, 2)
	c.now = clk.Now

	c.Set("key", "first")
	c.Set("key", "second")

	got, ok := c.Get("key")
	assert.True(t, ok)
	assert.Equal(t, "second", got)
	assert.Equal(t, 1, c.Len())
}

func TestTTLCache_StructValues(t *testing.T) {
	type result struct {
		Name string
		Dist float64
	}

	clk := newFakeClock()
	c := New[[]result](time.Minute, 4)
	c.now = clk.Now

	c.Set("search", []result{{Name: "cafe", Dist: 12.5}})

	got, ok := c.Get("search")
	assert.True(t, ok)
	assert.Len(t, got, 1)
	assert.Equal(t, "cafe", got[0].Name)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestTTLCache_ConcurrentAccess(t *testing.T) {
	const maxSize = 8
	c := New[int](time.Minute, maxSize)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("key-%d", (g+i)%16)
				c.Set(key, i)
				c.Get(key)
			}
		}(g)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), maxSize)
}

func TestKey(t *testing.T) {
	tests := []struct {
		name     string
		parts    []interface{}
		expected string
	}{
		{
			name:     "strings and numbers",
			parts:    []interface{}{"geocode", "london"},
			expected: "geocode|london",
		},
		{
			name:     "mixed search parameters",
			parts:    []interface{}{"search", "51.507322", "-0.127647", "cafe", 1500, 20},
			expected: "search|51.507322|-0.127647|cafe|1500|20",
		},
		{
			name:     "empty optional fields keep their position",
			parts:    []interface{}{"search", "cafe", "", "", "false"},
			expected: "search|cafe|||false",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Key(tt.parts...))
		})
	}
}
