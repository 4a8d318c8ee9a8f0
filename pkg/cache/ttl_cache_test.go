package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestGetSetExpire(t *testing.T) {
	c := New[string, int](time.Minute, time.Hour)
	defer c.Close()

	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set("a", 1)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("a")
	assert.False(t, ok)

	c.evictExpired()
	assert.Zero(t, c.Len())
}

func TestUpdate(t *testing.T) {
	c := New[string, int](time.Minute, time.Hour)
	defer c.Close()

	got := c.Update("n", func(cur int, exists bool) (int, bool) {
		assert.False(t, exists)
		return cur + 1, true
	})
	assert.Equal(t, 1, got)

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Update("n", func(cur int, _ bool) (int, bool) { return cur + 1, true })
		}()
	}
	wg.Wait()

	v, _ := c.Get("n")
	assert.Equal(t, 51, v)

	c.Update("n", func(cur int, _ bool) (int, bool) { return cur, false })
	_, ok := c.Get("n")
	assert.False(t, ok)
}

func TestDeleteFuncAndClose(t *testing.T) {
	c := New[string, int](time.Minute, time.Hour)
	c.Set("a:1", 1)
	c.Set("a:2", 2)
	c.Set("b:1", 3)

	c.DeleteFunc(func(k string) bool { return k[0] == 'a' })
	assert.Equal(t, 1, c.Len())

	c.Close()
	c.Close()
}
