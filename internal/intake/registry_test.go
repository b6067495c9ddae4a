package intake

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestRegistryBindAndReset(t *testing.T) {
	w, _ := newTestWorkflow(&fakeGenerator{count: 1}, &memoryLog{})
	r := NewRegistry(w, time.Hour)

	first, created := r.Bind("tg-1")
	assert.True(t, created)
	again, created := r.Bind("tg-1")
	assert.False(t, created)
	assert.Same(t, first, again)

	fresh := r.Reset("tg-1")
	assert.NotSame(t, first, fresh)
	assert.NotEqual(t, first.ID, fresh.ID)
	assert.Equal(t, 1, r.Len())
}

func TestRegistryDo(t *testing.T) {
	w, _ := newTestWorkflow(&fakeGenerator{count: 1}, &memoryLog{})
	r := NewRegistry(w, time.Hour)
	s := r.Create()

	var seen string
	require.NoError(t, r.Do(s.ID, func(got *Session) error {
		seen = got.ID
		return nil
	}))
	assert.Equal(t, s.ID, seen)

	assert.ErrorIs(t, r.Do("missing", func(*Session) error { return nil }), ErrUnknownSession)
}

func TestRegistryDoSerializesSession(t *testing.T) {
	w, _ := newTestWorkflow(&fakeGenerator{count: 1}, &memoryLog{})
	r := NewRegistry(w, time.Hour)
	s := r.Create()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.Do(s.ID, func(s *Session) error {
				s.Cursor++
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, s.Cursor)
}

func TestRegistryCleanup(t *testing.T) {
	clock := &testClock{now: time.Unix(1700000000, 0)}
	w, _ := newTestWorkflow(&fakeGenerator{count: 1}, &memoryLog{}, WithClock(clock.Now))
	r := NewRegistry(w, 24*time.Hour)

	idle := r.Create()
	active := r.Create()

	clock.Advance(23 * time.Hour)
	require.NoError(t, r.Do(active.ID, func(*Session) error { return nil }))

	clock.Advance(2 * time.Hour)
	assert.Equal(t, 1, r.Cleanup())
	assert.ErrorIs(t, r.Do(idle.ID, func(*Session) error { return nil }), ErrUnknownSession)
	assert.NoError(t, r.Do(active.ID, func(*Session) error { return nil }))
}

func TestRegistryCleanupDisabled(t *testing.T) {
	w, _ := newTestWorkflow(&fakeGenerator{count: 1}, &memoryLog{})
	r := NewRegistry(w, 0)
	r.Create()
	assert.Equal(t, 0, r.Cleanup())
	assert.Equal(t, 1, r.Len())
}
