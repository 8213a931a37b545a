package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestLimiter_CeilingThenReject(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	l := New(3, time.Minute, WithClock(clock.now))

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("client-a"), "request %d should be admitted", i)
	}
	assert.False(t, l.Allow("client-a"))
	assert.False(t, l.Allow("client-a"))
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	l := New(1, time.Minute, WithClock(clock.now))

	assert.True(t, l.Allow("client-a"))
	assert.False(t, l.Allow("client-a"))
	assert.True(t, l.Allow("client-b"))
}

func TestLimiter_WindowElapsesAndAdmissionResumes(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	l := New(2, time.Minute, WithClock(clock.now))

	assert.True(t, l.Allow("client-a"))
	assert.True(t, l.Allow("client-a"))
	assert.False(t, l.Allow("client-a"))

	// Just inside the window: still rejected.
	clock.advance(59 * time.Second)
	assert.False(t, l.Allow("client-a"))

	// Past the window: the old admissions fall out of the log.
	clock.advance(2 * time.Second)
	assert.True(t, l.Allow("client-a"))
}

func TestLimiter_RejectionsLeaveNoTrace(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	l := New(1, time.Minute, WithClock(clock.now))

	assert.True(t, l.Allow("client-a"))
	for i := 0; i < 100; i++ {
		assert.False(t, l.Allow("client-a"))
	}

	// One window after the single admission, the client is clean again; the
	// rejected attempts must not have extended the lockout.
	clock.advance(61 * time.Second)
	assert.True(t, l.Allow("client-a"))
}

func TestLimiter_SlidingWindow(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	l := New(2, time.Minute, WithClock(clock.now))

	assert.True(t, l.Allow("client-a"))
	clock.advance(40 * time.Second)
	assert.True(t, l.Allow("client-a"))
	assert.False(t, l.Allow("client-a"))

	// 25s later the first admission is out of the trailing window, the second
	// is still inside it.
	clock.advance(25 * time.Second)
	assert.True(t, l.Allow("client-a"))
	assert.False(t, l.Allow("client-a"))
}

func TestLimiter_EvictsIdleClients(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	l := New(2, time.Minute, WithClock(clock.now))

	assert.True(t, l.Allow("client-a"))
	assert.True(t, l.Allow("client-b"))

	// Two windows later both logs have aged out entirely; the next request
	// sweeps the idle clients instead of retaining their entries forever.
	clock.advance(2 * time.Minute)
	assert.True(t, l.Allow("client-c"))

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Len(t, l.hits, 1)
	assert.Contains(t, l.hits, "client-c")
}

func TestLimiter_NonPositiveArgumentsFallBack(t *testing.T) {
	l := New(0, 0)
	assert.Equal(t, DefaultCeiling, l.ceiling)
	assert.Equal(t, DefaultWindow, l.window)
}
