package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/ifctree/pkg/ifc/relations"
	"github.com/matzehuels/ifctree/pkg/props"
	"github.com/matzehuels/ifctree/pkg/store/memory"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newStore(ttl time.Duration) (*Store, *clock) {
	c := &clock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	s := NewStore(ttl)
	s.now = c.now
	return s, c
}

func materializer() *props.Materializer {
	return props.NewMaterializer(memory.New(), relations.NewIndex(), props.Options{})
}

func TestCreateAndGet(t *testing.T) {
	s, _ := newStore(time.Minute)
	m := materializer()
	sess := s.Create(m)

	_, err := uuid.Parse(sess.ID)
	require.NoError(t, err, "session IDs are UUIDs")

	got, err := s.Get(sess.ID)
	require.NoError(t, err)
	assert.Same(t, m, got.Materializer)
	assert.Equal(t, 1, s.Len())

	_, err = s.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExpiry(t *testing.T) {
	s, c := newStore(time.Minute)
	sess := s.Create(materializer())

	c.advance(50 * time.Second)
	_, err := s.Get(sess.ID)
	require.NoError(t, err, "access refreshes the deadline")

	c.advance(50 * time.Second)
	_, err = s.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, c.now(), sess.LastSeen())

	c.advance(2 * time.Minute)
	_, err = s.Get(sess.ID)
	assert.ErrorIs(t, err, ErrExpired)
	assert.Equal(t, 0, s.Len(), "expired session is removed on access")
}

func TestZeroTTLNeverExpires(t *testing.T) {
	s, c := newStore(0)
	sess := s.Create(materializer())
	c.advance(1000 * time.Hour)
	_, err := s.Get(sess.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0, s.Sweep())
}

func TestSweep(t *testing.T) {
	s, c := newStore(time.Minute)
	old := s.Create(materializer())
	c.advance(45 * time.Second)
	fresh := s.Create(materializer())
	c.advance(30 * time.Second)

	assert.Equal(t, 1, s.Sweep())
	_, err := s.Get(old.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(fresh.ID)
	assert.NoError(t, err)
}

func TestDelete(t *testing.T) {
	s, _ := newStore(time.Minute)
	sess := s.Create(materializer())
	require.NoError(t, s.Delete(sess.ID))
	assert.ErrorIs(t, s.Delete(sess.ID), ErrNotFound)
}

func TestRunStopsOnCancel(t *testing.T) {
	s := NewStore(time.Nanosecond)
	s.Create(materializer())

	ctx, cancel := context.WithCancel(context.Background())
	swept := make(chan int, 16)
	done := make(chan struct{})
	go func() {
		s.Run(ctx, time.Millisecond, func(n int) {
			select {
			case swept <- n:
			default:
			}
		})
		close(done)
	}()

	deadline := time.After(5 * time.Second)
	for total := 0; total < 1; {
		select {
		case n := <-swept:
			total += n
		case <-deadline:
			t.Fatal("sweep never removed the session")
		}
	}
	cancel()
	<-done
	assert.Equal(t, 0, s.Len())
}
