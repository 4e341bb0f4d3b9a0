package handle

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type freeCounter struct {
	mu    sync.Mutex
	freed map[uintptr]int
}

func newFreeCounter() *freeCounter {
	return &freeCounter{freed: make(map[uintptr]int)}
}

func (f *freeCounter) free(raw uintptr) {
	f.mu.Lock()
	f.freed[raw]++
	f.mu.Unlock()
}

func (f *freeCounter) count(raw uintptr) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.freed[raw]
}

func TestAcquireRejectsNull(t *testing.T) {
	tok, err := Acquire[uintptr](0, func(uintptr) { t.Fatal("free called for null handle") })
	require.ErrorIs(t, err, ErrNullHandle)
	assert.Nil(t, tok)
}

func TestUseSeesRawHandle(t *testing.T) {
	fc := newFreeCounter()
	tok, err := Acquire[uintptr](0x10, fc.free)
	require.NoError(t, err)
	defer tok.Drop()

	var got uintptr
	require.NoError(t, tok.Use(func(raw uintptr) { got = raw }))
	assert.Equal(t, uintptr(0x10), got)
}

func TestLastDropFreesOnce(t *testing.T) {
	fc := newFreeCounter()
	a, err := Acquire[uintptr](0x20, fc.free)
	require.NoError(t, err)
	b, err := a.Clone()
	require.NoError(t, err)
	assert.True(t, Same(a, b))
	assert.Equal(t, 2, a.Refs())

	a.Drop()
	assert.Equal(t, 0, fc.count(0x20), "handle freed while a clone is alive")
	assert.False(t, b.Released())

	b.Drop()
	assert.Equal(t, 1, fc.count(0x20))
	assert.True(t, b.Released())

	// Repeated drops on the same token do not touch the group again.
	a.Drop()
	b.Drop()
	assert.Equal(t, 1, fc.count(0x20))
}

func TestDroppedTokenRejectsUse(t *testing.T) {
	fc := newFreeCounter()
	a, err := Acquire[uintptr](0x30, fc.free)
	require.NoError(t, err)
	b, err := a.Clone()
	require.NoError(t, err)
	defer b.Drop()

	a.Drop()
	assert.True(t, a.Dropped())
	assert.ErrorIs(t, a.Use(func(uintptr) {}), ErrReleased)
	_, err = a.Clone()
	assert.ErrorIs(t, err, ErrReleased)

	// The surviving owner is unaffected.
	assert.NoError(t, b.Use(func(uintptr) {}))
}

func TestUseSerializesAccess(t *testing.T) {
	fc := newFreeCounter()
	root, err := Acquire[uintptr](0x40, fc.free)
	require.NoError(t, err)

	const workers = 16
	var (
		inside  atomic.Int32
		overlap atomic.Bool
		wg      sync.WaitGroup
	)
	for i := 0; i < workers; i++ {
		tok, err := root.Clone()
		require.NoError(t, err)
		wg.Add(1)
		go func(tok *Token[uintptr]) {
			defer wg.Done()
			defer tok.Drop()
			for j := 0; j < 200; j++ {
				_ = tok.Use(func(uintptr) {
					if inside.Add(1) != 1 {
						overlap.Store(true)
					}
					inside.Add(-1)
				})
			}
		}(tok)
	}
	wg.Wait()
	assert.False(t, overlap.Load(), "two goroutines held the handle at once")

	root.Drop()
	assert.Equal(t, 1, fc.count(0x40))
}

func TestConcurrentCloneAndDrop(t *testing.T) {
	for round := 0; round < 50; round++ {
		fc := newFreeCounter()
		raw := uintptr(0x1000 + round)
		root, err := Acquire(raw, fc.free)
		require.NoError(t, err)

		clones := make(chan *Token[uintptr], 64)
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			tok, err := root.Clone()
			require.NoError(t, err)
			wg.Add(1)
			go func(tok *Token[uintptr]) {
				defer wg.Done()
				for j := 0; j < 4; j++ {
					c, err := tok.Clone()
					if err != nil {
						return
					}
					clones <- c
				}
				tok.Drop()
			}(tok)
		}
		root.Drop()
		wg.Wait()
		close(clones)

		var drops sync.WaitGroup
		for c := range clones {
			drops.Add(1)
			go func(c *Token[uintptr]) {
				defer drops.Done()
				c.Drop()
			}(c)
		}
		drops.Wait()
		require.Equal(t, 1, fc.count(raw), "round %d", round)
	}
}

// The group frees exactly once, and only after every owner has dropped, for
// any interleaving of clone and drop operations.
func TestOwnershipProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		fc := newFreeCounter()
		first, err := Acquire[uintptr](0x99, fc.free)
		if err != nil {
			rt.Fatalf("acquire: %v", err)
		}
		live := []*Token[uintptr]{first}

		steps := rapid.IntRange(1, 60).Draw(rt, "steps")
		for i := 0; i < steps && len(live) > 0; i++ {
			idx := rapid.IntRange(0, len(live)-1).Draw(rt, "idx")
			if rapid.Bool().Draw(rt, "clone") {
				c, err := live[idx].Clone()
				if err != nil {
					rt.Fatalf("clone of live token failed: %v", err)
				}
				live = append(live, c)
			} else {
				live[idx].Drop()
				live = append(live[:idx], live[idx+1:]...)
			}

			want := 0
			if len(live) == 0 {
				want = 1
			}
			if got := fc.count(0x99); got != want {
				rt.Fatalf("after %d steps with %d owners: freed %d times", i+1, len(live), got)
			}
		}
		for _, tok := range live {
			tok.Drop()
		}
		if got := fc.count(0x99); got != 1 {
			rt.Fatalf("freed %d times after draining", got)
		}
	})
}
