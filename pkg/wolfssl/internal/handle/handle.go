// Package handle implements reference-counted, mutex-guarded ownership of raw
// engine handles.
//
// Every Token in a sharing group points at the same group record. All access
// to the raw value, every Clone and the final free run under the group's
// mutex, so a clone can never observe a freed handle and the free function
// runs exactly once.
package handle

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
)

var (
	// ErrNullHandle reports that the engine returned a zero handle.
	ErrNullHandle = errors.New("wolfssl/internal/handle: null handle")
	// ErrReleased reports use of a token that has already been dropped.
	ErrReleased = errors.New("wolfssl/internal/handle: token released")
)

type group[T comparable] struct {
	mu       sync.Mutex
	raw      T
	refs     int
	released bool
	free     func(T)
}

// Token is one owner of a raw handle.
type Token[T comparable] struct {
	g       *group[T]
	dropped atomic.Bool
}

// Acquire takes ownership of a freshly allocated raw handle. free is invoked
// once, under the group lock, when the last token of the group is dropped.
func Acquire[T comparable](raw T, free func(T)) (*Token[T], error) {
	var zero T
	if raw == zero {
		return nil, ErrNullHandle
	}
	g := &group[T]{raw: raw, refs: 1, free: free}
	return newToken(g), nil
}

func newToken[T comparable](g *group[T]) *Token[T] {
	t := &Token[T]{g: g}
	runtime.SetFinalizer(t, (*Token[T]).Drop)
	return t
}

// Use runs fn with the raw handle while holding the group lock.
func (t *Token[T]) Use(fn func(raw T)) error {
	if t == nil || t.dropped.Load() {
		return ErrReleased
	}
	g := t.g
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.released {
		return ErrReleased
	}
	fn(g.raw)
	runtime.KeepAlive(t)
	return nil
}

// Clone adds a new owner to the sharing group.
func (t *Token[T]) Clone() (*Token[T], error) {
	if t == nil || t.dropped.Load() {
		return nil, ErrReleased
	}
	g := t.g
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.released {
		return nil, ErrReleased
	}
	g.refs++
	runtime.KeepAlive(t)
	return newToken(g), nil
}

// Drop releases this owner. The owner that brings the count to zero frees the
// raw handle before the lock is released. Dropping a token twice is a no-op.
func (t *Token[T]) Drop() {
	if t == nil || !t.dropped.CompareAndSwap(false, true) {
		return
	}
	runtime.SetFinalizer(t, nil)

	g := t.g
	g.mu.Lock()
	defer g.mu.Unlock()
	g.refs--
	if g.refs == 0 && !g.released {
		g.released = true
		if g.free != nil {
			g.free(g.raw)
		}
		var zero T
		g.raw = zero
	}
}

// Refs returns the number of live owners in the sharing group.
func (t *Token[T]) Refs() int {
	g := t.g
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.refs
}

// Released reports whether the raw handle has been freed.
func (t *Token[T]) Released() bool {
	g := t.g
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.released
}

// Dropped reports whether this particular token has been dropped.
func (t *Token[T]) Dropped() bool {
	return t.dropped.Load()
}

// Same reports whether a and b belong to the same sharing group.
func Same[T comparable](a, b *Token[T]) bool {
	return a != nil && b != nil && a.g == b.g
}
