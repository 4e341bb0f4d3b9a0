package backend

import "sync"

// registry maps the opaque handle values handed to Go callers onto native
// pointers. Handles start at 1 so the zero value always means "no handle".
type registry[P any] struct {
	mu   sync.Mutex
	next uintptr
	m    map[uintptr]P
}

func newRegistry[P any]() *registry[P] {
	return &registry[P]{next: 1, m: make(map[uintptr]P)}
}

func (r *registry[P]) put(p P) uintptr {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := r.next
	r.next++
	r.m[h] = p
	return h
}

func (r *registry[P]) get(h uintptr) (P, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.m[h]
	return p, ok
}

// take removes h and returns the pointer it mapped to.
func (r *registry[P]) take(h uintptr) (P, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.m[h]
	if ok {
		delete(r.m, h)
	}
	return p, ok
}

func (r *registry[P]) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.m)
}
