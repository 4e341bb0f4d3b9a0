package softssl

import (
	"crypto"
	"crypto/x509"
	"sync"

	"github.com/coinbase/wolfssl-go/pkg/wolfssl/native"
)

const (
	handleBase   = 0x1000
	handleStride = 0x10
)

type ctxState struct {
	method       native.Method
	roots        []*x509.Certificate
	verifyFiles  []string
	verifyDirs   []string
	cipherList   string
	cipherSuites []uint16
	leaf         *x509.Certificate
	key          crypto.PrivateKey
	secureReneg  bool
	sessions     int
}

type sslState struct {
	ctx native.CtxHandle
}

// Engine is a software TLS engine. The zero value is not usable; call New.
type Engine struct {
	mu        sync.Mutex
	next      uintptr
	ctxs      map[native.CtxHandle]*ctxState
	ssls      map[native.SSLHandle]*sslState
	freedCtx  map[native.CtxHandle]struct{}
	freedSSL  map[native.SSLHandle]struct{}
	initCount int
	stats     Stats
	faults    map[Op][]native.Status
}

var _ native.Engine = (*Engine)(nil)

// New returns an Engine with no live handles.
func New() *Engine {
	return &Engine{
		next:     handleBase,
		ctxs:     make(map[native.CtxHandle]*ctxState),
		ssls:     make(map[native.SSLHandle]*sslState),
		freedCtx: make(map[native.CtxHandle]struct{}),
		freedSSL: make(map[native.SSLHandle]struct{}),
		faults:   make(map[Op][]native.Status),
	}
}

// Name implements native.Engine.
func (e *Engine) Name() string { return "softssl" }

// alloc must be called with e.mu held.
func (e *Engine) alloc() uintptr {
	h := e.next
	e.next += handleStride
	return h
}

// Init implements native.Engine. Calls nest the way wolfSSL_Init does.
func (e *Engine) Init() native.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	if st, ok := e.takeFault(OpInit); ok {
		return st
	}
	e.initCount++
	return native.StatusSuccess
}

// Cleanup implements native.Engine.
func (e *Engine) Cleanup() native.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	if st, ok := e.takeFault(OpCleanup); ok {
		return st
	}
	if e.initCount > 0 {
		e.initCount--
	}
	return native.StatusSuccess
}

// CtxNew implements native.Engine.
func (e *Engine) CtxNew(m native.Method) native.CtxHandle {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.takeFault(OpCtxNew); ok {
		return 0
	}
	if !m.Valid() {
		return 0
	}
	h := native.CtxHandle(e.alloc())
	e.ctxs[h] = &ctxState{method: m}
	e.stats.ContextsCreated++
	return h
}

// CtxFree implements native.Engine.
func (e *Engine) CtxFree(ctx native.CtxHandle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.ctxs[ctx]
	if !ok {
		if _, freed := e.freedCtx[ctx]; freed {
			e.stats.DoubleFrees++
		} else {
			e.stats.InvalidHandles++
		}
		return
	}
	if st.sessions > 0 {
		e.stats.FreedWithLiveSessions++
	}
	delete(e.ctxs, ctx)
	e.freedCtx[ctx] = struct{}{}
	e.stats.ContextsFreed++
}

// SSLNew implements native.Engine.
func (e *Engine) SSLNew(ctx native.CtxHandle) native.SSLHandle {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.ctxs[ctx]
	if !ok {
		e.stats.InvalidHandles++
		return 0
	}
	if _, ok := e.takeFault(OpSSLNew); ok {
		return 0
	}
	h := native.SSLHandle(e.alloc())
	e.ssls[h] = &sslState{ctx: ctx}
	st.sessions++
	e.stats.SessionsCreated++
	return h
}

// SSLFree implements native.Engine.
func (e *Engine) SSLFree(ssl native.SSLHandle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.ssls[ssl]
	if !ok {
		if _, freed := e.freedSSL[ssl]; freed {
			e.stats.DoubleFrees++
		} else {
			e.stats.InvalidHandles++
		}
		return
	}
	if parent, ok := e.ctxs[st.ctx]; ok {
		parent.sessions--
	} else {
		// The parent context was released first.
		e.stats.InvalidHandles++
	}
	delete(e.ssls, ssl)
	e.freedSSL[ssl] = struct{}{}
	e.stats.SessionsFreed++
}

// context returns the state for ctx; callers hold e.mu.
func (e *Engine) context(ctx native.CtxHandle) (*ctxState, bool) {
	st, ok := e.ctxs[ctx]
	if !ok {
		e.stats.InvalidHandles++
	}
	return st, ok
}
