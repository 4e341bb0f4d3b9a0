package wolfssl

import "github.com/coinbase/wolfssl-go/pkg/wolfssl/native"

// ContextHandle exposes the raw handle so tests can query the engine.
func ContextHandle(c *Context) native.CtxHandle {
	var h native.CtxHandle
	_ = c.token.Use(func(raw native.CtxHandle) { h = raw })
	return h
}

// BuilderHandle is ContextHandle for an unconsumed builder.
func BuilderHandle(b *ContextBuilder) native.CtxHandle {
	c := b.ctx.Load()
	if c == nil {
		return 0
	}
	return ContextHandle(c)
}

// ContextRefs returns the number of owners sharing c's native context.
func ContextRefs(c *Context) int {
	return c.token.Refs()
}

// SessionHandle exposes the raw session handle.
func SessionHandle(s *Session) native.SSLHandle {
	var h native.SSLHandle
	_ = s.token.Use(func(raw native.SSLHandle) { h = raw })
	return h
}
