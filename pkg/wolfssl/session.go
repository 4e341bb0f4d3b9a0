package wolfssl

import (
	"runtime"
	"sync"

	"github.com/google/uuid"

	"github.com/coinbase/wolfssl-go/pkg/wolfssl/internal/handle"
	"github.com/coinbase/wolfssl-go/pkg/wolfssl/native"
)

// Session is a connection-scoped object created by Context.NewSession.
// Handshake and I/O are not implemented here.
type Session struct {
	id     uuid.UUID
	token  *handle.Token[native.SSLHandle]
	parent *Context

	closeOnce sync.Once
}

func newSession(tok *handle.Token[native.SSLHandle], parent *Context) *Session {
	s := &Session{id: uuid.New(), token: tok, parent: parent}
	// The session must be released before the context clone it holds, so
	// it gets a finalizer of its own that runs ahead of the tokens'.
	runtime.SetFinalizer(s, (*Session).Close)
	return s
}

// ID is a random identifier used in logs.
func (s *Session) ID() string {
	return s.id.String()
}

// Method returns the protocol variant of the parent context.
func (s *Session) Method() Method {
	return s.parent.method
}

// Context returns a new owner of the context this session was created from.
// The caller must Close it.
func (s *Session) Context() (*Context, error) {
	if s.Closed() {
		return nil, ErrSessionClosed
	}
	return s.parent.Clone()
}

// Close frees the native session and then releases the session's hold on
// its context. It is idempotent.
func (s *Session) Close() error {
	if s == nil {
		return nil
	}
	s.closeOnce.Do(func() {
		runtime.SetFinalizer(s, nil)
		s.token.Drop()
		_ = s.parent.Close()
	})
	return nil
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	return s == nil || s.token.Dropped()
}
