package wolfssl

import (
	"context"
	"os"
	"sync/atomic"

	"github.com/coinbase/wolfssl-go/pkg/wolfssl/internal/handle"
	"github.com/coinbase/wolfssl-go/pkg/wolfssl/logging"
	"github.com/coinbase/wolfssl-go/pkg/wolfssl/native"
)

// Context is a finalized wolfSSL context. It is safe for concurrent use;
// every native call on it is serialized by the handle lock.
type Context struct {
	token  *handle.Token[native.CtxHandle]
	method Method
	env    *env
}

// ContextBuilder stages the configuration of a Context. Every With* method
// consumes the builder: the receiver becomes unusable and the result, if
// there is no error, carries the configuration forward. On error the
// in-progress native context is released.
type ContextBuilder struct {
	ctx atomic.Pointer[Context]
}

// NewContextBuilder allocates a native context for method. It returns
// ErrContextAllocation when the engine cannot allocate one, and ErrNotBuilt
// when no engine was given and libwolfssl is not linked.
func NewContextBuilder(method Method, opts ...Option) (*ContextBuilder, error) {
	if !method.Valid() {
		return nil, ErrInvalidMethod
	}
	e, err := newEnv(opts)
	if err != nil {
		return nil, err
	}

	engine, observer := e.engine, e.observer
	raw := engine.CtxNew(method)
	tok, err := handle.Acquire(raw, func(h native.CtxHandle) {
		engine.CtxFree(h)
		observer.ContextReleased(method)
	})
	if err != nil {
		observer.StepFailed(method, StepNewContext, ErrContextAllocation)
		return nil, ErrContextAllocation
	}

	e.logger = e.logger.With("method", method.String())
	e.logger.Debug(context.Background(), "context allocated", "engine", engine.Name())
	return wrapContext(&Context{token: tok, method: method, env: e}), nil
}

func wrapContext(c *Context) *ContextBuilder {
	b := &ContextBuilder{}
	b.ctx.Store(c)
	return b
}

func (b *ContextBuilder) take() (*Context, error) {
	if b == nil {
		return nil, ErrBuilderConsumed
	}
	c := b.ctx.Swap(nil)
	if c == nil {
		return nil, ErrBuilderConsumed
	}
	return c, nil
}

// step consumes b, runs fn against the in-progress context and hands the
// context to a new builder on success.
func (b *ContextBuilder) step(name Step, fn func(c *Context) error) (*ContextBuilder, error) {
	c, err := b.take()
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		c.env.observer.StepFailed(c.method, name, err)
		c.env.logger.Debug(context.Background(), "configuration step failed", "step", string(name), "error", err)
		c.token.Drop()
		return nil, err
	}
	return wrapContext(c), nil
}

// Method returns the protocol variant, or 0 for a consumed builder.
func (b *ContextBuilder) Method() Method {
	if b == nil {
		return 0
	}
	if c := b.ctx.Load(); c != nil {
		return c.method
	}
	return 0
}

// call runs fn on the raw context under its lock.
func (c *Context) call(fn func(e native.Engine, h native.CtxHandle) native.Status) (native.Status, error) {
	var status native.Status
	if err := c.token.Use(func(h native.CtxHandle) { status = fn(c.env.engine, h) }); err != nil {
		return 0, ErrContextClosed
	}
	return status, nil
}

// WithRootCertificate wraps wolfSSL_CTX_load_verify_buffer and
// wolfSSL_CTX_load_verify_locations. For a path, a directory is passed as
// the directory argument and anything else as the file argument; the other
// argument is always NULL.
//
// Failures are *LoadRootCertificateError.
func (b *ContextBuilder) WithRootCertificate(root RootCertificate) (*ContextBuilder, error) {
	return b.step(StepRootCertificate, func(c *Context) error {
		var (
			status native.Status
			err    error
		)
		switch root.kind {
		case rootASN1Buffer:
			status, err = c.call(func(e native.Engine, h native.CtxHandle) native.Status {
				return e.LoadVerifyBuffer(h, root.buf, native.FileTypeASN1)
			})
		case rootPEMBuffer:
			status, err = c.call(func(e native.Engine, h native.CtxHandle) native.Status {
				return e.LoadVerifyBuffer(h, root.buf, native.FileTypePEM)
			})
		case rootPEMFileOrDirectory:
			path, perr := native.NewCString(root.path)
			if perr != nil {
				return &LoadRootCertificateError{Kind: RootCertPath}
			}
			isDir := isDirectory(root.path)
			status, err = c.call(func(e native.Engine, h native.CtxHandle) native.Status {
				if isDir {
					return e.LoadVerifyLocations(h, nil, path)
				}
				return e.LoadVerifyLocations(h, path, nil)
			})
		default:
			return &StepError{Step: StepRootCertificate, Err: ErrEmptyMaterial}
		}
		if err != nil {
			return err
		}
		if status != native.StatusSuccess {
			return newLoadRootCertificateError(status)
		}
		c.env.logger.Debug(context.Background(), "root certificate loaded", "source", root.String())
		return nil
	})
}

func isDirectory(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// WithCipherList wraps wolfSSL_CTX_set_cipher_list. The list uses wolfSSL
// suite names separated by colons.
func (b *ContextBuilder) WithCipherList(list string) (*ContextBuilder, error) {
	return b.step(StepCipherList, func(c *Context) error {
		cl, err := native.NewCString(list)
		if err != nil {
			return &StepError{Step: StepCipherList, Err: ErrInvalidText}
		}
		status, err := c.call(func(e native.Engine, h native.CtxHandle) native.Status {
			return e.SetCipherList(h, cl)
		})
		if err != nil {
			return err
		}
		if status != native.StatusSuccess {
			return &StepError{Step: StepCipherList, Code: status, Err: ErrCipherList}
		}
		return nil
	})
}

type secretLoader struct {
	buffer func(e native.Engine, h native.CtxHandle, buf []byte, ft native.FileType) native.Status
	file   func(e native.Engine, h native.CtxHandle, file *native.CString, ft native.FileType) native.Status
}

var (
	certificateLoader = secretLoader{
		buffer: native.Engine.UseCertificateBuffer,
		file:   native.Engine.UseCertificateFile,
	}
	privateKeyLoader = secretLoader{
		buffer: native.Engine.UsePrivateKeyBuffer,
		file:   native.Engine.UsePrivateKeyFile,
	}
)

// loadSecret dispatches s to the buffer or file loader with the matching
// file type.
func (c *Context) loadSecret(step Step, sentinel error, s Secret, l secretLoader) error {
	var (
		ft     native.FileType
		isFile bool
	)
	switch s.kind {
	case secretASN1Buffer:
		ft = native.FileTypeASN1
	case secretASN1File:
		ft, isFile = native.FileTypeASN1, true
	case secretPEMBuffer:
		ft = native.FileTypePEM
	case secretPEMFile:
		ft, isFile = native.FileTypePEM, true
	default:
		return &StepError{Step: step, Err: ErrEmptyMaterial}
	}

	var (
		status native.Status
		err    error
	)
	if isFile {
		path, perr := native.NewCString(s.path)
		if perr != nil {
			return &StepError{Step: step, Err: ErrInvalidText}
		}
		status, err = c.call(func(e native.Engine, h native.CtxHandle) native.Status {
			return l.file(e, h, path, ft)
		})
	} else {
		status, err = c.call(func(e native.Engine, h native.CtxHandle) native.Status {
			return l.buffer(e, h, s.buf, ft)
		})
	}
	if err != nil {
		return err
	}
	if status != native.StatusSuccess {
		return &StepError{Step: step, Code: status, Err: sentinel}
	}
	return nil
}

// WithCertificate wraps wolfSSL_CTX_use_certificate_buffer and
// wolfSSL_CTX_use_certificate_file.
func (b *ContextBuilder) WithCertificate(s Secret) (*ContextBuilder, error) {
	return b.step(StepCertificate, func(c *Context) error {
		if err := c.loadSecret(StepCertificate, ErrCertificate, s, certificateLoader); err != nil {
			return err
		}
		c.env.logger.Debug(context.Background(), "certificate loaded", "source", s.String())
		return nil
	})
}

// WithPrivateKey wraps wolfSSL_CTX_use_PrivateKey_buffer and
// wolfSSL_CTX_use_PrivateKey_file.
func (b *ContextBuilder) WithPrivateKey(s Secret) (*ContextBuilder, error) {
	return b.step(StepPrivateKey, func(c *Context) error {
		if err := c.loadSecret(StepPrivateKey, ErrPrivateKey, s, privateKeyLoader); err != nil {
			return err
		}
		c.env.logger.Debug(context.Background(), "private key loaded", logging.Redacted("key"))
		return nil
	})
}

// WithSecureRenegotiation wraps wolfSSL_CTX_UseSecureRenegotiation.
//
// Only the DTLS 1.2 methods support it. For any other method the call logs
// a warning and returns the configuration unchanged; it never fails.
func (b *ContextBuilder) WithSecureRenegotiation() (*ContextBuilder, error) {
	return b.step(StepSecureRenegotiation, func(c *Context) error {
		if !c.method.IsDTLS12() {
			c.env.logger.Warn(context.Background(), "secure renegotiation requested on a method other than DTLS 1.2; ignoring")
			return nil
		}
		status, err := c.call(func(e native.Engine, h native.CtxHandle) native.Status {
			return e.UseSecureRenegotiation(h)
		})
		if err != nil {
			return err
		}
		if status != native.StatusSuccess {
			return &StepError{Step: StepSecureRenegotiation, Code: status, Err: ErrSecureRenegotiation}
		}
		return nil
	})
}

// Build finalizes the Context. It cannot fail; calling it on a consumed
// builder is a programming error and panics with ErrBuilderConsumed.
func (b *ContextBuilder) Build() *Context {
	c, err := b.take()
	if err != nil {
		panic(err)
	}
	c.env.observer.ContextBuilt(c.method)
	c.env.logger.Debug(context.Background(), "context built")
	return c
}

// Discard abandons the builder and releases its native context. It is a
// no-op on a consumed builder.
func (b *ContextBuilder) Discard() {
	if c, err := b.take(); err == nil {
		c.token.Drop()
	}
}

// Method returns the protocol variant chosen at construction.
func (c *Context) Method() Method {
	return c.method
}

// Clone returns another owner of the same native context.
func (c *Context) Clone() (*Context, error) {
	if c == nil {
		return nil, ErrContextClosed
	}
	tok, err := c.token.Clone()
	if err != nil {
		return nil, ErrContextClosed
	}
	return &Context{token: tok, method: c.method, env: c.env}, nil
}

// NewSession wraps wolfSSL_new. The Session holds its own owner of this
// context, so the native context stays allocated until the Session is
// closed. ErrSessionAllocation is the only failure on an open Context.
func (c *Context) NewSession() (*Session, error) {
	parent, err := c.Clone()
	if err != nil {
		return nil, err
	}

	engine, observer, method := c.env.engine, c.env.observer, c.method
	var raw native.SSLHandle
	if err := parent.token.Use(func(h native.CtxHandle) { raw = engine.SSLNew(h) }); err != nil {
		parent.token.Drop()
		return nil, ErrContextClosed
	}
	tok, err := handle.Acquire(raw, func(h native.SSLHandle) {
		engine.SSLFree(h)
		observer.SessionReleased(method)
	})
	if err != nil {
		parent.token.Drop()
		observer.StepFailed(method, StepNewSession, ErrSessionAllocation)
		return nil, ErrSessionAllocation
	}

	s := newSession(tok, parent)
	observer.SessionCreated(method)
	c.env.logger.Debug(context.Background(), "session created", "session_id", s.ID())
	return s, nil
}

// Close releases this owner. The native context is freed when the last
// owner, including those held by sessions, is closed. Close is idempotent.
func (c *Context) Close() error {
	if c == nil {
		return nil
	}
	c.token.Drop()
	return nil
}

// Closed reports whether this Context value has been closed.
func (c *Context) Closed() bool {
	return c == nil || c.token.Dropped()
}
