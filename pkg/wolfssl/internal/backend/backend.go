//go:build cgo && wolfssl && !windows

package backend

/*
#cgo pkg-config: wolfssl
#include <stdlib.h>
#include <wolfssl/options.h>
#include <wolfssl/ssl.h>

// Method values mirror native.Method.
static WOLFSSL_METHOD* wolfssl_go_method(int m) {
	switch (m) {
	case 1: return wolfTLS_client_method();
	case 2: return wolfTLS_server_method();
#ifdef WOLFSSL_DTLS
	case 3: return wolfDTLS_client_method();
	case 4: return wolfDTLS_server_method();
	case 5: return wolfDTLSv1_2_client_method();
	case 6: return wolfDTLSv1_2_server_method();
#endif
	}
	return NULL;
}

static WOLFSSL_CTX* wolfssl_go_ctx_new(int m) {
	WOLFSSL_METHOD* method = wolfssl_go_method(m);
	if (method == NULL) {
		return NULL;
	}
	return wolfSSL_CTX_new(method);
}

static int wolfssl_go_secure_renegotiation(WOLFSSL_CTX* ctx) {
#ifdef HAVE_SECURE_RENEGOTIATION
	return wolfSSL_CTX_UseSecureRenegotiation(ctx);
#else
	(void)ctx;
	return NOT_COMPILED_IN;
#endif
}
*/
import "C"

import (
	"unsafe"

	"github.com/coinbase/wolfssl-go/pkg/wolfssl/native"
)

// Engine drives libwolfssl. Raw pointers never leave this package; callers
// see registry handles instead.
type Engine struct {
	ctxs *registry[*C.WOLFSSL_CTX]
	ssls *registry[*C.WOLFSSL]
}

// New returns an Engine bound to the linked libwolfssl.
func New() *Engine {
	return &Engine{
		ctxs: newRegistry[*C.WOLFSSL_CTX](),
		ssls: newRegistry[*C.WOLFSSL](),
	}
}

// Version returns the libwolfssl version string.
func Version() string {
	return C.GoString(C.wolfSSL_lib_version())
}

func (e *Engine) Name() string { return "libwolfssl " + Version() }

func (e *Engine) Init() native.Status    { return native.Status(C.wolfSSL_Init()) }
func (e *Engine) Cleanup() native.Status { return native.Status(C.wolfSSL_Cleanup()) }

func (e *Engine) CtxNew(m native.Method) native.CtxHandle {
	ctx := C.wolfssl_go_ctx_new(C.int(m))
	if ctx == nil {
		return 0
	}
	return native.CtxHandle(e.ctxs.put(ctx))
}

func (e *Engine) CtxFree(h native.CtxHandle) {
	if ctx, ok := e.ctxs.take(uintptr(h)); ok {
		C.wolfSSL_CTX_free(ctx)
	}
}

func (e *Engine) ctx(h native.CtxHandle) *C.WOLFSSL_CTX {
	ctx, _ := e.ctxs.get(uintptr(h))
	return ctx
}

// withCString converts s for the duration of fn. A nil s becomes NULL.
func withCString(s *native.CString, fn func(*C.char) C.int) native.Status {
	if s == nil {
		return native.Status(fn(nil))
	}
	cs := C.CString(s.String())
	defer C.free(unsafe.Pointer(cs))
	return native.Status(fn(cs))
}

func bufArgs(buf []byte) (*C.uchar, C.long) {
	if len(buf) == 0 {
		return nil, 0
	}
	return (*C.uchar)(unsafe.Pointer(&buf[0])), C.long(len(buf))
}

func (e *Engine) LoadVerifyBuffer(h native.CtxHandle, buf []byte, ft native.FileType) native.Status {
	ctx := e.ctx(h)
	if ctx == nil {
		return native.StatusBadFuncArg
	}
	p, n := bufArgs(buf)
	return native.Status(C.wolfSSL_CTX_load_verify_buffer(ctx, p, n, C.int(ft)))
}

func (e *Engine) LoadVerifyLocations(h native.CtxHandle, file, dir *native.CString) native.Status {
	ctx := e.ctx(h)
	if ctx == nil {
		return native.StatusBadFuncArg
	}
	return withCString(file, func(cf *C.char) C.int {
		return C.int(withCString(dir, func(cd *C.char) C.int {
			return C.wolfSSL_CTX_load_verify_locations(ctx, cf, cd)
		}))
	})
}

func (e *Engine) SetCipherList(h native.CtxHandle, list *native.CString) native.Status {
	ctx := e.ctx(h)
	if ctx == nil {
		return native.StatusBadFuncArg
	}
	return withCString(list, func(cl *C.char) C.int {
		return C.wolfSSL_CTX_set_cipher_list(ctx, cl)
	})
}

func (e *Engine) UseCertificateBuffer(h native.CtxHandle, buf []byte, ft native.FileType) native.Status {
	ctx := e.ctx(h)
	if ctx == nil {
		return native.StatusBadFuncArg
	}
	p, n := bufArgs(buf)
	return native.Status(C.wolfSSL_CTX_use_certificate_buffer(ctx, p, n, C.int(ft)))
}

func (e *Engine) UseCertificateFile(h native.CtxHandle, file *native.CString, ft native.FileType) native.Status {
	ctx := e.ctx(h)
	if ctx == nil {
		return native.StatusBadFuncArg
	}
	return withCString(file, func(cf *C.char) C.int {
		return C.wolfSSL_CTX_use_certificate_file(ctx, cf, C.int(ft))
	})
}

func (e *Engine) UsePrivateKeyBuffer(h native.CtxHandle, buf []byte, ft native.FileType) native.Status {
	ctx := e.ctx(h)
	if ctx == nil {
		return native.StatusBadFuncArg
	}
	p, n := bufArgs(buf)
	return native.Status(C.wolfSSL_CTX_use_PrivateKey_buffer(ctx, p, n, C.int(ft)))
}

func (e *Engine) UsePrivateKeyFile(h native.CtxHandle, file *native.CString, ft native.FileType) native.Status {
	ctx := e.ctx(h)
	if ctx == nil {
		return native.StatusBadFuncArg
	}
	return withCString(file, func(cf *C.char) C.int {
		return C.wolfSSL_CTX_use_PrivateKey_file(ctx, cf, C.int(ft))
	})
}

func (e *Engine) UseSecureRenegotiation(h native.CtxHandle) native.Status {
	ctx := e.ctx(h)
	if ctx == nil {
		return native.StatusBadFuncArg
	}
	return native.Status(C.wolfssl_go_secure_renegotiation(ctx))
}

func (e *Engine) SSLNew(h native.CtxHandle) native.SSLHandle {
	ctx := e.ctx(h)
	if ctx == nil {
		return 0
	}
	ssl := C.wolfSSL_new(ctx)
	if ssl == nil {
		return 0
	}
	return native.SSLHandle(e.ssls.put(ssl))
}

func (e *Engine) SSLFree(h native.SSLHandle) {
	if ssl, ok := e.ssls.take(uintptr(h)); ok {
		C.wolfSSL_free(ssl)
	}
}

var _ native.Engine = (*Engine)(nil)
