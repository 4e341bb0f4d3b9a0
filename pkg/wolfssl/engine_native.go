//go:build cgo && wolfssl && !windows

package wolfssl

import (
	"github.com/coinbase/wolfssl-go/pkg/wolfssl/internal/backend"
	"github.com/coinbase/wolfssl-go/pkg/wolfssl/native"
)

// NativeLinked reports whether libwolfssl is linked into this binary.
const NativeLinked = true

func newDefaultEngine() (native.Engine, error) {
	return backend.New(), nil
}
