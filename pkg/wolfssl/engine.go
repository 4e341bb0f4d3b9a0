package wolfssl

import (
	"sync"

	"github.com/coinbase/wolfssl-go/pkg/wolfssl/native"
)

var defaultEngine = sync.OnceValues(newDefaultEngine)

// DefaultEngine returns the process-wide libwolfssl engine used when no
// WithEngine option is given. Without the native bindings it returns
// ErrNotBuilt; the software engine is never substituted silently.
func DefaultEngine() (native.Engine, error) {
	return defaultEngine()
}
