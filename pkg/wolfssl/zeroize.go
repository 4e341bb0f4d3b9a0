package wolfssl

import "runtime"

// ZeroizeBytes overwrites b with zeros. Use it on key buffers once they have
// been handed to WithPrivateKey; the engine keeps its own copy.
func ZeroizeBytes(b []byte) {
	clear(b)
	runtime.KeepAlive(b)
}
