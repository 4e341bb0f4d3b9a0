package wolfssl

import "github.com/coinbase/wolfssl-go/pkg/wolfssl/internal/backend"

var (
	Version       = "v0.0.0-in-progress"
	UpstreamPkg   = "wolfssl"
	UpstreamFloor = "5.6.0"
)

// WrapperVersion returns the semantic version populated at build time via
// ldflags. In development it defaults to v0.0.0-in-progress.
func WrapperVersion() string {
	return Version
}

// UpstreamVersion returns the linked libwolfssl version string, or "" when
// the native backend is not built. UpstreamFloor is the oldest release the
// backend supports.
func UpstreamVersion() string {
	return backend.Version()
}

// EngineName reports the name of the default engine, or "none" when the
// native bindings are not built.
func EngineName() string {
	e, err := DefaultEngine()
	if err != nil {
		return "none"
	}
	return e.Name()
}
