package backend

import "errors"

// ErrNotBuilt reports that libwolfssl was not linked into the current binary
// (cgo disabled, the wolfssl build tag missing, or a Windows build).
var ErrNotBuilt = errors.New("wolfssl: native bindings not built")
