// Package backend hosts the thin cgo layer that links the Go API to
// libwolfssl. The real implementation is behind the wolfssl build tag so the
// rest of the repository compiles without cgo or the native library.
package backend
