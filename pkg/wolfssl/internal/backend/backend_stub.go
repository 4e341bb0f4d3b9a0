//go:build !cgo || !wolfssl || windows

package backend

// Version returns the libwolfssl version string, or empty if not available.
func Version() string { return "" }
