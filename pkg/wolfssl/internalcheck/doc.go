// Package internalcheck holds static policy tests over the wolfssl packages.
//
// The tests load the module with golang.org/x/tools/go/packages and fail on:
// cgo outside internal/backend, raw native handles in the exported API, and
// byte slices or %x verbs handed to logging and formatting calls.
//
// It has no API of its own and is not meant to be imported.
package internalcheck
