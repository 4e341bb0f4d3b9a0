// Package native describes the capability set this module consumes from a
// TLS/DTLS engine: raw handle types, status codes, certificate file-type tags
// and protocol method identifiers, all numbered the way libwolfssl numbers
// them.
//
// Nothing here owns memory. Raw handles are only ever dereferenced by an
// Engine implementation; the public wolfssl package wraps them in ownership
// tokens and never hands them to callers.
package native
