// Package softssl is a pure-Go implementation of native.Engine.
//
// It keeps the engine contract the cgo binding exposes: integer handles,
// wolfSSL status codes, zero handles on allocation failure and free functions
// without an error channel. Certificate and key material is parsed with
// crypto/x509, DER framing is checked with cryptobyte, and cipher lists accept
// wolfSSL suite names.
//
// The engine also keeps books on its own handles (Stats) and can be told to
// fail specific calls (FailNext). The wolfssl package uses it as the default
// engine when libwolfssl is not linked, and its tests rely on both features to
// prove ownership rules: no handle freed twice, no context freed under a live
// session.
package softssl
