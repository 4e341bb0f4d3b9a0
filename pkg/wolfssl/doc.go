// Package wolfssl exposes wolfSSL context and session configuration as a
// typed, ownership-checked Go API.
//
// A Context is built in stages with a ContextBuilder. Each stage consumes the
// builder it is called on and returns a new one, or an error; a builder that
// failed a stage has already released its native context and cannot be used
// again.
//
//	b, err := wolfssl.NewContextBuilder(wolfssl.TLSServer)
//	if err != nil {
//	    return err
//	}
//	if b, err = b.WithCertificate(wolfssl.PEMFile("server.pem")); err != nil {
//	    return err
//	}
//	if b, err = b.WithPrivateKey(wolfssl.PEMFile("server-key.pem")); err != nil {
//	    return err
//	}
//	ctx := b.Build()
//	defer ctx.Close()
//
//	sess, err := ctx.NewSession()
//	if err != nil {
//	    return err
//	}
//	defer sess.Close()
//
// # Ownership
//
// Native handles are reference counted. Clone adds an owner, Close removes
// one, and the last Close frees the handle exactly once. Every Session owns a
// clone of its Context, so the native context outlives all sessions created
// from it even when the caller has closed its own Context values. Finalizers
// release leaked owners, but explicit Close is expected.
//
// # Engines
//
// Builds with the wolfssl tag and cgo enabled drive libwolfssl. Other builds
// use the pure-Go softssl engine, which keeps the same status codes and
// handle semantics. WithEngine selects an engine per context.
//
// # Process Lifecycle
//
// Init and Cleanup wrap wolfSSL_Init and wolfSSL_Cleanup. They are not
// reference counted here; nesting follows the engine's own rules.
package wolfssl
