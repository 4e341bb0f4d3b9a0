package softssl

import (
	"maps"
	"slices"

	"github.com/coinbase/wolfssl-go/pkg/wolfssl/native"
)

// Stats is a snapshot of the engine's handle accounting.
type Stats struct {
	ContextsCreated int
	ContextsFreed   int
	SessionsCreated int
	SessionsFreed   int

	// DoubleFrees counts frees of a handle that was already freed.
	DoubleFrees int
	// FreedWithLiveSessions counts contexts freed while sessions created from
	// them were still allocated.
	FreedWithLiveSessions int
	// InvalidHandles counts calls made with a handle the engine never issued
	// or no longer holds.
	InvalidHandles int
}

// ContextsLive returns the number of allocated contexts.
func (s Stats) ContextsLive() int { return s.ContextsCreated - s.ContextsFreed }

// SessionsLive returns the number of allocated sessions.
func (s Stats) SessionsLive() int { return s.SessionsCreated - s.SessionsFreed }

// Clean reports whether no ownership rule was broken.
func (s Stats) Clean() bool {
	return s.DoubleFrees == 0 && s.FreedWithLiveSessions == 0 && s.InvalidHandles == 0
}

// Stats returns the current accounting snapshot.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// ContextInfo describes what has been configured on a context.
type ContextInfo struct {
	Method              native.Method
	Roots               int
	VerifyFiles         []string
	VerifyDirs          []string
	CipherList          string
	CipherSuites        []uint16
	HasCertificate      bool
	CertificateSubject  string
	HasPrivateKey       bool
	SecureRenegotiation bool
	Sessions            int
}

// Describe reports the configuration held by ctx. It returns false for a
// handle the engine does not hold.
func (e *Engine) Describe(ctx native.CtxHandle) (ContextInfo, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.ctxs[ctx]
	if !ok {
		return ContextInfo{}, false
	}
	return st.describe(), true
}

// Contexts describes every allocated context, oldest first.
func (e *Engine) Contexts() []ContextInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]ContextInfo, 0, len(e.ctxs))
	for _, h := range slices.Sorted(maps.Keys(e.ctxs)) {
		out = append(out, e.ctxs[h].describe())
	}
	return out
}

func (st *ctxState) describe() ContextInfo {
	info := ContextInfo{
		Method:              st.method,
		Roots:               len(st.roots),
		VerifyFiles:         append([]string(nil), st.verifyFiles...),
		VerifyDirs:          append([]string(nil), st.verifyDirs...),
		CipherList:          st.cipherList,
		CipherSuites:        append([]uint16(nil), st.cipherSuites...),
		HasCertificate:      st.leaf != nil,
		HasPrivateKey:       st.key != nil,
		SecureRenegotiation: st.secureReneg,
		Sessions:            st.sessions,
	}
	if st.leaf != nil {
		info.CertificateSubject = st.leaf.Subject.CommonName
	}
	return info
}

// SessionContext returns the context a session was created from.
func (e *Engine) SessionContext(ssl native.SSLHandle) (native.CtxHandle, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.ssls[ssl]
	if !ok {
		return 0, false
	}
	return st.ctx, true
}
