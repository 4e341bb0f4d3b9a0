package softssl

import "github.com/coinbase/wolfssl-go/pkg/wolfssl/native"

// Op names an engine call that FailNext can target.
type Op int

const (
	OpInit Op = iota
	OpCleanup
	OpCtxNew
	OpSSLNew
	OpLoadVerifyBuffer
	OpLoadVerifyLocations
	OpSetCipherList
	OpUseCertificate
	OpUsePrivateKey
	OpUseSecureRenegotiation
)

// FailNext makes the next call to op return status instead of doing its
// work. For CtxNew and SSLNew the status is ignored and a zero handle is
// returned. Queued failures are consumed in order.
func (e *Engine) FailNext(op Op, status native.Status) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.faults[op] = append(e.faults[op], status)
}

// takeFault pops a queued failure for op; callers hold e.mu.
func (e *Engine) takeFault(op Op) (native.Status, bool) {
	q := e.faults[op]
	if len(q) == 0 {
		return 0, false
	}
	st := q[0]
	if len(q) == 1 {
		delete(e.faults, op)
	} else {
		e.faults[op] = q[1:]
	}
	return st, true
}
