package wolfssl

import (
	"errors"
	"fmt"

	"github.com/coinbase/wolfssl-go/pkg/wolfssl/internal/backend"
	"github.com/coinbase/wolfssl-go/pkg/wolfssl/native"
)

var (
	// ErrNotBuilt is returned when no engine was given and libwolfssl is not
	// linked into this binary. Pass WithEngine to use another engine.
	ErrNotBuilt = backend.ErrNotBuilt

	// ErrContextAllocation is returned when the engine could not allocate a
	// context. No diagnostic code is available.
	ErrContextAllocation = errors.New("wolfssl: context allocation failed")
	// ErrSessionAllocation is returned when the engine could not allocate a
	// session. No diagnostic code is available.
	ErrSessionAllocation = errors.New("wolfssl: session allocation failed")

	ErrCipherList          = errors.New("wolfssl: cipher list rejected")
	ErrCertificate         = errors.New("wolfssl: certificate rejected")
	ErrPrivateKey          = errors.New("wolfssl: private key rejected")
	ErrSecureRenegotiation = errors.New("wolfssl: secure renegotiation rejected")

	// ErrInvalidText reports a path or string that cannot be passed to the
	// engine as a C string. It means the input was bad, not that the engine
	// refused it.
	ErrInvalidText = native.ErrInvalidText

	// ErrEmptyMaterial reports a zero RootCertificate or Secret.
	ErrEmptyMaterial = errors.New("wolfssl: empty certificate material")
	ErrInvalidMethod = errors.New("wolfssl: unknown protocol method")

	ErrBuilderConsumed = errors.New("wolfssl: builder already consumed")
	ErrContextClosed   = errors.New("wolfssl: context closed")
	ErrSessionClosed   = errors.New("wolfssl: session closed")

	// ErrMutex and ErrCryptoSubsystem classify InitError and CleanupError.
	ErrMutex           = errors.New("wolfssl: engine mutex failure")
	ErrCryptoSubsystem = errors.New("wolfssl: wolfCrypt initialization failure")
)

// Step names a builder stage in errors, logs and metrics.
type Step string

const (
	StepNewContext          Step = "new_context"
	StepRootCertificate     Step = "root_certificate"
	StepCipherList          Step = "cipher_list"
	StepCertificate         Step = "certificate"
	StepPrivateKey          Step = "private_key"
	StepSecureRenegotiation Step = "secure_renegotiation"
	StepNewSession          Step = "new_session"
)

// StepError reports a failed builder stage. Err is the stage sentinel
// (ErrCipherList, ErrCertificate, ...) when the engine refused the input, or
// ErrInvalidText when the input could not be converted. Code holds the
// engine status and is zero in the latter case.
type StepError struct {
	Step Step
	Code native.Status
	Err  error
}

func (e *StepError) Error() string {
	if e.Code == 0 {
		return fmt.Sprintf("wolfssl.%s: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("wolfssl.%s: %v (%s)", e.Step, e.Err, e.Code)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// RootCertErrorKind classifies a LoadRootCertificateError.
type RootCertErrorKind int

const (
	// RootCertPath means the path could not be represented as a C string.
	RootCertPath RootCertErrorKind = iota + 1
	RootCertFailure
	RootCertBadFile
	RootCertBadFileType
	RootCertBadPath
	RootCertMemory
	RootCertBuffer
	RootCertAsnParse
	RootCertAsnInput
	RootCertNoPEMHeader
	RootCertBadArgument
	RootCertOther
)

var rootCertKindNames = map[RootCertErrorKind]string{
	RootCertPath:        "path not representable",
	RootCertFailure:     "failure",
	RootCertBadFile:     "bad file",
	RootCertBadFileType: "bad file type",
	RootCertBadPath:     "bad path",
	RootCertMemory:      "out of memory",
	RootCertBuffer:      "buffer error",
	RootCertAsnParse:    "ASN.1 parse error",
	RootCertAsnInput:    "ASN.1 input error",
	RootCertNoPEMHeader: "no PEM header",
	RootCertBadArgument: "bad argument",
	RootCertOther:       "engine error",
}

func (k RootCertErrorKind) String() string {
	if s, ok := rootCertKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// LoadRootCertificateError reports a failed WithRootCertificate stage.
type LoadRootCertificateError struct {
	Kind RootCertErrorKind
	// Code is the engine status; zero for RootCertPath.
	Code native.Status
}

func newLoadRootCertificateError(code native.Status) *LoadRootCertificateError {
	kind := RootCertOther
	switch code {
	case native.StatusFailure:
		kind = RootCertFailure
	case native.StatusBadFile:
		kind = RootCertBadFile
	case native.StatusBadFileType:
		kind = RootCertBadFileType
	case native.StatusBadPath:
		kind = RootCertBadPath
	case native.StatusMemory:
		kind = RootCertMemory
	case native.StatusBuffer:
		kind = RootCertBuffer
	case native.StatusAsnParse:
		kind = RootCertAsnParse
	case native.StatusAsnInput:
		kind = RootCertAsnInput
	case native.StatusAsnNoPEM:
		kind = RootCertNoPEMHeader
	case native.StatusBadFuncArg:
		kind = RootCertBadArgument
	}
	return &LoadRootCertificateError{Kind: kind, Code: code}
}

func (e *LoadRootCertificateError) Error() string {
	if e.Kind == RootCertPath {
		return "wolfssl.root_certificate: " + e.Kind.String()
	}
	return fmt.Sprintf("wolfssl.root_certificate: %s (%s)", e.Kind, e.Code)
}

// Is lets errors.Is(err, ErrInvalidText) match path conversion failures.
func (e *LoadRootCertificateError) Is(target error) bool {
	return target == ErrInvalidText && e.Kind == RootCertPath
}

// LifecycleErrorKind classifies InitError and CleanupError.
type LifecycleErrorKind int

const (
	LifecycleMutex LifecycleErrorKind = iota + 1
	LifecycleCrypto
)

func lifecycleSentinel(k LifecycleErrorKind) error {
	if k == LifecycleCrypto {
		return ErrCryptoSubsystem
	}
	return ErrMutex
}

// InitError reports a documented wolfSSL_Init failure.
type InitError struct {
	Kind LifecycleErrorKind
	Code native.Status
}

func (e *InitError) Error() string {
	return fmt.Sprintf("wolfssl.init: %v (%s)", lifecycleSentinel(e.Kind), e.Code)
}

func (e *InitError) Unwrap() error { return lifecycleSentinel(e.Kind) }

// CleanupError reports a documented wolfSSL_Cleanup failure.
type CleanupError struct {
	Kind LifecycleErrorKind
	Code native.Status
}

func (e *CleanupError) Error() string {
	return fmt.Sprintf("wolfssl.cleanup: %v (%s)", lifecycleSentinel(e.Kind), e.Code)
}

func (e *CleanupError) Unwrap() error { return lifecycleSentinel(e.Kind) }

// ContractViolation is the panic value raised when the engine returns a code
// outside the set documented for a call. Continuing would mean acting on an
// outcome this package does not understand.
type ContractViolation struct {
	Op   string
	Code native.Status
}

func (v *ContractViolation) Error() string {
	return fmt.Sprintf("wolfssl: unexpected return value from %s: %s", v.Op, v.Code)
}
