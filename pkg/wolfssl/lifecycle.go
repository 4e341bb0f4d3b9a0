package wolfssl

import "github.com/coinbase/wolfssl-go/pkg/wolfssl/native"

// Init wraps wolfSSL_Init on the default engine. Building a context does not
// require calling it first; the engine initializes itself on demand.
//
// A return code other than success, BAD_MUTEX_E or WC_INIT_E panics with a
// *ContractViolation. Without the native bindings Init returns ErrNotBuilt.
func Init() error {
	e, err := DefaultEngine()
	if err != nil {
		return err
	}
	return InitEngine(e)
}

// InitEngine is Init for an explicit engine.
func InitEngine(e native.Engine) error {
	switch code := e.Init(); code {
	case native.StatusSuccess:
		return nil
	case native.StatusBadMutex:
		return &InitError{Kind: LifecycleMutex, Code: code}
	case native.StatusWCInit:
		return &InitError{Kind: LifecycleCrypto, Code: code}
	default:
		panic(&ContractViolation{Op: "wolfSSL_Init", Code: code})
	}
}

// Cleanup wraps wolfSSL_Cleanup on the default engine. Calls are not counted
// against Init here; the engine decides what a repeated call means.
//
// A return code other than success or BAD_MUTEX_E panics with a
// *ContractViolation.
func Cleanup() error {
	e, err := DefaultEngine()
	if err != nil {
		return err
	}
	return CleanupEngine(e)
}

// CleanupEngine is Cleanup for an explicit engine.
func CleanupEngine(e native.Engine) error {
	switch code := e.Cleanup(); code {
	case native.StatusSuccess:
		return nil
	case native.StatusBadMutex:
		return &CleanupError{Kind: LifecycleMutex, Code: code}
	default:
		panic(&ContractViolation{Op: "wolfSSL_Cleanup", Code: code})
	}
}
