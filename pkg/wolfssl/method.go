package wolfssl

import "github.com/coinbase/wolfssl-go/pkg/wolfssl/native"

// Method selects the protocol variant of a context.
type Method = native.Method

// Supported protocol variants. Secure renegotiation is only meaningful for
// the two DTLS 1.2 variants.
const (
	TLSClient      = native.MethodTLSClient
	TLSServer      = native.MethodTLSServer
	DTLSClient     = native.MethodDTLSClient
	DTLSServer     = native.MethodDTLSServer
	DTLSClientV1_2 = native.MethodDTLSClientV12
	DTLSServerV1_2 = native.MethodDTLSServerV12
)

// Methods lists every supported variant.
func Methods() []Method {
	return []Method{TLSClient, TLSServer, DTLSClient, DTLSServer, DTLSClientV1_2, DTLSServerV1_2}
}

// ParseMethod resolves a method name such as "TLSClient" or "dtls1.2-server".
func ParseMethod(name string) (Method, error) {
	m, ok := native.ParseMethod(name)
	if !ok {
		return 0, ErrInvalidMethod
	}
	return m, nil
}
