package native

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"
)

// CtxHandle is an opaque reference to an engine-owned WOLFSSL_CTX.
type CtxHandle uintptr

// SSLHandle is an opaque reference to an engine-owned WOLFSSL session object.
type SSLHandle uintptr

// Status is the signed return code of an engine call.
type Status int

// Status codes, numbered as in wolfssl/ssl.h and wolfssl/wolfcrypt/error-crypt.h.
const (
	StatusSuccess     Status = 1
	StatusFailure     Status = 0
	StatusFatalError  Status = -1
	StatusUnknown     Status = -2
	StatusNotImpl     Status = -3
	StatusBadFile     Status = -4
	StatusBadFileType Status = -5
	StatusBadPath     Status = -6
	StatusBadStat     Status = -7
	StatusBadCertType Status = -8

	StatusBadMutex     Status = -106 // BAD_MUTEX_E
	StatusMemory       Status = -125 // MEMORY_E
	StatusBuffer       Status = -132 // BUFFER_E
	StatusAsnParse     Status = -140 // ASN_PARSE_E
	StatusAsnInput     Status = -154 // ASN_INPUT_E
	StatusAsnNoPEM     Status = -162 // ASN_NO_PEM_HEADER
	StatusBadFuncArg   Status = -173 // BAD_FUNC_ARG
	StatusWCInit       Status = -228 // WC_INIT_E
	StatusNoPrivateKey Status = -317 // NO_PRIVATE_KEY
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "WOLFSSL_SUCCESS"
	case StatusFailure:
		return "WOLFSSL_FAILURE"
	case StatusFatalError:
		return "WOLFSSL_FATAL_ERROR"
	case StatusUnknown:
		return "WOLFSSL_UNKNOWN"
	case StatusNotImpl:
		return "WOLFSSL_NOT_IMPLEMENTED"
	case StatusBadFile:
		return "WOLFSSL_BAD_FILE"
	case StatusBadFileType:
		return "WOLFSSL_BAD_FILETYPE"
	case StatusBadPath:
		return "WOLFSSL_BAD_PATH"
	case StatusBadStat:
		return "WOLFSSL_BAD_STAT"
	case StatusBadCertType:
		return "WOLFSSL_BAD_CERTTYPE"
	case StatusBadMutex:
		return "BAD_MUTEX_E"
	case StatusMemory:
		return "MEMORY_E"
	case StatusBuffer:
		return "BUFFER_E"
	case StatusAsnParse:
		return "ASN_PARSE_E"
	case StatusAsnInput:
		return "ASN_INPUT_E"
	case StatusAsnNoPEM:
		return "ASN_NO_PEM_HEADER"
	case StatusBadFuncArg:
		return "BAD_FUNC_ARG"
	case StatusWCInit:
		return "WC_INIT_E"
	case StatusNoPrivateKey:
		return "NO_PRIVATE_KEY"
	default:
		return "status(" + strconv.Itoa(int(s)) + ")"
	}
}

// FileType tags the encoding of certificate and key material.
type FileType int

const (
	FileTypePEM  FileType = 1 // WOLFSSL_FILETYPE_PEM
	FileTypeASN1 FileType = 2 // WOLFSSL_FILETYPE_ASN1
)

func (f FileType) String() string {
	switch f {
	case FileTypePEM:
		return "PEM"
	case FileTypeASN1:
		return "ASN1"
	default:
		return "filetype(" + strconv.Itoa(int(f)) + ")"
	}
}

// Method selects the protocol variant a context is created for. The values
// index the wolfSSL method constructors.
type Method int

const (
	MethodTLSClient     Method = iota + 1 // wolfTLS_client_method
	MethodTLSServer                       // wolfTLS_server_method
	MethodDTLSClient                      // wolfDTLS_client_method
	MethodDTLSServer                      // wolfDTLS_server_method
	MethodDTLSClientV12                   // wolfDTLSv1_2_client_method
	MethodDTLSServerV12                   // wolfDTLSv1_2_server_method
)

var methodNames = map[Method]string{
	MethodTLSClient:     "TLSClient",
	MethodTLSServer:     "TLSServer",
	MethodDTLSClient:    "DTLSClient",
	MethodDTLSServer:    "DTLSServer",
	MethodDTLSClientV12: "DTLSClientV1_2",
	MethodDTLSServerV12: "DTLSServerV1_2",
}

func (m Method) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return "method(" + strconv.Itoa(int(m)) + ")"
}

// ParseMethod accepts the names String returns, case-insensitively, and the
// short forms "tls-client", "dtls1.2-server" and so on.
func ParseMethod(s string) (Method, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	for m, name := range methodNames {
		if strings.ToLower(name) == key {
			return m, true
		}
	}
	switch key {
	case "tls-client":
		return MethodTLSClient, true
	case "tls-server":
		return MethodTLSServer, true
	case "dtls-client":
		return MethodDTLSClient, true
	case "dtls-server":
		return MethodDTLSServer, true
	case "dtls1.2-client":
		return MethodDTLSClientV12, true
	case "dtls1.2-server":
		return MethodDTLSServerV12, true
	}
	return 0, false
}

// Valid reports whether m names one of the supported methods.
func (m Method) Valid() bool {
	return m >= MethodTLSClient && m <= MethodDTLSServerV12
}

// IsDTLS12 reports whether m is one of the DTLS 1.2 specific methods.
func (m Method) IsDTLS12() bool {
	return m == MethodDTLSClientV12 || m == MethodDTLSServerV12
}

// IsDTLS reports whether m runs over datagrams.
func (m Method) IsDTLS() bool {
	return m >= MethodDTLSClient && m <= MethodDTLSServerV12
}

// IsServer reports whether m is a server-side method.
func (m Method) IsServer() bool {
	return m == MethodTLSServer || m == MethodDTLSServer || m == MethodDTLSServerV12
}

// ErrInvalidText reports a string that cannot be handed to the engine as a C
// string: it contains a NUL byte or is not valid UTF-8.
var ErrInvalidText = errors.New("wolfssl: text not representable as a C string")

// CString is text that has been checked to survive conversion to a
// NUL-terminated C string. The zero value is not valid; use NewCString.
type CString struct {
	s string
}

// NewCString validates s for use as a C string argument.
func NewCString(s string) (*CString, error) {
	if !utf8.ValidString(s) || strings.IndexByte(s, 0) >= 0 {
		return nil, ErrInvalidText
	}
	return &CString{s: s}, nil
}

// String returns the validated text.
func (c *CString) String() string {
	if c == nil {
		return ""
	}
	return c.s
}

// Engine is the set of native operations the wolfssl package drives. Every
// method that takes a handle expects the caller to hold that handle's lock;
// implementations perform no extra serialization per handle.
//
// Constructors return a zero handle on allocation failure. Free operations
// have no error channel.
type Engine interface {
	// Name identifies the implementation in logs and version output.
	Name() string

	Init() Status
	Cleanup() Status

	CtxNew(m Method) CtxHandle
	CtxFree(ctx CtxHandle)

	LoadVerifyBuffer(ctx CtxHandle, buf []byte, ft FileType) Status
	// LoadVerifyLocations takes exactly one of file or dir; the other is nil.
	LoadVerifyLocations(ctx CtxHandle, file, dir *CString) Status
	SetCipherList(ctx CtxHandle, list *CString) Status
	UseCertificateBuffer(ctx CtxHandle, buf []byte, ft FileType) Status
	UseCertificateFile(ctx CtxHandle, file *CString, ft FileType) Status
	UsePrivateKeyBuffer(ctx CtxHandle, buf []byte, ft FileType) Status
	UsePrivateKeyFile(ctx CtxHandle, file *CString, ft FileType) Status
	UseSecureRenegotiation(ctx CtxHandle) Status

	SSLNew(ctx CtxHandle) SSLHandle
	SSLFree(ssl SSLHandle)
}
