package native

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCString(t *testing.T) {
	c, err := NewCString("/etc/ssl/certs")
	require.NoError(t, err)
	assert.Equal(t, "/etc/ssl/certs", c.String())

	_, err = NewCString("bad\x00path")
	assert.ErrorIs(t, err, ErrInvalidText)

	_, err = NewCString(string([]byte{0xff, 0xfe}))
	assert.ErrorIs(t, err, ErrInvalidText)

	var nilStr *CString
	assert.Equal(t, "", nilStr.String())
}

func TestMethodClassification(t *testing.T) {
	all := []Method{
		MethodTLSClient, MethodTLSServer,
		MethodDTLSClient, MethodDTLSServer,
		MethodDTLSClientV12, MethodDTLSServerV12,
	}
	for _, m := range all {
		assert.True(t, m.Valid(), m.String())
		parsed, ok := ParseMethod(m.String())
		assert.True(t, ok)
		assert.Equal(t, m, parsed)
	}
	assert.False(t, Method(0).Valid())
	assert.False(t, Method(7).Valid())

	assert.True(t, MethodDTLSClientV12.IsDTLS12())
	assert.True(t, MethodDTLSServerV12.IsDTLS12())
	assert.False(t, MethodDTLSClient.IsDTLS12())
	assert.False(t, MethodTLSServer.IsDTLS12())

	assert.True(t, MethodDTLSServer.IsDTLS())
	assert.False(t, MethodTLSClient.IsDTLS())
	assert.True(t, MethodTLSServer.IsServer())
	assert.False(t, MethodDTLSClientV12.IsServer())
}

func TestParseMethodShortForms(t *testing.T) {
	m, ok := ParseMethod("dtls1.2-server")
	require.True(t, ok)
	assert.Equal(t, MethodDTLSServerV12, m)

	m, ok = ParseMethod(" TLSClient ")
	require.True(t, ok)
	assert.Equal(t, MethodTLSClient, m)

	_, ok = ParseMethod("sslv3")
	assert.False(t, ok)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "WOLFSSL_SUCCESS", StatusSuccess.String())
	assert.Equal(t, "BAD_MUTEX_E", StatusBadMutex.String())
	assert.Equal(t, "status(-999)", Status(-999).String())
	assert.Equal(t, "ASN1", FileTypeASN1.String())
}

// The numeric values must match wolfssl/ssl.h, error-ssl.h and
// wolfcrypt/error-crypt.h; the cgo backend passes codes through unchanged.
func TestStatusNumbering(t *testing.T) {
	tests := []struct {
		status Status
		code   int
		name   string
	}{
		{StatusBadMutex, -106, "BAD_MUTEX_E"},
		{StatusMemory, -125, "MEMORY_E"},
		{StatusBuffer, -132, "BUFFER_E"},
		{StatusAsnParse, -140, "ASN_PARSE_E"},
		{StatusAsnNoPEM, -162, "ASN_NO_PEM_HEADER"},
		{StatusBadFuncArg, -173, "BAD_FUNC_ARG"},
		{StatusWCInit, -228, "WC_INIT_E"},
		{StatusNoPrivateKey, -317, "NO_PRIVATE_KEY"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.code, int(tc.status), tc.name)
		assert.Equal(t, tc.name, tc.status.String())
	}
}
