// Package testcerts generates throwaway certificate material for tests and
// the CLI's self-check: a CA plus one leaf certificate and key, each in DER
// and PEM form.
package testcerts

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"time"
)

// Set is one CA and one leaf issued by it.
type Set struct {
	CADER   []byte
	CAPEM   []byte
	CertDER []byte
	CertPEM []byte
	// KeyDER is PKCS#8.
	KeyDER []byte
	KeyPEM []byte
}

// Paths records where WriteFiles put each file.
type Paths struct {
	Dir     string
	CAPEM   string
	CADER   string
	CertPEM string
	CertDER string
	KeyPEM  string
	KeyDER  string
}

// New generates a fresh Set whose leaf is valid for name, localhost and
// 127.0.0.1.
func New(name string) (*Set, error) {
	caKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate CA key: %w", err)
	}
	caTmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "wolfssl-go-test-ca"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(24 * time.Hour),
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
		MaxPathLenZero:        true,
	}
	caDER, err := x509.CreateCertificate(rand.Reader, caTmpl, caTmpl, &caKey.PublicKey, caKey)
	if err != nil {
		return nil, fmt.Errorf("create CA certificate: %w", err)
	}
	caCert, err := x509.ParseCertificate(caDER)
	if err != nil {
		return nil, fmt.Errorf("parse CA certificate: %w", err)
	}

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate key for %s: %w", name, err)
	}
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(2),
		Subject:      pkix.Name{CommonName: name},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
		DNSNames:     []string{name, "localhost"},
		IPAddresses:  []net.IP{net.ParseIP("127.0.0.1")},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, caCert, &key.PublicKey, caKey)
	if err != nil {
		return nil, fmt.Errorf("create cert for %s: %w", name, err)
	}
	keyDER, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("marshal key for %s: %w", name, err)
	}

	return &Set{
		CADER:   caDER,
		CAPEM:   pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: caDER}),
		CertDER: der,
		CertPEM: pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}),
		KeyDER:  keyDER,
		KeyPEM:  pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyDER}),
	}, nil
}

// WriteFiles writes every member of s under dir with 0600 permissions.
func (s *Set) WriteFiles(dir string) (Paths, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return Paths{}, fmt.Errorf("create output dir: %w", err)
	}
	p := Paths{
		Dir:     dir,
		CAPEM:   filepath.Join(dir, "ca.pem"),
		CADER:   filepath.Join(dir, "ca.der"),
		CertPEM: filepath.Join(dir, "server-cert.pem"),
		CertDER: filepath.Join(dir, "server-cert.der"),
		KeyPEM:  filepath.Join(dir, "server-key.pem"),
		KeyDER:  filepath.Join(dir, "server-key.der"),
	}
	files := []struct {
		path string
		data []byte
	}{
		{p.CAPEM, s.CAPEM},
		{p.CADER, s.CADER},
		{p.CertPEM, s.CertPEM},
		{p.CertDER, s.CertDER},
		{p.KeyPEM, s.KeyPEM},
		{p.KeyDER, s.KeyDER},
	}
	for _, f := range files {
		if err := os.WriteFile(f.path, f.data, 0o600); err != nil {
			return Paths{}, fmt.Errorf("write %s: %w", f.path, err)
		}
	}
	return p, nil
}

// MustNew is New for tests; it panics on failure.
func MustNew(name string) *Set {
	s, err := New(name)
	if err != nil {
		panic(err)
	}
	return s
}
