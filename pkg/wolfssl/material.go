package wolfssl

import "fmt"

type rootKind int

const (
	rootASN1Buffer rootKind = iota + 1
	rootPEMBuffer
	rootPEMFileOrDirectory
)

// RootCertificate is trust material for peer verification: an in-memory DER
// or PEM buffer, or a path to a PEM file or a directory of PEM files.
// Construct one with RootASN1Buffer, RootPEMBuffer or RootPEMFileOrDirectory.
type RootCertificate struct {
	kind rootKind
	buf  []byte
	path string
}

// RootASN1Buffer wraps DER-encoded certificate bytes.
func RootASN1Buffer(buf []byte) RootCertificate {
	return RootCertificate{kind: rootASN1Buffer, buf: buf}
}

// RootPEMBuffer wraps PEM-encoded certificate bytes.
func RootPEMBuffer(buf []byte) RootCertificate {
	return RootCertificate{kind: rootPEMBuffer, buf: buf}
}

// RootPEMFileOrDirectory points at a PEM file or a directory of PEM files.
// Which one is decided when the certificate is loaded.
func RootPEMFileOrDirectory(path string) RootCertificate {
	return RootCertificate{kind: rootPEMFileOrDirectory, path: path}
}

func (r RootCertificate) String() string {
	switch r.kind {
	case rootASN1Buffer:
		return fmt.Sprintf("RootCertificate(ASN1 buffer, %d bytes)", len(r.buf))
	case rootPEMBuffer:
		return fmt.Sprintf("RootCertificate(PEM buffer, %d bytes)", len(r.buf))
	case rootPEMFileOrDirectory:
		return fmt.Sprintf("RootCertificate(PEM path %q)", r.path)
	default:
		return "RootCertificate(empty)"
	}
}

type secretKind int

const (
	secretASN1Buffer secretKind = iota + 1
	secretASN1File
	secretPEMBuffer
	secretPEMFile
)

// Secret is certificate or private key material: DER or PEM, in memory or in
// a file. Construct one with ASN1Buffer, ASN1File, PEMBuffer or PEMFile.
// String never prints buffer contents.
type Secret struct {
	kind secretKind
	buf  []byte
	path string
}

// ASN1Buffer wraps DER-encoded bytes.
func ASN1Buffer(buf []byte) Secret { return Secret{kind: secretASN1Buffer, buf: buf} }

// ASN1File points at a DER-encoded file.
func ASN1File(path string) Secret { return Secret{kind: secretASN1File, path: path} }

// PEMBuffer wraps PEM-encoded bytes.
func PEMBuffer(buf []byte) Secret { return Secret{kind: secretPEMBuffer, buf: buf} }

// PEMFile points at a PEM-encoded file.
func PEMFile(path string) Secret { return Secret{kind: secretPEMFile, path: path} }

// IsFile reports whether the secret is read from the filesystem.
func (s Secret) IsFile() bool {
	return s.kind == secretASN1File || s.kind == secretPEMFile
}

// Path returns the file path for file secrets and "" otherwise.
func (s Secret) Path() string { return s.path }

func (s Secret) String() string {
	switch s.kind {
	case secretASN1Buffer:
		return fmt.Sprintf("Secret(ASN1 buffer, %d bytes)", len(s.buf))
	case secretASN1File:
		return fmt.Sprintf("Secret(ASN1 file %q)", s.path)
	case secretPEMBuffer:
		return fmt.Sprintf("Secret(PEM buffer, %d bytes)", len(s.buf))
	case secretPEMFile:
		return fmt.Sprintf("Secret(PEM file %q)", s.path)
	default:
		return "Secret(empty)"
	}
}
