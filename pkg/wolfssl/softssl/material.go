package softssl

import (
	"crypto"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"

	"github.com/coinbase/wolfssl-go/pkg/wolfssl/native"
)

var (
	errNoPEM   = errors.New("no PEM block")
	errFraming = errors.New("malformed DER framing")
)

// derElement checks that buf holds exactly one DER SEQUENCE.
func derElement(buf []byte) ([]byte, error) {
	s := cryptobyte.String(buf)
	var elem cryptobyte.String
	if !s.ReadASN1Element(&elem, asn1.SEQUENCE) || !s.Empty() {
		return nil, errFraming
	}
	return elem, nil
}

func parseCertificates(buf []byte, ft native.FileType) ([]*x509.Certificate, native.Status) {
	if len(buf) == 0 {
		return nil, native.StatusBadFuncArg
	}
	switch ft {
	case native.FileTypeASN1:
		der, err := derElement(buf)
		if err != nil {
			return nil, native.StatusAsnParse
		}
		cert, err := x509.ParseCertificate(der)
		if err != nil {
			return nil, native.StatusAsnParse
		}
		return []*x509.Certificate{cert}, native.StatusSuccess
	case native.FileTypePEM:
		var certs []*x509.Certificate
		rest := buf
		for {
			var block *pem.Block
			block, rest = pem.Decode(rest)
			if block == nil {
				break
			}
			if block.Type != "CERTIFICATE" {
				continue
			}
			cert, err := x509.ParseCertificate(block.Bytes)
			if err != nil {
				return nil, native.StatusAsnParse
			}
			certs = append(certs, cert)
		}
		if len(certs) == 0 {
			return nil, native.StatusAsnNoPEM
		}
		return certs, native.StatusSuccess
	default:
		return nil, native.StatusBadFileType
	}
}

func parsePrivateKey(buf []byte, ft native.FileType) (crypto.PrivateKey, native.Status) {
	if len(buf) == 0 {
		return nil, native.StatusBadFuncArg
	}
	var der []byte
	switch ft {
	case native.FileTypeASN1:
		d, err := derElement(buf)
		if err != nil {
			return nil, native.StatusAsnParse
		}
		der = d
	case native.FileTypePEM:
		rest := buf
		for der == nil {
			var block *pem.Block
			block, rest = pem.Decode(rest)
			if block == nil {
				return nil, native.StatusAsnNoPEM
			}
			if strings.HasSuffix(block.Type, "PRIVATE KEY") {
				der = block.Bytes
			}
		}
	default:
		return nil, native.StatusBadFileType
	}

	if key, err := x509.ParsePKCS8PrivateKey(der); err == nil {
		return key, native.StatusSuccess
	}
	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return key, native.StatusSuccess
	}
	if key, err := x509.ParseECPrivateKey(der); err == nil {
		return key, native.StatusSuccess
	}
	return nil, native.StatusAsnParse
}

// readFile maps filesystem failures onto the status wolfSSL's file loaders
// report.
func readFile(path string) ([]byte, native.Status) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, native.StatusBadFile
	}
	return data, native.StatusSuccess
}

// LoadVerifyBuffer implements native.Engine.
func (e *Engine) LoadVerifyBuffer(ctx native.CtxHandle, buf []byte, ft native.FileType) native.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.context(ctx)
	if !ok {
		return native.StatusBadFuncArg
	}
	if status, ok := e.takeFault(OpLoadVerifyBuffer); ok {
		return status
	}
	certs, status := parseCertificates(buf, ft)
	if status != native.StatusSuccess {
		return status
	}
	st.roots = append(st.roots, certs...)
	return native.StatusSuccess
}

// LoadVerifyLocations implements native.Engine. Exactly one of file and dir
// must be set. Files in dir that hold no PEM certificate are skipped; the
// call fails if nothing was loaded.
func (e *Engine) LoadVerifyLocations(ctx native.CtxHandle, file, dir *native.CString) native.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.context(ctx)
	if !ok {
		return native.StatusBadFuncArg
	}
	if (file == nil) == (dir == nil) {
		return native.StatusBadFuncArg
	}
	if status, ok := e.takeFault(OpLoadVerifyLocations); ok {
		return status
	}

	if file != nil {
		data, status := readFile(file.String())
		if status != native.StatusSuccess {
			return status
		}
		certs, status := parseCertificates(data, native.FileTypePEM)
		if status != native.StatusSuccess {
			return native.StatusBadFile
		}
		st.roots = append(st.roots, certs...)
		st.verifyFiles = append(st.verifyFiles, file.String())
		return native.StatusSuccess
	}

	entries, err := os.ReadDir(filepath.Clean(dir.String()))
	if err != nil {
		return native.StatusBadPath
	}
	var loaded []*x509.Certificate
	for _, ent := range entries {
		if !ent.Type().IsRegular() {
			continue
		}
		data, status := readFile(filepath.Join(dir.String(), ent.Name()))
		if status != native.StatusSuccess {
			continue
		}
		certs, status := parseCertificates(data, native.FileTypePEM)
		if status != native.StatusSuccess {
			continue
		}
		loaded = append(loaded, certs...)
	}
	if len(loaded) == 0 {
		return native.StatusFailure
	}
	st.roots = append(st.roots, loaded...)
	st.verifyDirs = append(st.verifyDirs, dir.String())
	return native.StatusSuccess
}

func (e *Engine) useCertificate(ctx native.CtxHandle, buf []byte, ft native.FileType) native.Status {
	st, ok := e.context(ctx)
	if !ok {
		return native.StatusBadFuncArg
	}
	if status, ok := e.takeFault(OpUseCertificate); ok {
		return status
	}
	certs, status := parseCertificates(buf, ft)
	if status != native.StatusSuccess {
		return status
	}
	st.leaf = certs[0]
	return native.StatusSuccess
}

// UseCertificateBuffer implements native.Engine.
func (e *Engine) UseCertificateBuffer(ctx native.CtxHandle, buf []byte, ft native.FileType) native.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.useCertificate(ctx, buf, ft)
}

// UseCertificateFile implements native.Engine.
func (e *Engine) UseCertificateFile(ctx native.CtxHandle, file *native.CString, ft native.FileType) native.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	data, status := readFile(file.String())
	if status != native.StatusSuccess {
		return status
	}
	if status := e.useCertificate(ctx, data, ft); status != native.StatusSuccess {
		if status == native.StatusBadFileType || status == native.StatusBadFuncArg {
			return status
		}
		return native.StatusBadFile
	}
	return native.StatusSuccess
}

func (e *Engine) usePrivateKey(ctx native.CtxHandle, buf []byte, ft native.FileType) native.Status {
	st, ok := e.context(ctx)
	if !ok {
		return native.StatusBadFuncArg
	}
	if status, ok := e.takeFault(OpUsePrivateKey); ok {
		return status
	}
	key, status := parsePrivateKey(buf, ft)
	if status != native.StatusSuccess {
		return status
	}
	st.key = key
	return native.StatusSuccess
}

// UsePrivateKeyBuffer implements native.Engine.
func (e *Engine) UsePrivateKeyBuffer(ctx native.CtxHandle, buf []byte, ft native.FileType) native.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.usePrivateKey(ctx, buf, ft)
}

// UsePrivateKeyFile implements native.Engine.
func (e *Engine) UsePrivateKeyFile(ctx native.CtxHandle, file *native.CString, ft native.FileType) native.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	data, status := readFile(file.String())
	if status != native.StatusSuccess {
		return status
	}
	if status := e.usePrivateKey(ctx, data, ft); status != native.StatusSuccess {
		if status == native.StatusBadFileType || status == native.StatusBadFuncArg {
			return status
		}
		return native.StatusBadFile
	}
	return native.StatusSuccess
}

// UseSecureRenegotiation implements native.Engine.
func (e *Engine) UseSecureRenegotiation(ctx native.CtxHandle) native.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.context(ctx)
	if !ok {
		return native.StatusBadFuncArg
	}
	if status, ok := e.takeFault(OpUseSecureRenegotiation); ok {
		return status
	}
	st.secureReneg = true
	return native.StatusSuccess
}
