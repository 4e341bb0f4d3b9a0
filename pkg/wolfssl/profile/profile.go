// Package profile describes a wolfssl Context declaratively, in YAML or TOML,
// and builds it.
//
// Example profile:
//
//	name: edge
//	method: tls-server
//	cipher_list: TLS13-AES128-GCM-SHA256:ECDHE-ECDSA-AES128-GCM-SHA256
//	roots:
//	  - file: /etc/wolfssl/ca.pem
//	certificate:
//	  file: /etc/wolfssl/server-cert.pem
//	private_key:
//	  file: /etc/wolfssl/server-key.der
//	  format: asn1
package profile

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/coinbase/wolfssl-go/pkg/wolfssl"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("profile: invalid")

// Encoding formats of certificate material.
const (
	FormatPEM  = "pem"
	FormatASN1 = "asn1"
)

// Profile is the declarative form of a ContextBuilder chain. Steps run in
// the order: roots, cipher list, certificate, private key, secure
// renegotiation.
type Profile struct {
	Name                string     `yaml:"name" toml:"name"`
	Method              string     `yaml:"method" toml:"method"`
	Roots               []Material `yaml:"roots,omitempty" toml:"roots,omitempty"`
	CipherList          string     `yaml:"cipher_list,omitempty" toml:"cipher_list,omitempty"`
	Certificate         *Material  `yaml:"certificate,omitempty" toml:"certificate,omitempty"`
	PrivateKey          *Material  `yaml:"private_key,omitempty" toml:"private_key,omitempty"`
	SecureRenegotiation bool       `yaml:"secure_renegotiation,omitempty" toml:"secure_renegotiation,omitempty"`
}

// Material is certificate or key material read from a file or given inline.
// Inline PEM is the PEM text; inline ASN.1 is standard base64 of the DER
// bytes. For roots, File may name a directory of PEM files.
type Material struct {
	File   string `yaml:"file,omitempty" toml:"file,omitempty"`
	Inline string `yaml:"inline,omitempty" toml:"inline,omitempty"`
	Format string `yaml:"format,omitempty" toml:"format,omitempty"`
}

// Load reads a profile, choosing the decoder from the file extension:
// .toml for TOML, anything else for YAML. Relative material paths are
// resolved against the profile's directory.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	var p *Profile
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		p, err = ParseTOML(data)
	} else {
		p, err = ParseYAML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	p.resolve(filepath.Dir(path))
	return p, nil
}

// ParseYAML decodes and validates a YAML profile. Unknown keys are rejected.
func ParseYAML(data []byte) (*Profile, error) {
	var p Profile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode yaml profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// ParseTOML decodes and validates a TOML profile. Unknown keys are rejected.
func ParseTOML(data []byte) (*Profile, error) {
	var p Profile
	meta, err := toml.Decode(string(data), &p)
	if err != nil {
		return nil, fmt.Errorf("decode toml profile: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: unknown key %q", ErrInvalid, undecoded[0].String())
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// EncodeYAML encodes p as YAML.
func (p *Profile) EncodeYAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeTOML encodes p as TOML.
func (p *Profile) EncodeTOML() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (p *Profile) resolve(dir string) {
	fix := func(m *Material) {
		if m != nil && m.File != "" && !filepath.IsAbs(m.File) {
			m.File = filepath.Join(dir, m.File)
		}
	}
	for i := range p.Roots {
		fix(&p.Roots[i])
	}
	fix(p.Certificate)
	fix(p.PrivateKey)
}

// Validate checks the method name and every material entry.
func (p *Profile) Validate() error {
	if _, err := wolfssl.ParseMethod(p.Method); err != nil {
		return fmt.Errorf("%w: method %q", ErrInvalid, p.Method)
	}
	for i, r := range p.Roots {
		if err := r.validate(fmt.Sprintf("roots[%d]", i)); err != nil {
			return err
		}
		if r.File != "" && r.format() != FormatPEM {
			return fmt.Errorf("%w: roots[%d]: root files must be PEM", ErrInvalid, i)
		}
	}
	if p.Certificate != nil {
		if err := p.Certificate.validate("certificate"); err != nil {
			return err
		}
	}
	if p.PrivateKey != nil {
		if err := p.PrivateKey.validate("private_key"); err != nil {
			return err
		}
	}
	if (p.Certificate == nil) != (p.PrivateKey == nil) {
		return fmt.Errorf("%w: certificate and private_key must be set together", ErrInvalid)
	}
	return nil
}

func (m Material) format() string {
	switch strings.ToLower(strings.TrimSpace(m.Format)) {
	case "", FormatPEM:
		return FormatPEM
	case FormatASN1, "der":
		return FormatASN1
	default:
		return ""
	}
}

func (m Material) validate(field string) error {
	if (m.File == "") == (m.Inline == "") {
		return fmt.Errorf("%w: %s: exactly one of file or inline is required", ErrInvalid, field)
	}
	if m.format() == "" {
		return fmt.Errorf("%w: %s: unknown format %q", ErrInvalid, field, m.Format)
	}
	return nil
}

// inlineBytes returns the decoded inline material.
func (m Material) inlineBytes() ([]byte, error) {
	if m.format() == FormatPEM {
		return []byte(m.Inline), nil
	}
	b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(m.Inline))
	if err != nil {
		return nil, fmt.Errorf("%w: inline asn1 is not base64: %v", ErrInvalid, err)
	}
	return b, nil
}

func (m Material) root() (wolfssl.RootCertificate, error) {
	if m.File != "" {
		return wolfssl.RootPEMFileOrDirectory(m.File), nil
	}
	b, err := m.inlineBytes()
	if err != nil {
		return wolfssl.RootCertificate{}, err
	}
	if m.format() == FormatASN1 {
		return wolfssl.RootASN1Buffer(b), nil
	}
	return wolfssl.RootPEMBuffer(b), nil
}

// secret returns the Secret and, for inline material, the decoded buffer so
// the caller can wipe it.
func (m Material) secret() (wolfssl.Secret, []byte, error) {
	asn1 := m.format() == FormatASN1
	if m.File != "" {
		if asn1 {
			return wolfssl.ASN1File(m.File), nil, nil
		}
		return wolfssl.PEMFile(m.File), nil, nil
	}
	b, err := m.inlineBytes()
	if err != nil {
		return wolfssl.Secret{}, nil, err
	}
	if asn1 {
		return wolfssl.ASN1Buffer(b), b, nil
	}
	return wolfssl.PEMBuffer(b), b, nil
}

// Files lists every file path the profile reads.
func (p *Profile) Files() []string {
	var out []string
	for _, r := range p.Roots {
		if r.File != "" {
			out = append(out, r.File)
		}
	}
	for _, m := range []*Material{p.Certificate, p.PrivateKey} {
		if m != nil && m.File != "" {
			out = append(out, m.File)
		}
	}
	return out
}
