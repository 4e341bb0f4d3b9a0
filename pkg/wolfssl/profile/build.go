package profile

import (
	"fmt"

	"github.com/coinbase/wolfssl-go/pkg/wolfssl"
)

// Build runs the builder chain the profile describes. Inline private key
// bytes are zeroized once the engine has taken its copy.
func (p *Profile) Build(opts ...wolfssl.Option) (*wolfssl.Context, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	method, _ := wolfssl.ParseMethod(p.Method)

	b, err := wolfssl.NewContextBuilder(method, opts...)
	if err != nil {
		return nil, p.wrap(err)
	}

	for i, m := range p.Roots {
		root, err := m.root()
		if err != nil {
			b.Discard()
			return nil, p.wrap(fmt.Errorf("roots[%d]: %w", i, err))
		}
		if b, err = b.WithRootCertificate(root); err != nil {
			return nil, p.wrap(fmt.Errorf("roots[%d]: %w", i, err))
		}
	}

	if p.CipherList != "" {
		if b, err = b.WithCipherList(p.CipherList); err != nil {
			return nil, p.wrap(err)
		}
	}

	if p.Certificate != nil {
		cert, _, err := p.Certificate.secret()
		if err != nil {
			b.Discard()
			return nil, p.wrap(fmt.Errorf("certificate: %w", err))
		}
		if b, err = b.WithCertificate(cert); err != nil {
			return nil, p.wrap(err)
		}

		key, keyBuf, err := p.PrivateKey.secret()
		if err != nil {
			b.Discard()
			return nil, p.wrap(fmt.Errorf("private_key: %w", err))
		}
		b, err = b.WithPrivateKey(key)
		wolfssl.ZeroizeBytes(keyBuf)
		if err != nil {
			return nil, p.wrap(err)
		}
	}

	if p.SecureRenegotiation {
		if b, err = b.WithSecureRenegotiation(); err != nil {
			return nil, p.wrap(err)
		}
	}
	return b.Build(), nil
}

func (p *Profile) wrap(err error) error {
	if p.Name == "" {
		return fmt.Errorf("build profile: %w", err)
	}
	return fmt.Errorf("build profile %q: %w", p.Name, err)
}
