package softssl

import (
	"crypto/tls"
	"strings"

	"github.com/coinbase/wolfssl-go/pkg/wolfssl/native"
)

// cipherSuites maps wolfSSL suite names onto crypto/tls identifiers.
var cipherSuites = []struct {
	name string
	id   uint16
}{
	{"TLS13-AES128-GCM-SHA256", tls.TLS_AES_128_GCM_SHA256},
	{"TLS13-AES256-GCM-SHA384", tls.TLS_AES_256_GCM_SHA384},
	{"TLS13-CHACHA20-POLY1305-SHA256", tls.TLS_CHACHA20_POLY1305_SHA256},
	{"ECDHE-ECDSA-AES128-GCM-SHA256", tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256},
	{"ECDHE-ECDSA-AES256-GCM-SHA384", tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384},
	{"ECDHE-RSA-AES128-GCM-SHA256", tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256},
	{"ECDHE-RSA-AES256-GCM-SHA384", tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384},
	{"ECDHE-ECDSA-CHACHA20-POLY1305", tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256},
	{"ECDHE-RSA-CHACHA20-POLY1305", tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256},
	{"ECDHE-ECDSA-AES128-SHA256", tls.TLS_ECDHE_ECDSA_WITH_AES_128_CBC_SHA256},
	{"ECDHE-RSA-AES128-SHA256", tls.TLS_ECDHE_RSA_WITH_AES_128_CBC_SHA256},
	{"AES128-GCM-SHA256", tls.TLS_RSA_WITH_AES_128_GCM_SHA256},
	{"AES256-GCM-SHA384", tls.TLS_RSA_WITH_AES_256_GCM_SHA384},
}

// resolveCipherList turns a colon separated wolfSSL cipher list into suite
// ids. Unknown names are skipped, as wolfSSL does; the list is rejected only
// when nothing in it is recognised. "ALL" and "DEFAULT" select every suite.
func resolveCipherList(list string) []uint16 {
	var ids []uint16
	seen := make(map[uint16]bool)
	add := func(id uint16) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, name := range strings.Split(list, ":") {
		name = strings.TrimSpace(name)
		switch name {
		case "":
			continue
		case "ALL", "DEFAULT":
			for _, cs := range cipherSuites {
				add(cs.id)
			}
			continue
		}
		for _, cs := range cipherSuites {
			if cs.name == name {
				add(cs.id)
				break
			}
		}
	}
	return ids
}

// SetCipherList implements native.Engine.
func (e *Engine) SetCipherList(ctx native.CtxHandle, list *native.CString) native.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.context(ctx)
	if !ok || list == nil {
		return native.StatusBadFuncArg
	}
	if status, ok := e.takeFault(OpSetCipherList); ok {
		return status
	}
	ids := resolveCipherList(list.String())
	if len(ids) == 0 {
		return native.StatusFailure
	}
	st.cipherList = list.String()
	st.cipherSuites = ids
	return native.StatusSuccess
}

// CipherNames lists the suite names SetCipherList recognises.
func CipherNames() []string {
	names := make([]string, len(cipherSuites))
	for i, cs := range cipherSuites {
		names[i] = cs.name
	}
	return names
}
