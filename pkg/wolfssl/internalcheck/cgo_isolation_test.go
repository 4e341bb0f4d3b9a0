package internalcheck

import (
	"go/parser"
	"go/token"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

const backendPath = modulePath + "/pkg/wolfssl/internal/backend"

// Files excluded by build tags are checked too, so the wolfssl-tagged cgo
// sources are covered without cgo enabled.
func TestCgoOnlyInBackend(t *testing.T) {
	pkgs := load(t, packages.NeedName|packages.NeedFiles, modulePath+"/...")

	var findings []string
	fset := token.NewFileSet()
	for _, pkg := range pkgs {
		if pkg.PkgPath == backendPath {
			continue
		}
		files := append(append([]string(nil), pkg.GoFiles...), pkg.IgnoredFiles...)
		for _, path := range files {
			if !strings.HasSuffix(path, ".go") {
				continue
			}
			f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
			if err != nil {
				t.Fatalf("parse %s: %v", path, err)
			}
			for _, imp := range f.Imports {
				p, _ := strconv.Unquote(imp.Path.Value)
				if p == "C" {
					findings = append(findings, fset.Position(imp.Pos()).String())
				}
			}
		}
	}
	if len(findings) > 0 {
		t.Fatalf("cgo used outside %s:\n%s", backendPath, strings.Join(findings, "\n"))
	}
}
