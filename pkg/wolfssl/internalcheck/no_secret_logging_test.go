package internalcheck

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

const loggingPath = modulePath + "/pkg/wolfssl/logging"

// TestNoSecretFormatting rejects %x verbs in format strings and byte slices
// passed to fmt, log, slog or the wolfssl logger. Certificate and key buffers
// are []byte, so either would print them.
func TestNoSecretFormatting(t *testing.T) {
	pkgs := load(t, packages.NeedName|packages.NeedSyntax|packages.NeedTypes|packages.NeedTypesInfo|packages.NeedFiles,
		modulePath+"/pkg/wolfssl/...", modulePath+"/cmd/...")

	var findings []string
	for _, pkg := range pkgs {
		info := pkg.TypesInfo
		for _, file := range pkg.Syntax {
			ast.Inspect(file, func(n ast.Node) bool {
				call, ok := n.(*ast.CallExpr)
				if !ok {
					return true
				}
				sel, ok := call.Fun.(*ast.SelectorExpr)
				if !ok {
					return true
				}
				obj := info.Uses[sel.Sel]
				if obj == nil || obj.Pkg() == nil || !isOutputCall(obj.Pkg().Path(), obj.Name()) {
					return true
				}

				for _, arg := range call.Args {
					pos := pkg.Fset.Position(arg.Pos())
					if lit, ok := arg.(*ast.BasicLit); ok && lit.Kind == token.STRING {
						if v, err := strconv.Unquote(lit.Value); err == nil && containsHexVerb(v) {
							findings = append(findings, fmt.Sprintf("%s: avoid %%x formatting", pos))
						}
						continue
					}
					if isByteSlice(info.TypeOf(arg)) {
						findings = append(findings, fmt.Sprintf("%s: byte slice passed to %s", pos, obj.Name()))
					}
				}
				return true
			})
		}
	}
	if len(findings) > 0 {
		t.Fatalf("secret logging policy violation:\n%s", strings.Join(findings, "\n"))
	}
}

func isOutputCall(pkgPath, name string) bool {
	switch pkgPath {
	case "fmt":
		return strings.HasSuffix(name, "f") || strings.HasPrefix(name, "Print") || strings.HasPrefix(name, "Fprint")
	case "log":
		return true
	case "log/slog":
		switch name {
		case "Debug", "Info", "Warn", "Error", "DebugContext", "InfoContext", "WarnContext", "ErrorContext", "Any", "String":
			return true
		}
	case loggingPath:
		switch name {
		case "Debug", "Info", "Warn", "Error", "With":
			return true
		}
	}
	return false
}

func containsHexVerb(s string) bool {
	return strings.Contains(s, "%x") || strings.Contains(s, "%X")
}

func isByteSlice(typ types.Type) bool {
	if typ == nil {
		return false
	}
	s, ok := typ.Underlying().(*types.Slice)
	if !ok {
		return false
	}
	b, ok := s.Elem().(*types.Basic)
	return ok && b.Kind() == types.Byte
}
