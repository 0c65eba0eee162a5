package internalcheck

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

var secretPackages = []string{
	"kyber-kem/kem",
	"kyber-kem/pke",
	"kyber-kem/codec",
	"kyber-kem/internal/ctime",
}

func load(t *testing.T, patterns ...string) []*packages.Package {
	t.Helper()
	cfg := &packages.Config{
		Mode: packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo | packages.NeedFiles | packages.NeedName,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		t.Fatalf("packages contain errors")
	}
	return pkgs
}

func TestNoDirectByteComparison(t *testing.T) {
	var findings []string
	for _, pkg := range load(t, secretPackages...) {
		info := pkg.TypesInfo
		for _, file := range pkg.Syntax {
			ast.Inspect(file, func(n ast.Node) bool {
				switch x := n.(type) {
				case *ast.BinaryExpr:
					if x.Op != token.EQL && x.Op != token.NEQ {
						return true
					}
					if isByteSlice(info.TypeOf(x.X)) && isByteSlice(info.TypeOf(x.Y)) {
						findings = append(findings, fmt.Sprintf("%s: == on byte data; use ctime.Verify", pkg.Fset.Position(x.Pos())))
					}
				case *ast.CallExpr:
					if isPkgFunc(info, x, "bytes", "Equal") || isPkgFunc(info, x, "bytes", "Compare") {
						findings = append(findings, fmt.Sprintf("%s: bytes comparison; use ctime.Verify", pkg.Fset.Position(x.Pos())))
					}
				}
				return true
			})
		}
	}
	if len(findings) > 0 {
		t.Fatalf("constant-time policy violation:\n%s", strings.Join(findings, "\n"))
	}
}

// The outcome of the re-encryption check feeds ctime.CMov and nothing else.
func TestNoBranchOnVerify(t *testing.T) {
	var findings []string
	for _, pkg := range load(t, "kyber-kem/kem") {
		info := pkg.TypesInfo
		verifyResults := map[types.Object]bool{}
		for _, file := range pkg.Syntax {
			ast.Inspect(file, func(n ast.Node) bool {
				as, ok := n.(*ast.AssignStmt)
				if !ok || len(as.Rhs) != 1 {
					return true
				}
				call, ok := as.Rhs[0].(*ast.CallExpr)
				if !ok || !isPkgFunc(info, call, "kyber-kem/internal/ctime", "Verify") {
					return true
				}
				for _, lhs := range as.Lhs {
					if id, ok := lhs.(*ast.Ident); ok {
						if obj := info.ObjectOf(id); obj != nil {
							verifyResults[obj] = true
						}
					}
				}
				return true
			})
		}
		if len(verifyResults) == 0 {
			t.Fatalf("kem no longer calls ctime.Verify")
		}
		for _, file := range pkg.Syntax {
			ast.Inspect(file, func(n ast.Node) bool {
				var cond ast.Expr
				switch x := n.(type) {
				case *ast.IfStmt:
					cond = x.Cond
				case *ast.SwitchStmt:
					cond = x.Tag
				default:
					return true
				}
				if cond != nil && mentions(info, cond, verifyResults) {
					findings = append(findings, fmt.Sprintf("%s: branch on re-encryption result", pkg.Fset.Position(n.Pos())))
				}
				return true
			})
		}
	}
	if len(findings) > 0 {
		t.Fatalf("constant-time policy violation:\n%s", strings.Join(findings, "\n"))
	}
}

// Division latency can depend on the operands, so codec and ring only
// divide by constants folded at compile time.
func TestNoVariableDivision(t *testing.T) {
	var findings []string
	for _, pkg := range load(t, "kyber-kem/codec", "kyber-kem/ring") {
		info := pkg.TypesInfo
		for _, file := range pkg.Syntax {
			ast.Inspect(file, func(n ast.Node) bool {
				be, ok := n.(*ast.BinaryExpr)
				if !ok || (be.Op != token.QUO && be.Op != token.REM) {
					return true
				}
				if tv, ok := info.Types[be]; ok && tv.Value != nil {
					return true
				}
				findings = append(findings, fmt.Sprintf("%s: division by a runtime value", pkg.Fset.Position(be.Pos())))
				return true
			})
		}
	}
	if len(findings) > 0 {
		t.Fatalf("constant-time policy violation:\n%s", strings.Join(findings, "\n"))
	}
}

// Scratch buffers that kem allocates with := hold values derived from the
// decrypted message. Each one that is not handed back to the caller must be
// wiped by a deferred ctime.Wipe.
func TestKEMScratchIsWiped(t *testing.T) {
	var findings []string
	checked := 0
	for _, pkg := range load(t, "kyber-kem/kem") {
		info := pkg.TypesInfo
		for _, file := range pkg.Syntax {
			for _, decl := range file.Decls {
				fd, ok := decl.(*ast.FuncDecl)
				if !ok || fd.Body == nil {
					continue
				}
				scratch := map[types.Object]token.Pos{}
				wiped := map[types.Object]bool{}
				returned := map[types.Object]bool{}
				ast.Inspect(fd.Body, func(n ast.Node) bool {
					switch x := n.(type) {
					case *ast.ReturnStmt:
						for _, r := range x.Results {
							if id, ok := r.(*ast.Ident); ok {
								returned[info.ObjectOf(id)] = true
							}
						}
					case *ast.AssignStmt:
						if x.Tok != token.DEFINE || len(x.Lhs) != 1 || len(x.Rhs) != 1 {
							return true
						}
						call, ok := x.Rhs[0].(*ast.CallExpr)
						if !ok || !isMake(info, call) || !isByteSlice(info.TypeOf(call)) {
							return true
						}
						if id, ok := x.Lhs[0].(*ast.Ident); ok {
							scratch[info.ObjectOf(id)] = id.Pos()
						}
					case *ast.DeferStmt:
						if isPkgFunc(info, x.Call, "kyber-kem/internal/ctime", "Wipe") && len(x.Call.Args) == 1 {
							ast.Inspect(x.Call.Args[0], func(n ast.Node) bool {
								if id, ok := n.(*ast.Ident); ok {
									wiped[info.ObjectOf(id)] = true
								}
								return true
							})
						}
					}
					return true
				})
				for obj, pos := range scratch {
					if returned[obj] {
						continue
					}
					checked++
					if !wiped[obj] {
						findings = append(findings, fmt.Sprintf("%s: %s in %s is never wiped", pkg.Fset.Position(pos), obj.Name(), fd.Name.Name))
					}
				}
			}
		}
	}
	if checked == 0 {
		t.Fatalf("kem has no scratch buffers; the check is stale")
	}
	if len(findings) > 0 {
		t.Fatalf("secret hygiene violation:\n%s", strings.Join(findings, "\n"))
	}
}

func isMake(info *types.Info, call *ast.CallExpr) bool {
	id, ok := call.Fun.(*ast.Ident)
	if !ok {
		return false
	}
	_, ok = info.ObjectOf(id).(*types.Builtin)
	return ok && id.Name == "make"
}

func mentions(info *types.Info, e ast.Expr, objs map[types.Object]bool) bool {
	found := false
	ast.Inspect(e, func(n ast.Node) bool {
		if id, ok := n.(*ast.Ident); ok && objs[info.ObjectOf(id)] {
			found = true
		}
		return !found
	})
	return found
}

func isPkgFunc(info *types.Info, call *ast.CallExpr, pkgPath, name string) bool {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != name {
		return false
	}
	fn, ok := info.ObjectOf(sel.Sel).(*types.Func)
	return ok && fn.Pkg() != nil && fn.Pkg().Path() == pkgPath
}

func isByteSlice(typ types.Type) bool {
	if typ == nil {
		return false
	}
	switch tt := typ.(type) {
	case *types.Slice:
		return isByte(tt.Elem())
	case *types.Pointer:
		return isByteSlice(tt.Elem())
	case *types.Named:
		return isByteSlice(tt.Underlying())
	case *types.Array:
		return isByte(tt.Elem())
	default:
		return false
	}
}

func isByte(t types.Type) bool {
	basic, ok := t.(*types.Basic)
	return ok && basic.Kind() == types.Byte
}
