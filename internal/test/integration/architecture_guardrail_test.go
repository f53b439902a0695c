//go:build integration
// +build integration

package integration

import (
	"fmt"
	"go/ast"
	"go/types"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

const modulePath = "github.com/louisbranch/agenda"

// forbiddenTransportImports are storage details the web and MCP surfaces must
// reach only through the personas service.
var forbiddenTransportImports = []string{
	"database/sql",
	"modernc.org/sqlite",
	modulePath + "/internal/services/agenda/storage/sqlite",
}

func TestTransportPackagesDoNotImportStorageDrivers(t *testing.T) {
	pkgs := loadPackages(t, packages.NeedName|packages.NeedImports|packages.NeedDeps, transportGuardrailPatterns()...)

	var violations []string
	for _, pkg := range pkgs {
		for path := range pkg.Imports {
			if slices.Contains(forbiddenTransportImports, path) {
				violations = append(violations, fmt.Sprintf("%s imports %s", pkg.PkgPath, path))
			}
		}
	}
	reportViolations(t, "transport packages must not import storage drivers", violations)
}

func TestTransportPackagesDoNotMutateStoresDirectly(t *testing.T) {
	mode := packages.NeedName | packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo | packages.NeedDeps | packages.NeedImports
	storagePkgs := loadPackages(t, mode, "./internal/services/agenda/storage")
	store := lookupInterface(t, storagePkgs[0], "PersonaStore")

	mutations := map[string]struct{}{
		"CreatePersona": {},
		"UpdatePersona": {},
		"DeletePersona": {},
		"EnsureSchema":  {},
	}

	var violations []string
	for _, pkg := range loadPackages(t, mode, transportGuardrailPatterns()...) {
		for _, file := range pkg.Syntax {
			ast.Inspect(file, func(node ast.Node) bool {
				call, ok := node.(*ast.CallExpr)
				if !ok {
					return true
				}
				sel, ok := call.Fun.(*ast.SelectorExpr)
				if !ok {
					return true
				}
				if _, ok := mutations[sel.Sel.Name]; !ok {
					return true
				}
				receiver := pkg.TypesInfo.TypeOf(sel.X)
				if receiver == nil || !implements(receiver, store) {
					return true
				}
				violations = append(violations, fmt.Sprintf("%s: %s calls %s", pkg.Fset.Position(sel.Pos()), pkg.PkgPath, sel.Sel.Name))
				return true
			})
		}
	}
	reportViolations(t, "persona writes must go through the personas service", violations)
}

func transportGuardrailPatterns() []string {
	return []string{
		"./internal/services/web/...",
		"./internal/services/mcp/...",
	}
}

func loadPackages(t *testing.T, mode packages.LoadMode, patterns ...string) []*packages.Package {
	t.Helper()
	config := &packages.Config{
		Mode:  mode,
		Tests: false,
		Dir:   repoRoot(t),
	}
	pkgs, err := packages.Load(config, patterns...)
	if err != nil {
		t.Fatalf("load packages %v: %v", patterns, err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		t.Fatalf("package load errors for %v", patterns)
	}
	if len(pkgs) == 0 {
		t.Fatalf("no packages matched %v", patterns)
	}
	return pkgs
}

func lookupInterface(t *testing.T, pkg *packages.Package, name string) *types.Interface {
	t.Helper()
	obj := pkg.Types.Scope().Lookup(name)
	if obj == nil {
		t.Fatalf("storage interface %s not found", name)
	}
	iface, ok := obj.Type().Underlying().(*types.Interface)
	if !ok {
		t.Fatalf("storage type %s is not an interface", name)
	}
	return iface
}

func implements(typ types.Type, iface *types.Interface) bool {
	if _, isInterface := typ.Underlying().(*types.Interface); isInterface {
		return types.Implements(typ, iface)
	}
	return types.Implements(typ, iface) || types.Implements(types.NewPointer(typ), iface)
}

func reportViolations(t *testing.T, headline string, violations []string) {
	t.Helper()
	if len(violations) == 0 {
		return
	}
	sort.Strings(violations)
	formatted := make([]string, 0, len(violations))
	for _, violation := range violations {
		formatted = append(formatted, "- "+filepath.ToSlash(violation))
	}
	t.Fatalf("%s:\n%s", headline, strings.Join(formatted, "\n"))
}

func repoRoot(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("get working dir: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(wd, "go.mod")); err == nil {
			return wd
		}
		parent := filepath.Dir(wd)
		if parent == wd {
			t.Fatal("go.mod not found")
		}
		wd = parent
	}
}

func TestTransportGuardrailScopes(t *testing.T) {
	patterns := transportGuardrailPatterns()
	want := map[string]bool{"./internal/services/web/...": false, "./internal/services/mcp/...": false}
	for _, pattern := range patterns {
		if _, ok := want[pattern]; ok {
			want[pattern] = true
		}
	}
	for pattern, found := range want {
		if !found {
			t.Fatalf("expected scan scope to include %s, got %v", pattern, patterns)
		}
	}
}
