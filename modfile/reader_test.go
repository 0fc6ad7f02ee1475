package modfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"fortran-middleend/ast"
	"fortran-middleend/report"
	"fortran-middleend/symbols"
)

// fakeParser stands in for the external grammar parser (spec.md §1
// Non-goals): it ignores the file's actual contents and returns whatever
// unit was configured for the path, mirroring how the real parser would
// reparse the mod-file body the Writer emitted.
type fakeParser struct {
	units map[string]ast.ProgramUnit
}

func (p *fakeParser) Parse(path string, _ ast.ParseOptions) (*ast.Program, []report.Diagnostic) {
	unit, ok := p.units[path]
	if !ok {
		return &ast.Program{}, nil
	}
	return &ast.Program{Units: []ast.ProgramUnit{unit}}, nil
}

// fakeResolver stands in for the external name resolver (spec.md §1
// Non-goals): it builds a scope containing one symbol named after the unit,
// enough to prove splicing and ModFile-marking behavior without a real
// semantics pass.
type fakeResolver struct{}

func (fakeResolver) ResolveNames(_ *report.Context, unit ast.ProgramUnit, parent *symbols.Scope) *symbols.Scope {
	scope := symbols.NewScope(symbols.KindModule, parent)
	switch u := unit.(type) {
	case *ast.ModuleDecl:
		sym := symbols.NewSymbol(u.Name, nil, parent, 0, symbols.Module{})
		sym.Scope = scope
		scope.Symbol = sym
		_ = scope.Declare(sym)
	case *ast.SubmoduleDecl:
		ancestorSym, _ := parent.Resolve(u.Header.AncestorModule)
		sym := symbols.NewSymbol(u.Header.Name, nil, parent, 0, symbols.Module{SubmoduleOf: ancestorSym})
		sym.Scope = scope
		scope.Symbol = sym
		_ = scope.Declare(sym)
	}
	return scope
}

func testContext() *report.Context {
	return report.NewContext(report.NewReporter(report.LogLevelSilent), "")
}

func TestReadNotFoundReportsAndReturnsErr(t *testing.T) {
	ctx := testContext()
	global := symbols.NewGlobalScope()
	_, err := Read(ctx, []string{t.TempDir()}, "missing", "", global, fakeResolver{}, &fakeParser{})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestReadCorruptChecksumReturnsErr(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.mod")
	require.NoError(t, os.WriteFile(path, []byte(magicPrefix+"0000000000000000\nmodule broken\nend\n"), 0o644))

	ctx := testContext()
	global := symbols.NewGlobalScope()
	_, err := Read(ctx, []string{dir}, "broken", "", global, fakeResolver{}, &fakeParser{})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrCorrupt))
}

// TestReadModuleRoundTrip mirrors S1: writing a module scope then reading it
// back yields a scope spliced under global with ModFile set.
func TestReadModuleRoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeScope := newModuleScope("geometry")
	require.NoError(t, Write(writeScope, dir))

	path := filepath.Join(dir, "geometry.mod")
	parser := &fakeParser{units: map[string]ast.ProgramUnit{
		path: &ast.ModuleDecl{Name: "geometry"},
	}}

	ctx := testContext()
	global := symbols.NewGlobalScope()
	scope, err := Read(ctx, []string{dir}, "geometry", "", global, fakeResolver{}, parser)
	require.NoError(t, err)
	require.NotNil(t, scope)
	require.True(t, scope.Symbol.ModFile)
	require.Contains(t, global.Children(), scope)
}

// TestReadSubmoduleResolvesAncestorFirst mirrors S2: reading a submodule
// recursively reads its ancestor module's own mod file before splicing.
func TestReadSubmoduleResolvesAncestorFirst(t *testing.T) {
	dir := t.TempDir()

	ancestorScope := newModuleScope("shapes")
	require.NoError(t, Write(ancestorScope, dir))

	subScope := symbols.NewGlobalScope()
	subScope = symbols.NewScope(symbols.KindSubmodule, subScope)
	ancestorSym := symbols.NewSymbol("shapes", nil, nil, 0, symbols.Module{})
	subSym := symbols.NewSymbol("impl", nil, nil, 0, symbols.Module{SubmoduleOf: ancestorSym})
	subSym.Scope = subScope
	subScope.Symbol = subSym
	require.NoError(t, Write(subScope, dir))

	ancestorPath := filepath.Join(dir, "shapes.mod")
	subPath := filepath.Join(dir, "shapes-impl.mod")
	parser := &fakeParser{units: map[string]ast.ProgramUnit{
		ancestorPath: &ast.ModuleDecl{Name: "shapes"},
		subPath: &ast.SubmoduleDecl{Header: ast.SubmoduleStmt{
			AncestorModule: "shapes",
			Name:           "impl",
		}},
	}}

	ctx := testContext()
	global := symbols.NewGlobalScope()
	scope, err := Read(ctx, []string{dir}, "impl", "shapes", global, fakeResolver{}, parser)
	require.NoError(t, err)
	require.NotNil(t, scope)
	require.True(t, scope.Symbol.ModFile)
	md := scope.Symbol.Details.(symbols.Module)
	require.True(t, md.IsSubmodule())
}
