package modfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"fortran-middleend/symbols"
)

func newModuleScope(name string) *symbols.Scope {
	global := symbols.NewGlobalScope()
	scope := symbols.NewScope(symbols.KindModule, global)
	sym := symbols.NewSymbol(name, nil, global, symbols.AttributeSet(0).Set(symbols.AttrPublic), symbols.Module{})
	sym.Scope = scope
	scope.Symbol = sym
	return scope
}

// TestWriteModuleProducesHeaderAndBody mirrors S1: a plain module with one
// public integer parameter is written as a file with header and body.
func TestWriteModuleProducesHeaderAndBody(t *testing.T) {
	scope := newModuleScope("geometry")

	k := symbols.NewSymbol("k", nil, scope, symbols.AttributeSet(0).Set(symbols.AttrPublic).Set(symbols.AttrParameter), symbols.ObjectEntity{TypeName: "integer"})
	require.NoError(t, scope.Declare(k))

	dir := t.TempDir()
	require.NoError(t, Write(scope, dir))

	path := filepath.Join(dir, "geometry.mod")
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	require.Contains(t, content, magicPrefix)
	require.Contains(t, content, "module geometry")
	require.Contains(t, content, "integer,parameter::k")
	require.Contains(t, content, "end\n")
}

// TestWriteMatchesS1Fixture reproduces spec.md §8's S1 exactly: a module
// with one integer PARAMETER and a module-contained subroutine with one
// dummy argument round-trips to a byte-exact body.
func TestWriteMatchesS1Fixture(t *testing.T) {
	scope := newModuleScope("m")

	k := symbols.NewSymbol("k", nil, scope, symbols.AttributeSet(0).Set(symbols.AttrParameter), symbols.ObjectEntity{TypeName: "integer", Init: "3_4"})
	require.NoError(t, scope.Declare(k))

	subScope := symbols.NewScope(symbols.KindSubprogram, scope)
	s := symbols.NewSymbol("s", nil, scope, 0, symbols.Subprogram{DummyArgs: []string{"x"}})
	s.Scope = subScope
	require.NoError(t, scope.Declare(s))

	x := symbols.NewSymbol("x", nil, subScope, 0, symbols.ObjectEntity{TypeName: "integer"})
	require.NoError(t, subScope.Declare(x))

	dir := t.TempDir()
	require.NoError(t, Write(scope, dir))

	data, err := os.ReadFile(filepath.Join(dir, "m.mod"))
	require.NoError(t, err)
	content := string(data)

	header, body, ok := splitHeader(data)
	require.True(t, ok)
	require.True(t, strings.HasPrefix(string(header), magicPrefix))

	const wantBody = "module m\ninteger,parameter::k=3_4\ncontains\nsubroutine s(x)\ninteger::x\nend\nend\n"
	require.Equal(t, wantBody, string(body))
	require.Contains(t, content, magicPrefix)
}

// TestWriteInterfaceOnlySubprogramGetsOwnWrapper checks that an
// interface-only subprogram is wrapped individually rather than folded into
// the module's contains section (spec.md §4.1).
func TestWriteInterfaceOnlySubprogramGetsOwnWrapper(t *testing.T) {
	scope := newModuleScope("ifaces")

	f := symbols.NewSymbol("f", nil, scope, 0, symbols.Subprogram{DummyArgs: []string{"y"}, IsInterfaceOnly: true})
	require.NoError(t, scope.Declare(f))

	dir := t.TempDir()
	require.NoError(t, Write(scope, dir))

	data, err := os.ReadFile(filepath.Join(dir, "ifaces.mod"))
	require.NoError(t, err)
	content := string(data)

	require.Contains(t, content, "interface\nsubroutine f(y)\nend\nend interface\n")
	require.NotContains(t, content, "contains")
}

// TestWriteIsTouchFree asserts a second Write of an unchanged scope does not
// alter the file's mtime (spec.md §4.1 "touch-free rebuilds").
func TestWriteIsTouchFree(t *testing.T) {
	scope := newModuleScope("touchless")
	dir := t.TempDir()
	require.NoError(t, Write(scope, dir))

	path := filepath.Join(dir, "touchless.mod")
	before, err := os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, Write(scope, dir))
	after, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, before.ModTime(), after.ModTime())
}

// TestWriteSubmoduleNaming mirrors S2: a submodule of an ancestor writes to
// "<ancestor>-<name>.mod" (spec.md §4.1).
func TestWriteSubmoduleNaming(t *testing.T) {
	global := symbols.NewGlobalScope()
	ancestor := symbols.NewSymbol("shapes", nil, global, symbols.AttributeSet(0).Set(symbols.AttrPublic), symbols.Module{})
	subScope := symbols.NewScope(symbols.KindSubmodule, global)
	sub := symbols.NewSymbol("impl", nil, global, 0, symbols.Module{SubmoduleOf: ancestor})
	sub.Scope = subScope
	subScope.Symbol = sub

	dir := t.TempDir()
	require.NoError(t, Write(subScope, dir))

	_, err := os.Stat(filepath.Join(dir, "shapes-impl.mod"))
	require.NoError(t, err)
}

// TestWriteSkipsParentCompAndPublicExternal checks the writer's attribute
// and skip rules (spec.md §4.1: PUBLIC/EXTERNAL never written, ParentComp
// symbols skipped).
func TestWriteSkipsParentCompAndPublicExternal(t *testing.T) {
	scope := newModuleScope("attrs")

	visible := symbols.NewSymbol("v", nil, scope, symbols.AttributeSet(0).Set(symbols.AttrPublic).Set(symbols.AttrPointer).Set(symbols.AttrExternal), symbols.ObjectEntity{TypeName: "real"})
	require.NoError(t, scope.Declare(visible))

	hidden := symbols.NewSymbol("parentbit", nil, scope, 0, symbols.ObjectEntity{TypeName: "integer"})
	hidden.ParentComp = true
	require.NoError(t, scope.Declare(hidden))

	dir := t.TempDir()
	require.NoError(t, Write(scope, dir))

	data, err := os.ReadFile(filepath.Join(dir, "attrs.mod"))
	require.NoError(t, err)
	content := string(data)

	require.Contains(t, content, "real,pointer::v")
	require.NotContains(t, content, "public")
	require.NotContains(t, content, "external")
	require.NotContains(t, content, "parentbit")
}

// TestNeedsLineListsUsedModulesSorted covers SPEC_FULL.md §6.1's supplemented
// "needs:" pragma.
func TestNeedsLineListsUsedModulesSorted(t *testing.T) {
	scope := newModuleScope("consumer")

	modB := symbols.NewSymbol("btools", nil, scope, 0, symbols.Module{})
	modA := symbols.NewSymbol("atools", nil, scope, 0, symbols.Module{})

	useB := symbols.NewSymbol("helper", nil, scope, symbols.AttributeSet(0).Set(symbols.AttrPublic), symbols.Use{Module: modB, Original: symbols.NewSymbol("helper", nil, modB.Scope, 0, symbols.ObjectEntity{TypeName: "integer"})})
	useA := symbols.NewSymbol("thing", nil, scope, symbols.AttributeSet(0).Set(symbols.AttrPublic), symbols.Use{Module: modA, Original: symbols.NewSymbol("thing", nil, modA.Scope, 0, symbols.ObjectEntity{TypeName: "integer"})})
	require.NoError(t, scope.Declare(useB))
	require.NoError(t, scope.Declare(useA))

	dir := t.TempDir()
	require.NoError(t, Write(scope, dir))

	data, err := os.ReadFile(filepath.Join(dir, "consumer.mod"))
	require.NoError(t, err)
	content := string(data)

	require.Contains(t, content, needsPrefix+"atools,btools")
}
