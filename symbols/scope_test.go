package symbols

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScopeDeclareAndLookup(t *testing.T) {
	global := NewGlobalScope()
	mod := NewScope(KindModule, global)

	k := NewSymbol("k", nil, mod, AttributeSet(0).Set(AttrPublic).Set(AttrParameter), ObjectEntity{TypeName: "integer"})
	require.NoError(t, mod.Declare(k))

	got, ok := mod.Lookup("k")
	require.True(t, ok)
	require.Same(t, k, got)

	_, ok = mod.Lookup("missing")
	require.False(t, ok)
}

func TestScopeDeclareDuplicateFails(t *testing.T) {
	mod := NewScope(KindModule, NewGlobalScope())
	s1 := NewSymbol("x", nil, mod, 0, Misc{})
	s2 := NewSymbol("x", nil, mod, 0, Misc{})

	require.NoError(t, mod.Declare(s1))
	require.Error(t, mod.Declare(s2))
}

func TestScopeResolveWalksAncestors(t *testing.T) {
	global := NewGlobalScope()
	mod := NewScope(KindModule, global)
	sub := NewScope(KindSubprogram, mod)

	hostVar := NewSymbol("hostvar", nil, mod, 0, ObjectEntity{TypeName: "real"})
	require.NoError(t, mod.Declare(hostVar))

	got, ok := sub.Resolve("hostvar")
	require.True(t, ok)
	require.Same(t, hostVar, got)
}

func TestSystemScopeIsSingleton(t *testing.T) {
	require.Same(t, System(), System())
}

func TestSymbolRefineOnlyFromMisc(t *testing.T) {
	scope := NewScope(KindModule, NewGlobalScope())
	sym := NewSymbol("v", nil, scope, 0, Misc{})
	require.NotPanics(t, func() {
		sym.Refine(ObjectEntity{TypeName: "integer"})
	})

	require.Panics(t, func() {
		sym.Refine(ObjectEntity{TypeName: "real"})
	})
}

func TestModuleAncestorChain(t *testing.T) {
	global := NewGlobalScope()
	a := NewSymbol("a", nil, global, AttributeSet(0).Set(AttrPublic), Module{})
	b := NewSymbol("b", nil, global, 0, Module{SubmoduleOf: a})
	c := NewSymbol("c", nil, global, 0, Module{SubmoduleOf: a, SubmoduleParentSubmodule: b})

	md := c.Details.(Module)
	require.Same(t, a, md.Ancestor(c))
	require.Same(t, b, md.Parent())
}
