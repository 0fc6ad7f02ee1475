package symbols

import "fmt"

// Kind classifies a Scope (spec.md §3).
type Kind int

const (
	KindSystem Kind = iota
	KindGlobal
	KindModule
	KindSubmodule
	KindDerivedType
	KindSubprogram
	KindMainProgram
	KindBlock
	KindForall
	KindDerived
)

// Scope is a named-declaration namespace. It stores symbols in insertion
// order (spec.md §3: "insertion-ordered mapping from name to owned symbol"),
// grounded on the teacher's depm.SymbolTable, which keeps a map plus
// tracks resolution order explicitly rather than relying on Go map
// iteration order.
type Scope struct {
	Kind Kind

	// Symbol is the symbol this scope is attached to (e.g. the Module
	// symbol for a KindModule scope), or nil for System/Global.
	Symbol *Symbol

	parent *Scope // non-owning back-reference; ownership runs parent->children

	names   []string // insertion order
	symbols map[string]*Symbol

	commonBlockNames []string
	commonBlocks     map[string]*Symbol

	children []*Scope
}

// NewScope creates an empty scope of the given kind under parent. Passing a
// nil parent is only valid for the System scope.
func NewScope(kind Kind, parent *Scope) *Scope {
	s := &Scope{
		Kind:         kind,
		parent:       parent,
		symbols:      make(map[string]*Symbol),
		commonBlocks: make(map[string]*Symbol),
	}
	if parent != nil {
		parent.children = append(parent.children, s)
	}
	return s
}

// systemScope is the process-wide singleton (spec.md §3 invariant ii, §9
// "The System scope is a process-wide constant initialized before the
// Global scope").
var systemScope = &Scope{Kind: KindSystem, symbols: map[string]*Symbol{}, commonBlocks: map[string]*Symbol{}}

// System returns the singleton System scope.
func System() *Scope {
	return systemScope
}

// NewGlobalScope creates a fresh Global scope rooted under the System
// singleton.
func NewGlobalScope() *Scope {
	return NewScope(KindGlobal, systemScope)
}

// Parent returns the non-owning parent handle, or nil for System.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Children returns the ordered list of child scopes.
func (s *Scope) Children() []*Scope {
	return s.children
}

// Declare inserts sym under its Name. It returns an error if the name is
// already declared in this scope (spec.md doesn't define multi-definition
// diagnostics for the core directly, but a scope must never silently
// overwrite a declaration -- that is what would let invariant (i)'s
// "declaring scope fixed at creation" be violated by a second insert).
func (s *Scope) Declare(sym *Symbol) error {
	if _, exists := s.symbols[sym.Name]; exists {
		return fmt.Errorf("symbol %q already declared in this scope", sym.Name)
	}
	s.symbols[sym.Name] = sym
	s.names = append(s.names, sym.Name)
	return nil
}

// DeclareCommonBlock inserts a common-block symbol under its Name.
func (s *Scope) DeclareCommonBlock(sym *Symbol) error {
	if _, exists := s.commonBlocks[sym.Name]; exists {
		return fmt.Errorf("common block %q already declared in this scope", sym.Name)
	}
	s.commonBlocks[sym.Name] = sym
	s.commonBlockNames = append(s.commonBlockNames, sym.Name)
	return nil
}

// Lookup finds a symbol declared directly in this scope.
func (s *Scope) Lookup(name string) (*Symbol, bool) {
	sym, ok := s.symbols[name]
	return sym, ok
}

// LookupCommonBlock finds a common block declared directly in this scope.
func (s *Scope) LookupCommonBlock(name string) (*Symbol, bool) {
	sym, ok := s.commonBlocks[name]
	return sym, ok
}

// Resolve looks up name in this scope, then its ancestors, implementing
// Fortran's lexical host-association search order.
func (s *Scope) Resolve(name string) (*Symbol, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if sym, ok := sc.symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// Symbols returns the scope's own symbols in insertion order.
func (s *Scope) Symbols() []*Symbol {
	out := make([]*Symbol, len(s.names))
	for i, n := range s.names {
		out[i] = s.symbols[n]
	}
	return out
}

// CommonBlocks returns the scope's common-block symbols in insertion order.
func (s *Scope) CommonBlocks() []*Symbol {
	out := make([]*Symbol, len(s.commonBlockNames))
	for i, n := range s.commonBlockNames {
		out[i] = s.commonBlocks[n]
	}
	return out
}

// Splice attaches child as a new child scope of s, used by the mod-file
// reader to graft a rehydrated module scope under the requesting context
// (spec.md §4.2 "splice the resulting scope under the requesting context").
func (s *Scope) Splice(child *Scope) {
	child.parent = s
	s.children = append(s.children, child)
}
