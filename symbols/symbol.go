package symbols

import "fortran-middleend/report"

// Symbol is a named declaration, grounded on the teacher's depm.Symbol
// (bootstrap/depm/symbol.go) but generalized from Chai's def-kind/
// mutability model to Fortran's attribute-set/details model (spec.md §3).
type Symbol struct {
	// Name is the source-name handle.
	Name string

	// DefPosition is where the identifier that defines the symbol occurs.
	DefPosition *report.TextPosition

	// Attrs is the symbol's attribute set, drawn from the closed
	// enumeration in attribute.go.
	Attrs AttributeSet

	// Scope is the scope this symbol declares, or nil if the symbol does
	// not open a new scope (e.g. an ObjectEntity). Invariant (spec.md §3):
	// a symbol's declaring scope is fixed at creation.
	Scope *Scope

	// declaringScope is the scope this symbol is a member of (its owner),
	// distinct from Scope which is the scope this symbol *opens*.
	declaringScope *Scope

	// Details is the discriminated payload; exactly one variant from
	// details.go. May be refined in place (Misc -> Object) but never
	// changes category once semantics analysis completes.
	Details Details

	// ModFile marks that this symbol was loaded from a mod file, so the
	// writer skips re-emitting it as a fresh definition (spec.md §4.2).
	ModFile bool

	// ParentComp marks a synthetic parent-type component the writer skips
	// (spec.md §4.1 "Synthetic ParentComp symbols are skipped").
	ParentComp bool

	// BindName is the BIND(C, NAME="...") expression text, if any.
	BindName string
}

// NewSymbol creates a symbol owned by scope, with the given attribute set
// and details. The declaring scope is fixed at creation per spec.md §3.
func NewSymbol(name string, pos *report.TextPosition, owner *Scope, attrs AttributeSet, details Details) *Symbol {
	return &Symbol{
		Name:           name,
		DefPosition:    pos,
		Attrs:          attrs,
		Details:        details,
		declaringScope: owner,
	}
}

// DeclaringScope returns the scope this symbol is a member of.
func (s *Symbol) DeclaringScope() *Scope {
	return s.declaringScope
}

// IsModuleSymbol reports whether this symbol's Details is Module.
func (s *Symbol) IsModuleSymbol() bool {
	_, ok := s.Details.(Module)
	return ok
}

// Refine replaces a Misc symbol's details in place, per spec.md §3's
// refine-but-never-recategorize invariant. It panics if the symbol was not
// Misc, since that would mean a category change after resolution began.
func (s *Symbol) Refine(d Details) {
	if _, ok := s.Details.(Misc); !ok {
		panic("symbols: Refine called on a non-Misc symbol; category is fixed after first refinement")
	}
	s.Details = d
}
