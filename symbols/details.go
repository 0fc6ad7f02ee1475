package symbols

// Details is the discriminated payload every Symbol carries, exactly one of
// the variants below (spec.md §3). It is a sealed interface: the unexported
// marker method closes the set so a missing case in a type switch is a
// compile-time-discoverable omission rather than a silent runtime fallback
// (DESIGN NOTES §9).
type Details interface {
	detailsNode()
}

// Module is the Details of a symbol naming a module or submodule.
type Module struct {
	// SubmoduleOf is the parent symbol this is a submodule of, or nil for a
	// top-level module.
	SubmoduleOf *Symbol

	// SubmoduleParentSubmodule is the ancestor submodule named in
	// `submodule(a:b) c`, or nil if this submodule's parent is the ancestor
	// module itself (`submodule(a) b`).
	SubmoduleParentSubmodule *Symbol
}

func (Module) detailsNode() {}

// IsSubmodule reports whether this Module details describes a submodule.
func (m Module) IsSubmodule() bool {
	return m.SubmoduleOf != nil
}

// Parent returns the immediate lexical parent module/submodule symbol, or
// nil for a top-level module.
func (m Module) Parent() *Symbol {
	if m.SubmoduleParentSubmodule != nil {
		return m.SubmoduleParentSubmodule
	}
	return m.SubmoduleOf
}

// Ancestor walks the submodule parent chain to the root module symbol
// (spec.md §4.2 "submodule ancestor").
func (m Module) Ancestor(self *Symbol) *Symbol {
	cur := self
	for {
		md, ok := cur.Details.(Module)
		if !ok || !md.IsSubmodule() {
			return cur
		}
		cur = md.SubmoduleOf
	}
}

// Submodule is the Details of a symbol representing a submodule's own
// namespace when it must be distinguished from Module (kept distinct from
// Module per spec.md §3's enumeration; Fortran submodules share the module
// scope kind but this variant lets a resolver mark a symbol as specifically
// submodule-shaped without consulting Module.IsSubmodule()).
type Submodule struct {
	Ancestor *Symbol
}

func (Submodule) detailsNode() {}

// DerivedType is the Details of a derived-type definition.
type DerivedType struct {
	Extends    *Symbol // parent type in an EXTENDS(parent) clause, or nil
	Sequence   bool
	ParamNames []string // type parameter names, in declaration order
}

func (DerivedType) detailsNode() {}

// Subprogram is the Details of a function or subroutine.
type Subprogram struct {
	DummyArgs  []string // dummy argument names, in declaration order
	IsFunction bool
	ResultName string // for functions; may equal the subprogram name
	AltReturns int     // count of alternate-return (*) dummy arguments

	// IsInterfaceOnly marks a symbol declared by an INTERFACE block rather
	// than backed by a module-contained subprogram (spec.md §4.1: the
	// former is written into its own interface/end interface wrapper, the
	// latter under the module's single top-level contains section).
	IsInterfaceOnly bool
}

func (Subprogram) detailsNode() {}

// ProcEntity is the Details of a procedure-pointer or dummy-procedure
// entity.
type ProcEntity struct {
	Interface *Symbol // explicit interface, or nil if implicit
}

func (ProcEntity) detailsNode() {}

// ObjectEntity is the Details of a data object (variable, parameter,
// component).
type ObjectEntity struct {
	// TypeName names the declared type; the expression analyzer resolves it
	// further (out of scope for this core, spec.md §1).
	TypeName string

	// Init is the rendered text of a PARAMETER's constant value or a data
	// object's default initializer (e.g. "3_4"), or empty if the entity has
	// none. The expression analyzer, not this core, computed this text;
	// spec.md §4.1 requires the writer reproduce it verbatim after `=`.
	Init string
}

func (ObjectEntity) detailsNode() {}

// TypeParam is the Details of a derived-type parameter (KIND or LEN).
type TypeParam struct {
	IsKind bool
}

func (TypeParam) detailsNode() {}

// Namelist is the Details of a NAMELIST group.
type Namelist struct {
	Members []*Symbol // in declaration order
}

func (Namelist) detailsNode() {}

// CommonBlock is the Details of a COMMON block name.
type CommonBlock struct {
	Members []*Symbol // in declaration order
}

func (CommonBlock) detailsNode() {}

// Generic is the Details of a generic interface name (procedure or
// operator).
type Generic struct {
	Specifics []*Symbol
}

func (Generic) detailsNode() {}

// Use is the Details of a symbol brought in by USE association.
type Use struct {
	Module   *Symbol // the module the name was used from
	Original *Symbol // the symbol as it exists in that module
	Renamed  bool     // true if `use mod,only:local=>orig` was used
}

func (Use) detailsNode() {}

// UseError is the Details of a name that failed to resolve via USE
// association (spec.md §7 resolution failure).
type UseError struct {
	Module  string
	Message string
}

func (UseError) detailsNode() {}

// ProcBinding is the Details of a type-bound procedure binding.
type ProcBinding struct {
	Target *Symbol // the bound procedure
	PassArg string  // PASS(arg) argument name, empty if implicit
	NoPass  bool
}

func (ProcBinding) detailsNode() {}

// GenericBinding is the Details of a type-bound generic binding.
type GenericBinding struct {
	Specifics []*Symbol
}

func (GenericBinding) detailsNode() {}

// FinalProc is the Details of a FINAL procedure binding.
type FinalProc struct {
	Target *Symbol
}

func (FinalProc) detailsNode() {}

// HostAssoc is the Details of a name brought into an inner scope by host
// association (no explicit declaration in the inner scope).
type HostAssoc struct {
	Host *Symbol
}

func (HostAssoc) detailsNode() {}

// Misc is the Details of a symbol whose category is not yet known. Per
// spec.md §3's invariant, a symbol's details may be refined in place (Misc
// -> Object) but never changes category after the semantics pass completes;
// Misc is only ever seen mid-resolution.
type Misc struct {
	Note string
}

func (Misc) detailsNode() {}
