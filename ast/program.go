package ast

// ProgramUnit is any top-level compilation unit: a main program, module,
// submodule, external subroutine, or external function.
type ProgramUnit interface {
	Stmt
	programUnitNode()
}

// SubprogramDecl is the shared shape of a FUNCTION or SUBROUTINE header,
// used both for module-contained subprograms (spec.md §4.1 "module-
// contained subprograms go under a top-level contains") and interface
// bodies (spec.md §4.1 "Interfaces go into an interface/end interface
// wrapper").
type SubprogramDecl struct {
	Base
	Name       string
	IsFunction bool
	DummyArgs  []string
	ResultName string // for functions
	IsInterfaceOnly bool
	Body       Block // empty for interface-only declarations
}

func (*SubprogramDecl) stmtNode()       {}
func (*SubprogramDecl) programUnitNode() {}

// MainProgram is `PROGRAM name ... END PROGRAM`.
type MainProgram struct {
	Base
	Name string
	Body Block
}

func (*MainProgram) stmtNode()        {}
func (*MainProgram) programUnitNode() {}

// UseStmt is `USE mod[, ONLY: rename-list]`.
type UseRename struct {
	Local, Original string
}

type UseStmt struct {
	Base
	ModuleName string
	OnlyList   []UseRename // nil if no ONLY clause (whole-module use)
	OnlyMode   bool        // true if an ONLY clause was present, even if empty
}

func (*UseStmt) stmtNode() {}

// ModuleDecl is `MODULE name ... [CONTAINS subprograms] END MODULE`. It
// carries the module's specification-part declarations opaquely: those are
// consumed by the external name resolver (spec.md §1), not by this package;
// this core observes only the already-resolved symbols.Scope after
// resolution runs.
type ModuleDecl struct {
	Base
	Name       string
	UseStmts   []*UseStmt
	Subprograms []*SubprogramDecl
}

func (*ModuleDecl) stmtNode()        {}
func (*ModuleDecl) programUnitNode() {}

// SubmoduleStmt is the `SUBMODULE(ancestor[:parentSubmodule]) name` header
// spec.md §4.2 inspects for submodule parent discovery.
type SubmoduleStmt struct {
	Base
	AncestorModule    string
	ParentSubmodule   string // empty if this submodule's parent is the ancestor module itself
	Name              string
}

// SubmoduleDecl is `SUBMODULE(...) name ... END SUBMODULE`.
type SubmoduleDecl struct {
	Base
	Header      SubmoduleStmt
	UseStmts    []*UseStmt
	Subprograms []*SubprogramDecl
}

func (*SubmoduleDecl) stmtNode()        {}
func (*SubmoduleDecl) programUnitNode() {}
