package ast

// ConstructName is the optional name a structured construct may carry
// (`name: DO ... END DO name`), used by CYCLE/EXIT name resolution
// (spec.md §4.3 "Name stack").
type ConstructName string

// Block is an ordered list of statements making up a construct body or a
// subprogram body.
type Block struct {
	Stmts []Stmt
}

// DoKind distinguishes the DO flavors: counted, DO WHILE, DO CONCURRENT, and
// a plain DO with no control clause.
type DoKind int

const (
	DoCounted DoKind = iota
	DoWhile
	DoConcurrent
	DoInfinite // plain `DO` / `DO label` with no control clause
)

// NonLabelDoStmt is a `DO [label] [name:] ...` construct header. It is used
// as the CFG Constructor's DO-context map key (spec.md §4.4).
type NonLabelDoStmt struct {
	Base
	Name  ConstructName
	Kind  DoKind
	Label Label // 0 if this is a block DO with no terminal label

	// Counted-DO control clause.
	IndVar          *Var
	Lower, Upper    Expr
	Step            Expr // nil defaults to 1 (spec.md §4.4)

	// DO WHILE control clause.
	WhileCond Expr

	Body Block
}

func (*NonLabelDoStmt) stmtNode() {}

// EndDoStmt closes a NonLabelDoStmt.
type EndDoStmt struct {
	Base
	Name ConstructName
}

func (*EndDoStmt) stmtNode() {}

// CondBranch is one `IF`/`ELSE IF` arm.
type CondBranch struct {
	Cond Expr // nil for the trailing ELSE arm
	Body Block
}

// IfConstruct is the block `IF ... THEN / ELSE IF / ELSE / END IF` form.
type IfConstruct struct {
	Base
	Name         ConstructName
	CondBranches []CondBranch
}

func (*IfConstruct) stmtNode() {}

// SelectKind distinguishes SELECT CASE/RANK/TYPE (spec.md §4.3).
type SelectKind int

const (
	SelectCase SelectKind = iota
	SelectRank
	SelectType
)

// CaseValue is one label of a CASE/RANK/TYPE IS arm; IsDefault marks
// CASE DEFAULT / RANK DEFAULT / CLASS DEFAULT.
type CaseValue struct {
	Expr      Expr
	IsDefault bool
}

// CaseBlock is one arm of a SELECT construct.
type CaseBlock struct {
	Values []CaseValue
	Body   Block
}

// SelectConstruct is `SELECT CASE/RANK/TYPE (selector) ... END SELECT`.
type SelectConstruct struct {
	Base
	Name     ConstructName
	Kind     SelectKind
	Selector Expr
	Cases    []CaseBlock
}

func (*SelectConstruct) stmtNode() {}

// AssociateBinding is one `name => selector` binding of an ASSOCIATE
// construct.
type AssociateBinding struct {
	Name     string
	Selector Expr
}

// AssociateConstruct is `ASSOCIATE (bindings) ... END ASSOCIATE`.
type AssociateConstruct struct {
	Base
	Name     ConstructName
	Bindings []AssociateBinding
	Body     Block
}

func (*AssociateConstruct) stmtNode() {}

// BlockConstruct is `BLOCK ... END BLOCK`.
type BlockConstruct struct {
	Base
	Name ConstructName
	Body Block
}

func (*BlockConstruct) stmtNode() {}

// ChangeTeamConstruct is `CHANGE TEAM (team) ... END TEAM`.
type ChangeTeamConstruct struct {
	Base
	Name ConstructName
	Team Expr
	Body Block
}

func (*ChangeTeamConstruct) stmtNode() {}

// CriticalConstruct is `CRITICAL ... END CRITICAL`. Lowering is an explicit
// no-op placeholder per spec.md §9 open question (i).
type CriticalConstruct struct {
	Base
	Name ConstructName
	Body Block
}

func (*CriticalConstruct) stmtNode() {}

// WhereConstruct is `WHERE (mask) ... [ELSEWHERE] ... END WHERE`.
type WhereConstruct struct {
	Base
	Name    ConstructName
	Masks   []Expr // Masks[i] guards Bodies[i]; a nil trailing mask is ELSEWHERE
	Bodies  []Block
}

func (*WhereConstruct) stmtNode() {}

// ForallConstruct is `FORALL (triplets; mask) ... END FORALL`.
type ForallConstruct struct {
	Base
	Name ConstructName
	Mask Expr
	Body Block
}

func (*ForallConstruct) stmtNode() {}

// CompilerDirective is a vendor or OpenMP directive comment. Lowering is an
// explicit no-op placeholder per spec.md §9 open question (i).
type CompilerDirective struct {
	Base
	Text string
}

func (*CompilerDirective) stmtNode() {}
