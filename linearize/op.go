package linearize

import "fortran-middleend/ast"

// LabelID identifies a linear-op label, whether interned from a source
// statement label or freshly synthesized by the Linearizer (spec.md §4.3
// "Label allocation"). Zero is reserved to mean "no label" wherever a field
// is optional (SwitchingIOOp's Err/Eor/End).
type LabelID int

// Op is the sealed tagged union spec.md §3 calls "Linear Op". Grounded on
// the sum-type-with-marker-method idiom used throughout this codebase
// (ast.Stmt, symbols.Details) rather than the teacher's own IR, since the
// teacher lowers straight from AST to MIR and has no equivalent
// intermediate stream.
type Op interface {
	opNode()
}

// LabelOp places a label at this point in the stream; it becomes a block
// boundary in the CFG Constructor.
type LabelOp struct {
	ID LabelID
}

func (LabelOp) opNode() {}

// GotoOp is an unconditional jump to Target.
type GotoOp struct {
	Target LabelID
}

func (GotoOp) opNode() {}

// CondGotoOp is `CondGoto(condSource, trueId, falseId)`. CondSource is
// either an ast.Expr (an ordinary IF condition) or an *ast.NonLabelDoStmt
// standing for "the condition the immediately preceding DoCompare just
// computed" (spec.md §4.4 loop latch) -- spec.md's own wording ("condSource",
// not "expr") is what licenses this being more than a plain expression.
type CondGotoOp struct {
	CondSource     any
	TrueID, FalseID LabelID
}

func (CondGotoOp) opNode() {}

// IndirectGotoOp is `IndirectGoto(varSym, [ids])`, the assigned-GOTO form.
type IndirectGotoOp struct {
	Var     *ast.Var
	Targets []LabelID
}

func (IndirectGotoOp) opNode() {}

// SwitchingIOOp is `SwitchingIO(stmt, nextId, err?, eor?, end?)`: an I/O
// statement with at least one of ERR=/EOR=/END= (spec.md §4.3). Next is the
// normal-completion fallthrough label; Err/Eor/End are zero when absent.
type SwitchingIOOp struct {
	Stmt           *ast.IOStmt
	Next           LabelID
	Err, Eor, End LabelID
}

func (SwitchingIOOp) opNode() {}

// SwitchOp is `Switch(stmt, [ids])`: COMPUTED GOTO, ARITHMETIC IF,
// alternate-return CALL, and SELECT CASE/RANK/TYPE all resolve to this one
// shape (spec.md §3's Linear Op union has exactly one Switch variant); the
// CFG Constructor recovers the case/arm structure by inspecting Stmt's
// concrete type.
type SwitchOp struct {
	Stmt    ast.Stmt
	Targets []LabelID
}

func (SwitchOp) opNode() {}

// ActionOp forwards an ordinary action statement to the Action-Statement
// Handler untouched.
type ActionOp struct {
	Stmt ast.Stmt
}

func (ActionOp) opNode() {}

// ReturnOp corresponds to RETURN, STOP, and FAIL IMAGE (spec.md §4.3: "STOP,
// FAIL IMAGE, and RETURN emit Return").
type ReturnOp struct {
	Stmt ast.Stmt
}

func (ReturnOp) opNode() {}

// BeginConstructOp/EndConstructOp bracket a structured construct's body.
// Whether the bracketed construct opens a new IR region is decided later by
// the CFG Constructor from Stmt's concrete type (spec.md §4.4); the
// Linearizer emits the same bracket uniformly for every structured
// construct that has one.
type BeginConstructOp struct {
	Stmt ast.Stmt
}

func (BeginConstructOp) opNode() {}

type EndConstructOp struct {
	Stmt ast.Stmt
}

func (EndConstructOp) opNode() {}

// DoIncrementOp/DoCompareOp are the counted-DO pseudo-ops (spec.md §4.3,
// §4.4 "Loop latch"); Stmt carries the enclosing NonLabelDoStmt so the CFG
// Constructor can look its DO-context (bounds, step, induction variable) up.
type DoIncrementOp struct {
	Stmt *ast.NonLabelDoStmt
}

func (DoIncrementOp) opNode() {}

type DoCompareOp struct {
	Stmt *ast.NonLabelDoStmt
}

func (DoCompareOp) opNode() {}

// Program is the flat linear-op stream the Linearizer produces for one
// subprogram body, plus the referenced-label set the CFG Constructor and any
// dead-fallthrough pruning pass consult (spec.md §4.3 "Labels carry a
// referenced bit").
type Program struct {
	Ops        []Op
	Referenced map[LabelID]bool

	// SourceLabels maps a source-level statement label to the LabelID
	// interned for it, so the CFG Constructor can resolve an
	// ast.AssignStmt's bare Label field (ASSIGN lbl TO v) to the same
	// LabelID a GotoStmt targeting lbl would resolve to.
	SourceLabels map[ast.Label]LabelID
}

// IsReferenced reports whether any Goto/CondGoto/Switch/IndirectGoto/
// SwitchingIO in the stream targets id.
func (p *Program) IsReferenced(id LabelID) bool {
	return p.Referenced[id]
}
