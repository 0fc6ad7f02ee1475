package ir

import (
	"fmt"
	"strings"

	"fortran-middleend/ast"
	"fortran-middleend/report"
)

// Type stands in for a resolved Fortran type. The type system itself is an
// external collaborator's concern (spec.md §1 Non-goals); the core only
// needs to carry a type reference opaquely through Alloc/Call nodes, mirrors
// how ast.Expr is kept thin for the same reason.
type Type struct {
	Name string
}

func (t Type) Repr() string {
	if t.Name == "" {
		return "?"
	}
	return t.Name
}

// Statement is the sealed tagged union of IR statement kinds (spec.md §3).
// Grounded on the teacher's ir.Statement/Instruction split (bootstrap/ir/
// block.go), collapsed here into one flat sum type per statement kind since
// spec.md enumerates the kinds directly rather than through a generic
// op-code table.
type Statement interface {
	Node
	Repr() string
	statementNode()
}

// Node is the position-bearing base every IR statement implements, mirrors
// ast.Node.
type Node interface {
	Position() *report.TextPosition
}

// StmtBase is embedded by every concrete Statement.
type StmtBase struct {
	Pos *report.TextPosition
}

func (b StmtBase) Position() *report.TextPosition { return b.Pos }

// Terminator is the subset of Statement kinds that may end a BasicBlock
// (spec.md §3 "terminated iff its last statement is of terminator kind").
type Terminator interface {
	Statement
	Successors() []*BasicBlock
	terminatorNode()
}

// ValueStatement marks a Statement that yields a value later statements may
// reference by pointer identity via StmtValue -- the language-neutral
// replacement for the teacher's numeric SSA binding IDs (bootstrap/ir/
// block.go Binding.ValueID), chosen because this core has no separate
// binding statement: the value-producing statement doubles as its own
// binding site.
type ValueStatement interface {
	Statement
	valueNode()
}

// Operand is anything a Statement can read: a reference to the value
// produced by an earlier statement in the same block, a raw expression used
// directly (most commonly `addr(name)`, represented as an ExprOperand
// wrapping an *ast.Var since name resolution -- and so a real *symbols.Symbol
// to address -- happens upstream of this core, spec.md §1), or a block
// reference (for ASSIGN's `blockRef(lbl)`).
type Operand interface {
	Repr() string
	operandNode()
}

// StmtValue references the value produced by an earlier ValueStatement.
type StmtValue struct {
	Stmt ValueStatement
}

func (v StmtValue) Repr() string { return fmt.Sprintf("%p", v.Stmt) }
func (StmtValue) operandNode()   {}

// ExprOperand wraps a raw parser/analyzer expression used directly as an
// operand (e.g. a literal step value that never needed its own ApplyExpr).
type ExprOperand struct {
	Expr ast.Expr
}

func (e ExprOperand) Repr() string {
	if raw, ok := e.Expr.(*ast.RawExpr); ok {
		return raw.Text
	}
	return "<expr>"
}
func (ExprOperand) operandNode() {}

// BlockOperand is `blockRef(lbl)`, used by ASSIGN lbl TO v.
type BlockOperand struct {
	Block *BasicBlock
}

func (b BlockOperand) Repr() string { return fmt.Sprintf("block%%%d", b.Block.ID()) }
func (BlockOperand) operandNode()   {}

// -----------------------------------------------------------------------------
// Non-terminating statements (spec.md §3, §4.5).

// Alloc is `Alloc(type)`.
type Alloc struct {
	StmtBase
	Type Type
}

func (*Alloc) statementNode() {}
func (*Alloc) valueNode()     {}
func (a *Alloc) Repr() string { return "alloc " + a.Type.Repr() }

// Dealloc is `Dealloc(alloc)`, referencing the Alloc it frees.
type Dealloc struct {
	StmtBase
	Alloc *Alloc
}

func (*Dealloc) statementNode() {}
func (d *Dealloc) Repr() string { return fmt.Sprintf("dealloc %p", d.Alloc) }

// Load is `Load(addr)`.
type Load struct {
	StmtBase
	Addr Operand
}

func (*Load) statementNode() {}
func (*Load) valueNode()     {}
func (l *Load) Repr() string { return "load " + l.Addr.Repr() }

// Store is `Store(addr, value|blockRef)`.
type Store struct {
	StmtBase
	Addr  Operand
	Value Operand
}

func (*Store) statementNode() {}
func (s *Store) Repr() string { return fmt.Sprintf("store %s, %s", s.Addr.Repr(), s.Value.Repr()) }

// ApplyExpr materializes an expression's value (spec.md §4.4 "selector
// expressions ... are emitted as ApplyExpr").
type ApplyExpr struct {
	StmtBase
	Expr ast.Expr
}

func (*ApplyExpr) statementNode() {}
func (*ApplyExpr) valueNode()     {}
func (a *ApplyExpr) Repr() string {
	if raw, ok := a.Expr.(*ast.RawExpr); ok {
		return "apply " + raw.Text
	}
	return "apply <expr>"
}

// LocateExpr materializes the address an expression designates, used for
// pointer targets and NULLIFY objects. BoundsRemap carries a pointer
// assignment's `(lower:upper)` remap specs through unevaluated (spec.md §9
// open question i); it is nil outside of POINTER ASSIGNMENT lowering.
type LocateExpr struct {
	StmtBase
	Expr        ast.Expr
	BoundsRemap []ast.BoundsRemap
}

func (*LocateExpr) statementNode() {}
func (*LocateExpr) valueNode()     {}
func (l *LocateExpr) Repr() string {
	suffix := ""
	if len(l.BoundsRemap) > 0 {
		suffix = fmt.Sprintf("[%d bounds]", len(l.BoundsRemap))
	}
	if raw, ok := l.Expr.(*ast.RawExpr); ok {
		return "locate " + raw.Text + suffix
	}
	return "locate <expr>" + suffix
}

// Call is `Call(type, callee, args)`. Type is the zero Type for a
// subroutine call (spec.md §4.5 "Call(nil, callee, args)").
type Call struct {
	StmtBase
	Type   Type
	Callee ast.Expr
	Args   []Operand
}

func (*Call) statementNode() {}
func (*Call) valueNode()     {}
func (c *Call) Repr() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.Repr()
	}
	name := "<callee>"
	if v, ok := c.Callee.(*ast.Var); ok {
		name = v.Name
	}
	return fmt.Sprintf("call %s(%s)", name, strings.Join(args, ", "))
}

// Increment is the `DoIncrement` step-application op: `lhs := lhs + step`.
type Increment struct {
	StmtBase
	LHS  Operand
	Step Operand
}

func (*Increment) statementNode() {}
func (*Increment) valueNode()     {}
func (i *Increment) Repr() string {
	return fmt.Sprintf("increment %s, %s", i.LHS.Repr(), i.Step.Repr())
}

// DoCondition is the `DoCompare` latch test: for a positive step, `var <=
// upper`; for a negative step, `var >= upper` (spec.md §4.4).
type DoCondition struct {
	StmtBase
	Step  Operand
	Var   Operand
	Upper Operand
}

func (*DoCondition) statementNode() {}
func (*DoCondition) valueNode()     {}
func (d *DoCondition) Repr() string {
	return fmt.Sprintf("docond %s, %s, %s", d.Step.Repr(), d.Var.Repr(), d.Upper.Repr())
}

// IORuntime is a data-transfer/file-positioning action (spec.md §4.5). It
// implements ValueStatement because a SwitchingIO terminator (built when the
// source statement carries ERR=/EOR=/END=) branches on this statement's
// implicit completion status.
type IORuntime struct {
	StmtBase
	Kind ast.IOKind
	Args []Operand
}

func (*IORuntime) statementNode() {}
func (*IORuntime) valueNode()     {}
func (io *IORuntime) Repr() string {
	return fmt.Sprintf("io.%d(%s)", io.Kind, joinOperands(io.Args))
}

// Runtime is an image-control/miscellaneous action (spec.md §4.5).
type Runtime struct {
	StmtBase
	Kind ast.RuntimeKind
	Args []Operand
}

func (*Runtime) statementNode() {}
func (r *Runtime) Repr() string {
	return fmt.Sprintf("runtime.%d(%s)", r.Kind, joinOperands(r.Args))
}

// Nullify is `Nullify(addr)`, one per NULLIFY object after its LocateExpr.
type Nullify struct {
	StmtBase
	Addr Operand
}

func (*Nullify) statementNode() {}
func (n *Nullify) Repr() string { return "nullify " + n.Addr.Repr() }

func joinOperands(ops []Operand) string {
	parts := make([]string, len(ops))
	for i, o := range ops {
		parts[i] = o.Repr()
	}
	return strings.Join(parts, ", ")
}

// -----------------------------------------------------------------------------
// Terminators (spec.md §3, §8 property 4).

// Branch is an unconditional jump.
type Branch struct {
	StmtBase
	Target *BasicBlock
}

func (*Branch) statementNode()             {}
func (*Branch) terminatorNode()            {}
func (b *Branch) Repr() string             { return fmt.Sprintf("branch block%%%d", b.Target.ID()) }
func (b *Branch) Successors() []*BasicBlock { return []*BasicBlock{b.Target} }

// CondBranch is a two-way conditional jump.
type CondBranch struct {
	StmtBase
	Cond               Operand
	TrueBlk, FalseBlk *BasicBlock
}

func (*CondBranch) statementNode()  {}
func (*CondBranch) terminatorNode() {}
func (c *CondBranch) Repr() string {
	return fmt.Sprintf("condbranch %s, block%%%d, block%%%d", c.Cond.Repr(), c.TrueBlk.ID(), c.FalseBlk.ID())
}
func (c *CondBranch) Successors() []*BasicBlock { return []*BasicBlock{c.TrueBlk, c.FalseBlk} }

// IndirectBranch is `IndirectBranch(var, [blocks])` (assigned GOTO).
type IndirectBranch struct {
	StmtBase
	Var     Operand
	Targets []*BasicBlock
}

func (*IndirectBranch) statementNode()  {}
func (*IndirectBranch) terminatorNode() {}
func (i *IndirectBranch) Repr() string {
	labels := make([]string, len(i.Targets))
	for j, t := range i.Targets {
		labels[j] = fmt.Sprintf("block%%%d", t.ID())
	}
	return fmt.Sprintf("indirectbranch %s, [%s]", i.Var.Repr(), strings.Join(labels, ", "))
}
func (i *IndirectBranch) Successors() []*BasicBlock { return append([]*BasicBlock(nil), i.Targets...) }

// SwitchKind distinguishes the four multi-way terminator flavors spec.md §3
// names (`Switch/SwitchCase/SwitchType/SwitchRank`).
type SwitchKind int

const (
	SwitchPlain SwitchKind = iota // COMPUTED GOTO, ARITHMETIC IF, alt-return CALL
	SwitchCase                    // SELECT CASE
	SwitchType                    // SELECT TYPE
	SwitchRank                    // SELECT RANK
)

// SwitchArm is one value-guarded arm of a Switch terminator.
type SwitchArm struct {
	Value ast.Expr // nil for a plain positional (computed-goto/arithmetic-if) arm
	Block *BasicBlock
}

// Switch is the shared representation of all multi-way terminators.
type Switch struct {
	StmtBase
	Kind    SwitchKind
	Cond    Operand
	Default *BasicBlock // nil if there is no default/fallthrough arm
	Arms    []SwitchArm
}

func (*Switch) statementNode()  {}
func (*Switch) terminatorNode() {}
func (s *Switch) Repr() string {
	arms := make([]string, len(s.Arms))
	for i, a := range s.Arms {
		arms[i] = fmt.Sprintf("block%%%d", a.Block.ID())
	}
	def := "-"
	if s.Default != nil {
		def = fmt.Sprintf("block%%%d", s.Default.ID())
	}
	return fmt.Sprintf("switch.%d %s, default %s, [%s]", s.Kind, s.Cond.Repr(), def, strings.Join(arms, ", "))
}
func (s *Switch) Successors() []*BasicBlock {
	out := make([]*BasicBlock, 0, len(s.Arms)+1)
	for _, a := range s.Arms {
		out = append(out, a.Block)
	}
	if s.Default != nil {
		out = append(out, s.Default)
	}
	return out
}

// Return is `Return(value?)`.
type Return struct {
	StmtBase
	Value Operand // nil for a subroutine/no-value return
}

func (*Return) statementNode()             {}
func (*Return) terminatorNode()            {}
func (r *Return) Successors() []*BasicBlock { return nil }
func (r *Return) Repr() string {
	if r.Value == nil {
		return "return"
	}
	return "return " + r.Value.Repr()
}

// Unreachable marks a block that provably cannot execute (spec.md §3).
type Unreachable struct {
	StmtBase
}

func (*Unreachable) statementNode()             {}
func (*Unreachable) terminatorNode()            {}
func (*Unreachable) Successors() []*BasicBlock { return nil }
func (*Unreachable) Repr() string              { return "unreachable" }
