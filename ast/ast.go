package ast

import "fortran-middleend/report"

// Node is the base interface every parse-tree node the Linearizer and CFG
// Constructor consume implements. The concrete tree is produced by the
// external parser (spec.md §1 Non-goals); this package fixes the shape that
// collaborator is expected to hand back, grounded on the teacher's
// ast.ASTNode base-interface pattern (bootstrap/ast/ast.go) and on
// soypat-go-fortran's Node interface (Pos/End), adapted to spec.md's
// vocabulary of constructs.
type Node interface {
	Position() *report.TextPosition
}

// Base is embedded by every concrete node to satisfy Node.
type Base struct {
	Pos *report.TextPosition
}

func (b Base) Position() *report.TextPosition {
	return b.Pos
}

// Expr is an unanalyzed or analyzed expression handed to the core by the
// external expression analyzer (spec.md §6 "analyze(exprOrVar) returning an
// optional typed expression"). The core never inspects an Expr's internal
// shape -- it only threads Exprs through into IR ApplyExpr/LocateExpr nodes
// -- so Expr is intentionally a thin, mostly-opaque interface rather than a
// full expression grammar.
type Expr interface {
	Node
	exprNode()
}

// RawExpr is a not-yet-analyzed expression carrying only its source text and
// position, standing in for whatever rich expression tree the external
// parser actually produces.
type RawExpr struct {
	Base
	Text string
}

func (*RawExpr) exprNode() {}

// Var is an lvalue reference: a variable, array element, structure
// component, or other designator that can appear on the left of an
// assignment or as an ALLOCATE/DEALLOCATE/NULLIFY object.
type Var struct {
	Base
	Name string
}

func (*Var) exprNode() {}

// Stmt is any parse-tree statement node. The Linearizer type-switches over
// concrete Stmt implementations; the sealed marker method keeps the switch
// exhaustive-checkable (DESIGN NOTES §9).
type Stmt interface {
	Node
	stmtNode()
}

// Label is a source statement label (an integer literal target for GOTO,
// alternate-return, I/O specifiers, etc).
type Label int

// LabeledStmt wraps any statement carrying a source label (`10 continue`,
// `20 x = 1`). The Linearizer interns Label once per LabeledStmt it visits
// (spec.md §4.3 "requesting the same source label twice returns the same
// linear-label id") and then descends into Inner; a bare CONTINUE whose only
// purpose is to anchor a label arrives here with Inner set to *ContinueStmt.
type LabeledStmt struct {
	Base
	Label Label
	Inner Stmt
}

func (*LabeledStmt) stmtNode() {}
