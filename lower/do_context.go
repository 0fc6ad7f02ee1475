package lower

import (
	"fortran-middleend/ast"
	"fortran-middleend/ir"
	"fortran-middleend/linearize"
)

func (b *Builder) doCtxFor(do *ast.NonLabelDoStmt) *doContext {
	dc, ok := b.doCtxs[do]
	if !ok {
		dc = &doContext{}
		b.doCtxs[do] = dc
	}
	return dc
}

// stepOperand materializes the DO's step expression, defaulting to a
// literal 1 when Step is unset (spec.md §4.4).
func (b *Builder) stepOperand(do *ast.NonLabelDoStmt) ir.Operand {
	if do.Step != nil {
		return b.applyExprOperand(do.Step)
	}
	return ir.ExprOperand{Expr: &ast.RawExpr{Base: ast.Base{Pos: do.Position()}, Text: "1"}}
}

// initDoContext emits the counted-DO/DO-CONCURRENT induction variable's
// initial store (`indvar := lower`) into the block BeginConstructOp just
// opened, and leaves DO WHILE/plain DO with no counted-loop state at all.
func (b *Builder) initDoContext(do *ast.NonLabelDoStmt) {
	if do.Kind != ast.DoCounted && do.Kind != ast.DoConcurrent {
		return
	}
	if do.IndVar == nil || do.Lower == nil {
		b.ctx.ReportLoweringWarning(do.Position(), "DO CONCURRENT without an explicit induction bound: iteration is lowered as no-op")
		return
	}
	b.ensureBlock()
	init := b.applyExprOperand(do.Lower)
	b.curBlock.Append(&ir.Store{StmtBase: ir.StmtBase{Pos: do.Position()}, Addr: ir.ExprOperand{Expr: do.IndVar}, Value: init})
}

func (b *Builder) handleDoIncrement(op linearize.DoIncrementOp) {
	do := op.Stmt
	if do.Kind != ast.DoCounted && do.Kind != ast.DoConcurrent {
		return
	}
	if do.IndVar == nil {
		return
	}
	b.ensureBlock()
	step := b.stepOperand(do)
	b.curBlock.Append(&ir.Increment{StmtBase: ir.StmtBase{Pos: do.Position()}, LHS: ir.ExprOperand{Expr: do.IndVar}, Step: step})
}

func (b *Builder) handleDoCompare(op linearize.DoCompareOp) {
	do := op.Stmt
	dc := b.doCtxFor(do)

	switch do.Kind {
	case ast.DoConcurrent:
		// spec.md §4.4: DO CONCURRENT's latch is a constant true; §9's
		// open question (i) leaves the rest of its semantics (locality
		// specs, mask expressions) as unimplemented no-op placeholders.
		dc.LastCond = ir.ExprOperand{Expr: &ast.RawExpr{Base: ast.Base{Pos: do.Position()}, Text: ".true."}}

	case ast.DoCounted:
		if do.IndVar == nil || do.Upper == nil {
			dc.LastCond = ir.ExprOperand{Expr: &ast.RawExpr{Base: ast.Base{Pos: do.Position()}, Text: ".false."}}
			return
		}
		b.ensureBlock()
		load := &ir.Load{StmtBase: ir.StmtBase{Pos: do.Position()}, Addr: ir.ExprOperand{Expr: do.IndVar}}
		b.curBlock.Append(load)
		step := b.stepOperand(do)
		upper := b.applyExprOperand(do.Upper)
		cond := &ir.DoCondition{StmtBase: ir.StmtBase{Pos: do.Position()}, Step: step, Var: ir.StmtValue{Stmt: load}, Upper: upper}
		b.curBlock.Append(cond)
		dc.LastCond = ir.StmtValue{Stmt: cond}

	case ast.DoWhile:
		dc.LastCond = b.applyExprOperand(do.WhileCond)

	case ast.DoInfinite:
		dc.LastCond = ir.ExprOperand{Expr: &ast.RawExpr{Base: ast.Base{Pos: do.Position()}, Text: ".true."}}
	}
}
