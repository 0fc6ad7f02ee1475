package lower

import (
	"fortran-middleend/ast"
	"fortran-middleend/ir"
)

// applyExprOperand materializes an expression's value into the current
// block as an ApplyExpr (spec.md §4.4 "selector expressions ... are emitted
// as ApplyExpr") and returns a reference to it.
func (b *Builder) applyExprOperand(e ast.Expr) ir.Operand {
	b.ensureBlock()
	ae := &ir.ApplyExpr{StmtBase: ir.StmtBase{Pos: e.Position()}, Expr: e}
	b.curBlock.Append(ae)
	return ir.StmtValue{Stmt: ae}
}

// locateOperand materializes the address an expression designates.
func (b *Builder) locateOperand(e ast.Expr, remap []ast.BoundsRemap) ir.Operand {
	b.ensureBlock()
	le := &ir.LocateExpr{StmtBase: ir.StmtBase{Pos: e.Position()}, Expr: e, BoundsRemap: remap}
	b.curBlock.Append(le)
	return ir.StmtValue{Stmt: le}
}

// addrOperand is `addr(name)` (spec.md §4.5): a bare Var is addressed
// directly since name resolution -- and so a real symbol to point at --
// happens upstream of this core; anything else (array elements, structure
// components) needs its address computed via LocateExpr.
func (b *Builder) addrOperand(e ast.Expr) ir.Operand {
	if v, ok := e.(*ast.Var); ok {
		return ir.ExprOperand{Expr: v}
	}
	return b.locateOperand(e, nil)
}

// emitCall builds the Call statement for a CALL, dropping alternate-return
// specifiers (`*lbl`) from the operand list: those args carry no Value
// (ast/actions.go's CallArg.AltReturn), and their targets are already wired
// upstream as the enclosing Switch's arms.
func (b *Builder) emitCall(v *ast.CallStmt) *ir.Call {
	args := make([]ir.Operand, 0, len(v.Args))
	for _, a := range v.Args {
		if a.AltReturn != 0 {
			continue
		}
		args = append(args, b.applyExprOperand(a.Value))
	}
	b.ensureBlock()
	call := &ir.Call{StmtBase: ir.StmtBase{Pos: v.Position()}, Callee: v.Callee, Args: args}
	b.curBlock.Append(call)
	return call
}

func (b *Builder) emitIORuntime(v *ast.IOStmt) *ir.IORuntime {
	args := make([]ir.Operand, len(v.Args))
	for i, a := range v.Args {
		args[i] = b.applyExprOperand(a)
	}
	b.ensureBlock()
	io := &ir.IORuntime{StmtBase: ir.StmtBase{Pos: v.Position()}, Kind: v.Kind, Args: args}
	b.curBlock.Append(io)
	return io
}
