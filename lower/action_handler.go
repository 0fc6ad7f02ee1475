package lower

import (
	"fortran-middleend/ast"
	"fortran-middleend/ir"
	"fortran-middleend/linearize"
)

// handleAction is the Action-Statement Handler (spec.md §4.5's table): every
// plain action statement the Linearizer forwarded untouched as an ActionOp
// lands here. CONTINUE, CYCLE, EXIT, GOTO, the non-block IF, RETURN,
// COMPUTED GOTO, ARITHMETIC IF, and ASSIGNED GOTO are all handled earlier by
// the Linearizer and must never reach this dispatcher; a statement kind not
// listed below reaching here is therefore a contract violation, reported as
// an internal-compiler-error rather than silently ignored.
func (b *Builder) handleAction(s ast.Stmt) {
	b.ensureBlock()
	switch v := s.(type) {
	case *ast.AssignmentStmt:
		// spec.md §9 open question (ii): the intrinsic branch is always
		// taken; defined-assignment dispatch is not built (DESIGN.md).
		addr := b.addrOperand(v.LHS)
		val := b.applyExprOperand(v.RHS)
		b.curBlock.Append(&ir.Store{StmtBase: ir.StmtBase{Pos: v.Position()}, Addr: addr, Value: val})

	case *ast.PointerAssignmentStmt:
		addr := b.locateOperand(v.LHS, v.BoundsRemap)
		val := b.locateOperand(v.RHS, nil)
		b.curBlock.Append(&ir.Store{StmtBase: ir.StmtBase{Pos: v.Position()}, Addr: addr, Value: val})

	case *ast.AllocateStmt:
		for _, obj := range v.Objects {
			alloc := &ir.Alloc{StmtBase: ir.StmtBase{Pos: obj.Position()}}
			b.curBlock.Append(alloc)
			if name, ok := obj.(*ast.Var); ok {
				b.allocByName[name.Name] = alloc
			}
			b.curBlock.Append(&ir.Store{StmtBase: ir.StmtBase{Pos: obj.Position()}, Addr: b.addrOperand(obj), Value: ir.StmtValue{Stmt: alloc}})
		}

	case *ast.DeallocateStmt:
		for _, obj := range v.Objects {
			var alloc *ir.Alloc
			if name, ok := obj.(*ast.Var); ok {
				alloc = b.allocByName[name.Name]
			}
			if alloc == nil {
				b.ctx.ReportLoweringWarning(obj.Position(), "DEALLOCATE target has no tracked ALLOCATE site; emitting Dealloc(nil)")
			}
			b.curBlock.Append(&ir.Dealloc{StmtBase: ir.StmtBase{Pos: obj.Position()}, Alloc: alloc})
		}

	case *ast.NullifyStmt:
		for _, obj := range v.Objects {
			loc := b.locateOperand(obj, nil)
			b.curBlock.Append(&ir.Nullify{StmtBase: ir.StmtBase{Pos: obj.Position()}, Addr: loc})
		}

	case *ast.CallStmt:
		b.emitCall(v)

	case *ast.IOStmt:
		b.emitIORuntime(v)

	case *ast.RuntimeStmt:
		args := make([]ir.Operand, len(v.Args))
		for i, a := range v.Args {
			args[i] = b.applyExprOperand(a)
		}
		b.curBlock.Append(&ir.Runtime{StmtBase: ir.StmtBase{Pos: v.Position()}, Kind: v.Kind, Args: args})

	case *ast.AssignStmt:
		// ASSIGN lbl TO v => Store(addr(v), blockRef(lbl)).
		id, ok := b.sourceLabels[v.Label]
		if !ok {
			b.ctx.ReportICE("ASSIGN: label %d was never interned by the linearizer", v.Label)
		}
		blk := b.blockFor(id)
		b.curBlock.Append(&ir.Store{StmtBase: ir.StmtBase{Pos: v.Position()}, Addr: ir.ExprOperand{Expr: v.Var}, Value: ir.BlockOperand{Block: blk}})

	default:
		b.ctx.ReportICE("action-statement handler: unexpected statement kind %T reached the wrong path", s)
	}
}

// handleSwitch builds the Switch terminator for whichever source-statement
// family the Linearizer folded into the shared SwitchOp shape (spec.md §3).
func (b *Builder) handleSwitch(op linearize.SwitchOp) {
	switch v := op.Stmt.(type) {
	case *ast.ComputedGotoStmt:
		cond := b.applyExprOperand(v.Selector)
		arms := make([]ir.SwitchArm, len(op.Targets)-1)
		for i := 0; i < len(op.Targets)-1; i++ {
			arms[i] = ir.SwitchArm{Block: b.blockFor(op.Targets[i])}
		}
		b.appendTerminator(&ir.Switch{Kind: ir.SwitchPlain, Cond: cond, Default: b.blockFor(op.Targets[len(op.Targets)-1]), Arms: arms})

	case *ast.ArithmeticIfStmt:
		cond := b.applyExprOperand(v.Cond)
		arms := make([]ir.SwitchArm, len(op.Targets))
		for i, t := range op.Targets {
			arms[i] = ir.SwitchArm{Block: b.blockFor(t)}
		}
		b.appendTerminator(&ir.Switch{Kind: ir.SwitchPlain, Cond: cond, Arms: arms})

	case *ast.CallStmt:
		call := b.emitCall(v)
		arms := make([]ir.SwitchArm, len(op.Targets)-1)
		for i := 0; i < len(op.Targets)-1; i++ {
			arms[i] = ir.SwitchArm{Block: b.blockFor(op.Targets[i])}
		}
		b.appendTerminator(&ir.Switch{Kind: ir.SwitchPlain, Cond: ir.StmtValue{Stmt: call}, Default: b.blockFor(op.Targets[len(op.Targets)-1]), Arms: arms})

	case *ast.SelectConstruct:
		cond := b.applyExprOperand(v.Selector)
		kind := ir.SwitchCase
		switch v.Kind {
		case ast.SelectRank:
			kind = ir.SwitchRank
		case ast.SelectType:
			kind = ir.SwitchType
		}
		var arms []ir.SwitchArm
		var def *ir.BasicBlock
		for i, c := range v.Cases {
			blk := b.blockFor(op.Targets[i])
			for _, val := range c.Values {
				if val.IsDefault {
					def = blk
					continue
				}
				arms = append(arms, ir.SwitchArm{Value: val.Expr, Block: blk})
			}
		}
		b.appendTerminator(&ir.Switch{Kind: kind, Cond: cond, Default: def, Arms: arms})

	default:
		b.ctx.ReportICE("cfg constructor: unexpected Switch statement kind %T", op.Stmt)
	}
}
