// Package lower implements the IR Builder and CFG Constructor: the second
// stage of spec.md §2's two-stage lowering pipeline, consuming a
// linearize.Program and producing a well-formed ir.Procedure.
package lower

import (
	"fortran-middleend/ast"
	"fortran-middleend/ir"
	"fortran-middleend/linearize"
	"fortran-middleend/report"
)

// doContext accumulates the per-DO state the counted-DO latch needs across
// its DoIncrement/DoCompare pseudo-ops (spec.md §4.4 "Loop latch"): the
// DoCompare pseudo-op materializes the condition CondGoto's CondSource
// resolves to once the DO itself is passed as CondSource instead of a plain
// expression.
type doContext struct {
	LastCond ir.Operand
}

// Builder is the CFG Constructor's working state: the region/block cursor,
// the label-to-block table doubling as the deferred-fixup queue (spec.md
// §4.4: a block reached via blockFor before its defining LabelOp is
// detached and stays in pending until Attach), and the DO-context map.
// Grounded on the teacher's Lowerer struct (bootstrap/lower/lowerer.go),
// which holds a similar cursor-plus-symbol-table pair; generalized into an
// explicit region stack here because spec.md's region tree has no teacher
// equivalent (the teacher lowers directly into one flat FuncDef body).
type Builder struct {
	ctx  *report.Context
	proc *ir.Procedure

	cur      *ir.Region
	curBlock *ir.BasicBlock

	blocks  map[linearize.LabelID]*ir.BasicBlock
	pending map[linearize.LabelID]bool

	regionStack []*ir.Region
	regionOpen  []bool

	// pendingFreshBlock is the block a BeginConstructOp just opened, held
	// only until the very next op is dispatched (spec.md §4.4: "a
	// BeginConstruct immediately followed by a Label binds to the freshly
	// created first block" rather than opening a second, empty block for
	// the label to occupy).
	pendingFreshBlock *ir.BasicBlock

	doCtxs      map[*ast.NonLabelDoStmt]*doContext
	allocByName map[string]*ir.Alloc

	sourceLabels map[ast.Label]linearize.LabelID
}

// NewBuilder creates a Builder that will report through ctx.
func NewBuilder(ctx *report.Context) *Builder {
	return &Builder{
		ctx:         ctx,
		blocks:      map[linearize.LabelID]*ir.BasicBlock{},
		pending:     map[linearize.LabelID]bool{},
		doCtxs:      map[*ast.NonLabelDoStmt]*doContext{},
		allocByName: map[string]*ir.Alloc{},
	}
}

// Build runs the CFG Constructor over prog and returns the resulting
// procedure. name is the subprogram's name, carried through to
// ir.Procedure.Name for diagnostics and test fixtures.
func (b *Builder) Build(name string, prog *linearize.Program) *ir.Procedure {
	b.proc = ir.NewProcedure(name)
	b.cur = b.proc.Root
	b.sourceLabels = prog.SourceLabels
	b.curBlock = b.proc.NewBlock(b.cur)

	for _, op := range prog.Ops {
		b.dispatch(op)
	}

	// Fortran's implicit subprogram return: a body whose last statement is
	// not RETURN/STOP/etc. falls off the end, but every reachable block
	// still needs exactly one terminator (spec.md §3 invariant (i), §8
	// property 4).
	if b.curBlock != nil && !b.curBlock.IsTerminated() {
		b.appendTerminator(&ir.Return{})
	}

	return b.proc
}

func (b *Builder) dispatch(op linearize.Op) {
	fresh := b.pendingFreshBlock
	b.pendingFreshBlock = nil

	switch v := op.(type) {
	case linearize.LabelOp:
		b.handleLabel(v, fresh)
	case linearize.GotoOp:
		b.handleGoto(v)
	case linearize.CondGotoOp:
		b.handleCondGoto(v)
	case linearize.IndirectGotoOp:
		b.handleIndirectGoto(v)
	case linearize.SwitchingIOOp:
		b.handleSwitchingIO(v)
	case linearize.SwitchOp:
		b.handleSwitch(v)
	case linearize.ActionOp:
		b.handleAction(v.Stmt)
	case linearize.ReturnOp:
		b.handleReturn(v)
	case linearize.BeginConstructOp:
		b.handleBegin(v)
	case linearize.EndConstructOp:
		b.handleEnd(v)
	case linearize.DoIncrementOp:
		b.handleDoIncrement(v)
	case linearize.DoCompareOp:
		b.handleDoCompare(v)
	default:
		b.ctx.ReportICE("cfg constructor: unhandled linear op %T", op)
	}
}

// ensureBlock guarantees curBlock is non-nil, opening a fresh block in the
// current region if the cursor was cleared by a preceding terminator and no
// LabelOp has reopened it yet (for example, a statement that directly
// follows an unconditional GOTO, a RETURN, or an arithmetic IF).
func (b *Builder) ensureBlock() {
	if b.curBlock == nil {
		b.curBlock = b.proc.NewBlock(b.cur)
	}
}

// blockFor returns the block standing in for a linear-label id, allocating
// a detached placeholder on first reference (spec.md §4.4's fixup queue,
// realized here as lazy block creation plus the pending set rather than a
// literal closure queue -- Design Note 9 explicitly permits this).
func (b *Builder) blockFor(id linearize.LabelID) *ir.BasicBlock {
	if id == 0 {
		return nil
	}
	if blk, ok := b.blocks[id]; ok {
		return blk
	}
	blk := b.proc.NewDetachedBlock()
	b.blocks[id] = blk
	b.pending[id] = true
	return blk
}

func (b *Builder) appendTerminator(t ir.Terminator) {
	b.ensureBlock()
	b.curBlock.Append(t)
	for _, succ := range t.Successors() {
		ir.Connect(b.curBlock, succ)
	}
	b.curBlock = nil
}

func (b *Builder) handleLabel(op linearize.LabelOp, fresh *ir.BasicBlock) {
	if fresh != nil {
		if _, exists := b.blocks[op.ID]; !exists {
			b.blocks[op.ID] = fresh
			b.curBlock = fresh
			return
		}
	}
	target := b.blockFor(op.ID)
	if target.Region == nil {
		target.Attach(b.cur)
		delete(b.pending, op.ID)
	}
	if b.curBlock != nil && b.curBlock != target {
		br := &ir.Branch{Target: target}
		b.curBlock.Append(br)
		ir.Connect(b.curBlock, target)
	}
	b.curBlock = target
}

func (b *Builder) handleGoto(op linearize.GotoOp) {
	target := b.blockFor(op.Target)
	b.appendTerminator(&ir.Branch{Target: target})
}

// condOperand resolves a CondGotoOp's CondSource (spec.md §4.4's "condSource"
// wording): either an ordinary expression, materialized via ApplyExpr, or
// the enclosing NonLabelDoStmt standing for the condition the immediately
// preceding DoCompare pseudo-op just computed.
func (b *Builder) condOperand(src any) ir.Operand {
	switch v := src.(type) {
	case ast.Expr:
		return b.applyExprOperand(v)
	case *ast.NonLabelDoStmt:
		return b.doCtxFor(v).LastCond
	default:
		b.ctx.ReportICE("cfg constructor: unrecognized CondGoto source %T", src)
		return nil
	}
}

func (b *Builder) handleCondGoto(op linearize.CondGotoOp) {
	cond := b.condOperand(op.CondSource)
	trueBlk := b.blockFor(op.TrueID)
	falseBlk := b.blockFor(op.FalseID)
	b.appendTerminator(&ir.CondBranch{Cond: cond, TrueBlk: trueBlk, FalseBlk: falseBlk})
}

func (b *Builder) handleIndirectGoto(op linearize.IndirectGotoOp) {
	targets := make([]*ir.BasicBlock, len(op.Targets))
	for i, t := range op.Targets {
		targets[i] = b.blockFor(t)
	}
	b.appendTerminator(&ir.IndirectBranch{Var: ir.ExprOperand{Expr: op.Var}, Targets: targets})
}

// handleSwitchingIO builds the data-transfer/positioning statement plus its
// completion-status Switch. Arms appear in the fixed Err, Eor, End order;
// Default is the normal-completion fallthrough label.
func (b *Builder) handleSwitchingIO(op linearize.SwitchingIOOp) {
	io := b.emitIORuntime(op.Stmt)

	sw := &ir.Switch{Kind: ir.SwitchPlain, Cond: ir.StmtValue{Stmt: io}, Default: b.blockFor(op.Next)}
	for _, id := range []linearize.LabelID{op.Err, op.Eor, op.End} {
		if id != 0 {
			sw.Arms = append(sw.Arms, ir.SwitchArm{Block: b.blockFor(id)})
		}
	}
	b.appendTerminator(sw)
}

func (b *Builder) handleReturn(op linearize.ReturnOp) {
	ret := &ir.Return{}
	if r, ok := op.Stmt.(*ast.ReturnStmt); ok && r.AltReturnIndex != nil {
		ret.Value = b.applyExprOperand(r.AltReturnIndex)
	}
	b.appendTerminator(ret)
}

// isRegionOpener reports whether stmt is one of the construct kinds spec.md
// §4.4 names as region-opening: BLOCK, ASSOCIATE, CHANGE TEAM, DO, SELECT
// RANK, SELECT TYPE. CRITICAL, WHERE, and FORALL get the same Begin/End
// bracket textually (spec.md §4.3's schema groups them together) but never
// open a region.
func isRegionOpener(stmt ast.Stmt) bool {
	switch v := stmt.(type) {
	case *ast.BlockConstruct, *ast.AssociateConstruct, *ast.ChangeTeamConstruct, *ast.NonLabelDoStmt:
		return true
	case *ast.SelectConstruct:
		return v.Kind == ast.SelectRank || v.Kind == ast.SelectType
	default:
		return false
	}
}

func regionKindFor(stmt ast.Stmt) ir.RegionKind {
	switch v := stmt.(type) {
	case *ast.BlockConstruct:
		return ir.RegionBlock
	case *ast.AssociateConstruct:
		return ir.RegionAssociate
	case *ast.ChangeTeamConstruct:
		return ir.RegionChangeTeam
	case *ast.NonLabelDoStmt:
		return ir.RegionDo
	case *ast.SelectConstruct:
		if v.Kind == ast.SelectRank {
			return ir.RegionSelectRank
		}
		return ir.RegionSelectType
	default:
		return ir.RegionBlock
	}
}

func constructNameOf(stmt ast.Stmt) ast.ConstructName {
	switch v := stmt.(type) {
	case *ast.BlockConstruct:
		return v.Name
	case *ast.AssociateConstruct:
		return v.Name
	case *ast.ChangeTeamConstruct:
		return v.Name
	case *ast.NonLabelDoStmt:
		return v.Name
	case *ast.SelectConstruct:
		return v.Name
	case *ast.CriticalConstruct:
		return v.Name
	case *ast.WhereConstruct:
		return v.Name
	case *ast.ForallConstruct:
		return v.Name
	default:
		return ""
	}
}

func (b *Builder) handleBegin(op linearize.BeginConstructOp) {
	opens := isRegionOpener(op.Stmt)
	b.regionOpen = append(b.regionOpen, opens)

	if opens {
		child := b.cur.NewChild(regionKindFor(op.Stmt), constructNameOf(op.Stmt))
		newBlock := b.proc.NewBlock(child)
		if b.curBlock != nil {
			br := &ir.Branch{Target: newBlock}
			b.curBlock.Append(br)
			ir.Connect(b.curBlock, newBlock)
		}
		b.regionStack = append(b.regionStack, b.cur)
		b.cur = child
		b.curBlock = newBlock
		b.pendingFreshBlock = newBlock
	}

	switch v := op.Stmt.(type) {
	case *ast.NonLabelDoStmt:
		b.initDoContext(v)
	case *ast.AssociateConstruct:
		b.initAssociateBindings(v)
	}
}

// initAssociateBindings emits each binding's Store(addr(name),
// ApplyExpr(selector)) into the region ASSOCIATE just opened (spec.md
// §4.4).
func (b *Builder) initAssociateBindings(assoc *ast.AssociateConstruct) {
	for _, bind := range assoc.Bindings {
		b.ensureBlock()
		addr := b.addrOperand(&ast.Var{Name: bind.Name})
		val := b.applyExprOperand(bind.Selector)
		b.curBlock.Append(&ir.Store{StmtBase: ir.StmtBase{Pos: bind.Selector.Position()}, Addr: addr, Value: val})
	}
}

func (b *Builder) handleEnd(op linearize.EndConstructOp) {
	n := len(b.regionOpen) - 1
	opened := b.regionOpen[n]
	b.regionOpen = b.regionOpen[:n]
	if opened {
		m := len(b.regionStack) - 1
		b.cur = b.regionStack[m]
		b.regionStack = b.regionStack[:m]
	}
}
