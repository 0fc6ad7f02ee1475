package linearize

import (
	"fortran-middleend/ast"
	"fortran-middleend/report"
)

// nameEntry is one frame of the construct name stack (spec.md §4.3 "Name
// stack"). IsLoop gates CYCLE, which may only target a DO; EXIT may target
// any named construct, or the nearest DO when unnamed.
type nameEntry struct {
	Name     ast.ConstructName
	ExitLabel LabelID
	IncLabel  LabelID
	IsLoop    bool
}

// Linearizer walks the parse tree of one subprogram and produces a flat
// Program of linear ops (spec.md §4.3). Grounded on the teacher's
// bootstrap/lower dispatcher shape (a struct holding walk state, a private
// per-statement-family method, and an exhaustive type switch with a
// report.ReportICE default), generalized here into two stages because
// spec.md's dataflow (§2) inserts this flat intermediate between the parse
// tree and the CFG Constructor where the teacher has none.
type Linearizer struct {
	ctx *report.Context

	ops        []Op
	nextLabel  LabelID
	sourceLbls map[ast.Label]LabelID
	referenced map[LabelID]bool

	// assignedTargets accumulates, per variable, every label an ASSIGN lbl
	// TO v has bound to it (spec.md §4.3). ASSIGNED GOTO v branches to that
	// set, except when the statement carries its own explicit target list,
	// which is used instead.
	assignedTargets map[string][]LabelID

	names []nameEntry
}

// NewLinearizer creates a Linearizer reporting through ctx.
func NewLinearizer(ctx *report.Context) *Linearizer {
	return &Linearizer{
		ctx:             ctx,
		sourceLbls:      map[ast.Label]LabelID{},
		referenced:      map[LabelID]bool{},
		assignedTargets: map[string][]LabelID{},
	}
}

// Linearize walks body and returns the resulting Program.
func (lz *Linearizer) Linearize(body ast.Block) *Program {
	lz.walkBlock(body)
	return &Program{Ops: lz.ops, Referenced: lz.referenced, SourceLabels: lz.sourceLbls}
}

func (lz *Linearizer) emit(op Op) {
	lz.ops = append(lz.ops, op)
}

func (lz *Linearizer) allocLabel() LabelID {
	lz.nextLabel++
	return lz.nextLabel
}

// internSourceLabel maps a source-literal label to its linear-label id,
// allocating one on first use (spec.md §4.3 "Label allocation").
func (lz *Linearizer) internSourceLabel(l ast.Label) LabelID {
	if id, ok := lz.sourceLbls[l]; ok {
		return id
	}
	id := lz.allocLabel()
	lz.sourceLbls[l] = id
	return id
}

func (lz *Linearizer) markReferenced(id LabelID) {
	if id != 0 {
		lz.referenced[id] = true
	}
}

func (lz *Linearizer) pushName(e nameEntry) { lz.names = append(lz.names, e) }
func (lz *Linearizer) popName()             { lz.names = lz.names[:len(lz.names)-1] }

func (lz *Linearizer) resolveCycle(name ast.ConstructName) LabelID {
	for i := len(lz.names) - 1; i >= 0; i-- {
		e := lz.names[i]
		if name != "" && e.Name != name {
			continue
		}
		if !e.IsLoop {
			if name != "" {
				lz.ctx.ReportICE("CYCLE %s: named construct is not a loop", name)
			}
			continue
		}
		return e.IncLabel
	}
	lz.ctx.ReportICE("CYCLE: no enclosing loop")
	return 0
}

func (lz *Linearizer) resolveExit(name ast.ConstructName) LabelID {
	for i := len(lz.names) - 1; i >= 0; i-- {
		e := lz.names[i]
		if name == "" {
			if e.IsLoop {
				return e.ExitLabel
			}
			continue
		}
		if e.Name == name {
			return e.ExitLabel
		}
	}
	lz.ctx.ReportICE("EXIT: no matching enclosing construct")
	return 0
}

func (lz *Linearizer) walkBlock(b ast.Block) {
	for _, s := range b.Stmts {
		lz.walkStmt(s)
	}
}

// walkStmt is the per-statement-family dispatcher (spec.md §4.3, §4.5). A
// statement kind with no case of its own is forwarded as an ActionOp; the
// Action-Statement Handler reports any kind it does not know as an
// internal-compiler-error.
func (lz *Linearizer) walkStmt(s ast.Stmt) {
	switch v := s.(type) {
	case *ast.LabeledStmt:
		id := lz.internSourceLabel(v.Label)
		lz.emit(LabelOp{ID: id})
		lz.walkStmt(v.Inner)

	case *ast.ContinueStmt:
		// A bare CONTINUE carries no action; its only role is as a label
		// anchor, already handled by the enclosing LabeledStmt if any.

	case *ast.GotoStmt:
		target := lz.internSourceLabel(v.Target)
		lz.markReferenced(target)
		lz.emit(GotoOp{Target: target})

	case *ast.CycleStmt:
		id := lz.resolveCycle(ast.ConstructName(v.ConstructName))
		lz.markReferenced(id)
		lz.emit(GotoOp{Target: id})

	case *ast.ExitStmt:
		id := lz.resolveExit(ast.ConstructName(v.ConstructName))
		lz.markReferenced(id)
		lz.emit(GotoOp{Target: id})

	case *ast.ReturnStmt, *ast.StopStmt, *ast.FailImageStmt:
		lz.emit(ReturnOp{Stmt: s})

	case *ast.ComputedGotoStmt:
		targets := make([]LabelID, len(v.Targets))
		for i, l := range v.Targets {
			targets[i] = lz.internSourceLabel(l)
			lz.markReferenced(targets[i])
		}
		fallthroughID := lz.allocLabel()
		lz.emit(SwitchOp{Stmt: s, Targets: append(targets, fallthroughID)})
		lz.markReferenced(fallthroughID)
		lz.emit(LabelOp{ID: fallthroughID})

	case *ast.ArithmeticIfStmt:
		neg := lz.internSourceLabel(v.Negative)
		zero := lz.internSourceLabel(v.Zero)
		pos := lz.internSourceLabel(v.Positive)
		lz.markReferenced(neg)
		lz.markReferenced(zero)
		lz.markReferenced(pos)
		lz.emit(SwitchOp{Stmt: s, Targets: []LabelID{neg, zero, pos}})

	case *ast.AssignStmt:
		id := lz.internSourceLabel(v.Label)
		lz.markReferenced(id)
		lz.assignedTargets[v.Var.Name] = append(lz.assignedTargets[v.Var.Name], id)
		lz.emit(ActionOp{Stmt: s})

	case *ast.AssignedGotoStmt:
		var targets []LabelID
		if len(v.ExplicitTargets) > 0 {
			targets = make([]LabelID, len(v.ExplicitTargets))
			for i, l := range v.ExplicitTargets {
				targets[i] = lz.internSourceLabel(l)
			}
		} else {
			targets = lz.assignedTargets[v.Var.Name]
		}
		for _, id := range targets {
			lz.markReferenced(id)
		}
		lz.emit(IndirectGotoOp{Var: v.Var, Targets: targets})

	case *ast.CallStmt:
		if alt := v.AltReturnLabels(); len(alt) > 0 {
			targets := make([]LabelID, len(alt))
			for i, l := range alt {
				targets[i] = lz.internSourceLabel(l)
				lz.markReferenced(targets[i])
			}
			fallthroughID := lz.allocLabel()
			lz.emit(SwitchOp{Stmt: s, Targets: append(targets, fallthroughID)})
			lz.markReferenced(fallthroughID)
			lz.emit(LabelOp{ID: fallthroughID})
		} else {
			lz.emit(ActionOp{Stmt: s})
		}

	case *ast.IOStmt:
		if v.Specs.HasControlTransfer() {
			next := lz.allocLabel()
			io := SwitchingIOOp{Stmt: v, Next: next}
			if v.Specs.Err != 0 {
				io.Err = lz.internSourceLabel(v.Specs.Err)
				lz.markReferenced(io.Err)
			}
			if v.Specs.Eor != 0 {
				io.Eor = lz.internSourceLabel(v.Specs.Eor)
				lz.markReferenced(io.Eor)
			}
			if v.Specs.End != 0 {
				io.End = lz.internSourceLabel(v.Specs.End)
				lz.markReferenced(io.End)
			}
			lz.emit(io)
			lz.markReferenced(next)
			lz.emit(LabelOp{ID: next})
		} else {
			lz.emit(ActionOp{Stmt: s})
		}

	case *ast.IfStmt:
		thenID := lz.allocLabel()
		endifID := lz.allocLabel()
		lz.emit(CondGotoOp{CondSource: v.Cond, TrueID: thenID, FalseID: endifID})
		lz.markReferenced(thenID)
		lz.markReferenced(endifID)
		lz.emit(LabelOp{ID: thenID})
		lz.walkStmt(v.Action)
		lz.emit(LabelOp{ID: endifID})

	case *ast.IfConstruct:
		lz.walkIfConstruct(v)

	case *ast.SelectConstruct:
		lz.walkSelectConstruct(v)

	case *ast.NonLabelDoStmt:
		lz.walkDo(v)

	case *ast.BlockConstruct:
		lz.walkBracketed(v, v.Name, v.Body, false)
	case *ast.AssociateConstruct:
		lz.walkBracketed(v, v.Name, v.Body, false)
	case *ast.ChangeTeamConstruct:
		lz.walkBracketed(v, v.Name, v.Body, false)
	case *ast.CriticalConstruct:
		lz.walkBracketed(v, v.Name, v.Body, true)

	case *ast.WhereConstruct:
		var flat ast.Block
		for _, b := range v.Bodies {
			flat.Stmts = append(flat.Stmts, b.Stmts...)
		}
		lz.walkBracketed(v, v.Name, flat, true)

	case *ast.ForallConstruct:
		lz.walkBracketed(v, v.Name, v.Body, true)

	case *ast.CompilerDirective:
		lz.ctx.ReportLoweringWarning(v.Position(), "unsupported construct: lowered as no-op")

	default:
		// AssignmentStmt, PointerAssignmentStmt, AllocateStmt,
		// DeallocateStmt, NullifyStmt, RuntimeStmt, and any other plain
		// action statement forward untouched (spec.md §4.5's table).
		lz.emit(ActionOp{Stmt: s})
	}
}

func (lz *Linearizer) walkIfConstruct(v *ast.IfConstruct) {
	exitID := lz.allocLabel()
	lz.pushName(nameEntry{Name: v.Name, ExitLabel: exitID})
	for i, cb := range v.CondBranches {
		isLast := i == len(v.CondBranches)-1
		if cb.Cond == nil {
			// trailing ELSE
			lz.walkBlock(cb.Body)
			lz.markReferenced(exitID)
			lz.emit(GotoOp{Target: exitID})
			continue
		}
		thenID := lz.allocLabel()
		nextID := exitID
		if !isLast {
			nextID = lz.allocLabel()
		}
		lz.emit(CondGotoOp{CondSource: cb.Cond, TrueID: thenID, FalseID: nextID})
		lz.markReferenced(thenID)
		lz.markReferenced(nextID)
		lz.emit(LabelOp{ID: thenID})
		lz.walkBlock(cb.Body)
		lz.markReferenced(exitID)
		lz.emit(GotoOp{Target: exitID})
		if !isLast {
			lz.emit(LabelOp{ID: nextID})
		}
	}
	lz.popName()
	lz.emit(LabelOp{ID: exitID})
}

func (lz *Linearizer) walkSelectConstruct(v *ast.SelectConstruct) {
	opensRegion := v.Kind == ast.SelectRank || v.Kind == ast.SelectType
	if opensRegion {
		lz.emit(BeginConstructOp{Stmt: v})
	}
	exitID := lz.allocLabel()
	lz.pushName(nameEntry{Name: v.Name, ExitLabel: exitID})

	caseLabels := make([]LabelID, len(v.Cases))
	for i := range v.Cases {
		caseLabels[i] = lz.allocLabel()
	}
	lz.emit(SwitchOp{Stmt: v, Targets: append([]LabelID(nil), caseLabels...)})
	for _, id := range caseLabels {
		lz.markReferenced(id)
	}
	for i, c := range v.Cases {
		lz.emit(LabelOp{ID: caseLabels[i]})
		lz.walkBlock(c.Body)
		lz.markReferenced(exitID)
		lz.emit(GotoOp{Target: exitID})
	}

	lz.popName()
	if opensRegion {
		lz.emit(EndConstructOp{Stmt: v})
	}
	lz.emit(LabelOp{ID: exitID})
}

func (lz *Linearizer) walkDo(v *ast.NonLabelDoStmt) {
	incID := lz.allocLabel()
	backID := lz.allocLabel()
	entryID := lz.allocLabel()
	exitID := lz.allocLabel()

	lz.emit(BeginConstructOp{Stmt: v})
	if v.Kind == ast.DoConcurrent {
		lz.ctx.ReportLoweringWarning(v.Position(), "unsupported construct: lowered as no-op")
	}
	lz.markReferenced(backID)
	lz.emit(GotoOp{Target: backID})
	lz.emit(LabelOp{ID: incID})
	lz.emit(DoIncrementOp{Stmt: v})
	lz.emit(LabelOp{ID: backID})
	lz.emit(DoCompareOp{Stmt: v})
	lz.markReferenced(entryID)
	lz.markReferenced(exitID)
	lz.emit(CondGotoOp{CondSource: v, TrueID: entryID, FalseID: exitID})
	lz.emit(LabelOp{ID: entryID})

	lz.pushName(nameEntry{Name: v.Name, ExitLabel: exitID, IncLabel: incID, IsLoop: true})
	lz.walkBlock(v.Body)
	lz.popName()

	lz.markReferenced(incID)
	lz.emit(GotoOp{Target: incID})
	lz.emit(EndConstructOp{Stmt: v})
	lz.emit(LabelOp{ID: exitID})
}

// walkBracketed handles the shared BLOCK/ASSOCIATE/CHANGE TEAM/CRITICAL/
// WHERE/FORALL schema: `Begin; body; [endLabel]; End` (spec.md §4.3). warn
// reports the spec.md §9 "no-op placeholder" diagnostic for the constructs
// whose lowering semantics are intentionally unimplemented.
func (lz *Linearizer) walkBracketed(stmt ast.Stmt, name ast.ConstructName, body ast.Block, warn bool) {
	endID := lz.allocLabel()
	lz.emit(BeginConstructOp{Stmt: stmt})
	if warn {
		lz.ctx.ReportLoweringWarning(stmt.Position(), "unsupported construct: lowered as no-op")
	}
	lz.pushName(nameEntry{Name: name, ExitLabel: endID})
	lz.walkBlock(body)
	lz.popName()
	lz.emit(LabelOp{ID: endID})
	lz.emit(EndConstructOp{Stmt: stmt})
}
