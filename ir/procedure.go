package ir

import "fmt"

// Procedure is the tree of Regions the CFG Constructor produces for one
// subprogram (spec.md §3 "IR Procedure. Tree of Regions..."). Grounded on
// the teacher's ir.Bundle (bootstrap/ir/bundle.go), which owns a flat list
// of FuncDefs; here a Procedure owns exactly one region tree since spec.md
// scopes one Procedure to one subprogram body.
type Procedure struct {
	Name    string
	Root    *Region
	nextID  int
}

// NewProcedure creates an empty procedure with a top-level RegionProcedure
// region and no blocks.
func NewProcedure(name string) *Procedure {
	p := &Procedure{Name: name}
	p.Root = &Region{Kind: RegionProcedure}
	return p
}

// NewBlock allocates a fresh block in region, assigning it the next
// procedure-wide block ID.
func (p *Procedure) NewBlock(region *Region) *BasicBlock {
	return region.NewBlock(func() int {
		id := p.nextID
		p.nextID++
		return id
	})
}

// NewDetachedBlock allocates a block with a procedure-wide unique ID but no
// Region, for a forward-referenced label whose defining Label op has not
// been reached yet (spec.md §4.4 "queue of deferred fixups"). The CFG
// Constructor calls BasicBlock.Attach once the Label op is actually reached
// to place it into its real region. AllBlocks does not list a block that is
// still detached, so Validate reports a terminator that targets one as
// having a successor outside this procedure.
func (p *Procedure) NewDetachedBlock() *BasicBlock {
	id := p.nextID
	p.nextID++
	return &BasicBlock{id: id}
}

// AllBlocks returns every block in the procedure, region-tree pre-order.
func (p *Procedure) AllBlocks() []*BasicBlock {
	var out []*BasicBlock
	var walk func(*Region)
	walk = func(r *Region) {
		out = append(out, r.Blocks...)
		for _, c := range r.Children {
			walk(c)
		}
	}
	walk(p.Root)
	return out
}

// Validate checks the CFG well-formedness invariants spec.md §3 and §8
// property 4 require: every block with at least one statement is
// terminated, every terminator's successors belong to this procedure, and
// predecessor sets are the exact inverse of successor sets. It returns one
// error per violation found rather than stopping at the first, so a test
// fixture failure reports everything wrong at once.
func (p *Procedure) Validate() []error {
	blocks := p.AllBlocks()
	inProc := make(map[*BasicBlock]bool, len(blocks))
	for _, b := range blocks {
		inProc[b] = true
	}

	wantPred := make(map[*BasicBlock]map[*BasicBlock]bool)
	for _, b := range blocks {
		wantPred[b] = map[*BasicBlock]bool{}
	}

	var errs []error
	for _, b := range blocks {
		if len(b.Stmts) == 0 {
			continue
		}
		if !b.IsTerminated() {
			errs = append(errs, fmt.Errorf("block%%%d: not terminated", b.ID()))
			continue
		}
		for _, succ := range b.Successors() {
			if !inProc[succ] {
				errs = append(errs, fmt.Errorf("block%%%d: terminator successor block%%%d does not belong to this procedure", b.ID(), succ.ID()))
				continue
			}
			wantPred[succ][b] = true
		}
	}

	for _, b := range blocks {
		have := map[*BasicBlock]bool{}
		for _, p := range b.Predecessors() {
			have[p] = true
		}
		for want := range wantPred[b] {
			if !have[want] {
				errs = append(errs, fmt.Errorf("block%%%d: missing predecessor block%%%d implied by its successor set", b.ID(), want.ID()))
			}
		}
		for got := range have {
			if !wantPred[b][got] {
				errs = append(errs, fmt.Errorf("block%%%d: recorded predecessor block%%%d is not actually a terminator source", b.ID(), got.ID()))
			}
		}
	}

	return errs
}
