package lower

import (
	"fmt"

	"fortran-middleend/ast"
	"fortran-middleend/ir"
	"fortran-middleend/linearize"
	"fortran-middleend/report"
)

// LowerProgram is the two-stage pipeline's single entry point (SPEC_FULL.md
// §8): linearize unit's body, then run the CFG Constructor over the
// resulting op stream. debugLinear, when set, reports the size of the
// intermediate linear-op stream as a warning before construction begins,
// mirroring the teacher's -dump-mir style debug switches without keeping a
// second full IR dump path alive.
//
// A contract violation raised via report.ReportICE during either stage
// unwinds to this function's deferred report.Context.CatchErrors, the phase
// boundary spec.md §7 describes; LowerProgram converts that into a returned
// error instead of letting the panic escape to the caller.
func LowerProgram(unit ast.ProgramUnit, ctx *report.Context, debugLinear bool) (proc *ir.Procedure, err error) {
	name, body, ok := subprogramBody(unit)
	if !ok {
		return nil, fmt.Errorf("lower: %T has no executable body to lower", unit)
	}

	defer func() {
		if ctx.Fatal {
			err = fmt.Errorf("lower: %s failed with a fatal diagnostic", name)
		}
	}()
	defer ctx.CatchErrors(name)

	lz := linearize.NewLinearizer(ctx)
	prog := lz.Linearize(body)
	if debugLinear {
		ctx.ReportLoweringWarning(nil, "linear op stream for %s: %d ops", name, len(prog.Ops))
	}

	proc = NewBuilder(ctx).Build(name, prog)
	return proc, nil
}

// subprogramBody extracts the name and executable body from whichever
// ProgramUnit variant actually has one; a ModuleDecl/SubmoduleDecl's own
// specification part has no body of its own to lower (only the subprograms
// nested inside them do).
func subprogramBody(unit ast.ProgramUnit) (name string, body ast.Block, ok bool) {
	switch u := unit.(type) {
	case *ast.MainProgram:
		return u.Name, u.Body, true
	case *ast.SubprogramDecl:
		if u.IsInterfaceOnly {
			return "", ast.Block{}, false
		}
		return u.Name, u.Body, true
	default:
		return "", ast.Block{}, false
	}
}
