package lower

import (
	"testing"

	"github.com/stretchr/testify/require"

	"fortran-middleend/ast"
	"fortran-middleend/ir"
)

func TestLowerProgramBuildsWellFormedProcedure(t *testing.T) {
	unit := &ast.MainProgram{
		Name: "prog",
		Body: ast.Block{Stmts: []ast.Stmt{
			&ast.AssignmentStmt{LHS: &ast.Var{Name: "x"}, RHS: &ast.RawExpr{Text: "1"}},
		}},
	}

	ctx := newTestContext()
	proc, err := LowerProgram(unit, ctx, true)
	require.NoError(t, err)
	require.NotNil(t, proc)
	require.Empty(t, proc.Validate())
}

// TestLowerProgramAppendsImplicitReturn checks that a body falling off the
// end without an explicit RETURN/STOP still yields a well-formed CFG: every
// reachable block, including the last one, is terminated exactly once
// (spec.md §3 invariant (i), §8 property 4).
func TestLowerProgramAppendsImplicitReturn(t *testing.T) {
	unit := &ast.MainProgram{
		Name: "prog",
		Body: ast.Block{Stmts: []ast.Stmt{
			&ast.AssignmentStmt{LHS: &ast.Var{Name: "x"}, RHS: &ast.RawExpr{Text: "1"}},
		}},
	}

	ctx := newTestContext()
	proc, err := LowerProgram(unit, ctx, true)
	require.NoError(t, err)
	require.Empty(t, proc.Validate())

	var last *ir.BasicBlock
	for _, blk := range proc.AllBlocks() {
		last = blk
	}
	require.NotNil(t, last)
	require.True(t, last.IsTerminated())
	_, ok := last.Terminator().(*ir.Return)
	require.True(t, ok, "expected the implicit fallthrough terminator to be a Return")
}

func TestLowerProgramRejectsBodylessUnit(t *testing.T) {
	unit := &ast.ModuleDecl{Name: "mymod"}
	ctx := newTestContext()

	proc, err := LowerProgram(unit, ctx, false)
	require.Error(t, err)
	require.Nil(t, proc)
}

// TestLowerProgramRecoversInternalCompilerError checks that a CYCLE with no
// enclosing loop -- a contract violation the Linearizer itself detects via
// resolveCycle's ReportICE -- still yields a returned error from
// LowerProgram rather than an escaping panic (spec.md §7's phase-boundary
// recovery discipline).
func TestLowerProgramRecoversInternalCompilerError(t *testing.T) {
	unit := &ast.MainProgram{
		Name: "prog",
		Body: ast.Block{Stmts: []ast.Stmt{
			&ast.CycleStmt{},
		}},
	}
	ctx := newTestContext()

	proc, err := LowerProgram(unit, ctx, false)
	require.Error(t, err)
	require.Nil(t, proc)
	require.True(t, ctx.Fatal)
}
