package lower

import (
	"testing"

	"github.com/stretchr/testify/require"

	"fortran-middleend/ast"
	"fortran-middleend/linearize"
	"fortran-middleend/report"
)

func newTestContext() *report.Context {
	return report.NewContext(report.NewReporter(report.LogLevelSilent), "")
}

func buildFrom(t *testing.T, body ast.Block) *procedureResult {
	t.Helper()
	ctx := newTestContext()
	lz := linearize.NewLinearizer(ctx)
	prog := lz.Linearize(body)
	proc := NewBuilder(ctx).Build("test", prog)
	return &procedureResult{proc: proc, ctx: ctx}
}

type procedureResult struct {
	proc interface {
		Validate() []error
	}
	ctx *report.Context
}

// TestCountedDoBuildsWellFormedCFG mirrors S3: `do i=1,10,2; call f(i); end do`.
func TestCountedDoBuildsWellFormedCFG(t *testing.T) {
	doStmt := &ast.NonLabelDoStmt{
		Kind:   ast.DoCounted,
		IndVar: &ast.Var{Name: "i"},
		Lower:  &ast.RawExpr{Text: "1"},
		Upper:  &ast.RawExpr{Text: "10"},
		Step:   &ast.RawExpr{Text: "2"},
		Body: ast.Block{Stmts: []ast.Stmt{
			&ast.CallStmt{Callee: &ast.Var{Name: "f"}, Args: []ast.CallArg{{Value: &ast.Var{Name: "i"}}}},
		}},
	}

	res := buildFrom(t, ast.Block{Stmts: []ast.Stmt{doStmt}})
	require.Empty(t, res.proc.Validate())
}

// TestIfConstructBuildsWellFormedCFG mirrors S4: an IF/ELSE IF/ELSE diamond.
func TestIfConstructBuildsWellFormedCFG(t *testing.T) {
	ifc := &ast.IfConstruct{
		CondBranches: []ast.CondBranch{
			{Cond: &ast.RawExpr{Text: "a"}, Body: ast.Block{Stmts: []ast.Stmt{
				&ast.AssignmentStmt{LHS: &ast.Var{Name: "x"}, RHS: &ast.RawExpr{Text: "1"}},
			}}},
			{Cond: &ast.RawExpr{Text: "b"}, Body: ast.Block{Stmts: []ast.Stmt{
				&ast.AssignmentStmt{LHS: &ast.Var{Name: "x"}, RHS: &ast.RawExpr{Text: "2"}},
			}}},
			{Cond: nil, Body: ast.Block{Stmts: []ast.Stmt{
				&ast.AssignmentStmt{LHS: &ast.Var{Name: "x"}, RHS: &ast.RawExpr{Text: "3"}},
			}}},
		},
	}

	res := buildFrom(t, ast.Block{Stmts: []ast.Stmt{ifc}})
	require.Empty(t, res.proc.Validate())
}

// TestIOWithThreeLabelsBuildsWellFormedCFG mirrors S5:
// `read(u,*,err=10,eor=20,end=30) x`.
func TestIOWithThreeLabelsBuildsWellFormedCFG(t *testing.T) {
	io := &ast.IOStmt{
		Kind:  ast.IORead,
		Specs: ast.IOSpecifiers{Err: 10, Eor: 20, End: 30},
		Args:  []ast.Expr{&ast.Var{Name: "x"}},
	}
	labeled10 := &ast.LabeledStmt{Label: 10, Inner: &ast.ContinueStmt{}}
	labeled20 := &ast.LabeledStmt{Label: 20, Inner: &ast.ContinueStmt{}}
	labeled30 := &ast.LabeledStmt{Label: 30, Inner: &ast.ContinueStmt{}}

	res := buildFrom(t, ast.Block{Stmts: []ast.Stmt{io, labeled10, labeled20, labeled30}})
	require.Empty(t, res.proc.Validate())
}

// TestAssignedGotoBuildsWellFormedCFG mirrors S6:
// `assign 100 to lbl; assign 200 to lbl; goto lbl`, with both targets
// labeled so the resulting IndirectBranch's successors are real blocks.
func TestAssignedGotoBuildsWellFormedCFG(t *testing.T) {
	lblVar := &ast.Var{Name: "lbl"}
	stmts := []ast.Stmt{
		&ast.AssignStmt{Label: 100, Var: lblVar},
		&ast.AssignStmt{Label: 200, Var: lblVar},
		&ast.AssignedGotoStmt{Var: lblVar},
		&ast.LabeledStmt{Label: 100, Inner: &ast.ContinueStmt{}},
		&ast.LabeledStmt{Label: 200, Inner: &ast.ContinueStmt{}},
	}

	res := buildFrom(t, ast.Block{Stmts: stmts})
	require.Empty(t, res.proc.Validate())
}
