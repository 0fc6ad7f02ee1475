package lower

import (
	"testing"

	"github.com/stretchr/testify/require"

	"fortran-middleend/ast"
	"fortran-middleend/ir"
	"fortran-middleend/linearize"
)

func buildProc(t *testing.T, body ast.Block) *ir.Procedure {
	t.Helper()
	ctx := newTestContext()
	lz := linearize.NewLinearizer(ctx)
	prog := lz.Linearize(body)
	return NewBuilder(ctx).Build("test", prog)
}

// TestAssociateBindingsEmitStores checks that each ASSOCIATE binding
// materializes as Store(addr(name), ApplyExpr(selector)) (spec.md §4.4).
func TestAssociateBindingsEmitStores(t *testing.T) {
	assoc := &ast.AssociateConstruct{
		Bindings: []ast.AssociateBinding{
			{Name: "p", Selector: &ast.RawExpr{Text: "a%b"}},
			{Name: "q", Selector: &ast.RawExpr{Text: "c"}},
		},
		Body: ast.Block{Stmts: []ast.Stmt{
			&ast.AssignmentStmt{LHS: &ast.Var{Name: "p"}, RHS: &ast.RawExpr{Text: "1"}},
		}},
	}

	proc := buildProc(t, ast.Block{Stmts: []ast.Stmt{assoc}})
	require.Empty(t, proc.Validate())

	var stores []*ir.Store
	for _, blk := range proc.AllBlocks() {
		for _, stmt := range blk.Stmts {
			if s, ok := stmt.(*ir.Store); ok {
				stores = append(stores, s)
			}
		}
	}
	// two binding stores plus the body's own assignment.
	require.Len(t, stores, 3)
	require.Equal(t, "p", stores[0].Addr.(ir.ExprOperand).Expr.(*ast.Var).Name)
	require.Equal(t, "q", stores[1].Addr.(ir.ExprOperand).Expr.(*ast.Var).Name)
}

// TestDoConcurrentLatchIsConstantTrue checks that DO CONCURRENT's latch is a
// constant-true condition rather than a real upper-bound comparison (spec.md
// §4.4).
func TestDoConcurrentLatchIsConstantTrue(t *testing.T) {
	doStmt := &ast.NonLabelDoStmt{
		Kind:   ast.DoConcurrent,
		IndVar: &ast.Var{Name: "i"},
		Lower:  &ast.RawExpr{Text: "1"},
		Upper:  &ast.RawExpr{Text: "10"},
		Body: ast.Block{Stmts: []ast.Stmt{
			&ast.CallStmt{Callee: &ast.Var{Name: "f"}, Args: []ast.CallArg{{Value: &ast.Var{Name: "i"}}}},
		}},
	}

	proc := buildProc(t, ast.Block{Stmts: []ast.Stmt{doStmt}})
	require.Empty(t, proc.Validate())

	var found bool
	for _, blk := range proc.AllBlocks() {
		cb, ok := blk.Terminator().(*ir.CondBranch)
		if !ok {
			continue
		}
		require.Equal(t, ".true.", cb.Cond.Repr())
		found = true
	}
	require.True(t, found, "expected a CondBranch terminator in the DO CONCURRENT's latch block")
}

// TestCallWithAlternateReturnSkipsLabelArgs checks that a CALL with `*lbl`
// alternate-return specifiers lowers without panicking and that the
// resulting Call carries only the data arguments, not the labels (those are
// wired as the enclosing Switch's arms instead).
func TestCallWithAlternateReturnSkipsLabelArgs(t *testing.T) {
	call := &ast.CallStmt{
		Callee: &ast.Var{Name: "sub"},
		Args: []ast.CallArg{
			{Value: &ast.Var{Name: "x"}},
			{AltReturn: 10},
			{AltReturn: 20},
		},
	}

	proc := buildProc(t, ast.Block{Stmts: []ast.Stmt{call}})
	require.Empty(t, proc.Validate())

	var calls []*ir.Call
	for _, blk := range proc.AllBlocks() {
		for _, stmt := range blk.Stmts {
			if c, ok := stmt.(*ir.Call); ok {
				calls = append(calls, c)
			}
		}
	}
	require.Len(t, calls, 1)
	require.Len(t, calls[0].Args, 1)
}
