package ir

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProcedureValidateAcceptsWellFormedCFG(t *testing.T) {
	p := NewProcedure("s")
	entry := p.NewBlock(p.Root)
	exit := p.NewBlock(p.Root)

	entry.Append(&Branch{Target: exit})
	Connect(entry, exit)

	exit.Append(&Return{})

	require.Empty(t, p.Validate())
}

func TestProcedureValidateCatchesUnterminatedBlock(t *testing.T) {
	p := NewProcedure("s")
	entry := p.NewBlock(p.Root)
	entry.Append(&Alloc{Type: Type{Name: "integer"}})

	errs := p.Validate()
	require.Len(t, errs, 1)
	require.Contains(t, errs[0].Error(), "not terminated")
}

func TestProcedureValidateCatchesMissingPredecessor(t *testing.T) {
	p := NewProcedure("s")
	entry := p.NewBlock(p.Root)
	exit := p.NewBlock(p.Root)

	// Branch to exit without calling Connect: predecessor bookkeeping must
	// be explicit, mirroring spec.md §4.4's fixup discipline.
	entry.Append(&Branch{Target: exit})
	exit.Append(&Return{})

	errs := p.Validate()
	require.Len(t, errs, 1)
	require.Contains(t, errs[0].Error(), "missing predecessor")
}

func TestBasicBlockSuccessorsDelegateToTerminator(t *testing.T) {
	p := NewProcedure("s")
	a := p.NewBlock(p.Root)
	b := p.NewBlock(p.Root)

	require.Nil(t, a.Successors())

	a.Append(&Branch{Target: b})
	require.Equal(t, []*BasicBlock{b}, a.Successors())
}
