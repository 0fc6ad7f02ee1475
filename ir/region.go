package ir

import "fortran-middleend/ast"

// RegionKind classifies a Region by the construct that opened it (spec.md
// §4.4 "BeginConstruct for BLOCK, ASSOCIATE, CHANGE TEAM, DO, SELECT RANK,
// SELECT TYPE enters a new child region"). SELECT CASE, IF, WHERE, and
// FORALL never open a region.
type RegionKind int

const (
	RegionProcedure RegionKind = iota // the procedure's own top-level region
	RegionBlock
	RegionAssociate
	RegionChangeTeam
	RegionDo
	RegionSelectRank
	RegionSelectType
)

// Region is a lexical nesting boundary grouping the blocks of one structured
// construct (spec.md §3, GLOSSARY "Region"); regions form a tree per
// procedure. Grounded on the teacher's ir.Bundle/FuncDef nesting (bootstrap/
// ir/bundle.go, funcdef.go), which groups blocks under one flat function
// rather than a region tree -- generalized here because spec.md's DO-context
// map and region stack require an explicit tree so EndConstruct can pop back
// to exactly the enclosing region regardless of how deeply nested it is.
type Region struct {
	Kind          RegionKind
	ConstructName ast.ConstructName
	Parent        *Region
	Blocks        []*BasicBlock
	Children      []*Region
}

// NewChild creates a new child region of r with the given kind and optional
// construct name, per spec.md §4.4's BeginConstruct handling.
func (r *Region) NewChild(kind RegionKind, name ast.ConstructName) *Region {
	child := &Region{Kind: kind, ConstructName: name, Parent: r}
	r.Children = append(r.Children, child)
	return child
}

// NewBlock allocates a fresh block owned by r and appends it to r's block
// list in creation order (spec.md §5 "block order in the resulting
// procedure reflects source order").
func (r *Region) NewBlock(nextID func() int) *BasicBlock {
	b := &BasicBlock{id: nextID(), Region: r}
	r.Blocks = append(r.Blocks, b)
	return b
}
