package ast

import "fortran-middleend/report"

// ParseOptions configures the external parser (spec.md §6). IsModuleFile
// alters diagnostic severity for constructs that are only valid in
// mod-file-generated source, e.g. the canonical attribute ordering the
// mod-file writer emits (spec.md §4.2 "invoke the parser with a 'this is a
// mod file' option").
type ParseOptions struct {
	IsModuleFile bool
}

// Parser is the external grammar-parser collaborator this core consumes
// (spec.md §6). Its concrete implementation is out of scope (spec.md §1).
type Parser interface {
	Parse(path string, opts ParseOptions) (*Program, []report.Diagnostic)
}

// Program is the root of a parsed compilation unit as the external parser
// hands it back: a sequence of program units (spec.md doesn't name this
// type explicitly, but §6's Parser.parse return value needs a concrete
// shape to type against).
type Program struct {
	Units []ProgramUnit
}

// Analyzer is the external expression-analyzer/type-checker collaborator
// (spec.md §6 "analyze(exprOrVar) returning an optional typed expression").
// This core calls it only to materialize constant expressions it must
// forward opaquely into IR; it never inspects the result's internal shape.
type Analyzer interface {
	Analyze(e Expr) (Expr, bool)
}
