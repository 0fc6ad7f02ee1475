package modfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fortran-middleend/ast"
	"fortran-middleend/report"
	"fortran-middleend/symbols"
	"fortran-middleend/util"
)

// ErrNotFound is returned (wrapped) when name (with the given ancestor, if
// any) isn't found on any of the search-path directories (spec.md §4.2
// "return not found without aborting").
var ErrNotFound = errors.New("modfile: not found")

// ErrCorrupt is returned (wrapped) when a candidate file's checksum fails or
// its body doesn't parse as a module/submodule (spec.md §4.2 "corrupt").
var ErrCorrupt = errors.New("modfile: corrupt")

// NameResolver is the external name-resolution collaborator the reader
// invokes to turn a freshly reparsed module/submodule unit into a resolved
// Scope (spec.md §1 Non-goals: name resolution itself is out of scope for
// this core; §4.2 "run name resolution over the reparsed body").
type NameResolver interface {
	ResolveNames(ctx *report.Context, unit ast.ProgramUnit, parent *symbols.Scope) *symbols.Scope
}

// Read locates, verifies, and rehydrates the mod file for name (a submodule
// of ancestor if ancestor is non-empty, else a top-level module), splicing
// the resulting scope under global for a module, or under its parent's scope
// for a submodule (spec.md §4.2). Submodule parents are resolved recursively
// by reading their own mod files in turn.
func Read(ctx *report.Context, dirs []string, name, ancestor string, global *symbols.Scope, resolver NameResolver, parser ast.Parser) (*symbols.Scope, error) {
	return readTrail(ctx, dirs, name, ancestor, global, resolver, parser, nil)
}

// readTrail carries the chain of filenames already opened on this recursive
// submodule-ancestor walk, so a malformed cycle (a submodule that names
// itself, directly or through an intermediate submodule, as its own
// ancestor) is reported instead of recursing forever.
func readTrail(ctx *report.Context, dirs []string, name, ancestor string, global *symbols.Scope, resolver NameResolver, parser ast.Parser, trail []string) (*symbols.Scope, error) {
	filename := name + ".mod"
	if ancestor != "" {
		filename = ancestor + "-" + name + ".mod"
	}
	if util.Contains(trail, filename) {
		ctx.ReportModuleError(name, "submodule ancestor cycle detected at %s", filename)
		return nil, fmt.Errorf("%w: cycle at %s", ErrCorrupt, filename)
	}
	trail = append(trail, filename)

	var path string
	var body []byte
	for _, dir := range dirs {
		candidate := filepath.Join(dir, filename)
		data, err := os.ReadFile(candidate)
		if err != nil {
			continue
		}
		if !strings.HasPrefix(string(data), magicPrefix) {
			ctx.ReportModuleWarning(name, "candidate %s missing mod-file magic prefix, skipping", candidate)
			continue
		}
		path = candidate
		body = data
		break
	}
	if path == "" {
		ctx.ReportModuleError(name, "module %q not found on search path", name)
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	header, rest, ok := splitHeader(body)
	if !ok {
		ctx.ReportModuleError(name, "%s: malformed header", path)
		return nil, fmt.Errorf("%w: %s", ErrCorrupt, path)
	}
	wantSum, ok := parseHeaderSum(header)
	if !ok {
		ctx.ReportModuleError(name, "%s: malformed checksum header", path)
		return nil, fmt.Errorf("%w: %s", ErrCorrupt, path)
	}
	if got := checksum(rest); got != wantSum {
		ctx.ReportModuleError(name, "%s: checksum mismatch (got %016x, want %016x)", path, got, wantSum)
		return nil, fmt.Errorf("%w: %s", ErrCorrupt, path)
	}

	tree, diags := parser.Parse(path, ast.ParseOptions{IsModuleFile: true})
	for _, d := range diags {
		ctx.Diagnostics = append(ctx.Diagnostics, d)
	}
	if tree == nil {
		ctx.ReportModuleError(name, "%s: failed to parse", path)
		return nil, fmt.Errorf("%w: %s", ErrCorrupt, path)
	}
	if len(tree.Units) != 1 {
		ctx.ReportModuleError(name, "%s: expected exactly one program unit, got %d", path, len(tree.Units))
		return nil, fmt.Errorf("%w: %s", ErrCorrupt, path)
	}

	switch unit := tree.Units[0].(type) {
	case *ast.ModuleDecl:
		scope := resolver.ResolveNames(ctx, unit, global)
		markModFile(scope)
		global.Splice(scope)
		return scope, nil

	case *ast.SubmoduleDecl:
		var parentScope *symbols.Scope
		var err error
		if unit.Header.ParentSubmodule != "" {
			parentScope, err = readTrail(ctx, dirs, unit.Header.ParentSubmodule, unit.Header.AncestorModule, global, resolver, parser, trail)
		} else {
			parentScope, err = readTrail(ctx, dirs, unit.Header.AncestorModule, "", global, resolver, parser, trail)
		}
		if err != nil {
			return nil, err
		}
		scope := resolver.ResolveNames(ctx, unit, parentScope)
		markModFile(scope)
		parentScope.Splice(scope)
		return scope, nil

	default:
		ctx.ReportModuleError(name, "%s: program unit is not a module or submodule (%T)", path, unit)
		return nil, fmt.Errorf("%w: %s", ErrCorrupt, path)
	}
}

func markModFile(scope *symbols.Scope) {
	if scope != nil && scope.Symbol != nil {
		scope.Symbol.ModFile = true
	}
}

// splitHeader separates the checksum header line from the rest of the file
// (spec.md §4.2 "split header/body at the first newline").
func splitHeader(data []byte) (header, rest []byte, ok bool) {
	i := strings.IndexByte(string(data), '\n')
	if i < 0 {
		return nil, nil, false
	}
	return data[:i], data[i+1:], true
}

func parseHeaderSum(header []byte) (uint64, bool) {
	s := string(header)
	if !strings.HasPrefix(s, magicPrefix) {
		return 0, false
	}
	hex := strings.TrimPrefix(s, magicPrefix)
	var sum uint64
	if _, err := fmt.Sscanf(hex, "%016x", &sum); err != nil {
		return 0, false
	}
	return sum, true
}
