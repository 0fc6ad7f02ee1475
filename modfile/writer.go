// Package modfile serializes and deserializes module interfaces to and from
// mod files (spec.md §4.1, §4.2), grounded on the teacher's
// bootstrap/depm/load_mod.go search-open-validate-splice pipeline.
package modfile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gofrs/flock"

	"fortran-middleend/symbols"
	"fortran-middleend/util"
)

func symbolNames(members []*symbols.Symbol) []string {
	return util.Map(members, func(s *symbols.Symbol) string { return s.Name })
}

// magicPrefix opens every mod file's header line (spec.md §4.1/§4.2).
const magicPrefix = "!mod$ v1 sum:"

const needsPrefix = "!mod$ needs:"

// Write serializes scope -- the module or submodule's own namespace, whose
// Symbol field names the module being written -- to its canonical path under
// dir (spec.md §4.1: "<dir>/<modname>.mod" or
// "<dir>/<ancestor>-<submodname>.mod"). A byte-identical rewrite is skipped
// so a build system's mtime-based rebuild detection isn't defeated by a
// touch-only write (spec.md §4.1 "touch-free rebuilds"). A scope whose
// module symbol was itself loaded from a mod file (Symbol.ModFile) is not
// written.
func Write(scope *symbols.Scope, dir string) error {
	modSym := scope.Symbol
	if modSym == nil {
		return fmt.Errorf("modfile: scope has no attached Symbol")
	}
	if modSym.ModFile {
		return nil
	}
	md, ok := modSym.Details.(symbols.Module)
	if !ok {
		return fmt.Errorf("Error writing %s: scope's symbol is not a Module", modSym.Name)
	}

	path := modulePath(dir, modSym, md)

	needs := collectNeeds(scope)
	var needsLine string
	if len(needs) > 0 {
		needsLine = needsPrefix + strings.Join(needs, ",") + "\n"
	}
	body := renderScopeBody(scope)
	sum := checksum([]byte(needsLine + body))
	full := fmt.Sprintf("%s%016x\n%s%s", magicPrefix, sum, needsLine, body)

	lockPath := filepath.Join(dir, ".modfile.lock")
	fl := flock.New(lockPath)
	if err := fl.Lock(); err != nil {
		return fmt.Errorf("Error writing %s: %s", modSym.Name, err)
	}
	defer fl.Unlock()

	if existing, err := os.ReadFile(path); err == nil && string(existing) == full {
		return nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("Error writing %s: %s", modSym.Name, err)
	}
	if err := os.WriteFile(path, []byte(full), 0o644); err != nil {
		return fmt.Errorf("Error writing %s: %s", modSym.Name, err)
	}
	return nil
}

func modulePath(dir string, modSym *symbols.Symbol, md symbols.Module) string {
	if md.IsSubmodule() {
		anc := md.Ancestor(modSym)
		return filepath.Join(dir, anc.Name+"-"+modSym.Name+".mod")
	}
	return filepath.Join(dir, modSym.Name+".mod")
}

// collectNeeds gathers the distinct module names this scope's USE-associated
// symbols came from, sorted lexically, for the "needs:" pragma line (
// SPEC_FULL.md §6.1's supplemented feature: mod-file dependency discovery
// without re-parsing the body).
func collectNeeds(scope *symbols.Scope) []string {
	set := make(map[string]bool)
	for _, sym := range scope.Symbols() {
		if u, ok := sym.Details.(symbols.Use); ok && u.Module != nil {
			set[u.Module.Name] = true
		}
	}
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// renderScopeBody emits scope's declarations in the order spec.md §4.1 fixes:
// symbols in declaration order, namelists after all other symbols,
// common-blocks appended, synthetic ParentComp symbols skipped. Subprograms
// split on IsInterfaceOnly: each interface-only one gets its own
// interface/end interface wrapper (mirroring the original writer's
// PutSubprogram, which wraps per-symbol rather than once for the whole
// scope), while module-contained ones are gathered under a single top-level
// contains section.
func renderScopeBody(scope *symbols.Scope) string {
	var sb strings.Builder
	sb.WriteString(moduleHeaderLine(scope))
	sb.WriteString("\n")

	var namelists, ifaceSubprograms, containedSubprograms []*symbols.Symbol
	for _, sym := range scope.Symbols() {
		if sym.ParentComp {
			continue
		}
		switch d := sym.Details.(type) {
		case symbols.Namelist:
			namelists = append(namelists, sym)
		case symbols.Subprogram:
			if d.IsInterfaceOnly {
				ifaceSubprograms = append(ifaceSubprograms, sym)
			} else {
				containedSubprograms = append(containedSubprograms, sym)
			}
		default:
			renderSymbol(&sb, sym)
		}
	}
	for _, sym := range namelists {
		renderNamelist(&sb, sym)
	}
	for _, cb := range scope.CommonBlocks() {
		renderCommonBlock(&sb, cb)
	}

	for _, sym := range ifaceSubprograms {
		sb.WriteString("interface\n")
		renderSubprogram(&sb, sym)
		sb.WriteString("end interface\n")
	}

	if len(containedSubprograms) > 0 {
		sb.WriteString("contains\n")
		for _, sym := range containedSubprograms {
			renderSubprogram(&sb, sym)
		}
	}

	sb.WriteString("end\n")
	return sb.String()
}

func moduleHeaderLine(scope *symbols.Scope) string {
	modSym := scope.Symbol
	md := modSym.Details.(symbols.Module)
	if !md.IsSubmodule() {
		return "module " + modSym.Name
	}
	anc := md.Ancestor(modSym)
	parent := md.Parent()
	if parent != anc {
		return fmt.Sprintf("submodule(%s:%s) %s", anc.Name, parent.Name, modSym.Name)
	}
	return fmt.Sprintf("submodule(%s) %s", anc.Name, modSym.Name)
}

// renderSymbol dispatches a single declared symbol to its rendering, per
// the Details variant spec.md §3 fixes as a closed enumeration.
func renderSymbol(sb *strings.Builder, sym *symbols.Symbol) {
	switch d := sym.Details.(type) {
	case symbols.DerivedType:
		renderDerivedType(sb, sym, d)
	case symbols.ObjectEntity:
		renderObjectEntity(sb, sym, d)
	case symbols.Use:
		renderUse(sb, sym, d)
	case symbols.Generic:
		renderGeneric(sb, sym, d)
	case symbols.ProcEntity:
		renderProcEntity(sb, sym, d)
	case symbols.ProcBinding, symbols.GenericBinding, symbols.FinalProc:
		renderBinding(sb, sym)
	case symbols.UseError:
		// a name that failed USE resolution carries no interface contract to
		// re-export; the diagnostic already happened at analysis time.
	case symbols.HostAssoc, symbols.TypeParam, symbols.Misc:
		// host-associated names, bare type parameters, and unrefined Misc
		// symbols are not independently declarable in a mod file's public
		// interface; type parameters are rendered inline by their owning
		// DerivedType's parameter-name list instead.
	}
}

func renderDerivedType(sb *strings.Builder, sym *symbols.Symbol, dt symbols.DerivedType) {
	line := "type"
	if dt.Extends != nil {
		line += ",extends(" + dt.Extends.Name + ")"
	}
	line += "::" + sym.Name
	if len(dt.ParamNames) > 0 {
		line += "(" + strings.Join(dt.ParamNames, ",") + ")"
	}
	sb.WriteString(line + "\n")
	if dt.Sequence {
		sb.WriteString("sequence\n")
	}

	if sym.Scope != nil {
		var bindings []*symbols.Symbol
		for _, m := range sym.Scope.Symbols() {
			if m.ParentComp {
				continue
			}
			switch m.Details.(type) {
			case symbols.ProcBinding, symbols.GenericBinding, symbols.FinalProc:
				bindings = append(bindings, m)
			case symbols.TypeParam:
				// rendered above via ParamNames only.
			default:
				renderSymbol(sb, m)
			}
		}
		if len(bindings) > 0 {
			sb.WriteString("contains\n")
			for _, m := range bindings {
				renderBinding(sb, m)
			}
		}
	}

	sb.WriteString("end type " + sym.Name + "\n")
}

// renderObjectEntity writes a data object's declaration line exactly as
// spec.md §8's S1 fixture requires: no spaces around "::", and the
// PARAMETER/initializer value (if any) appended verbatim after "=" (spec.md
// §4.1 property-1 round-trip: "integer,parameter::k=3_4").
func renderObjectEntity(sb *strings.Builder, sym *symbols.Symbol, oe symbols.ObjectEntity) {
	sb.WriteString(oe.TypeName + sym.Attrs.Render(",", sym.BindName) + "::" + sym.Name)
	if oe.Init != "" {
		sb.WriteString("=" + oe.Init)
	}
	sb.WriteString("\n")
}

func renderProcEntity(sb *strings.Builder, sym *symbols.Symbol, pe symbols.ProcEntity) {
	iface := "procedure()"
	if pe.Interface != nil {
		iface = "procedure(" + pe.Interface.Name + ")"
	}
	sb.WriteString(iface + sym.Attrs.Render(",", sym.BindName) + "::" + sym.Name + "\n")
}

func renderGeneric(sb *strings.Builder, sym *symbols.Symbol, g symbols.Generic) {
	names := symbolNames(g.Specifics)
	sb.WriteString("interface " + sym.Name + "\n")
	sb.WriteString("module procedure::" + strings.Join(names, ",") + "\n")
	sb.WriteString("end interface " + sym.Name + "\n")
}

// renderUse re-exports a single USE-associated name as its own ONLY-list use
// statement (spec.md §4.1 "USE-renamed symbols are emitted as
// use mod,only:local=>orig"). Non-renamed names still carry an explicit ONLY
// clause, since the mod file must reproduce exactly this one imported name
// rather than the whole donor module.
func renderUse(sb *strings.Builder, sym *symbols.Symbol, u symbols.Use) {
	origName := sym.Name
	if u.Original != nil {
		origName = u.Original.Name
	}
	modName := "?"
	if u.Module != nil {
		modName = u.Module.Name
	}
	if u.Renamed && origName != sym.Name {
		sb.WriteString(fmt.Sprintf("use %s,only:%s=>%s\n", modName, sym.Name, origName))
	} else {
		sb.WriteString(fmt.Sprintf("use %s,only:%s\n", modName, sym.Name))
	}
	if u.Original != nil {
		extra := sym.Attrs &^ u.Original.Attrs
		if extra.Has(symbols.AttrVolatile) {
			sb.WriteString("volatile :: " + sym.Name + "\n")
		}
		if extra.Has(symbols.AttrAsynchronous) {
			sb.WriteString("asynchronous :: " + sym.Name + "\n")
		}
	}
}

func renderNamelist(sb *strings.Builder, sym *symbols.Symbol) {
	nl := sym.Details.(symbols.Namelist)
	sb.WriteString(fmt.Sprintf("namelist /%s/ %s\n", sym.Name, strings.Join(symbolNames(nl.Members), ",")))
}

func renderCommonBlock(sb *strings.Builder, sym *symbols.Symbol) {
	cb := sym.Details.(symbols.CommonBlock)
	sb.WriteString(fmt.Sprintf("common /%s/ %s\n", sym.Name, strings.Join(symbolNames(cb.Members), ",")))
}

func renderBinding(sb *strings.Builder, sym *symbols.Symbol) {
	switch d := sym.Details.(type) {
	case symbols.ProcBinding:
		line := "procedure"
		if d.NoPass {
			line += ",nopass"
		} else if d.PassArg != "" {
			line += ",pass(" + d.PassArg + ")"
		}
		line += "::" + sym.Name
		if d.Target != nil && d.Target.Name != sym.Name {
			line += "=>" + d.Target.Name
		}
		sb.WriteString(line + "\n")
	case symbols.GenericBinding:
		sb.WriteString("generic::" + sym.Name + "=>" + strings.Join(symbolNames(d.Specifics), ",") + "\n")
	case symbols.FinalProc:
		target := sym.Name
		if d.Target != nil {
			target = d.Target.Name
		}
		sb.WriteString("final::" + target + "\n")
	}
}

// renderSubprogram writes a Subprogram symbol's calling contract: its header
// line, then a declaration line for its result variable (functions only) and
// each dummy argument, then a bare "end" (spec.md §8's S1 fixture:
// "subroutine s(x)\ninteger::x\nend\n" -- no repeated kind/name after end).
// The declarations come from sym.Scope, the subprogram's own child
// namespace, which the resolver populates with one entity symbol per dummy
// argument and (for a function) the result variable; whether this Subprogram
// is interface-only or module-contained is decided by the caller
// (renderScopeBody), not here.
func renderSubprogram(sb *strings.Builder, sym *symbols.Symbol) {
	sp := sym.Details.(symbols.Subprogram)
	kind := "subroutine"
	if sp.IsFunction {
		kind = "function"
	}
	args := make([]string, 0, len(sp.DummyArgs)+sp.AltReturns)
	args = append(args, sp.DummyArgs...)
	for i := 0; i < sp.AltReturns; i++ {
		args = append(args, "*")
	}
	header := fmt.Sprintf("%s %s(%s)", kind, sym.Name, strings.Join(args, ","))
	if sp.IsFunction && sp.ResultName != "" && sp.ResultName != sym.Name {
		header += " result(" + sp.ResultName + ")"
	}
	sb.WriteString(header + "\n")

	if sp.IsFunction {
		renderDummyEntity(sb, sym, sp.ResultName)
	}
	for _, arg := range sp.DummyArgs {
		renderDummyEntity(sb, sym, arg)
	}
	sb.WriteString("end\n")
}

// renderDummyEntity looks up name in sym's own child scope and renders its
// declaration line. A name with no matching declaration there (a dummy or
// result the resolver never reached) is silently skipped rather than treated as an error, since dummy-arg
// typing is the analyzer's concern and this core only re-exports what it
// was handed.
func renderDummyEntity(sb *strings.Builder, sym *symbols.Symbol, name string) {
	if sym.Scope == nil || name == "" {
		return
	}
	dummy, ok := sym.Scope.Lookup(name)
	if !ok {
		return
	}
	renderSymbol(sb, dummy)
}
