package report

import "fmt"

// Context is the per-compilation-unit diagnostic sink threaded through the
// mod-file engine and the lowering engine. Unlike the teacher's global `rep`
// singleton, this core takes a Context explicitly at every entry point: the
// core is a library with no CLI surface (spec.md §6), and a driver may hold
// several Contexts open at once (one per compilation unit).
//
// Fatal is the "sticky context flag" spec.md §5/§7 specifies: internal
// invariant violations set it and let the current phase finish rather than
// aborting the process outright, so a driver can decide what to do with a
// batch of otherwise-independent compilation units.
type Context struct {
	rep *Reporter

	// ModuleName is attached to module-scoped diagnostics (mod-file
	// engine); it is empty when the context is used for a subprogram body
	// being lowered instead.
	ModuleName string

	errorCount int
	Fatal      bool

	// Diagnostics accumulates, in report order, every error and ICE reported
	// through this context, and every warning when the Reporter is nil or its
	// log level admits warnings, for tests and for drivers that want
	// structured access instead of terminal rendering.
	Diagnostics []Diagnostic
}

// NewContext creates a Context reporting through rep.
func NewContext(rep *Reporter, moduleName string) *Context {
	return &Context{rep: rep, ModuleName: moduleName}
}

// Severity classifies a Diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
	SeverityICE
)

// Diagnostic is one reported message.
type Diagnostic struct {
	Severity Severity
	Message  string
	Path     string
	ReprPath string
	Position *TextPosition
	Module   string
}

// AnyErrors reports whether any error (or ICE) has been recorded.
func (c *Context) AnyErrors() bool {
	return c.errorCount > 0
}

// ReportCompileError reports a compilation error against a source position.
func (c *Context) ReportCompileError(absPath, reprPath string, pos *TextPosition, format string, args ...any) {
	c.record(Diagnostic{
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
		Path:     absPath,
		ReprPath: reprPath,
		Position: pos,
	})
}

// ReportCompileWarning reports a compilation warning against a source position.
func (c *Context) ReportCompileWarning(absPath, reprPath string, pos *TextPosition, format string, args ...any) {
	if c.rep == nil || c.rep.LogLevel >= LogLevelWarn {
		d := Diagnostic{
			Severity: SeverityWarning,
			Message:  fmt.Sprintf(format, args...),
			Path:     absPath,
			ReprPath: reprPath,
			Position: pos,
		}
		c.Diagnostics = append(c.Diagnostics, d)
		displayDiagnostic(c.rep, d)
	}
}

// ReportLoweringWarning reports a warning tied to a position within the
// subprogram body currently being lowered. The lowering engine works purely
// off the already-parsed tree and has no file handle of its own (unlike the
// mod-file engine, which always knows the path it opened), so this omits
// the absPath/reprPath pair ReportCompileError/ReportCompileWarning need.
func (c *Context) ReportLoweringWarning(pos *TextPosition, format string, args ...any) {
	if c.rep == nil || c.rep.LogLevel >= LogLevelWarn {
		d := Diagnostic{
			Severity: SeverityWarning,
			Message:  fmt.Sprintf(format, args...),
			Position: pos,
		}
		c.Diagnostics = append(c.Diagnostics, d)
		displayDiagnostic(c.rep, d)
	}
}

// ReportModuleError reports an I/O or integrity failure attached to a module
// name (spec.md §7: I/O failure, integrity failure, resolution failure).
func (c *Context) ReportModuleError(modName, format string, args ...any) {
	c.record(Diagnostic{
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
		Module:   modName,
	})
}

// ReportModuleWarning reports a non-fatal module-scoped warning.
func (c *Context) ReportModuleWarning(modName, format string, args ...any) {
	if c.rep == nil || c.rep.LogLevel >= LogLevelWarn {
		d := Diagnostic{
			Severity: SeverityWarning,
			Message:  fmt.Sprintf(format, args...),
			Module:   modName,
		}
		c.Diagnostics = append(c.Diagnostics, d)
		displayDiagnostic(c.rep, d)
	}
}

// ReportFatal sets the sticky fatal flag and records a fatal diagnostic. It
// does not terminate the process (spec.md §5 explicitly rules out process
// termination for this library core) or unwind the stack; callers must check
// c.Fatal and stop driving this context themselves.
func (c *Context) ReportFatal(format string, args ...any) {
	c.Fatal = true
	c.record(Diagnostic{
		Severity: SeverityError,
		Message:  "fatal: " + fmt.Sprintf(format, args...),
	})
}

func (c *Context) record(d Diagnostic) {
	c.errorCount++
	c.Fatal = c.Fatal || d.Severity == SeverityICE
	c.Diagnostics = append(c.Diagnostics, d)
	displayDiagnostic(c.rep, d)
}
