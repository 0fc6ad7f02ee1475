package report

import "fmt"

// iceError marks a panic raised by ReportICE as an internal-compiler-error
// contract violation (spec.md §7: "wrong-path invariants", "control-flow-
// not-in-loop"), as opposed to an arbitrary Go panic bubbling up from a bug
// elsewhere. CatchErrors distinguishes the two.
type iceError struct {
	message string
}

func (e *iceError) Error() string {
	return e.message
}

// ReportICE reports an internal-compiler-error: a contract violation that
// indicates a bug in an earlier pass (spec.md §7 "Unresolved-name invariant
// violation", "Control-flow-not-in-loop", "Wrong-path invariants"). It always
// records the diagnostic regardless of log level, marks the context fatal,
// and panics so the offending call stack unwinds to the nearest CatchErrors.
func (c *Context) ReportICE(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	c.record(Diagnostic{Severity: SeverityICE, Message: msg})
	panic(&iceError{message: msg})
}

// CatchErrors recovers a panic raised by ReportICE (or any other panic) and
// converts it into a recorded diagnostic instead of letting it propagate out
// of the current phase. It must always be deferred, mirroring the teacher's
// CatchErrors discipline for bounding "semantics bug" aborts to one phase.
func (c *Context) CatchErrors(reprPath string) {
	if x := recover(); x != nil {
		if _, ok := x.(*iceError); ok {
			// already recorded by ReportICE; nothing further to do besides
			// having stopped the unwind here.
			return
		}
		if err, ok := x.(error); ok {
			c.record(Diagnostic{Severity: SeverityError, Message: err.Error(), ReprPath: reprPath})
			return
		}
		c.record(Diagnostic{Severity: SeverityError, Message: fmt.Sprintf("%v", x), ReprPath: reprPath})
	}
}
