package report

import "sync"

// Reporter renders diagnostics to the terminal. It is safe to share across
// goroutines even though the mod-file engine and lowering engine are each
// single-threaded (spec.md §5): a driver may run several compilation units'
// reporting concurrently while every individual Context is only ever touched
// by the one goroutine driving that unit.
type Reporter struct {
	m *sync.Mutex

	// LogLevel gates which messages are rendered. Must be one of the
	// enumerated log levels below.
	LogLevel LogLevel
}

// LogLevel selects how verbose diagnostic output is.
type LogLevel int

// Enumeration of the possible log levels.
const (
	LogLevelSilent  LogLevel = iota // Displays only internal-compiler errors.
	LogLevelError                   // Displays only errors.
	LogLevelWarn                    // Displays warnings and errors.
	LogLevelVerbose                 // Displays all messages.
)

// NewReporter creates a Reporter at the given log level.
func NewReporter(level LogLevel) *Reporter {
	return &Reporter{m: &sync.Mutex{}, LogLevel: level}
}
