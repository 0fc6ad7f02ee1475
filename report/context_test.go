package report

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContextRecordsErrors(t *testing.T) {
	ctx := NewContext(NewReporter(LogLevelSilent), "m")
	require.False(t, ctx.AnyErrors())

	ctx.ReportModuleError("m", "missing module file")
	require.True(t, ctx.AnyErrors())
	require.Len(t, ctx.Diagnostics, 1)
	require.Equal(t, SeverityError, ctx.Diagnostics[0].Severity)
	require.Equal(t, "m", ctx.Diagnostics[0].Module)
}

func TestContextFatalIsSticky(t *testing.T) {
	ctx := NewContext(NewReporter(LogLevelSilent), "m")
	require.False(t, ctx.Fatal)

	ctx.ReportFatal("cannot find module %s", "m")
	require.True(t, ctx.Fatal)
}

func TestReportICEPanicsAndIsCaught(t *testing.T) {
	ctx := NewContext(NewReporter(LogLevelSilent), "")

	func() {
		defer ctx.CatchErrors("test.f90")
		ctx.ReportICE("CONTINUE reached the action-statement handler")
	}()

	require.True(t, ctx.Fatal)
	require.Len(t, ctx.Diagnostics, 1)
	require.Equal(t, SeverityICE, ctx.Diagnostics[0].Severity)
}

func TestCatchErrorsRecoversArbitraryPanic(t *testing.T) {
	ctx := NewContext(NewReporter(LogLevelSilent), "")

	func() {
		defer ctx.CatchErrors("test.f90")
		panic("unexpected")
	}()

	require.True(t, ctx.AnyErrors())
}
