package report

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
)

// Severity tag styles, grounded on the teacher's src/logging/display.go
// (SuccessStyleBG/WarnStyleBG/ErrorStyleBG) which prints a colored background
// tag followed by a colored message.
var (
	warningTag = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	warningFG  = pterm.NewStyle(pterm.FgYellow)
	errorTag   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	errorFG    = pterm.NewStyle(pterm.FgRed)
	iceTag     = pterm.NewStyle(pterm.BgMagenta, pterm.FgWhite)
	iceFG      = pterm.NewStyle(pterm.FgMagenta)
)

// displayDiagnostic renders one Diagnostic to the terminal, gated by the
// Reporter's log level. rep may be nil (tests construct bare Contexts); a nil
// Reporter renders nothing, so tests can assert on c.Diagnostics instead of
// scraping stdout.
func displayDiagnostic(rep *Reporter, d Diagnostic) {
	if rep == nil {
		return
	}
	rep.m.Lock()
	defer rep.m.Unlock()

	switch d.Severity {
	case SeverityICE:
		iceTag.Print(" ICE ")
		iceFG.Println(" " + d.Message)
		fmt.Println("this indicates a bug in an earlier pass, not in the input program")
		return
	case SeverityWarning:
		if rep.LogLevel < LogLevelWarn {
			return
		}
	case SeverityError:
		if rep.LogLevel < LogLevelError {
			return
		}
	}

	label := "error"
	tag, fg := errorTag, errorFG
	if d.Severity == SeverityWarning {
		label, tag, fg = "warning", warningTag, warningFG
	}

	switch {
	case d.Module != "":
		tag.Print(" module:" + d.Module + " ")
		fg.Println(" " + d.Message)
	case d.Position != nil:
		tag.Printf(" %s %s:%d:%d ", label, d.ReprPath, d.Position.StartLn+1, d.Position.StartCol+1)
		fg.Println(" " + d.Message)
		displaySourceText(d.Path, d.Position)
	default:
		tag.Printf(" %s ", label)
		fg.Println(" " + d.Message)
	}
}

// displaySourceText prints the source lines spanned by pos with caret
// underlining, grounded on the teacher's report/display.go
// displaySourceText.
func displaySourceText(absPath string, pos *TextPosition) {
	file, err := os.Open(absPath)
	if err != nil {
		return
	}
	defer file.Close()

	var lines []string
	sc := bufio.NewScanner(file)
	for ln := 0; sc.Scan(); ln++ {
		if pos.StartLn <= ln && ln <= pos.EndLn {
			lines = append(lines, strings.ReplaceAll(sc.Text(), "\t", "    "))
		}
	}
	if len(lines) == 0 {
		return
	}

	minIndent := math.MaxInt
	for _, line := range lines {
		indent := 0
		for _, c := range line {
			if c != ' ' {
				break
			}
			indent++
		}
		if indent < minIndent {
			minIndent = indent
		}
	}
	if minIndent == math.MaxInt {
		minIndent = 0
	}

	maxLineNumLen := len(strconv.Itoa(pos.EndLn + 1))
	lineNumFmt := "%-" + strconv.Itoa(maxLineNumLen) + "v | "

	for i, line := range lines {
		fmt.Printf(lineNumFmt, i+pos.StartLn+1)
		if minIndent <= len(line) {
			fmt.Println(line[minIndent:])
		} else {
			fmt.Println(line)
		}

		fmt.Print(strings.Repeat(" ", maxLineNumLen), " | ")

		prefix := 0
		if i == 0 {
			prefix = pos.StartCol - minIndent
			if prefix < 0 {
				prefix = 0
			}
		}

		suffix := 0
		if i == len(lines)-1 {
			suffix = len(line) - pos.EndCol
			if suffix < 0 {
				suffix = 0
			}
		}

		fmt.Print(strings.Repeat(" ", prefix))
		carets := len(line) - suffix - prefix - minIndent
		if carets < 1 {
			carets = 1
		}
		fmt.Println(strings.Repeat("^", carets))
	}
	fmt.Println()
}
