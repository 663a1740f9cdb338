// Package diag formats positional diagnostics for the server's stderr log:
// a source line plus a caret, the way a compiler error would be shown to
// a terminal. Diagnostics never reach the LSP wire; publishing them as
// textDocument/publishDiagnostics is out of scope (see the server's
// non-goals).
package diag

import (
	"fmt"
	"strings"
)

// Diagnostic is a single positional message against a parsed document.
type Diagnostic struct {
	Message string
	Source  string
	File    string
	Line    int // 1-indexed
}

// New builds a Diagnostic against line (1-indexed) of source.
func New(message, source, file string, line int) *Diagnostic {
	return &Diagnostic{Message: message, Source: source, File: file, Line: line}
}

// Format renders the diagnostic with a source-line/caret block, the way
// a compiler error is shown on a terminal.
func (d *Diagnostic) Format() string {
	var sb strings.Builder

	if d.File != "" {
		fmt.Fprintf(&sb, "%s:%d: %s\n", d.File, d.Line, d.Message)
	} else {
		fmt.Fprintf(&sb, "line %d: %s\n", d.Line, d.Message)
	}

	if line := d.sourceLine(d.Line); line != "" {
		lineNumStr := fmt.Sprintf("%4d | ", d.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(lineNumStr)))
		sb.WriteString("^")
	}

	return sb.String()
}

func (d *Diagnostic) sourceLine(line int) string {
	if d.Source == "" {
		return ""
	}
	lines := strings.Split(d.Source, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	return lines[line-1]
}

// FormatAll renders a batch of diagnostics the way the compiler-error
// report does for multiple errors: a count header followed by each
// diagnostic in turn.
func FormatAll(diags []*Diagnostic) string {
	if len(diags) == 0 {
		return ""
	}
	if len(diags) == 1 {
		return diags[0].Format()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d diagnostic(s):\n\n", len(diags))
	for i, d := range diags {
		fmt.Fprintf(&sb, "[%d of %d]\n", i+1, len(diags))
		sb.WriteString(d.Format())
		if i < len(diags)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}
