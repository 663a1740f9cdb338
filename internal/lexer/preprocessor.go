// Package lexer strips CMS-2 comments and reassembles physical source lines
// into complete, `$`-terminated logical statements.
//
// CMS-2 comments are bracketed by a pair of ASCII apostrophes ('' ... '').
// The comment flag is local to each physical line: an unterminated comment
// at end of line does not carry into the next line. This mirrors the
// current core's contract exactly (see Preprocess) rather than guessing at
// a multi-line comment extension the reference manual leaves ambiguous.
package lexer

import "strings"

// Statement is one complete, `$`-terminated logical CMS-2 statement, with
// the zero-based line number on which its terminating `$` was observed.
// When multiple statements share a physical line, each carries that same
// line number.
type Statement struct {
	Text string
	Line int
}

// Preprocess strips comments from src and reassembles the result into
// logical statements. Source lines are joined with a single space; empty
// statements (whitespace only between `$`s) are discarded.
func Preprocess(src string) []Statement {
	lines := strings.Split(src, "\n")

	var statements []Statement
	var buf strings.Builder

	for lineNum, line := range lines {
		buf.WriteByte(' ')
		buf.WriteString(strings.TrimSpace(stripComments(line)))

		for {
			current := buf.String()
			idx := strings.IndexByte(current, '$')
			if idx < 0 {
				break
			}
			text := strings.TrimSpace(current[:idx])
			rest := strings.TrimSpace(current[idx+1:])
			buf.Reset()
			buf.WriteString(rest)

			if text != "" {
				statements = append(statements, Statement{Text: text, Line: lineNum})
			}
		}
	}

	return statements
}

// stripComments removes CMS-2 `''`-paired comments from a single physical
// line. The in-comment flag resets at the start of every call: comment
// state never spans lines.
func stripComments(line string) string {
	var out strings.Builder
	inComment := false
	i := 0
	for i < len(line) {
		if i+1 < len(line) && line[i] == '\'' && line[i+1] == '\'' {
			inComment = !inComment
			i += 2
			continue
		}
		if !inComment {
			out.WriteByte(line[i])
		}
		i++
	}
	return out.String()
}
