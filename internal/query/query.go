// Package query answers the read-only questions an editor asks about a
// parsed document: what identifier sits under the cursor, what should be
// offered for completion, what hover text and definition location a
// symbol has, where else it's mentioned, and the document's outline.
package query

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/cwbudde/go-cms2ls/internal/model"
	"github.com/cwbudde/go-cms2ls/internal/semantic"
)

var wordRe = regexp.MustCompile(`(?i)\b([A-Z][A-Z0-9_]*)\b`)

// WordAtPosition returns the identifier under character in line, matching
// the reference server's `\b([A-Z][A-Z0-9_]*)\b` scan: a hyphenated
// keyword like SYS-DD is found only up to the hyphen.
func WordAtPosition(line string, character int) (string, bool) {
	for _, loc := range wordRe.FindAllStringIndex(line, -1) {
		if loc[0] <= character && character <= loc[1] {
			return strings.ToUpper(line[loc[0]:loc[1]]), true
		}
	}
	return "", false
}

// CompletionPrefix extracts the partial identifier immediately before
// character on line, for filtering completion candidates.
func CompletionPrefix(line string, character int) string {
	if character < 0 {
		character = 0
	}
	if character > len(line) {
		character = len(line)
	}
	head := strings.TrimSpace(line[:character])
	if head == "" {
		return ""
	}
	fields := strings.Fields(head)
	return strings.ToUpper(fields[len(fields)-1])
}

// LSP completion item kinds, per the Language Server Protocol spec.
const (
	KindMethod        = 2
	KindFunction      = 3
	KindVariable      = 6
	KindStruct        = 22
	KindTypeParameter = 25
)

// CompletionItem mirrors the subset of CompletionItem the server fills in.
type CompletionItem struct {
	Label         string
	Kind          int
	Detail        string
	Documentation string
}

// Completions returns every keyword, predefined function, and declared
// symbol whose name starts with prefix (case-insensitive). An empty
// prefix returns everything.
func Completions(m *semantic.Model, prefix string) []CompletionItem {
	var items []CompletionItem

	for kw := range model.ReservedWords {
		if matchesPrefix(kw, prefix) {
			items = append(items, CompletionItem{
				Label:         kw,
				Kind:          14, // Keyword
				Detail:        "CMS-2 keyword",
				Documentation: model.KeywordDescription(kw),
			})
		}
	}

	for fn := range model.PredefinedFunctions {
		if matchesPrefix(fn, prefix) {
			items = append(items, CompletionItem{
				Label:         fn,
				Kind:          KindFunction,
				Detail:        "Predefined function",
				Documentation: model.PredefinedDescription(fn),
			})
		}
	}

	for name, v := range m.Variables {
		if strings.Contains(name, ".") || !matchesPrefix(name, prefix) {
			continue
		}
		items = append(items, CompletionItem{
			Label:         name,
			Kind:          KindVariable,
			Detail:        model.FormatVariableType(v),
			Documentation: fmt.Sprintf("Variable declared at line %d", v.LineNumber+1),
		})
	}

	for name, t := range m.Tables {
		if !matchesPrefix(name, prefix) {
			continue
		}
		items = append(items, CompletionItem{
			Label:         name,
			Kind:          KindStruct,
			Detail:        fmt.Sprintf("TABLE %s %s", t.TableType, t.Packing),
			Documentation: fmt.Sprintf("Table with %d fields", len(t.Fields)),
		})
	}

	for name, p := range m.Procedures {
		if !matchesPrefix(name, prefix) {
			continue
		}
		params := append(append([]string{}, p.InputParams...), p.OutputParams...)
		items = append(items, CompletionItem{
			Label:         name,
			Kind:          KindMethod,
			Detail:        fmt.Sprintf("PROCEDURE (%s)", strings.Join(params, ", ")),
			Documentation: fmt.Sprintf("Procedure at line %d", p.LineStart+1),
		})
	}

	for name, fn := range m.Functions {
		if !matchesPrefix(name, prefix) {
			continue
		}
		returnType := fn.ReturnType
		if returnType == "" {
			returnType = "void"
		}
		items = append(items, CompletionItem{
			Label:         name,
			Kind:          KindFunction,
			Detail:        fmt.Sprintf("FUNCTION -> %s", returnType),
			Documentation: fmt.Sprintf("Function at line %d", fn.LineStart+1),
		})
	}

	for name, t := range m.Types {
		if !matchesPrefix(name, prefix) {
			continue
		}
		items = append(items, CompletionItem{
			Label:         name,
			Kind:          KindTypeParameter,
			Detail:        "TYPE",
			Documentation: fmt.Sprintf("Type defined at line %d", t.LineStart+1),
		})
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Label < items[j].Label })
	return items
}

func matchesPrefix(candidate, prefix string) bool {
	return prefix == "" || strings.HasPrefix(strings.ToUpper(candidate), strings.ToUpper(prefix))
}

// FindDefinitionLine resolves name to the zero-based line its declaration
// starts on, checking variables, tables, procedures, functions, then types
// in that order.
func FindDefinitionLine(m *semantic.Model, name string) (int, bool) {
	name = strings.ToUpper(name)

	if v := m.GetVariable(name); v != nil {
		return v.LineNumber, true
	}
	if t := m.GetTable(name); t != nil {
		return t.LineStart, true
	}
	if p := m.GetProcedure(name); p != nil {
		return p.LineStart, true
	}
	if fn := m.GetFunction(name); fn != nil {
		return fn.LineStart, true
	}
	if t := m.GetType(name); t != nil {
		return t.LineStart, true
	}
	return 0, false
}

// Reference is one occurrence of a word in the document.
type Reference struct {
	Line      int
	StartChar int
	EndChar   int
}

// FindReferences scans every line for case-insensitive whole-word matches
// of word. This is a textual scan, not a scope-aware one: it mirrors the
// reference server's behavior of treating references purely lexically.
func FindReferences(lines []string, word string) []Reference {
	pattern := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)

	var refs []Reference
	for i, line := range lines {
		for _, loc := range pattern.FindAllStringIndex(line, -1) {
			refs = append(refs, Reference{Line: i, StartChar: loc[0], EndChar: loc[1]})
		}
	}
	return refs
}

// DocumentSymbol is one entry in a textDocument/documentSymbol outline.
type DocumentSymbol struct {
	Name      string
	Kind      int
	Detail    string
	LineStart int
	LineEnd   int
}

// DocumentSymbols builds the full outline for m: SYS-DD/SYS-PROC blocks,
// then deduplicated variables, tables, procedures, functions, and types.
// Scope-qualified variable keys ("SCOPE.NAME") are skipped, matching
// AllSymbols' completion-facing dedup rule.
func DocumentSymbols(m *semantic.Model) []DocumentSymbol {
	var out []DocumentSymbol

	for name, block := range m.SysDataBlocks {
		out = append(out, DocumentSymbol{
			Name: name, Kind: 2, Detail: "SYS-DD",
			LineStart: block.LineStart, LineEnd: orSelf(block.LineEnd, block.LineStart),
		})
	}

	for name, block := range m.SysProcBlocks {
		detail := "SYS-PROC"
		if block.IsReentrant {
			detail = "SYS-PROC-REN"
		}
		out = append(out, DocumentSymbol{
			Name: name, Kind: 2, Detail: detail,
			LineStart: block.LineStart, LineEnd: orSelf(block.LineEnd, block.LineStart),
		})
	}

	seen := make(map[string]bool)
	for name, v := range m.Variables {
		if strings.Contains(name, ".") || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, DocumentSymbol{
			Name: name, Kind: 13, Detail: model.FormatVariableType(v),
			LineStart: v.LineNumber, LineEnd: v.LineNumber,
		})
	}

	for name, t := range m.Tables {
		out = append(out, DocumentSymbol{
			Name: name, Kind: 23, Detail: "TABLE " + string(t.TableType),
			LineStart: t.LineStart, LineEnd: orSelf(t.LineEnd, t.LineStart),
		})
	}

	for name, p := range m.Procedures {
		detail := "PROCEDURE"
		if p.IsExec {
			detail = "EXEC-PROC"
		}
		out = append(out, DocumentSymbol{
			Name: name, Kind: 6, Detail: detail,
			LineStart: p.LineStart, LineEnd: orSelf(p.LineEnd, p.LineStart),
		})
	}

	for name, fn := range m.Functions {
		returnType := fn.ReturnType
		if returnType == "" {
			returnType = "void"
		}
		out = append(out, DocumentSymbol{
			Name: name, Kind: 12, Detail: "FUNCTION -> " + returnType,
			LineStart: fn.LineStart, LineEnd: orSelf(fn.LineEnd, fn.LineStart),
		})
	}

	for name, t := range m.Types {
		out = append(out, DocumentSymbol{
			Name: name, Kind: 26, Detail: "TYPE",
			LineStart: t.LineStart, LineEnd: orSelf(t.LineEnd, t.LineStart),
		})
	}

	for _, block := range m.LocalData {
		out = append(out, DocumentSymbol{
			Name: block.Kind, Kind: 3, Detail: "Local Data Region",
			LineStart: block.LineStart, LineEnd: orSelf(block.LineEnd, block.LineStart),
		})
	}

	return out
}

func orSelf(end, start int) int {
	if end == 0 {
		return start
	}
	return end
}
