package query

import (
	"fmt"
	"strings"

	"github.com/cwbudde/go-cms2ls/internal/model"
	"github.com/cwbudde/go-cms2ls/internal/semantic"
)

// Hover is the resolved hover payload for a word, before markdown rendering.
type Hover struct {
	Found    bool
	Markdown string
}

// HoverInfo resolves word against m and renders the matching markdown
// block, checking variables, tables, procedures, functions, and types
// before falling back to the reserved-word and predefined-function
// tables. Returns Hover{Found: false} when nothing matches.
func HoverInfo(m *semantic.Model, word string) Hover {
	word = strings.ToUpper(word)

	if v := m.GetVariable(word); v != nil {
		return Hover{Found: true, Markdown: variableMarkdown(v)}
	}
	if t := m.GetTable(word); t != nil {
		return Hover{Found: true, Markdown: tableMarkdown(t)}
	}
	if p := m.GetProcedure(word); p != nil {
		return Hover{Found: true, Markdown: procedureMarkdown(p)}
	}
	if fn := m.GetFunction(word); fn != nil {
		return Hover{Found: true, Markdown: functionMarkdown(fn)}
	}
	if t := m.GetType(word); t != nil {
		return Hover{Found: true, Markdown: typeMarkdown(t)}
	}
	if model.ReservedWords[word] {
		return Hover{Found: true, Markdown: fmt.Sprintf("**%s**\n\n%s", word, model.KeywordDescription(word))}
	}
	if model.PredefinedFunctions[word] {
		return Hover{
			Found: true,
			Markdown: fmt.Sprintf("**%s**\n\n%s\n\n*Predefined CMS-2 function*",
				word, model.PredefinedDescription(word)),
		}
	}

	return Hover{Found: false}
}

func variableMarkdown(v *model.Variable) string {
	md := fmt.Sprintf("```cms2\nVRBL %s %s\n```\n", v.Name, model.FormatVariableType(v))
	if v.Modifier != model.ModNone {
		md += fmt.Sprintf("**Modifier:** (%s)\n\n", v.Modifier)
	}
	md += fmt.Sprintf("*Declared at line %d*", v.LineNumber+1)
	return md
}

func tableMarkdown(t *model.Table) string {
	md := fmt.Sprintf("```cms2\nTABLE %s %s %s %d\n```\n", t.Name, t.TableType, t.Packing, t.ItemCount)
	if len(t.FieldOrder) > 0 {
		shown := t.FieldOrder
		suffix := ""
		if len(shown) > 5 {
			suffix = fmt.Sprintf(" (+%d more)", len(shown)-5)
			shown = shown[:5]
		}
		md += "**Fields:** " + strings.Join(shown, ", ") + suffix
	}
	return md
}

func procedureMarkdown(p *model.Procedure) string {
	kind := "PROCEDURE"
	if p.IsExec {
		kind = "EXEC-PROC"
	}
	md := fmt.Sprintf("```cms2\n%s %s", kind, p.Name)
	if len(p.InputParams) > 0 {
		md += " INPUT " + strings.Join(p.InputParams, ", ")
	}
	if len(p.OutputParams) > 0 {
		md += " OUTPUT " + strings.Join(p.OutputParams, ", ")
	}
	md += "\n```"
	return md
}

func functionMarkdown(fn *model.Function) string {
	returnType := fn.ReturnType
	if returnType == "" {
		returnType = "void"
	}
	return fmt.Sprintf("```cms2\nFUNCTION %s(%s) %s\n```", fn.Name, strings.Join(fn.InputParams, ", "), returnType)
}

func typeMarkdown(t *model.Type) string {
	if len(t.StatusValues) > 0 {
		shown := t.StatusValues
		suffix := ""
		if len(shown) > 4 {
			suffix = "..."
			shown = shown[:4]
		}
		return fmt.Sprintf("```cms2\nTYPE %s %s%s\n```", t.Name, strings.Join(shown, ", "), suffix)
	}
	return fmt.Sprintf("```cms2\nTYPE %s %s\n```", t.Name, t.Packing)
}
