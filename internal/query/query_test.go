package query

import (
	"strings"
	"testing"

	"github.com/cwbudde/go-cms2ls/internal/parser"
)

const program = `
TESTDD SYS-DD $
VRBL ALTITUDE I 16 S $
TABLE WAYPOINTS V MEDIUM 100 $
  FIELD WP_LAT A 32 S 16 $
END-TABLE WAYPOINTS $
END-SYS-DD TESTDD $
TESTSP SYS-PROC $
PROCEDURE UPDATE_POS INPUT LAT OUTPUT DISTANCE $
END-PROC UPDATE_POS $
END-SYS-PROC TESTSP $
`

func TestWordAtPosition(t *testing.T) {
	word, ok := WordAtPosition("VRBL ALTITUDE I 16 S $", 6)
	if !ok || word != "ALTITUDE" {
		t.Fatalf("word = %q ok = %v", word, ok)
	}
}

func TestWordAtPositionNoMatch(t *testing.T) {
	if _, ok := WordAtPosition("   $ $ $", 1); ok {
		t.Errorf("expected no word match on punctuation-only line")
	}
}

func TestCompletionPrefix(t *testing.T) {
	if got := CompletionPrefix("VRBL ALT", 8); got != "ALT" {
		t.Errorf("prefix = %q, want ALT", got)
	}
	if got := CompletionPrefix("", 0); got != "" {
		t.Errorf("prefix of empty line = %q, want empty", got)
	}
	if got := CompletionPrefix("VRBL ALT", -1); got != "" {
		t.Errorf("prefix with negative character = %q, want empty (clamped, not panicking)", got)
	}
}

func TestCompletionsIncludesKeywordsFunctionsAndSymbols(t *testing.T) {
	m := parser.Parse(program)
	items := Completions(m, "")

	var sawKeyword, sawPredefined, sawVariable, sawTable, sawProcedure bool
	for _, it := range items {
		switch it.Label {
		case "VRBL":
			sawKeyword = it.Kind == 14
		case "SIN":
			sawPredefined = it.Kind == KindFunction
		case "ALTITUDE":
			sawVariable = it.Kind == KindVariable
		case "WAYPOINTS":
			sawTable = it.Kind == KindStruct
		case "UPDATE_POS":
			sawProcedure = it.Kind == KindMethod
		}
	}
	if !sawKeyword || !sawPredefined || !sawVariable || !sawTable || !sawProcedure {
		t.Errorf("missing expected completion kinds: kw=%v fn=%v var=%v table=%v proc=%v",
			sawKeyword, sawPredefined, sawVariable, sawTable, sawProcedure)
	}
}

func TestCompletionsFiltersByPrefix(t *testing.T) {
	m := parser.Parse(program)
	items := Completions(m, "ALT")
	for _, it := range items {
		if !strings.HasPrefix(it.Label, "ALT") {
			t.Errorf("item %q does not match prefix ALT", it.Label)
		}
	}
	if len(items) == 0 {
		t.Fatalf("expected at least ALTITUDE to match prefix ALT")
	}
}

func TestFindDefinitionLine(t *testing.T) {
	m := parser.Parse(program)

	if line, ok := FindDefinitionLine(m, "ALTITUDE"); !ok || line != 2 {
		t.Errorf("ALTITUDE def line = %d ok=%v, want 2", line, ok)
	}
	if _, ok := FindDefinitionLine(m, "NOPE"); ok {
		t.Errorf("expected no definition for NOPE")
	}
}

func TestFindReferences(t *testing.T) {
	lines := []string{"VRBL ALTITUDE I 16 S $", "SET ALTITUDE TO 0 $", "VRBL ALTITUDE2 I 16 S $"}
	refs := FindReferences(lines, "ALTITUDE")
	if len(refs) != 2 {
		t.Fatalf("expected 2 whole-word matches (not ALTITUDE2), got %d: %+v", len(refs), refs)
	}
}

func TestDocumentSymbolsCoversAllKinds(t *testing.T) {
	m := parser.Parse(program)
	symbols := DocumentSymbols(m)

	kinds := make(map[string]int)
	for _, s := range symbols {
		kinds[s.Name] = s.Kind
	}

	want := map[string]int{
		"TESTDD":      2,
		"TESTSP":      2,
		"ALTITUDE":    13,
		"WAYPOINTS":   23,
		"UPDATE_POS":  6,
	}
	for name, kind := range want {
		if kinds[name] != kind {
			t.Errorf("symbol %s kind = %d, want %d", name, kinds[name], kind)
		}
	}
}

func TestDocumentSymbolsSurfacesLocalDataRegions(t *testing.T) {
	m := parser.Parse("LOC-DD $\nVRBL TEMP I 16 S $\nEND-LOC-DD $\n")
	symbols := DocumentSymbols(m)

	var found bool
	for _, s := range symbols {
		if s.Name == "LOC-DD" && s.Kind == 3 && s.Detail == "Local Data Region" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a LOC-DD local data region symbol, got %+v", symbols)
	}
}

func TestHoverInfoVariableAndFallback(t *testing.T) {
	m := parser.Parse(program)

	h := HoverInfo(m, "ALTITUDE")
	if !h.Found || !strings.Contains(h.Markdown, "VRBL ALTITUDE") {
		t.Fatalf("hover for ALTITUDE = %+v", h)
	}

	h = HoverInfo(m, "VRBL")
	if !h.Found || !strings.Contains(h.Markdown, "Variable declaration") {
		t.Fatalf("hover for keyword VRBL = %+v", h)
	}

	h = HoverInfo(m, "SIN")
	if !h.Found || !strings.Contains(h.Markdown, "Predefined CMS-2 function") {
		t.Fatalf("hover for predefined SIN = %+v", h)
	}

	h = HoverInfo(m, "NOPE")
	if h.Found {
		t.Errorf("expected no hover for unknown word NOPE")
	}
}
