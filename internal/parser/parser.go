// Package parser recognizes CMS-2 declaration statements and feeds them
// into a semantic.Model. It does not build a full AST: CMS-2 source is
// walked one logical statement at a time, each statement classified by
// keyword and matched against a small set of regular expressions, exactly
// the way the reference parser this is ported from does it. There is
// deliberately no precedence/grammar layer beyond that dispatch chain.
package parser

import (
	"fmt"
	"strings"

	"github.com/cwbudde/go-cms2ls/internal/diag"
	"github.com/cwbudde/go-cms2ls/internal/lexer"
	"github.com/cwbudde/go-cms2ls/internal/model"
	"github.com/cwbudde/go-cms2ls/internal/semantic"
)

// Parser walks preprocessed statements and accumulates a semantic.Model.
// Block-tracking fields mirror the open/close state a single pass over
// the statement stream needs; there is no nesting beyond what CMS-2 itself
// allows (one SYS-DD/SYS-PROC "current" block, one current table/type/
// procedure/function at a time).
type Parser struct {
	model *semantic.Model

	inSysDD        bool
	currentSysDD   string
	inSysProc      bool
	currentSysProc string
	inTableBlock   bool
	currentTable   string
	inTypeBlock    bool
	currentType    string
	inProcedure    bool
	currentProc    string
	inFunction     bool
	currentFunc    string

	// currentLocalData is the key of the LOC-DD/AUTO-DD block currently
	// open in the model's LocalData registry, "" if none is open.
	currentLocalData string

	source      string
	diagnostics []*diag.Diagnostic
}

// New returns a Parser with a fresh, empty semantic model.
func New() *Parser {
	return &Parser{model: semantic.NewModel()}
}

// Parse preprocesses src into statements and feeds each through the
// statement dispatcher, returning the resulting model. A Parser is
// single-use per document; call New for each parse.
func Parse(src string) *semantic.Model {
	return New().Parse(src)
}

// Parse runs p over src, populating p's model and diagnostics, and
// returns the model. Call this on a freshly constructed Parser; it is
// not meant to be called twice on the same Parser.
func (p *Parser) Parse(src string) *semantic.Model {
	p.source = src
	for _, stmt := range lexer.Preprocess(src) {
		p.parseStatement(stmt.Text, stmt.Line)
	}
	return p.model
}

// Model exposes the in-progress model, useful for incremental parsing
// where a caller wants to inspect state statement by statement.
func (p *Parser) Model() *semantic.Model { return p.model }

// Diagnostics returns malformed-declaration warnings accumulated while
// parsing: statements that were recognized by keyword but did not match
// the expected shape (e.g. a FIELD outside any TABLE block). These never
// reach the LSP client; they are for server-side stderr logging only.
func (p *Parser) Diagnostics() []*diag.Diagnostic { return p.diagnostics }

func (p *Parser) warn(message string, line int) {
	p.diagnostics = append(p.diagnostics, diag.New(message, p.source, "", line+1))
}

// parseStatement classifies one logical statement and routes it to a
// declaration handler. The elif-style ordering here matters: several
// checks are "contains", not "starts with", so order resolves ambiguity
// the same way the reference implementation does (e.g. "END-SYS-DD X" also
// contains "SYS-DD", so the SYS-DD opener check, which runs first, has to
// rule it out explicitly for the closer check to see it).
func (p *Parser) parseStatement(statement string, line int) {
	upper := strings.ToUpper(strings.TrimSpace(statement))

	switch {
	case strings.Contains(upper, "SYS-DD") && !strings.Contains(upper, "END-SYS-DD"):
		p.parseSysDDStart(statement, line)
	case strings.Contains(upper, "END-SYS-DD"):
		p.handleEndSysDD(line)
	case strings.Contains(upper, "SYS-PROC") && !strings.Contains(upper, "END-SYS-PROC"):
		p.parseSysProcStart(statement, upper, line)
	case strings.Contains(upper, "END-SYS-PROC"):
		p.handleEndSysProc(line)
	case strings.HasPrefix(upper, "AUTO-DD") || strings.Contains(upper, " AUTO-DD"):
		p.startLocalData("AUTO-DD", line)
	case strings.Contains(upper, "END-AUTO-DD"):
		p.endLocalData(line)
	case strings.HasPrefix(upper, "LOC-DD") || strings.Contains(upper, " LOC-DD"):
		p.startLocalData("LOC-DD", line)
	case strings.Contains(upper, "END-LOC-DD"):
		p.endLocalData(line)

	case isVrblStatement(upper):
		p.parseVrblDeclaration(statement, line)
	case strings.HasPrefix(upper, "TABLE") || strings.Contains(upper, " TABLE "):
		p.parseTableDeclaration(statement, line)
	case strings.Contains(upper, "END-TABLE"):
		p.handleEndTable(line)
	case strings.HasPrefix(upper, "FIELD"):
		p.parseFieldDeclaration(statement, line)
	case strings.HasPrefix(upper, "TYPE") && !strings.Contains(upper, "END-TYPE"):
		p.parseTypeDeclaration(statement, line)
	case strings.Contains(upper, "END-TYPE"):
		p.handleEndType(line)
	case isProcedureStatement(upper):
		p.parseProcedureDeclaration(statement, line)
	case strings.HasPrefix(upper, "EXEC-PROC") || strings.Contains(upper, " EXEC-PROC "):
		p.parseExecProcDeclaration(statement, line)
	case strings.Contains(upper, "END-PROC"):
		p.handleEndProc(line)
	case strings.HasPrefix(upper, "FUNCTION") || strings.Contains(upper, " FUNCTION "):
		p.parseFunctionDeclaration(statement, line)
	case strings.Contains(upper, "END-FUNCTION"):
		p.handleEndFunction(line)
	case strings.HasPrefix(upper, "CMODE"):
		p.parseCmode(statement)
	}
}

var vrblModifierPrefixes = []string{
	"(EXTDEF) VRBL", "(EXTREF) VRBL", "(LOCREF) VRBL", "(TRANSREF) VRBL",
}

func isVrblStatement(upper string) bool {
	if strings.HasPrefix(upper, "VRBL") || strings.Contains(upper, " VRBL ") {
		return true
	}
	for _, p := range vrblModifierPrefixes {
		if strings.HasPrefix(upper, p) {
			return true
		}
	}
	return false
}

var procedureModifierPrefixes = []string{"(EXTDEF) PROCEDURE", "(EXTREF) PROCEDURE"}

func isProcedureStatement(upper string) bool {
	if strings.HasPrefix(upper, "PROCEDURE") || strings.Contains(upper, " PROCEDURE ") {
		return true
	}
	for _, p := range procedureModifierPrefixes {
		if strings.HasPrefix(upper, p) {
			return true
		}
	}
	return false
}

func (p *Parser) handleEndSysDD(line int) {
	if p.currentSysDD != "" {
		if block, ok := p.model.SysDataBlocks[p.currentSysDD]; ok {
			block.LineEnd = line
		}
	}
	p.inSysDD = false
	p.currentSysDD = ""
	p.model.CurrentScope = "GLOBAL"
}

func (p *Parser) handleEndSysProc(line int) {
	if p.currentSysProc != "" {
		if block, ok := p.model.SysProcBlocks[p.currentSysProc]; ok {
			block.LineEnd = line
		}
	}
	p.inSysProc = false
	p.currentSysProc = ""
	p.model.CurrentScope = "GLOBAL"
}

func (p *Parser) handleEndTable(line int) {
	if p.currentTable != "" {
		if t, ok := p.model.Tables[p.currentTable]; ok {
			t.LineEnd = line
		}
	}
	p.inTableBlock = false
	p.currentTable = ""
}

func (p *Parser) handleEndType(line int) {
	if p.currentType != "" {
		if t, ok := p.model.Types[p.currentType]; ok {
			t.LineEnd = line
		}
	}
	p.inTypeBlock = false
	p.currentType = ""
}

func (p *Parser) handleEndProc(line int) {
	if p.currentProc != "" {
		if proc, ok := p.model.Procedures[p.currentProc]; ok {
			proc.LineEnd = line
		}
	}
	p.inProcedure = false
	p.currentProc = ""
}

func (p *Parser) handleEndFunction(line int) {
	if p.currentFunc != "" {
		if fn, ok := p.model.Functions[p.currentFunc]; ok {
			fn.LineEnd = line
		}
	}
	p.inFunction = false
	p.currentFunc = ""
}

// startLocalData opens a LOC-DD/AUTO-DD region, recording it in the
// model's LocalData registry so the document-symbol outline can surface
// it. Regions have no declared name, so the registry key is synthesized
// from the kind and starting line.
func (p *Parser) startLocalData(kind string, line int) {
	key := fmt.Sprintf("%s#%d", kind, line)
	p.model.LocalData[key] = &model.LocalDataBlock{Kind: kind, LineStart: line}
	p.currentLocalData = key
}

func (p *Parser) endLocalData(line int) {
	if p.currentLocalData != "" {
		if block, ok := p.model.LocalData[p.currentLocalData]; ok {
			block.LineEnd = line
		}
	}
	p.currentLocalData = ""
}

func (p *Parser) parseCmode(statement string) {
	operand := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(statement)), "CMODE")
	if strings.Contains(operand, "O") {
		p.model.ConstantMode = "O"
	} else {
		p.model.ConstantMode = "D"
	}
}
