// Package semantic holds the registries a parsed CMS-2 document builds up:
// variables, tables, procedures, functions, types, and the SYS-DD/SYS-PROC
// blocks that own them, plus the scope bookkeeping the parser needs while
// walking statements top to bottom.
package semantic

import (
	"strings"

	"github.com/cwbudde/go-cms2ls/internal/model"
)

const globalScope = "GLOBAL"

// Model is the semantic picture of one CMS-2 document. Lookups upper-case
// the name before reading a registry, so they are case-insensitive; the
// parser upper-cases every identifier before it is stored.
type Model struct {
	Variables     map[string]*model.Variable
	Tables        map[string]*model.Table
	Types         map[string]*model.Type
	Procedures    map[string]*model.Procedure
	Functions     map[string]*model.Function
	SysDataBlocks map[string]*model.SysDataBlock
	SysProcBlocks map[string]*model.SysProcBlock
	LocalData     map[string]*model.LocalDataBlock

	CurrentScope string
	ScopeStack   []string
	ConstantMode string // "D" decimal, "O" octal
}

// NewModel returns an empty model with scope reset to GLOBAL.
func NewModel() *Model {
	return &Model{
		Variables:     make(map[string]*model.Variable),
		Tables:        make(map[string]*model.Table),
		Types:         make(map[string]*model.Type),
		Procedures:    make(map[string]*model.Procedure),
		Functions:     make(map[string]*model.Function),
		SysDataBlocks: make(map[string]*model.SysDataBlock),
		SysProcBlocks: make(map[string]*model.SysProcBlock),
		LocalData:     make(map[string]*model.LocalDataBlock),
		CurrentScope:  globalScope,
		ConstantMode:  "D",
	}
}

// AddVariable stores v under its bare name and, when inside a non-global
// scope, also under "SCOPE.NAME" so GetVariable can prefer an
// in-scope declaration over a same-named one elsewhere. Re-declaration is
// last-writer-wins: no error is raised.
func (m *Model) AddVariable(v *model.Variable) {
	m.Variables[v.Name] = v
	if m.CurrentScope != globalScope {
		m.Variables[m.CurrentScope+"."+v.Name] = v
	}
}

// GetVariable resolves name against the current scope first, then falls
// back to the bare (global) entry.
func (m *Model) GetVariable(name string) *model.Variable {
	name = strings.ToUpper(name)
	if m.CurrentScope != globalScope {
		if v, ok := m.Variables[m.CurrentScope+"."+name]; ok {
			return v
		}
	}
	return m.Variables[name]
}

func (m *Model) AddTable(t *model.Table)          { m.Tables[t.Name] = t }
func (m *Model) GetTable(name string) *model.Table { return m.Tables[strings.ToUpper(name)] }

func (m *Model) AddProcedure(p *model.Procedure)          { m.Procedures[p.Name] = p }
func (m *Model) GetProcedure(name string) *model.Procedure { return m.Procedures[strings.ToUpper(name)] }

func (m *Model) AddFunction(f *model.Function)          { m.Functions[f.Name] = f }
func (m *Model) GetFunction(name string) *model.Function { return m.Functions[strings.ToUpper(name)] }

func (m *Model) AddType(t *model.Type)          { m.Types[t.Name] = t }
func (m *Model) GetType(name string) *model.Type { return m.Types[strings.ToUpper(name)] }

// AllSymbols returns every declared name suitable for completion: the
// union of variables, tables, procedures, functions and types, with
// scope-qualified ("SCOPE.NAME") keys filtered out and duplicates removed.
func (m *Model) AllSymbols() []string {
	seen := make(map[string]bool)
	var out []string

	add := func(name string) {
		if strings.Contains(name, ".") {
			return
		}
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}

	for name := range m.Variables {
		add(name)
	}
	for name := range m.Tables {
		add(name)
	}
	for name := range m.Procedures {
		add(name)
	}
	for name := range m.Functions {
		add(name)
	}
	for name := range m.Types {
		add(name)
	}

	return out
}
