// Package model defines the CMS-2 declaration entities that make up the
// semantic picture of a parsed document: variables, tables, fields,
// procedures, functions, types, and the System Data / System Procedure
// blocks that own them.
package model

// Mode is the CMS-2 term for a declared entity's data type.
type Mode int

const (
	ModeUnknown Mode = iota
	ModeInteger
	ModeFixed
	ModeFloat
	ModeBoolean
	ModeChar
	ModeStatus
	ModeUniversal
	ModeTable
)

// String renders the mode the way it appears in hover text and detail strings.
func (m Mode) String() string {
	switch m {
	case ModeInteger:
		return "INTEGER"
	case ModeFixed:
		return "FIXED"
	case ModeFloat:
		return "FLOAT"
	case ModeBoolean:
		return "BOOLEAN"
	case ModeChar:
		return "CHAR"
	case ModeStatus:
		return "STATUS"
	case ModeUniversal:
		return "UNIVERSAL"
	case ModeTable:
		return "TABLE"
	default:
		return "UNKNOWN"
	}
}

// Modifier is a CMS-2 linkage modifier: EXTDEF, EXTREF, LOCREF, TRANSREF.
type Modifier string

const (
	ModNone     Modifier = ""
	ModExtDef   Modifier = "EXTDEF"
	ModExtRef   Modifier = "EXTREF"
	ModLocRef   Modifier = "LOCREF"
	ModTransRef Modifier = "TRANSREF"
)

// Variable is a CMS-2 VRBL declaration.
type Variable struct {
	Name         string
	Mode         Mode
	Bits         int  // set for INTEGER/FIXED
	Signed       bool // S = true, U = false
	FracBits     int  // set for FIXED
	CharLength   int  // set for CHAR
	StatusValues []string
	PresetValue  string
	HasPreset    bool
	Modifier     Modifier
	LineNumber   int
	ColumnStart  int
	ColumnEnd    int
	ParentBlock  string
}

// Field is a CMS-2 FIELD declaration nested inside a TABLE.
// Fields are owned by their table; ParentTable is a non-owning back-reference.
type Field struct {
	Name         string
	Mode         Mode
	Bits         int
	Signed       bool
	FracBits     int
	CharLength   int
	StartWord    int
	StartBit     int
	HasPosition  bool // true if StartWord/StartBit were given (user-packed placement)
	PresetValues []string
	LineNumber   int
	ParentTable  string
}

// TableKind distinguishes vertical from horizontal CMS-2 tables.
type TableKind string

const (
	TableVertical   TableKind = "V"
	TableHorizontal TableKind = "H"
)

// Packing is the field-layout policy of a TABLE or TYPE block.
type Packing string

const (
	PackNone   Packing = "NONE"
	PackMedium Packing = "MEDIUM"
	PackDense  Packing = "DENSE"
)

// Table is a CMS-2 TABLE declaration, with its FIELD children in insertion order.
type Table struct {
	Name        string
	TableType   TableKind
	Packing     Packing
	ItemCount   int
	HasCount    bool
	TypeSpec    string
	HasTypeSpec bool
	IsIndirect  bool
	MajorIndex  string
	Modifier    Modifier
	Fields      map[string]*Field
	FieldOrder  []string
	LineStart   int
	LineEnd     int
}

// AddField inserts or overwrites a field, preserving first-seen insertion order.
func (t *Table) AddField(f *Field) {
	if t.Fields == nil {
		t.Fields = make(map[string]*Field)
	}
	if _, exists := t.Fields[f.Name]; !exists {
		t.FieldOrder = append(t.FieldOrder, f.Name)
	}
	t.Fields[f.Name] = f
}

// Procedure is a CMS-2 PROCEDURE or EXEC-PROC declaration.
type Procedure struct {
	Name         string
	IsExec       bool
	InputParams  []string
	OutputParams []string
	ExitParams   []string
	Modifier     Modifier
	LocalVars    map[string]*Variable
	LineStart    int
	LineEnd      int
}

// Function is a CMS-2 FUNCTION declaration.
type Function struct {
	Name        string
	InputParams []string
	ReturnType  string
	Modifier    Modifier
	LocalVars   map[string]*Variable
	LineStart   int
	LineEnd     int
}

// Type is a CMS-2 TYPE declaration: either a status (enumeration) type
// with no open block, or a structured type opened/closed by END-TYPE.
type Type struct {
	Name         string
	BaseType     string
	Packing      Packing
	StatusValues []string
	Fields       map[string]*Field
	FieldOrder   []string
	LineStart    int
	LineEnd      int
}

// SysDataBlock is a CMS-2 SYS-DD block: a top-level container for
// variables, tables, and types declared between SYS-DD and END-SYS-DD.
type SysDataBlock struct {
	Name      string
	Variables map[string]*Variable
	Tables    map[string]*Table
	Types     map[string]*Type
	LineStart int
	LineEnd   int
}

// SysProcBlock is a CMS-2 SYS-PROC (or SYS-PROC-REN) block: a top-level
// container for procedures, functions, and local data.
type SysProcBlock struct {
	Name        string
	IsReentrant bool
	Procedures  map[string]*Procedure
	Functions   map[string]*Function
	LocalData   map[string]*Variable
	LineStart   int
	LineEnd     int
}

// LocalDataBlock records a LOC-DD/AUTO-DD scope region for outline purposes.
// It owns no entity registry of its own; declarations inside it are still
// indexed under the enclosing SYS-PROC/global registries.
type LocalDataBlock struct {
	Kind      string // "LOC-DD" or "AUTO-DD"
	LineStart int
	LineEnd   int
}
