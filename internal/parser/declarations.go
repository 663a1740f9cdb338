package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cwbudde/go-cms2ls/internal/model"
)

var (
	sysDDStartRe   = regexp.MustCompile(`(?i)^([A-Z][A-Z0-9_]*)\s+SYS-DD`)
	sysProcStartRe = regexp.MustCompile(`(?i)^([A-Z][A-Z0-9_]*)\s+SYS-PROC`)

	vrblMultiRe  = regexp.MustCompile(`(?i)^VRBL\s*\(([^)]+)\)\s+(.+)`)
	vrblSingleRe = regexp.MustCompile(`(?i)^VRBL\s+([A-Z][A-Z0-9_]*)\s+(.+)`)

	intTypeRe    = regexp.MustCompile(`(?i)^I\s+(\d+)\s+(S|U)`)
	fixedTypeRe  = regexp.MustCompile(`(?i)^A\s+(\d+)\s+(S|U)\s+(\d+)`)
	floatTypeRe  = regexp.MustCompile(`(?i)^F(\s*\([TRSD]\))?`)
	charTypeRe   = regexp.MustCompile(`(?i)^[HC]\s*(\d+)`)
	statusValRe  = regexp.MustCompile(`(?i)'([A-Z][A-Z0-9]*)'`)
	presetRe     = regexp.MustCompile(`(?i)\bP\s+(\S+)`)

	tableDeclRe = regexp.MustCompile(
		`(?i)^TABLE\s+([A-Z][A-Z0-9_]*)\s+([VH])\s*(NONE|MEDIUM|DENSE)?\s*(?:\(([^)]+)\))?\s*(?:INDIRECT\s+)?(\d+|[A-Z][A-Z0-9_]*)?`)
	majorIndexRe = regexp.MustCompile(`(?i)\bMJ\s+([A-Z][A-Z0-9]*)`)

	fieldDeclRe = regexp.MustCompile(
		`(?i)^FIELD\s+([A-Z][A-Z0-9_]*)\s+([IAFBHC])\s*(\d+)?\s*(S|U)?\s*(\d+)?\s*(?:(\d+)\s+(\d+))?\s*(?:P\s+(.+))?`)

	typeStatusRe     = regexp.MustCompile(`(?i)^TYPE\s+([A-Z][A-Z0-9_]*)\s+(.+)`)
	typeStructuredRe = regexp.MustCompile(`(?i)^TYPE\s+([A-Z][A-Z0-9_]*)\s*(NONE|MEDIUM|DENSE)?`)

	procedureDeclRe = regexp.MustCompile(
		`(?is)^PROCEDURE\s+([A-Z][A-Z0-9_]*)\s*(?:INPUT\s+(.*?))?(?:\s+OUTPUT\s+(.*?))?(?:\s+EXIT\s+(.*))?$`)
	execProcDeclRe = regexp.MustCompile(`(?i)^EXEC-PROC\s+([A-Z][A-Z0-9_]*)\s*(?:INPUT\s+(.*))?$`)
	functionDeclRe = regexp.MustCompile(`(?i)^FUNCTION\s+([A-Z][A-Z0-9_]*)\s*\(([^)]*)\)\s*(.+)?`)
)

var linkageModifiers = []string{"(EXTDEF)", "(EXTREF)", "(LOCREF)", "(TRANSREF)"}

// stripModifier removes a leading linkage modifier like "(EXTDEF)" from
// stmt, returning the remaining text and the modifier found (if any).
// allowed restricts which modifiers are recognized for this statement kind
// (EXEC-PROC, for instance, only accepts EXTDEF/EXTREF).
func stripModifier(stmt string, allowed []string) (string, model.Modifier) {
	upper := strings.ToUpper(stmt)
	for _, mod := range allowed {
		if strings.HasPrefix(upper, mod) {
			name := mod[1 : len(mod)-1]
			return strings.TrimSpace(stmt[len(mod):]), model.Modifier(name)
		}
	}
	return stmt, model.ModNone
}

func splitParams(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (p *Parser) parseSysDDStart(statement string, line int) {
	m := sysDDStartRe.FindStringSubmatch(strings.TrimSpace(statement))
	if m == nil {
		return
	}
	name := strings.ToUpper(m[1])
	p.model.SysDataBlocks[name] = &model.SysDataBlock{
		Name:      name,
		Variables: make(map[string]*model.Variable),
		Tables:    make(map[string]*model.Table),
		Types:     make(map[string]*model.Type),
		LineStart: line,
	}
	p.currentSysDD = name
	p.inSysDD = true
	p.model.CurrentScope = name
}

func (p *Parser) parseSysProcStart(statement, upper string, line int) {
	isReentrant := strings.Contains(upper, "SYS-PROC-REN")
	m := sysProcStartRe.FindStringSubmatch(strings.TrimSpace(statement))
	if m == nil {
		return
	}
	name := strings.ToUpper(m[1])
	p.model.SysProcBlocks[name] = &model.SysProcBlock{
		Name:        name,
		IsReentrant: isReentrant,
		Procedures:  make(map[string]*model.Procedure),
		Functions:   make(map[string]*model.Function),
		LocalData:   make(map[string]*model.Variable),
		LineStart:   line,
	}
	p.currentSysProc = name
	p.inSysProc = true
	p.model.CurrentScope = name
}

func (p *Parser) parseVrblDeclaration(statement string, line int) {
	stmt, modifier := stripModifier(strings.TrimSpace(statement), linkageModifiers)

	if m := vrblMultiRe.FindStringSubmatch(stmt); m != nil {
		typeSpec := strings.TrimSpace(m[2])
		for _, name := range strings.Split(m[1], ",") {
			p.createVariable(strings.ToUpper(strings.TrimSpace(name)), typeSpec, modifier, line)
		}
		return
	}

	if m := vrblSingleRe.FindStringSubmatch(stmt); m != nil {
		p.createVariable(strings.ToUpper(m[1]), strings.TrimSpace(m[2]), modifier, line)
		return
	}

	p.warn("malformed VRBL declaration: "+stmt, line)
}

func (p *Parser) createVariable(name, typeSpec string, modifier model.Modifier, line int) {
	v := &model.Variable{
		Name:        name,
		Mode:        model.ModeUnknown,
		Signed:      true,
		Modifier:    modifier,
		LineNumber:  line,
		ParentBlock: firstNonEmpty(p.currentSysDD, p.currentSysProc),
	}

	typeUpper := strings.ToUpper(strings.TrimSpace(typeSpec))

	var isInt, isFixed bool
	if m := intTypeRe.FindStringSubmatch(typeUpper); m != nil {
		isInt = true
		v.Mode = model.ModeInteger
		v.Bits, _ = strconv.Atoi(m[1])
		v.Signed = m[2] == "S"
	}
	if m := fixedTypeRe.FindStringSubmatch(typeUpper); m != nil {
		isFixed = true
		v.Mode = model.ModeFixed
		v.Bits, _ = strconv.Atoi(m[1])
		v.Signed = m[2] == "S"
		v.FracBits, _ = strconv.Atoi(m[3])
	}
	if floatTypeRe.MatchString(typeUpper) && !isInt && !isFixed {
		v.Mode = model.ModeFloat
	}
	if strings.HasPrefix(typeUpper, "B") && !strings.HasPrefix(typeUpper, "BY") {
		v.Mode = model.ModeBoolean
	}
	if m := charTypeRe.FindStringSubmatch(typeUpper); m != nil {
		v.Mode = model.ModeChar
		v.CharLength, _ = strconv.Atoi(m[1])
	}
	if strings.Contains(typeSpec, "'") {
		if vals := statusValRe.FindAllStringSubmatch(typeSpec, -1); vals != nil {
			for _, vm := range vals {
				v.StatusValues = append(v.StatusValues, strings.ToUpper(vm[1]))
			}
			v.Mode = model.ModeStatus
		}
	}
	if m := presetRe.FindStringSubmatch(typeSpec); m != nil {
		v.HasPreset = true
		v.PresetValue = m[1]
	}

	p.model.AddVariable(v)

	if p.currentSysDD != "" {
		if block, ok := p.model.SysDataBlocks[p.currentSysDD]; ok {
			block.Variables[name] = v
		}
	}
	if p.currentSysProc != "" {
		if block, ok := p.model.SysProcBlocks[p.currentSysProc]; ok {
			block.LocalData[name] = v
		}
	}
	if p.currentProc != "" {
		if proc, ok := p.model.Procedures[p.currentProc]; ok {
			if proc.LocalVars == nil {
				proc.LocalVars = make(map[string]*model.Variable)
			}
			proc.LocalVars[name] = v
		}
	}
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func (p *Parser) parseTableDeclaration(statement string, line int) {
	stmt := strings.TrimSpace(statement)
	m := tableDeclRe.FindStringSubmatch(stmt)
	if m == nil {
		p.warn("malformed TABLE declaration: "+stmt, line)
		return
	}

	name := strings.ToUpper(m[1])
	tableType := model.TableVertical
	if strings.EqualFold(m[2], "H") {
		tableType = model.TableHorizontal
	}
	packing := model.PackNone
	if m[3] != "" {
		packing = model.Packing(strings.ToUpper(m[3]))
	}
	typeSpec := m[4]
	countStr := m[5]

	var itemCount int
	hasCount := false
	if countStr != "" && isAllDigits(countStr) {
		itemCount, _ = strconv.Atoi(countStr)
		hasCount = true
	}

	isIndirect := strings.Contains(strings.ToUpper(stmt), "INDIRECT")

	var majorIndex string
	if mj := majorIndexRe.FindStringSubmatch(stmt); mj != nil {
		majorIndex = strings.ToUpper(mj[1])
	}

	t := &model.Table{
		Name:        name,
		TableType:   tableType,
		Packing:     packing,
		ItemCount:   itemCount,
		HasCount:    hasCount,
		TypeSpec:    typeSpec,
		HasTypeSpec: typeSpec != "",
		IsIndirect:  isIndirect,
		MajorIndex:  majorIndex,
		Fields:      make(map[string]*model.Field),
		LineStart:   line,
	}

	p.model.AddTable(t)
	p.currentTable = name
	p.inTableBlock = true

	if p.currentSysDD != "" {
		if block, ok := p.model.SysDataBlocks[p.currentSysDD]; ok {
			block.Tables[name] = t
		}
	}
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

var fieldTypeMap = map[string]model.Mode{
	"I": model.ModeInteger,
	"A": model.ModeFixed,
	"F": model.ModeFloat,
	"B": model.ModeBoolean,
	"H": model.ModeChar,
	"C": model.ModeChar,
}

func (p *Parser) parseFieldDeclaration(statement string, line int) {
	if p.currentTable == "" {
		p.warn("FIELD declared outside any TABLE block", line)
		return
	}
	m := fieldDeclRe.FindStringSubmatch(strings.TrimSpace(statement))
	if m == nil {
		p.warn("malformed FIELD declaration: "+strings.TrimSpace(statement), line)
		return
	}

	name := strings.ToUpper(m[1])
	typeChar := strings.ToUpper(m[2])
	bits, _ := strconv.Atoi(m[3])
	signed := m[4] != "U"
	fracBits, _ := strconv.Atoi(m[5])
	startWord, hasWord := atoiOK(m[6])
	startBit, hasBit := atoiOK(m[7])
	preset := m[8]

	f := &model.Field{
		Name:        name,
		Mode:        fieldTypeMap[typeChar],
		Bits:        bits,
		Signed:      signed,
		FracBits:    fracBits,
		HasPosition: hasWord && hasBit,
		StartWord:   startWord,
		StartBit:    startBit,
		LineNumber:  line,
		ParentTable: p.currentTable,
	}
	if typeChar == "H" || typeChar == "C" {
		f.CharLength = bits
	}
	if preset != "" {
		f.PresetValues = []string{preset}
	}

	if t, ok := p.model.Tables[p.currentTable]; ok {
		t.AddField(f)
	}
}

func atoiOK(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}

func (p *Parser) parseTypeDeclaration(statement string, line int) {
	stmt := strings.TrimSpace(statement)

	if strings.Contains(stmt, "'") {
		m := typeStatusRe.FindStringSubmatch(stmt)
		if m == nil {
			return
		}
		name := strings.ToUpper(m[1])
		var values []string
		for _, vm := range statusValRe.FindAllStringSubmatch(m[2], -1) {
			values = append(values, strings.ToUpper(vm[1]))
		}
		t := &model.Type{Name: name, StatusValues: values, LineStart: line}
		p.model.AddType(t)
		if p.currentSysDD != "" {
			if block, ok := p.model.SysDataBlocks[p.currentSysDD]; ok {
				block.Types[name] = t
			}
		}
		return
	}

	m := typeStructuredRe.FindStringSubmatch(stmt)
	if m == nil {
		return
	}
	name := strings.ToUpper(m[1])
	packing := model.PackNone
	if m[2] != "" {
		packing = model.Packing(strings.ToUpper(m[2]))
	}
	t := &model.Type{Name: name, Packing: packing, Fields: make(map[string]*model.Field), LineStart: line}
	p.model.AddType(t)
	if p.currentSysDD != "" {
		if block, ok := p.model.SysDataBlocks[p.currentSysDD]; ok {
			block.Types[name] = t
		}
	}
	p.currentType = name
	p.inTypeBlock = true
}

func (p *Parser) parseProcedureDeclaration(statement string, line int) {
	stmt, modifier := stripModifier(strings.TrimSpace(statement), linkageModifiers)

	m := procedureDeclRe.FindStringSubmatch(stmt)
	if m == nil {
		return
	}

	name := strings.ToUpper(m[1])
	proc := &model.Procedure{
		Name:         name,
		InputParams:  splitParams(m[2]),
		OutputParams: splitParams(m[3]),
		ExitParams:   splitParams(m[4]),
		Modifier:     modifier,
		LineStart:    line,
	}

	p.model.AddProcedure(proc)
	p.currentProc = name
	p.inProcedure = true

	if p.currentSysProc != "" {
		if block, ok := p.model.SysProcBlocks[p.currentSysProc]; ok {
			block.Procedures[name] = proc
		}
	}
}

var execProcModifiers = []string{"(EXTDEF)", "(EXTREF)"}

func (p *Parser) parseExecProcDeclaration(statement string, line int) {
	stmt, modifier := stripModifier(strings.TrimSpace(statement), execProcModifiers)

	m := execProcDeclRe.FindStringSubmatch(stmt)
	if m == nil {
		return
	}

	name := strings.ToUpper(m[1])
	proc := &model.Procedure{
		Name:        name,
		IsExec:      true,
		InputParams: splitParams(m[2]),
		Modifier:    modifier,
		LineStart:   line,
	}

	p.model.AddProcedure(proc)
	p.currentProc = name
	p.inProcedure = true

	if p.currentSysProc != "" {
		if block, ok := p.model.SysProcBlocks[p.currentSysProc]; ok {
			block.Procedures[name] = proc
		}
	}
}

func (p *Parser) parseFunctionDeclaration(statement string, line int) {
	stmt, modifier := stripModifier(strings.TrimSpace(statement), linkageModifiers)

	m := functionDeclRe.FindStringSubmatch(stmt)
	if m == nil {
		return
	}

	name := strings.ToUpper(m[1])
	var returnType string
	if m[3] != "" {
		returnType = strings.TrimSpace(m[3])
	}

	fn := &model.Function{
		Name:        name,
		InputParams: splitParams(m[2]),
		ReturnType:  returnType,
		Modifier:    modifier,
		LineStart:   line,
	}

	p.model.AddFunction(fn)
	p.currentFunc = name
	p.inFunction = true

	if p.currentSysProc != "" {
		if block, ok := p.model.SysProcBlocks[p.currentSysProc]; ok {
			block.Functions[name] = fn
		}
	}
}
