package asm

import (
	"fmt"
	"regexp"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// StatementKind classifies one source line.
type StatementKind int

const (
	STMT_BLANK       = StatementKind(0)
	STMT_DIRECTIVE   = StatementKind(1)
	STMT_LABEL       = StatementKind(2)
	STMT_INSTRUCTION = StatementKind(3)
)

// Operand is one decoded operand slot.
type Operand struct {
	Type  OperandType
	Value byte   // literal value, nibble-accumulated
	Token string // raw text, kept for label resolution on jumps
	IsHex bool   // Token is a valid hexadecimal literal
}

// Statement is the classified form of one source line. A statement carries
// no addresses of its own; both passes derive those from the running address
// counter, which a statement advances by exactly Size bytes.
type Statement struct {
	Kind     StatementKind
	LineNo   int
	Raw      string
	Mnemonic string
	Name     string // label or directive name
	Value    byte   // directive value
	Operands [2]Operand
	NumOps   int
}

// Size returns the number of bytes the statement occupies: one for the
// opcode plus one per operand. Only instructions occupy space.
func (st *Statement) Size() int {
	if st.Kind != STMT_INSTRUCTION {
		return 0
	}
	return 1 + st.NumOps
}

var exprRe = regexp.MustCompile(`\$\([^)]*\)`)

// expand substitutes compile-time $( ... ) expressions with two-digit hex
// literals. Directive values are predeclared as integers, so a source line
// may compute against base_addr and friends. Results are truncated to the
// 8-bit domain.
func (asm *Assembler) expand(line string) (out string, err error) {
	if !strings.Contains(line, "$(") {
		return line, nil
	}

	out = exprRe.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
			return str
		}
		return fmt.Sprintf("%02X", value)
	})

	return
}

// parenEval evaluates one $() expression with Starlark.
func (asm *Assembler) parenEval(expr string) (value byte, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for name, val := range asm.Directives {
		pred[name] = starlark.MakeInt(int(val))
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	rc, ok := dict["rc"]
	if !ok {
		err = ErrExpression(expr)
		return
	}
	rcInt, ok := rc.(starlark.Int)
	if !ok {
		err = ErrExpression(expr)
		return
	}
	rc64, ok := rcInt.Int64()
	if !ok {
		err = ErrExpression(expr)
		return
	}
	value = byte(rc64)
	return
}

// classify parses one source line into a Statement. Classification is pure
// with respect to the run state; label and directive effects are applied by
// the pass drivers, so both passes classify every line identically and the
// address trajectories stay in lockstep.
func (asm *Assembler) classify(text string, lineno int) (st Statement, err error) {
	st.LineNo = lineno
	st.Raw = strings.TrimSpace(text)

	line := st.Raw
	if comment := strings.IndexByte(line, '#'); comment >= 0 {
		line = strings.TrimSpace(line[:comment])
	}
	line = strings.Join(strings.Fields(line), " ")
	if line == "" {
		st.Kind = STMT_BLANK
		return
	}

	line, err = asm.expand(line)
	if err != nil {
		return
	}

	if line[0] == '@' {
		return asm.classifyDirective(line, st)
	}

	if colon := strings.LastIndexByte(line, ':'); colon >= 0 {
		st.Kind = STMT_LABEL
		st.Name = line[:colon]
		return
	}

	return asm.classifyInstruction(line, st)
}

// classifyDirective parses an "@name=value" line.
func (asm *Assembler) classifyDirective(line string, st Statement) (Statement, error) {
	name, value, found := strings.Cut(line[1:], "=")
	if !found {
		return st, ErrDirectiveSyntax
	}
	name = strings.TrimSpace(name)
	value = strings.TrimSpace(value)

	if _, known := asm.Directives[name]; !known {
		return st, ErrDirectiveUnknown(name)
	}

	val, ok := parseHexByte(value)
	if !ok {
		return st, ErrHexDigit(value)
	}

	st.Kind = STMT_DIRECTIVE
	st.Name = name
	st.Value = val
	return st, nil
}

// classifyInstruction parses a mnemonic and its operand list. Jump and
// branch operands are kept as raw tokens; their hexadecimal reading is
// computed alongside since the grammar stays ambiguous until the resolver
// consults the label table.
func (asm *Assembler) classifyInstruction(line string, st Statement) (Statement, error) {
	st.Kind = STMT_INSTRUCTION

	mnemonic, rest, _ := strings.Cut(line, " ")
	st.Mnemonic = strings.ToUpper(mnemonic)
	if len(st.Mnemonic) > 3 {
		return st, ErrMnemonicInvalid(st.Mnemonic)
	}

	if IsJump(st.Mnemonic) {
		if rest == "" {
			return st, nil
		}
		op := &st.Operands[0]
		op.Type = OPERAND_IMMEDIATE
		op.Token = rest
		op.Value, op.IsHex = hexLiteral(rest)
		st.NumOps = 1
		return st, nil
	}

	var text [2]bool
	cur := 0
	for n := 0; n < len(rest); n++ {
		c := upper(rest[n])
		switch {
		case c == ' ':
		case c == '$':
			st.Operands[cur].Type = OPERAND_DIRECT
			text[cur] = true
		case c == ',':
			if cur >= 1 || !text[0] {
				return st, ErrOperandComma
			}
			cur = 1
		default:
			digit, ok := hexVal(c)
			if !ok {
				return st, ErrOperandCharacter(string(rest[n]))
			}
			op := &st.Operands[cur]
			op.Value = op.Value<<4 | digit
			if op.Type == OPERAND_NONE {
				op.Type = OPERAND_IMMEDIATE
			}
			text[cur] = true
		}
	}

	switch {
	case st.Operands[1].Type != OPERAND_NONE:
		st.NumOps = 2
	case st.Operands[0].Type != OPERAND_NONE:
		st.NumOps = 1
	}

	return st, nil
}
