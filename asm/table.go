package asm

import (
	"bufio"
	"io"
	"strings"
)

// Table maps instruction signatures to addresses in the microcode store.
type Table map[Signature]byte

// DefaultTable returns the built-in encoding table entries.
func DefaultTable() Table {
	return Table{
		0x484C5400: 0x03, // HLT
		0x4D4F5621: 0x04, // MOV A, X
		0x41444421: 0x0B, // ADD A, X
		0x4A4D5010: 0x50, // JMP X
		0x42520010: 0x80, // BR X
	}
}

// Load reads mapping entries of the form "MNEMONIC OPERANDS : MPC" and
// inserts them into the table, overwriting existing entries. Operand letters
// A and B stand for direct addresses, X for an immediate. Blank lines and
// '#' comments are skipped. The first invalid entry aborts the load.
func (tbl Table) Load(input io.Reader) (err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	for scanner.Scan() {
		line = strings.TrimSpace(scanner.Text())
		lineno++

		if line == "" || line[0] == '#' {
			continue
		}

		instr, mpcText, found := strings.Cut(strings.Join(strings.Fields(line), " "), ":")
		if !found {
			err = ErrTableSyntax
			return
		}

		mnemonic, letters, _ := strings.Cut(strings.TrimSpace(instr), " ")
		mnemonic = strings.ToUpper(mnemonic)

		var optype [2]OperandType
		var text [2]bool
		cur := 0
		for n := 0; n < len(letters); n++ {
			switch c := upper(letters[n]); c {
			case ' ':
			case ',':
				if cur >= 1 || !text[0] {
					err = ErrOperandComma
					return
				}
				cur = 1
			case 'A', 'B':
				optype[cur] = OPERAND_DIRECT
				text[cur] = true
			case 'X':
				optype[cur] = OPERAND_IMMEDIATE
				text[cur] = true
			default:
				err = ErrOperandLetter(string(letters[n]))
				return
			}
		}

		var sig Signature
		sig, err = MakeSignature(mnemonic, optype[0], optype[1])
		if err != nil {
			return
		}

		mpc, ok := parseHexByte(mpcText)
		if !ok {
			err = ErrHexDigit(strings.TrimSpace(mpcText))
			return
		}

		tbl[sig] = mpc
	}

	return
}
