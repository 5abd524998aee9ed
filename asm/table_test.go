package asm

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableDefaults(t *testing.T) {
	assert := assert.New(t)

	tbl := DefaultTable()
	assert.Equal(byte(0x03), tbl[0x484C5400]) // HLT
	assert.Equal(byte(0x04), tbl[0x4D4F5621]) // MOV A, X
	assert.Equal(byte(0x0B), tbl[0x41444421]) // ADD A, X
	assert.Equal(byte(0x50), tbl[0x4A4D5010]) // JMP X
	assert.Equal(byte(0x80), tbl[0x42520010]) // BR X
}

func TestTableLoad(t *testing.T) {
	assert := assert.New(t)

	entries := []string{
		"# microcode store layout",
		"",
		"SUB A, X : 0F",
		"jsr x : 58",
		"NOP : 01",
		"MOV A, B : 21",
	}

	tbl := DefaultTable()
	err := tbl.Load(strings.NewReader(strings.Join(entries, "\n")))
	assert.NoError(err)

	sig, _ := MakeSignature("SUB", OPERAND_DIRECT, OPERAND_IMMEDIATE)
	assert.Equal(byte(0x0F), tbl[sig])
	sig, _ = MakeSignature("JSR", OPERAND_IMMEDIATE, OPERAND_NONE)
	assert.Equal(byte(0x58), tbl[sig])
	sig, _ = MakeSignature("NOP", OPERAND_NONE, OPERAND_NONE)
	assert.Equal(byte(0x01), tbl[sig])
	sig, _ = MakeSignature("MOV", OPERAND_DIRECT, OPERAND_DIRECT)
	assert.Equal(byte(0x21), tbl[sig])
}

func TestTableOverride(t *testing.T) {
	assert := assert.New(t)

	tbl := DefaultTable()
	err := tbl.Load(strings.NewReader("JMP X : 60\n"))
	assert.NoError(err)
	assert.Equal(byte(0x60), tbl[0x4A4D5010])
}

func TestTableErrSyntax(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		conf string
		line int
		is   error
	}{
		{"JMP X 50", 1, ErrTableSyntax},
		{"SUB A, X : 0F\nbroken", 2, ErrTableSyntax},
		{"ADD A, Y : 0B", 1, nil},
		{"ADD ,A : 0B", 1, ErrOperandComma},
		{"ADD A, X, B : 0B", 1, ErrOperandComma},
		{"HALT : 03", 1, nil},
		{"ADD A, X : G0", 1, nil},
		{"ADD A, X :", 1, nil},
	}

	for _, entry := range table {
		tbl := DefaultTable()
		err := tbl.Load(strings.NewReader(entry.conf))
		assert.Error(err, entry.conf)

		var se *ErrSyntax
		if assert.True(errors.As(err, &se), entry.conf) {
			assert.Equal(entry.line, se.LineNo, entry.conf)
		}
		if entry.is != nil {
			assert.True(errors.Is(err, entry.is), entry.conf)
		}
	}
}
