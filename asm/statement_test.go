package asm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyBlank(t *testing.T) {
	assert := assert.New(t)

	as := NewAssembler()
	for _, line := range []string{"", "   ", "# a comment", "\t# indented comment"} {
		st, err := as.classify(line, 1)
		assert.NoError(err)
		assert.Equal(STMT_BLANK, st.Kind, "%q", line)
		assert.Equal(0, st.Size())
	}
}

func TestClassifyDirective(t *testing.T) {
	assert := assert.New(t)

	as := NewAssembler()

	st, err := as.classify("@base_addr=1F", 1)
	assert.NoError(err)
	assert.Equal(STMT_DIRECTIVE, st.Kind)
	assert.Equal("base_addr", st.Name)
	assert.Equal(byte(0x1F), st.Value)

	st, err = as.classify("@base_addr = 1f # relocate", 2)
	assert.NoError(err)
	assert.Equal(byte(0x1F), st.Value)
	assert.Equal(0, st.Size())
}

func TestClassifyLabel(t *testing.T) {
	assert := assert.New(t)

	as := NewAssembler()

	st, err := as.classify("loop:", 1)
	assert.NoError(err)
	assert.Equal(STMT_LABEL, st.Kind)
	assert.Equal("loop", st.Name)
	assert.Equal(0, st.Size())
}

func TestClassifyInstruction(t *testing.T) {
	assert := assert.New(t)

	as := NewAssembler()

	st, err := as.classify("HLT", 1)
	assert.NoError(err)
	assert.Equal(STMT_INSTRUCTION, st.Kind)
	assert.Equal("HLT", st.Mnemonic)
	assert.Equal(0, st.NumOps)
	assert.Equal(1, st.Size())

	st, err = as.classify("MOV $04, 3", 2)
	assert.NoError(err)
	assert.Equal("MOV", st.Mnemonic)
	assert.Equal(2, st.NumOps)
	assert.Equal(3, st.Size())
	assert.Equal(OPERAND_DIRECT, st.Operands[0].Type)
	assert.Equal(byte(0x04), st.Operands[0].Value)
	assert.Equal(OPERAND_IMMEDIATE, st.Operands[1].Type)
	assert.Equal(byte(0x03), st.Operands[1].Value)

	// lower case folds to upper
	st, err = as.classify("mov $0a, ff", 3)
	assert.NoError(err)
	assert.Equal("MOV", st.Mnemonic)
	assert.Equal(byte(0x0A), st.Operands[0].Value)
	assert.Equal(byte(0xFF), st.Operands[1].Value)

	st, err = as.classify("ADD $04, 5 # increment", 4)
	assert.NoError(err)
	assert.Equal(2, st.NumOps)
	assert.Equal(byte(0x05), st.Operands[1].Value)
}

func TestClassifyJump(t *testing.T) {
	assert := assert.New(t)

	as := NewAssembler()

	st, err := as.classify("JMP loop", 1)
	assert.NoError(err)
	assert.Equal(1, st.NumOps)
	assert.Equal(2, st.Size())
	assert.Equal(OPERAND_IMMEDIATE, st.Operands[0].Type)
	assert.Equal("loop", st.Operands[0].Token)
	assert.False(st.Operands[0].IsHex)

	st, err = as.classify("BR 1F", 2)
	assert.NoError(err)
	assert.Equal("1F", st.Operands[0].Token)
	assert.True(st.Operands[0].IsHex)
	assert.Equal(byte(0x1F), st.Operands[0].Value)

	// a jump without its operand occupies a single byte and fails the
	// table lookup later
	st, err = as.classify("JSR", 3)
	assert.NoError(err)
	assert.Equal(0, st.NumOps)
	assert.Equal(1, st.Size())
}

func TestClassifyErr(t *testing.T) {
	assert := assert.New(t)

	as := NewAssembler()

	table := []struct {
		line string
		is   error
	}{
		{"MOV ,04", ErrOperandComma},
		{"MOV $04, 3, 5", ErrOperandComma},
		{"@base_addr", ErrDirectiveSyntax},
	}

	for _, entry := range table {
		_, err := as.classify(entry.line, 1)
		assert.Error(err, entry.line)
		assert.True(errors.Is(err, entry.is), entry.line)
	}

	_, err := as.classify("MOV $0G, 3", 1)
	var ec ErrOperandCharacter
	assert.True(errors.As(err, &ec))
	assert.Equal("G", string(ec))

	_, err = as.classify("HALT", 1)
	var em ErrMnemonicInvalid
	assert.True(errors.As(err, &em))

	_, err = as.classify("@stack_ptr=10", 1)
	var ed ErrDirectiveUnknown
	assert.True(errors.As(err, &ed))
	assert.Equal("stack_ptr", string(ed))

	_, err = as.classify("@base_addr=G1", 1)
	var eh ErrHexDigit
	assert.True(errors.As(err, &eh))
}
