package asm

import (
	"errors"

	"github.com/mstore/mpcasm/translate"
)

var f = translate.From

var (
	// Classifier errors
	ErrOperandComma    = errors.New(f("comma before operand"))
	ErrDirectiveSyntax = errors.New(f("directive assignment syntax"))
	ErrAddressSpace    = errors.New(f("address space exhausted"))

	// Mapping table errors
	ErrTableSyntax = errors.New(f("mapping entry syntax"))
)

// ErrSyntax locates an error at a source or mapping table line.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrMnemonicInvalid string

func (err ErrMnemonicInvalid) Error() string {
	return f("mnemonic '%v' too long", string(err))
}

type ErrDirectiveUnknown string

func (err ErrDirectiveUnknown) Error() string {
	return f("directive '%v' unknown", string(err))
}

type ErrHexDigit string

func (err ErrHexDigit) Error() string {
	return f("'%v' is not a hexadecimal value", string(err))
}

type ErrOperandCharacter string

func (err ErrOperandCharacter) Error() string {
	return f("'%v' is not valid in an operand", string(err))
}

type ErrOperandLetter string

func (err ErrOperandLetter) Error() string {
	return f("operand letter '%v' is not A, B, or X", string(err))
}

type ErrOperandUnresolvable string

func (err ErrOperandUnresolvable) Error() string {
	return f("'%v' is neither a label nor an immediate address", string(err))
}

type ErrExpression string

func (err ErrExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrInstructionUnmapped Signature

func (err ErrInstructionUnmapped) Error() string {
	return f("no microcode address for signature 0x%08x", uint32(err))
}
