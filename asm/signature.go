package asm

// OperandType is the shape of one operand slot.
type OperandType int

const (
	OPERAND_NONE      = OperandType(0)
	OPERAND_IMMEDIATE = OperandType(1)
	OPERAND_DIRECT    = OperandType(2)
)

// Signature packs a mnemonic and its operand shapes into the 32-bit key used
// by the encoding table. The ASCII codes of the up-to-three mnemonic
// characters occupy the high three bytes, zero padded for short mnemonics,
// and the low byte holds the two operand types, four bits each.
//
// ADD A, X is therefore 0x41444421: 'A' 'D' 'D', then direct (2) and
// immediate (1) packed into the low byte.
type Signature uint32

// MakeSignature builds the Signature for a mnemonic and operand type pair.
// The mnemonic must already be upper case.
func MakeSignature(mnemonic string, op1, op2 OperandType) (sig Signature, err error) {
	if len(mnemonic) > 3 {
		err = ErrMnemonicInvalid(mnemonic)
		return
	}

	for n := 0; n < len(mnemonic); n++ {
		sig |= Signature(mnemonic[n]) << (8 * (3 - n))
	}
	sig |= Signature(op1&0xf) << 4
	sig |= Signature(op2 & 0xf)

	return
}

// jumpSet holds the jump and branch mnemonics. Each takes a single immediate
// operand that may be written as a label.
var jumpSet = map[string]bool{
	"JMP": true,
	"JSR": true,
	"BR":  true,
	"BRZ": true,
	"BRN": true,
}

// IsJump reports whether a mnemonic is a jump or branch.
func IsJump(mnemonic string) bool {
	return jumpSet[mnemonic]
}

// upper folds an ASCII letter to upper case.
func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	return c
}

// hexVal returns the value of an upper-case hexadecimal digit.
func hexVal(c byte) (val byte, ok bool) {
	switch {
	case c >= '0' && c <= '9':
		val = c - '0'
	case c >= 'A' && c <= 'F':
		val = c - 'A' + 10
	default:
		return
	}
	ok = true
	return
}

// parseHexByte accumulates hexadecimal digits into a byte, high nibble
// first, folding case and skipping blanks. Over-long values wrap in the
// 8-bit domain.
func parseHexByte(text string) (val byte, ok bool) {
	for n := 0; n < len(text); n++ {
		c := upper(text[n])
		if c == ' ' {
			continue
		}
		digit, valid := hexVal(c)
		if !valid {
			return 0, false
		}
		val = val<<4 | digit
		ok = true
	}
	return
}

// hexLiteral is parseHexByte without blank skipping, for operand tokens that
// must be hexadecimal end to end.
func hexLiteral(text string) (val byte, ok bool) {
	for n := 0; n < len(text); n++ {
		digit, valid := hexVal(upper(text[n]))
		if !valid {
			return 0, false
		}
		val = val<<4 | digit
		ok = true
	}
	return
}
