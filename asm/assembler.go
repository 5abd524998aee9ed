// Copyright 2025, The mpcasm Authors

package asm

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strings"
)

// DefaultCarryAdjust compensates for the carry-propagation quirk of the
// target ALU when it adds a negative two's-complement branch offset. Set it
// to 1 on hardware that feeds the PSW carry out straight into the ALU carry
// in.
const DefaultCarryAdjust = 2

// addressSpace is the number of addressable locations in the target RAM.
const addressSpace = 0x100

// Assembler is a two-pass assembler producing microcode store addresses.
// One Assembler may run any number of times; each Assemble call resets the
// run state.
type Assembler struct {
	Verbose     bool      // If set, verbosely logs the assembler actions.
	CarryAdjust byte      // Backward-branch carry correction, normally DefaultCarryAdjust.
	Table       Table     // Signature to MPC address mapping.
	Trace       io.Writer // Per-byte listing sink. Nil disables the listing.

	Labels     map[string]byte // Map of labels to resolved addresses.
	Directives map[string]byte // Map of directive values.

	relocate bool
}

// NewAssembler returns an Assembler with the built-in encoding table and the
// default carry adjustment.
func NewAssembler() *Assembler {
	return &Assembler{
		CarryAdjust: DefaultCarryAdjust,
		Table:       DefaultTable(),
		Labels:      make(map[string]byte, 16),
		Directives:  map[string]byte{"base_addr": 0x00},
	}
}

// Assemble runs both passes over the source. Pass 1 binds labels and
// directives; Pass 2 resolves operands and emits bytes, streaming them to
// output as it goes. output may be nil, in which case only the returned
// Program holds the artifact. On error no Program is returned and whatever
// was streamed must be discarded by the caller.
func (asm *Assembler) Assemble(input io.Reader, output io.Writer) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if asm.Table == nil {
		asm.Table = DefaultTable()
	}
	asm.Labels = make(map[string]byte, 16)
	if asm.Directives == nil {
		asm.Directives = make(map[string]byte, 4)
	}
	clear(asm.Directives)
	asm.Directives["base_addr"] = 0x00
	asm.relocate = false

	err = asm.scan(lines)
	if err != nil {
		return
	}

	return asm.emit(lines, output)
}

// scan is Pass 1: label and address discovery. No bytes are emitted, but
// every statement advances the address counter exactly as Pass 2 will.
func (asm *Assembler) scan(lines []string) (err error) {
	caddr := 0

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	for n, text := range lines {
		lineno = n + 1
		line = strings.TrimSpace(text)

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, line)
		}

		var st Statement
		st, err = asm.classify(line, lineno)
		if err != nil {
			return
		}

		switch st.Kind {
		case STMT_DIRECTIVE:
			asm.Directives[st.Name] = st.Value
			if st.Name == "base_addr" {
				caddr += int(st.Value)
				asm.relocate = true
			}
		case STMT_LABEL:
			if caddr >= addressSpace {
				err = ErrAddressSpace
				return
			}
			asm.Labels[st.Name] = byte(caddr)
		case STMT_INSTRUCTION:
			// The signature must resolve here already: a shape the
			// microcode store cannot represent fails before any
			// output exists.
			var sig Signature
			sig, err = MakeSignature(st.Mnemonic, st.Operands[0].Type, st.Operands[1].Type)
			if err != nil {
				return
			}
			if _, ok := asm.Table[sig]; !ok {
				err = ErrInstructionUnmapped(sig)
				return
			}
			if caddr+st.Size() > addressSpace {
				err = ErrAddressSpace
				return
			}
			caddr += st.Size()
		}
	}

	return
}

// emit is Pass 2: the address counter restarts at the recorded base offset
// and every instruction line is re-classified, resolved, and written out.
func (asm *Assembler) emit(lines []string, output io.Writer) (prog *Program, err error) {
	base := asm.Directives["base_addr"]
	caddr := 0
	if asm.relocate {
		caddr = int(base)
	}

	prog = &Program{Base: base}

	var line string
	var lineno int

	defer func() {
		if err != nil {
			prog = nil
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	if asm.Trace != nil {
		fmt.Fprintf(asm.Trace, "Addr.\tByte\tInstr.\n")
	}

	for n, text := range lines {
		lineno = n + 1
		line = strings.TrimSpace(text)

		var st Statement
		st, err = asm.classify(line, lineno)
		if err != nil {
			return
		}
		if st.Kind != STMT_INSTRUCTION {
			continue
		}

		var sig Signature
		sig, err = MakeSignature(st.Mnemonic, st.Operands[0].Type, st.Operands[1].Type)
		if err != nil {
			return
		}
		mpc, ok := asm.Table[sig]
		if !ok {
			err = ErrInstructionUnmapped(sig)
			return
		}

		if caddr+st.Size() > addressSpace {
			err = ErrAddressSpace
			return
		}

		bytes := make([]byte, 0, 3)
		bytes = append(bytes, mpc)
		if IsJump(st.Mnemonic) && st.NumOps == 1 {
			var val byte
			val, err = asm.resolve(&st, byte(caddr))
			if err != nil {
				return
			}
			bytes = append(bytes, val)
		} else {
			for i := 0; i < st.NumOps; i++ {
				bytes = append(bytes, st.Operands[i].Value)
			}
		}

		for i, b := range bytes {
			addr := byte(caddr + i)
			prog.Bytes = append(prog.Bytes, b)
			prog.Entries = append(prog.Entries, TraceEntry{Addr: addr, Byte: b, LineNo: lineno, Line: st.Raw})
			if asm.Trace != nil {
				fmt.Fprintf(asm.Trace, "0x%02x\t0x%02x\t%s\n", addr, b, st.Raw)
			}
		}
		if output != nil {
			_, err = output.Write(bytes)
			if err != nil {
				return
			}
		}
		caddr += len(bytes)
	}

	if asm.Trace != nil {
		fmt.Fprintf(asm.Trace, "\n%d bytes\n", caddr-int(base))
	}

	return
}

// resolve computes the final operand byte of a jump or branch sitting at
// caddr. A label wins over the hexadecimal reading of the token. Absolute
// jumps take the label address, or the base-relocated literal, as-is;
// relative branches turn the label address into a signed offset from the
// operand byte, with the carry correction applied on backward branches.
func (asm *Assembler) resolve(st *Statement, caddr byte) (val byte, err error) {
	op := &st.Operands[0]

	if addr, ok := asm.Labels[op.Token]; ok {
		if st.Mnemonic[0] != 'B' {
			return addr, nil
		}
		if addr < caddr {
			return byte(int(int8(addr)) - int(caddr) - int(asm.CarryAdjust)), nil
		}
		return byte(int(int8(addr)) - int(caddr) - 1), nil
	}

	if !op.IsHex || len(op.Token) > 2 {
		err = ErrOperandUnresolvable(op.Token)
		return
	}

	val = op.Value + asm.Directives["base_addr"]
	return
}
