// Package asm implements a two-pass assembler for a microcoded CPU built in
// a logic-circuit simulator.
//
// The opcode byte emitted for each instruction is not machine code but the
// MPC (micro program counter) address of the instruction's microprogram in
// the control store ROM. A mnemonic and its operand shapes are packed into a
// 32-bit Signature and looked up in the encoding Table, which ships with a
// handful of built-in entries and is normally extended from a mapping.conf
// file.
//
// Pass 1 binds labels to addresses and records directive values; Pass 2
// resolves operands, applies base relocation and relative-branch arithmetic,
// and emits bytes together with a per-byte listing. Both passes classify
// every source line through the same pure function, keeping their address
// arithmetic identical by construction.
package asm
