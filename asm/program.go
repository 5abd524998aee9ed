package asm

// TraceEntry records one emitted byte, its final address, and the source
// line it came from.
type TraceEntry struct {
	Addr   byte
	Byte   byte
	LineNo int
	Line   string
}

// Program is the assembled binary artifact plus its listing.
type Program struct {
	Base    byte         // base address the program was relocated to
	Bytes   []byte       // emitted bytes, in program order
	Entries []TraceEntry // one entry per emitted byte
}

// Size returns the number of bytes emitted.
func (prog *Program) Size() int {
	return len(prog.Bytes)
}
