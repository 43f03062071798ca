package vm

// Opcode identifies one of the 15 LC-3 operation forms, decoded from bits
// 15..12 of an instruction word.
type Opcode uint16

const (
	OpBR   Opcode = 0x0 // branch
	OpADD  Opcode = 0x1 // add
	OpLD   Opcode = 0x2 // load
	OpST   Opcode = 0x3 // store
	OpJSR  Opcode = 0x4 // jump to subroutine / jump register to subroutine
	OpAND  Opcode = 0x5 // bitwise and
	OpLDR  Opcode = 0x6 // load register (base + offset)
	OpSTR  Opcode = 0x7 // store register (base + offset)
	OpRTI  Opcode = 0x8 // return from interrupt (unimplemented, no-op)
	OpNOT  Opcode = 0x9 // bitwise not
	OpLDI  Opcode = 0xA // load indirect
	OpSTI  Opcode = 0xB // store indirect
	OpJMP  Opcode = 0xC // jump / return
	OpRES  Opcode = 0xD // reserved (unimplemented, no-op)
	OpLEA  Opcode = 0xE // load effective address
	OpTRAP Opcode = 0xF // system trap
)

// Trap vectors serviced natively by this core. All other vector values are
// no-ops.
const (
	TrapGETC  uint16 = 0x20 // read one character into R0
	TrapOUT   uint16 = 0x21 // write low byte of R0
	TrapPUTS  uint16 = 0x22 // write null-terminated word string at M[R0]
	TrapIN    uint16 = 0x23 // prompt, echo, read one character into R0
	TrapPUTSP uint16 = 0x24 // write null-terminated packed-byte string at M[R0]
	TrapHALT  uint16 = 0x25 // halt the run loop
)

// Decoded holds the fields extracted from one instruction word. Not every
// field applies to every opcode; each executor reads only the ones it needs.
type Decoded struct {
	Op         Opcode
	NZP        uint16 // BR condition mask (bits 11..9)
	DR         uint16 // destination register (bits 11..9)
	SR         uint16 // store-value source register for ST/STI/STR (bits 11..9)
	SR1        uint16 // first ADD/AND operand, and NOT's sole operand (bits 8..6)
	SR2        uint16 // second source register (bits 2..0)
	BaseR      uint16 // base register, same position as SR1 (bits 8..6)
	ImmFlag    bool   // bit 5: 1 selects imm5 over SR2 for ADD/AND
	Imm5       uint16 // sign-extended 5-bit immediate (bits 4..0)
	Offset6    uint16 // sign-extended 6-bit offset (bits 5..0)
	PCOffset9  uint16 // sign-extended 9-bit PC-relative offset (bits 8..0)
	Long       bool   // JSR bit 11: 1 selects PCoffset11 over BaseR
	PCOffset11 uint16 // sign-extended 11-bit PC-relative offset (bits 10..0)
	TrapVect   uint16 // trap vector (bits 7..0)
}

// Decode extracts the opcode and every operand field a handler might need
// from instruction word w. Unused fields for a given opcode are simply
// ignored by its executor.
func Decode(w uint16) Decoded {
	return Decoded{
		Op:         Opcode(w >> 12),
		NZP:        (w >> 9) & 0x7,
		DR:         (w >> 9) & 0x7,
		SR:         (w >> 9) & 0x7,
		SR1:        (w >> 6) & 0x7,
		SR2:        w & 0x7,
		BaseR:      (w >> 6) & 0x7,
		ImmFlag:    w&0x20 != 0, // bitwise, never logical — see design notes
		Imm5:       SignExtend(w&0x1F, 5),
		Offset6:    SignExtend(w&0x3F, 6), // 0x3F (6 bits), never 0x2F
		PCOffset9:  SignExtend(w&0x1FF, 9),
		Long:       w&0x0800 != 0,
		PCOffset11: SignExtend(w&0x7FF, 11),
		TrapVect:   w & 0xFF,
	}
}
