package vm

// step fetches, decodes and executes exactly one instruction. It reports
// whether the instruction was a HALT trap (the only clean way to stop the
// run loop) and any host I/O error encountered while servicing a trap.
func (m *VM) step() (halt bool, err error) {
	w := m.mem.Read(m.regs.PC())
	m.regs.SetPC(m.regs.PC() + 1)

	if m.trace != nil {
		m.trace(m.regs.PC()-1, w)
	}

	d := Decode(w)

	switch d.Op {
	case OpBR:
		if uint16(m.regs.Cond())&d.NZP != 0 {
			m.regs.SetPC(m.regs.PC() + d.PCOffset9)
		}
	case OpADD:
		var rhs uint16
		if d.ImmFlag {
			rhs = d.Imm5
		} else {
			rhs = m.regs.Get(d.SR2)
		}
		m.regs.SetAndUpdateFlags(d.DR, m.regs.Get(d.SR1)+rhs)
	case OpLD:
		m.regs.SetAndUpdateFlags(d.DR, m.mem.Read(m.regs.PC()+d.PCOffset9))
	case OpST:
		m.mem.Write(m.regs.PC()+d.PCOffset9, m.regs.Get(d.SR))
	case OpJSR:
		savedPC := m.regs.PC()
		m.regs.Set(7, savedPC)
		if d.Long {
			m.regs.SetPC(savedPC + d.PCOffset11)
		} else {
			m.regs.SetPC(m.regs.Get(d.BaseR))
		}
	case OpAND:
		var rhs uint16
		if d.ImmFlag {
			rhs = d.Imm5
		} else {
			rhs = m.regs.Get(d.SR2)
		}
		m.regs.SetAndUpdateFlags(d.DR, m.regs.Get(d.SR1)&rhs)
	case OpLDR:
		m.regs.SetAndUpdateFlags(d.DR, m.mem.Read(m.regs.Get(d.BaseR)+d.Offset6))
	case OpSTR:
		m.mem.Write(m.regs.Get(d.BaseR)+d.Offset6, m.regs.Get(d.SR))
	case OpRTI, OpRES:
		// Reserved/unimplemented: silently ignored.
	case OpNOT:
		// NOT's source register sits at bits 8..6, the SR1/BaseR position,
		// not the bits 11..9 position that Decoded.SR holds.
		m.regs.SetAndUpdateFlags(d.DR, ^m.regs.Get(d.SR1))
	case OpLDI:
		indirect := m.mem.Read(m.regs.PC() + d.PCOffset9)
		m.regs.SetAndUpdateFlags(d.DR, m.mem.Read(indirect))
	case OpSTI:
		indirect := m.mem.Read(m.regs.PC() + d.PCOffset9)
		m.mem.Write(indirect, m.regs.Get(d.SR))
	case OpJMP:
		m.regs.SetPC(m.regs.Get(d.BaseR))
	case OpLEA:
		m.regs.SetAndUpdateFlags(d.DR, m.regs.PC()+d.PCOffset9)
	case OpTRAP:
		m.regs.Set(7, m.regs.PC())
		m.trapCount++
		return m.execTrap(d)
	}

	return false, nil
}
