package vm

// execTrap dispatches a TRAP instruction's low byte to its native handler.
// Unrecognized vectors are no-ops. Trap handlers never update COND.
func (m *VM) execTrap(d Decoded) (halt bool, err error) {
	switch d.TrapVect {
	case TrapGETC:
		b, readErr := m.console.ReadChar()
		if readErr != nil {
			return false, readErr
		}
		m.regs.Set(0, uint16(b))
	case TrapOUT:
		if err := m.console.WriteChar(byte(m.regs.Get(0))); err != nil {
			return false, err
		}
		if err := m.console.Flush(); err != nil {
			return false, err
		}
	case TrapPUTS:
		addr := m.regs.Get(0)
		for {
			w := m.mem.Read(addr)
			if w == 0 {
				break
			}
			if err := m.console.WriteChar(byte(w)); err != nil {
				return false, err
			}
			addr++
		}
		if err := m.console.Flush(); err != nil {
			return false, err
		}
	case TrapIN:
		if err := writeString(m.console, "Enter a character: "); err != nil {
			return false, err
		}
		b, readErr := m.console.ReadChar()
		if readErr != nil {
			return false, readErr
		}
		if err := m.console.WriteChar(b); err != nil {
			return false, err
		}
		m.regs.Set(0, uint16(b))
		if err := m.console.Flush(); err != nil {
			return false, err
		}
	case TrapPUTSP:
		addr := m.regs.Get(0)
		for {
			w := m.mem.Read(addr)
			if w == 0 {
				break
			}
			low := byte(w & 0xFF)
			if err := m.console.WriteChar(low); err != nil {
				return false, err
			}
			high := byte(w >> 8)
			if high != 0 {
				if err := m.console.WriteChar(high); err != nil {
					return false, err
				}
			}
			addr++
		}
		if err := m.console.Flush(); err != nil {
			return false, err
		}
	case TrapHALT:
		if err := writeString(m.console, "HALT\n"); err != nil {
			return false, err
		}
		if err := m.console.Flush(); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}
