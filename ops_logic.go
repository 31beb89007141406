// ops_logic.go - AND/OR/EOR and their immediate forms, plus the shift
// family ASR/LSR/ROR (spec.md §4.1 "Dispatch").

package main

func tryLogic(m *MachineState, w uint16) (bool, int, effectFn) {
	switch {
	case w&0xFC00 == 0x2000: // AND Rd, Rr
		rd, rr := rdRr5(w)
		return true, 1, func(m *MachineState) {
			r := m.Reg(rd) & m.Reg(rr)
			m.SetReg(rd, r)
			m.applyLogicFlags(r)
		}
	case w&0xF000 == 0x7000: // ANDI Rd, K
		rd, k := rdImm(w)
		return true, 1, func(m *MachineState) {
			r := m.Reg(rd) & k
			m.SetReg(rd, r)
			m.applyLogicFlags(r)
		}
	case w&0xFC00 == 0x2800: // OR Rd, Rr
		rd, rr := rdRr5(w)
		return true, 1, func(m *MachineState) {
			r := m.Reg(rd) | m.Reg(rr)
			m.SetReg(rd, r)
			m.applyLogicFlags(r)
		}
	case w&0xF000 == 0x6000: // ORI (SBR) Rd, K
		rd, k := rdImm(w)
		return true, 1, func(m *MachineState) {
			r := m.Reg(rd) | k
			m.SetReg(rd, r)
			m.applyLogicFlags(r)
		}
	case w&0xFC00 == 0x2400: // EOR Rd, Rr
		rd, rr := rdRr5(w)
		return true, 1, func(m *MachineState) {
			r := m.Reg(rd) ^ m.Reg(rr)
			m.SetReg(rd, r)
			m.applyLogicFlags(r)
		}
	case w&0xFE0F == 0x9405: // ASR Rd
		rd := rdWide(w)
		return true, 1, func(m *MachineState) {
			a := m.Reg(rd)
			r := byte(int8(a) >> 1) // arithmetic: sign bit preserved
			m.SetReg(rd, r)
			m.applyShiftRightFlags(a, r)
		}
	case w&0xFE0F == 0x9406: // LSR Rd
		rd := rdWide(w)
		return true, 1, func(m *MachineState) {
			a := m.Reg(rd)
			r := a >> 1
			m.SetReg(rd, r)
			m.applyShiftRightFlags(a, r)
		}
	case w&0xFE0F == 0x9407: // ROR Rd
		rd := rdWide(w)
		return true, 1, func(m *MachineState) {
			a := m.Reg(rd)
			var cIn byte
			if m.GetC() {
				cIn = 0x80
			}
			r := a>>1 | cIn
			m.SetReg(rd, r)
			m.applyShiftRightFlags(a, r)
		}
	case w&0xFE0F == 0x9402: // SWAP Rd
		rd := rdWide(w)
		return true, 1, func(m *MachineState) {
			a := m.Reg(rd)
			m.SetReg(rd, a<<4|a>>4)
		}
	}
	return false, 0, nil
}
