// ops_arith.go - ADD/ADC/SUB/SBC/SUBI/SBCI, logic-adjacent arithmetic
// (INC/DEC/COM/NEG), widening ADIW/SBIW, and the MUL family
// (spec.md §4.1 "Dispatch" arithmetic/logic row).

package main

func tryArith(m *MachineState, w uint16) (bool, int, effectFn) {
	switch {
	case w&0xFC00 == 0x0C00: // ADD Rd, Rr
		rd, rr := rdRr5(w)
		return true, 1, func(m *MachineState) {
			a, b := m.Reg(rd), m.Reg(rr)
			r := a + b
			m.SetReg(rd, r)
			m.applyAddFlags(a, b, r)
		}
	case w&0xFC00 == 0x1C00: // ADC Rd, Rr
		rd, rr := rdRr5(w)
		return true, 1, func(m *MachineState) {
			a, b := m.Reg(rd), m.Reg(rr)
			var c byte
			if m.GetC() {
				c = 1
			}
			r := a + b + c
			m.SetReg(rd, r)
			m.applyAddFlags(a, b, r)
		}
	case w&0xFC00 == 0x1800: // SUB Rd, Rr
		rd, rr := rdRr5(w)
		return true, 1, func(m *MachineState) {
			a, b := m.Reg(rd), m.Reg(rr)
			r := a - b
			m.SetReg(rd, r)
			m.applySubFlags(a, b, r, false)
		}
	case w&0xF000 == 0x5000: // SUBI Rd, K
		rd, k := rdImm(w)
		return true, 1, func(m *MachineState) {
			a := m.Reg(rd)
			r := a - k
			m.SetReg(rd, r)
			m.applySubFlags(a, k, r, false)
		}
	case w&0xFC00 == 0x0800: // SBC Rd, Rr
		rd, rr := rdRr5(w)
		return true, 1, func(m *MachineState) {
			a, b := m.Reg(rd), m.Reg(rr)
			var c byte
			if m.GetC() {
				c = 1
			}
			r := a - b - c
			m.SetReg(rd, r)
			m.applySubFlags(a, b, r, true) // CPC/SBC: Z is clear-only (spec.md §9 Open Question 3)
		}
	case w&0xF000 == 0x4000: // SBCI Rd, K
		rd, k := rdImm(w)
		return true, 1, func(m *MachineState) {
			a := m.Reg(rd)
			var c byte
			if m.GetC() {
				c = 1
			}
			r := a - k - c
			m.SetReg(rd, r)
			m.applySubFlags(a, k, r, true)
		}
	case w&0xFC00 == 0x1400: // CP Rd, Rr
		rd, rr := rdRr5(w)
		return true, 1, func(m *MachineState) {
			a, b := m.Reg(rd), m.Reg(rr)
			r := a - b
			m.applySubFlags(a, b, r, false)
		}
	case w&0xFC00 == 0x0400: // CPC Rd, Rr
		rd, rr := rdRr5(w)
		return true, 1, func(m *MachineState) {
			a, b := m.Reg(rd), m.Reg(rr)
			var c byte
			if m.GetC() {
				c = 1
			}
			r := a - b - c
			m.applySubFlags(a, b, r, true)
		}
	case w&0xF000 == 0x3000: // CPI Rd, K
		rd, k := rdImm(w)
		return true, 1, func(m *MachineState) {
			a := m.Reg(rd)
			r := a - k
			m.applySubFlags(a, k, r, false)
		}
	case w&0xFE0F == 0x9400: // COM Rd
		rd := rdWide(w)
		return true, 1, func(m *MachineState) {
			r := ^m.Reg(rd)
			m.SetReg(rd, r)
			m.applyComFlags(r)
		}
	case w&0xFE0F == 0x9401: // NEG Rd
		rd := rdWide(w)
		return true, 1, func(m *MachineState) {
			a := m.Reg(rd)
			r := byte(0) - a
			m.SetReg(rd, r)
			m.applyNegFlags(a, r)
		}
	case w&0xFE0F == 0x9403: // INC Rd
		rd := rdWide(w)
		return true, 1, func(m *MachineState) {
			a := m.Reg(rd)
			r := a + 1
			m.SetReg(rd, r)
			m.applyIncFlags(a, r)
		}
	case w&0xFE0F == 0x940A: // DEC Rd
		rd := rdWide(w)
		return true, 1, func(m *MachineState) {
			a := m.Reg(rd)
			r := a - 1
			m.SetReg(rd, r)
			m.applyDecFlags(a, r)
		}
	case w&0xFF00 == 0x9600: // ADIW Rd, K
		lo, k := adiwRegK(w)
		return true, 2, func(m *MachineState) {
			old := readPair(m.DM, lo)
			r := old + uint16(k)
			writePair(m.DM, lo, r)
			m.SetC(old>>15&1 != 0 && r>>15&1 == 0)
			m.SetN(r>>15&1 != 0)
			m.SetV(old>>15&1 == 0 && r>>15&1 != 0)
			m.SetZ(r == 0)
			m.setSN()
		}
	case w&0xFF00 == 0x9700: // SBIW Rd, K
		lo, k := adiwRegK(w)
		return true, 2, func(m *MachineState) {
			old := readPair(m.DM, lo)
			r := old - uint16(k)
			writePair(m.DM, lo, r)
			m.SetC(old>>15&1 == 0 && r>>15&1 != 0)
			m.SetN(r>>15&1 != 0)
			m.SetV(old>>15&1 != 0 && r>>15&1 == 0)
			m.SetZ(r == 0)
			m.setSN()
		}
	case w&0xFC00 == 0x9C00: // MUL Rd, Rr (unsigned x unsigned)
		rd, rr := rdRr5(w)
		return true, 2, func(m *MachineState) {
			r := uint16(m.Reg(rd)) * uint16(m.Reg(rr))
			writePair(m.DM, 0, r)
			m.SetC(r>>15&1 != 0)
			m.SetZ(r == 0)
		}
	case w&0xFF00 == 0x0200: // MULS Rd, Rr (signed x signed, R16-R31)
		rd := 16 + int(w>>4)&0x0F
		rr := 16 + int(w)&0x0F
		return true, 2, func(m *MachineState) {
			r := uint16(int16(int8(m.Reg(rd))) * int16(int8(m.Reg(rr))))
			writePair(m.DM, 0, r)
			m.SetC(r>>15&1 != 0)
			m.SetZ(r == 0)
		}
	case w&0xFF88 == 0x0300: // MULSU Rd, Rr (signed x unsigned, R16-R23)
		rd := 16 + int(w>>4)&0x07
		rr := 16 + int(w)&0x07
		return true, 2, func(m *MachineState) {
			r := uint16(int16(int8(m.Reg(rd))) * int16(m.Reg(rr)))
			writePair(m.DM, 0, r)
			m.SetC(r>>15&1 != 0)
			m.SetZ(r == 0)
		}
	case w&0xFF88 == 0x0308: // FMUL Rd, Rr (unsigned x unsigned, Q0.8 x2)
		rd := 16 + int(w>>4)&0x07
		rr := 16 + int(w)&0x07
		return true, 2, func(m *MachineState) {
			r := uint16(m.Reg(rd)) * uint16(m.Reg(rr))
			c := r>>15&1 != 0
			r <<= 1
			writePair(m.DM, 0, r)
			m.SetC(c)
			m.SetZ(r == 0)
		}
	case w&0xFF88 == 0x0380: // FMULS Rd, Rr (signed x signed, Q0.8 x2)
		rd := 16 + int(w>>4)&0x07
		rr := 16 + int(w)&0x07
		return true, 2, func(m *MachineState) {
			r := uint16(int16(int8(m.Reg(rd))) * int16(int8(m.Reg(rr))))
			c := r>>15&1 != 0
			r <<= 1
			writePair(m.DM, 0, r)
			m.SetC(c)
			m.SetZ(r == 0)
		}
	case w&0xFF88 == 0x0388: // FMULSU Rd, Rr (signed x unsigned, Q0.8 x2)
		rd := 16 + int(w>>4)&0x07
		rr := 16 + int(w)&0x07
		return true, 2, func(m *MachineState) {
			r := uint16(int16(int8(m.Reg(rd))) * int16(m.Reg(rr)))
			c := r>>15&1 != 0
			r <<= 1
			writePair(m.DM, 0, r)
			m.SetC(c)
			m.SetZ(r == 0)
		}
	}
	return false, 0, nil
}
