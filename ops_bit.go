// ops_bit.go - BSET/BCLR, BST/BLD, SBI/CBI/SBIS/SBIC, SBRS/SBRC, CPSE
// (spec.md §4.1 "Dispatch" bit-ops and the skip-family instructions).

package main

func tryBit(m *MachineState, w uint16) (bool, int, effectFn) {
	switch {
	case w&0xFF8F == 0x9408: // BSET s
		s := uint(w>>4) & 0x07
		return true, 1, func(m *MachineState) { m.setFlag(s, true) }
	case w&0xFF8F == 0x9488: // BCLR s
		s := uint(w>>4) & 0x07
		return true, 1, func(m *MachineState) { m.setFlag(s, false) }
	case w&0xFE08 == 0xFA00: // BST Rd, b
		rd := rdWide(w)
		b := bitIdx3(w)
		return true, 1, func(m *MachineState) {
			m.SetT(m.Reg(rd)&(1<<b) != 0)
		}
	case w&0xFE08 == 0xF800: // BLD Rd, b
		rd := rdWide(w)
		b := bitIdx3(w)
		return true, 1, func(m *MachineState) {
			v := m.Reg(rd)
			if m.GetT() {
				v |= 1 << b
			} else {
				v &^= 1 << b
			}
			m.SetReg(rd, v)
		}
	case w&0xFF00 == 0x9A00: // SBI A, b
		a := ioAddr5(w)
		b := bitIdx3(w)
		return true, 2, func(m *MachineState) {
			m.DM[m.Profile.IOAddr(a)] |= 1 << b
		}
	case w&0xFF00 == 0x9800: // CBI A, b
		a := ioAddr5(w)
		b := bitIdx3(w)
		return true, 2, func(m *MachineState) {
			m.DM[m.Profile.IOAddr(a)] &^= 1 << b
		}
	case w&0xFF00 == 0x9B00: // SBIS A, b
		a := ioAddr5(w)
		b := bitIdx3(w)
		skip := m.DM[m.Profile.IOAddr(a)]&(1<<b) != 0
		return true, skipCycles(m, skip), skipEffect(skip)
	case w&0xFF00 == 0x9900: // SBIC A, b
		a := ioAddr5(w)
		b := bitIdx3(w)
		skip := m.DM[m.Profile.IOAddr(a)]&(1<<b) == 0
		return true, skipCycles(m, skip), skipEffect(skip)
	case w&0xFE08 == 0xFE00: // SBRS Rd, b
		rd := rdWide(w)
		b := bitIdx3(w)
		skip := m.Reg(rd)&(1<<b) != 0
		return true, skipCycles(m, skip), skipEffect(skip)
	case w&0xFE08 == 0xFC00: // SBRC Rd, b
		rd := rdWide(w)
		b := bitIdx3(w)
		skip := m.Reg(rd)&(1<<b) == 0
		return true, skipCycles(m, skip), skipEffect(skip)
	case w&0xFC00 == 0x1000: // CPSE Rd, Rr
		rd, rr := rdRr5(w)
		skip := m.Reg(rd) == m.Reg(rr)
		return true, skipCycles(m, skip), skipEffect(skip)
	}
	return false, 0, nil
}

// skipCycles computes the cycle count for the skip-family instructions
// (CPSE, SBIC/SBIS, SBRC/SBRS): 1 if no skip, 2 if skipping a one-word
// instruction, 3 if skipping a two-word instruction (spec.md §4.1
// "Cycle counts"). The condition is evaluated eagerly at decode time
// (pure function of already-committed register/flag state), so the
// width of the word that would be skipped is knowable up front.
func skipCycles(m *MachineState, skip bool) int {
	if !skip {
		return 1
	}
	next := m.FetchWord(m.PC + 2)
	return 1 + instrWordCount(next)
}

// skipEffect returns the already-decided PC effect: a no-op (default
// one-word advance applies) when not skipping, or an explicit jump past
// the following instruction when skipping.
func skipEffect(skip bool) effectFn {
	if !skip {
		return func(m *MachineState) {}
	}
	return func(m *MachineState) {
		next := m.FetchWord(m.PC + 2)
		words := 1 + instrWordCount(next)
		m.PC += uint32(words) * 2
		m.jumped = true
	}
}
