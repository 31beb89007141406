// ops_misc.go - NOP, BREAK, SER, SLEEP (suspends instruction execution;
// timers and the interrupt arbiter keep running), WDR (no watchdog
// model, treated as NOP), and the SPM self-programming state machine
// (spec.md §4.1 "SPM").

package main

func tryMisc(m *MachineState, w uint16) (bool, int, effectFn) {
	switch {
	case w == 0x0000: // NOP
		return true, 1, func(m *MachineState) {}
	case w == 0x9598: // BREAK
		return true, 1, func(m *MachineState) { m.RunState = RunStateStopped }
	case w == 0x9588: // SLEEP
		return true, 1, func(m *MachineState) { m.RunState = RunStateSleeping }
	case w == 0x95A8: // WDR: no watchdog model, treated as NOP
		return true, 1, func(m *MachineState) {}
	case w&0xFF0F == 0xEF0F: // SER Rd (R16..R31, loads 0xFF)
		rd := 16 + int(w>>4)&0x0F
		return true, 1, func(m *MachineState) { m.SetReg(rd, 0xFF) }
	case w == 0x95E8: // SPM
		return true, 1, func(m *MachineState) { m.execSPM() }
	}
	return false, 0, nil
}

// execSPM runs one step of the self-programming state machine keyed on
// the low three bits of SPMCSR (spec.md §4.1 "SPM"): 0b001 fills the
// page buffer from R1:R0 at the byte offset Z selects within the page;
// 0b011 erases the selected page to 0xFF; 0b101 writes the page buffer
// back to flash at the page's base address. Type-IV..VI devices
// (HasRAMPZ) additionally post-increment RAMPZ:Z by 2 after the
// operation (spec.md §9's 22-bit addressing note).
func (m *MachineState) execSPM() {
	ctrl := m.DM[m.Profile.SPMCSR]
	pageSize := m.Profile.SPMPageSize
	z := int(readPair(m.DM, regZ))
	if m.Profile.HasRAMPZ {
		z |= int(m.DM[m.Profile.RAMPZ]) << 16
	}
	pageBase := z - z%pageSize
	offset := z % pageSize

	switch ctrl & 0x07 {
	case 0x01: // fill page buffer
		m.PageBuf[offset] = m.Reg(0)
		if offset+1 < len(m.PageBuf) {
			m.PageBuf[offset+1] = m.Reg(1)
		}
	case 0x03: // page erase
		for i := 0; i < pageSize; i++ {
			m.Flash[pageBase+i] = 0xFF
			m.MatchMem[pageBase+i] = 0xFF
		}
	case 0x05: // page write
		copy(m.Flash[pageBase:pageBase+pageSize], m.PageBuf)
		copy(m.MatchMem[pageBase:pageBase+pageSize], m.PageBuf)
	}
	m.DM[m.Profile.SPMCSR] = ctrl &^ 0x01 // the operation completes within the cycle it's issued

	if m.Profile.HasRAMPZ {
		zNew := z + 2
		writePair(m.DM, regZ, uint16(zNew))
		m.DM[m.Profile.RAMPZ] = byte(zNew >> 16)
	}
}
