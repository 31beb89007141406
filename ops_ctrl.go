// ops_ctrl.go - unconditional transfer of control: RJMP/IJMP/EIJMP/JMP,
// RCALL/ICALL/EICALL/CALL, RET/RETI (spec.md §4.1 "Dispatch").

package main

func tryCtrl(m *MachineState, w uint16) (bool, int, effectFn) {
	switch {
	case w&0xF000 == 0xC000: // RJMP k
		k := signExtend(uint32(w)&0x0FFF, 12)
		return true, 2, func(m *MachineState) {
			m.PC = uint32(int32(m.PC) + 2 + k*2)
			m.jumped = true
		}
	case w == 0x9409: // IJMP
		return true, 2, func(m *MachineState) {
			m.PC = uint32(readPair(m.DM, regZ)) * 2
			m.jumped = true
		}
	case w == 0x9419: // EIJMP
		return true, 2, func(m *MachineState) {
			m.PC = (uint32(m.DM[m.Profile.EIND])<<16 | uint32(readPair(m.DM, regZ))) * 2
			m.jumped = true
		}
	case w&0xFE0E == 0x940C: // JMP k (32-bit absolute)
		return true, 3, func(m *MachineState) {
			lo := m.FetchWord(m.PC + 2)
			hi := uint32(w>>3)&0x3E | uint32(w)&1
			m.PC = (hi<<16 | uint32(lo)) * 2
			m.jumped = true
		}
	case w&0xF000 == 0xD000: // RCALL k
		k := signExtend(uint32(w)&0x0FFF, 12)
		cycles := callCycles(m)
		return true, cycles, func(m *MachineState) {
			m.pushPC(m.PC + 2)
			m.PC = uint32(int32(m.PC) + 2 + k*2)
			m.jumped = true
		}
	case w == 0x9509: // ICALL
		cycles := callCycles(m)
		return true, cycles, func(m *MachineState) {
			m.pushPC(m.PC + 2)
			m.PC = uint32(readPair(m.DM, regZ)) * 2
			m.jumped = true
		}
	case w == 0x9519: // EICALL
		cycles := callCycles(m) + 1
		return true, cycles, func(m *MachineState) {
			m.pushPC(m.PC + 2)
			m.PC = (uint32(m.DM[m.Profile.EIND])<<16 | uint32(readPair(m.DM, regZ))) * 2
			m.jumped = true
		}
	case w&0xFE0E == 0x940E: // CALL k (32-bit absolute)
		cycles := callCycles(m) + 1
		return true, cycles, func(m *MachineState) {
			lo := m.FetchWord(m.PC + 2)
			hi := uint32(w>>3)&0x3E | uint32(w)&1
			m.pushPC(m.PC + 4)
			m.PC = (hi<<16 | uint32(lo)) * 2
			m.jumped = true
		}
	case w == 0x9508: // RET
		cycles := returnCycles(m)
		return true, cycles, func(m *MachineState) {
			m.PC = m.popPC()
			m.jumped = true
		}
	case w == 0x9518: // RETI
		cycles := returnCycles(m)
		return true, cycles, func(m *MachineState) {
			m.PC = m.popPC()
			m.jumped = true
			if !m.Profile.Xmega { // RETI re-enables I on non-xmega devices only (spec.md §4.3)
				m.SetI(true)
			}
			m.Interrupts.ExecMain = true // skip the arbiter once so the instruction after RETI always runs (spec.md §4.3)
		}
	}
	return false, 0, nil
}

// callCycles/returnCycles add one cycle on devices with a 22-bit program
// counter, whose return address is three bytes instead of two (spec.md
// §4.4 "Stack").
func callCycles(m *MachineState) int {
	if m.Profile.PCBits > 16 {
		return 4
	}
	return 3
}

func returnCycles(m *MachineState) int {
	if m.Profile.PCBits > 16 {
		return 5
	}
	return 4
}
