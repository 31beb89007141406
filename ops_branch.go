// ops_branch.go - the generic conditional branch (BRBS/BRBC) and its
// sixteen named aliases (spec.md §4.1 "Dispatch", branch row).

package main

func tryBranch(m *MachineState, w uint16) (bool, int, effectFn) {
	switch {
	case w&0xFC00 == 0xF000: // BRBS s, k: branch if SREG bit s set
		s := uint(w) & 0x07
		k := signExtend(uint32(w>>3)&0x7F, 7)
		taken := m.getFlag(s)
		return true, branchCycles(taken), branchEffect(taken, k)
	case w&0xFC00 == 0xF400: // BRBC s, k: branch if SREG bit s clear
		s := uint(w) & 0x07
		k := signExtend(uint32(w>>3)&0x7F, 7)
		taken := !m.getFlag(s)
		return true, branchCycles(taken), branchEffect(taken, k)
	}
	return false, 0, nil
}

func branchCycles(taken bool) int {
	if taken {
		return 2
	}
	return 1
}

func branchEffect(taken bool, k int32) effectFn {
	if !taken {
		return func(m *MachineState) {}
	}
	return func(m *MachineState) {
		m.PC = uint32(int32(m.PC) + 2 + k*2)
		m.jumped = true
	}
}
