// flags.go - typed accessor to the eight SREG bits, with the canonical
// update rules of spec.md §4.1 shared by every arithmetic instruction.

package main

const (
	flagC uint = 0
	flagZ uint = 1
	flagN uint = 2
	flagV uint = 3
	flagS uint = 4
	flagH uint = 5
	flagT uint = 6
	flagI uint = 7
)

// sreg returns the SREG byte.
func (m *MachineState) sreg() byte { return m.DM[m.Profile.SREG] }

func (m *MachineState) setFlag(bit uint, v bool) {
	if v {
		m.DM[m.Profile.SREG] |= 1 << bit
	} else {
		m.DM[m.Profile.SREG] &^= 1 << bit
	}
}

func (m *MachineState) getFlag(bit uint) bool {
	return m.DM[m.Profile.SREG]&(1<<bit) != 0
}

func (m *MachineState) SetC(v bool) { m.setFlag(flagC, v) }
func (m *MachineState) SetZ(v bool) { m.setFlag(flagZ, v) }
func (m *MachineState) SetN(v bool) { m.setFlag(flagN, v) }
func (m *MachineState) SetV(v bool) { m.setFlag(flagV, v) }
func (m *MachineState) SetS(v bool) { m.setFlag(flagS, v) }
func (m *MachineState) SetH(v bool) { m.setFlag(flagH, v) }
func (m *MachineState) SetT(v bool) { m.setFlag(flagT, v) }
func (m *MachineState) SetI(v bool) { m.setFlag(flagI, v) }

func (m *MachineState) GetC() bool { return m.getFlag(flagC) }
func (m *MachineState) GetZ() bool { return m.getFlag(flagZ) }
func (m *MachineState) GetN() bool { return m.getFlag(flagN) }
func (m *MachineState) GetV() bool { return m.getFlag(flagV) }
func (m *MachineState) GetS() bool { return m.getFlag(flagS) }
func (m *MachineState) GetH() bool { return m.getFlag(flagH) }
func (m *MachineState) GetT() bool { return m.getFlag(flagT) }
func (m *MachineState) GetI() bool { return m.getFlag(flagI) }

// setSN sets S = N xor V after N and V have already been written; every
// family in spec.md §4.1's table shares this rule.
func (m *MachineState) setSN() {
	m.SetS(m.GetN() != m.GetV())
}

// applyAddFlags applies the add-family rule (Rd + Rr [+ C]) for an
// 8-bit result, given the two operands and result.
func (m *MachineState) applyAddFlags(rd, rr, r byte) {
	rd7, rr7, r7 := rd>>7&1, rr>>7&1, r>>7&1
	m.SetH(bit3Carry(rd, rr, r))
	m.SetC(bit7Carry(rd7, rr7, r7))
	m.SetZ(r == 0)
	m.SetN(r7 != 0)
	m.SetV((rd7 != 0 && rr7 != 0 && r7 == 0) || (rd7 == 0 && rr7 == 0 && r7 != 0))
	m.setSN()
}

func bit3Carry(rd, rr, r byte) bool {
	rd3, rr3, r3 := rd>>3&1 != 0, rr>>3&1 != 0, r>>3&1 != 0
	return (rd3 && rr3) || (rr3 && !r3) || (!r3 && rd3)
}

func bit7Carry(rd7, rr7, r7 byte) bool {
	a, b, c := rd7 != 0, rr7 != 0, r7 != 0
	return (a && b) || (b && !c) || (!c && a)
}

// applySubFlags applies the sub-family rule (Rd - Rr [- C]). If
// zeroOnly is true, Z is only ever cleared, never set (CPC/SBC's
// carry-chain asymmetry, spec.md §9 Open Question 3).
func (m *MachineState) applySubFlags(rd, rr, r byte, zeroOnly bool) {
	rd7, rr7, r7 := rd>>7&1 != 0, rr>>7&1 != 0, r>>7&1 != 0
	rd3, rr3, r3 := rd>>3&1 != 0, rr>>3&1 != 0, r>>3&1 != 0
	m.SetH((!rd3 && rr3) || (rr3 && r3) || (r3 && !rd3))
	m.SetC((!rd7 && rr7) || (rr7 && r7) || (r7 && !rd7))
	if zeroOnly {
		if r != 0 {
			m.SetZ(false)
		}
	} else {
		m.SetZ(r == 0)
	}
	m.SetN(r7)
	m.SetV((rd7 && !rr7 && !r7) || (!rd7 && rr7 && r7))
	m.setSN()
}

// applyLogicFlags applies the AND/OR/EOR rule: V always 0, Z/N from the
// result, C untouched.
func (m *MachineState) applyLogicFlags(r byte) {
	m.SetZ(r == 0)
	m.SetN(r>>7&1 != 0)
	m.SetV(false)
	m.setSN()
}

func (m *MachineState) applyShiftRightFlags(rdOld, r byte) {
	m.SetC(rdOld&1 != 0)
	m.SetZ(r == 0)
	m.SetN(r>>7&1 != 0)
	m.SetV(m.GetN() != m.GetC())
	m.setSN()
}

func (m *MachineState) applyShiftLeftFlags(rdOld, r byte) {
	m.SetC(rdOld>>7&1 != 0)
	m.SetZ(r == 0)
	m.SetN(r>>7&1 != 0)
	m.SetV(m.GetN() != m.GetC())
	m.setSN()
}

// applyIncFlags/applyDecFlags: C is untouched; V is the signed-overflow
// boundary case (0x7F->0x80 for INC, 0x80->0x7F for DEC).
func (m *MachineState) applyIncFlags(rdOld, r byte) {
	m.SetZ(r == 0)
	m.SetN(r>>7&1 != 0)
	m.SetV(rdOld == 0x7F)
	m.setSN()
}

func (m *MachineState) applyDecFlags(rdOld, r byte) {
	m.SetZ(r == 0)
	m.SetN(r>>7&1 != 0)
	m.SetV(rdOld == 0x80)
	m.setSN()
}

func (m *MachineState) applyNegFlags(rdOld, r byte) {
	m.SetC(r != 0)
	m.SetH((r|rdOld)&0x08 != 0) // H = bit3 of (result OR original operand)
	m.SetZ(r == 0)
	m.SetN(r>>7&1 != 0)
	m.SetV(r == 0x80)
	m.setSN()
}

func (m *MachineState) applyComFlags(r byte) {
	m.SetC(true)
	m.SetZ(r == 0)
	m.SetN(r>>7&1 != 0)
	m.SetV(false)
	m.setSN()
}
