// ops_move.go - register and memory movement: MOV/MOVW/LDI, IN/OUT,
// PUSH/POP, LD/ST through X/Y/Z (with pre-decrement/post-increment),
// LDD/STD, LPM/ELPM, LDS/STS, and the atomic RMW family XCH/LAS/LAC/LAT
// (spec.md §4.1 "Dispatch").

package main

func tryMove(m *MachineState, w uint16) (bool, int, effectFn) {
	switch {
	case w&0xFC00 == 0x2C00: // MOV Rd, Rr
		rd, rr := rdRr5(w)
		return true, 1, func(m *MachineState) { m.SetReg(rd, m.Reg(rr)) }
	case w&0xFF00 == 0x0100: // MOVW Rd, Rr (register pairs)
		rd := 2 * (int(w>>4) & 0x0F)
		rr := 2 * (int(w) & 0x0F)
		return true, 1, func(m *MachineState) {
			writePair(m.DM, rd, readPair(m.DM, rr))
		}
	case w&0xF000 == 0xE000: // LDI Rd, K
		rd, k := rdImm(w)
		return true, 1, func(m *MachineState) { m.SetReg(rd, k) }
	case w&0xF800 == 0xB000: // IN Rd, A
		rd := rdWide(w)
		a := int(w>>5)&0x30 | int(w)&0x0F
		return true, 1, func(m *MachineState) {
			m.SetReg(rd, m.DM[m.Profile.IOAddr(a)])
		}
	case w&0xF800 == 0xB800: // OUT A, Rr
		rr := rdWide(w)
		a := int(w>>5)&0x30 | int(w)&0x0F
		return true, 1, func(m *MachineState) {
			m.DM[m.Profile.IOAddr(a)] = m.Reg(rr)
		}
	case w&0xFE0F == 0x920F: // PUSH Rd
		rd := rdWide(w)
		return true, 2, func(m *MachineState) { m.push(m.Reg(rd)) }
	case w&0xFE0F == 0x900F: // POP Rd
		rd := rdWide(w)
		return true, 2, func(m *MachineState) { m.SetReg(rd, m.pop()) }

	// LD/ST via Z (and LPM/ELPM share the 0x9000-0x9007 column on Rr==30/31
	// but are handled separately below since they read flash, not dm).
	case w&0xFE0F == 0x8000, w&0xFE0F == 0x9001, w&0xFE0F == 0x9002: // LD Rd, Z / Z+ / -Z
		rd := rdWide(w)
		mode := ldstMode(w)
		cycles := ldstCycles(m.Profile, mode, false, ldstPeekAddr(m, regZ, mode))
		return true, cycles, func(m *MachineState) {
			addr := ldstAddr(m, regZ, mode)
			m.SetReg(rd, m.DM[addr])
		}
	case w&0xFE0F == 0x8008, w&0xFE0F == 0x9009, w&0xFE0F == 0x900A: // LD Rd, Y / Y+ / -Y
		rd := rdWide(w)
		mode := ldstMode(w)
		cycles := ldstCycles(m.Profile, mode, false, ldstPeekAddr(m, regY, mode))
		return true, cycles, func(m *MachineState) {
			addr := ldstAddr(m, regY, mode)
			m.SetReg(rd, m.DM[addr])
		}
	case w&0xFE0F == 0x900C, w&0xFE0F == 0x900D, w&0xFE0F == 0x900E: // LD Rd, X / X+ / -X
		rd := rdWide(w)
		mode := ldstMode(w)
		cycles := ldstCycles(m.Profile, mode, false, ldstPeekAddr(m, regX, mode))
		return true, cycles, func(m *MachineState) {
			addr := ldstAddr(m, regX, mode)
			m.SetReg(rd, m.DM[addr])
		}
	case w&0xFE0F == 0x8200, w&0xFE0F == 0x9201, w&0xFE0F == 0x9202: // ST Z / Z+ / -Z, Rr
		rr := rdWide(w)
		mode := ldstMode(w)
		cycles := ldstCycles(m.Profile, mode, true, ldstPeekAddr(m, regZ, mode))
		return true, cycles, func(m *MachineState) {
			addr := ldstAddr(m, regZ, mode)
			m.DM[addr] = m.Reg(rr)
		}
	case w&0xFE0F == 0x8208, w&0xFE0F == 0x9209, w&0xFE0F == 0x920A: // ST Y / Y+ / -Y, Rr
		rr := rdWide(w)
		mode := ldstMode(w)
		cycles := ldstCycles(m.Profile, mode, true, ldstPeekAddr(m, regY, mode))
		return true, cycles, func(m *MachineState) {
			addr := ldstAddr(m, regY, mode)
			m.DM[addr] = m.Reg(rr)
		}
	case w&0xFE0F == 0x920C, w&0xFE0F == 0x920D, w&0xFE0F == 0x920E: // ST X / X+ / -X, Rr
		rr := rdWide(w)
		mode := ldstMode(w)
		cycles := ldstCycles(m.Profile, mode, true, ldstPeekAddr(m, regX, mode))
		return true, cycles, func(m *MachineState) {
			addr := ldstAddr(m, regX, mode)
			m.DM[addr] = m.Reg(rr)
		}
	case w&0xD208 == 0x8008: // LDD Rd, Y+q / Z+q
		rd := rdWide(w)
		base := regZ
		if w&0x0008 != 0 {
			base = regY
		}
		q := ldstDisp(w)
		return true, 2, func(m *MachineState) {
			addr := int(readPair(m.DM, base)) + q
			m.SetReg(rd, m.DM[addr])
		}
	case w&0xD208 == 0x8200: // STD Y+q / Z+q, Rr
		rr := rdWide(w)
		base := regZ
		if w&0x0008 != 0 {
			base = regY
		}
		q := ldstDisp(w)
		return true, 2, func(m *MachineState) {
			addr := int(readPair(m.DM, base)) + q
			m.DM[addr] = m.Reg(rr)
		}
	case w == 0x95C8: // LPM (implicit R0, Z, no increment)
		return true, 3, func(m *MachineState) {
			m.SetReg(0, m.Flash[readPair(m.DM, regZ)])
		}
	case w&0xFE0F == 0x9004: // LPM Rd, Z
		rd := rdWide(w)
		return true, 3, func(m *MachineState) {
			m.SetReg(rd, m.Flash[readPair(m.DM, regZ)])
		}
	case w&0xFE0F == 0x9005: // LPM Rd, Z+
		rd := rdWide(w)
		return true, 3, func(m *MachineState) {
			z := readPair(m.DM, regZ)
			m.SetReg(rd, m.Flash[z])
			writePair(m.DM, regZ, z+1)
		}
	case w == 0x95D8: // ELPM (implicit R0, RAMPZ:Z, no increment)
		return true, 3, func(m *MachineState) {
			addr := uint32(m.DM[m.Profile.RAMPZ])<<16 | uint32(readPair(m.DM, regZ))
			m.SetReg(0, m.Flash[addr])
		}
	case w&0xFE0F == 0x9006: // ELPM Rd, RAMPZ:Z
		rd := rdWide(w)
		return true, 3, func(m *MachineState) {
			addr := uint32(m.DM[m.Profile.RAMPZ])<<16 | uint32(readPair(m.DM, regZ))
			m.SetReg(rd, m.Flash[addr])
		}
	case w&0xFE0F == 0x9007: // ELPM Rd, RAMPZ:Z+
		rd := rdWide(w)
		return true, 3, func(m *MachineState) {
			z := readPair(m.DM, regZ)
			addr := uint32(m.DM[m.Profile.RAMPZ])<<16 | uint32(z)
			m.SetReg(rd, m.Flash[addr])
			z++
			writePair(m.DM, regZ, z)
			if z == 0 {
				m.DM[m.Profile.RAMPZ]++
			}
		}
	case w&0xFE0F == 0x9204: // XCH Z, Rd
		rd := rdWide(w)
		return true, 2, func(m *MachineState) {
			z := readPair(m.DM, regZ)
			old := m.DM[z]
			m.DM[z] = m.Reg(rd)
			m.SetReg(rd, old)
		}
	case w&0xFE0F == 0x9206: // LAS Z, Rd: (Z) <- (Z) | Rd, Rd <- old (Z)
		rd := rdWide(w)
		return true, 2, func(m *MachineState) {
			z := readPair(m.DM, regZ)
			old := m.DM[z]
			m.DM[z] = old | m.Reg(rd)
			m.SetReg(rd, old)
		}
	case w&0xFE0F == 0x9205: // LAC Z, Rd: (Z) <- (Z) & ^Rd, Rd <- old (Z)
		rd := rdWide(w)
		return true, 2, func(m *MachineState) {
			z := readPair(m.DM, regZ)
			old := m.DM[z]
			m.DM[z] = old &^ m.Reg(rd)
			m.SetReg(rd, old)
		}
	case w&0xFE0F == 0x9207: // LAT Z, Rd: (Z) <- (Z) ^ Rd, Rd <- old (Z)
		rd := rdWide(w)
		return true, 2, func(m *MachineState) {
			z := readPair(m.DM, regZ)
			old := m.DM[z]
			m.DM[z] = old ^ m.Reg(rd)
			m.SetReg(rd, old)
		}
	case w&0xFE0F == 0x9000: // LDS Rd, k (32-bit, absolute address)
		rd := rdWide(w)
		return true, 2, func(m *MachineState) {
			k := m.FetchWord(m.PC + 2)
			m.SetReg(rd, m.DM[k])
		}
	case w&0xFE0F == 0x9200: // STS k, Rr (32-bit, absolute address)
		rr := rdWide(w)
		return true, 2, func(m *MachineState) {
			k := m.FetchWord(m.PC + 2)
			m.DM[k] = m.Reg(rr)
		}
	}
	return false, 0, nil
}

// ldstMode distinguishes the plain/post-increment/pre-decrement forms
// shared by the X/Y/Z indirect LD/ST opcode columns.
type ldstMode int

const (
	ldstPlain ldstMode = iota
	ldstPostInc
	ldstPreDec
)

func ldstMode(w uint16) ldstMode {
	switch w & 0x03 {
	case 1:
		return ldstPostInc
	case 2:
		return ldstPreDec
	default:
		return ldstPlain
	}
}

// ldstCycles returns the cycle cost of one indirect LD/ST access
// (spec.md §4.1 "Cycle counts"): the base family cost depends on the
// addressing mode and direction, a reduced-core device shaves one cycle
// off any multi-cycle access (no separate SRAM address-generation
// stage), and an access that actually lands in on-chip SRAM (rather
// than the register file or I/O space that precede it in dm) costs one
// cycle more on non-reduced-core devices for the extra address decode.
func ldstCycles(p *DeviceProfile, mode ldstMode, isStore bool, addr uint16) int {
	base := 2
	if mode == ldstPlain && isStore {
		base = 1
	}

	if p.ReducedCore {
		if base > 1 {
			base--
		}
		return base
	}

	if int(addr) >= p.RAMStart {
		base++
	}
	return base
}

// ldstPeekAddr computes the dm address an indirect LD/ST access targets,
// without applying the mode's pre-decrement/post-increment side effect
// (that happens later, in the instruction's effect function) - used
// purely to classify the access for ldstCycles at decode time.
func ldstPeekAddr(m *MachineState, lowReg int, mode ldstMode) uint16 {
	p := readPair(m.DM, lowReg)
	if mode == ldstPreDec {
		return p - 1
	}
	return p
}

// ldstAddr applies the pre-decrement/post-increment side effect to the
// named pointer register and returns the dm address to access.
func ldstAddr(m *MachineState, lowReg int, mode ldstMode) uint16 {
	p := readPair(m.DM, lowReg)
	switch mode {
	case ldstPreDec:
		p--
		writePair(m.DM, lowReg, p)
		return p
	case ldstPostInc:
		addr := p
		writePair(m.DM, lowReg, p+1)
		return addr
	default:
		return p
	}
}

// ldstDisp extracts LDD/STD's 6-bit displacement: 10q0 qq0d dddd yqqq,
// split across bits 13, 11:10, 2:0.
func ldstDisp(w uint16) int {
	return int(w>>8&0x20 | w>>7&0x18 | w&0x07)
}
