package main

import "testing"

// Indirect LD/ST cycle cost varies by whether the accessed address falls
// inside on-chip SRAM versus the register file/I-O window that precedes
// it in dm (spec.md §4.1 "Cycle counts").
func TestLdstCyclesSRAMAccessCostsOneMoreCycle(t *testing.T) {
	m := newRig(t) // atmega328p: RAMStart = 0x100

	writePair(m.DM, regZ, 0x0050) // I/O space, below RAMStart
	_, ioCycles, _ := tryMove(m, encRdWide(0x8000, 1)) // LD R1, Z

	writePair(m.DM, regZ, 0x0150) // inside on-chip SRAM
	_, sramCycles, _ := tryMove(m, encRdWide(0x8000, 1)) // LD R1, Z

	requireEqualU8(t, "I/O-space LD cycles", byte(ioCycles), 2)
	requireEqualU8(t, "SRAM LD cycles", byte(sramCycles), 3)
}

// A reduced-core device shaves one cycle off any multi-cycle LD/ST
// access regardless of address, and never adds the SRAM surcharge
// (spec.md §4.1 "Cycle counts" names reduced-core as its own device
// class, distinct from the baseline SRAM-locality axis).
func TestLdstCyclesReducedCoreSheddedCycle(t *testing.T) {
	p, err := LookupDevice("attiny85")
	if err != nil {
		t.Fatalf("lookup attiny85: %v", err)
	}
	m := NewMachineState(p)
	m.SetSP(uint16(p.RAMEnd))

	writePair(m.DM, regZ, 0x0010) // well below attiny85's RAMStart (0x60)
	_, loadCycles, _ := tryMove(m, encRdWide(0x8000, 1)) // LD R1, Z
	_, storeCycles, _ := tryMove(m, encRdWide(0x8200, 1)) // ST Z, R1

	requireEqualU8(t, "reduced-core LD cycles", byte(loadCycles), 1)
	requireEqualU8(t, "reduced-core ST cycles", byte(storeCycles), 1)

	writePair(m.DM, regZ, 0x0100) // would be SRAM on a baseline device
	_, loadCyclesHigh, _ := tryMove(m, encRdWide(0x8000, 1))
	requireEqualU8(t, "reduced-core LD cycles ignore SRAM locality", byte(loadCyclesHigh), 1)
}

// Pre-decrement addressing classifies the *decremented* address, since
// that is the address actually accessed; ldstAddr applies the same
// decrement when the effect runs.
func TestLdstPeekAddrMatchesPreDecrementEffect(t *testing.T) {
	m := newRig(t)
	writePair(m.DM, regZ, 0x0101) // one past the start of SRAM

	_, cycles, effect := tryMove(m, encRdWide(0x9002, 1)) // LD R1, -Z
	requireEqualU8(t, "pre-dec into SRAM costs 3", byte(cycles), 3)

	m.DM[0x0100] = 0x42
	effect(m)
	requireEqualU8(t, "R1 loaded from decremented Z", m.Reg(1), 0x42)
	requireEqualU16(t, "Z decremented by one", readPair(m.DM, regZ), 0x0100)
}
