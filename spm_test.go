package main

import "testing"

// Scenario 6 (spec.md §8): SPM page-erase with Z=0x0100 on a 64-byte-page
// device clears flash[0x0100..0x013F] to 0xFF and leaves the neighboring
// pages untouched.
func TestSPMPageErase(t *testing.T) {
	p, err := LookupDevice("attiny85")
	if err != nil {
		t.Fatalf("lookup attiny85: %v", err)
	}
	m := NewMachineState(p)
	m.SetSP(uint16(p.RAMEnd))

	for i := range m.Flash {
		m.Flash[i] = 0x42
	}
	writePair(m.DM, regZ, 0x0100)
	m.DM[p.SPMCSR] = 0x03 // page erase

	m.execSPM()

	for addr := 0x0100; addr < 0x0140; addr++ {
		if m.Flash[addr] != 0xFF {
			t.Fatalf("flash[0x%03X] = 0x%02X, want 0xFF (erased)", addr, m.Flash[addr])
		}
	}
	requireEqualU8(t, "flash[0x00FF] (neighboring page)", m.Flash[0x00FF], 0x42)
	requireEqualU8(t, "flash[0x0140] (neighboring page)", m.Flash[0x0140], 0x42)
	requireEqualU8(t, "SPMCSR busy bit cleared", m.DM[p.SPMCSR]&0x01, 0x00)
}
