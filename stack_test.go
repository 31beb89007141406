package main

import "testing"

func TestPushPopByte(t *testing.T) {
	m := newRig(t)
	sp := m.SP()
	m.push(0xAB)
	requireEqualU16(t, "SP after push", m.SP(), sp-1)
	got := m.pop()
	requireEqualU8(t, "popped byte", got, 0xAB)
	requireEqualU16(t, "SP after pop", m.SP(), sp)
}

func TestPushPopPC16Bit(t *testing.T) {
	m := newRig(t) // atmega328p: PCBits == 16
	sp := m.SP()
	m.pushPC(0x1234)
	got := m.popPC()
	requireEqualU16(t, "round-tripped PC", uint16(got), 0x1234)
	requireEqualU16(t, "SP restored", m.SP(), sp)
}

func TestPushPopPC22Bit(t *testing.T) {
	p, err := LookupDevice("atmega2560")
	if err != nil {
		t.Fatalf("lookup atmega2560: %v", err)
	}
	m := NewMachineState(p)
	m.SetSP(uint16(p.RAMEnd))
	sp := m.SP()
	m.pushPC(0x0123FE)
	got := m.popPC()
	requireEqualU16(t, "round-tripped low16", uint16(got), 0x23FE)
	if got>>16 != 0x01 {
		t.Errorf("round-tripped high byte = 0x%02X, want 0x01", got>>16)
	}
	requireEqualU16(t, "SP restored", m.SP(), sp)
}
