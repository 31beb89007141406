package main

import "testing"

// Scenario 4 (spec.md §8): enable global I, enable Timer0 overflow,
// run until TOV0 is raised. The arbiter must push the return PC, clear
// I, and jump to TIMER0_OVF's vector slot; stack depth increases by 2.
func TestInterruptDispatchOnTimerOverflow(t *testing.T) {
	m := newRig(t)
	m.load(opBREAK, opBREAK, opBREAK, opBREAK, opBREAK) // plenty of NOPs^Wbreaks to idle on
	m.Flash[0] = 0x00
	m.Flash[1] = 0x00 // NOP at PC=0 so the core just idles while timers tick
	copy(m.MatchMem, m.Flash)

	m.SetI(true)
	timer0 := findTimer(t, m.Profile, "timer0")
	slot := findVector(t, m.Profile, "TIMER0_OVF")
	slot.EnableBit.Write(m.DM, true)
	// CS0 = 0b001 (no prescaling) so one tick == one timer advance.
	timer0.CSBits[0].Write(m.DM, true)
	timer0.CSBits[1].Write(m.DM, false)
	timer0.CSBits[2].Write(m.DM, false)

	baseSP := m.SP()

	for i := 0; i < 256; i++ {
		Step(m)
		m.tickTimers()
		if !m.InMulti {
			m.serviceInterrupts()
		}
		if !m.GetI() { // dispatch clears I
			break
		}
	}

	want := uint32(m.Profile.IVTBase + slot.VectorOffset*m.Profile.VectorStride)
	requireEqualU16(t, "PC at vector", uint16(m.PC), uint16(want))
	requireEqualBool(t, "I cleared", m.GetI(), false)
	requireEqualU16(t, "stack depth grew by 2", baseSP-m.SP(), 2)
}

func findTimer(t *testing.T, p *DeviceProfile, name string) *TimerConfig {
	t.Helper()
	for i := range p.Timers {
		if p.Timers[i].Name == name {
			return &p.Timers[i]
		}
	}
	t.Fatalf("no timer named %q", name)
	return nil
}

func findVector(t *testing.T, p *DeviceProfile, name string) *VectorSlot {
	t.Helper()
	for i := range p.Vectors {
		if p.Vectors[i].Name == name {
			return &p.Vectors[i]
		}
	}
	t.Fatalf("no vector named %q", name)
	return nil
}
