package main

import "testing"

// Scenario 3 (spec.md §8): Timer0 in Normal mode with CS0=0b011
// (prescaler 64). After 64*256 cycles the counter has wrapped exactly
// once and TOV0 is raised in TIFR0.
func TestTimer0NormalModeOverflowAfterFullPeriod(t *testing.T) {
	m := newRig(t)
	timer0 := findTimer(t, m.Profile, "timer0")

	// WGM0[2:0] left at 0 selects Normal mode.
	timer0.CSBits[0].Write(m.DM, true)
	timer0.CSBits[1].Write(m.DM, true)
	timer0.CSBits[2].Write(m.DM, false)

	for i := 0; i < 64*256; i++ {
		m.tickTimers()
	}

	requireEqualU8(t, "TCNT0 after one full period", m.DM[timer0.CounterLow], 0x00)
	requireEqualBool(t, "TOV0 raised", timer0.OverflowFlag.Read(m.DM), true)
}

// A mid-period write to OCR0A in a buffered mode (Fast PWM, whose table
// entry updates at BOTTOM) must not affect the current period's compare
// match - only the value visible since the last update point does
// (spec.md §3 "double-buffer for OCR", §4.2).
func TestOCRDoubleBufferUpdateDeferredToBottom(t *testing.T) {
	m := newRig(t)
	timer0 := findTimer(t, m.Profile, "timer0")

	// WGM0[2:0] = 3 (Fast PWM, TOP fixed at 0xFF, OCR update at BOTTOM).
	timer0.WGMBits[0].Write(m.DM, true)
	timer0.WGMBits[1].Write(m.DM, true)
	timer0.WGMBits[2].Write(m.DM, false)
	// CS0 = 1 (no prescaling).
	timer0.CSBits[0].Write(m.DM, true)
	timer0.CSBits[1].Write(m.DM, false)
	timer0.CSBits[2].Write(m.DM, false)

	m.DM[timer0.ChannelA.OCRLow] = 0x10

	// Run one full period so the update point (BOTTOM) copies 0x10 into
	// the visible register; a freshly-zeroed visible register would
	// otherwise make the very first period's behavior meaningless.
	for i := 0; i < 256; i++ {
		m.tickTimers()
	}
	timer0.ChannelA.CompareFlag.Write(m.DM, false)

	// Mid-period, before the counter reaches the stale 0x10, rewrite the
	// buffer - this must not change what the counter compares against
	// until the next BOTTOM.
	for i := 0; i < 5; i++ {
		m.tickTimers()
	}
	m.DM[timer0.ChannelA.OCRLow] = 0x50

	for i := 0; i < 256-5; i++ { // finish the period: count reaches 0x10, then wraps to 0
		m.tickTimers()
	}
	requireEqualBool(t, "matched stale 0x10, not the mid-period rewrite", timer0.ChannelA.CompareFlag.Read(m.DM), true)

	// The rewrite is now visible (copied in at the BOTTOM just crossed).
	timer0.ChannelA.CompareFlag.Write(m.DM, false)
	for i := 0; i < 0x50; i++ {
		m.tickTimers()
	}
	requireEqualBool(t, "matched the now-visible 0x50", timer0.ChannelA.CompareFlag.Read(m.DM), true)
}

// Scenario 5 (spec.md §8): Timer0 clocked externally through its Tn pin
// (PIND4). 256 iterations each drive one falling and one rising edge;
// the counter ends back at 0 with TOV0 raised.
func TestTimer0ExternalClockOverflowOnRisingEdges(t *testing.T) {
	m := newRig(t)
	timer0 := findTimer(t, m.Profile, "timer0")

	// CS0=1, CS1=1, CS2=1 selects the external-clock-rising-edge source.
	timer0.CSBits[0].Write(m.DM, true)
	timer0.CSBits[1].Write(m.DM, true)
	timer0.CSBits[2].Write(m.DM, true)

	pin := false
	for i := 0; i < 256; i++ {
		// Toggle low then high: one full rising edge per iteration.
		pin = false
		timer0.ExtClockPin.Write(m.DM, pin)
		m.tickTimers()
		pin = true
		timer0.ExtClockPin.Write(m.DM, pin)
		m.tickTimers()
	}

	requireEqualU8(t, "TCNT0 after 256 rising edges", m.DM[timer0.CounterLow], 0x00)
	requireEqualBool(t, "TOV0 raised", timer0.OverflowFlag.Read(m.DM), true)
}
