// timer.go - the per-cycle timer/counter state machine (spec.md §4.2),
// driven entirely by the static tables timer_tables.go builds once at
// device-registration time.

package main

// tickTimers advances every on-chip timer by one CPU cycle. It is
// called once per cycle from Driver.tickCycle, including cycles the core
// spends sleeping (spec.md §4.5).
func (m *MachineState) tickTimers() {
	for i := range m.Profile.Timers {
		m.tickTimer(i)
	}
}

func (m *MachineState) tickTimer(idx int) {
	cfg := &m.Profile.Timers[idx]
	st := &m.Timers[idx]

	cs := rawClockSelect(m.DM, cfg.CSBits)
	if cs == ClockStopped {
		return
	}

	if cs.isExternal() {
		pin := cfg.ExtClockPin.Read(m.DM)
		edge := pin != st.lastExtClock
		rising := pin && !st.lastExtClock
		st.lastExtClock = pin
		wantRising := cs == ClockExtRising
		if !edge || rising != wantRising {
			return
		}
	} else {
		div := cs.prescalerDivisor()
		st.PrescalerTicks++
		if st.PrescalerTicks < div {
			return
		}
		st.PrescalerTicks = 0
	}

	m.advanceCounter(idx)
}

// advanceCounter runs one counter tick: step the count register in the
// direction the current waveform mode demands, detect TOP/BOTTOM,
// update the double-buffered OCR registers at their configured point,
// raise overflow/compare/capture flags, and drive the compare-output
// pins (spec.md §4.2).
func (m *MachineState) advanceCounter(idx int) {
	cfg := &m.Profile.Timers[idx]
	st := &m.Timers[idx]

	raw := rawWGM(m.DM, cfg.WGMBits)
	mode, ok := cfg.modeTable[raw]
	if !ok {
		// Reserved WGM value: a recoverable error (spec.md §7c) - log once
		// and treat the timer as stopped rather than silently picking a
		// normal mode (spec.md §9 Open Question 1).
		if !st.loggedReservedWGM {
			logf("timer %s: reserved WGM value %d, treating as stopped", cfg.Name, raw)
			st.loggedReservedWGM = true
		}
		return
	}

	top := m.timerTop(cfg, mode, st)
	count := m.counterValue(cfg)

	matchedA, matchedB := false, false

	if mode.UpDownCount {
		if st.Direction == CountDown {
			if count == 0 {
				st.Direction = CountUp
			} else {
				count--
			}
		} else {
			if count >= top {
				st.Direction = CountDown
				count = top
			} else {
				count++
			}
		}
	} else {
		if count >= top {
			count = 0
		} else {
			count++
		}
	}

	atTOP := count == top
	atBOTTOM := count == 0

	if count == m.visibleOCR(cfg, &cfg.ChannelA, &st.visibleOCRA, mode) {
		matchedA = true
	}
	if count == m.visibleOCR(cfg, &cfg.ChannelB, &st.visibleOCRB, mode) {
		matchedB = true
	}

	m.setCounterValue(cfg, count)

	if matchedA {
		st.periodMatchedA = true
	}
	if matchedB {
		st.periodMatchedB = true
	}

	if (mode.TOVAtTOP && atTOP) || (!mode.TOVAtTOP && atBOTTOM) {
		cfg.OverflowFlag.Write(m.DM, true)
		// A channel whose compare-output pin is actually wired up but went
		// a whole period without matching has missed its compare point -
		// typically because software wrote a TOP/OCR combination the
		// counter can never reach (spec.md §9 Open Question 2).
		if (cfg.ChannelA.PinDDR.Read(m.DM) && !st.periodMatchedA) ||
			(cfg.ChannelB.PinDDR.Read(m.DM) && !st.periodMatchedB) {
			st.missedCompare = true
		} else {
			st.missedCompare = false
		}
		st.periodMatchedA = false
		st.periodMatchedB = false
	}

	m.applyCompareMatch(mode, cfg, &cfg.ChannelA, matchedA, st.Direction)
	m.applyCompareMatch(mode, cfg, &cfg.ChannelB, matchedB, st.Direction)

	// Copy the OCR buffer (what software writes) into the visible,
	// compared-against register at the mode's update point (spec.md §4.2).
	atUpdatePoint := (mode.Update == UpdateAtTOP && atTOP) || (mode.Update == UpdateAtBOTTOM && atBOTTOM)
	if atUpdatePoint {
		st.visibleOCRA = m.readCounterPair(cfg.ChannelA.OCRLow, cfg.ChannelA.OCRHigh)
		st.visibleOCRB = m.readCounterPair(cfg.ChannelB.OCRLow, cfg.ChannelB.OCRHigh)
	}

	if cfg.HasICR {
		pin := cfg.ICRPin.Read(m.DM)
		rising := pin && !st.lastCapturePin
		falling := !pin && st.lastCapturePin
		st.lastCapturePin = pin
		wantRising := cfg.ICREdgeRising.Read(m.DM)
		if (wantRising && rising) || (!wantRising && falling) {
			m.writeCounterPair(cfg.ICRLow, cfg.ICRHigh, count)
			cfg.ICRFlag.Write(m.DM, true)
		}
	}
}

func (m *MachineState) timerTop(cfg *TimerConfig, mode WaveformModeInfo, st *TimerState) uint16 {
	switch mode.Top {
	case TopOCRA:
		return m.visibleOCR(cfg, &cfg.ChannelA, &st.visibleOCRA, mode)
	case TopICR:
		if cfg.HasICR {
			return m.readCounterPair(cfg.ICRLow, cfg.ICRHigh)
		}
		return maxCount(cfg.Width)
	case TopFixed0x3FF:
		return 0x3FF
	default:
		return maxCount(cfg.Width)
	}
}

func maxCount(width int) uint16 {
	if width == 8 {
		return 0xFF
	}
	return 0xFFFF
}

func (m *MachineState) counterValue(cfg *TimerConfig) uint16 {
	return m.readCounterPair(cfg.CounterLow, cfg.CounterHigh)
}

func (m *MachineState) setCounterValue(cfg *TimerConfig, v uint16) {
	m.writeCounterPair(cfg.CounterLow, cfg.CounterHigh, v)
}

func (m *MachineState) readCounterPair(lo, hi int) uint16 {
	if hi < 0 {
		return uint16(m.DM[lo])
	}
	return readPair(m.DM, lo)
}

func (m *MachineState) writeCounterPair(lo, hi int, v uint16) {
	if hi < 0 {
		m.DM[lo] = byte(v)
		return
	}
	writePair(m.DM, lo, v)
}

// visibleOCR returns the channel's currently visible compare/TOP value:
// the live buffer for UpdateImmediate modes, or the double-buffered
// shadow register — only refreshed from the buffer at the mode's
// update point — for the PWM modes (spec.md §4.2).
func (m *MachineState) visibleOCR(cfg *TimerConfig, ch *TimerChannelConfig, visible *uint16, mode WaveformModeInfo) uint16 {
	if mode.Update == UpdateImmediate {
		return m.readCounterPair(ch.OCRLow, ch.OCRHigh)
	}
	return *visible
}

func (m *MachineState) applyCompareMatch(mode WaveformModeInfo, cfg *TimerConfig, ch *TimerChannelConfig, matched bool, dir CountDirection) {
	if !matched {
		return
	}
	ch.CompareFlag.Write(m.DM, true)
	com := rawCOM(m.DM, ch.COMBits)
	action := cfg.compareTable[compareKey{mode.Kind, com, dir}]
	if action == ActionNone {
		return
	}
	if !ch.PinDDR.Read(m.DM) {
		return
	}
	switch action {
	case ActionToggle:
		ch.PinPort.Write(m.DM, !ch.PinPort.Read(m.DM))
	case ActionClear:
		ch.PinPort.Write(m.DM, false)
	case ActionSet:
		ch.PinPort.Write(m.DM, true)
	}
}

func rawClockSelect(dm []byte, bits [3]IOBit) ClockSelect {
	v := 0
	for i, b := range bits {
		if b.Read(dm) {
			v |= 1 << i
		}
	}
	return ClockSelect(v)
}

func rawWGM(dm []byte, bits []IOBit) int {
	v := 0
	for i, b := range bits {
		if b.Read(dm) {
			v |= 1 << i
		}
	}
	return v
}

func rawCOM(dm []byte, bits [2]IOBit) int {
	v := 0
	for i, b := range bits {
		if b.Read(dm) {
			v |= 1 << i
		}
	}
	return v
}
