// timer_tables.go - the waveform-generation-mode and compare-output-mode
// matrices. Per spec.md §9 these are static configuration, built once
// when a DeviceProfile's TimerConfig is constructed, never recomputed on
// the hot per-cycle tick path.

package main

// ClockSelect is the CSn[2:0] clock-source selector.
type ClockSelect int

const (
	ClockStopped ClockSelect = iota
	ClockDiv1
	ClockDiv8
	ClockDiv64
	ClockDiv256
	ClockDiv1024
	ClockExtFalling
	ClockExtRising
)

// prescalerDivisor returns the tick divisor for internal clock sources;
// external sources and Stopped are handled separately by the caller.
func (c ClockSelect) prescalerDivisor() int {
	switch c {
	case ClockDiv1:
		return 1
	case ClockDiv8:
		return 8
	case ClockDiv64:
		return 64
	case ClockDiv256:
		return 256
	case ClockDiv1024:
		return 1024
	default:
		return 0
	}
}

func (c ClockSelect) isExternal() bool {
	return c == ClockExtFalling || c == ClockExtRising
}

// TopSource names where a waveform mode's TOP value comes from.
type TopSource int

const (
	TopFixedMax   TopSource = iota // 0xFF (8-bit) or 0xFFFF (16-bit)
	TopFixed0x3FF                  // 10-bit fast/phase-correct PWM
	TopOCRA                        // OCRnA
	TopICR                         // ICRn
)

// OCRUpdatePoint names when the double-buffered OCR "pending" value is
// copied into the "visible" value used by the compare logic.
type OCRUpdatePoint int

const (
	UpdateImmediate OCRUpdatePoint = iota
	UpdateAtTOP
	UpdateAtBOTTOM
)

// CountDirection distinguishes the up/up-down counting waveform modes.
type CountDirection int

const (
	CountUp CountDirection = iota
	CountDown
)

// WaveformKind is the closed set of generation modes spec.md §4.2 names.
type WaveformKind int

const (
	WaveNormal WaveformKind = iota
	WaveCTC
	WaveFastPWM
	WavePhaseCorrectPWM
	WavePhaseFreqCorrectPWM
)

// WaveformModeInfo is one row of the per-timer WGM table: what TOP
// source, double-buffer update point, and TOV-raise point a given raw
// WGM bit pattern selects.
type WaveformModeInfo struct {
	Kind       WaveformKind
	Top        TopSource
	Update     OCRUpdatePoint
	TOVAtTOP   bool // true: TOV raised at TOP; false: raised at BOTTOM (wrap to 0)
	UpDownCount bool
}

// buildWGMTable constructs the raw-WGM-value -> mode-info table for a
// timer of the given counter width, following the canonical ATmega
// 8-bit-timer (Timer0/Timer2 style, WGM2:0) and 16-bit-timer (Timer1
// style, WGM3:0) layouts. Unlisted raw values are the datasheet's
// "reserved" ones and, in the 16-bit table, WGM 2, 3, 6 and 7 (the 9-
// and 10-bit PWM modes), which the table does not carry. All of them
// are handled alike: per spec.md §9 Open Question (1) they are treated as bugs
// to avoid hitting, not silently-normal modes, so tick_timers logs once
// and treats the timer as stopped (spec.md §7c).
func buildWGMTable(width int) map[int]WaveformModeInfo {
	if width == 16 {
		return map[int]WaveformModeInfo{
			0:  {Kind: WaveNormal, Top: TopFixedMax, Update: UpdateImmediate, TOVAtTOP: false},
			1:  {Kind: WavePhaseCorrectPWM, Top: TopFixedMax, Update: UpdateAtTOP, TOVAtTOP: false, UpDownCount: true},
			4:  {Kind: WaveCTC, Top: TopOCRA, Update: UpdateImmediate, TOVAtTOP: false},
			5:  {Kind: WaveFastPWM, Top: TopFixedMax, Update: UpdateAtBOTTOM, TOVAtTOP: true},
			8:  {Kind: WavePhaseFreqCorrectPWM, Top: TopICR, Update: UpdateAtBOTTOM, TOVAtTOP: false, UpDownCount: true},
			9:  {Kind: WavePhaseFreqCorrectPWM, Top: TopOCRA, Update: UpdateAtBOTTOM, TOVAtTOP: false, UpDownCount: true},
			10: {Kind: WavePhaseCorrectPWM, Top: TopICR, Update: UpdateAtTOP, TOVAtTOP: false, UpDownCount: true},
			11: {Kind: WavePhaseCorrectPWM, Top: TopOCRA, Update: UpdateAtTOP, TOVAtTOP: false, UpDownCount: true},
			12: {Kind: WaveCTC, Top: TopICR, Update: UpdateImmediate, TOVAtTOP: false},
			14: {Kind: WaveFastPWM, Top: TopICR, Update: UpdateAtBOTTOM, TOVAtTOP: true},
			15: {Kind: WaveFastPWM, Top: TopOCRA, Update: UpdateAtBOTTOM, TOVAtTOP: true},
		}
	}
	return map[int]WaveformModeInfo{
		0: {Kind: WaveNormal, Top: TopFixedMax, Update: UpdateImmediate, TOVAtTOP: false},
		1: {Kind: WavePhaseCorrectPWM, Top: TopFixedMax, Update: UpdateAtTOP, TOVAtTOP: false, UpDownCount: true},
		2: {Kind: WaveCTC, Top: TopOCRA, Update: UpdateImmediate, TOVAtTOP: false},
		3: {Kind: WaveFastPWM, Top: TopFixedMax, Update: UpdateAtBOTTOM, TOVAtTOP: true},
		5: {Kind: WavePhaseCorrectPWM, Top: TopOCRA, Update: UpdateAtTOP, TOVAtTOP: false, UpDownCount: true},
		7: {Kind: WaveFastPWM, Top: TopOCRA, Update: UpdateAtBOTTOM, TOVAtTOP: true},
	}
}

// CompareAction is the effective pin action a COMnx[1:0] selection
// produces on a compare match, resolved against the current waveform
// mode and (for PWM modes) count direction.
type CompareAction int

const (
	ActionNone CompareAction = iota
	ActionToggle
	ActionClear
	ActionSet
)

// compareActionTable is the 16x16-equivalent (WaveformKind x raw COM
// bits x count direction) lookup described in spec.md §4.2 "Output-
// compare pin action" and §9's static-function-table design note. It is
// built once and indexed at tick time, never recomputed.
type compareKey struct {
	kind      WaveformKind
	com       int // raw COMnx[1:0], 0..3
	direction CountDirection
}

func buildCompareActionTable() map[compareKey]CompareAction {
	t := make(map[compareKey]CompareAction)
	for _, kind := range []WaveformKind{WaveNormal, WaveCTC} {
		t[compareKey{kind, 0, CountUp}] = ActionNone
		t[compareKey{kind, 1, CountUp}] = ActionToggle
		t[compareKey{kind, 2, CountUp}] = ActionClear
		t[compareKey{kind, 3, CountUp}] = ActionSet
	}
	for _, kind := range []WaveformKind{WaveFastPWM, WavePhaseCorrectPWM, WavePhaseFreqCorrectPWM} {
		t[compareKey{kind, 0, CountUp}] = ActionNone
		t[compareKey{kind, 0, CountDown}] = ActionNone
		t[compareKey{kind, 1, CountUp}] = ActionToggle
		t[compareKey{kind, 1, CountDown}] = ActionToggle
		// non-inverting: clear on up-count match, set on down-count match
		t[compareKey{kind, 2, CountUp}] = ActionClear
		t[compareKey{kind, 2, CountDown}] = ActionSet
		// inverting: set on up-count match, clear on down-count match
		t[compareKey{kind, 3, CountUp}] = ActionSet
		t[compareKey{kind, 3, CountDown}] = ActionClear
	}
	return t
}
