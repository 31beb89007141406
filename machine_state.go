// machine_state.go - the mutable world (spec.md §3 "Machine State").

package main

// TimerState is the mutable per-timer bookkeeping that sits outside the
// static TimerConfig: prescaler accumulator, count direction, OCR double
// buffer, edge-detection history. Per spec.md §9 "Global mutable state"
// this lives here, per-instance, rather than as package-level statics -
// a second Machine must never see another's prescaler phase.
type TimerState struct {
	PrescalerTicks int
	Direction      CountDirection

	// visibleOCRA/B are the double-buffered compare registers actually
	// used for comparison and as a TOP source; OCRnx in dm is the buffer
	// software writes, copied in at the mode's update point (spec.md §3
	// "double-buffer for OCR", §4.2).
	visibleOCRA, visibleOCRB uint16

	lastExtClock   bool
	lastCapturePin bool

	periodMatchedA, periodMatchedB bool // spec.md §4.2: has either channel matched since the last TOV?
	missedCompare                  bool // spec.md §4.2 "missed compare" latch, per-timer (spec.md §9 Open Question 2)
	loggedReservedWGM              bool // spec.md §7c: log a reserved WGM value only once per timer
}

// InterruptState is the mutable half of spec.md §3's "Interrupt-
// subsystem state": the per-vector pending latches and the two global
// one-shot flags.
type InterruptState struct {
	Pending   []bool // indexed like DeviceProfile.Vectors
	ExecMain  bool
	TrapAtISR bool
}

// MachineState is the mutable world the decoder, timer and interrupt
// arbiter all read and write (spec.md §3 "Machine State").
type MachineState struct {
	Profile *DeviceProfile

	Flash    []byte
	PageBuf  []byte // self-programming page buffer, spec.md §3 "Flash"
	MatchMem []byte // match-point shadow flash: what actually gets fetched, normally a copy of Flash, diverging only where a software breakpoint substitutes BREAK

	DM []byte // registers + I/O + SRAM, flat (spec.md §3 "Data memory")

	PC     uint32
	Cycles uint64

	InMulti         bool
	CyclesRemaining int
	pendingFn       func(m *MachineState) // latched effect of a multi-cycle instruction
	pendingWords    int                   // word size of the latched instruction, for PC auto-advance
	jumped          bool                  // set by an effect that manages PC itself (branch/call/skip/jump)

	RunState RunState

	Interrupts InterruptState
	Timers     []TimerState

	// Fuse bytes as configured. They are stored only: nothing decodes
	// them against the profile's FuseField tables, enforces them, or
	// exposes them to scripts or dump_regs.
	LFuse, HFuse, EFuse byte

	// spmArmed is neither read nor set anywhere: execSPM completes each
	// self-programming operation within its own cycle (spec.md §4.1 "SPM").
	spmArmed bool
}

// NewMachineState allocates a machine sized to the given device profile.
func NewMachineState(p *DeviceProfile) *MachineState {
	m := &MachineState{
		Profile:  p,
		Flash:    make([]byte, p.FlashSize),
		PageBuf:  make([]byte, p.SPMPageSize),
		MatchMem: make([]byte, p.FlashSize),
		DM:       make([]byte, p.DMSize),
		RunState: RunStateRunning,
	}
	copy(m.MatchMem, m.Flash)
	m.Interrupts.Pending = make([]bool, len(p.Vectors))
	m.Timers = make([]TimerState, len(p.Timers))
	return m
}

// Reset zeroes registers, SREG, PC and cycle count, and reloads the
// match-point shadow from flash, but leaves loaded flash contents alone.
func (m *MachineState) Reset() {
	for i := range m.DM {
		m.DM[i] = 0
	}
	copy(m.MatchMem, m.Flash)
	m.PC = 0
	m.Cycles = 0
	m.InMulti = false
	m.CyclesRemaining = 0
	m.pendingFn = nil
	m.RunState = RunStateRunning
	for i := range m.Interrupts.Pending {
		m.Interrupts.Pending[i] = false
	}
	m.Interrupts.ExecMain = false
	m.Timers = make([]TimerState, len(m.Profile.Timers))
}

// SP returns the current stack pointer (spec.md §4.4).
func (m *MachineState) SP() uint16 {
	return uint16(m.DM[m.Profile.SPL]) | uint16(m.DM[m.Profile.SPH])<<8
}

// SetSP sets the stack pointer.
func (m *MachineState) SetSP(v uint16) {
	m.DM[m.Profile.SPL] = byte(v)
	m.DM[m.Profile.SPH] = byte(v >> 8)
}

// Reg returns general-purpose register Rn (n in [0,31]).
func (m *MachineState) Reg(n int) byte { return m.DM[n] }

// SetReg writes general-purpose register Rn.
func (m *MachineState) SetReg(n int, v byte) { m.DM[n] = v }

// FetchWord reads the little-endian 16-bit instruction word at PC from
// the match-point shadow, so a software breakpoint's substituted BREAK
// opcode is what actually executes (spec.md §4.1 "Fetch").
func (m *MachineState) FetchWord(pc uint32) uint16 {
	return uint16(m.MatchMem[pc]) | uint16(m.MatchMem[pc+1])<<8
}
