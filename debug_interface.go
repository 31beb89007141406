// debug_interface.go - DebugTarget, the shared backend the remote-debug
// listener and the local console both drive (SPEC_FULL.md §4.11,
// §4.12: "alternate front ends onto one backend").

package main

// DebugTarget is the single-core debug surface both front ends use.
// Breakpoints are implemented by substituting the opcode word at the
// chosen address with BREAK in the match-point shadow flash, which is
// what the core always fetches from. Step or Continue from a breakpoint
// address puts the original word back in the shadow for that one resume
// so the real opcode executes, and restoreLiftedBreakpoint re-inserts
// BREAK afterwards; there is no separate one-shot fetch-source flag.
type DebugTarget interface {
	ReadRegisters() []byte // R0..R31, SREG, SPL, SPH in that order
	WriteRegister(n int, v byte)

	ReadMemory(addr, size int) []byte
	WriteMemory(addr int, data []byte)

	PC() uint32
	SetPC(pc uint32)

	SetBreakpoint(addr uint32) bool
	ClearBreakpoint(addr uint32) bool

	Step()
	Continue()
	Halt()
	HaltReason() string
}

// machineDebugTarget adapts *MachineState to DebugTarget.
type machineDebugTarget struct {
	m           *MachineState
	breakpoints map[uint32]uint16 // addr -> original opcode word replaced by BREAK
	liftedBP    *uint32           // breakpoint address temporarily lifted for one step-over, if any
}

func newDebugTarget(m *MachineState) *machineDebugTarget {
	return &machineDebugTarget{m: m, breakpoints: make(map[uint32]uint16)}
}

func (d *machineDebugTarget) ReadRegisters() []byte {
	out := make([]byte, 0, 35)
	for i := 0; i < 32; i++ {
		out = append(out, d.m.Reg(i))
	}
	out = append(out, d.m.sreg(), d.m.DM[d.m.Profile.SPL], d.m.DM[d.m.Profile.SPH])
	return out
}

func (d *machineDebugTarget) WriteRegister(n int, v byte) {
	switch {
	case n < 32:
		d.m.SetReg(n, v)
	case n == 32:
		d.m.DM[d.m.Profile.SREG] = v
	case n == 33:
		d.m.DM[d.m.Profile.SPL] = v
	case n == 34:
		d.m.DM[d.m.Profile.SPH] = v
	}
}

func (d *machineDebugTarget) ReadMemory(addr, size int) []byte {
	out := make([]byte, size)
	copy(out, d.m.DM[addr:addr+size])
	return out
}

func (d *machineDebugTarget) WriteMemory(addr int, data []byte) {
	copy(d.m.DM[addr:addr+len(data)], data)
}

func (d *machineDebugTarget) PC() uint32      { return d.m.PC }
func (d *machineDebugTarget) SetPC(pc uint32) { d.m.PC = pc }

// SetBreakpoint substitutes the opcode word at addr with BREAK (0x9598)
// in match-point memory; the flash itself is untouched.
func (d *machineDebugTarget) SetBreakpoint(addr uint32) bool {
	if _, exists := d.breakpoints[addr]; exists {
		return false
	}
	d.breakpoints[addr] = uint16(d.m.MatchMem[addr]) | uint16(d.m.MatchMem[addr+1])<<8
	d.m.MatchMem[addr] = 0x98
	d.m.MatchMem[addr+1] = 0x95
	return true
}

func (d *machineDebugTarget) ClearBreakpoint(addr uint32) bool {
	orig, exists := d.breakpoints[addr]
	if !exists {
		return false
	}
	d.m.MatchMem[addr] = byte(orig)
	d.m.MatchMem[addr+1] = byte(orig >> 8)
	delete(d.breakpoints, addr)
	return true
}

// Step executes exactly one instruction. If a breakpoint sits at the
// current PC, its BREAK substitution is lifted for this one step so the
// real instruction runs instead of halting again immediately;
// restoreLiftedBreakpoint puts it back once the step has actually run.
func (d *machineDebugTarget) Step() {
	d.liftBreakpointAt(d.m.PC)
	d.m.RunState = RunStateStep
}

func (d *machineDebugTarget) Continue() {
	d.liftBreakpointAt(d.m.PC)
	d.m.RunState = RunStateRunning
}

func (d *machineDebugTarget) liftBreakpointAt(addr uint32) {
	orig, hasBP := d.breakpoints[addr]
	if !hasBP {
		return
	}
	d.m.MatchMem[addr] = byte(orig)
	d.m.MatchMem[addr+1] = byte(orig >> 8)
	a := addr
	d.liftedBP = &a
}

// restoreLiftedBreakpoint re-inserts a breakpoint that Step/Continue
// lifted, once the machine is halted again. Front ends call this before
// servicing the next command.
func (d *machineDebugTarget) restoreLiftedBreakpoint() {
	if d.liftedBP == nil {
		return
	}
	d.m.MatchMem[*d.liftedBP] = 0x98
	d.m.MatchMem[*d.liftedBP+1] = 0x95
	d.liftedBP = nil
}

func (d *machineDebugTarget) Halt() {
	d.m.RunState = RunStateStopped
}

func (d *machineDebugTarget) HaltReason() string {
	return d.m.RunState.String()
}
