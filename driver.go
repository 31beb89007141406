// driver.go - the orchestration loop (spec.md §4.5): decode-execute,
// cycle advance, timer tick, interrupt arbitration, trace sampling,
// scripting-hook tick, in that strict order (spec.md §5).

package main

// TraceSampler receives one sampled tick. *VCDWriter implements this.
type TraceSampler interface {
	Sample(m *MachineState)
	Close() error
}

// ScriptHost ticks an extension model once per cycle. *LuaHost
// implements this.
type ScriptHost interface {
	Conf(mcuName string) error
	Tick(mcuName string) error
	Detached() bool
}

// IdleHandler services exactly one pending request (remote-debug packet
// or local console command) per idle pass (spec.md §6 "Debug endpoint").
type IdleHandler interface {
	ServiceOne(m *MachineState)
}

// Driver composes MachineState with its optional external collaborators
// and runs the cooperative loop (spec.md §5).
type Driver struct {
	Machine *MachineState
	MCUName string

	Trace   TraceSampler
	Scripts []ScriptHost
	Idle    []IdleHandler
}

// Run executes iterations until RunState leaves the running set, or
// until Stopped with no idle front end left to revive it. A debug
// front end (remote listener or local console) keeps the loop alive
// across Stopped so it can still process exactly one command per idle
// pass while halted (spec.md §6 "Debug endpoint"). Sleeping suspends
// instruction execution but not the per-cycle tick, so a pending
// interrupt can still wake the core. It returns the final run state so
// the caller can compute an exit code (spec.md §6 "Exit codes").
func (d *Driver) Run() RunState {
	m := d.Machine
	for {
		switch m.RunState {
		case RunStateStop, RunStateTestFail:
			return m.RunState
		case RunStateStopped:
			if len(d.Idle) == 0 {
				return m.RunState
			}
			for _, h := range d.Idle {
				h.ServiceOne(m)
			}
			continue
		}

		if m.RunState == RunStateSleeping {
			m.Cycles++ // the clock keeps running even though no instruction is fetched
		} else {
			Step(m)
		}

		d.tickCycle()

		if m.RunState == RunStateStep && !m.InMulti {
			m.RunState = RunStateStopped
		}
	}
}

// tickCycle runs the per-cycle work in spec.md §4.5's order: advance
// the timers, then — at an instruction boundary — run the interrupt
// arbiter, then sample the trace writer and tick the scripting hook.
// Running the arbiter before the timer tick would leave a compare or
// overflow flag raised on this very cycle invisible until a whole
// extra instruction later, which spec.md §5 rules out explicitly.
func (d *Driver) tickCycle() {
	m := d.Machine
	m.tickTimers()

	if !m.InMulti {
		m.serviceInterrupts()
	}

	if d.Trace != nil {
		d.Trace.Sample(m)
	}

	for _, s := range d.Scripts {
		if s.Detached() {
			continue
		}
		if err := s.Tick(d.MCUName); err != nil {
			logf("scripting hook error, detaching: %v", err)
		}
	}

	for _, h := range d.Idle {
		h.ServiceOne(m)
	}
}
