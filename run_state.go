// run_state.go - the closed set of run states the driver loop and its
// collaborators (scripting hook, debug listener) can observe or set.

package main

// RunState is the machine's cooperative scheduling state. The driver
// loop checks it at the top of every iteration; any collaborator may
// change it between cycles.
type RunState int

const (
	// RunStateRunning executes instructions without restriction.
	RunStateRunning RunState = iota
	// RunStateStopped is a normal halt (BREAK, explicit request). With no
	// debug front end the driver loop returns on it; with one, the loop
	// keeps servicing the front end, which can resume execution.
	RunStateStopped
	// RunStateSleeping models the AVR SLEEP instruction: the core idles
	// but timers and the interrupt arbiter keep running.
	RunStateSleeping
	// RunStateStep executes exactly one instruction then reverts to Stopped.
	RunStateStep
	// RunStateStop is a request to halt recognized at the next loop top;
	// distinct from Stopped so a debug client can tell "asked to stop"
	// apart from "already stopped".
	RunStateStop
	// RunStateTestFail marks an architectural error (spec.md §7b); the
	// process exits non-zero.
	RunStateTestFail
)

func (s RunState) String() string {
	switch s {
	case RunStateRunning:
		return "Running"
	case RunStateStopped:
		return "Stopped"
	case RunStateSleeping:
		return "Sleeping"
	case RunStateStep:
		return "Step"
	case RunStateStop:
		return "Stop"
	case RunStateTestFail:
		return "TestFail"
	default:
		return "Unknown"
	}
}

// ParseRunState maps the state names the scripting hook's set_run_state
// accepts (spec.md §6) back to a RunState. Its caller is the Lua host's
// set_run_state.
func ParseRunState(name string) (RunState, bool) {
	switch name {
	case "Running":
		return RunStateRunning, true
	case "Stopped":
		return RunStateStopped, true
	case "Sleeping":
		return RunStateSleeping, true
	case "Step":
		return RunStateStep, true
	case "Stop":
		return RunStateStop, true
	case "TestFail":
		return RunStateTestFail, true
	default:
		return RunStateRunning, false
	}
}
