// decode.go - the top-level dispatcher: fetch, try each opcode-family
// matcher in turn, latch or apply its effect, and advance PC (spec.md
// §4.1 "Dispatch" and "Multi-cycle yielding").

package main

// tryDecoders is the ordered list of opcode-family matchers. Order
// matters where opcode masks overlap, since the first match wins: SER Rd
// is the LDI Rd, 0xFF encoding, so tryMove's LDI case decodes it before
// tryMisc's SER case is reached, with the same effect.
var tryDecoders = []func(m *MachineState, w uint16) (bool, int, effectFn){
	tryArith,
	tryLogic,
	tryBit,
	tryBranch,
	tryMove,
	tryCtrl,
	tryMisc,
}

// Step executes one decode/execute cycle: if an instruction is already
// mid-flight (InMulti), it just burns a cycle and, on the last one,
// applies the latched effect; otherwise it fetches, decodes, and either
// executes immediately (1-cycle instructions) or latches the effect and
// goes multi-cycle (spec.md §4.1 "Multi-cycle yielding", §9's "decode
// once, apply on completion" design note).
func Step(m *MachineState) StepResult {
	if m.InMulti {
		m.CyclesRemaining--
		m.Cycles++
		if m.CyclesRemaining > 0 {
			return StepOk
		}
		m.InMulti = false
		m.runPending()
		return StepOk
	}

	w := m.FetchWord(m.PC)
	var matched bool
	var cycles int
	var effect effectFn
	for _, try := range tryDecoders {
		matched, cycles, effect = try(m, w)
		if matched {
			break
		}
	}
	if !matched {
		m.RunState = RunStateTestFail
		return StepUnknownInstruction
	}

	m.pendingFn = effect
	m.pendingWords = instrWordCount(w)
	m.Cycles++

	if cycles <= 1 {
		m.runPending()
		return StepOk
	}
	m.InMulti = true
	m.CyclesRemaining = cycles - 1
	return StepOk
}

// runPending applies the latched effect and advances PC, unless the
// effect already claimed responsibility for PC (branch/call/skip/jump
// instructions set m.jumped).
func (m *MachineState) runPending() {
	m.jumped = false
	if m.pendingFn != nil {
		m.pendingFn(m)
	}
	if !m.jumped {
		m.PC += uint32(m.pendingWords) * 2
	}
	m.pendingFn = nil
	m.pendingWords = 0
}
