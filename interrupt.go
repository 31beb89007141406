// interrupt.go - the interrupt arbiter (spec.md §4.3): samples pending
// vectors between instructions, selects the lowest-addressed one, and
// dispatches to it.

package main

// serviceInterrupts runs one arbitration pass. It must only be called
// at an instruction boundary (spec.md §4.5's "in_multi == false").
func (m *MachineState) serviceInterrupts() {
	if m.Interrupts.ExecMain {
		m.Interrupts.ExecMain = false
		return
	}
	if !m.GetI() {
		return
	}

	for i, v := range m.Profile.Vectors {
		if i == 0 {
			continue // reset vector is never arbiter-dispatched
		}
		if v.EnableBit.Read(m.DM) && v.RaisedBit.Read(m.DM) {
			m.Interrupts.Pending[i] = true
		}
	}

	slot := -1
	for i, pending := range m.Interrupts.Pending {
		if pending {
			slot = i
			break
		}
	}
	if slot < 0 {
		return
	}

	v := m.Profile.Vectors[slot]
	v.RaisedBit.Write(m.DM, false)
	m.Interrupts.Pending[slot] = false
	m.SetI(false)
	m.pushPC(m.PC)
	m.PC = uint32(m.Profile.IVTBase + v.VectorOffset*m.Profile.VectorStride)

	if m.RunState == RunStateSleeping {
		m.RunState = RunStateRunning
	}

	if m.Interrupts.TrapAtISR {
		m.RunState = RunStateStopped
	}
}
