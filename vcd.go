// vcd.go - the VCD waveform writer (spec.md §6 "Trace dump",
// SPEC_FULL.md §4.9). Emits one $var per dump_regs entry and
// change-only sample blocks so a re-read of the dump reproduces the
// original value series at the ticks it was recorded.

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// vcdVar describes one traced quantity: a full register byte (r0..r31
// or SREG), a single bit of one of those, or the 32-bit PC. Register
// pairs are not traced as one variable.
type vcdVar struct {
	name  string
	id    string
	width int
	read  func(m *MachineState) uint64
}

// VCDWriter implements TraceSampler.
type VCDWriter struct {
	w      *bufio.Writer
	closer io.Closer
	vars   []vcdVar
	last   []uint64
	have   []bool
	tick   uint64
}

// NewVCDWriter opens path and writes the VCD header for the given
// dump_regs specification (spec.md §6: register names, optionally
// suffixed with a bit index).
func NewVCDWriter(path string, mcuFreq uint64, specs []string, p *DeviceProfile) (*VCDWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, configErrorf("create vcd file %s: %v", path, err)
	}
	w := &VCDWriter{w: bufio.NewWriter(f), closer: f}

	for i, spec := range specs {
		v, err := resolveVCDVar(spec, p)
		if err != nil {
			f.Close()
			return nil, configErrorf("dump_regs %q: %v", spec, err)
		}
		v.id = vcdID(i)
		w.vars = append(w.vars, v)
	}
	w.last = make([]uint64, len(w.vars))
	w.have = make([]bool, len(w.vars))

	timescale := uint64(1e12)
	if mcuFreq != 0 {
		timescale /= mcuFreq
	}
	fmt.Fprintf(w.w, "$timescale %d ps $end\n", timescale)
	fmt.Fprintln(w.w, "$scope module avrsim $end")
	for _, v := range w.vars {
		fmt.Fprintf(w.w, "$var wire %d %s %s $end\n", v.width, v.id, v.name)
	}
	fmt.Fprintln(w.w, "$upscope $end")
	fmt.Fprintln(w.w, "$enddefinitions $end")
	return w, nil
}

// resolveVCDVar parses a dump_regs entry: a bare name (e.g. "r16",
// "r5", "sreg", "pc") dumps the full value; a name suffixed with a bit
// digit 0..7 (e.g. "sreg5", or "r165" for bit 5 of r16) dumps that
// single bit. "r" followed by a number 0..31 always names a whole register.
func resolveVCDVar(spec string, p *DeviceProfile) (vcdVar, error) {
	name := spec
	bit := -1
	i := len(spec)
	for i > 0 && spec[i-1] >= '0' && spec[i-1] <= '9' {
		i--
	}
	if i < len(spec) && i > 0 {
		digits := spec[i:]
		if spec[:i] == "r" {
			last := digits[len(digits)-1]
			if n, err := strconv.Atoi(digits); (err != nil || n > 31) && len(digits) > 1 && last < '8' {
				name = spec[:len(spec)-1]
				bit = int(last - '0')
			}
		} else if n, err := strconv.Atoi(digits); err == nil && n < 8 {
			name = spec[:i]
			bit = n
		}
	}

	switch {
	case name == "pc":
		return vcdVar{name: spec, width: 32, read: func(m *MachineState) uint64 { return uint64(m.PC) }}, nil
	case name == "sreg" && bit >= 0:
		return vcdVar{name: spec, width: 1, read: func(m *MachineState) uint64 {
			if m.getFlag(uint(bit)) {
				return 1
			}
			return 0
		}}, nil
	case name == "sreg":
		return vcdVar{name: spec, width: 8, read: func(m *MachineState) uint64 { return uint64(m.sreg()) }}, nil
	case len(name) > 1 && name[0] == 'r':
		n, err := strconv.Atoi(name[1:])
		if err != nil || n < 0 || n > 31 {
			return vcdVar{}, fmt.Errorf("unknown register %q", name)
		}
		if bit >= 0 {
			return vcdVar{name: spec, width: 1, read: func(m *MachineState) uint64 {
				if m.Reg(n)&(1<<uint(bit)) != 0 {
					return 1
				}
				return 0
			}}, nil
		}
		return vcdVar{name: spec, width: 8, read: func(m *MachineState) uint64 { return uint64(m.Reg(n)) }}, nil
	default:
		return vcdVar{}, fmt.Errorf("unknown trace register %q", spec)
	}
}

// DumpVars writes the initial $dumpvars section. Must be called once
// after the machine's starting state is established, before the first
// sampled tick.
func (w *VCDWriter) DumpVars() {
	fmt.Fprintln(w.w, "$dumpvars")
	// values are filled in on the first Sample call.
	fmt.Fprintln(w.w, "$end")
}

// Sample records the current value of every traced variable, emitting
// a tick block only for variables that changed since the last sample
// (spec.md §6 "only on change").
func (w *VCDWriter) Sample(m *MachineState) {
	var changed []int
	for i, v := range w.vars {
		val := v.read(m)
		if !w.have[i] || val != w.last[i] {
			changed = append(changed, i)
			w.last[i] = val
			w.have[i] = true
		}
	}
	if len(changed) == 0 {
		w.tick++
		return
	}
	fmt.Fprintf(w.w, "#%d\n", w.tick)
	for _, i := range changed {
		v := w.vars[i]
		fmt.Fprintf(w.w, "b%s %s\n", binaryString(w.last[i], v.width), v.id)
	}
	w.tick++
}

// Close flushes and closes the underlying file (spec.md §7d: surfaced
// to the driver, not swallowed).
func (w *VCDWriter) Close() error {
	if err := w.w.Flush(); err != nil {
		return err
	}
	return w.closer.Close()
}

func binaryString(v uint64, width int) string {
	var b strings.Builder
	for i := width - 1; i >= 0; i-- {
		if v&(1<<uint(i)) != 0 {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// vcdID generates a short printable identifier for the i'th variable,
// using the VCD convention of the printable ASCII range starting at '!'.
func vcdID(i int) string {
	const base = 94 // '!'(33) through '~'(126)
	var b strings.Builder
	for {
		b.WriteByte(byte('!' + i%base))
		i /= base
		if i == 0 {
			break
		}
		i--
	}
	return b.String()
}
