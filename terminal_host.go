// terminal_host.go - the local interactive console (SPEC_FULL.md §4.12),
// the other DebugTarget front end alongside debug_server.go. Raw stdin
// reading in its own goroutine, the same shape the teacher repo used for
// routing host keystrokes into a device, adapted here to assemble whole
// command lines and queue them for ServiceOne instead of forwarding
// single bytes to an MMIO device.

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"
)

// TerminalHost is the local console: raw stdin, line-buffered commands,
// serviced one at a time from the driver's idle pass.
type TerminalHost struct {
	target *machineDebugTarget

	stopCh  chan struct{}
	done    chan struct{}
	stopped sync.Once

	fd           int
	nonblockSet  bool
	oldTermState *term.State

	lines chan string
	buf   []byte
}

// NewTerminalHost creates a console adapter driving target.
func NewTerminalHost(target *machineDebugTarget) *TerminalHost {
	return &TerminalHost{
		target: target,
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
		lines:  make(chan string, 8),
	}
}

// Start puts stdin in raw, non-blocking mode and begins reading in a
// goroutine. Call Stop() to restore stdin.
func (h *TerminalHost) Start() {
	h.fd = int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(h.fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "terminal_host: failed to set raw mode: %v\n", err)
		close(h.done)
		return
	}
	h.oldTermState = oldState

	if err := syscall.SetNonblock(h.fd, true); err != nil {
		fmt.Fprintf(os.Stderr, "terminal_host: failed to set nonblocking stdin: %v\n", err)
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
		close(h.done)
		return
	}
	h.nonblockSet = true

	go func() {
		defer close(h.done)
		buf := make([]byte, 1)

		for {
			select {
			case <-h.stopCh:
				return
			default:
			}

			n, err := syscall.Read(h.fd, buf)
			if n > 0 {
				b := buf[0]
				if b == '\r' || b == '\n' {
					if len(h.buf) > 0 {
						h.lines <- string(h.buf)
						h.buf = h.buf[:0]
					}
				} else if b == 0x7F || b == 0x08 {
					if len(h.buf) > 0 {
						h.buf = h.buf[:len(h.buf)-1]
					}
				} else {
					h.buf = append(h.buf, b)
				}
			}
			if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK {
				time.Sleep(5 * time.Millisecond)
				continue
			}
			if err != nil {
				return
			}
			if n == 0 {
				time.Sleep(5 * time.Millisecond)
			}
		}
	}()
}

// Stop terminates the reading goroutine and restores stdin to its
// original state.
func (h *TerminalHost) Stop() {
	h.stopped.Do(func() {
		close(h.stopCh)
	})
	<-h.done
	if h.nonblockSet {
		_ = syscall.SetNonblock(h.fd, false)
		h.nonblockSet = false
	}
	if h.oldTermState != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
	}
}

// ServiceOne restores any breakpoint lifted by a previous step/continue,
// then processes exactly one queued command line, if any (the same
// one-command-per-idle-pass contract as debug_server.go).
func (h *TerminalHost) ServiceOne(m *MachineState) {
	h.target.restoreLiftedBreakpoint()

	select {
	case line := <-h.lines:
		h.runCommand(line)
	default:
	}
}

func (h *TerminalHost) runCommand(line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}

	switch fields[0] {
	case "regs":
		regs := h.target.ReadRegisters()
		fmt.Printf("\r\nPC=%04x SREG=%02x SP=%02x%02x\r\n", h.target.PC(), regs[32], regs[34], regs[33])
		for i := 0; i < 32; i += 8 {
			fmt.Printf("r%-2d-r%-2d: % 02x\r\n", i, i+7, regs[i:i+8])
		}
	case "mem":
		if len(fields) != 3 {
			fmt.Print("\r\nusage: mem <addr> <len>\r\n")
			return
		}
		addr, err1 := strconv.ParseInt(fields[1], 0, 64)
		size, err2 := strconv.Atoi(fields[2])
		if err1 != nil || err2 != nil {
			fmt.Print("\r\nbad address or length\r\n")
			return
		}
		fmt.Printf("\r\n% 02x\r\n", h.target.ReadMemory(int(addr), size))
	case "break":
		if len(fields) != 2 {
			fmt.Print("\r\nusage: break <addr>\r\n")
			return
		}
		addr, err := strconv.ParseInt(fields[1], 0, 64)
		if err != nil {
			fmt.Print("\r\nbad address\r\n")
			return
		}
		h.target.SetBreakpoint(uint32(addr))
		fmt.Printf("\r\nbreakpoint set at 0x%04x\r\n", addr)
	case "clear":
		if len(fields) != 2 {
			fmt.Print("\r\nusage: clear <addr>\r\n")
			return
		}
		addr, err := strconv.ParseInt(fields[1], 0, 64)
		if err != nil {
			fmt.Print("\r\nbad address\r\n")
			return
		}
		h.target.ClearBreakpoint(uint32(addr))
		fmt.Printf("\r\nbreakpoint cleared at 0x%04x\r\n", addr)
	case "step":
		h.target.Step()
	case "continue", "c":
		h.target.Continue()
	case "halt":
		h.target.Halt()
	case "quit", "q":
		h.target.m.RunState = RunStateStop
	default:
		fmt.Printf("\r\nunknown command %q\r\n", fields[0])
	}
}
