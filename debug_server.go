// debug_server.go - the remote-debug listener (spec.md §6 "Debug
// endpoint"): a byte-stream server on rsp_port speaking the standard
// remote-debug protocol subset needed for register/memory access,
// breakpoints, step/continue/halt. Implements IdleHandler so the driver
// services exactly one command per idle pass while halted.

package main

import (
	"bufio"
	"fmt"
	"net"
	"strconv"
	"strings"
)

// DebugServer is one of the two DebugTarget front ends (SPEC_FULL.md
// §4.12), the other being the local console in terminal_host.go.
type DebugServer struct {
	target   *machineDebugTarget
	listener net.Listener
	accepted chan net.Conn
	conn     net.Conn
	r        *bufio.Reader
	packets  chan string
}

// NewDebugServer starts listening on port. Accept runs on its own
// goroutine so ServiceOne never blocks (spec.md §5).
func NewDebugServer(port int, target *machineDebugTarget) (*DebugServer, error) {
	l, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, configErrorf("listen rsp_port %d: %v", port, err)
	}
	s := &DebugServer{
		target:   target,
		listener: l,
		accepted: make(chan net.Conn, 1),
		packets:  make(chan string, 8),
	}
	go s.acceptLoop()
	return s, nil
}

func (s *DebugServer) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		s.accepted <- conn
	}
}

func (s *DebugServer) readLoop() {
	for {
		p, err := readRSPPacket(s.r)
		if err != nil {
			close(s.packets)
			return
		}
		s.packets <- p
	}
}

// ServiceOne processes at most one pending remote-debug packet (spec.md
// §6: "exactly one remote command per main-loop idle pass").
func (s *DebugServer) ServiceOne(m *MachineState) {
	s.target.restoreLiftedBreakpoint()

	if s.conn == nil {
		select {
		case conn := <-s.accepted:
			s.conn = conn
			s.r = bufio.NewReader(conn)
			go s.readLoop()
		default:
			return
		}
	}

	select {
	case p, ok := <-s.packets:
		if !ok {
			s.conn.Close()
			s.conn = nil
			return
		}
		s.handlePacket(p)
	default:
	}
}

func (s *DebugServer) handlePacket(p string) {
	s.conn.Write([]byte{'+'}) // ack every received packet

	var reply string
	switch {
	case p == "?":
		reply = "S05"
	case p == "g":
		reply = hexEncode(s.target.ReadRegisters())
	case strings.HasPrefix(p, "G"):
		data, err := hexDecode(p[1:])
		if err == nil {
			for i, b := range data {
				s.target.WriteRegister(i, b)
			}
		}
		reply = "OK"
	case strings.HasPrefix(p, "m"):
		addr, size, ok := parseAddrLen(p[1:])
		if !ok {
			reply = "E01"
			break
		}
		reply = hexEncode(s.target.ReadMemory(addr, size))
	case strings.HasPrefix(p, "M"):
		rest := p[1:]
		colon := strings.IndexByte(rest, ':')
		if colon < 0 {
			reply = "E01"
			break
		}
		addr, _, ok := parseAddrLen(rest[:colon])
		data, err := hexDecode(rest[colon+1:])
		if !ok || err != nil {
			reply = "E01"
			break
		}
		s.target.WriteMemory(addr, data)
		reply = "OK"
	case strings.HasPrefix(p, "Z0,"):
		addr, ok := parseBPAddr(p[3:])
		if !ok {
			reply = "E01"
			break
		}
		s.target.SetBreakpoint(addr)
		reply = "OK"
	case strings.HasPrefix(p, "z0,"):
		addr, ok := parseBPAddr(p[3:])
		if !ok {
			reply = "E01"
			break
		}
		s.target.ClearBreakpoint(addr)
		reply = "OK"
	case p == "s":
		s.target.Step()
		reply = "S05"
	case p == "c":
		s.target.Continue()
		return // no immediate reply; the machine is now running
	case p == "k":
		s.target.Halt()
		reply = "OK"
	default:
		reply = ""
	}
	s.writeRSPPacket(reply)
}

func (s *DebugServer) writeRSPPacket(data string) {
	if s.conn == nil {
		return
	}
	s.conn.Write([]byte(frameRSPPacket(data)))
}

func frameRSPPacket(data string) string {
	sum := 0
	for i := 0; i < len(data); i++ {
		sum += int(data[i])
	}
	return fmt.Sprintf("$%s#%02x", data, sum&0xFF)
}

// readRSPPacket reads one '$'...'#cc' frame, discarding ack bytes ('+'/
// '-') that precede it.
func readRSPPacket(r *bufio.Reader) (string, error) {
	for {
		b, err := r.ReadByte()
		if err != nil {
			return "", err
		}
		if b == '$' {
			break
		}
	}
	var sb strings.Builder
	for {
		b, err := r.ReadByte()
		if err != nil {
			return "", err
		}
		if b == '#' {
			break
		}
		sb.WriteByte(b)
	}
	// consume the two checksum hex digits
	if _, err := r.ReadByte(); err != nil {
		return "", err
	}
	if _, err := r.ReadByte(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func hexEncode(data []byte) string {
	var sb strings.Builder
	for _, b := range data {
		fmt.Fprintf(&sb, "%02x", b)
	}
	return sb.String()
}

func parseAddrLen(s string) (addr, size int, ok bool) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	a, err1 := strconv.ParseInt(parts[0], 16, 64)
	l, err2 := strconv.ParseInt(parts[1], 16, 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return int(a), int(l), true
}

func parseBPAddr(s string) (uint32, bool) {
	comma := strings.IndexByte(s, ',')
	if comma < 0 {
		return 0, false
	}
	a, err := strconv.ParseUint(s[:comma], 16, 32)
	if err != nil {
		return 0, false
	}
	return uint32(a), true
}
