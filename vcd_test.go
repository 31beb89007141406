package main

import (
	"os"
	"strings"
	"testing"
)

func TestResolveVCDVarBareRegister(t *testing.T) {
	m := newRig(t)
	v, err := resolveVCDVar("r16", m.Profile)
	if err != nil {
		t.Fatalf("resolveVCDVar: %v", err)
	}
	if v.width != 8 {
		t.Errorf("width = %d, want 8", v.width)
	}
	m.SetReg(16, 0x42)
	if got := v.read(m); got != 0x42 {
		t.Errorf("read() = 0x%X, want 0x42", got)
	}
}

func TestResolveVCDVarBitSuffixed(t *testing.T) {
	m := newRig(t)
	v, err := resolveVCDVar("sreg0", m.Profile)
	if err != nil {
		t.Fatalf("resolveVCDVar: %v", err)
	}
	if v.width != 1 {
		t.Errorf("width = %d, want 1", v.width)
	}
	m.SetC(true)
	if got := v.read(m); got != 1 {
		t.Errorf("read() = %d, want 1 (C set)", got)
	}
	m.SetC(false)
	if got := v.read(m); got != 0 {
		t.Errorf("read() = %d, want 0 (C clear)", got)
	}
}

func TestResolveVCDVarUnknownNameErrors(t *testing.T) {
	m := newRig(t)
	if _, err := resolveVCDVar("bogus", m.Profile); err == nil {
		t.Fatal("expected an error for an unknown trace name")
	}
}

// Change-only emission: the first sample emits a tick block with the
// starting value, a sample with no change emits nothing, and each later
// change emits exactly one tick block.
func TestVCDSampleEmitsOnChangeOnly(t *testing.T) {
	m := newRig(t)
	path := t.TempDir() + "/trace.vcd"
	vcd, err := NewVCDWriter(path, 16_000_000, []string{"r16"}, m.Profile)
	if err != nil {
		t.Fatalf("NewVCDWriter: %v", err)
	}
	vcd.DumpVars()

	m.SetReg(16, 0x01)
	vcd.Sample(m)
	vcd.Sample(m) // no change: must not emit another tick block
	m.SetReg(16, 0x02)
	vcd.Sample(m)
	if err := vcd.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back vcd: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "$timescale") {
		t.Error("missing $timescale header")
	}
	if !strings.Contains(content, "$var wire 8 ") {
		t.Error("missing $var declaration for r16")
	}
	if n := strings.Count(content, "#"); n != 2 {
		t.Errorf("tick markers = %d, want 2 (one per actual change)", n)
	}
}
