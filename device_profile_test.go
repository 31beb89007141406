package main

import "testing"

func TestLookupDeviceKnownNames(t *testing.T) {
	for _, name := range []string{"atmega328p", "atmega2560", "attiny85"} {
		p, err := LookupDevice(name)
		if err != nil {
			t.Errorf("LookupDevice(%q): %v", name, err)
			continue
		}
		if p.Name != name {
			t.Errorf("LookupDevice(%q).Name = %q", name, p.Name)
		}
	}
}

func TestLookupDeviceUnknownNameIsConfigError(t *testing.T) {
	_, err := LookupDevice("not-a-real-mcu")
	if err == nil {
		t.Fatal("expected an error for an unknown device")
	}
}

func TestIOAddrOffsetsFromIOStart(t *testing.T) {
	p, err := LookupDevice("atmega328p")
	if err != nil {
		t.Fatalf("lookup atmega328p: %v", err)
	}
	if got := p.IOAddr(0); got != p.IOStart {
		t.Errorf("IOAddr(0) = 0x%X, want 0x%X", got, p.IOStart)
	}
	if got := p.IOAddr(0x10); got != p.IOStart+0x10 {
		t.Errorf("IOAddr(0x10) = 0x%X, want 0x%X", got, p.IOStart+0x10)
	}
}
