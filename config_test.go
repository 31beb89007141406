package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sim.conf")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestParseConfigSpaceAndEqualsForms(t *testing.T) {
	path := writeConfigFile(t, "mcu atmega328p\nmcu_freq = 16000000\n# a comment\n\nreset_flash yes\n")
	cfg, err := ParseConfig(path)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.MCU != "atmega328p" {
		t.Errorf("MCU = %q, want atmega328p", cfg.MCU)
	}
	if cfg.MCUFreq != 16_000_000 {
		t.Errorf("MCUFreq = %d, want 16000000", cfg.MCUFreq)
	}
	if !cfg.ResetFlash {
		t.Error("ResetFlash = false, want true")
	}
}

func TestParseConfigHexByteAndDumpRegsList(t *testing.T) {
	path := writeConfigFile(t, "mcu_lfuse 0xE2\ndump_regs r16,r17, sreg0\n")
	cfg, err := ParseConfig(path)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	requireEqualU8(t, "LFuse", cfg.LFuse, 0xE2)
	want := []string{"r16", "r17", "sreg0"}
	if len(cfg.DumpRegs) != len(want) {
		t.Fatalf("DumpRegs = %v, want %v", cfg.DumpRegs, want)
	}
	for i, w := range want {
		if cfg.DumpRegs[i] != w {
			t.Errorf("DumpRegs[%d] = %q, want %q", i, cfg.DumpRegs[i], w)
		}
	}
}

func TestParseConfigUnknownKeyIsConfigError(t *testing.T) {
	path := writeConfigFile(t, "not_a_real_key 1\n")
	_, err := ParseConfig(path)
	if err == nil {
		t.Fatal("expected an error for an unrecognized key")
	}
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Errorf("expected *ConfigError, got %T: %v", err, err)
	}
}

func TestParseConfigBadYesNoIsConfigError(t *testing.T) {
	path := writeConfigFile(t, "reset_flash maybe\n")
	_, err := ParseConfig(path)
	if err == nil {
		t.Fatal("expected an error for a malformed yes/no value")
	}
}
