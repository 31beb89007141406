package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeHexFile(t *testing.T, lines ...string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "firmware.hex")
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadIntelHexDataRecord(t *testing.T) {
	path := writeHexFile(t, ":020000001234B8", ":00000001FF")
	flash := make([]byte, 32*1024)
	if err := LoadIntelHex(path, flash, 0, len(flash)-1); err != nil {
		t.Fatalf("LoadIntelHex: %v", err)
	}
	requireEqualU8(t, "flash[0]", flash[0], 0x12)
	requireEqualU8(t, "flash[1]", flash[1], 0x34)
}

// An extended linear address record relocates the records that follow
// it, needed for flash larger than 64KiB (ATmega2560).
func TestLoadIntelHexExtendedLinearAddress(t *testing.T) {
	path := writeHexFile(t,
		":020000040001F9",
		":02001000AABB89",
		":00000001FF",
	)
	flash := make([]byte, 0x20000)
	if err := LoadIntelHex(path, flash, 0, len(flash)-1); err != nil {
		t.Fatalf("LoadIntelHex: %v", err)
	}
	requireEqualU8(t, "flash[0x10010]", flash[0x10010], 0xAA)
	requireEqualU8(t, "flash[0x10011]", flash[0x10011], 0xBB)
}

func TestLoadIntelHexBadChecksumIsConfigError(t *testing.T) {
	path := writeHexFile(t, ":020000001234B9", ":00000001FF") // last byte off by one
	flash := make([]byte, 1024)
	err := LoadIntelHex(path, flash, 0, len(flash)-1)
	if err == nil {
		t.Fatal("expected a checksum error, got nil")
	}
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Errorf("expected *ConfigError, got %T: %v", err, err)
	}
}

// A record whose payload falls outside [flashStart,flashEnd] is a
// configuration error, never a silent truncation (spec.md §7a).
func TestLoadIntelHexOutOfRangeIsConfigError(t *testing.T) {
	path := writeHexFile(t, ":020000001234B8", ":00000001FF")
	flash := make([]byte, 1)
	err := LoadIntelHex(path, flash, 0, 0)
	if err == nil {
		t.Fatal("expected an out-of-range error, got nil")
	}
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Errorf("expected *ConfigError, got %T: %v", err, err)
	}
}
