// config.go - the line-oriented key/value configuration file (spec.md
// §6 "Configuration"). No third-party config library is pulled in for
// fourteen flat keys (SPEC_FULL.md §6); this mirrors every recognized
// key 1:1 into Config.

package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config mirrors the recognized key/value options of spec.md §6.
type Config struct {
	MCU          string
	MCUFreq      uint64
	LFuse        byte
	HFuse        byte
	EFuse        byte
	FirmwareFile string
	ResetFlash   bool
	FirmwareTest bool
	Lockbits     byte
	VCDFile      string
	RSPPort      int
	TrapAtISR    bool
	DumpRegs     []string
	LuaModels    []string
}

// ParseConfig reads a config file in the format `key value` (or
// `key = value`), one per line; blank lines and lines starting with '#'
// are ignored. Unknown keys and malformed values are configuration
// errors (spec.md §7a).
func ParseConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, configErrorf("open config %s: %v", path, err)
	}
	defer f.Close()

	cfg := &Config{}
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		key, val, ok := splitKV(text)
		if !ok {
			return nil, configErrorf("%s:%d: malformed line %q", path, line, text)
		}
		if err := cfg.apply(key, val); err != nil {
			return nil, configErrorf("%s:%d: %v", path, line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, configErrorf("read config %s: %v", path, err)
	}
	return cfg, nil
}

func splitKV(line string) (key, val string, ok bool) {
	line = strings.Replace(line, "=", " ", 1)
	fields := strings.SplitN(line, " ", 2)
	if len(fields) != 2 {
		return "", "", false
	}
	return strings.TrimSpace(fields[0]), strings.TrimSpace(fields[1]), true
}

func (c *Config) apply(key, val string) error {
	switch key {
	case "mcu":
		c.MCU = val
	case "mcu_freq":
		v, err := strconv.ParseUint(val, 10, 64)
		if err != nil {
			return fmt.Errorf("mcu_freq: %v", err)
		}
		c.MCUFreq = v
	case "mcu_lfuse":
		b, err := parseByte(val)
		if err != nil {
			return fmt.Errorf("mcu_lfuse: %v", err)
		}
		c.LFuse = b
	case "mcu_hfuse":
		b, err := parseByte(val)
		if err != nil {
			return fmt.Errorf("mcu_hfuse: %v", err)
		}
		c.HFuse = b
	case "mcu_efuse":
		b, err := parseByte(val)
		if err != nil {
			return fmt.Errorf("mcu_efuse: %v", err)
		}
		c.EFuse = b
	case "firmware_file":
		c.FirmwareFile = val
	case "reset_flash":
		b, err := parseYesNo(val)
		if err != nil {
			return fmt.Errorf("reset_flash: %v", err)
		}
		c.ResetFlash = b
	case "firmware_test":
		b, err := parseYesNo(val)
		if err != nil {
			return fmt.Errorf("firmware_test: %v", err)
		}
		c.FirmwareTest = b
	case "lockbits":
		b, err := parseByte(val)
		if err != nil {
			return fmt.Errorf("lockbits: %v", err)
		}
		c.Lockbits = b
	case "vcd_file":
		c.VCDFile = val
	case "rsp_port":
		v, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("rsp_port: %v", err)
		}
		c.RSPPort = v
	case "trap_at_isr":
		b, err := parseYesNo(val)
		if err != nil {
			return fmt.Errorf("trap_at_isr: %v", err)
		}
		c.TrapAtISR = b
	case "dump_regs":
		for _, r := range strings.Split(val, ",") {
			r = strings.TrimSpace(r)
			if r != "" {
				c.DumpRegs = append(c.DumpRegs, r)
			}
		}
	case "lua_model":
		c.LuaModels = append(c.LuaModels, val)
	default:
		return fmt.Errorf("unrecognized key %q", key)
	}
	return nil
}

func parseByte(s string) (byte, error) {
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, err
	}
	return byte(v), nil
}

func parseYesNo(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("expected yes/no, got %q", s)
	}
}
