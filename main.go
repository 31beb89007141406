// main.go - CLI entrypoint (SPEC_FULL.md §4.6): parses flags/config,
// resolves the device profile, loads firmware, wires the optional
// collaborators, and runs the driver loop to completion.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		mcu        string
		firmware   string
		vcdFile    string
		rspPort    int
		trapAtISR  bool
		dumpRegs   []string
	)

	cmd := &cobra.Command{
		Use:   "avrsim",
		Short: "avrsim — a cycle-accurate AVR functional simulator",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := &Config{}
			if configPath != "" {
				loaded, err := ParseConfig(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}

			// An explicit --config file's keys win over flags left at
			// their zero value (SPEC_FULL.md §4.6).
			if cfg.MCU == "" {
				cfg.MCU = mcu
			}
			if cfg.FirmwareFile == "" {
				cfg.FirmwareFile = firmware
			}
			if cfg.VCDFile == "" {
				cfg.VCDFile = vcdFile
			}
			if cfg.RSPPort == 0 {
				cfg.RSPPort = rspPort
			}
			if !cfg.TrapAtISR {
				cfg.TrapAtISR = trapAtISR
			}
			if len(cfg.DumpRegs) == 0 {
				cfg.DumpRegs = dumpRegs
			}

			return run(cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "key/value configuration file")
	cmd.Flags().StringVar(&mcu, "mcu", "", "device name (atmega328p, atmega2560, attiny85)")
	cmd.Flags().StringVar(&firmware, "firmware", "", "Intel HEX firmware image")
	cmd.Flags().StringVar(&vcdFile, "vcd", "", "VCD waveform output file")
	cmd.Flags().IntVar(&rspPort, "rsp-port", 0, "remote-debug listener TCP port (0 disables it)")
	cmd.Flags().BoolVar(&trapAtISR, "trap-at-isr", false, "halt the instant an interrupt is dispatched")
	cmd.Flags().StringSliceVar(&dumpRegs, "dump-regs", nil, "registers to sample into the VCD trace")

	return cmd
}

// run executes the startup sequence SPEC_FULL.md §4.6 lists and drives
// the simulation to completion.
func run(cfg *Config) error {
	profile, err := LookupDevice(cfg.MCU)
	if err != nil {
		return configErrorf("%v", err)
	}

	m := NewMachineState(profile)

	if cfg.ResetFlash {
		for i := range m.Flash {
			m.Flash[i] = 0xFF
		}
	}
	if cfg.FirmwareFile != "" {
		if err := LoadIntelHex(cfg.FirmwareFile, m.Flash, profile.FlashStart, profile.FlashEnd); err != nil {
			return err
		}
		copy(m.MatchMem, m.Flash)
	}
	m.LFuse, m.HFuse, m.EFuse = cfg.LFuse, cfg.HFuse, cfg.EFuse
	m.Interrupts.TrapAtISR = cfg.TrapAtISR

	driver := &Driver{Machine: m, MCUName: profile.Name}

	if cfg.VCDFile != "" && len(cfg.DumpRegs) > 0 {
		vcd, err := NewVCDWriter(cfg.VCDFile, cfg.MCUFreq, cfg.DumpRegs, profile)
		if err != nil {
			return err
		}
		defer vcd.Close()
		vcd.DumpVars()
		driver.Trace = vcd
	}

	for _, path := range cfg.LuaModels {
		h, err := LoadLuaModel(path, m, cfg.MCUFreq)
		if err != nil {
			return err
		}
		defer h.Close()
		if err := h.Conf(profile.Name); err != nil {
			logf("lua model %s: module_conf error: %v", path, err)
		}
		driver.Scripts = append(driver.Scripts, h)
	}

	target := newDebugTarget(m)

	if cfg.RSPPort != 0 {
		server, err := NewDebugServer(cfg.RSPPort, target)
		if err != nil {
			return err
		}
		driver.Idle = append(driver.Idle, server)
	}

	if cfg.FirmwareTest {
		// Batch mode: no interactive front end, run to BREAK/Stop/TestFail.
	} else if cfg.RSPPort == 0 {
		console := NewTerminalHost(target)
		console.Start()
		defer console.Stop()
		driver.Idle = append(driver.Idle, console)
	}

	final := driver.Run()
	if final == RunStateTestFail {
		return fmt.Errorf("architectural error, final PC=0x%04x", m.PC)
	}
	return nil
}
