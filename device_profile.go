// device_profile.go - static per-MCU description (spec.md §3 "Device
// Profile"). Consumed, never mutated, at simulation time.

package main

import "fmt"

// VectorSlot describes one entry of the interrupt vector table: where
// its enable and raised bits live in I/O space, and its offset into the
// vector table (spec.md §3 "Interrupt-subsystem state").
type VectorSlot struct {
	Name            string
	EnableBit       IOBit
	RaisedBit       IOBit
	VectorOffset    int // multiplied by VectorStride to get the byte offset from IVTBase
	RequiresRAMPZ   bool
	RequiresEIND    bool
}

// TimerChannelConfig is one output-compare channel (A or B) of a timer.
type TimerChannelConfig struct {
	OCRLow, OCRHigh int // dm offsets; OCRHigh is -1 for 8-bit timers
	COMBits         [2]IOBit
	CompareFlag     IOBit // OCFnx in TIFR
	CompareEnable   IOBit // OCIEnx in TIMSK
	PinDDR          IOBit // data-direction bit gating pin output
	PinPort         IOBit // the pin's PORT bit, driven by the compare action
}

// TimerConfig is one on-chip timer/counter's static layout.
type TimerConfig struct {
	Name            string
	Width           int // 8 or 16
	CounterLow      int
	CounterHigh     int // -1 for 8-bit timers
	WGMBits         []IOBit
	CSBits          [3]IOBit
	OverflowFlag    IOBit // TOVn
	OverflowEnable  IOBit // TOIEn
	ChannelA        TimerChannelConfig
	ChannelB        TimerChannelConfig
	HasICR          bool
	ICRLow, ICRHigh int
	ICRFlag         IOBit // ICFn
	ICRPin          IOBit // input-capture pin value
	ICREdgeRising   IOBit // ICESn: edge select for capture
	ExtClockPin     IOBit // Tn pin value, sampled for external clock sources

	modeTable     map[int]WaveformModeInfo
	compareTable  map[compareKey]CompareAction
}

// finish builds the derived static tables (spec.md §9's "static
// function-table" note): called once when the profile is registered.
func (t *TimerConfig) finish() {
	t.modeTable = buildWGMTable(t.Width)
	t.compareTable = buildCompareActionTable()
}

// FuseField names a bitfield within one fuse byte.
type FuseField struct {
	Name string
	Mask byte
	Shift uint
}

// DeviceProfile is the static, per-MCU description consumed by the
// simulator (spec.md §3 "Device Profile").
type DeviceProfile struct {
	Name       string
	Signature  [3]byte
	FlashSize  int
	FlashStart, FlashEnd int
	RAMStart, RAMEnd     int // on-chip SRAM window within dm
	IOStart, IOEnd       int // SFR window within dm (I/O register address 0 == dm[IOStart])
	DMSize     int          // total size of dm: registers + I/O + SRAM
	SPMPageSize int

	PCBits       int // 16 or 22
	ReducedCore  bool
	Xmega        bool // extended-architecture devices: RETI does not auto-re-enable I (spec.md §4.3)
	HasRAMPZ     bool
	HasEIND      bool

	SREG   int // dm offset of SREG
	SPL    int
	SPH    int
	RAMPZ  int // dm offset, valid only if HasRAMPZ
	EIND   int // dm offset, valid only if HasEIND
	SPMCSR int // dm offset of the self-programming control/status register

	IVTBase      int
	VectorStride int // bytes per vector table entry (2 or 4)
	Vectors      []VectorSlot // index 0 is always the reset vector

	Timers []TimerConfig

	LFuseFields, HFuseFields, EFuseFields []FuseField
}

// IOAddr converts an I/O-register address (as it appears in IN/OUT/SBI/
// CBI/SBIS/SBIC instructions) to a dm offset.
func (d *DeviceProfile) IOAddr(ioReg int) int {
	return d.IOStart + ioReg
}

// deviceRegistry is the static, compiled-in table of supported devices,
// keyed by the `mcu` config value (spec.md §6). Built once at init;
// never mutated at simulation time (spec.md §3 "Ownership").
var deviceRegistry = map[string]*DeviceProfile{}

func registerDevice(p *DeviceProfile) {
	for i := range p.Timers {
		p.Timers[i].finish()
	}
	deviceRegistry[p.Name] = p
}

// LookupDevice resolves a `mcu` config value to its profile.
func LookupDevice(name string) (*DeviceProfile, error) {
	p, ok := deviceRegistry[name]
	if !ok {
		return nil, fmt.Errorf("unknown mcu %q", name)
	}
	return p, nil
}
