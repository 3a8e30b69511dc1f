package mcg

import "github.com/hchiang/mk66clk/osc"

// OscRange selects the oscillator frequency range. Values match the RANGE
// field encoding.
type OscRange uint8

// Frequency ranges.
const (
	RangeLow      OscRange = 0 // 32-40 kHz
	RangeHigh     OscRange = 1 // 3-8 MHz
	RangeVeryHigh OscRange = 2 // 8-32 MHz
)

// Frdiv selects the FLL external reference divider. The divide factor
// depends on the range: the low range divides by 1..128, the high ranges
// by 32..1536.
type Frdiv uint8

// FRDIV encodings, named low-range/high-range divide factor.
const (
	FrdivLow1High32     Frdiv = 0
	FrdivLow2High64     Frdiv = 1
	FrdivLow4High128    Frdiv = 2
	FrdivLow8High256    Frdiv = 3
	FrdivLow16High512   Frdiv = 4
	FrdivLow32High1024  Frdiv = 5
	FrdivLow64High1280  Frdiv = 6
	FrdivLow128High1536 Frdiv = 7
)

// Xtal describes an external reference: which source it is, how the
// oscillator and FLL divider must be configured for it, and its frequency.
type Xtal struct {
	Clock       OscClock
	Range       OscRange
	Frdiv       Frdiv
	Load        osc.Capacitance
	FrequencyHz uint32
}

// External references available on the Teensy 3.6.
var (
	// Teensy16MHz is the 16 MHz crystal on the oscillator pins.
	Teensy16MHz = Xtal{
		Clock:       Oscillator,
		Range:       RangeVeryHigh,
		Frdiv:       FrdivLow16High512,
		Load:        osc.Load10pF,
		FrequencyHz: 16_000_000,
	}

	// Teensy32KHz is the RTC crystal.
	Teensy32KHz = Xtal{
		Clock:       RTC32K,
		Range:       RangeLow,
		Frdiv:       FrdivLow1High32,
		Load:        osc.Load10pF,
		FrequencyHz: 32_768,
	}

	// Teensy48MHz is the internal 48 MHz reference routed as an external
	// clock; no crystal is involved.
	Teensy48MHz = Xtal{
		Clock:       IRC48M,
		Range:       RangeVeryHigh,
		Frdiv:       FrdivLow128High1536,
		Load:        osc.Load10pF,
		FrequencyHz: 48_000_000,
	}
)

// Internal reference frequencies.
const (
	SlowInternalHz = 32_768
	FastInternalHz = 4_000_000
)

// FrequencyHz returns the frequency of the selected internal reference.
func (i Ircs) FrequencyHz() uint32 {
	if i == FastInternal {
		return FastInternalHz
	}
	return SlowInternalHz
}
