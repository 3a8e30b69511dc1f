package osc

import (
	"github.com/hchiang/mk66clk/hal"
	"github.com/hchiang/mk66clk/pkg"
)

// OSC_CR fields.
const (
	crSC16P    = 1 << 0
	crSC8P     = 1 << 1
	crSC4P     = 1 << 2
	crSC2P     = 1 << 3
	crEREFSTEN = 1 << 5
	crERCLKEN  = 1 << 7

	capMask = crSC16P | crSC8P | crSC4P | crSC2P
)

// Capacitance selects the internal load capacitors switched onto the
// crystal pins. Values combine the 2/4/8/16 pF capacitor enable bits.
type Capacitance uint8

// Load capacitance settings.
const (
	Load0pF  Capacitance = 0
	Load2pF  Capacitance = crSC2P
	Load4pF  Capacitance = crSC4P
	Load8pF  Capacitance = crSC8P
	Load10pF Capacitance = crSC8P | crSC2P
	Load16pF Capacitance = crSC16P
)

// Driver controls the system oscillator's crystal path.
type Driver struct {
	regs hal.OSC
}

// New returns a Driver over the given register block.
func New(regs hal.OSC) *Driver {
	return &Driver{regs: regs}
}

// Enable programs the load capacitance and enables the external reference
// clock output. The capacitance must be set before the oscillator starts.
func (d *Driver) Enable(load Capacitance) {
	d.regs.CR.ReplaceBits(uint8(load), capMask, 0)
	d.regs.CR.SetBits(crERCLKEN)
	pkg.LogDebug(pkg.ComponentOSC, "oscillator enabled", "load", uint8(load))
}

// Disable stops the external reference clock output. The load capacitance
// setting is preserved.
func (d *Driver) Disable() {
	d.regs.CR.ClearBits(crERCLKEN)
	pkg.LogDebug(pkg.ComponentOSC, "oscillator disabled")
}

// Enabled reports whether the external reference clock output is on.
func (d *Driver) Enabled() bool {
	return d.regs.CR.HasBits(crERCLKEN)
}
