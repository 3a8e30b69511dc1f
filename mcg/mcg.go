package mcg

import (
	"fmt"

	"github.com/hchiang/mk66clk/hal"
	"github.com/hchiang/mk66clk/pkg"
)

// MCG_C1 fields.
const (
	c1IREFS            = 1 << 2
	c1FRDIVShift       = 3
	c1FRDIVMask  uint8 = 0x7
	c1CLKSShift        = 6
	c1CLKSMask   uint8 = 0x3
)

// CLKS/CLKST clock source encodings.
const (
	srcFLL      = 0
	srcInternal = 1
	srcExternal = 2
	srcPLL      = 3 // CLKST only
)

// MCG_C2 fields.
const (
	c2IRCS             = 1 << 0
	c2LP               = 1 << 1
	c2EREFS            = 1 << 2
	c2RANGEShift       = 4
	c2RANGEMask  uint8 = 0x3
)

// MCG_C4 fields.
const (
	c4DRSShift       = 5
	c4DRSMask  uint8 = 0x3
	c4DMX32          = 1 << 7
)

// MCG_C5 fields.
const (
	c5PRDIVShift       = 0
	c5PRDIVMask  uint8 = 0x7
)

// MCG_C6 fields.
const (
	c6VDIVShift       = 0
	c6VDIVMask  uint8 = 0x1F
	c6PLLS            = 1 << 6
)

// MCG_C7 fields.
const (
	c7OSCSELShift       = 0
	c7OSCSELMask  uint8 = 0x3
)

// MCG_S fields.
const (
	sIRCST            = 1 << 0
	sOSCINIT0         = 1 << 1
	sCLKSTShift       = 2
	sCLKSTMask  uint8 = 0x3
	sIREFST           = 1 << 4
	sPLLST            = 1 << 5
	sLOCK0            = 1 << 6
)

// MCG_SC fields.
const (
	scFCRDIVShift       = 1
	scFCRDIVMask  uint8 = 0x7
)

// Mode identifies one of the eight legal MCG configurations.
type Mode uint8

// MCG modes.
const (
	FEI  Mode = iota // FLL engaged, internal reference
	FEE              // FLL engaged, external reference
	FBI              // FLL bypassed, internal reference drives the core
	FBE              // FLL bypassed, external reference drives the core
	PBE              // PLL enabled, core still bypassed to the external reference
	PEE              // PLL engaged, PLL output drives the core
	BLPI             // Bypassed low power, internal reference
	BLPE             // Bypassed low power, external reference
)

// String returns the datasheet name of the mode.
func (m Mode) String() string {
	switch m {
	case FEI:
		return "FEI"
	case FEE:
		return "FEE"
	case FBI:
		return "FBI"
	case FBE:
		return "FBE"
	case PBE:
		return "PBE"
	case PEE:
		return "PEE"
	case BLPI:
		return "BLPI"
	case BLPE:
		return "BLPE"
	default:
		return "invalid"
	}
}

// External reports whether the mode references an external clock. The
// reference-select field cannot change while such a mode is active.
func (m Mode) External() bool {
	switch m {
	case FEE, FBE, PBE, PEE, BLPE:
		return true
	}
	return false
}

// UsesPLL reports whether the mode has the PLL enabled.
func (m Mode) UsesPLL() bool {
	return m == PBE || m == PEE
}

// OscClock identifies the external reference feeding the MCG. Values match
// the OSCSEL field encoding.
type OscClock uint8

// External reference selections.
const (
	Oscillator OscClock = 0 // System oscillator (crystal)
	RTC32K     OscClock = 1 // RTC 32.768 kHz crystal
	IRC48M     OscClock = 2 // Internal 48 MHz reference
)

// String returns a short name for the reference.
func (c OscClock) String() string {
	switch c {
	case Oscillator:
		return "oscillator"
	case RTC32K:
		return "rtc32k"
	case IRC48M:
		return "irc48m"
	default:
		return "invalid"
	}
}

// Ircs selects the internal reference clock.
type Ircs uint8

// Internal reference selections. Values match the IRCS bit.
const (
	SlowInternal Ircs = 0 // 32.768 kHz
	FastInternal Ircs = 1 // 4 MHz
)

// State is the MCG configuration active at one instant. Clock is
// meaningful only for external-reference modes and Ircs only for
// internal-reference modes; the unused field is zero.
type State struct {
	Mode  Mode
	Clock OscClock
	Ircs  Ircs
}

// String formats the state for logs.
func (s State) String() string {
	if s.Mode.External() {
		return fmt.Sprintf("%s(%s)", s.Mode, s.Clock)
	}
	if s.Ircs == FastInternal {
		return fmt.Sprintf("%s(fast)", s.Mode)
	}
	return s.Mode.String()
}

// Driver owns the MCG register block and tracks the active state. The
// state is decoded from hardware on first use and thereafter mutated only
// by completed, status-verified transitions.
type Driver struct {
	regs  hal.MCG
	state State
	known bool
}

// New returns a Driver over the given register block. The hardware is not
// touched until the first State or Step call.
func New(regs hal.MCG) *Driver {
	return &Driver{regs: regs}
}

// State returns the active MCG state, sampling hardware on first use.
func (d *Driver) State() (State, error) {
	if d.known {
		return d.state, nil
	}
	st, err := d.readState()
	if err != nil {
		return State{}, err
	}
	d.state = st
	d.known = true
	return st, nil
}

// readState decodes the live configuration from the control registers.
func (d *Driver) readState() (State, error) {
	c1 := d.regs.C1.Get()
	c2 := d.regs.C2.Get()

	clks := c1 >> c1CLKSShift & c1CLKSMask
	irefs := c1&c1IREFS != 0
	plls := d.regs.C6.HasBits(c6PLLS)
	lp := c2&c2LP != 0

	clock := OscClock(d.regs.C7.Get() >> c7OSCSELShift & c7OSCSELMask)
	ircs := SlowInternal
	if c2&c2IRCS != 0 {
		ircs = FastInternal
	}

	var mode Mode
	switch {
	case clks == srcFLL && irefs && !plls:
		mode = FEI
	case clks == srcFLL && !irefs && !plls:
		mode = FEE
	case clks == srcInternal && irefs && !plls && !lp:
		mode = FBI
	case clks == srcExternal && !irefs && !plls && !lp:
		mode = FBE
	case clks == srcFLL && !irefs && plls:
		mode = PEE
	case clks == srcExternal && !irefs && plls && !lp:
		mode = PBE
	case clks == srcInternal && irefs && !plls && lp:
		mode = BLPI
	case clks == srcExternal && !irefs && lp:
		mode = BLPE
	default:
		return State{}, fmt.Errorf("CLKS=%d IREFS=%t PLLS=%t LP=%t: %w",
			clks, irefs, plls, lp, pkg.ErrInvalidState)
	}

	st := State{Mode: mode}
	if mode.External() {
		st.Clock = clock
	} else {
		st.Ircs = ircs
	}
	return st, nil
}

// PLLDividers returns the multiplier/divider pair currently programmed
// into the PLL control registers.
func (d *Driver) PLLDividers() (mul, div uint32) {
	mul = uint32(d.regs.C6.Get()>>c6VDIVShift&c6VDIVMask) + 16
	div = uint32(d.regs.C5.Get()>>c5PRDIVShift&c5PRDIVMask) + 1
	return mul, div
}
