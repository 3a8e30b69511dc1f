package sim

import (
	"github.com/hchiang/mk66clk/hal"
)

// Register bit positions, from the MK66F18 reference manual. These are the
// device's own view of its registers and must match the field encodings the
// driver packages program.
const (
	c1IREFS     = 1 << 2
	c1CLKSShift = 6
	c1CLKSMask  = 0x3

	c2IRCS = 1 << 0
	c2LP   = 1 << 1

	c6PLLS = 1 << 6

	c7OSCSELMask = 0x3

	sIRCST      = 1 << 0
	sOSCINIT0   = 1 << 1
	sCLKSTShift = 2
	sIREFST     = 1 << 4
	sPLLST      = 1 << 5
	sLOCK0      = 1 << 6

	crERCLKEN = 1 << 7

	pmprotAHSRUN    = 1 << 7
	pmctrlRUNMShift = 5
	pmctrlRUNMMask  = 0x3

	pmstatRUN   = 0x01
	pmstatVLPR  = 0x04
	pmstatHSRUN = 0x80
)

// CLKS/CLKST source encodings.
const (
	srcFLL      = 0
	srcInternal = 1
	srcExternal = 2
	srcPLL      = 3
)

// RUNM encodings.
const (
	runmRUN   = 0
	runmVLPR  = 2
	runmHSRUN = 3
)

// Device is an in-memory model of the MK66 clock hardware: the MCG, the
// system oscillator, the system mode controller, and the SIM clock divider
// register. Control registers hold whatever the driver writes; status
// registers are recomputed from the control state after every write, the
// way the silicon's status bits track its configuration.
//
// The model settles instantly, so driver polls observe the post-transition
// status on their first read. FreezeStatus suspends settling to exercise
// the driver's poll bounds.
type Device struct {
	// MCG control state
	c1, c2, c4, c5, c6, c7, sc uint8

	// Oscillator control
	cr uint8

	// SMC control state
	pmprot        uint8
	pmctrl        uint8
	pmprotWritten bool

	// SIM divider state
	clkdiv1 uint32

	// Tracked status registers
	s      uint8
	pmstat uint8

	frozen bool

	writes    int
	regWrites map[string]int
}

// New returns a Device in its power-on reset state: FEI (FLL selected,
// internal reference), oscillator disabled, normal run, boot dividers.
func New() *Device {
	d := &Device{regWrites: make(map[string]int)}
	d.Reset()
	return d
}

// Reset restores the power-on state and clears the write counters. The
// write-once power mode protection latch is reset too, as it would be by a
// system reset.
func (d *Device) Reset() {
	d.c1 = c1IREFS // CLKS=FLL, IREFS=internal
	d.c2 = 0x80    // LOCRE0 reset value; LP clear, IRCS slow
	d.c4 = 0x00    // DRST_DRS=0, DMX32 clear
	d.c5 = 0x00
	d.c6 = 0x00
	d.c7 = 0x00
	d.sc = 0x02 // FCRDIV=1 (divide by 2) reset value
	d.cr = 0x00
	d.pmprot = 0x00
	d.pmctrl = 0x00
	d.pmprotWritten = false
	d.clkdiv1 = 0x0001_0000 // OUTDIV1=1, OUTDIV4=2 boot dividers
	d.frozen = false
	d.writes = 0
	d.regWrites = make(map[string]int)
	d.settle()
}

// FreezeStatus stops status registers from tracking control writes, so a
// driver poll never sees its expected value. Used to test poll bounding.
func (d *Device) FreezeStatus() { d.frozen = true }

// ThawStatus resumes status tracking and settles immediately.
func (d *Device) ThawStatus() {
	d.frozen = false
	d.settle()
}

// Writes returns the total number of register write operations performed
// since the last Reset.
func (d *Device) Writes() int { return d.writes }

// RegWrites returns the number of writes to the named register ("MCG_C1",
// "SMC_PMPROT", ...) since the last Reset.
func (d *Device) RegWrites(name string) int { return d.regWrites[name] }

// settle recomputes the status registers from the control state.
func (d *Device) settle() {
	if d.frozen {
		return
	}

	var s uint8

	// CLKST tracks CLKS; with CLKS=0 the output is the FLL or, when PLLS
	// is set, the PLL.
	clks := d.c1 >> c1CLKSShift & c1CLKSMask
	plls := d.c6&c6PLLS != 0
	switch clks {
	case srcInternal:
		s |= srcInternal << sCLKSTShift
	case srcExternal:
		s |= srcExternal << sCLKSTShift
	default:
		if plls {
			s |= srcPLL << sCLKSTShift
		}
	}

	if d.c1&c1IREFS != 0 {
		s |= sIREFST
	}
	if d.c2&c2IRCS != 0 {
		s |= sIRCST
	}

	// The crystal path reports initialized once ERCLKEN is set; the RTC
	// and IRC48M references are free-running and report ready as soon as
	// they are selected.
	if d.cr&crERCLKEN != 0 || d.c7&c7OSCSELMask != 0 {
		s |= sOSCINIT0
	}

	// The PLL reports selected and locked once enabled outside low-power
	// mode; lock time is not modeled.
	if plls {
		s |= sPLLST
		if d.c2&c2LP == 0 {
			s |= sLOCK0
		}
	}

	d.s = s

	// PMSTAT tracks RUNM; HSRUN is reachable only once PMPROT allows it.
	switch d.pmctrl >> pmctrlRUNMShift & pmctrlRUNMMask {
	case runmHSRUN:
		if d.pmprot&pmprotAHSRUN != 0 {
			d.pmstat = pmstatHSRUN
		}
	case runmVLPR:
		d.pmstat = pmstatVLPR
	case runmRUN:
		d.pmstat = pmstatRUN
	}
}

func (d *Device) recordWrite(name string) {
	d.writes++
	d.regWrites[name]++
}

// reg8 adapts one byte of device state to hal.Register8. Status registers
// have a nil store; writes to them are counted but discarded, as on silicon.
type reg8 struct {
	d     *Device
	name  string
	load  func() uint8
	store func(uint8)
}

func (r *reg8) write(v uint8) {
	r.d.recordWrite(r.name)
	if r.store != nil {
		r.store(v)
		r.d.settle()
	}
}

func (r *reg8) Get() uint8           { return r.load() }
func (r *reg8) Set(v uint8)          { r.write(v) }
func (r *reg8) SetBits(mask uint8)   { r.write(r.load() | mask) }
func (r *reg8) ClearBits(mask uint8) { r.write(r.load() &^ mask) }
func (r *reg8) HasBits(mask uint8) bool {
	return r.load()&mask != 0
}
func (r *reg8) ReplaceBits(value, mask, pos uint8) {
	r.write(r.load()&^(mask<<pos) | value<<pos)
}

// reg32 is the 32-bit counterpart of reg8.
type reg32 struct {
	d     *Device
	name  string
	load  func() uint32
	store func(uint32)
}

func (r *reg32) write(v uint32) {
	r.d.recordWrite(r.name)
	if r.store != nil {
		r.store(v)
		r.d.settle()
	}
}

func (r *reg32) Get() uint32           { return r.load() }
func (r *reg32) Set(v uint32)          { r.write(v) }
func (r *reg32) SetBits(mask uint32)   { r.write(r.load() | mask) }
func (r *reg32) ClearBits(mask uint32) { r.write(r.load() &^ mask) }
func (r *reg32) HasBits(mask uint32) bool {
	return r.load()&mask != 0
}
func (r *reg32) ReplaceBits(value, mask uint32, pos uint8) {
	r.write(r.load()&^(mask<<pos) | value<<pos)
}

// Hardware returns the register blocks of this device in the form the
// driver packages consume.
func (d *Device) Hardware() hal.Hardware {
	return hal.Hardware{
		MCG: hal.MCG{
			C1: &reg8{d, "MCG_C1", func() uint8 { return d.c1 }, func(v uint8) { d.c1 = v }},
			C2: &reg8{d, "MCG_C2", func() uint8 { return d.c2 }, func(v uint8) { d.c2 = v }},
			C4: &reg8{d, "MCG_C4", func() uint8 { return d.c4 }, func(v uint8) { d.c4 = v }},
			C5: &reg8{d, "MCG_C5", func() uint8 { return d.c5 }, func(v uint8) { d.c5 = v }},
			C6: &reg8{d, "MCG_C6", func() uint8 { return d.c6 }, func(v uint8) { d.c6 = v }},
			C7: &reg8{d, "MCG_C7", func() uint8 { return d.c7 }, func(v uint8) { d.c7 = v }},
			S:  &reg8{d, "MCG_S", func() uint8 { return d.s }, nil},
			SC: &reg8{d, "MCG_SC", func() uint8 { return d.sc }, func(v uint8) { d.sc = v }},
		},
		OSC: hal.OSC{
			CR: &reg8{d, "OSC_CR", func() uint8 { return d.cr }, func(v uint8) { d.cr = v }},
		},
		SMC: hal.SMC{
			// PMPROT accepts only its first write after reset.
			PMPROT: &reg8{d, "SMC_PMPROT", func() uint8 { return d.pmprot }, func(v uint8) {
				if d.pmprotWritten {
					return
				}
				d.pmprot = v
				d.pmprotWritten = true
			}},
			PMCTRL: &reg8{d, "SMC_PMCTRL", func() uint8 { return d.pmctrl }, func(v uint8) { d.pmctrl = v }},
			PMSTAT: &reg8{d, "SMC_PMSTAT", func() uint8 { return d.pmstat }, nil},
		},
		SIM: hal.SIM{
			CLKDIV1: &reg32{d, "SIM_CLKDIV1", func() uint32 { return d.clkdiv1 }, func(v uint32) { d.clkdiv1 = v }},
		},
	}
}
