package mcg

import (
	"fmt"

	"github.com/hchiang/mk66clk/hal"
	"github.com/hchiang/mk66clk/pkg"
)

// Target is the requested MCG configuration: a mode, the reference it
// runs from, and the loop output frequency where the mode has one.
type Target struct {
	Mode Mode

	// Xtal describes the external reference for external modes.
	Xtal Xtal

	// Ircs selects the internal reference for internal modes.
	Ircs Ircs

	// FrequencyMHz is the PLL output frequency for PEE/PBE or the FLL
	// output frequency for FEI/FEE. It must be in the supported table.
	FrequencyMHz uint32
}

// State returns the state this target describes once reached.
func (t Target) State() State {
	st := State{Mode: t.Mode}
	if t.Mode.External() {
		st.Clock = t.Xtal.Clock
	} else {
		st.Ircs = t.Ircs
	}
	return st
}

// Validate rejects targets the hardware tables cannot express. It touches
// no registers, so a bad request fails before any hardware write.
func (t Target) Validate() error {
	switch t.Mode {
	case PEE, PBE:
		if _, _, err := pllDividers(t.FrequencyMHz); err != nil {
			return err
		}
		// The PLL table is derived for the 16 MHz crystal reference.
		if t.Xtal.Clock != Oscillator {
			return fmt.Errorf("pll from %s reference: %w", t.Xtal.Clock, pkg.ErrInvalidParameter)
		}
		if t.Xtal.FrequencyHz == 0 {
			return fmt.Errorf("pll reference frequency unset: %w", pkg.ErrInvalidParameter)
		}
	case FEI, FEE:
		if _, err := fllDRS(t.FrequencyMHz); err != nil {
			return err
		}
		if t.Mode == FEE && t.Xtal.FrequencyHz == 0 {
			return fmt.Errorf("fll reference frequency unset: %w", pkg.ErrInvalidParameter)
		}
	case FBE, BLPE:
		if t.Xtal.FrequencyHz == 0 {
			return fmt.Errorf("reference frequency unset: %w", pkg.ErrInvalidParameter)
		}
	case FBI, BLPI:
		// Both internal references are always available.
	default:
		return fmt.Errorf("mode %d: %w", uint8(t.Mode), pkg.ErrInvalidParameter)
	}
	return nil
}

// pllMatches reports whether the PLL dividers programmed in hardware
// produce the target frequency.
func (d *Driver) pllMatches(t Target) bool {
	mul, div, err := pllDividers(t.FrequencyMHz)
	if err != nil {
		return false
	}
	cmul, cdiv := d.PLLDividers()
	return mul == cmul && div == cdiv
}

// Reached reports whether the tracked state satisfies the target,
// including its numeric configuration.
func (d *Driver) Reached(t Target) bool {
	if !d.known || d.state != t.State() {
		return false
	}
	switch t.Mode {
	case PEE, PBE:
		return d.pllMatches(t)
	case FEI, FEE:
		drs, err := fllDRS(t.FrequencyMHz)
		if err != nil {
			return false
		}
		return d.regs.C4.Get()>>c4DRSShift&c4DRSMask == drs
	}
	return true
}

// Step performs exactly one hardware transition toward the target: the
// edge of the legality graph adjacent to the current state that makes
// progress toward the target's mode family. The transition is confirmed
// by status polling before the tracked state advances. Step returns the
// resulting, possibly still intermediate, state.
//
// A reference change while in an external-reference state routes through
// the internal-reference bypass first; the hardware cannot swap the
// reference select under an active external mode.
func (d *Driver) Step(t Target) (State, error) {
	if err := t.Validate(); err != nil {
		return State{}, err
	}
	cur, err := d.State()
	if err != nil {
		return State{}, err
	}
	if d.Reached(t) {
		return cur, nil
	}

	st, err := d.edge(cur, d.route(cur, t), t)
	if err != nil {
		// The hardware may be mid-transition; force a re-read next time.
		d.known = false
		return State{}, err
	}
	d.state = st
	pkg.LogDebug(pkg.ComponentMCG, "clock step", "from", cur.String(), "to", st.String())
	return st, nil
}

// route returns the mode to enter next on the way from cur to t. A return
// equal to cur.Mode denotes an in-place retune (FLL range, internal
// reference select) rather than a mode change.
func (d *Driver) route(cur State, t Target) Mode {
	// Reference agreement only matters when both ends are external.
	refMatch := cur.Clock == t.Xtal.Clock

	switch cur.Mode {
	case FEI:
		switch t.Mode {
		case FEI:
			return FEI
		case FEE:
			return FEE
		default:
			return FBI
		}
	case FEE:
		switch t.Mode {
		case FEE:
			if refMatch {
				return FEE
			}
			return FBI
		case FEI:
			return FEI
		case FBE:
			if refMatch {
				return FBE
			}
			return FBI
		default:
			return FBI
		}
	case FBI:
		switch t.Mode {
		case FBI:
			return FBI
		case FEI:
			return FEI
		case FEE:
			return FEE
		case BLPI:
			return BLPI
		default:
			return FBE
		}
	case FBE:
		if t.Mode.External() && !refMatch {
			return FBI
		}
		switch t.Mode {
		case PBE, PEE:
			return PBE
		case BLPE:
			return BLPE
		case FEE:
			return FEE
		case FEI:
			return FEI
		default: // FBI, BLPI
			return FBI
		}
	case PBE:
		if refMatch {
			switch t.Mode {
			case PEE:
				if d.pllMatches(t) {
					return PEE
				}
				// PLL dividers change only with the PLL disabled.
				return FBE
			case BLPE:
				return BLPE
			}
		}
		return FBE
	case PEE:
		return PBE
	case BLPI:
		if t.Mode == BLPI {
			return BLPI
		}
		return FBI
	case BLPE:
		if refMatch {
			switch t.Mode {
			case PBE, PEE:
				return PBE
			}
		}
		return FBE
	default:
		panic("mcg: route from invalid state")
	}
}

// edge performs the single transition cur -> next and returns the state
// entered. next values equal to cur.Mode retune in place.
func (d *Driver) edge(cur State, next Mode, t Target) (State, error) {
	switch cur.Mode {
	case FEI:
		switch next {
		case FEI:
			return cur, d.setFLLFreq(t.FrequencyMHz, false)
		case FEE:
			return d.feiToFEE(t)
		case FBI:
			return d.feiToFBI(t.internalRef())
		}
	case FEE:
		switch next {
		case FEE:
			return cur, d.setFLLFreq(t.FrequencyMHz, true)
		case FEI:
			return d.feeToFEI()
		case FBI:
			return d.feeToFBI(t.internalRef())
		case FBE:
			return d.feeToFBE(cur.Clock)
		}
	case FBI:
		switch next {
		case FBI:
			return d.retuneIRC(t.Ircs)
		case FEI:
			return d.fbiToFEI()
		case FEE:
			return d.fbiToFEE(t)
		case FBE:
			return d.fbiToFBE(t.Xtal)
		case BLPI:
			return d.fbiToBLPI(cur.Ircs)
		}
	case FBE:
		switch next {
		case PBE:
			return d.fbeToPBE(cur.Clock, t.FrequencyMHz)
		case BLPE:
			return d.fbeToBLPE(cur.Clock)
		case FEE:
			return d.fbeToFEE(cur.Clock)
		case FEI:
			return d.fbeToFEI()
		case FBI:
			return d.fbeToFBI(t.internalRef())
		}
	case PBE:
		switch next {
		case PEE:
			return d.pbeToPEE(cur.Clock)
		case FBE:
			return d.pbeToFBE(cur.Clock)
		case BLPE:
			return d.pbeToBLPE(cur.Clock)
		}
	case PEE:
		if next == PBE {
			return d.peeToPBE(cur.Clock)
		}
	case BLPI:
		switch next {
		case BLPI:
			return d.retuneIRC(t.Ircs)
		case FBI:
			return d.blpiToFBI(cur.Ircs)
		}
	case BLPE:
		switch next {
		case PBE:
			return d.blpeToPBE(cur.Clock, t.FrequencyMHz)
		case FBE:
			return d.blpeToFBE(cur.Clock)
		}
	}
	panic(fmt.Sprintf("mcg: no edge %s -> %s", cur.Mode, next))
}

// internalRef returns the internal reference to use when the walk detours
// through FBI on behalf of t.
func (t Target) internalRef() Ircs {
	if t.Mode.External() {
		// The detour is transient; the slow reference is always valid.
		return SlowInternal
	}
	return t.Ircs
}

// ircstFor returns the expected IRCST bit value for a reference.
func ircstFor(ircs Ircs) uint8 {
	if ircs == FastInternal {
		return sIRCST
	}
	return 0
}

// configureExternal programs the oscillator range, reference select, and
// FLL divider for an external reference. Shared prologue of every edge
// that moves onto an external reference.
func (d *Driver) configureExternal(x Xtal) {
	d.regs.C2.ReplaceBits(uint8(x.Range), c2RANGEMask, c2RANGEShift)
	d.regs.C2.SetBits(c2EREFS)
	d.regs.C7.ReplaceBits(uint8(x.Clock), c7OSCSELMask, c7OSCSELShift)
}

func (d *Driver) feiToFBI(ircs Ircs) (State, error) {
	d.regs.C1.ReplaceBits(srcInternal, c1CLKSMask, c1CLKSShift)
	if err := hal.Poll8(d.regs.S, sCLKSTMask<<sCLKSTShift, srcInternal<<sCLKSTShift); err != nil {
		return State{}, fmt.Errorf("fei->fbi: %w", err)
	}
	d.regs.C2.ReplaceBits(uint8(ircs), 0x1, 0)
	d.regs.SC.ReplaceBits(0, scFCRDIVMask, scFCRDIVShift)
	return State{Mode: FBI, Ircs: ircs}, nil
}

func (d *Driver) feiToFEE(t Target) (State, error) {
	d.configureExternal(t.Xtal)
	d.regs.C1.ReplaceBits(uint8(t.Xtal.Frdiv), c1FRDIVMask, c1FRDIVShift)
	d.regs.C1.ClearBits(c1IREFS)
	if err := hal.Poll8(d.regs.S, sOSCINIT0|sIREFST, sOSCINIT0); err != nil {
		return State{}, fmt.Errorf("fei->fee: %w", err)
	}
	if err := d.setFLLFreq(t.FrequencyMHz, true); err != nil {
		return State{}, err
	}
	return State{Mode: FEE, Clock: t.Xtal.Clock}, nil
}

func (d *Driver) feiToFBE(x Xtal) (State, error) {
	d.configureExternal(x)
	d.regs.C1.ReplaceBits(uint8(x.Frdiv), c1FRDIVMask, c1FRDIVShift)
	d.regs.C1.ReplaceBits(srcExternal, c1CLKSMask, c1CLKSShift)
	d.regs.C1.ClearBits(c1IREFS)
	want := uint8(sOSCINIT0 | srcExternal<<sCLKSTShift)
	if err := hal.Poll8(d.regs.S, sOSCINIT0|sIREFST|sCLKSTMask<<sCLKSTShift, want); err != nil {
		return State{}, fmt.Errorf("fei->fbe: %w", err)
	}
	return State{Mode: FBE, Clock: x.Clock}, nil
}

func (d *Driver) feeToFEI() (State, error) {
	d.regs.C2.ClearBits(c2IRCS)
	d.regs.C1.SetBits(c1IREFS)
	if err := hal.Poll8(d.regs.S, sIRCST|sIREFST, sIREFST); err != nil {
		return State{}, fmt.Errorf("fee->fei: %w", err)
	}
	return State{Mode: FEI}, nil
}

func (d *Driver) feeToFBI(ircs Ircs) (State, error) {
	d.regs.C2.ReplaceBits(uint8(ircs), 0x1, 0)
	d.regs.C1.ReplaceBits(srcInternal, c1CLKSMask, c1CLKSShift)
	d.regs.C1.SetBits(c1IREFS)
	want := ircstFor(ircs) | sIREFST | srcInternal<<sCLKSTShift
	if err := hal.Poll8(d.regs.S, sIRCST|sIREFST|sCLKSTMask<<sCLKSTShift, want); err != nil {
		return State{}, fmt.Errorf("fee->fbi: %w", err)
	}
	d.regs.SC.ReplaceBits(0, scFCRDIVMask, scFCRDIVShift)
	return State{Mode: FBI, Ircs: ircs}, nil
}

func (d *Driver) feeToFBE(clock OscClock) (State, error) {
	d.regs.C1.ReplaceBits(srcExternal, c1CLKSMask, c1CLKSShift)
	if err := hal.Poll8(d.regs.S, sCLKSTMask<<sCLKSTShift, srcExternal<<sCLKSTShift); err != nil {
		return State{}, fmt.Errorf("fee->fbe: %w", err)
	}
	return State{Mode: FBE, Clock: clock}, nil
}

func (d *Driver) fbiToFEI() (State, error) {
	d.regs.C2.ClearBits(c2IRCS)
	d.regs.C1.ReplaceBits(srcFLL, c1CLKSMask, c1CLKSShift)
	want := uint8(sIREFST | srcFLL<<sCLKSTShift)
	if err := hal.Poll8(d.regs.S, sIRCST|sIREFST|sCLKSTMask<<sCLKSTShift, want); err != nil {
		return State{}, fmt.Errorf("fbi->fei: %w", err)
	}
	return State{Mode: FEI}, nil
}

func (d *Driver) fbiToFEE(t Target) (State, error) {
	d.configureExternal(t.Xtal)
	d.regs.C1.ReplaceBits(uint8(t.Xtal.Frdiv), c1FRDIVMask, c1FRDIVShift)
	d.regs.C1.ReplaceBits(srcFLL, c1CLKSMask, c1CLKSShift)
	d.regs.C1.ClearBits(c1IREFS)
	want := uint8(sOSCINIT0 | srcFLL<<sCLKSTShift)
	if err := hal.Poll8(d.regs.S, sOSCINIT0|sIREFST|sCLKSTMask<<sCLKSTShift, want); err != nil {
		return State{}, fmt.Errorf("fbi->fee: %w", err)
	}
	if err := d.setFLLFreq(t.FrequencyMHz, true); err != nil {
		return State{}, err
	}
	return State{Mode: FEE, Clock: t.Xtal.Clock}, nil
}

func (d *Driver) fbiToFBE(x Xtal) (State, error) {
	d.configureExternal(x)
	d.regs.C1.ReplaceBits(uint8(x.Frdiv), c1FRDIVMask, c1FRDIVShift)
	d.regs.C1.ReplaceBits(srcExternal, c1CLKSMask, c1CLKSShift)
	d.regs.C1.ClearBits(c1IREFS)
	want := uint8(sOSCINIT0 | srcExternal<<sCLKSTShift)
	if err := hal.Poll8(d.regs.S, sOSCINIT0|sIREFST|sCLKSTMask<<sCLKSTShift, want); err != nil {
		return State{}, fmt.Errorf("fbi->fbe: %w", err)
	}
	return State{Mode: FBE, Clock: x.Clock}, nil
}

func (d *Driver) fbiToBLPI(ircs Ircs) (State, error) {
	d.regs.C2.SetBits(c2LP)
	return State{Mode: BLPI, Ircs: ircs}, nil
}

func (d *Driver) fbeToPBE(clock OscClock, mhz uint32) (State, error) {
	if err := d.setPLLFreq(mhz); err != nil {
		return State{}, err
	}
	d.regs.C6.SetBits(c6PLLS)
	// Wait for the PLL to be selected and report a stable lock.
	if err := hal.PollSet(d.regs.S, sPLLST|sLOCK0); err != nil {
		return State{}, fmt.Errorf("fbe->pbe: %w", err)
	}
	return State{Mode: PBE, Clock: clock}, nil
}

func (d *Driver) fbeToBLPE(clock OscClock) (State, error) {
	d.regs.C2.SetBits(c2LP)
	return State{Mode: BLPE, Clock: clock}, nil
}

func (d *Driver) fbeToFEE(clock OscClock) (State, error) {
	d.regs.C1.ReplaceBits(srcFLL, c1CLKSMask, c1CLKSShift)
	if err := hal.Poll8(d.regs.S, sCLKSTMask<<sCLKSTShift, srcFLL<<sCLKSTShift); err != nil {
		return State{}, fmt.Errorf("fbe->fee: %w", err)
	}
	return State{Mode: FEE, Clock: clock}, nil
}

func (d *Driver) fbeToFEI() (State, error) {
	d.regs.C2.ClearBits(c2IRCS)
	d.regs.C1.ReplaceBits(srcFLL, c1CLKSMask, c1CLKSShift)
	d.regs.C1.SetBits(c1IREFS)
	want := uint8(sIREFST | srcFLL<<sCLKSTShift)
	if err := hal.Poll8(d.regs.S, sIRCST|sIREFST|sCLKSTMask<<sCLKSTShift, want); err != nil {
		return State{}, fmt.Errorf("fbe->fei: %w", err)
	}
	return State{Mode: FEI}, nil
}

func (d *Driver) fbeToFBI(ircs Ircs) (State, error) {
	d.regs.C1.ReplaceBits(srcInternal, c1CLKSMask, c1CLKSShift)
	d.regs.C1.SetBits(c1IREFS)
	want := uint8(sIREFST | srcInternal<<sCLKSTShift)
	if err := hal.Poll8(d.regs.S, sIREFST|sCLKSTMask<<sCLKSTShift, want); err != nil {
		return State{}, fmt.Errorf("fbe->fbi: %w", err)
	}
	d.regs.C2.ReplaceBits(uint8(ircs), 0x1, 0)
	d.regs.SC.ReplaceBits(0, scFCRDIVMask, scFCRDIVShift)
	return State{Mode: FBI, Ircs: ircs}, nil
}

func (d *Driver) pbeToFBE(clock OscClock) (State, error) {
	d.regs.C6.ClearBits(c6PLLS)
	if err := hal.Poll8(d.regs.S, sPLLST, 0); err != nil {
		return State{}, fmt.Errorf("pbe->fbe: %w", err)
	}
	return State{Mode: FBE, Clock: clock}, nil
}

func (d *Driver) pbeToBLPE(clock OscClock) (State, error) {
	d.regs.C2.SetBits(c2LP)
	return State{Mode: BLPE, Clock: clock}, nil
}

func (d *Driver) pbeToPEE(clock OscClock) (State, error) {
	d.regs.C1.ReplaceBits(srcFLL, c1CLKSMask, c1CLKSShift)
	if err := hal.Poll8(d.regs.S, sCLKSTMask<<sCLKSTShift, srcPLL<<sCLKSTShift); err != nil {
		return State{}, fmt.Errorf("pbe->pee: %w", err)
	}
	return State{Mode: PEE, Clock: clock}, nil
}

func (d *Driver) peeToPBE(clock OscClock) (State, error) {
	d.regs.C1.ReplaceBits(srcExternal, c1CLKSMask, c1CLKSShift)
	if err := hal.Poll8(d.regs.S, sCLKSTMask<<sCLKSTShift, srcExternal<<sCLKSTShift); err != nil {
		return State{}, fmt.Errorf("pee->pbe: %w", err)
	}
	return State{Mode: PBE, Clock: clock}, nil
}

func (d *Driver) blpiToFBI(ircs Ircs) (State, error) {
	d.regs.C2.ClearBits(c2LP)
	if err := hal.Poll8(d.regs.S, sIREFST, sIREFST); err != nil {
		return State{}, fmt.Errorf("blpi->fbi: %w", err)
	}
	return State{Mode: FBI, Ircs: ircs}, nil
}

func (d *Driver) blpeToFBE(clock OscClock) (State, error) {
	d.regs.C6.ClearBits(c6PLLS)
	d.regs.C2.ClearBits(c2LP)
	if err := hal.Poll8(d.regs.S, sPLLST, 0); err != nil {
		return State{}, fmt.Errorf("blpe->fbe: %w", err)
	}
	return State{Mode: FBE, Clock: clock}, nil
}

func (d *Driver) blpeToPBE(clock OscClock, mhz uint32) (State, error) {
	if err := d.setPLLFreq(mhz); err != nil {
		return State{}, err
	}
	d.regs.C6.SetBits(c6PLLS)
	d.regs.C2.ClearBits(c2LP)
	if err := hal.PollSet(d.regs.S, sPLLST|sLOCK0); err != nil {
		return State{}, fmt.Errorf("blpe->pbe: %w", err)
	}
	return State{Mode: PBE, Clock: clock}, nil
}

// retuneIRC switches between the slow and fast internal references while
// an internal bypass mode is active.
func (d *Driver) retuneIRC(ircs Ircs) (State, error) {
	d.regs.C2.ReplaceBits(uint8(ircs), 0x1, 0)
	if err := hal.Poll8(d.regs.S, sIRCST, ircstFor(ircs)); err != nil {
		return State{}, fmt.Errorf("irc select: %w", err)
	}
	st := d.state
	st.Ircs = ircs
	return st, nil
}
