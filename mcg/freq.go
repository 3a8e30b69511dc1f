package mcg

import (
	"fmt"

	"github.com/hchiang/mk66clk/pkg"
)

// pllDividers maps a supported PLL output frequency in MHz to the
// multiplier/divider pair for a 16 MHz reference. The PLL input
// (reference / divider) must stay within 8-16 MHz and the multiplier
// within 16-47; the output is input * multiplier / 2.
func pllDividers(mhz uint32) (mul, div uint32, err error) {
	switch mhz {
	case 64:
		return 16, 2, nil
	case 68:
		return 17, 2, nil
	case 72:
		return 18, 2, nil
	case 76:
		return 19, 2, nil
	case 80:
		return 20, 2, nil
	case 84:
		return 21, 2, nil
	case 88:
		return 22, 2, nil
	case 92:
		return 23, 2, nil
	case 96:
		return 24, 2, nil
	case 100:
		return 25, 2, nil
	case 104:
		return 26, 2, nil
	case 108:
		return 27, 2, nil
	case 112:
		return 28, 2, nil
	case 116:
		return 29, 2, nil
	case 120:
		return 30, 2, nil
	case 128:
		return 16, 1, nil
	case 136:
		return 17, 1, nil
	case 144:
		return 18, 1, nil
	case 152:
		return 19, 1, nil
	case 160:
		return 20, 1, nil
	case 168:
		return 21, 1, nil
	case 176:
		return 22, 1, nil
	case 180:
		return 45, 2, nil
	default:
		return 0, 0, fmt.Errorf("pll %d MHz: %w", mhz, pkg.ErrUnsupportedFrequency)
	}
}

// fllDRS maps a supported FLL output frequency in MHz to the DRST_DRS
// range selector.
func fllDRS(mhz uint32) (uint8, error) {
	switch mhz {
	case 24:
		return 0, nil
	case 48:
		return 1, nil
	case 72:
		return 2, nil
	case 96:
		return 3, nil
	default:
		return 0, fmt.Errorf("fll %d MHz: %w", mhz, pkg.ErrUnsupportedFrequency)
	}
}

// SupportedPLLFrequencies returns the PLL output frequencies, in MHz, the
// hardware tables support, in ascending order.
func SupportedPLLFrequencies() []uint32 {
	return []uint32{
		64, 68, 72, 76, 80, 84, 88, 92, 96, 100, 104, 108, 112, 116, 120,
		128, 136, 144, 152, 160, 168, 176, 180,
	}
}

// SupportedFLLFrequencies returns the FLL output frequencies, in MHz.
func SupportedFLLFrequencies() []uint32 {
	return []uint32{24, 48, 72, 96}
}

// setPLLFreq programs the PLL divider and multiplier for the given output
// frequency. The caller has already validated the frequency.
func (d *Driver) setPLLFreq(mhz uint32) error {
	mul, div, err := pllDividers(mhz)
	if err != nil {
		return err
	}
	d.regs.C5.ReplaceBits(uint8(div-1), c5PRDIVMask, c5PRDIVShift)
	d.regs.C6.ReplaceBits(uint8(mul-16), c6VDIVMask, c6VDIVShift)
	return nil
}

// setFLLFreq programs the FLL range selector. With an external 32.768 kHz
// class reference the DMX32 fine-tune bit is set as well.
func (d *Driver) setFLLFreq(mhz uint32, external bool) error {
	drs, err := fllDRS(mhz)
	if err != nil {
		return err
	}
	d.regs.C4.ReplaceBits(drs, c4DRSMask, c4DRSShift)
	if external {
		d.regs.C4.SetBits(c4DMX32)
	}
	return nil
}
