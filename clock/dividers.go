package clock

// Downstream frequency ceilings. The bus and flash interfaces cannot run
// at the full core rate; dividers keep them under their documented maxima
// at every reprogramming, not just at boot.
const (
	MaxBusHz   = 60_000_000
	MaxFlashHz = 28_000_000
)

// SIM_CLKDIV1 output divider fields. Each field holds divider-1.
const (
	outdiv4Shift = 16 // flash clock
	outdiv3Shift = 20 // flexbus clock
	outdiv2Shift = 24 // bus clock
	outdiv1Shift = 28 // core clock
	outdivMask   = 0xF
)

// DividersFor returns the smallest integer dividers that keep the bus and
// flash clocks within their ceilings at the given core frequency. Pure
// computation; the caller programs the result.
func DividersFor(coreHz uint32) (busDiv, flashDiv uint32) {
	busDiv = 1
	for coreHz/busDiv > MaxBusHz {
		busDiv++
	}
	flashDiv = 1
	for coreHz/flashDiv > MaxFlashHz {
		flashDiv++
	}
	return busDiv, flashDiv
}

// programDividers writes the core, bus, flexbus, and flash dividers in a
// single register update. The flexbus clock follows the bus divider.
func (m *Manager) programDividers(busDiv, flashDiv uint32) {
	v := uint32(0)<<outdiv1Shift |
		(busDiv-1)<<outdiv2Shift |
		(busDiv-1)<<outdiv3Shift |
		(flashDiv-1)<<outdiv4Shift
	m.hw.SIM.CLKDIV1.ReplaceBits(v>>outdiv4Shift, 0xFFFF, outdiv4Shift)
}
