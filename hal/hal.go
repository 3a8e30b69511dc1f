package hal

import (
	"fmt"

	"github.com/hchiang/mk66clk/pkg"
)

// Register8 is a single 8-bit hardware register.
//
// The method set matches the volatile register surface used by embedded Go
// runtimes, so a memory-mapped implementation is a thin cast on real silicon
// while tests use a simulated backing store.
type Register8 interface {
	// Get returns the current register value.
	Get() uint8

	// Set writes the full register value.
	Set(v uint8)

	// SetBits sets every bit in mask, preserving the rest.
	SetBits(mask uint8)

	// ClearBits clears every bit in mask, preserving the rest.
	ClearBits(mask uint8)

	// HasBits reports whether any bit in mask is set.
	HasBits(mask uint8) bool

	// ReplaceBits writes value into the field of width mask at bit
	// position pos, preserving all other bits.
	ReplaceBits(value, mask, pos uint8)
}

// Register32 is a single 32-bit hardware register.
type Register32 interface {
	Get() uint32
	Set(v uint32)
	SetBits(mask uint32)
	ClearBits(mask uint32)
	HasBits(mask uint32) bool
	ReplaceBits(value, mask uint32, pos uint8)
}

// MCG is the multipurpose clock generator register block.
type MCG struct {
	C1 Register8 // Control 1: CLKS, FRDIV, IREFS
	C2 Register8 // Control 2: RANGE, EREFS, LP, IRCS
	C4 Register8 // Control 4: DMX32, DRST_DRS
	C5 Register8 // Control 5: PRDIV
	C6 Register8 // Control 6: PLLS, VDIV
	C7 Register8 // Control 7: OSCSEL
	S  Register8 // Status (read-only)
	SC Register8 // Status and control: FCRDIV
}

// OSC is the system oscillator register block.
type OSC struct {
	CR Register8 // Control: ERCLKEN, load capacitance
}

// SMC is the system mode controller register block.
type SMC struct {
	PMPROT Register8 // Power mode protection (write-once)
	PMCTRL Register8 // Power mode control: RUNM
	PMSTAT Register8 // Power mode status (read-only)
}

// SIM is the system integration module register block, reduced to the
// clock divider register this driver programs.
type SIM struct {
	CLKDIV1 Register32 // OUTDIV1..OUTDIV4 core/bus/flexbus/flash dividers
}

// Hardware bundles the register blocks the clock driver owns. Exactly one
// Hardware value exists per chip; it is handed to the clock manager at boot
// and never shared.
type Hardware struct {
	MCG MCG
	OSC OSC
	SMC SMC
	SIM SIM
}

// PollBudget is the number of status reads a poll performs before reporting
// a hardware fault. Clock status bits settle within microseconds on working
// silicon; the budget exists so a dead bit surfaces an error instead of a
// hang. Tests may lower it.
var PollBudget = 100_000

// Poll8 busy-reads r until the bits selected by mask equal want, or the poll
// budget is exhausted. Exhaustion wraps pkg.ErrClockFault.
func Poll8(r Register8, mask, want uint8) error {
	for i := 0; i < PollBudget; i++ {
		if r.Get()&mask == want {
			return nil
		}
	}
	return fmt.Errorf("status %#02x mask %#02x want %#02x: %w",
		r.Get(), mask, want, pkg.ErrClockFault)
}

// PollSet busy-reads r until every bit in mask is set.
func PollSet(r Register8, mask uint8) error {
	return Poll8(r, mask, mask)
}
