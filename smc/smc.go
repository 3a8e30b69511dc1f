package smc

import (
	"fmt"

	"github.com/hchiang/mk66clk/hal"
	"github.com/hchiang/mk66clk/pkg"
)

// SMC register fields.
const (
	pmprotAHSRUN = 1 << 7

	runmShift       = 5
	runmMask  uint8 = 0x3

	runmRUN   = 0
	runmHSRUN = 3

	pmstatRUN   = 0x01
	pmstatHSRUN = 0x80
	pmstatMask  = 0xFF
)

// Controller drives the system mode controller's run-mode transitions.
// The chip cannot sustain its maximum core frequency in normal run; the
// clock manager escalates to high-speed run before an upshift past the
// normal-run ceiling and drops back after a downshift below it.
type Controller struct {
	regs    hal.SMC
	allowed bool
}

// New returns a Controller over the given register block.
func New(regs hal.SMC) *Controller {
	return &Controller{regs: regs}
}

// AllowHighSpeed writes the power mode protection register to permit
// high-speed run. PMPROT accepts exactly one write after reset, so this
// may be called at most once per boot; later calls return
// pkg.ErrProtectionLocked without touching hardware.
func (c *Controller) AllowHighSpeed() error {
	if c.allowed {
		return fmt.Errorf("protection already configured: %w", pkg.ErrProtectionLocked)
	}
	c.regs.PMPROT.Set(pmprotAHSRUN)
	c.allowed = true
	pkg.LogInfo(pkg.ComponentSMC, "high-speed run unlocked")
	return nil
}

// HighSpeedAllowed reports whether AllowHighSpeed has been called this boot.
func (c *Controller) HighSpeedAllowed() bool {
	return c.allowed
}

// EnterNormal returns the chip to normal run mode. It is a no-op when the
// chip is already in normal run.
func (c *Controller) EnterNormal() error {
	if c.regs.PMSTAT.Get() == pmstatRUN {
		return nil
	}
	c.regs.PMCTRL.ReplaceBits(runmRUN, runmMask, runmShift)
	if err := hal.Poll8(c.regs.PMSTAT, pmstatMask, pmstatRUN); err != nil {
		return fmt.Errorf("enter run: %w", err)
	}
	pkg.LogDebug(pkg.ComponentSMC, "entered normal run")
	return nil
}

// EnterHighSpeed moves the chip into high-speed run mode. High-speed run
// is only reachable from normal run, and only after AllowHighSpeed.
func (c *Controller) EnterHighSpeed() error {
	if !c.allowed {
		return fmt.Errorf("high-speed run not unlocked: %w", pkg.ErrProtectionLocked)
	}
	if c.regs.PMSTAT.Get() == pmstatHSRUN {
		return nil
	}
	if c.regs.PMSTAT.Get() != pmstatRUN {
		return fmt.Errorf("high-speed run requires normal run: %w", pkg.ErrInvalidState)
	}
	c.regs.PMCTRL.ReplaceBits(runmHSRUN, runmMask, runmShift)
	if err := hal.Poll8(c.regs.PMSTAT, pmstatMask, pmstatHSRUN); err != nil {
		return fmt.Errorf("enter hsrun: %w", err)
	}
	pkg.LogDebug(pkg.ComponentSMC, "entered high-speed run")
	return nil
}

// HighSpeed reports whether the chip is currently in high-speed run.
func (c *Controller) HighSpeed() bool {
	return c.regs.PMSTAT.Get() == pmstatHSRUN
}
