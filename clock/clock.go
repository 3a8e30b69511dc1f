package clock

import (
	"fmt"

	"github.com/hchiang/mk66clk/hal"
	"github.com/hchiang/mk66clk/mcg"
	"github.com/hchiang/mk66clk/osc"
	"github.com/hchiang/mk66clk/pkg"
	"github.com/hchiang/mk66clk/smc"
)

// NormalRunMaxHz is the highest core frequency the chip sustains in normal
// run mode. Anything above requires high-speed run.
const NormalRunMaxHz = 120_000_000

// Power-on clock frequencies: FEI from the slow internal reference with the
// reset divider configuration.
const (
	bootCoreHz  = 20_480_000
	bootBusHz   = 20_480_000
	bootFlashHz = 10_240_000
)

// maxWalk bounds the number of transitions a reconfiguration may take. The
// longest legal route is six edges (a reference swap out of an engaged PLL
// mode back into another PLL mode); a walk that runs longer is stuck.
const maxWalk = 7

// Config describes a requested system clock configuration.
type Config struct {
	// Mode is the MCG mode to run in.
	Mode mcg.Mode

	// Xtal describes the external reference for external-reference modes.
	Xtal mcg.Xtal

	// Ircs selects the internal reference for internal-reference modes.
	Ircs mcg.Ircs

	// FrequencyMHz is the PLL output frequency for PEE/PBE or the FLL
	// output frequency for FEI/FEE. Ignored for bypass modes, whose core
	// frequency is the reference itself.
	FrequencyMHz uint32
}

// target returns the MCG target this configuration asks for.
func (c Config) target() mcg.Target {
	return mcg.Target{
		Mode:         c.Mode,
		Xtal:         c.Xtal,
		Ircs:         c.Ircs,
		FrequencyMHz: c.FrequencyMHz,
	}
}

// coreHz returns the core frequency this configuration produces.
func (c Config) coreHz() uint32 {
	switch c.Mode {
	case mcg.PEE, mcg.FEI, mcg.FEE:
		return c.FrequencyMHz * 1_000_000
	case mcg.FBI, mcg.BLPI:
		return c.Ircs.FrequencyHz()
	default: // FBE, BLPE, PBE: the reference drives the core directly.
		return c.Xtal.FrequencyHz
	}
}

// usesOscillator reports whether the configuration keeps the system
// oscillator's crystal path running.
func (c Config) usesOscillator() bool {
	return c.Mode.External() && c.Xtal.Clock == mcg.Oscillator
}

// Manager owns the clock tree: the MCG mode walk, the oscillator, the run
// mode, and the downstream dividers. Exactly one Manager exists per boot.
// It is not internally locked; reconfiguration runs to completion on the
// calling goroutine and the frequency getters are plain reads.
type Manager struct {
	hw  hal.Hardware
	mcg *mcg.Driver
	osc *osc.Driver
	smc *smc.Controller

	coreHz  uint32
	busHz   uint32
	flashHz uint32

	applied bool
	last    Config
}

// NewManager returns the Manager for the given hardware. The clock tree is
// assumed to be in its power-on state; no register is touched until the
// first reconfiguration.
func NewManager(hw hal.Hardware) *Manager {
	return &Manager{
		hw:      hw,
		mcg:     mcg.New(hw.MCG),
		osc:     osc.New(hw.OSC),
		smc:     smc.New(hw.SMC),
		coreHz:  bootCoreHz,
		busHz:   bootBusHz,
		flashHz: bootFlashHz,
	}
}

// CoreFrequency returns the core clock frequency in Hz.
func (m *Manager) CoreFrequency() uint32 { return m.coreHz }

// BusFrequency returns the bus clock frequency in Hz.
func (m *Manager) BusFrequency() uint32 { return m.busHz }

// FlashFrequency returns the flash clock frequency in Hz.
func (m *Manager) FlashFrequency() uint32 { return m.flashHz }

// PeripheralFrequency returns the clock feeding bus peripherals (UART,
// ADC, timers). On this chip it is the bus clock.
func (m *Manager) PeripheralFrequency() uint32 { return m.busHz }

// State returns the active MCG state.
func (m *Manager) State() (mcg.State, error) { return m.mcg.State() }

// ChangeSystemClock reconfigures the clock tree to cfg. The request is
// validated before any register write; an off-table frequency leaves the
// hardware untouched. Re-requesting the active configuration performs no
// register access at all.
//
// Ordering: dividers are raised and the run mode escalated before the core
// speeds up, and lowered (and the run mode dropped) only after it has slowed
// down, so the bus and flash ceilings and the normal-run ceiling hold at
// every instant in between. The oscillator is never stopped while a mode
// still references it.
func (m *Manager) ChangeSystemClock(cfg Config) error {
	target := cfg.target()
	if err := target.Validate(); err != nil {
		return err
	}
	if m.applied && cfg == m.last {
		return nil
	}

	newCore := cfg.coreHz()
	busDiv, flashDiv := DividersFor(newCore)
	upshift := newCore > m.coreHz

	if upshift {
		if newCore > NormalRunMaxHz {
			if !m.smc.HighSpeedAllowed() {
				if err := m.smc.AllowHighSpeed(); err != nil {
					return err
				}
			}
			if err := m.smc.EnterHighSpeed(); err != nil {
				return err
			}
		}
		m.programDividers(busDiv, flashDiv)
	}

	if cfg.usesOscillator() && !m.osc.Enabled() {
		m.osc.Enable(cfg.Xtal.Load)
	}

	if err := m.walk(target); err != nil {
		m.applied = false
		return err
	}

	if !upshift {
		m.programDividers(busDiv, flashDiv)
		if newCore <= NormalRunMaxHz && m.smc.HighSpeed() {
			if err := m.smc.EnterNormal(); err != nil {
				m.applied = false
				return err
			}
		}
	}

	if !cfg.usesOscillator() && m.osc.Enabled() {
		m.osc.Disable()
	}

	m.coreHz = newCore
	m.busHz = newCore / busDiv
	m.flashHz = newCore / flashDiv
	m.applied = true
	m.last = cfg
	pkg.LogInfo(pkg.ComponentClock, "system clock changed",
		"mode", target.State().String(),
		"core", m.coreHz, "bus", m.busHz, "flash", m.flashHz)
	return nil
}

// walk steps the MCG toward target until it is reached. Each step is one
// verified transition; a walk that exceeds the edge bound is stuck and
// reports pkg.ErrNoProgress.
func (m *Manager) walk(target mcg.Target) error {
	for i := 0; i < maxWalk; i++ {
		if m.mcg.Reached(target) {
			return nil
		}
		if _, err := m.mcg.Step(target); err != nil {
			return err
		}
	}
	if m.mcg.Reached(target) {
		return nil
	}
	return fmt.Errorf("target %s not reached in %d steps: %w",
		target.State(), maxWalk, pkg.ErrNoProgress)
}
