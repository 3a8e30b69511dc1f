package smc

import (
	"errors"
	"testing"

	"github.com/hchiang/mk66clk/hal"
	"github.com/hchiang/mk66clk/hal/sim"
	"github.com/hchiang/mk66clk/pkg"
)

func TestAllowHighSpeedOnce(t *testing.T) {
	d := sim.New()
	c := New(d.Hardware().SMC)

	if c.HighSpeedAllowed() {
		t.Fatal("high-speed allowed before unlock")
	}
	if err := c.AllowHighSpeed(); err != nil {
		t.Fatalf("AllowHighSpeed() = %v", err)
	}
	if !c.HighSpeedAllowed() {
		t.Fatal("unlock not recorded")
	}

	writes := d.RegWrites("SMC_PMPROT")
	err := c.AllowHighSpeed()
	if !errors.Is(err, pkg.ErrProtectionLocked) {
		t.Fatalf("second AllowHighSpeed() = %v, want ErrProtectionLocked", err)
	}
	if d.RegWrites("SMC_PMPROT") != writes {
		t.Error("second AllowHighSpeed touched hardware")
	}
}

func TestEnterHighSpeed(t *testing.T) {
	d := sim.New()
	c := New(d.Hardware().SMC)

	err := c.EnterHighSpeed()
	if !errors.Is(err, pkg.ErrProtectionLocked) {
		t.Fatalf("EnterHighSpeed before unlock = %v, want ErrProtectionLocked", err)
	}

	if err := c.AllowHighSpeed(); err != nil {
		t.Fatal(err)
	}
	if err := c.EnterHighSpeed(); err != nil {
		t.Fatalf("EnterHighSpeed() = %v", err)
	}
	if !c.HighSpeed() {
		t.Fatal("PMSTAT does not report high-speed run")
	}

	// Already in HSRUN: no further control writes.
	writes := d.RegWrites("SMC_PMCTRL")
	if err := c.EnterHighSpeed(); err != nil {
		t.Fatalf("repeat EnterHighSpeed() = %v", err)
	}
	if d.RegWrites("SMC_PMCTRL") != writes {
		t.Error("repeat EnterHighSpeed touched PMCTRL")
	}
}

func TestEnterNormal(t *testing.T) {
	d := sim.New()
	c := New(d.Hardware().SMC)

	// Already in normal run out of reset: no writes.
	if err := c.EnterNormal(); err != nil {
		t.Fatalf("EnterNormal() = %v", err)
	}
	if d.RegWrites("SMC_PMCTRL") != 0 {
		t.Error("EnterNormal touched PMCTRL while already in run")
	}

	if err := c.AllowHighSpeed(); err != nil {
		t.Fatal(err)
	}
	if err := c.EnterHighSpeed(); err != nil {
		t.Fatal(err)
	}
	if err := c.EnterNormal(); err != nil {
		t.Fatalf("EnterNormal() = %v", err)
	}
	if c.HighSpeed() {
		t.Fatal("still in high-speed run after EnterNormal")
	}
}

func TestEnterHighSpeedTimeout(t *testing.T) {
	d := sim.New()
	c := New(d.Hardware().SMC)
	if err := c.AllowHighSpeed(); err != nil {
		t.Fatal(err)
	}

	orig := hal.PollBudget
	hal.PollBudget = 32
	defer func() { hal.PollBudget = orig }()

	d.FreezeStatus()
	err := c.EnterHighSpeed()
	if !errors.Is(err, pkg.ErrClockFault) {
		t.Fatalf("EnterHighSpeed with frozen status = %v, want ErrClockFault", err)
	}
}
