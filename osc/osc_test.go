package osc

import (
	"testing"

	"github.com/hchiang/mk66clk/hal/sim"
)

func TestEnableDisable(t *testing.T) {
	d := sim.New()
	drv := New(d.Hardware().OSC)

	if drv.Enabled() {
		t.Fatal("oscillator enabled out of reset")
	}

	drv.Enable(Load10pF)
	if !drv.Enabled() {
		t.Fatal("Enable did not set ERCLKEN")
	}
	cr := d.Hardware().OSC.CR.Get()
	if cr&uint8(Load10pF) != uint8(Load10pF) {
		t.Errorf("CR = %#02x, missing 10pF load bits", cr)
	}

	drv.Disable()
	if drv.Enabled() {
		t.Fatal("Disable did not clear ERCLKEN")
	}
	// Load setting survives a disable.
	cr = d.Hardware().OSC.CR.Get()
	if cr&uint8(Load10pF) != uint8(Load10pF) {
		t.Errorf("CR = %#02x after disable, load bits lost", cr)
	}
}

func TestEnableReplacesLoad(t *testing.T) {
	d := sim.New()
	drv := New(d.Hardware().OSC)

	drv.Enable(Load16pF)
	drv.Enable(Load2pF)
	cr := d.Hardware().OSC.CR.Get()
	if cr&uint8(Load16pF) != 0 {
		t.Errorf("CR = %#02x, stale 16pF bit after reprogram", cr)
	}
	if cr&uint8(Load2pF) == 0 {
		t.Errorf("CR = %#02x, missing 2pF bit", cr)
	}
}
