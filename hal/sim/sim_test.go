package sim

import (
	"testing"
)

func TestResetState(t *testing.T) {
	d := New()
	hw := d.Hardware()

	// Out of reset: CLKS=FLL, IREFS=internal, PLLS clear -> FEI.
	s := hw.MCG.S.Get()
	if s>>sCLKSTShift&0x3 != srcFLL {
		t.Errorf("reset CLKST = %d, want FLL", s>>sCLKSTShift&0x3)
	}
	if s&sIREFST == 0 {
		t.Error("reset IREFST clear, want internal reference")
	}
	if s&sPLLST != 0 {
		t.Error("reset PLLST set, want FLL")
	}
	if hw.SMC.PMSTAT.Get() != pmstatRUN {
		t.Errorf("reset PMSTAT = %#02x, want RUN", hw.SMC.PMSTAT.Get())
	}
	if d.Writes() != 0 {
		t.Errorf("reset device reports %d writes, want 0", d.Writes())
	}
}

func TestStatusTracksClockSelect(t *testing.T) {
	d := New()
	hw := d.Hardware()

	// Select the internal reference clock directly.
	hw.MCG.C1.ReplaceBits(srcInternal, c1CLKSMask, c1CLKSShift)
	if got := hw.MCG.S.Get() >> sCLKSTShift & 0x3; got != srcInternal {
		t.Errorf("CLKST = %d, want internal", got)
	}

	// Select the external reference.
	hw.MCG.C1.ReplaceBits(srcExternal, c1CLKSMask, c1CLKSShift)
	if got := hw.MCG.S.Get() >> sCLKSTShift & 0x3; got != srcExternal {
		t.Errorf("CLKST = %d, want external", got)
	}

	// Back to the loop output with the PLL selected.
	hw.MCG.C6.SetBits(c6PLLS)
	hw.MCG.C1.ReplaceBits(srcFLL, c1CLKSMask, c1CLKSShift)
	if got := hw.MCG.S.Get() >> sCLKSTShift & 0x3; got != srcPLL {
		t.Errorf("CLKST = %d, want PLL", got)
	}
	if hw.MCG.S.Get()&sLOCK0 == 0 {
		t.Error("LOCK0 clear with PLLS set outside low power")
	}
}

func TestOscillatorReady(t *testing.T) {
	d := New()
	hw := d.Hardware()

	if hw.MCG.S.Get()&sOSCINIT0 != 0 {
		t.Error("OSCINIT0 set with oscillator disabled")
	}
	hw.OSC.CR.SetBits(crERCLKEN)
	if hw.MCG.S.Get()&sOSCINIT0 == 0 {
		t.Error("OSCINIT0 clear after ERCLKEN")
	}

	// Non-crystal references report ready when selected.
	d.Reset()
	hw.MCG.C7.ReplaceBits(2, c7OSCSELMask, 0) // IRC48M
	if hw.MCG.S.Get()&sOSCINIT0 == 0 {
		t.Error("OSCINIT0 clear with IRC48M selected")
	}
}

func TestPMPROTWriteOnce(t *testing.T) {
	d := New()
	hw := d.Hardware()

	hw.SMC.PMPROT.Set(pmprotAHSRUN)
	if hw.SMC.PMPROT.Get() != pmprotAHSRUN {
		t.Fatalf("PMPROT = %#02x after first write", hw.SMC.PMPROT.Get())
	}

	// A second write is ignored by the hardware.
	hw.SMC.PMPROT.Set(0x00)
	if hw.SMC.PMPROT.Get() != pmprotAHSRUN {
		t.Errorf("PMPROT = %#02x after second write, want unchanged", hw.SMC.PMPROT.Get())
	}
}

func TestHSRUNRequiresProtection(t *testing.T) {
	d := New()
	hw := d.Hardware()

	// HSRUN request without the protection unlock never completes.
	hw.SMC.PMCTRL.ReplaceBits(runmHSRUN, pmctrlRUNMMask, pmctrlRUNMShift)
	if hw.SMC.PMSTAT.Get() == pmstatHSRUN {
		t.Fatal("PMSTAT reports HSRUN without PMPROT unlock")
	}

	d.Reset()
	hw.SMC.PMPROT.Set(pmprotAHSRUN)
	hw.SMC.PMCTRL.ReplaceBits(runmHSRUN, pmctrlRUNMMask, pmctrlRUNMShift)
	if hw.SMC.PMSTAT.Get() != pmstatHSRUN {
		t.Errorf("PMSTAT = %#02x, want HSRUN", hw.SMC.PMSTAT.Get())
	}
}

func TestWriteCounters(t *testing.T) {
	d := New()
	hw := d.Hardware()

	hw.MCG.C1.SetBits(c1IREFS)
	hw.MCG.C1.ClearBits(c1IREFS)
	hw.MCG.C2.SetBits(c2LP)
	hw.SIM.CLKDIV1.Set(0x1234_0000)

	if got := d.RegWrites("MCG_C1"); got != 2 {
		t.Errorf("MCG_C1 writes = %d, want 2", got)
	}
	if got := d.RegWrites("MCG_C2"); got != 1 {
		t.Errorf("MCG_C2 writes = %d, want 1", got)
	}
	if got := d.RegWrites("SIM_CLKDIV1"); got != 1 {
		t.Errorf("SIM_CLKDIV1 writes = %d, want 1", got)
	}
	if got := d.Writes(); got != 4 {
		t.Errorf("total writes = %d, want 4", got)
	}

	// Status reads are free.
	_ = hw.MCG.S.Get()
	if got := d.Writes(); got != 4 {
		t.Errorf("total writes after read = %d, want 4", got)
	}
}

func TestFreezeStatus(t *testing.T) {
	d := New()
	hw := d.Hardware()

	d.FreezeStatus()
	hw.MCG.C1.ReplaceBits(srcExternal, c1CLKSMask, c1CLKSShift)
	if got := hw.MCG.S.Get() >> sCLKSTShift & 0x3; got != srcFLL {
		t.Errorf("frozen CLKST = %d, want stale FLL", got)
	}

	d.ThawStatus()
	if got := hw.MCG.S.Get() >> sCLKSTShift & 0x3; got != srcExternal {
		t.Errorf("thawed CLKST = %d, want external", got)
	}
}
