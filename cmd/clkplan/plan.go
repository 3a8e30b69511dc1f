package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hchiang/mk66clk/clock"
	"github.com/hchiang/mk66clk/hal/sim"
	"github.com/hchiang/mk66clk/mcg"
	"github.com/hchiang/mk66clk/osc"
	"github.com/hchiang/mk66clk/smc"
)

var (
	planOpts = struct {
		mode string
		freq uint32
		ref  string
		fast bool
	}{}

	planCmd = &cobra.Command{
		Use:   "plan",
		Short: "Print the transitions a clock change would perform",
		Long: "Plan drives the requested configuration on a simulated device in its\n" +
			"power-on state and prints every MCG transition, divider write, and\n" +
			"run-mode change in order.",
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := parseTarget()
			if err != nil {
				return err
			}
			return plan(cmd, target)
		},
	}
)

func init() {
	planCmd.Flags().StringVarP(&planOpts.mode, "mode", "m", "PEE", "target MCG mode (FEI, FEE, FBI, FBE, PBE, PEE, BLPI, BLPE)")
	planCmd.Flags().Uint32VarP(&planOpts.freq, "freq", "f", 180, "PLL/FLL output frequency in MHz")
	planCmd.Flags().StringVarP(&planOpts.ref, "ref", "r", "oscillator", "external reference (oscillator, rtc32k, irc48m)")
	planCmd.Flags().BoolVar(&planOpts.fast, "fast-irc", false, "use the 4 MHz internal reference instead of 32.768 kHz")
	rootCmd.AddCommand(planCmd)
}

func parseMode(s string) (mcg.Mode, error) {
	for _, m := range []mcg.Mode{
		mcg.FEI, mcg.FEE, mcg.FBI, mcg.FBE,
		mcg.PBE, mcg.PEE, mcg.BLPI, mcg.BLPE,
	} {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

func parseXtal(s string) (mcg.Xtal, error) {
	switch strings.ToLower(s) {
	case "oscillator", "osc":
		return mcg.Teensy16MHz, nil
	case "rtc32k", "rtc":
		return mcg.Teensy32KHz, nil
	case "irc48m", "irc48":
		return mcg.Teensy48MHz, nil
	}
	return mcg.Xtal{}, fmt.Errorf("unknown reference %q", s)
}

func parseTarget() (mcg.Target, error) {
	mode, err := parseMode(planOpts.mode)
	if err != nil {
		return mcg.Target{}, err
	}
	t := mcg.Target{Mode: mode, FrequencyMHz: planOpts.freq}
	if mode.External() {
		if t.Xtal, err = parseXtal(planOpts.ref); err != nil {
			return mcg.Target{}, err
		}
	} else if planOpts.fast {
		t.Ircs = mcg.FastInternal
	}
	return t, nil
}

// targetCoreHz mirrors the manager's frequency model for display.
func targetCoreHz(t mcg.Target) uint32 {
	switch t.Mode {
	case mcg.PEE, mcg.FEI, mcg.FEE:
		return t.FrequencyMHz * 1_000_000
	case mcg.FBI, mcg.BLPI:
		return t.Ircs.FrequencyHz()
	default:
		return t.Xtal.FrequencyHz
	}
}

func plan(cmd *cobra.Command, target mcg.Target) error {
	if err := target.Validate(); err != nil {
		return err
	}

	hw := sim.New().Hardware()
	drv := mcg.New(hw.MCG)
	oscDrv := osc.New(hw.OSC)
	smcCtl := smc.New(hw.SMC)

	coreHz := targetCoreHz(target)
	busDiv, flashDiv := clock.DividersFor(coreHz)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "target: %s at %d Hz\n", target.State(), coreHz)

	if coreHz > clock.NormalRunMaxHz {
		if err := smcCtl.AllowHighSpeed(); err != nil {
			return err
		}
		if err := smcCtl.EnterHighSpeed(); err != nil {
			return err
		}
		fmt.Fprintln(out, "  run mode: enter high-speed run")
	}
	fmt.Fprintf(out, "  dividers: core /1, bus /%d, flexbus /%d, flash /%d\n",
		busDiv, busDiv, flashDiv)

	if target.Mode.External() && target.Xtal.Clock == mcg.Oscillator {
		oscDrv.Enable(target.Xtal.Load)
		fmt.Fprintf(out, "  oscillator: enable, load %d pF units\n", uint8(target.Xtal.Load))
	}

	cur, err := drv.State()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "  start: %s\n", cur)
	for step := 1; !drv.Reached(target); step++ {
		if step > 7 {
			return fmt.Errorf("no progress after %d steps", step-1)
		}
		st, err := drv.Step(target)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "  step %d: %s -> %s\n", step, cur, st)
		cur = st
	}

	fmt.Fprintf(out, "  result: core %d Hz, bus %d Hz, flash %d Hz\n",
		coreHz, coreHz/busDiv, coreHz/flashDiv)
	return nil
}
