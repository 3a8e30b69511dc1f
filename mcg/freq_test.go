package mcg

import (
	"errors"
	"testing"

	"github.com/hchiang/mk66clk/pkg"
)

func TestPLLDividersTable(t *testing.T) {
	// Every supported frequency must satisfy the PLL constraints for a
	// 16 MHz reference: input 8-16 MHz, multiplier 16-47, output =
	// input * multiplier / 2.
	for _, mhz := range SupportedPLLFrequencies() {
		mul, div, err := pllDividers(mhz)
		if err != nil {
			t.Fatalf("pllDividers(%d) = %v", mhz, err)
		}
		input := uint32(16) / div
		if input < 8 || input > 16 {
			t.Errorf("%d MHz: PLL input %d MHz out of range", mhz, input)
		}
		if mul < 16 || mul > 47 {
			t.Errorf("%d MHz: multiplier %d out of range", mhz, mul)
		}
		if out := input * mul / 2; out != mhz {
			t.Errorf("%d MHz: table produces %d MHz", mhz, out)
		}
	}
}

func TestPLLDividersRejectsOffTable(t *testing.T) {
	for _, mhz := range []uint32{0, 63, 66, 121, 177, 184, 200} {
		if _, _, err := pllDividers(mhz); !errors.Is(err, pkg.ErrUnsupportedFrequency) {
			t.Errorf("pllDividers(%d) = %v, want ErrUnsupportedFrequency", mhz, err)
		}
	}
}

func TestFLLDRS(t *testing.T) {
	want := map[uint32]uint8{24: 0, 48: 1, 72: 2, 96: 3}
	for mhz, drs := range want {
		got, err := fllDRS(mhz)
		if err != nil {
			t.Fatalf("fllDRS(%d) = %v", mhz, err)
		}
		if got != drs {
			t.Errorf("fllDRS(%d) = %d, want %d", mhz, got, drs)
		}
	}
	for _, mhz := range []uint32{0, 20, 36, 100, 120} {
		if _, err := fllDRS(mhz); !errors.Is(err, pkg.ErrUnsupportedFrequency) {
			t.Errorf("fllDRS(%d) = %v, want ErrUnsupportedFrequency", mhz, err)
		}
	}
}
