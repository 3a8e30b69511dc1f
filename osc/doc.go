// Package osc drives the MK66 system oscillator's crystal path: enabling
// the external reference clock with a board-specific load capacitance, and
// disabling it when the clock tree no longer references the crystal.
package osc
